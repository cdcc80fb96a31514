package main

import (
	"context"
	"errors"

	"lintang/navigatorx/pkg/config"
	"lintang/navigatorx/pkg/datastructure"
	"lintang/navigatorx/pkg/kv"
	"lintang/navigatorx/pkg/osmparser"

	"github.com/cockroachdb/pebble"
	"golang.org/x/exp/slog"
)

// loadNetwork prefers the snapshot written by preprocessing and falls back to parsing the source.
func loadNetwork(ctx context.Context, cfg config.Config, log *slog.Logger) (datastructure.RoadNetwork, error) {
	if cfg.Graph.SnapshotDir != "" {
		db, err := pebble.Open(cfg.Graph.SnapshotDir, &pebble.Options{ErrorIfNotExists: true, ReadOnly: true})
		if err == nil {
			kvDB := kv.NewKVDB(db)
			defer kvDB.Close()

			key := kv.SnapshotKey(cfg.Graph.Source)
			network, err := kvDB.LoadNetwork(key)
			if err == nil {
				log.Info("road network loaded from snapshot", "dir", cfg.Graph.SnapshotDir, "key", key)
				return network, nil
			}
			if !errors.Is(err, kv.ErrSnapshotNotFound) {
				return network, err
			}
			log.Info("no snapshot for source, parsing it", "key", key)
		} else {
			log.Debug("snapshot store not available", "dir", cfg.Graph.SnapshotDir, "err", err)
		}
	}
	return osmparser.LoadSource(ctx, cfg.Graph.Source, cfg.GraphFormat(), cfg.Graph.UnitsPerDegree, log, false)
}
