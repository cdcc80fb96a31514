package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"lintang/navigatorx/pkg/config"
	"lintang/navigatorx/pkg/kv"
	"lintang/navigatorx/pkg/osmparser"
	"lintang/navigatorx/pkg/util"

	"github.com/cockroachdb/pebble"
	"golang.org/x/exp/slog"
)

var (
	configFile  = flag.String("config", "", "yaml config file")
	mapFile     = flag.String("f", "", "road network file (.csv or .osm.pbf), overrides graph.source")
	snapshotDir = flag.String("db", "", "pebble snapshot directory, overrides graph.snapshot-dir")
)

// preprocessing parses the road network once and stores it as a pebble snapshot that navserver
// loads at startup.
func main() {
	flag.Parse()

	cfg := config.Default()
	if *configFile != "" {
		var err error
		if cfg, err = config.ReadConfig(*configFile); err != nil {
			slog.Error("failed to read config", "err", err)
			os.Exit(1)
		}
	}
	if *mapFile != "" {
		cfg.Graph.Source = *mapFile
	}
	if *snapshotDir != "" {
		cfg.Graph.SnapshotDir = *snapshotDir
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "err", err)
		os.Exit(1)
	}
	level, _ := config.ParseLevel(cfg.Log.Level)
	log := util.NewLogger(level, cfg.Log.JSON, os.Stderr)

	network, err := osmparser.LoadSource(context.Background(), cfg.Graph.Source, cfg.GraphFormat(),
		cfg.Graph.UnitsPerDegree, log, true)
	if err != nil {
		log.Error("failed to load road network", "source", cfg.Graph.Source, "err", err)
		os.Exit(1)
	}

	db, err := pebble.Open(cfg.Graph.SnapshotDir, &pebble.Options{})
	if err != nil {
		log.Error("failed to open snapshot store", "dir", cfg.Graph.SnapshotDir, "err", err)
		os.Exit(1)
	}
	kvDB := kv.NewKVDB(db).WithProgress(true)
	defer kvDB.Close()

	key := kv.SnapshotKey(cfg.Graph.Source)
	if err := kvDB.SaveNetwork(key, network); err != nil {
		log.Error("failed to save snapshot", "key", key, "err", err)
		os.Exit(1)
	}

	fmt.Println("")
	log.Info("road network snapshot saved", "key", key, "vertices", network.Graph.NumVertices(),
		"edges", network.Graph.NumEdges())
}
