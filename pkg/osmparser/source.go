package osmparser

import (
	"context"
	"fmt"

	"lintang/navigatorx/pkg/datastructure"

	"golang.org/x/exp/slog"
)

// LoadSource reads a road network file in the given format, csv or osm.
func LoadSource(ctx context.Context, path, format string, unitsPerDegree float64, log *slog.Logger,
	progress bool) (datastructure.RoadNetwork, error) {
	switch format {
	case "csv":
		network, err := LoadCSVFile(path, unitsPerDegree)
		if err != nil {
			return network, err
		}
		log.Info("csv road network loaded", "vertices", network.Graph.NumVertices(), "edges", network.Graph.NumEdges())
		return network, nil
	case "osm":
		return NewOSMParser(unitsPerDegree, log).WithProgress(progress).LoadFile(ctx, path)
	default:
		return datastructure.RoadNetwork{}, fmt.Errorf("unknown road network format %q", format)
	}
}
