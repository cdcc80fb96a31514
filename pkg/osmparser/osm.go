package osmparser

import (
	"context"
	"fmt"
	"io"
	"os"

	"lintang/navigatorx/pkg/datastructure"
	"lintang/navigatorx/pkg/util"

	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"golang.org/x/exp/slog"
)

type OSMParser struct {
	unitsPerDegree float64
	log            *slog.Logger
	progress       bool
}

func NewOSMParser(unitsPerDegree float64, log *slog.Logger) *OSMParser {
	return &OSMParser{unitsPerDegree: unitsPerDegree, log: log}
}

// WithProgress shows progress bars while scanning.
func (p *OSMParser) WithProgress(show bool) *OSMParser {
	p.progress = show
	return p
}

func (p *OSMParser) LoadFile(ctx context.Context, path string) (datastructure.RoadNetwork, error) {
	f, err := os.Open(path)
	if err != nil {
		return datastructure.RoadNetwork{}, err
	}
	defer f.Close()
	return p.Load(ctx, f)
}

// Load reads an OpenStreetMap PBF extract in two passes: drivable ways first, then the nodes
// those ways reference. Vertex ids are OSM node ids.
func (p *OSMParser) Load(ctx context.Context, f io.ReadSeeker) (datastructure.RoadNetwork, error) {
	b := newNetworkBuilder(p.unitsPerDegree)

	var bar interface{ Add(int) error }
	if p.progress {
		bar = util.NewProgressBar(-1, "[cyan][1/2][reset] processing openstreetmap ways...")
	}
	scanner := osmpbf.New(ctx, f, 3)
	scanner.SkipNodes = true
	scanner.SkipRelations = true
	for scanner.Scan() {
		if way, ok := scanner.Object().(*osm.Way); ok {
			b.addWay(way)
			if bar != nil {
				bar.Add(1)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		scanner.Close()
		return datastructure.RoadNetwork{}, fmt.Errorf("failed to scan ways: %w", err)
	}
	scanner.Close()

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return datastructure.RoadNetwork{}, err
	}

	if p.progress {
		fmt.Println("")
		bar = util.NewProgressBar(len(b.wayNodes), "[cyan][2/2][reset] processing openstreetmap nodes...")
	}
	scanner = osmpbf.New(ctx, f, 3)
	defer scanner.Close()
	scanner.SkipWays = true
	scanner.SkipRelations = true
	for scanner.Scan() {
		if node, ok := scanner.Object().(*osm.Node); ok && b.addNode(node) && bar != nil {
			bar.Add(1)
		}
	}
	if err := scanner.Err(); err != nil {
		return datastructure.RoadNetwork{}, fmt.Errorf("failed to scan nodes: %w", err)
	}
	if p.progress {
		fmt.Println("")
	}

	network := b.build()
	p.log.Info("openstreetmap road network loaded", "ways", b.ways, "vertices", network.Graph.NumVertices(),
		"edges", network.Graph.NumEdges(), "missing_nodes", b.missingNodes())
	return network, nil
}

type networkBuilder struct {
	unitsPerDegree float64
	wayNodes       map[osm.NodeID]struct{}
	edges          []datastructure.Edge
	attrs          datastructure.VertexAttributes
	ways           int
}

func newNetworkBuilder(unitsPerDegree float64) *networkBuilder {
	return &networkBuilder{
		unitsPerDegree: unitsPerDegree,
		wayNodes:       make(map[osm.NodeID]struct{}),
		attrs:          make(datastructure.VertexAttributes),
	}
}

// addWay consecutive way nodes become edges, both directions unless the way is oneway.
func (b *networkBuilder) addWay(way *osm.Way) {
	tags := way.TagMap()
	if !isOsmWayUsedByCars(tags) || len(way.Nodes) < 2 {
		return
	}
	b.ways++

	forward, backward := true, true
	switch tags["oneway"] {
	case "yes", "true", "1":
		backward = false
	case "-1", "reverse":
		forward = false
	}
	if tags["junction"] == "roundabout" && tags["oneway"] == "" {
		backward = false
	}

	for i, n := range way.Nodes {
		b.wayNodes[n.ID] = struct{}{}
		if i == 0 {
			continue
		}
		from := datastructure.VertexID(way.Nodes[i-1].ID)
		to := datastructure.VertexID(n.ID)
		if forward {
			b.edges = append(b.edges, datastructure.Edge{From: from, To: to})
		}
		if backward {
			b.edges = append(b.edges, datastructure.Edge{From: to, To: from})
		}
	}
}

// addNode records the coordinate of a node referenced by a kept way.
func (b *networkBuilder) addNode(node *osm.Node) bool {
	if _, ok := b.wayNodes[node.ID]; !ok {
		return false
	}
	b.attrs[datastructure.VertexID(node.ID)] = toGraphUnits(node.Lat, node.Lon, b.unitsPerDegree)
	return true
}

func (b *networkBuilder) missingNodes() int {
	return len(b.wayNodes) - len(b.attrs)
}

func (b *networkBuilder) build() datastructure.RoadNetwork {
	return datastructure.RoadNetwork{
		Graph:      datastructure.NewAdjacencyGraph(nil, b.edges),
		Attributes: b.attrs,
	}
}

func isOsmWayUsedByCars(tagMap map[string]string) bool {
	_, ok := tagMap["junction"]
	if ok {
		return true
	}

	highway, okHW := tagMap["highway"]
	if !okHW {
		return false
	}

	motorcar, ok := tagMap["motorcar"]
	if ok && motorcar == "no" {
		return false
	}

	motorVehicle, ok := tagMap["motor_vehicle"]
	if ok && motorVehicle == "no" {
		return false
	}

	access, ok := tagMap["access"]
	if ok {
		if !(access == "yes" || access == "permissive" || access == "designated" || access == "delivery" || access == "destination") {
			return false
		}
	}

	switch highway {
	case "motorway", "trunk", "primary", "secondary", "tertiary", "unclassified", "residential",
		"living_street", "service", "motorway_link", "trunk_link", "primary_link", "secondary_link",
		"tertiary_link", "road":
		return true
	case "bicycle_road":
		return motorcar == "yes"
	default:
		return false
	}
}
