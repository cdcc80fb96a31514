package osmparser

import (
	"strings"
	"testing"

	"lintang/navigatorx/pkg/datastructure"

	"github.com/paulmach/osm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCSV(t *testing.T) {
	t.Run("vertices and edges", func(t *testing.T) {
		network, err := LoadCSV(strings.NewReader(`V,1,53.5,-113.25
V,2,53.75,-113.5
# a comment line
V,3,53.625,-113.375

E,1,2,Jasper Avenue
E,2,1,Jasper Avenue
E,2,3
X,ignored
`), 100000)
		require.NoError(t, err)

		assert.Equal(t, []datastructure.VertexID{1, 2, 3}, network.Graph.Vertices())
		assert.Equal(t, []datastructure.Edge{{From: 1, To: 2}, {From: 2, To: 1}, {From: 2, To: 3}}, network.Graph.Edges())
		assert.Equal(t, datastructure.Coordinate{Lat: 5350000, Lon: -11325000}, network.Attributes[1])
		assert.Equal(t, datastructure.Coordinate{Lat: 5362500, Lon: -11337500}, network.Attributes[3])
	})

	t.Run("edge endpoint without vertex record", func(t *testing.T) {
		network, err := LoadCSV(strings.NewReader("V,1,1,1\nE,1,7\n"), 1)
		require.NoError(t, err)
		assert.True(t, network.Graph.IsVertex(7))
		_, ok := network.Attributes.Get(7)
		assert.False(t, ok)
	})

	t.Run("malformed records", func(t *testing.T) {
		for _, input := range []string{
			"V,1,2\n",
			"V,x,1,2\n",
			"V,1,north,2\n",
			"E,1\n",
			"E,1,y\n",
		} {
			_, err := LoadCSV(strings.NewReader(input), 100000)
			assert.ErrorIs(t, err, ErrMalformedRecord, input)
		}
	})
}

func way(id osm.WayID, tags osm.Tags, nodes ...osm.NodeID) *osm.Way {
	w := &osm.Way{ID: id, Tags: tags}
	for _, n := range nodes {
		w.Nodes = append(w.Nodes, osm.WayNode{ID: n})
	}
	return w
}

func TestNetworkBuilder(t *testing.T) {
	b := newNetworkBuilder(100000)
	b.addWay(way(1, osm.Tags{{Key: "highway", Value: "residential"}}, 10, 11, 12))
	b.addWay(way(2, osm.Tags{{Key: "highway", Value: "primary"}, {Key: "oneway", Value: "yes"}}, 12, 13))
	b.addWay(way(3, osm.Tags{{Key: "highway", Value: "secondary"}, {Key: "oneway", Value: "-1"}}, 13, 14))
	b.addWay(way(4, osm.Tags{{Key: "highway", Value: "footway"}}, 14, 15))
	b.addWay(way(5, osm.Tags{{Key: "building", Value: "yes"}}, 20, 21))
	b.addWay(way(6, osm.Tags{{Key: "highway", Value: "service"}, {Key: "access", Value: "private"}}, 30, 31))

	assert.Equal(t, 3, b.ways)
	for _, id := range []osm.NodeID{10, 11, 12, 13, 14} {
		assert.True(t, b.addNode(&osm.Node{ID: id, Lat: 53.5, Lon: -113.25}))
	}
	assert.False(t, b.addNode(&osm.Node{ID: 15, Lat: 1, Lon: 1}))
	assert.Equal(t, 0, b.missingNodes())

	network := b.build()
	assert.Equal(t, []datastructure.Edge{
		{From: 10, To: 11}, {From: 11, To: 10}, {From: 11, To: 12}, {From: 12, To: 11}, {From: 12, To: 13}, {From: 14, To: 13},
	}, network.Graph.Edges())
	assert.Equal(t, datastructure.Coordinate{Lat: 5350000, Lon: -11325000}, network.Attributes[12])
}

func TestIsOsmWayUsedByCars(t *testing.T) {
	assert.True(t, isOsmWayUsedByCars(map[string]string{"highway": "tertiary"}))
	assert.True(t, isOsmWayUsedByCars(map[string]string{"junction": "roundabout"}))
	assert.True(t, isOsmWayUsedByCars(map[string]string{"highway": "bicycle_road", "motorcar": "yes"}))
	assert.False(t, isOsmWayUsedByCars(map[string]string{"highway": "bicycle_road"}))
	assert.False(t, isOsmWayUsedByCars(map[string]string{"highway": "primary", "motor_vehicle": "no"}))
	assert.False(t, isOsmWayUsedByCars(map[string]string{"highway": "steps"}))
	assert.False(t, isOsmWayUsedByCars(map[string]string{"name": "no highway"}))
}
