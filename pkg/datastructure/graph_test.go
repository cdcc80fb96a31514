package datastructure_test

import (
	"testing"

	"lintang/navigatorx/pkg/datastructure"

	"github.com/stretchr/testify/assert"
)

func TestAdjacencyGraph(t *testing.T) {
	g := datastructure.NewAdjacencyGraph([]datastructure.VertexID{3, 1, 2}, []datastructure.Edge{
		{From: 1, To: 2}, {From: 1, To: 3}, {From: 1, To: 2}, {From: 2, To: 9},
	})

	t.Run("vertices sorted and edge endpoints added", func(t *testing.T) {
		assert.Equal(t, []datastructure.VertexID{1, 2, 3, 9}, g.Vertices())
		assert.True(t, g.IsVertex(9))
		assert.False(t, g.IsVertex(4))
	})

	t.Run("duplicate edges kept once", func(t *testing.T) {
		assert.Equal(t, 3, g.NumEdges())
		assert.Equal(t, []datastructure.VertexID{2, 3}, g.Neighbours(1))
		assert.Empty(t, g.Neighbours(3))
		assert.Equal(t, []datastructure.Edge{{From: 1, To: 2}, {From: 1, To: 3}, {From: 2, To: 9}}, g.Edges())
	})
}

func TestVertexAttributes(t *testing.T) {
	attrs := datastructure.VertexAttributes{65: {Lat: -54900, Lon: 12828}}
	assert.Equal(t, datastructure.NewCoordinate(-54900, 12828), attrs.Retrieve(65))
	assert.Equal(t, datastructure.Coordinate{}, attrs.Retrieve(67))

	_, ok := attrs.Get(67)
	assert.False(t, ok)
}

func TestPathLengthKm(t *testing.T) {
	// one degree of latitude is ~111.2 km
	coords := []datastructure.Coordinate{{Lat: 5300000, Lon: -11300000}, {Lat: 5400000, Lon: -11300000}}
	assert.InDelta(t, 111.2, datastructure.PathLengthKm(coords, 100000), 0.1)
	assert.Equal(t, 0.0, datastructure.PathLengthKm(coords[:1], 100000))

	assert.NotEmpty(t, datastructure.RenderPath(coords, 100000))
}
