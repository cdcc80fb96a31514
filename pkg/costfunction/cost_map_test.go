package costfunction_test

import (
	"math"
	"testing"

	"lintang/navigatorx/pkg/costfunction"
	"lintang/navigatorx/pkg/datastructure"

	"github.com/stretchr/testify/assert"
)

func TestBuildCostMap(t *testing.T) {
	g := datastructure.NewAdjacencyGraph(nil, []datastructure.Edge{
		{From: 1, To: 2}, {From: 2, To: 1}, {From: 2, To: 3},
	})
	attrs := datastructure.VertexAttributes{
		1: {Lat: 0, Lon: 0},
		2: {Lat: 3, Lon: 4},
	}

	cm := costfunction.BuildCostMap(g, attrs)

	t.Run("euclidean cost per directed edge", func(t *testing.T) {
		assert.Equal(t, 3, cm.Len())
		assert.Equal(t, 5.0, cm.Cost(1, 2))
		assert.Equal(t, 5.0, cm.Cost(2, 1))
	})

	t.Run("missing attributes default to origin", func(t *testing.T) {
		assert.Equal(t, 5.0, cm.Cost(2, 3))
	})

	t.Run("unknown edge is infinite", func(t *testing.T) {
		assert.True(t, math.IsInf(cm.Cost(1, 3), 1))
	})
}

func TestBuildCostMapManyBatches(t *testing.T) {
	edges := []datastructure.Edge{}
	attrs := datastructure.VertexAttributes{}
	n := 10000
	for i := 0; i < n; i++ {
		attrs[datastructure.VertexID(i)] = datastructure.NewCoordinate(float64(i), 0)
		edges = append(edges, datastructure.Edge{From: datastructure.VertexID(i), To: datastructure.VertexID(i + 1)})
	}
	cm := costfunction.BuildCostMap(datastructure.NewAdjacencyGraph(nil, edges), attrs)

	assert.Equal(t, n, cm.Len())
	for i := 0; i < n-1; i++ {
		assert.Equal(t, 1.0, cm.Cost(datastructure.VertexID(i), datastructure.VertexID(i+1)))
	}
	// vertex n has no attributes so it sits at the origin
	assert.Equal(t, float64(n-1), cm.Cost(datastructure.VertexID(n-1), datastructure.VertexID(n)))
}

func TestWeightTable(t *testing.T) {
	cost := costfunction.WeightTable(map[datastructure.Edge]float64{{From: 1, To: 2}: 7})
	assert.Equal(t, 7.0, cost(1, 2))
	assert.True(t, math.IsInf(cost(2, 1), 1))
}
