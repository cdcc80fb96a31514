package routingalgorithm_test

import (
	"testing"

	"lintang/navigatorx/pkg/costfunction"
	"lintang/navigatorx/pkg/datastructure"
	"lintang/navigatorx/pkg/engine/routingalgorithm"

	"github.com/stretchr/testify/assert"
)

func sampleWeights() map[datastructure.Edge]float64 {
	return map[datastructure.Edge]float64{
		{From: 1, To: 2}: 7, {From: 1, To: 3}: 9, {From: 1, To: 6}: 14, {From: 2, To: 1}: 7, {From: 2, To: 3}: 10,
		{From: 2, To: 4}: 15, {From: 3, To: 1}: 9, {From: 3, To: 2}: 10, {From: 3, To: 4}: 11, {From: 3, To: 6}: 2,
		{From: 4, To: 2}: 15, {From: 4, To: 3}: 11, {From: 4, To: 5}: 6, {From: 5, To: 4}: 6, {From: 5, To: 6}: 9, {From: 6, To: 1}: 14,
		{From: 6, To: 3}: 2, {From: 6, To: 5}: 9,
	}
}

func sampleGraph() *datastructure.AdjacencyGraph {
	edges := []datastructure.Edge{}
	for e := range sampleWeights() {
		edges = append(edges, e)
	}
	return datastructure.NewAdjacencyGraph([]datastructure.VertexID{1, 2, 3, 4, 5, 6}, edges)
}

func TestLeastCostPath(t *testing.T) {
	engine := routingalgorithm.NewPathEngine(sampleGraph(), costfunction.WeightTable(sampleWeights()))

	t.Run("sample graph 1 to 5", func(t *testing.T) {
		res := engine.Search(1, 5)
		assert.True(t, res.Found)
		assert.Equal(t, []datastructure.VertexID{1, 3, 6, 5}, res.Path)
		assert.Equal(t, 20.0, res.Cost)
		assert.Equal(t, []datastructure.VertexID{1, 3, 6, 5}, engine.LeastCostPath(1, 5))
	})

	t.Run("reverse direction", func(t *testing.T) {
		assert.Equal(t, []datastructure.VertexID{5, 6, 3, 1}, engine.LeastCostPath(5, 1))
	})

	t.Run("start equals dest without queue work", func(t *testing.T) {
		for v := datastructure.VertexID(1); v <= 6; v++ {
			res := engine.Search(v, v)
			assert.Equal(t, []datastructure.VertexID{v}, res.Path)
			assert.Equal(t, routingalgorithm.Stats{}, res.Stats)
		}
	})

	t.Run("unknown endpoints", func(t *testing.T) {
		assert.Equal(t, []datastructure.VertexID{}, engine.LeastCostPath(1, 42))
		assert.Equal(t, []datastructure.VertexID{}, engine.LeastCostPath(42, 1))
		assert.Equal(t, []datastructure.VertexID{}, engine.LeastCostPath(42, 42))
	})

	t.Run("pops never exceed pushes", func(t *testing.T) {
		res := engine.Search(1, 4)
		assert.LessOrEqual(t, res.Stats.Pops, res.Stats.Pushes)
		assert.Equal(t, []datastructure.VertexID{1, 3, 4}, res.Path)
	})
}

func TestSearchStats(t *testing.T) {
	weights := map[datastructure.Edge]float64{
		{From: 1, To: 2}: 1, {From: 1, To: 3}: 5, {From: 2, To: 1}: 3,
		{From: 2, To: 3}: 1, {From: 3, To: 4}: 4,
	}
	edges := []datastructure.Edge{}
	for e := range weights {
		edges = append(edges, e)
	}
	g := datastructure.NewAdjacencyGraph(nil, edges)
	engine := routingalgorithm.NewPathEngine(g, costfunction.WeightTable(weights))

	// every neighbour is pushed, settled ones included, so 1 and 3 come back as stale pops
	res := engine.Search(1, 4)
	assert.True(t, res.Found)
	assert.Equal(t, []datastructure.VertexID{1, 2, 3, 4}, res.Path)
	assert.Equal(t, 6.0, res.Cost)
	assert.Equal(t, routingalgorithm.Stats{Pushes: 6, Pops: 6, Stale: 2}, res.Stats)
}

func TestLeastCostPathUnreachable(t *testing.T) {
	g := datastructure.NewAdjacencyGraph([]datastructure.VertexID{1, 2, 3, 4}, []datastructure.Edge{
		{From: 1, To: 2}, {From: 3, To: 1},
	})
	engine := routingalgorithm.NewPathEngine(g, costfunction.WeightTable(map[datastructure.Edge]float64{
		{From: 1, To: 2}: 1, {From: 3, To: 1}: 1,
	}))

	res := engine.Search(1, 3)
	assert.False(t, res.Found)
	assert.Equal(t, []datastructure.VertexID{}, res.Path)

	assert.Equal(t, []datastructure.VertexID{}, engine.LeastCostPath(1, 4))
	assert.Equal(t, []datastructure.VertexID{3, 1, 2}, engine.LeastCostPath(3, 2))
}

func TestLeastCostPathCostMap(t *testing.T) {
	// square 1-2-3-4 with a long diagonal 1-3
	attrs := datastructure.VertexAttributes{
		1: {Lat: 0, Lon: 0},
		2: {Lat: 0, Lon: 10},
		3: {Lat: 10, Lon: 10},
		4: {Lat: 10, Lon: 0},
		5: {Lat: 5, Lon: 5},
	}
	g := datastructure.NewAdjacencyGraph(nil, []datastructure.Edge{
		{From: 1, To: 2}, {From: 2, To: 3}, {From: 1, To: 4}, {From: 4, To: 3}, {From: 1, To: 5}, {From: 5, To: 3},
	})
	engine := routingalgorithm.NewPathEngine(g, costfunction.BuildCostMap(g, attrs).Cost)

	res := engine.Search(1, 3)
	assert.Equal(t, []datastructure.VertexID{1, 5, 3}, res.Path)
	assert.InDelta(t, 14.142, res.Cost, 0.001)
}

func TestBackTrack(t *testing.T) {
	pred := map[datastructure.VertexID]datastructure.VertexID{1: 1, 2: 4, 5: 6, 9: 2}

	t.Run("walk to the root", func(t *testing.T) {
		assert.Equal(t, []datastructure.VertexID{4, 2, 9}, routingalgorithm.BackTrack(pred, 9))
	})

	t.Run("absent target", func(t *testing.T) {
		assert.Equal(t, []datastructure.VertexID{}, routingalgorithm.BackTrack(pred, 10))
	})

	t.Run("self loop predecessor", func(t *testing.T) {
		assert.Equal(t, []datastructure.VertexID{1}, routingalgorithm.BackTrack(pred, 1))
	})

	t.Run("cycle guard", func(t *testing.T) {
		cyclic := map[datastructure.VertexID]datastructure.VertexID{1: 2, 2: 3, 3: 1}
		assert.Equal(t, []datastructure.VertexID{3, 2, 1}, routingalgorithm.BackTrack(cyclic, 1))
	})
}
