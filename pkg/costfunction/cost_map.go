package costfunction

import (
	"math"
	"runtime"

	"lintang/navigatorx/pkg/concurrent"
	"lintang/navigatorx/pkg/datastructure"
)

const edgeBatchSize = 4096

// CostFunction returns the cost of the directed edge (from, to). +Inf means the edge does not exist.
type CostFunction func(from, to datastructure.VertexID) float64

// CostMap precomputed straight-line cost of every edge. Read only after BuildCostMap.
type CostMap struct {
	costs map[datastructure.Edge]float64
}

type edgeCost struct {
	edge datastructure.Edge
	cost float64
}

// BuildCostMap computes the euclidean distance between the endpoints of every edge of g.
// Vertices without attributes sit at (0,0).
func BuildCostMap(g datastructure.Graph, attrs datastructure.VertexAttributes) *CostMap {
	edges := g.Edges()
	batches := (len(edges) + edgeBatchSize - 1) / edgeBatchSize

	workers := concurrent.NewWorkerPool[concurrent.Job[[]datastructure.Edge], []edgeCost](runtime.NumCPU(), batches)
	for i := 0; i < batches; i++ {
		end := (i + 1) * edgeBatchSize
		if end > len(edges) {
			end = len(edges)
		}
		workers.AddJob(concurrent.Job[[]datastructure.Edge]{ID: i, JobItem: edges[i*edgeBatchSize : end]})
	}
	workers.Close()

	workers.Start(func(job concurrent.Job[[]datastructure.Edge]) []edgeCost {
		res := make([]edgeCost, len(job.JobItem))
		for i, e := range job.JobItem {
			res[i] = edgeCost{e, EuclideanDistance(attrs.Retrieve(e.From), attrs.Retrieve(e.To))}
		}
		return res
	})
	workers.Wait()

	cm := &CostMap{costs: make(map[datastructure.Edge]float64, len(edges))}
	for batch := range workers.CollectResults() {
		for _, ec := range batch {
			cm.costs[ec.edge] = ec.cost
		}
	}
	return cm
}

// EuclideanDistance planar distance sqrt(dlat^2 + dlon^2).
func EuclideanDistance(from, to datastructure.Coordinate) float64 {
	latDif := from.Lat - to.Lat
	lonDif := from.Lon - to.Lon
	return math.Sqrt(latDif*latDif + lonDif*lonDif)
}

// Cost of the edge (from, to), +Inf if the edge was not in the graph.
func (c *CostMap) Cost(from, to datastructure.VertexID) float64 {
	cost, ok := c.costs[datastructure.Edge{From: from, To: to}]
	if !ok {
		return math.Inf(1)
	}
	return cost
}

func (c *CostMap) Len() int {
	return len(c.costs)
}

// WeightTable cost function over explicit edge weights, +Inf for anything else.
func WeightTable(weights map[datastructure.Edge]float64) CostFunction {
	return func(from, to datastructure.VertexID) float64 {
		w, ok := weights[datastructure.Edge{From: from, To: to}]
		if !ok {
			return math.Inf(1)
		}
		return w
	}
}
