package routingalgorithm

import (
	"lintang/navigatorx/pkg/costfunction"
	"lintang/navigatorx/pkg/datastructure"
)

// vertexState cost and pred are final once settled.
type vertexState struct {
	settled bool
	cost    float64
	pred    int32
}

// edgeEntry heap payload (prev, curr) as dense vertex indexes.
type edgeEntry struct {
	prev int32
	curr int32
}

type Stats struct {
	Pushes int
	Pops   int
	Stale  int
}

type SearchResult struct {
	Path  []datastructure.VertexID
	Cost  float64
	Found bool
	Stats Stats
}

// PathEngine uniform cost search over a read-only graph. Safe for concurrent use, every
// search allocates its own state arena.
type PathEngine struct {
	g     datastructure.Graph
	cost  costfunction.CostFunction
	index map[datastructure.VertexID]int32
	ids   []datastructure.VertexID
}

func NewPathEngine(g datastructure.Graph, cost costfunction.CostFunction) *PathEngine {
	ids := g.Vertices()
	index := make(map[datastructure.VertexID]int32, len(ids))
	for i, v := range ids {
		index[v] = int32(i)
	}
	return &PathEngine{g: g, cost: cost, index: index, ids: ids}
}

// LeastCostPath returns the vertices of a least cost path from start to dest, both inclusive.
// The path is empty if start or dest is not in the graph or dest is unreachable.
func (e *PathEngine) LeastCostPath(start, dest datastructure.VertexID) []datastructure.VertexID {
	return e.Search(start, dest).Path
}

// Search lazy deletion dijkstra. Every relaxation pushes a new ((curr, nb), cost) entry, stale
// entries of already settled vertices are dropped when popped. O(E log E).
func (e *PathEngine) Search(start, dest datastructure.VertexID) SearchResult {
	startIdx, okStart := e.index[start]
	destIdx, okDest := e.index[dest]
	if !okStart || !okDest {
		return SearchResult{Path: []datastructure.VertexID{}}
	}
	if start == dest {
		return SearchResult{Path: []datastructure.VertexID{start}, Found: true}
	}

	var stats Stats
	states := make([]vertexState, len(e.ids))
	pq := datastructure.NewMinHeap[edgeEntry]()
	pq.Add(edgeEntry{prev: startIdx, curr: startIdx}, 0)
	stats.Pushes++

	for pq.Size() > 0 {
		node, err := pq.ExtractMin()
		if err != nil {
			break
		}
		stats.Pops++

		curr := node.Item.curr
		if states[curr].settled {
			stats.Stale++
			continue
		}
		states[curr] = vertexState{settled: true, cost: node.Rank, pred: node.Item.prev}
		if curr == destIdx {
			break
		}

		currID := e.ids[curr]
		for _, nb := range e.g.Neighbours(currID) {
			nbIdx, ok := e.index[nb]
			if !ok {
				continue
			}
			pq.Add(edgeEntry{prev: curr, curr: nbIdx}, node.Rank+e.cost(currID, nb))
			stats.Pushes++
		}
	}

	if !states[destIdx].settled {
		return SearchResult{Path: []datastructure.VertexID{}, Stats: stats}
	}

	path := backTrack(dest, func(v datastructure.VertexID) (datastructure.VertexID, bool) {
		st := states[e.index[v]]
		if !st.settled {
			return 0, false
		}
		return e.ids[st.pred], true
	})
	return SearchResult{Path: path, Cost: states[destIdx].cost, Found: true, Stats: stats}
}
