package routingalgorithm

import (
	"lintang/navigatorx/pkg/datastructure"
	"lintang/navigatorx/pkg/util"
)

// BackTrack rebuilds the path ending at dest from a predecessor map. The walk stops at a vertex
// without predecessor or when it would revisit a collected vertex. Empty if dest is not in pred.
func BackTrack(pred map[datastructure.VertexID]datastructure.VertexID, dest datastructure.VertexID) []datastructure.VertexID {
	if _, ok := pred[dest]; !ok {
		return []datastructure.VertexID{}
	}
	return backTrack(dest, func(v datastructure.VertexID) (datastructure.VertexID, bool) {
		p, ok := pred[v]
		return p, ok
	})
}

func backTrack(dest datastructure.VertexID, predecessor func(datastructure.VertexID) (datastructure.VertexID, bool)) []datastructure.VertexID {
	walk := []datastructure.VertexID{}
	found := make(map[datastructure.VertexID]struct{})

	cur := dest
	for {
		if _, ok := found[cur]; ok {
			break
		}
		found[cur] = struct{}{}
		walk = append(walk, cur)

		prev, ok := predecessor(cur)
		if !ok {
			break
		}
		cur = prev
	}

	util.ReverseG(walk)
	return walk
}
