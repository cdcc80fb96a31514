package snapping

import (
	"lintang/navigatorx/pkg/costfunction"
	"lintang/navigatorx/pkg/datastructure"

	"github.com/dhconnelly/rtreego"
)

const (
	tol          = 0.0000001
	rtreeMinNode = 25
	rtreeMaxNode = 50
)

type vertexRect struct {
	location rtreego.Point
	vertex   vertexCoord
}

func (v *vertexRect) Bounds() rtreego.Rect {
	return v.location.ToRect(tol)
}

// RTreeLocator answers ClosestVertex from an r-tree instead of a full scan. Returns the same
// vertex as LinearLocator, ties included.
type RTreeLocator struct {
	tree *rtreego.Rtree
}

func NewRTreeLocator(attrs datastructure.VertexAttributes) *RTreeLocator {
	tree := rtreego.NewTree(2, rtreeMinNode, rtreeMaxNode) // 2 dimension (lat, lon)
	for _, v := range sortedVertices(attrs) {
		tree.Insert(&vertexRect{
			location: rtreego.Point{v.coord.Lat, v.coord.Lon},
			vertex:   v,
		})
	}
	return &RTreeLocator{tree: tree}
}

func (r *RTreeLocator) ClosestVertex(lat, lon float64) datastructure.VertexID {
	if r.tree.Size() == 0 {
		return datastructure.UnknownVertex
	}

	query := datastructure.NewCoordinate(lat, lon)
	nearest, ok := r.tree.NearestNeighbor(rtreego.Point{lat, lon}).(*vertexRect)
	if !ok {
		return datastructure.UnknownVertex
	}
	best := nearest.vertex.id
	bestDist := costfunction.EuclideanDistance(query, nearest.vertex.coord)

	// every vertex tied with nearest lies inside this box
	reach := bestDist + 2*tol
	box, err := rtreego.NewRect(rtreego.Point{lat - reach, lon - reach}, []float64{2 * reach, 2 * reach})
	if err != nil {
		return best
	}
	for _, s := range r.tree.SearchIntersect(box) {
		v := s.(*vertexRect).vertex
		dist := costfunction.EuclideanDistance(query, v.coord)
		if dist < bestDist || (dist == bestDist && v.id < best) {
			bestDist = dist
			best = v.id
		}
	}
	return best
}
