package snapping

import (
	"math"
	"sort"

	"lintang/navigatorx/pkg/costfunction"
	"lintang/navigatorx/pkg/datastructure"
)

// Locator snaps an arbitrary coordinate to the closest known vertex.
type Locator interface {
	ClosestVertex(lat, lon float64) datastructure.VertexID
}

type vertexCoord struct {
	id    datastructure.VertexID
	coord datastructure.Coordinate
}

// LinearLocator scans every vertex. Vertices are scanned in ascending id order so on equal
// distance the smallest id wins.
type LinearLocator struct {
	vertices []vertexCoord
}

func NewLinearLocator(attrs datastructure.VertexAttributes) *LinearLocator {
	return &LinearLocator{vertices: sortedVertices(attrs)}
}

// ClosestVertex returns datastructure.UnknownVertex when there are no vertices.
func (l *LinearLocator) ClosestVertex(lat, lon float64) datastructure.VertexID {
	query := datastructure.NewCoordinate(lat, lon)
	best := datastructure.UnknownVertex
	bestDist := math.Inf(1)
	for _, v := range l.vertices {
		dist := costfunction.EuclideanDistance(query, v.coord)
		if dist < bestDist {
			bestDist = dist
			best = v.id
		}
	}
	return best
}

func sortedVertices(attrs datastructure.VertexAttributes) []vertexCoord {
	vertices := make([]vertexCoord, 0, len(attrs))
	for id, c := range attrs {
		vertices = append(vertices, vertexCoord{id: id, coord: c})
	}
	sort.Slice(vertices, func(i, j int) bool {
		return vertices[i].id < vertices[j].id
	})
	return vertices
}
