package datastructure

import (
	"errors"
	"sort"
)

type VertexID int64

// UnknownVertex is returned by lookups that could not resolve any vertex.
const UnknownVertex VertexID = -1

// Edge directed edge (From, To).
type Edge struct {
	From VertexID
	To   VertexID
}

// Graph is the read-only road network the engine searches over.
type Graph interface {
	IsVertex(v VertexID) bool
	// Vertices returns every vertex in ascending id order.
	Vertices() []VertexID
	Neighbours(v VertexID) []VertexID
	Edges() []Edge
}

// VertexAttributes maps a vertex to its coordinate.
type VertexAttributes map[VertexID]Coordinate

func (a VertexAttributes) Get(id VertexID) (Coordinate, bool) {
	c, ok := a[id]
	return c, ok
}

// Retrieve returns the coordinate of id or (0,0) if id has no recorded coordinate.
func (a VertexAttributes) Retrieve(id VertexID) Coordinate {
	return a[id]
}

// AdjacencyGraph immutable directed graph stored as out-adjacency lists.
type AdjacencyGraph struct {
	vertices  map[VertexID]struct{}
	order     []VertexID
	outEdges  map[VertexID][]VertexID
	edgeCount int
}

// NewAdjacencyGraph builds the graph. Edge endpoints missing from vertices are added as
// vertices, duplicate edges are kept once.
func NewAdjacencyGraph(vertices []VertexID, edges []Edge) *AdjacencyGraph {
	g := &AdjacencyGraph{
		vertices: make(map[VertexID]struct{}, len(vertices)),
		outEdges: make(map[VertexID][]VertexID),
	}
	for _, v := range vertices {
		g.addVertex(v)
	}

	seen := make(map[Edge]struct{}, len(edges))
	for _, e := range edges {
		if _, ok := seen[e]; ok {
			continue
		}
		seen[e] = struct{}{}
		g.addVertex(e.From)
		g.addVertex(e.To)
		g.outEdges[e.From] = append(g.outEdges[e.From], e.To)
		g.edgeCount++
	}

	sort.Slice(g.order, func(i, j int) bool {
		return g.order[i] < g.order[j]
	})
	return g
}

func (g *AdjacencyGraph) addVertex(v VertexID) {
	if _, ok := g.vertices[v]; ok {
		return
	}
	g.vertices[v] = struct{}{}
	g.order = append(g.order, v)
}

func (g *AdjacencyGraph) IsVertex(v VertexID) bool {
	_, ok := g.vertices[v]
	return ok
}

func (g *AdjacencyGraph) Vertices() []VertexID {
	return g.order
}

func (g *AdjacencyGraph) Neighbours(v VertexID) []VertexID {
	return g.outEdges[v]
}

// Edges enumerates every edge grouped by source vertex in ascending id order.
func (g *AdjacencyGraph) Edges() []Edge {
	edges := make([]Edge, 0, g.edgeCount)
	for _, from := range g.order {
		for _, to := range g.outEdges[from] {
			edges = append(edges, Edge{From: from, To: to})
		}
	}
	return edges
}

func (g *AdjacencyGraph) NumVertices() int {
	return len(g.order)
}

func (g *AdjacencyGraph) NumEdges() int {
	return g.edgeCount
}

// RoadNetwork is what a graph loader hands to the engine.
type RoadNetwork struct {
	Graph      *AdjacencyGraph
	Attributes VertexAttributes
}

// ErrUnknownVertex a coordinate or id could not be resolved to a vertex of the road network.
var ErrUnknownVertex = errors.New("unknown vertex")
