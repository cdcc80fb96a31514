package service

import (
	"context"

	"lintang/navigatorx/pkg/datastructure"
	"lintang/navigatorx/pkg/engine/routingalgorithm"
	"lintang/navigatorx/pkg/server"
)

type Locator interface {
	ClosestVertex(lat, lon float64) datastructure.VertexID
}

type RoutingAlgorithm interface {
	Search(start, dest datastructure.VertexID) routingalgorithm.SearchResult
}

// Route least cost route between two snapped coordinates.
type Route struct {
	Source      datastructure.VertexID
	Dest        datastructure.VertexID
	Vertices    []datastructure.VertexID
	Coordinates []datastructure.Coordinate
	Cost        float64
	DistanceKm  float64
	Found       bool
}

// NavigationService snaps coordinates to the road network and runs the path engine. It only
// reads the graph, so one instance serves the protocol session and the REST handlers at once.
type NavigationService struct {
	locator        Locator
	routing        RoutingAlgorithm
	attrs          datastructure.VertexAttributes
	unitsPerDegree float64
}

func NewNavigationService(locator Locator, routing RoutingAlgorithm, attrs datastructure.VertexAttributes,
	unitsPerDegree float64) *NavigationService {
	return &NavigationService{locator: locator, routing: routing, attrs: attrs, unitsPerDegree: unitsPerDegree}
}

func (uc *NavigationService) ShortestPath(ctx context.Context, srcLat, srcLon float64,
	dstLat float64, dstLon float64) (Route, error) {
	if err := ctx.Err(); err != nil {
		return Route{}, err
	}

	from := uc.locator.ClosestVertex(srcLat, srcLon)
	if from == datastructure.UnknownVertex {
		return Route{}, server.WrapErrorf(datastructure.ErrUnknownVertex, server.ErrNotFound,
			"no vertex near source (%v, %v)", srcLat, srcLon)
	}
	to := uc.locator.ClosestVertex(dstLat, dstLon)
	if to == datastructure.UnknownVertex {
		return Route{}, server.WrapErrorf(datastructure.ErrUnknownVertex, server.ErrNotFound,
			"no vertex near destination (%v, %v)", dstLat, dstLon)
	}

	res := uc.routing.Search(from, to)
	route := Route{Source: from, Dest: to, Vertices: res.Path, Cost: res.Cost, Found: res.Found}
	if !res.Found {
		return route, server.WrapErrorf(nil, server.ErrNotFound, "no path from vertex %d to vertex %d", from, to)
	}

	route.Coordinates = make([]datastructure.Coordinate, 0, len(res.Path))
	for _, v := range res.Path {
		if c, ok := uc.attrs.Get(v); ok {
			route.Coordinates = append(route.Coordinates, c)
		}
	}
	route.DistanceKm = datastructure.PathLengthKm(route.Coordinates, uc.unitsPerDegree)
	return route, nil
}

// VertexCoordinate coordinate of a waypoint vertex.
func (uc *NavigationService) VertexCoordinate(id datastructure.VertexID) (datastructure.Coordinate, bool) {
	return uc.attrs.Get(id)
}

func (uc *NavigationService) UnitsPerDegree() float64 {
	return uc.unitsPerDegree
}
