package datastructure

import (
	"github.com/golang/geo/s2"
	"github.com/twpayne/go-polyline"
)

const earthRadiusKM = 6371.01

type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

func NewCoordinate(lat, lon float64) Coordinate {
	return Coordinate{
		Lat: lat,
		Lon: lon,
	}
}

// Degrees converts a coordinate stored in graph units (unitsPerDegree per degree) to degrees.
func (c Coordinate) Degrees(unitsPerDegree float64) Coordinate {
	if unitsPerDegree == 0 {
		unitsPerDegree = 1
	}
	return Coordinate{Lat: c.Lat / unitsPerDegree, Lon: c.Lon / unitsPerDegree}
}

// PathLengthKm great-circle length of the polyline through coords.
func PathLengthKm(coords []Coordinate, unitsPerDegree float64) float64 {
	total := 0.0
	for i := 1; i < len(coords); i++ {
		a := coords[i-1].Degrees(unitsPerDegree)
		b := coords[i].Degrees(unitsPerDegree)
		angle := s2.LatLngFromDegrees(a.Lat, a.Lon).Distance(s2.LatLngFromDegrees(b.Lat, b.Lon))
		total += angle.Radians() * earthRadiusKM
	}
	return total
}

// RenderPath encodes the path as a google polyline.
func RenderPath(coords []Coordinate, unitsPerDegree float64) string {
	points := make([][]float64, 0, len(coords))
	for _, c := range coords {
		d := c.Degrees(unitsPerDegree)
		points = append(points, []float64{d.Lat, d.Lon})
	}
	return string(polyline.EncodeCoords(points))
}
