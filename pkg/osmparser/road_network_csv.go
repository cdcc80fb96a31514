package osmparser

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"lintang/navigatorx/pkg/datastructure"
)

// ErrMalformedRecord a line of a road network file that could not be parsed.
var ErrMalformedRecord = errors.New("malformed road network record")

// LoadCSVFile see LoadCSV.
func LoadCSVFile(path string, unitsPerDegree float64) (datastructure.RoadNetwork, error) {
	f, err := os.Open(path)
	if err != nil {
		return datastructure.RoadNetwork{}, err
	}
	defer f.Close()
	return LoadCSV(f, unitsPerDegree)
}

// LoadCSV reads a road network made of
//
//	V,<id>,<lat>,<lon>
//	E,<from>,<to>[,<name>]
//
// records. Coordinates are in degrees and are stored truncated to graph units
// (unitsPerDegree units per degree). Edges are directed, records of other kinds are skipped.
func LoadCSV(r io.Reader, unitsPerDegree float64) (datastructure.RoadNetwork, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.Comment = '#'
	reader.TrimLeadingSpace = true

	vertices := []datastructure.VertexID{}
	attrs := make(datastructure.VertexAttributes)
	edges := []datastructure.Edge{}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return datastructure.RoadNetwork{}, err
		}
		line, _ := reader.FieldPos(0)

		switch record[0] {
		case "V":
			if len(record) != 4 {
				return datastructure.RoadNetwork{}, fmt.Errorf("%w: line %d: vertex wants 4 fields", ErrMalformedRecord, line)
			}
			id, err := strconv.ParseInt(record[1], 10, 64)
			if err != nil {
				return datastructure.RoadNetwork{}, fmt.Errorf("%w: line %d: vertex id %q", ErrMalformedRecord, line, record[1])
			}
			lat, err := strconv.ParseFloat(record[2], 64)
			if err != nil {
				return datastructure.RoadNetwork{}, fmt.Errorf("%w: line %d: lat %q", ErrMalformedRecord, line, record[2])
			}
			lon, err := strconv.ParseFloat(record[3], 64)
			if err != nil {
				return datastructure.RoadNetwork{}, fmt.Errorf("%w: line %d: lon %q", ErrMalformedRecord, line, record[3])
			}
			v := datastructure.VertexID(id)
			vertices = append(vertices, v)
			attrs[v] = toGraphUnits(lat, lon, unitsPerDegree)
		case "E":
			if len(record) < 3 {
				return datastructure.RoadNetwork{}, fmt.Errorf("%w: line %d: edge wants at least 3 fields", ErrMalformedRecord, line)
			}
			from, err := strconv.ParseInt(record[1], 10, 64)
			if err != nil {
				return datastructure.RoadNetwork{}, fmt.Errorf("%w: line %d: edge from %q", ErrMalformedRecord, line, record[1])
			}
			to, err := strconv.ParseInt(record[2], 10, 64)
			if err != nil {
				return datastructure.RoadNetwork{}, fmt.Errorf("%w: line %d: edge to %q", ErrMalformedRecord, line, record[2])
			}
			edges = append(edges, datastructure.Edge{From: datastructure.VertexID(from), To: datastructure.VertexID(to)})
		}
	}

	return datastructure.RoadNetwork{
		Graph:      datastructure.NewAdjacencyGraph(vertices, edges),
		Attributes: attrs,
	}, nil
}

func toGraphUnits(lat, lon, unitsPerDegree float64) datastructure.Coordinate {
	return datastructure.NewCoordinate(float64(int64(lat*unitsPerDegree)), float64(int64(lon*unitsPerDegree)))
}
