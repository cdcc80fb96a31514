package protocol

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"lintang/navigatorx/pkg/datastructure"
)

type Token string

const (
	TokenAck          Token = "A"
	TokenEndOfSession Token = "E"
	TokenRequest      Token = "R"
	TokenWaypoint     Token = "W"
	TokenCount        Token = "N"
	TokenUnknown      Token = "U"
	TokenComment      Token = "#"

	// StartOfSession prefix of the first token that opens a session when a start is required.
	StartOfSession = "starting"
)

// ErrMalformedLine an input line that could not be parsed.
var ErrMalformedLine = errors.New("malformed line")

// Fields splits a line on single spaces and drops the empty fields.
func Fields(line string) []string {
	splits := strings.Split(strings.TrimSpace(line), " ")
	fields := splits[:0]
	for _, f := range splits {
		if f != "" {
			fields = append(fields, f)
		}
	}
	return fields
}

// Classify maps the first field to its token, anything unrecognised is TokenUnknown.
func Classify(fields []string) Token {
	if len(fields) == 0 {
		return TokenUnknown
	}
	switch tok := Token(fields[0]); tok {
	case TokenAck, TokenEndOfSession, TokenRequest, TokenWaypoint, TokenCount:
		return tok
	default:
		return TokenUnknown
	}
}

func IsComment(line string) bool {
	return strings.HasPrefix(line, string(TokenComment))
}

func IsStartOfSession(fields []string) bool {
	return len(fields) > 0 && strings.HasPrefix(strings.ToLower(fields[0]), StartOfSession)
}

type Request struct {
	SrcLat float64
	SrcLon float64
	DstLat float64
	DstLon float64
}

// ParseRequest parses "R lat1 lon1 lat2 lon2".
func ParseRequest(fields []string) (Request, error) {
	if len(fields) != 5 || Token(fields[0]) != TokenRequest {
		return Request{}, fmt.Errorf("%w: request wants 4 coordinates, got %d fields", ErrMalformedLine, len(fields))
	}
	var nums [4]float64
	for i, f := range fields[1:] {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return Request{}, fmt.Errorf("%w: request field %q: %v", ErrMalformedLine, f, err)
		}
		nums[i] = v
	}
	return Request{SrcLat: nums[0], SrcLon: nums[1], DstLat: nums[2], DstLon: nums[3]}, nil
}

func FormatRequest(req Request) string {
	return fmt.Sprintf("%s %s %s %s %s", TokenRequest, formatFloat(req.SrcLat), formatFloat(req.SrcLon),
		formatFloat(req.DstLat), formatFloat(req.DstLon))
}

func FormatCount(n int) string {
	return fmt.Sprintf("%s %d", TokenCount, n)
}

// ParseCount parses "N <count>".
func ParseCount(fields []string) (int, error) {
	if len(fields) != 2 || Token(fields[0]) != TokenCount {
		return 0, fmt.Errorf("%w: expected count announcement", ErrMalformedLine)
	}
	n, err := strconv.Atoi(fields[1])
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: count %q", ErrMalformedLine, fields[1])
	}
	return n, nil
}

type CoordinateFormat int

const (
	// IntegerCoordinates truncates lat/lon toward zero.
	IntegerCoordinates CoordinateFormat = iota
	DecimalCoordinates
)

func ParseCoordinateFormat(s string) (CoordinateFormat, error) {
	switch strings.ToLower(s) {
	case "", "integer":
		return IntegerCoordinates, nil
	case "decimal":
		return DecimalCoordinates, nil
	default:
		return 0, fmt.Errorf("unknown coordinate format %q", s)
	}
}

func FormatWaypoint(c datastructure.Coordinate, format CoordinateFormat) string {
	if format == DecimalCoordinates {
		return fmt.Sprintf("%s %s %s", TokenWaypoint, formatFloat(c.Lat), formatFloat(c.Lon))
	}
	return fmt.Sprintf("%s %d %d", TokenWaypoint, int64(c.Lat), int64(c.Lon))
}

// ParseWaypoint parses "W lat lon" in either coordinate format.
func ParseWaypoint(fields []string) (datastructure.Coordinate, error) {
	if len(fields) != 3 || Token(fields[0]) != TokenWaypoint {
		return datastructure.Coordinate{}, fmt.Errorf("%w: expected waypoint", ErrMalformedLine)
	}
	lat, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return datastructure.Coordinate{}, fmt.Errorf("%w: waypoint lat %q", ErrMalformedLine, fields[1])
	}
	lon, err := strconv.ParseFloat(fields[2], 64)
	if err != nil {
		return datastructure.Coordinate{}, fmt.Errorf("%w: waypoint lon %q", ErrMalformedLine, fields[2])
	}
	return datastructure.NewCoordinate(lat, lon), nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
