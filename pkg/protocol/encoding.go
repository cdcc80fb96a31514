package protocol

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// Encode wraps a byte stream in the named text encoding. "utf-8" (or "") leaves it unchanged,
// "iso-8859-1" is what the serial peers speak.
func Encode(r io.Reader, w io.Writer, encoding string) (io.Reader, io.Writer, error) {
	switch strings.ToLower(encoding) {
	case "", "utf-8", "utf8":
		return r, w, nil
	case "iso-8859-1", "latin1", "latin-1":
		return charmap.ISO8859_1.NewDecoder().Reader(r), charmap.ISO8859_1.NewEncoder().Writer(w), nil
	default:
		return nil, nil, fmt.Errorf("unsupported text encoding %q", encoding)
	}
}
