package kv

import (
	"github.com/DataDog/zstd"
	"github.com/kelindar/binary"
)

type vertexRecord struct {
	ID       int64
	Lat      float64
	Lon      float64
	HasCoord bool
}

type edgeRecord struct {
	From int64
	To   int64
}

type snapshotMeta struct {
	Vertices     int
	Edges        int
	VertexChunks int
	EdgeChunks   int
}

func Encode[T any](v T) ([]byte, error) {
	return binary.Marshal(v)
}

func Decode[T any](bb []byte) (T, error) {
	var v T
	err := binary.Unmarshal(bb, &v)
	return v, err
}

func Compress(bb []byte) ([]byte, error) {
	var bbCompressed []byte
	bbCompressed, err := zstd.Compress(bbCompressed, bb)
	if err != nil {
		return []byte{}, err
	}
	return bbCompressed, nil
}

func Decompress(bbCompressed []byte) ([]byte, error) {
	var bb []byte
	bb, err := zstd.Decompress(bb, bbCompressed)
	if err != nil {
		return []byte{}, err
	}

	return bb, nil
}

func compressed[T any](v T) ([]byte, error) {
	bb, err := Encode(v)
	if err != nil {
		return nil, err
	}
	return Compress(bb)
}

func decompressed[T any](bbCompressed []byte) (T, error) {
	bb, err := Decompress(bbCompressed)
	if err != nil {
		var zero T
		return zero, err
	}
	return Decode[T](bb)
}
