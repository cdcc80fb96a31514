package kv

import (
	"errors"
	"fmt"
	"path/filepath"
	"runtime"

	"lintang/navigatorx/pkg/concurrent"
	"lintang/navigatorx/pkg/datastructure"
	"lintang/navigatorx/pkg/util"

	"github.com/cockroachdb/pebble"
)

const chunkSize = 8192

// KVDB road network snapshots in pebble. A snapshot is a meta record plus zstd compressed
// chunks of vertices and edges, all under the prefix of its key.
type KVDB struct {
	db       *pebble.DB
	progress bool
}

func NewKVDB(db *pebble.DB) *KVDB {
	return &KVDB{db: db}
}

// WithProgress shows progress bars while saving or loading.
func (k *KVDB) WithProgress(show bool) *KVDB {
	k.progress = show
	return k
}

type chunkJob struct {
	key      string
	vertices []vertexRecord
	edges    []edgeRecord
}

type chunkResult struct {
	key string
	val []byte
	err error
}

func metaKey(key string) []byte {
	return []byte(key + "/meta")
}

func vertexChunkKey(key string, i int) string {
	return fmt.Sprintf("%s/v/%06d", key, i)
}

func edgeChunkKey(key string, i int) string {
	return fmt.Sprintf("%s/e/%06d", key, i)
}

func chunk[T any](items []T, i int) []T {
	end := (i + 1) * chunkSize
	if end > len(items) {
		end = len(items)
	}
	return items[i*chunkSize : end]
}

func numChunks(n int) int {
	return (n + chunkSize - 1) / chunkSize
}

// SaveNetwork replaces the snapshot stored under key.
func (k *KVDB) SaveNetwork(key string, network datastructure.RoadNetwork) error {
	vertices := make([]vertexRecord, 0, network.Graph.NumVertices())
	for _, v := range network.Graph.Vertices() {
		c, ok := network.Attributes.Get(v)
		vertices = append(vertices, vertexRecord{ID: int64(v), Lat: c.Lat, Lon: c.Lon, HasCoord: ok})
	}
	edges := make([]edgeRecord, 0, network.Graph.NumEdges())
	for _, e := range network.Graph.Edges() {
		edges = append(edges, edgeRecord{From: int64(e.From), To: int64(e.To)})
	}

	meta := snapshotMeta{
		Vertices:     len(vertices),
		Edges:        len(edges),
		VertexChunks: numChunks(len(vertices)),
		EdgeChunks:   numChunks(len(edges)),
	}
	jobs := meta.VertexChunks + meta.EdgeChunks

	workers := concurrent.NewWorkerPool[concurrent.Job[chunkJob], chunkResult](runtime.NumCPU(), jobs)
	for i := 0; i < meta.VertexChunks; i++ {
		workers.AddJob(concurrent.Job[chunkJob]{ID: i, JobItem: chunkJob{key: vertexChunkKey(key, i), vertices: chunk(vertices, i)}})
	}
	for i := 0; i < meta.EdgeChunks; i++ {
		workers.AddJob(concurrent.Job[chunkJob]{ID: meta.VertexChunks + i, JobItem: chunkJob{key: edgeChunkKey(key, i), edges: chunk(edges, i)}})
	}
	workers.Close()

	workers.Start(encodeChunk)
	workers.Wait()

	batch := k.db.NewBatch()
	defer batch.Close()
	if err := batch.DeleteRange([]byte(key+"/"), []byte(key+"0"), nil); err != nil {
		return fmt.Errorf("failed to clear snapshot %s: %w", key, err)
	}

	var bar interface{ Add(int) error }
	if k.progress {
		bar = util.NewProgressBar(jobs, "[cyan][2/2][reset] saving road network snapshot to pebble db...")
	}
	for res := range workers.CollectResults() {
		if res.err != nil {
			return fmt.Errorf("failed to encode snapshot chunk %s: %w", res.key, res.err)
		}
		if err := batch.Set([]byte(res.key), res.val, nil); err != nil {
			return err
		}
		if bar != nil {
			bar.Add(1)
		}
	}

	metaVal, err := compressed(meta)
	if err != nil {
		return err
	}
	if err := batch.Set(metaKey(key), metaVal, nil); err != nil {
		return err
	}
	return batch.Commit(pebble.Sync)
}

func encodeChunk(job concurrent.Job[chunkJob]) chunkResult {
	var (
		val []byte
		err error
	)
	if job.JobItem.vertices != nil {
		val, err = compressed(job.JobItem.vertices)
	} else {
		val, err = compressed(job.JobItem.edges)
	}
	return chunkResult{key: job.JobItem.key, val: val, err: err}
}

// ErrSnapshotNotFound no snapshot is stored under the key.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// LoadNetwork reads the snapshot stored under key.
func (k *KVDB) LoadNetwork(key string) (datastructure.RoadNetwork, error) {
	meta, err := get[snapshotMeta](k.db, metaKey(key))
	if err != nil {
		return datastructure.RoadNetwork{}, err
	}

	var bar interface{ Add(int) error }
	if k.progress {
		bar = util.NewProgressBar(meta.VertexChunks+meta.EdgeChunks, "[cyan][1/1][reset] loading road network snapshot...")
	}

	vertices := make([]datastructure.VertexID, 0, meta.Vertices)
	attrs := make(datastructure.VertexAttributes, meta.Vertices)
	for i := 0; i < meta.VertexChunks; i++ {
		records, err := get[[]vertexRecord](k.db, []byte(vertexChunkKey(key, i)))
		if err != nil {
			return datastructure.RoadNetwork{}, err
		}
		for _, r := range records {
			vertices = append(vertices, datastructure.VertexID(r.ID))
			if r.HasCoord {
				attrs[datastructure.VertexID(r.ID)] = datastructure.NewCoordinate(r.Lat, r.Lon)
			}
		}
		if bar != nil {
			bar.Add(1)
		}
	}

	edges := make([]datastructure.Edge, 0, meta.Edges)
	for i := 0; i < meta.EdgeChunks; i++ {
		records, err := get[[]edgeRecord](k.db, []byte(edgeChunkKey(key, i)))
		if err != nil {
			return datastructure.RoadNetwork{}, err
		}
		for _, r := range records {
			edges = append(edges, datastructure.Edge{From: datastructure.VertexID(r.From), To: datastructure.VertexID(r.To)})
		}
		if bar != nil {
			bar.Add(1)
		}
	}

	if len(vertices) != meta.Vertices || len(edges) != meta.Edges {
		return datastructure.RoadNetwork{}, fmt.Errorf("snapshot %s is truncated: %d/%d vertices, %d/%d edges",
			key, len(vertices), meta.Vertices, len(edges), meta.Edges)
	}

	return datastructure.RoadNetwork{
		Graph:      datastructure.NewAdjacencyGraph(vertices, edges),
		Attributes: attrs,
	}, nil
}

func get[T any](db *pebble.DB, key []byte) (T, error) {
	var zero T
	val, closer, err := db.Get(key)
	if errors.Is(err, pebble.ErrNotFound) {
		return zero, fmt.Errorf("%w: %s", ErrSnapshotNotFound, key)
	}
	if err != nil {
		return zero, err
	}
	defer closer.Close()
	return decompressed[T](val)
}

func (k *KVDB) Close() error {
	return k.db.Close()
}

// SnapshotKey key of the snapshot built from a road network source file.
func SnapshotKey(source string) string {
	if abs, err := filepath.Abs(source); err == nil {
		source = abs
	}
	return "network:" + filepath.ToSlash(source)
}
