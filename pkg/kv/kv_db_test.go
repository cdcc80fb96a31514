package kv

import (
	"testing"

	"lintang/navigatorx/pkg/datastructure"

	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openMem(t *testing.T) *KVDB {
	t.Helper()
	db, err := pebble.Open("", &pebble.Options{FS: vfs.NewMem()})
	require.NoError(t, err)
	k := NewKVDB(db)
	t.Cleanup(func() {
		k.Close()
	})
	return k
}

func sampleNetwork() datastructure.RoadNetwork {
	edges := []datastructure.Edge{{From: 1, To: 2}, {From: 2, To: 1}, {From: 1, To: 3}, {From: 3, To: 6}, {From: 6, To: 5}, {From: 5, To: 4}}
	return datastructure.RoadNetwork{
		Graph: datastructure.NewAdjacencyGraph([]datastructure.VertexID{9}, edges),
		Attributes: datastructure.VertexAttributes{
			1: {Lat: 5353000, Lon: -11350000},
			2: {Lat: 5354000, Lon: -11349000},
			3: {Lat: 5352000, Lon: -11348000},
			4: {Lat: 5355000, Lon: -11346000},
			5: {Lat: 5353500, Lon: -11344000},
			9: {Lat: 0, Lon: 0},
		},
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	k := openMem(t)
	network := sampleNetwork()
	require.NoError(t, k.SaveNetwork("roads.csv", network))

	loaded, err := k.LoadNetwork("roads.csv")
	require.NoError(t, err)
	assert.Equal(t, network.Graph.Vertices(), loaded.Graph.Vertices())
	assert.Equal(t, network.Graph.Edges(), loaded.Graph.Edges())
	assert.Equal(t, network.Attributes, loaded.Attributes)

	_, ok := loaded.Attributes.Get(6)
	assert.False(t, ok, "vertex 6 has no coordinate")
}

func TestSnapshotLargeNetwork(t *testing.T) {
	k := openMem(t)
	n := chunkSize*2 + 17
	attrs := make(datastructure.VertexAttributes, n)
	edges := make([]datastructure.Edge, 0, n)
	for i := 0; i < n; i++ {
		v := datastructure.VertexID(i)
		attrs[v] = datastructure.NewCoordinate(float64(i), float64(-i))
		edges = append(edges, datastructure.Edge{From: v, To: datastructure.VertexID((i + 1) % n)})
	}
	network := datastructure.RoadNetwork{Graph: datastructure.NewAdjacencyGraph(nil, edges), Attributes: attrs}
	require.NoError(t, k.SaveNetwork("big", network))

	loaded, err := k.LoadNetwork("big")
	require.NoError(t, err)
	assert.Equal(t, n, loaded.Graph.NumVertices())
	assert.Equal(t, n, loaded.Graph.NumEdges())
	assert.Equal(t, network.Attributes, loaded.Attributes)
}

func TestSnapshotOverwrite(t *testing.T) {
	k := openMem(t)
	require.NoError(t, k.SaveNetwork("roads", sampleNetwork()))

	small := datastructure.RoadNetwork{
		Graph:      datastructure.NewAdjacencyGraph(nil, []datastructure.Edge{{From: 1, To: 2}}),
		Attributes: datastructure.VertexAttributes{1: {Lat: 1, Lon: 1}, 2: {Lat: 2, Lon: 2}},
	}
	require.NoError(t, k.SaveNetwork("roads", small))

	loaded, err := k.LoadNetwork("roads")
	require.NoError(t, err)
	assert.Equal(t, []datastructure.Edge{{From: 1, To: 2}}, loaded.Graph.Edges())
}

func TestSnapshotNotFound(t *testing.T) {
	k := openMem(t)
	_, err := k.LoadNetwork("missing")
	assert.ErrorIs(t, err, ErrSnapshotNotFound)
}

func TestCompression(t *testing.T) {
	records := []edgeRecord{{From: 1, To: 2}, {From: 2, To: 3}}
	val, err := compressed(records)
	require.NoError(t, err)

	got, err := decompressed[[]edgeRecord](val)
	require.NoError(t, err)
	assert.Equal(t, records, got)

	_, err = Decompress([]byte("not zstd"))
	assert.Error(t, err)
}
