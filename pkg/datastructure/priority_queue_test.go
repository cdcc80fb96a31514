package datastructure_test

import (
	"errors"
	"math/rand"
	"testing"

	"lintang/navigatorx/pkg/datastructure"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMinHeap(t *testing.T) {
	t.Run("extract min returns nodes ordered by rank", func(t *testing.T) {
		h := datastructure.NewMinHeap[string]()
		h.Add("A", 3)
		h.Add("B", 1)
		h.Add("C", 4)

		min, err := h.GetMin()
		require.NoError(t, err)
		assert.Equal(t, "B", min.Item)

		h.Add("D", 0)
		want := []string{"D", "B", "A", "C"}
		for _, w := range want {
			node, err := h.ExtractMin()
			require.NoError(t, err)
			assert.Equal(t, w, node.Item)
		}
		assert.Equal(t, 0, h.Size())
	})

	t.Run("empty heap underflow", func(t *testing.T) {
		h := datastructure.NewMinHeap[int]()
		_, err := h.ExtractMin()
		require.Error(t, err)
		assert.True(t, errors.Is(err, datastructure.ErrUnderflow))

		var uerr *datastructure.UnderflowError
		assert.True(t, errors.As(err, &uerr))

		_, err = h.GetMin()
		assert.ErrorIs(t, err, datastructure.ErrUnderflow)
	})

	t.Run("duplicate items with different ranks coexist", func(t *testing.T) {
		h := datastructure.NewMinHeap[int]()
		h.Add(7, 10)
		h.Add(7, 2)
		h.Add(7, 5)
		assert.Equal(t, 3, h.Size())

		node, err := h.ExtractMin()
		require.NoError(t, err)
		assert.Equal(t, 2.0, node.Rank)
	})

	t.Run("random adds and pops stay sorted", func(t *testing.T) {
		rnd := rand.New(rand.NewSource(42))
		h := datastructure.NewMinHeap[int]()
		n := 500
		for i := 0; i < n; i++ {
			h.Add(i, float64(rnd.Intn(100)))
		}

		k := 200
		prev := -1.0
		for i := 0; i < k; i++ {
			node, err := h.ExtractMin()
			require.NoError(t, err)
			assert.GreaterOrEqual(t, node.Rank, prev)
			prev = node.Rank
		}
		assert.Equal(t, n-k, h.Size())

		for h.Size() > 0 {
			node, err := h.ExtractMin()
			require.NoError(t, err)
			assert.GreaterOrEqual(t, node.Rank, prev)
			prev = node.Rank
		}
	})
}
