package datastructure

import (
	"errors"
	"fmt"
)

// ErrUnderflow is matched by every UnderflowError.
var ErrUnderflow = errors.New("pop from an empty priority queue")

// UnderflowError is returned when ExtractMin is called on an empty heap. Under correct
// engine usage this never happens since the engine never pops more than it pushed.
type UnderflowError struct {
	Op string
}

func (e *UnderflowError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, ErrUnderflow)
}

func (e *UnderflowError) Unwrap() error {
	return ErrUnderflow
}

type PriorityQueueNode[T any] struct {
	Rank float64
	Item T
}

// MinHeap binary heap priorityqueue. Items are not unique, the same item may be inserted
// several times with different ranks (lazy deletion is left to the caller).
type MinHeap[T any] struct {
	heap []PriorityQueueNode[T]
}

func NewMinHeap[T any]() *MinHeap[T] {
	return &MinHeap[T]{
		heap: make([]PriorityQueueNode[T], 0),
	}
}

// parent get index of the parent
func (h *MinHeap[T]) parent(index int) int {
	return (index - 1) / 2
}

// leftChild get index of the left child
func (h *MinHeap[T]) leftChild(index int) int {
	return 2*index + 1
}

// rightChild get index of the right child
func (h *MinHeap[T]) rightChild(index int) int {
	return 2*index + 2
}

func (h *MinHeap[T]) less(i, j int) bool {
	return h.heap[i].Rank < h.heap[j].Rank
}

func (h *MinHeap[T]) swap(i, j int) {
	h.heap[i], h.heap[j] = h.heap[j], h.heap[i]
}

// heapifyUp moves the node at index toward the root while its parent has a bigger rank. O(logN).
func (h *MinHeap[T]) heapifyUp(index int) {
	for index > 0 {
		p := h.parent(index)
		if !h.less(index, p) {
			return
		}
		h.swap(index, p)
		index = p
	}
}

// heapifyDown moves the node at index toward the leaves, always swapping with the smaller child
// (left child on ties), until both children have a rank >= its own. O(logN).
func (h *MinHeap[T]) heapifyDown(index int) {
	for {
		left := h.leftChild(index)
		if left >= len(h.heap) {
			return
		}
		smallest := left
		right := h.rightChild(index)
		if right < len(h.heap) && h.less(right, left) {
			smallest = right
		}
		if !h.less(smallest, index) {
			return
		}
		h.swap(index, smallest)
		index = smallest
	}
}

func (h *MinHeap[T]) isEmpty() bool {
	return len(h.heap) == 0
}

// Size number of nodes in the heap
func (h *MinHeap[T]) Size() int {
	return len(h.heap)
}

// GetMin returns the node with the minimum rank without removing it.
func (h *MinHeap[T]) GetMin() (PriorityQueueNode[T], error) {
	if h.isEmpty() {
		return PriorityQueueNode[T]{}, &UnderflowError{Op: "get min"}
	}
	return h.heap[0], nil
}

// Insert new node. O(logN)
func (h *MinHeap[T]) Insert(node PriorityQueueNode[T]) {
	h.heap = append(h.heap, node)
	h.heapifyUp(len(h.heap) - 1)
}

// Add inserts item with the given rank.
func (h *MinHeap[T]) Add(item T, rank float64) {
	h.Insert(PriorityQueueNode[T]{Rank: rank, Item: item})
}

// ExtractMin removes and returns a node with the minimum rank. Ties are broken arbitrarily. O(logN)
func (h *MinHeap[T]) ExtractMin() (PriorityQueueNode[T], error) {
	if h.isEmpty() {
		return PriorityQueueNode[T]{}, &UnderflowError{Op: "extract min"}
	}
	root := h.heap[0]
	last := len(h.heap) - 1
	h.heap[0] = h.heap[last]
	h.heap[last] = PriorityQueueNode[T]{}
	h.heap = h.heap[:last]
	if len(h.heap) > 0 {
		h.heapifyDown(0)
	}
	return root, nil
}
