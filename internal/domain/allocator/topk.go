package allocator

import (
	"container/heap"

	"github.com/shopspring/decimal"
)

// minHeap orders prices ascending so the smallest retained value sits at the root.
type minHeap []decimal.Decimal

func (h minHeap) Len() int           { return len(h) }
func (h minHeap) Less(i, j int) bool { return h[i].LessThan(h[j]) }
func (h minHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *minHeap) Push(x any) {
	*h = append(*h, x.(decimal.Decimal))
}

func (h *minHeap) Pop() any {
	old := *h
	n := len(old)
	v := old[n-1]
	*h = old[:n-1]
	return v
}

// TopK keeps the k largest prices offered to it using O(k) memory.
// It is not safe for concurrent use.
type TopK struct {
	k    int
	heap minHeap
}

// NewTopK creates a selector that retains at most k values.
// A non-positive k retains nothing.
func NewTopK(k int) *TopK {
	if k < 0 {
		k = 0
	}
	return &TopK{k: k, heap: make(minHeap, 0, k)}
}

// Offer considers v for the retained set. Once the selector is full, v
// replaces the current minimum only if it is strictly greater.
func (t *TopK) Offer(v decimal.Decimal) {
	if t.k == 0 {
		return
	}
	if len(t.heap) < t.k {
		heap.Push(&t.heap, v)
		return
	}
	if v.GreaterThan(t.heap[0]) {
		t.heap[0] = v
		heap.Fix(&t.heap, 0)
	}
}

// Len returns the number of retained values.
func (t *TopK) Len() int {
	return len(t.heap)
}

// Sorted drains the selector and returns the retained values in descending order.
func (t *TopK) Sorted() []decimal.Decimal {
	out := make([]decimal.Decimal, len(t.heap))
	for i := len(out) - 1; i >= 0; i-- {
		out[i] = heap.Pop(&t.heap).(decimal.Decimal)
	}
	return out
}

// SelectTopK returns the k largest values of pool in descending order.
// The pool is not read when k <= 0 and is never modified.
func SelectTopK(pool []decimal.Decimal, k int) []decimal.Decimal {
	if k <= 0 {
		return []decimal.Decimal{}
	}

	t := NewTopK(min(k, len(pool)))
	for _, v := range pool {
		t.Offer(v)
	}
	return t.Sorted()
}

// clampTopK sums the requested selector terms, bounded by the number of
// available candidates. Each term is clamped to available before adding so
// the sum cannot wrap. Negative terms count as zero.
func clampTopK(available int, terms ...int) int {
	total := 0
	for _, t := range terms {
		total += min(max(t, 0), available)
	}
	return min(total, available)
}
