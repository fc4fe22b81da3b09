package utils

import "slices"

// ValIdx represents a value and its original index
type ValIdx struct {
	Val   float64
	Index int
}

// worse orders candidates for the min-heap: a lower value is worse, and on
// equal values the later index is worse, so ties keep the earliest index.
func (a ValIdx) worse(b ValIdx) bool {
	if a.Val != b.Val {
		return a.Val < b.Val
	}
	return a.Index > b.Index
}

// TopKFinder is a structure to efficiently find top K elements
// It uses a min-heap to maintain the K largest elements
type TopKFinder struct {
	minHeap []ValIdx
}

// NewTopKFinder creates a new TopKFinder with preallocated memory
// maxK: maximum value of K that will be used
func NewTopKFinder(maxK int) *TopKFinder {
	return &TopKFinder{
		minHeap: make([]ValIdx, 0, max(maxK, 0)),
	}
}

// FindTopK returns the indices of the k largest values of nums, largest
// first. Equal values are ranked by ascending index.
func (f *TopKFinder) FindTopK(nums []float64, k int) []int {
	if k <= 0 || len(nums) == 0 {
		return []int{}
	}
	k = min(k, len(nums))

	// Reset minHeap to reuse memory
	f.minHeap = f.minHeap[:0]

	for i := 0; i < k; i++ {
		f.minHeap = append(f.minHeap, ValIdx{nums[i], i})
	}
	f.buildMinHeap(k)

	// Process remaining elements
	for i := k; i < len(nums); i++ {
		candidate := ValIdx{nums[i], i}
		if f.minHeap[0].worse(candidate) {
			f.minHeap[0] = candidate
			f.siftDown(0, k-1)
		}
	}

	ranked := slices.Clone(f.minHeap)
	slices.SortFunc(ranked, func(a, b ValIdx) int {
		switch {
		case b.worse(a):
			return -1
		case a.worse(b):
			return 1
		}
		return 0
	})

	indices := make([]int, k)
	for i, v := range ranked {
		indices[i] = v.Index
	}
	return indices
}

// buildMinHeap builds a min-heap from an unsorted slice
func (f *TopKFinder) buildMinHeap(size int) {
	for i := size/2 - 1; i >= 0; i-- {
		f.siftDown(i, size-1)
	}
}

// siftDown moves an element down the heap until the heap property is restored
// root: the index of the element to sift down
// end: the last valid index in the heap
func (f *TopKFinder) siftDown(root, end int) {
	for {
		child := root*2 + 1
		if child > end {
			break
		}

		// Choose the worse child (for min-heap)
		if child+1 <= end && f.minHeap[child+1].worse(f.minHeap[child]) {
			child++
		}

		if !f.minHeap[child].worse(f.minHeap[root]) {
			break
		}

		f.minHeap[root], f.minHeap[child] = f.minHeap[child], f.minHeap[root]
		root = child
	}
}
