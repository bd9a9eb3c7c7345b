// Package searcher implements the bounded candidate queue used by winner search.
package searcher

// PriorityQueueItem represents an item in the priority queue.
type PriorityQueueItem struct {
	Index    int     // Index is the position of the candidate in its collection.
	Distance float32 // Distance is the priority of the item in the queue.
}

// worse reports whether a ranks behind b: larger distance, or equal distance
// and later position.
func worse(a, b PriorityQueueItem) bool {
	if a.Distance != b.Distance {
		return a.Distance > b.Distance
	}
	return a.Index > b.Index
}

// PriorityQueue is a max-heap keeping the k best (smallest distance, then
// smallest index) candidates seen so far. The worst kept candidate is on top.
// It does NOT implement container/heap to avoid interface overhead.
type PriorityQueue struct {
	items []PriorityQueueItem
}

// NewPriorityQueue creates a queue with room for capacity items.
func NewPriorityQueue(capacity int) *PriorityQueue {
	return &PriorityQueue{items: make([]PriorityQueueItem, 0, capacity)}
}

// Reset clears the priority queue for reuse.
func (pq *PriorityQueue) Reset() {
	pq.items = pq.items[:0]
}

// Len returns the number of elements in the heap.
func (pq *PriorityQueue) Len() int {
	return len(pq.items)
}

// TopItem returns the worst kept element.
func (pq *PriorityQueue) TopItem() (PriorityQueueItem, bool) {
	if len(pq.items) == 0 {
		return PriorityQueueItem{}, false
	}
	return pq.items[0], true
}

// PushItemBounded inserts an item into a heap limited to capacity items.
// If the heap is full and the new item is not better than the top, it is skipped.
func (pq *PriorityQueue) PushItemBounded(item PriorityQueueItem, capacity int) {
	if capacity <= 0 {
		return
	}
	if len(pq.items) < capacity {
		pq.items = append(pq.items, item)
		pq.siftUp(len(pq.items) - 1)
		return
	}
	if worse(pq.items[0], item) {
		pq.items[0] = item
		pq.siftDown(0)
	}
}

// PopItem removes and returns the worst element.
func (pq *PriorityQueue) PopItem() (PriorityQueueItem, bool) {
	n := len(pq.items)
	if n == 0 {
		return PriorityQueueItem{}, false
	}

	item := pq.items[0]
	pq.items[0] = pq.items[n-1]
	pq.items = pq.items[:n-1]

	if len(pq.items) > 0 {
		pq.siftDown(0)
	}

	return item, true
}

// Drain empties the queue and returns its items best first.
func (pq *PriorityQueue) Drain() []PriorityQueueItem {
	out := make([]PriorityQueueItem, len(pq.items))
	for i := len(out) - 1; i >= 0; i-- {
		out[i], _ = pq.PopItem()
	}
	return out
}

func (pq *PriorityQueue) siftUp(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if !worse(pq.items[i], pq.items[parent]) {
			break
		}
		pq.items[i], pq.items[parent] = pq.items[parent], pq.items[i]
		i = parent
	}
}

func (pq *PriorityQueue) siftDown(i int) {
	n := len(pq.items)
	for {
		left := 2*i + 1
		if left >= n {
			break
		}
		child := left
		right := left + 1
		if right < n && worse(pq.items[right], pq.items[left]) {
			child = right
		}
		if !worse(pq.items[child], pq.items[i]) {
			break
		}
		pq.items[i], pq.items[child] = pq.items[child], pq.items[i]
		i = child
	}
}
