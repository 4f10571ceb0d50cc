package engine

import (
	"sync"

	"whisperkey/segment"
)

// deliveryQueue carries segments from the reader goroutine to the
// engine goroutine. FIFO in arrival order, never timestamp order.
// Push never blocks the reader; pop never blocks the drainer.
type deliveryQueue struct {
	mu    sync.Mutex
	items []segment.Segment
}

func (q *deliveryQueue) push(s segment.Segment) {
	q.mu.Lock()
	q.items = append(q.items, s)
	q.mu.Unlock()
}

func (q *deliveryQueue) pop() (segment.Segment, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return segment.Segment{}, false
	}
	s := q.items[0]
	q.items = q.items[1:]
	return s, true
}

func (q *deliveryQueue) clear() {
	q.mu.Lock()
	q.items = nil
	q.mu.Unlock()
}
