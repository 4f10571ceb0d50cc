package engine

import (
	"sync"
	"testing"

	"whisperkey/segment"
)

func TestQueueFIFO(t *testing.T) {
	var q deliveryQueue
	q.push(segment.Segment{Text: "a"})
	q.push(segment.Segment{Text: "b"})
	q.push(segment.Segment{Text: "c"})

	for _, want := range []string{"a", "b", "c"} {
		got, ok := q.pop()
		if !ok || got.Text != want {
			t.Fatalf("pop = %q/%v, want %q", got.Text, ok, want)
		}
	}
	if _, ok := q.pop(); ok {
		t.Error("pop on empty queue returned an item")
	}
}

func TestQueueClear(t *testing.T) {
	var q deliveryQueue
	q.push(segment.Segment{Text: "stale"})
	q.clear()
	if _, ok := q.pop(); ok {
		t.Error("clear left items behind")
	}
}

func TestQueueConcurrentPush(t *testing.T) {
	var q deliveryQueue
	var wg sync.WaitGroup
	const n = 100
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < n; j++ {
				q.push(segment.Segment{Text: "x"})
			}
		}()
	}
	wg.Wait()

	count := 0
	for {
		if _, ok := q.pop(); !ok {
			break
		}
		count++
	}
	if count != 4*n {
		t.Errorf("drained %d items, want %d", count, 4*n)
	}
}
