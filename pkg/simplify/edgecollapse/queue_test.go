package edgecollapse

import (
	"container/heap"
	"testing"
)

func TestEdgeQueueOrder(t *testing.T) {
	var q edgeQueue
	for _, c := range []*candidate{
		{a: 2, b: 5, err: 0.5},
		{a: 1, b: 4, err: 0.1},
		{a: 0, b: 3, err: 0.1},
		{a: 0, b: 2, err: 0.1},
		{a: 3, b: 6, err: 0},
	} {
		heap.Push(&q, c)
	}

	want := [][2]uint32{{3, 6}, {0, 2}, {0, 3}, {1, 4}, {2, 5}}
	for i, w := range want {
		c := heap.Pop(&q).(*candidate)
		if c.a != w[0] || c.b != w[1] {
			t.Errorf("pop %d = (%d, %d), want (%d, %d)", i, c.a, c.b, w[0], w[1])
		}
	}
	if q.Len() != 0 {
		t.Errorf("queue not empty after popping all, len %d", q.Len())
	}
}
