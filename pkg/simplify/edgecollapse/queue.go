package edgecollapse

import "github.com/go-gl/mathgl/mgl64"

// candidate is a queued edge contraction. The stamps record the endpoint versions
// at push time; an entry whose stamps no longer match is stale and skipped.
type candidate struct {
	a, b           uint32 // a < b, a survives
	pos            mgl64.Vec3
	err            float64
	stampA, stampB uint32
}

// edgeQueue implements a min-priority queue of candidates ordered by error.
type edgeQueue []*candidate

func (q edgeQueue) Len() int { return len(q) }

func (q edgeQueue) Less(i, j int) bool {
	if q[i].err != q[j].err {
		return q[i].err < q[j].err
	}
	if q[i].a != q[j].a {
		return q[i].a < q[j].a
	}
	return q[i].b < q[j].b
}

func (q edgeQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
}

func (q *edgeQueue) Push(x interface{}) {
	*q = append(*q, x.(*candidate))
}

func (q *edgeQueue) Pop() interface{} {
	old := *q
	n := len(old)
	c := old[n-1]
	old[n-1] = nil
	*q = old[0 : n-1]
	return c
}
