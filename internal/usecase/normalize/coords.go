package normalize

import "github.com/aalvaropc/seqyank/internal/domain"

// CoordQueue holds, per identifier, the requested ranges in arrival order.
// Later requests for the same identifier draw the next range.
type CoordQueue struct {
	q map[string][]domain.CoordRange
}

func NewCoordQueue() *CoordQueue {
	return &CoordQueue{q: map[string][]domain.CoordRange{}}
}

func (c *CoordQueue) Push(identifier string, r domain.CoordRange) {
	k := domain.Key(identifier)
	c.q[k] = append(c.q[k], r)
}

// Pop removes and returns the oldest range queued for identifier.
func (c *CoordQueue) Pop(identifier string) (domain.CoordRange, bool) {
	if c == nil {
		return domain.CoordRange{}, false
	}
	k := domain.Key(identifier)
	rs := c.q[k]
	if len(rs) == 0 {
		return domain.CoordRange{}, false
	}
	r := rs[0]
	if len(rs) == 1 {
		delete(c.q, k)
	} else {
		c.q[k] = rs[1:]
	}
	return r, true
}

func (c *CoordQueue) Len(identifier string) int {
	if c == nil {
		return 0
	}
	return len(c.q[domain.Key(identifier)])
}

// Clone returns an independent copy so consumers can pop without
// affecting the original.
func (c *CoordQueue) Clone() *CoordQueue {
	out := NewCoordQueue()
	if c == nil {
		return out
	}
	for k, rs := range c.q {
		out.q[k] = append([]domain.CoordRange(nil), rs...)
	}
	return out
}
