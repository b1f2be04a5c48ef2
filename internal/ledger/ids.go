package ledger

import "time"

// idGenerator hands out millisecond timestamps, bumped forward when the
// clock has not moved past the last id so ids stay unique.
type idGenerator struct {
	now  func() time.Time
	last int64
}

func (g *idGenerator) observe(id int64) {
	if id > g.last {
		g.last = id
	}
}

func (g *idGenerator) next() int64 {
	id := g.now().UnixMilli()
	if id <= g.last {
		id = g.last + 1
	}
	g.last = id
	return id
}
