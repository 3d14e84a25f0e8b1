package nav

// openEntry is one discovered, unexpanded node on the frontier.
type openEntry struct {
	pos   Position
	g, h  float64
	f     float64
	seq   int
	index int
}

// openQueue implements heap.Interface ordered by f, then h, then insertion
// sequence, so equal-cost ties always resolve the same way.
type openQueue []*openEntry

func (q openQueue) Len() int { return len(q) }

func (q openQueue) Less(i, j int) bool {
	a, b := q[i], q[j]
	if a.f != b.f {
		return a.f < b.f
	}
	if a.h != b.h {
		return a.h < b.h
	}
	return a.seq < b.seq
}

func (q openQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *openQueue) Push(x any) {
	entry := x.(*openEntry)
	entry.index = len(*q)
	*q = append(*q, entry)
}

func (q *openQueue) Pop() any {
	old := *q
	n := len(old)
	entry := old[n-1]
	old[n-1] = nil
	entry.index = -1
	*q = old[:n-1]
	return entry
}
