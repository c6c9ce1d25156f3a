package astar

// entry is one open-set candidate. The same node can appear multiple
// times with different costs; stale entries are skipped on pop.
type entry struct {
	id string
	g  float64 // accumulated cost from start
	f  float64 // g plus heuristic estimate to goal
}

// openSet implements heap.Interface ordered by f, breaking ties on
// lower g and then on node identifier for reproducible searches.
type openSet []*entry

func (s openSet) Len() int { return len(s) }

func (s openSet) Less(i, j int) bool {
	if s[i].f != s[j].f {
		return s[i].f < s[j].f
	}
	if s[i].g != s[j].g {
		return s[i].g < s[j].g
	}
	return s[i].id < s[j].id
}

func (s openSet) Swap(i, j int) {
	s[i], s[j] = s[j], s[i]
}

func (s *openSet) Push(x any) {
	*s = append(*s, x.(*entry))
}

func (s *openSet) Pop() any {
	old := *s
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	*s = old[:n-1]
	return e
}
