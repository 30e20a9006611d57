package graph

import (
	"container/heap"
	"math"
)

// SearchOption configures a single shortest-path search.
type SearchOption func(*searchConfig)

type searchConfig struct {
	bound  float64
	target int
}

// WithBound stops the search at distance d: nodes farther than d are
// reported as unreachable.
func WithBound(d float64) SearchOption {
	if d < 0 || math.IsNaN(d) {
		panic("graph: WithBound(d < 0)")
	}
	return func(c *searchConfig) {
		c.bound = d
	}
}

// WithTarget stops the search as soon as the distance to v is final.
func WithTarget(v int) SearchOption {
	return func(c *searchConfig) {
		c.target = v
	}
}

// Searcher runs single-source Dijkstra searches over a graph, reusing its
// buffers between searches. The graph may gain edges between searches but
// not nodes. A Searcher is not safe for concurrent use.
type Searcher struct {
	g       *Graph
	dist    []float64
	settled []bool
	touched []int
	done    []int
	pq      distHeap
}

// NewSearcher returns a searcher over g.
func NewSearcher(g *Graph) *Searcher {
	s := &Searcher{
		g:       g,
		dist:    make([]float64, g.n),
		settled: make([]bool, g.n),
	}
	for i := range s.dist {
		s.dist[i] = math.Inf(1)
	}
	return s
}

// Search computes shortest distances from src. Results stay valid until the
// next call.
func (s *Searcher) Search(src int, opts ...SearchOption) {
	cfg := searchConfig{bound: math.Inf(1), target: -1}
	for _, opt := range opts {
		opt(&cfg)
	}
	s.reset()

	s.touch(src, 0)
	heap.Push(&s.pq, distItem{node: src, dist: 0})

	for s.pq.Len() > 0 {
		it := heap.Pop(&s.pq).(distItem)
		if s.settled[it.node] || it.dist > s.dist[it.node] {
			continue // stale entry
		}
		if it.dist > cfg.bound {
			break
		}
		s.settled[it.node] = true
		s.done = append(s.done, it.node)
		if it.node == cfg.target {
			break
		}
		for _, a := range s.g.adj[it.node] {
			nd := it.dist + a.W
			if nd > cfg.bound || nd >= s.dist[a.To] {
				continue
			}
			s.touch(a.To, nd)
			heap.Push(&s.pq, distItem{node: a.To, dist: nd})
		}
	}
}

// Dist returns the final distance to v from the last search, or +Inf when v
// was not reached within the search's bound or before its target.
func (s *Searcher) Dist(v int) float64 {
	if !s.settled[v] {
		return math.Inf(1)
	}
	return s.dist[v]
}

// Settled returns the nodes whose distance is final, in order of distance.
// The slice is reused by the next search.
func (s *Searcher) Settled() []int {
	return s.done
}

func (s *Searcher) touch(v int, d float64) {
	if math.IsInf(s.dist[v], 1) {
		s.touched = append(s.touched, v)
	}
	s.dist[v] = d
}

func (s *Searcher) reset() {
	for _, v := range s.touched {
		s.dist[v] = math.Inf(1)
		s.settled[v] = false
	}
	s.touched = s.touched[:0]
	s.done = s.done[:0]
	s.pq = s.pq[:0]
}

// ShortestPaths returns the distances from src to every node, +Inf for
// unreachable nodes.
func ShortestPaths(g *Graph, src int, opts ...SearchOption) []float64 {
	s := NewSearcher(g)
	s.Search(src, opts...)
	out := make([]float64, g.n)
	for v := range out {
		out[v] = s.Dist(v)
	}
	return out
}

type distItem struct {
	node int
	dist float64
}

// distHeap is a min-heap on distance with lazy decrease-key: improved
// distances are pushed again and stale entries skipped on pop.
type distHeap []distItem

func (h distHeap) Len() int           { return len(h) }
func (h distHeap) Less(i, j int) bool { return h[i].dist < h[j].dist }
func (h distHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *distHeap) Push(x any) { *h = append(*h, x.(distItem)) }

func (h *distHeap) Pop() any {
	old := *h
	n := len(old)
	it := old[n-1]
	*h = old[:n-1]
	return it
}
