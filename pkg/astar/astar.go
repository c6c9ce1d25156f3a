// Package astar implements heuristic-guided shortest-path search over a
// road-map overlay.
//
// The search is standard A* with a binary-heap open set: admissible
// heuristics make the first arrival at the goal optimal. Blocking is
// applied here, not in the graph store: a neighbor is skipped when it
// is finalized, when the node itself is blocked, or when the connecting
// edge is blocked. A node can be reachable but blocked, or unblocked
// behind a blocked edge, so all three checks are required.
//
// Ties on estimated total cost break on lower accumulated cost, then on
// node identifier, so results are reproducible run to run.
package astar

import (
	"container/heap"

	"github.com/paulmach/orb/planar"

	"github.com/matzehuels/wayfinder/pkg/errors"
	"github.com/matzehuels/wayfinder/pkg/graph"
)

// Heuristic estimates the remaining cost between two nodes. It must
// never overestimate the true remaining cost, or the search loses its
// optimality guarantee.
type Heuristic func(from, to string) float64

// Euclidean returns the straight-line-distance heuristic for a topology.
// It is admissible as long as every edge weight is at least the
// geometric distance between its endpoints, which holds for
// traffic-scaled maps.
func Euclidean(t *graph.Topology) Heuristic {
	return func(from, to string) float64 {
		a, _ := t.Position(from)
		b, _ := t.Position(to)
		return planar.Distance(a, b)
	}
}

// Result is the outcome of one search. A false Found is a normal,
// reportable outcome (goal unreachable under current blocking), not an
// error.
type Result struct {
	Path     []string // node sequence from start to goal inclusive
	Cost     float64  // sum of traversed edge current-weights
	Found    bool
	Expanded int // nodes finalized during the search
}

// Find runs A* from start to goal over the overlay using the Euclidean
// heuristic. Unknown endpoints fail with INVALID_ENDPOINT; a blocked
// start or goal yields a no-path Result rather than searching around it.
func Find(g *graph.Graph, start, goal string) (Result, error) {
	return FindWithHeuristic(g, start, goal, Euclidean(g.Topology()))
}

// FindWithHeuristic is Find with a caller-supplied heuristic.
func FindWithHeuristic(g *graph.Graph, start, goal string, h Heuristic) (Result, error) {
	topo := g.Topology()
	if !topo.HasNode(start) {
		return Result{}, errors.New(errors.ErrCodeInvalidEndpoint, "unknown start node %q", start)
	}
	if !topo.HasNode(goal) {
		return Result{}, errors.New(errors.ErrCodeInvalidEndpoint, "unknown goal node %q", goal)
	}

	// A blocked endpoint can never appear in a valid path, so report
	// no-path without searching.
	if g.IsNodeBlocked(start) || g.IsNodeBlocked(goal) {
		return Result{}, nil
	}

	if start == goal {
		return Result{Path: []string{start}, Cost: 0, Found: true}, nil
	}

	open := &openSet{}
	heap.Init(open)
	heap.Push(open, &entry{id: start, g: 0, f: h(start, goal)})

	gScore := map[string]float64{start: 0}
	cameFrom := make(map[string]string)
	closed := make(map[string]bool)
	expanded := 0

	for open.Len() > 0 {
		current := heap.Pop(open).(*entry)

		// A cheaper route to this node was found after it was pushed.
		if current.g > gScore[current.id] {
			continue
		}
		if closed[current.id] {
			continue
		}

		if current.id == goal {
			return Result{
				Path:     reconstruct(cameFrom, goal),
				Cost:     current.g,
				Found:    true,
				Expanded: expanded,
			}, nil
		}

		closed[current.id] = true
		expanded++

		for _, neighbor := range topo.Neighbors(current.id) {
			if closed[neighbor] || g.IsNodeBlocked(neighbor) || g.IsEdgeBlocked(current.id, neighbor) {
				continue
			}

			// Edges listed in the adjacency index always exist.
			w, _ := g.EdgeWeight(current.id, neighbor)
			tentative := current.g + w

			if best, seen := gScore[neighbor]; seen && tentative >= best {
				continue
			}
			gScore[neighbor] = tentative
			cameFrom[neighbor] = current.id
			heap.Push(open, &entry{
				id: neighbor,
				g:  tentative,
				f:  tentative + h(neighbor, goal),
			})
		}
	}

	return Result{Expanded: expanded}, nil
}

// reconstruct walks predecessor links from goal back to start and
// reverses the result.
func reconstruct(cameFrom map[string]string, goal string) []string {
	path := []string{goal}
	current := goal
	for {
		prev, ok := cameFrom[current]
		if !ok {
			break
		}
		path = append(path, prev)
		current = prev
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
