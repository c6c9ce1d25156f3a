package graph

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"math"

	"github.com/matzehuels/wayfinder/pkg/errors"
)

// Default tuning constants for traffic mutation, taken by [New] when the
// corresponding Options field is zero.
const (
	// DefaultTrafficStep is the amount added or removed per traffic adjustment.
	DefaultTrafficStep = 50.0

	// DefaultWeightFloor is the minimum current weight an edge can reach.
	// Keeping weights strictly positive prevents zero- or negative-cost
	// edges from corrupting the search.
	DefaultWeightFloor = 1.0
)

// Direction selects whether a traffic adjustment adds or removes weight.
type Direction int

const (
	// Increase adds the traffic step to the edge's current weight.
	Increase Direction = iota
	// Decrease removes the traffic step, clamped at the weight floor.
	Decrease
)

// String returns "increase" or "decrease".
func (d Direction) String() string {
	if d == Decrease {
		return "decrease"
	}
	return "increase"
}

// Options tunes a [Graph] overlay. Zero fields take the package defaults.
type Options struct {
	TrafficStep float64 // weight change per adjustment (default 50)
	WeightFloor float64 // minimum current weight (default 1)
}

// Graph is a mutable routing overlay over an immutable [Topology]:
// a blocked-node set, a blocked-edge set, and per-edge current weights
// initialized to the base weights. Each planning session owns its own
// Graph; many Graphs can share one Topology.
//
// Graph is not safe for concurrent use without external synchronization.
// The planner session serializes mutations and searches so a search
// always observes a consistent overlay snapshot.
type Graph struct {
	topo         *Topology
	weights      map[EdgeKey]float64
	blockedNodes map[string]bool
	blockedEdges map[EdgeKey]bool
	step         float64
	floor        float64
	generation   uint64
}

// New creates a fresh overlay for the given topology with all edges at
// their base weight and nothing blocked.
func New(t *Topology, opts Options) *Graph {
	if opts.TrafficStep == 0 {
		opts.TrafficStep = DefaultTrafficStep
	}
	if opts.WeightFloor == 0 {
		opts.WeightFloor = DefaultWeightFloor
	}
	g := &Graph{
		topo:         t,
		weights:      make(map[EdgeKey]float64, t.EdgeCount()),
		blockedNodes: make(map[string]bool),
		blockedEdges: make(map[EdgeKey]bool),
		step:         opts.TrafficStep,
		floor:        opts.WeightFloor,
	}
	for _, key := range t.Edges() {
		g.weights[key] = t.base[key]
	}
	return g
}

// Topology returns the immutable topology this overlay is built on.
func (g *Graph) Topology() *Topology { return g.topo }

// Generation returns a counter incremented by every mutation.
// Consumers holding a computed path compare generations to detect that
// the result has gone stale.
func (g *Graph) Generation() uint64 { return g.generation }

// EdgeWeight returns the current weight of the edge between a and b.
// Referencing a missing edge is a caller bug and fails with NO_SUCH_EDGE.
func (g *Graph) EdgeWeight(a, b string) (float64, error) {
	w, ok := g.weights[NewEdgeKey(a, b)]
	if !ok {
		return 0, errors.New(errors.ErrCodeNoSuchEdge, "no edge between %s and %s", a, b)
	}
	return w, nil
}

// AdjustWeight changes the current weight of the edge between a and b by
// the configured traffic step. Decreases clamp at the weight floor so the
// weight never reaches zero or goes negative. Referencing a missing edge
// fails with NO_SUCH_EDGE.
func (g *Graph) AdjustWeight(a, b string, dir Direction) error {
	key := NewEdgeKey(a, b)
	w, ok := g.weights[key]
	if !ok {
		return errors.New(errors.ErrCodeNoSuchEdge, "no edge between %s and %s", a, b)
	}
	switch dir {
	case Decrease:
		g.weights[key] = math.Max(g.floor, w-g.step)
	default:
		g.weights[key] = w + g.step
	}
	g.generation++
	return nil
}

// ToggleBlockedNode blocks id if it is unblocked and unblocks it
// otherwise. Unknown nodes fail with NO_SUCH_NODE. Returns the new
// blocked state.
func (g *Graph) ToggleBlockedNode(id string) (bool, error) {
	if !g.topo.HasNode(id) {
		return false, errors.New(errors.ErrCodeNoSuchNode, "unknown node %s", id)
	}
	if g.blockedNodes[id] {
		delete(g.blockedNodes, id)
	} else {
		g.blockedNodes[id] = true
	}
	g.generation++
	return g.blockedNodes[id], nil
}

// ToggleBlockedEdge blocks the edge between a and b if it is unblocked
// and unblocks it otherwise. Missing edges fail with NO_SUCH_EDGE.
// Returns the new blocked state.
func (g *Graph) ToggleBlockedEdge(a, b string) (bool, error) {
	key := NewEdgeKey(a, b)
	if _, ok := g.weights[key]; !ok {
		return false, errors.New(errors.ErrCodeNoSuchEdge, "no edge between %s and %s", a, b)
	}
	if g.blockedEdges[key] {
		delete(g.blockedEdges, key)
	} else {
		g.blockedEdges[key] = true
	}
	g.generation++
	return g.blockedEdges[key], nil
}

// IsNodeBlocked reports whether id is currently blocked.
func (g *Graph) IsNodeBlocked(id string) bool {
	return g.blockedNodes[id]
}

// IsEdgeBlocked reports whether the edge between a and b is currently blocked.
func (g *Graph) IsEdgeBlocked(a, b string) bool {
	return g.blockedEdges[NewEdgeKey(a, b)]
}

// BlockedNodes returns the currently blocked node IDs in sorted order.
func (g *Graph) BlockedNodes() []string {
	out := make([]string, 0, len(g.blockedNodes))
	for _, id := range g.topo.Nodes() {
		if g.blockedNodes[id] {
			out = append(out, id)
		}
	}
	return out
}

// BlockedEdges returns the currently blocked edge keys in sorted order.
func (g *Graph) BlockedEdges() []EdgeKey {
	out := make([]EdgeKey, 0, len(g.blockedEdges))
	for _, key := range g.topo.Edges() {
		if g.blockedEdges[key] {
			out = append(out, key)
		}
	}
	return out
}

// Reset restores all edges to their base weights and clears both blocked
// sets, returning the overlay to its initial state.
func (g *Graph) Reset() {
	for _, key := range g.topo.Edges() {
		g.weights[key] = g.topo.base[key]
	}
	clear(g.blockedNodes)
	clear(g.blockedEdges)
	g.generation++
}

// Fingerprint returns a hex SHA-256 digest of the full overlay state:
// topology hash, blocked sets and current weights. Any mutation changes
// the fingerprint, so it can key cached path results without risking a
// stale hit.
func (g *Graph) Fingerprint() string {
	h := sha256.New()
	h.Write([]byte(g.topo.Hash()))
	var buf [8]byte
	for _, id := range g.topo.Nodes() {
		if g.blockedNodes[id] {
			h.Write([]byte(id))
			h.Write([]byte{0})
		}
	}
	h.Write([]byte{1})
	for _, key := range g.topo.Edges() {
		if g.blockedEdges[key] {
			h.Write([]byte(key.A))
			h.Write([]byte{0})
			h.Write([]byte(key.B))
			h.Write([]byte{0})
		}
	}
	h.Write([]byte{1})
	for _, key := range g.topo.Edges() {
		binary.BigEndian.PutUint64(buf[:], math.Float64bits(g.weights[key]))
		h.Write(buf[:])
	}
	return hex.EncodeToString(h.Sum(nil))
}
