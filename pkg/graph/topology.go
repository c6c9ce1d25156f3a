package graph

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

var (
	// ErrInvalidNodeID is returned by [NewTopology] when a node ID is empty.
	// All nodes must have non-empty identifiers.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [NewTopology] when two nodes share
	// an ID. Node IDs must be unique.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownEndpoint is returned by [NewTopology] when an edge references
	// a node that was not declared.
	ErrUnknownEndpoint = errors.New("edge references unknown node")

	// ErrSelfLoop is returned by [NewTopology] when an edge connects a node
	// to itself. Self-loops carry no routing meaning on an undirected map.
	ErrSelfLoop = errors.New("edge connects node to itself")

	// ErrDuplicateEdge is returned by [NewTopology] when the same node pair
	// is declared twice, in either order.
	ErrDuplicateEdge = errors.New("duplicate edge")

	// ErrNonPositiveWeight is returned by [NewTopology] when an edge declares
	// a zero or negative base weight.
	ErrNonPositiveWeight = errors.New("edge weight must be positive")
)

// EdgeKey addresses an undirected edge independent of endpoint order.
// The constructor sorts the pair, so the edge between "Cafe" and "Bank"
// is always stored under {A: "Bank", B: "Cafe"}.
type EdgeKey struct {
	A string `json:"a"`
	B string `json:"b"`
}

// NewEdgeKey returns the canonical key for the edge between a and b.
func NewEdgeKey(a, b string) EdgeKey {
	if b < a {
		a, b = b, a
	}
	return EdgeKey{A: a, B: b}
}

// String returns the key in "A--B" form, used in logs and cache keys.
func (k EdgeKey) String() string {
	return k.A + "--" + k.B
}

// Topology is the immutable shape of a road map: node positions,
// undirected edges with base weights, and an adjacency index.
// It is constructed once at startup and never changes; all mutable
// routing state (blocking, traffic weights) lives in [Graph] overlays
// that share a single Topology.
//
// Topology is safe for concurrent use because it is never written
// after construction.
type Topology struct {
	positions map[string]orb.Point
	adjacency map[string][]string // sorted neighbor IDs, includes blocked nodes
	base      map[EdgeKey]float64
	nodes     []string  // sorted node IDs
	edges     []EdgeKey // sorted edge keys
	hash      string    // content hash, computed at construction
}

// NewTopology builds a topology from node positions and weighted edges.
// Edges with a zero weight take the Euclidean distance between their
// endpoints as base weight, matching how hand-authored maps are usually
// written. Validation failures return the sentinel errors above, wrapped
// with the offending identifier.
func NewTopology(positions map[string]orb.Point, edges []EdgeSpec) (*Topology, error) {
	t := &Topology{
		positions: make(map[string]orb.Point, len(positions)),
		adjacency: make(map[string][]string, len(positions)),
		base:      make(map[EdgeKey]float64, len(edges)),
	}

	for id, pos := range positions {
		if id == "" {
			return nil, ErrInvalidNodeID
		}
		t.positions[id] = pos
		t.nodes = append(t.nodes, id)
	}
	slices.Sort(t.nodes)

	for _, e := range edges {
		if e.From == e.To {
			return nil, fmt.Errorf("%w: %s", ErrSelfLoop, e.From)
		}
		if _, ok := t.positions[e.From]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownEndpoint, e.From)
		}
		if _, ok := t.positions[e.To]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownEndpoint, e.To)
		}
		key := NewEdgeKey(e.From, e.To)
		if _, ok := t.base[key]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateEdge, key)
		}
		w := e.Weight
		if w == 0 {
			w = planar.Distance(t.positions[e.From], t.positions[e.To])
		}
		if w <= 0 || math.IsNaN(w) || math.IsInf(w, 0) {
			return nil, fmt.Errorf("%w: %s", ErrNonPositiveWeight, key)
		}
		t.base[key] = w
		t.edges = append(t.edges, key)
		t.adjacency[e.From] = append(t.adjacency[e.From], e.To)
		t.adjacency[e.To] = append(t.adjacency[e.To], e.From)
	}

	// Sort neighbor lists so iteration order, and therefore search
	// tie-breaking, is reproducible across runs.
	for id := range t.adjacency {
		slices.Sort(t.adjacency[id])
	}
	slices.SortFunc(t.edges, func(a, b EdgeKey) int {
		if a.A != b.A {
			return strings.Compare(a.A, b.A)
		}
		return strings.Compare(a.B, b.B)
	})

	t.hash = t.computeHash()
	return t, nil
}

// EdgeSpec declares one undirected edge for [NewTopology].
// A zero Weight means "use the Euclidean distance between the endpoints".
type EdgeSpec struct {
	From   string
	To     string
	Weight float64
}

// HasNode reports whether id names a node in the topology.
func (t *Topology) HasNode(id string) bool {
	_, ok := t.positions[id]
	return ok
}

// HasEdge reports whether an edge exists between a and b, in either order.
func (t *Topology) HasEdge(a, b string) bool {
	_, ok := t.base[NewEdgeKey(a, b)]
	return ok
}

// Position returns the 2D position of a node.
// The second return is false if the node does not exist.
func (t *Topology) Position(id string) (orb.Point, bool) {
	p, ok := t.positions[id]
	return p, ok
}

// Neighbors returns all nodes directly connected to id, blocked or not.
// Blocking is an overlay concern filtered by the pathfinder; consumers
// that render the map need the true topology. The returned slice is
// shared and must not be modified.
func (t *Topology) Neighbors(id string) []string {
	return t.adjacency[id]
}

// BaseWeight returns the immutable base weight of the edge between a and b.
// The second return is false if no such edge exists.
func (t *Topology) BaseWeight(a, b string) (float64, bool) {
	w, ok := t.base[NewEdgeKey(a, b)]
	return w, ok
}

// Length returns the Euclidean distance between the endpoints of the
// edge between a and b. The second return is false if no such edge exists.
func (t *Topology) Length(a, b string) (float64, bool) {
	if !t.HasEdge(a, b) {
		return 0, false
	}
	return planar.Distance(t.positions[a], t.positions[b]), true
}

// Nodes returns all node IDs in sorted order.
// The returned slice is shared and must not be modified.
func (t *Topology) Nodes() []string {
	return t.nodes
}

// Edges returns all canonical edge keys in sorted order.
// The returned slice is shared and must not be modified.
func (t *Topology) Edges() []EdgeKey {
	return t.edges
}

// NodeCount returns the number of nodes.
func (t *Topology) NodeCount() int { return len(t.nodes) }

// EdgeCount returns the number of edges.
func (t *Topology) EdgeCount() int { return len(t.edges) }

// Hash returns a hex SHA-256 digest of the topology content.
// Two topologies with the same nodes, positions, edges and base weights
// share a hash, which anchors result-cache keys.
func (t *Topology) Hash() string {
	return t.hash
}

func (t *Topology) computeHash() string {
	h := sha256.New()
	var buf [8]byte
	for _, id := range t.nodes {
		h.Write([]byte(id))
		h.Write([]byte{0})
		p := t.positions[id]
		binary.BigEndian.PutUint64(buf[:], math.Float64bits(p[0]))
		h.Write(buf[:])
		binary.BigEndian.PutUint64(buf[:], math.Float64bits(p[1]))
		h.Write(buf[:])
	}
	for _, key := range t.edges {
		h.Write([]byte(key.A))
		h.Write([]byte{0})
		h.Write([]byte(key.B))
		h.Write([]byte{0})
		binary.BigEndian.PutUint64(buf[:], math.Float64bits(t.base[key]))
		h.Write(buf[:])
	}
	return hex.EncodeToString(h.Sum(nil))
}
