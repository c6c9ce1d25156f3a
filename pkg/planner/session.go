package planner

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/wayfinder/pkg/errors"
	"github.com/matzehuels/wayfinder/pkg/graph"
)

// DefaultTTL is the default session duration. Sessions are extended on
// every use, so the TTL only retires abandoned ones.
const DefaultTTL = 30 * time.Minute

// Session is one interactive planning unit: an overlay, the selected
// endpoints, and the last computed route. All methods are safe for
// concurrent use.
//
// The last route is dropped on every mutation and on every endpoint
// change. Callers never see a route computed against an earlier overlay
// state.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu        sync.Mutex
	expiresAt time.Time
	ttl       time.Duration
	graph     *graph.Graph
	start     string
	goal      string
	last      *Route
}

// NewSession creates a session with a fresh overlay on the topology.
func NewSession(t *graph.Topology, opts graph.Options, ttl time.Duration) *Session {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	now := time.Now()
	return &Session{
		ID:        uuid.NewString(),
		CreatedAt: now,
		expiresAt: now.Add(ttl),
		ttl:       ttl,
		graph:     graph.New(t, opts),
	}
}

// IsExpired returns true if the session has exceeded its TTL.
func (s *Session) IsExpired() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return time.Now().After(s.expiresAt)
}

// Touch extends the session's expiry by its TTL.
func (s *Session) Touch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expiresAt = time.Now().Add(s.ttl)
}

// ExpiresAt returns the current expiry time.
func (s *Session) ExpiresAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.expiresAt
}

// Endpoints returns the selected start and goal. Either may be empty.
func (s *Session) Endpoints() (start, goal string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.start, s.goal
}

// SelectStart sets the start node. Selecting a node, even the one
// already selected, drops the last route.
func (s *Session) SelectStart(id string) error {
	return s.selectEndpoint(id, &s.start)
}

// SelectGoal sets the goal node. Same invalidation rules as SelectStart.
func (s *Session) SelectGoal(id string) error {
	return s.selectEndpoint(id, &s.goal)
}

func (s *Session) selectEndpoint(id string, field *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.graph.Topology().HasNode(id) {
		return errors.New(errors.ErrCodeNoSuchNode, "unknown node %q", id)
	}
	*field = id
	s.last = nil
	return nil
}

// ClearEndpoints unsets both endpoints and drops the last route.
func (s *Session) ClearEndpoints() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.start, s.goal = "", ""
	s.last = nil
}

// ToggleNode flips the blocked state of a node and reports the new
// state.
func (s *Session) ToggleNode(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	blocked, err := s.graph.ToggleBlockedNode(id)
	if err != nil {
		return false, err
	}
	s.last = nil
	return blocked, nil
}

// ToggleEdge flips the blocked state of an edge and reports the new
// state.
func (s *Session) ToggleEdge(a, b string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	blocked, err := s.graph.ToggleBlockedEdge(a, b)
	if err != nil {
		return false, err
	}
	s.last = nil
	return blocked, nil
}

// AdjustWeight shifts an edge's weight one step in the given direction
// and returns the resulting weight.
func (s *Session) AdjustWeight(a, b string, dir graph.Direction) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.graph.AdjustWeight(a, b, dir); err != nil {
		return 0, err
	}
	s.last = nil
	w, err := s.graph.EdgeWeight(a, b)
	if err != nil {
		return 0, err
	}
	return w, nil
}

// Reset restores base weights, clears all blocks, and drops the last
// route. Endpoint selection survives a reset.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.graph.Reset()
	s.last = nil
}

// Plan computes the route between the selected endpoints.
func (s *Session) Plan(ctx context.Context, p *Planner) (*Route, error) {
	route, _, err := s.PlanWithCacheInfo(ctx, p)
	return route, err
}

// PlanWithCacheInfo computes the route between the selected endpoints
// and reports whether a previously computed route was reused. The last
// route is reused only when nothing has changed since it was computed;
// any mutation or endpoint change in between drops it.
func (s *Session) PlanWithCacheInfo(ctx context.Context, p *Planner) (*Route, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.start == "" || s.goal == "" {
		return nil, false, errors.New(errors.ErrCodeInvalidInput, "both start and goal must be selected")
	}
	if s.last != nil {
		return s.last, true, nil
	}

	// The lock is held through the search so the overlay cannot mutate
	// under the open set.
	route, hit, err := p.RouteWithCacheInfo(ctx, s.graph, s.start, s.goal)
	if err != nil {
		return nil, false, err
	}
	s.last = route
	return route, hit, nil
}

// Snapshot describes the session's overlay state for inspection.
type Snapshot struct {
	Start        string            `json:"start,omitempty"`
	Goal         string            `json:"goal,omitempty"`
	BlockedNodes []string          `json:"blocked_nodes"`
	BlockedEdges []graph.EdgeKey   `json:"blocked_edges"`
	Edges        []graph.EdgeState `json:"edges"`
	Generation   uint64            `json:"generation"`
	Fingerprint  string            `json:"fingerprint"`
}

// Snapshot returns the current overlay state.
func (s *Session) Snapshot(t graph.Thresholds) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Start:        s.start,
		Goal:         s.goal,
		BlockedNodes: s.graph.BlockedNodes(),
		BlockedEdges: s.graph.BlockedEdges(),
		Edges:        s.graph.EdgeStates(t),
		Generation:   s.graph.Generation(),
		Fingerprint:  s.graph.Fingerprint(),
	}
}
