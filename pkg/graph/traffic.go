package graph

import (
	"github.com/matzehuels/wayfinder/pkg/errors"
)

// epsilon guards ratio divisions against zero-length edges. It is far
// below any plausible map coordinate delta and adds no bias to weights
// or heuristics.
const epsilon = 1e-9

// Default traffic-ratio thresholds, taken by [Graph.TrafficLevel] when
// the corresponding Thresholds field is zero.
const (
	// DefaultNormalThreshold is the weight/length ratio below which
	// traffic is considered normal.
	DefaultNormalThreshold = 1.6

	// DefaultModerateThreshold is the weight/length ratio below which
	// traffic is considered moderate; above it, heavy.
	DefaultModerateThreshold = 2.6
)

// Level classifies an edge's congestion from its weight/length ratio.
type Level int

const (
	// LevelNormal means the current weight is close to the geometric length.
	LevelNormal Level = iota
	// LevelModerate means traffic has raised the weight noticeably.
	LevelModerate
	// LevelHeavy means the edge costs well over its geometric length.
	LevelHeavy
)

// MarshalText renders the level name, so JSON bodies carry "heavy"
// instead of an opaque integer.
func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// String returns "normal", "moderate" or "heavy".
func (l Level) String() string {
	switch l {
	case LevelModerate:
		return "moderate"
	case LevelHeavy:
		return "heavy"
	default:
		return "normal"
	}
}

// Thresholds holds the ratio cut-offs for [Level] classification.
// Zero fields take the package defaults.
type Thresholds struct {
	Normal   float64 // ratios below this are LevelNormal (default 1.6)
	Moderate float64 // ratios below this are LevelModerate (default 2.6)
}

func (t Thresholds) withDefaults() Thresholds {
	if t.Normal == 0 {
		t.Normal = DefaultNormalThreshold
	}
	if t.Moderate == 0 {
		t.Moderate = DefaultModerateThreshold
	}
	return t
}

// TrafficLevel classifies the edge between a and b by comparing its
// current weight to its geometric length. This powers traffic-intensity
// coloring in UI collaborators; the engine itself never consults levels.
// Referencing a missing edge fails with NO_SUCH_EDGE.
func (g *Graph) TrafficLevel(a, b string, t Thresholds) (Level, error) {
	w, err := g.EdgeWeight(a, b)
	if err != nil {
		return LevelNormal, err
	}
	length, _ := g.topo.Length(a, b)
	t = t.withDefaults()
	ratio := w / (length + epsilon)
	switch {
	case ratio < t.Normal:
		return LevelNormal, nil
	case ratio < t.Moderate:
		return LevelModerate, nil
	default:
		return LevelHeavy, nil
	}
}

// EdgeState is a rendering-facing snapshot of one edge's overlay state.
type EdgeState struct {
	Key     EdgeKey `json:"key"`
	Base    float64 `json:"base"`
	Current float64 `json:"current"`
	Blocked bool    `json:"blocked"`
	Level   Level   `json:"level"`
}

// EdgeStates returns a snapshot of every edge in sorted key order.
// UI collaborators consume this for weight labels and traffic coloring.
func (g *Graph) EdgeStates(t Thresholds) []EdgeState {
	out := make([]EdgeState, 0, g.topo.EdgeCount())
	for _, key := range g.topo.Edges() {
		level, err := g.TrafficLevel(key.A, key.B, t)
		if err != nil {
			// Edges iterated from the topology always exist.
			panic(errors.New(errors.ErrCodeInternal, "edge %s vanished from overlay", key))
		}
		out = append(out, EdgeState{
			Key:     key,
			Base:    g.topo.base[key],
			Current: g.weights[key],
			Blocked: g.blockedEdges[key],
			Level:   level,
		})
	}
	return out
}
