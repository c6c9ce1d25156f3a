package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/paulmach/orb"

	"github.com/matzehuels/wayfinder/pkg/errors"
)

// =============================================================================
// Map Serialization API
// =============================================================================

// Map is the canonical serialization format for road maps.
// It is the startup input of the engine: a static topology supplied once
// and never re-loaded. The format is human-readable and hand-authorable.
type Map struct {
	Nodes []MapNode `json:"nodes"`
	Edges []MapEdge `json:"edges"`
}

// MapNode declares one node with its 2D position.
type MapNode struct {
	ID string  `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

// MapEdge declares one undirected edge. A missing or zero weight means
// "use the Euclidean distance between the endpoints".
type MapEdge struct {
	From   string  `json:"from"`
	To     string  `json:"to"`
	Weight float64 `json:"weight,omitempty"`
}

// MarshalMap converts a topology to JSON bytes.
// Nodes and edges are emitted in sorted order for deterministic output.
func MarshalMap(t *Topology) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeMapTo(t, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteMapFile writes a topology to a JSON map file.
// The file is created with 0644 permissions.
func WriteMapFile(t *Topology, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return writeMapTo(t, f)
}

// ReadMapFile reads a JSON map file and returns the decoded topology.
// Returns INVALID_MAP errors for malformed files or topology violations.
func ReadMapFile(path string) (*Topology, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidMap, err, "open %s", path)
	}
	defer f.Close()
	return ReadMap(f)
}

// ReadMap decodes a JSON map from an io.Reader into a topology.
// Use ReadMapFile for files or pass bytes.NewReader for in-memory data.
func ReadMap(r io.Reader) (*Topology, error) {
	var m Map
	if err := json.NewDecoder(r).Decode(&m); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidMap, err, "decode map")
	}
	return ToTopology(m)
}

// =============================================================================
// Map ↔ Topology Conversion
// =============================================================================

// ToTopology converts a decoded Map to a validated topology.
func ToTopology(m Map) (*Topology, error) {
	positions := make(map[string]orb.Point, len(m.Nodes))
	for _, n := range m.Nodes {
		if err := errors.ValidateNodeID(n.ID); err != nil {
			return nil, err
		}
		if _, ok := positions[n.ID]; ok {
			return nil, errors.New(errors.ErrCodeInvalidMap, "duplicate node %q", n.ID)
		}
		positions[n.ID] = orb.Point{n.X, n.Y}
	}

	specs := make([]EdgeSpec, len(m.Edges))
	for i, e := range m.Edges {
		specs[i] = EdgeSpec{From: e.From, To: e.To, Weight: e.Weight}
	}

	t, err := NewTopology(positions, specs)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidMap, err, "invalid map")
	}
	return t, nil
}

// FromTopology converts a topology to its serialization format.
func FromTopology(t *Topology) Map {
	out := Map{
		Nodes: make([]MapNode, 0, t.NodeCount()),
		Edges: make([]MapEdge, 0, t.EdgeCount()),
	}
	for _, id := range t.Nodes() {
		p := t.positions[id]
		out.Nodes = append(out.Nodes, MapNode{ID: id, X: p[0], Y: p[1]})
	}
	for _, key := range t.Edges() {
		out.Edges = append(out.Edges, MapEdge{From: key.A, To: key.B, Weight: t.base[key]})
	}
	return out
}

// =============================================================================
// Internal Implementation
// =============================================================================

func writeMapTo(t *Topology, w io.Writer) error {
	out := FromTopology(t)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}
