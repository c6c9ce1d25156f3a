package graph

import (
	"testing"

	"github.com/matzehuels/wayfinder/pkg/errors"
)

func TestEdgeWeight(t *testing.T) {
	g := New(square(), Options{})

	w, err := g.EdgeWeight("B", "A")
	if err != nil {
		t.Fatalf("EdgeWeight() error = %v", err)
	}
	if w != 10 {
		t.Errorf("EdgeWeight(B,A) = %v, want 10", w)
	}

	_, err = g.EdgeWeight("A", "D")
	if !errors.Is(err, errors.ErrCodeNoSuchEdge) {
		t.Errorf("EdgeWeight on missing edge: error = %v, want NO_SUCH_EDGE", err)
	}
}

func TestAdjustWeight(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		dirs []Direction
		want float64
	}{
		{
			name: "single increase",
			dirs: []Direction{Increase},
			want: 60,
		},
		{
			name: "increase then decrease round-trips",
			dirs: []Direction{Increase, Decrease},
			want: 10,
		},
		{
			name: "decrease clamps at floor",
			dirs: []Direction{Decrease},
			want: 1,
		},
		{
			name: "repeated decreases stay at floor",
			dirs: []Direction{Decrease, Decrease, Decrease},
			want: 1,
		},
		{
			name: "custom step and floor",
			opts: Options{TrafficStep: 3, WeightFloor: 8},
			dirs: []Direction{Decrease},
			want: 8,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New(square(), tt.opts)
			for _, dir := range tt.dirs {
				if err := g.AdjustWeight("A", "B", dir); err != nil {
					t.Fatalf("AdjustWeight() error = %v", err)
				}
			}
			w, _ := g.EdgeWeight("A", "B")
			if w != tt.want {
				t.Errorf("weight after %v = %v, want %v", tt.dirs, w, tt.want)
			}
		})
	}

	t.Run("missing edge", func(t *testing.T) {
		g := New(square(), Options{})
		err := g.AdjustWeight("A", "D", Increase)
		if !errors.Is(err, errors.ErrCodeNoSuchEdge) {
			t.Errorf("AdjustWeight on missing edge: error = %v, want NO_SUCH_EDGE", err)
		}
	})
}

func TestToggleBlockedNode(t *testing.T) {
	g := New(square(), Options{})

	blocked, err := g.ToggleBlockedNode("B")
	if err != nil {
		t.Fatalf("ToggleBlockedNode() error = %v", err)
	}
	if !blocked || !g.IsNodeBlocked("B") {
		t.Error("first toggle should block the node")
	}

	blocked, err = g.ToggleBlockedNode("B")
	if err != nil {
		t.Fatalf("ToggleBlockedNode() error = %v", err)
	}
	if blocked || g.IsNodeBlocked("B") {
		t.Error("second toggle should restore the original state")
	}

	if _, err := g.ToggleBlockedNode("Z"); !errors.Is(err, errors.ErrCodeNoSuchNode) {
		t.Errorf("toggling unknown node: error = %v, want NO_SUCH_NODE", err)
	}
}

func TestToggleBlockedEdge(t *testing.T) {
	g := New(square(), Options{})

	blocked, err := g.ToggleBlockedEdge("B", "A")
	if err != nil {
		t.Fatalf("ToggleBlockedEdge() error = %v", err)
	}
	if !blocked {
		t.Error("first toggle should block the edge")
	}
	// Order-independent query.
	if !g.IsEdgeBlocked("A", "B") {
		t.Error("IsEdgeBlocked should be order-independent")
	}

	if _, err := g.ToggleBlockedEdge("A", "B"); err != nil {
		t.Fatalf("ToggleBlockedEdge() error = %v", err)
	}
	if g.IsEdgeBlocked("A", "B") {
		t.Error("second toggle should restore the original state")
	}

	if _, err := g.ToggleBlockedEdge("A", "D"); !errors.Is(err, errors.ErrCodeNoSuchEdge) {
		t.Errorf("toggling missing edge: error = %v, want NO_SUCH_EDGE", err)
	}
}

func TestGenerationBumpsOnEveryMutation(t *testing.T) {
	g := New(square(), Options{})

	gen := g.Generation()
	if _, err := g.ToggleBlockedNode("A"); err != nil {
		t.Fatal(err)
	}
	if g.Generation() == gen {
		t.Error("ToggleBlockedNode did not bump generation")
	}

	gen = g.Generation()
	if _, err := g.ToggleBlockedEdge("A", "B"); err != nil {
		t.Fatal(err)
	}
	if g.Generation() == gen {
		t.Error("ToggleBlockedEdge did not bump generation")
	}

	gen = g.Generation()
	if err := g.AdjustWeight("A", "B", Increase); err != nil {
		t.Fatal(err)
	}
	if g.Generation() == gen {
		t.Error("AdjustWeight did not bump generation")
	}

	gen = g.Generation()
	g.Reset()
	if g.Generation() == gen {
		t.Error("Reset did not bump generation")
	}
}

func TestReset(t *testing.T) {
	g := New(square(), Options{})

	if err := g.AdjustWeight("A", "B", Increase); err != nil {
		t.Fatal(err)
	}
	if _, err := g.ToggleBlockedNode("C"); err != nil {
		t.Fatal(err)
	}
	if _, err := g.ToggleBlockedEdge("B", "D"); err != nil {
		t.Fatal(err)
	}

	g.Reset()

	if w, _ := g.EdgeWeight("A", "B"); w != 10 {
		t.Errorf("weight after Reset = %v, want base 10", w)
	}
	if len(g.BlockedNodes()) != 0 || len(g.BlockedEdges()) != 0 {
		t.Error("Reset should clear both blocked sets")
	}
}

func TestFingerprint(t *testing.T) {
	g := New(square(), Options{})
	before := g.Fingerprint()

	if g.Fingerprint() != before {
		t.Error("fingerprint should be deterministic for unchanged state")
	}

	if _, err := g.ToggleBlockedNode("A"); err != nil {
		t.Fatal(err)
	}
	if g.Fingerprint() == before {
		t.Error("blocking a node should change the fingerprint")
	}

	// Toggle back: state is identical to the original, so the
	// fingerprint must match again (it keys caches by state, not history).
	if _, err := g.ToggleBlockedNode("A"); err != nil {
		t.Fatal(err)
	}
	if g.Fingerprint() != before {
		t.Error("toggle;toggle should restore the original fingerprint")
	}

	if err := g.AdjustWeight("C", "D", Increase); err != nil {
		t.Fatal(err)
	}
	if g.Fingerprint() == before {
		t.Error("a weight change should change the fingerprint")
	}
}

func TestBlockedSetsSorted(t *testing.T) {
	g := New(square(), Options{})
	for _, id := range []string{"D", "A", "C"} {
		if _, err := g.ToggleBlockedNode(id); err != nil {
			t.Fatal(err)
		}
	}
	got := g.BlockedNodes()
	want := []string{"A", "C", "D"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("BlockedNodes() = %v, want %v", got, want)
		}
	}
}
