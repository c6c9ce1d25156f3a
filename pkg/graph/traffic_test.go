package graph

import (
	"testing"

	"github.com/paulmach/orb"
)

// line is a two-node map with a unit-length edge, so the traffic ratio
// equals the current weight.
func line() *Topology {
	t, err := NewTopology(map[string]orb.Point{
		"A": {0, 0},
		"B": {1, 0},
	}, []EdgeSpec{{From: "A", To: "B", Weight: 1}})
	if err != nil {
		panic(err)
	}
	return t
}

func TestTrafficLevel(t *testing.T) {
	tests := []struct {
		name   string
		weight float64
		want   Level
	}{
		{"base weight is normal", 1, LevelNormal},
		{"just below normal threshold", 1.59, LevelNormal},
		{"at normal threshold", 1.6, LevelModerate},
		{"just below moderate threshold", 2.59, LevelModerate},
		{"at moderate threshold", 2.6, LevelHeavy},
		{"far above", 40, LevelHeavy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New(line(), Options{TrafficStep: tt.weight - 1})
			if tt.weight != 1 {
				if err := g.AdjustWeight("A", "B", Increase); err != nil {
					t.Fatal(err)
				}
			}
			got, err := g.TrafficLevel("A", "B", Thresholds{})
			if err != nil {
				t.Fatalf("TrafficLevel() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("TrafficLevel(weight=%v) = %v, want %v", tt.weight, got, tt.want)
			}
		})
	}
}

func TestTrafficLevelCustomThresholds(t *testing.T) {
	g := New(line(), Options{TrafficStep: 4})
	if err := g.AdjustWeight("A", "B", Increase); err != nil {
		t.Fatal(err)
	}

	// Ratio is 5: heavy under defaults, normal under a lax threshold.
	level, err := g.TrafficLevel("A", "B", Thresholds{Normal: 10, Moderate: 20})
	if err != nil {
		t.Fatal(err)
	}
	if level != LevelNormal {
		t.Errorf("TrafficLevel with lax thresholds = %v, want normal", level)
	}
}

func TestLevelString(t *testing.T) {
	tests := []struct {
		level Level
		want  string
	}{
		{LevelNormal, "normal"},
		{LevelModerate, "moderate"},
		{LevelHeavy, "heavy"},
	}
	for _, tt := range tests {
		if got := tt.level.String(); got != tt.want {
			t.Errorf("Level(%d).String() = %q, want %q", tt.level, got, tt.want)
		}
	}
}

func TestEdgeStates(t *testing.T) {
	g := New(square(), Options{})
	if err := g.AdjustWeight("A", "B", Increase); err != nil {
		t.Fatal(err)
	}
	if _, err := g.ToggleBlockedEdge("C", "D"); err != nil {
		t.Fatal(err)
	}

	states := g.EdgeStates(Thresholds{})
	if len(states) != 4 {
		t.Fatalf("EdgeStates() returned %d entries, want 4", len(states))
	}

	byKey := make(map[EdgeKey]EdgeState, len(states))
	for _, s := range states {
		byKey[s.Key] = s
	}

	ab := byKey[NewEdgeKey("A", "B")]
	if ab.Base != 10 || ab.Current != 60 {
		t.Errorf("A-B state = base %v current %v, want 10/60", ab.Base, ab.Current)
	}
	if !byKey[NewEdgeKey("C", "D")].Blocked {
		t.Error("C-D should be marked blocked")
	}
}
