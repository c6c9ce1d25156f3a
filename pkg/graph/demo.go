package graph

// DemoMap is the built-in thirteen-place city used when no map file is
// given. Edge weights default to the Euclidean distance between the
// endpoints.
func DemoMap() Map {
	return Map{
		Nodes: []MapNode{
			{ID: "Bank", X: 100, Y: 100},
			{ID: "Cafe", X: 350, Y: 120},
			{ID: "Club", X: 600, Y: 100},
			{ID: "Park", X: 900, Y: 130},
			{ID: "Mall", X: 1200, Y: 100},
			{ID: "School", X: 150, Y: 300},
			{ID: "Gym", X: 450, Y: 280},
			{ID: "Market", X: 700, Y: 300},
			{ID: "Hospital", X: 950, Y: 280},
			{ID: "Cinema", X: 1200, Y: 300},
			{ID: "Library", X: 400, Y: 500},
			{ID: "Office", X: 1000, Y: 500},
			{ID: "Home", X: 700, Y: 600},
		},
		Edges: []MapEdge{
			{From: "Bank", To: "Cafe"},
			{From: "Bank", To: "School"},
			{From: "Cafe", To: "Club"},
			{From: "Cafe", To: "Gym"},
			{From: "Club", To: "Park"},
			{From: "Club", To: "Market"},
			{From: "Park", To: "Mall"},
			{From: "Park", To: "Hospital"},
			{From: "Mall", To: "Cinema"},
			{From: "School", To: "Gym"},
			{From: "Gym", To: "Market"},
			{From: "Gym", To: "Library"},
			{From: "Market", To: "Hospital"},
			{From: "Market", To: "Office"},
			{From: "Market", To: "Home"},
			{From: "Hospital", To: "Cinema"},
			{From: "Cinema", To: "Office"},
			{From: "Library", To: "Office"},
		},
	}
}

// DemoTopology builds the demo map's topology. It never fails; the map
// is validated by tests.
func DemoTopology() *Topology {
	t, err := ToTopology(DemoMap())
	if err != nil {
		panic("graph: demo map invalid: " + err.Error())
	}
	return t
}
