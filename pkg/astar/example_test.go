package astar_test

import (
	"fmt"

	"github.com/paulmach/orb"

	"github.com/matzehuels/wayfinder/pkg/astar"
	"github.com/matzehuels/wayfinder/pkg/graph"
)

func ExampleFind() {
	// A diamond map with a cheap route through Cafe and an expensive
	// detour through Park.
	topo, _ := graph.NewTopology(map[string]orb.Point{
		"Home":   {0, 0},
		"Cafe":   {3, 4},
		"Park":   {0, 5},
		"Office": {6, 8},
	}, []graph.EdgeSpec{
		{From: "Home", To: "Cafe", Weight: 10},
		{From: "Cafe", To: "Office", Weight: 10},
		{From: "Home", To: "Park", Weight: 100},
		{From: "Park", To: "Office", Weight: 100},
	})
	g := graph.New(topo, graph.Options{})

	res, _ := astar.Find(g, "Home", "Office")
	fmt.Println("Path:", res.Path)
	fmt.Println("Cost:", res.Cost)

	// Block the cheap edge and the search reroutes through Park.
	_, _ = g.ToggleBlockedEdge("Home", "Cafe")
	res, _ = astar.Find(g, "Home", "Office")
	fmt.Println("Detour:", res.Path)
	fmt.Println("Cost:", res.Cost)
	// Output:
	// Path: [Home Cafe Office]
	// Cost: 20
	// Detour: [Home Park Office]
	// Cost: 200
}
