// Package graph holds the road map the planner routes over: the
// immutable topology and the mutable per-session overlay.
//
// # Architecture
//
// The package separates what never changes from what users perturb:
//
//   - [Topology]: node positions, undirected edges, base weights.
//     Built once at startup, shared by any number of overlays.
//   - [Graph]: one session's overlay: blocked nodes, blocked edges
//     and current traffic weights.
//
// The pathfinder in pkg/astar reads both; UI collaborators read
// [Topology.Neighbors] (true shape, blocking not hidden) and
// [Graph.EdgeStates] (weights and traffic levels for coloring).
//
// # Map Serialization
//
// Maps use a simple JSON format, the engine's startup input:
//
//	{
//	  "nodes": [{"id": "Bank", "x": 100, "y": 100}],
//	  "edges": [{"from": "Bank", "to": "Cafe", "weight": 251}]
//	}
//
// Common operations:
//
//	topo, _ := graph.ReadMapFile("city.json")   // File → Topology
//	graph.WriteMapFile(topo, "out.json")        // Topology → File
//	data, _ := graph.MarshalMap(topo)           // Topology → []byte
//
// An omitted edge weight defaults to the Euclidean distance between the
// endpoints, which is how hand-authored maps are usually written.
//
// # Mutation
//
// All overlay mutators bump [Graph.Generation], which is how the
// planning session detects that a cached path result has gone stale.
package graph
