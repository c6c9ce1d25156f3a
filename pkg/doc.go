// Package pkg provides the core libraries for wayfinder route planning.
//
// # Overview
//
// Wayfinder computes cheapest paths over small weighted road maps whose
// state can be perturbed interactively: intersections and streets can
// be blocked, and traffic can raise or lower street costs. The pkg
// directory is organized into five main areas:
//
//  1. [graph] - Map topology, mutable overlays, traffic classification
//  2. [astar] - The A* search over an overlay
//  3. [planner] - Sessions, result caching, invalidation
//  4. [server] - The HTTP API
//  5. [spatial] - Coordinate-to-element resolution
//
// # Architecture
//
// The typical data flow through wayfinder:
//
//	Map file (JSON)
//	         ↓
//	    [graph] package (topology + per-session overlay)
//	         ↓
//	    [astar] package (heuristic search)
//	         ↓
//	    [planner] package (sessions, caching)
//	         ↓
//	    CLI output / HTTP API
//
// Supporting packages: [cache] for route result storage, [config] for
// TOML settings, [spatial] for nearest-node and nearest-edge queries,
// [errors] for coded errors, [observability] for instrumentation hooks,
// and [buildinfo] for version stamping.
package pkg
