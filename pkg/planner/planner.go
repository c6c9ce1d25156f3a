// Package planner coordinates route computation over a mutable overlay.
//
// The package has two layers:
//   - Planner: stateless route execution with caching. Results are keyed
//     on the overlay fingerprint plus the endpoint pair, so any mutation
//     produces a new key and stale entries can never be served.
//   - Session: a long-lived interactive unit of work. A session owns one
//     overlay, the selected endpoints, and the last computed route. The
//     last route is dropped on every mutation and on every endpoint
//     change, whether or not the change could have affected it.
//
// Both CLI and API use the same Planner so caching logic lives in one
// place. Multiple goroutines can safely share a Planner; a Session
// serializes access with its own lock.
package planner

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/wayfinder/pkg/astar"
	"github.com/matzehuels/wayfinder/pkg/cache"
	"github.com/matzehuels/wayfinder/pkg/graph"
	"github.com/matzehuels/wayfinder/pkg/observability"
)

// Route is the outcome of a single plan request. Found is false when the
// endpoints are valid but no unblocked path connects them.
type Route struct {
	Start       string   `json:"start"`
	Goal        string   `json:"goal"`
	Path        []string `json:"path,omitempty"`
	Cost        float64  `json:"cost"`
	Found       bool     `json:"found"`
	Expanded    int      `json:"expanded"`
	Fingerprint string   `json:"fingerprint"`
}

// Planner executes route requests with caching.
//
// The Planner is stateless except for the cache and logger - it doesn't
// hold overlays or results between calls.
type Planner struct {
	Cache  cache.Cache
	Logger *log.Logger
}

// NewPlanner creates a planner with the given cache.
// If c is nil, a NullCache is used (caching disabled).
func NewPlanner(c cache.Cache, logger *log.Logger) *Planner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Planner{Cache: c, Logger: logger}
}

// Route computes the cheapest path from start to goal over the overlay.
func (p *Planner) Route(ctx context.Context, g *graph.Graph, start, goal string) (*Route, error) {
	route, _, err := p.RouteWithCacheInfo(ctx, g, start, goal)
	return route, err
}

// RouteWithCacheInfo computes a route and reports whether it came from
// the cache. Cached entries are only consulted and written under the
// overlay's current fingerprint, so a mutation between two calls always
// forces a fresh search.
func (p *Planner) RouteWithCacheInfo(ctx context.Context, g *graph.Graph, start, goal string) (*Route, bool, error) {
	fingerprint := g.Fingerprint()
	key := cache.RouteKey(fingerprint, start, goal)

	if data, hit, err := p.Cache.Get(ctx, key); err == nil && hit {
		var cached Route
		if err := json.Unmarshal(data, &cached); err == nil {
			p.Logger.Debug("route cache hit", "start", start, "goal", goal)
			observability.Cache().OnCacheHit(ctx, "route")
			return &cached, true, nil
		}
		// Invalid cache entry - fall through to recompute
	}
	observability.Cache().OnCacheMiss(ctx, "route")

	observability.Search().OnSearchStart(ctx, start, goal)
	searchStart := time.Now()
	result, err := astar.Find(g, start, goal)
	if err != nil {
		return nil, false, err
	}
	observability.Search().OnSearchComplete(ctx, start, goal,
		result.Expanded, result.Found, time.Since(searchStart))

	route := &Route{
		Start:       start,
		Goal:        goal,
		Path:        result.Path,
		Cost:        result.Cost,
		Found:       result.Found,
		Expanded:    result.Expanded,
		Fingerprint: fingerprint,
	}

	p.Logger.Info("computed route",
		"start", start,
		"goal", goal,
		"found", result.Found,
		"cost", result.Cost,
		"expanded", result.Expanded,
		"duration", time.Since(searchStart))

	if data, err := json.Marshal(route); err == nil {
		_ = p.Cache.Set(ctx, key, data, cache.TTLRoute)
		observability.Cache().OnCacheSet(ctx, "route", len(data))
	}

	return route, false, nil
}

// Close releases resources held by the planner (primarily the cache).
func (p *Planner) Close() error {
	if p.Cache != nil {
		return p.Cache.Close()
	}
	return nil
}
