// Package spatial answers "what is near this point" questions against a
// topology. A pointer position arrives as a raw coordinate; the index
// resolves it to the closest node or edge within a pick radius so
// callers can address graph elements by position rather than by ID.
//
// The index is built once per topology and is read-only afterwards, so
// it is safe for concurrent use.
package spatial

import (
	"github.com/dhconnelly/rtreego"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"github.com/matzehuels/wayfinder/pkg/graph"
)

// DefaultPickRadius is the default maximum distance, in map units, at
// which a query point still resolves to an element.
const DefaultPickRadius = 15.0

// pointTolerance pads node points into valid R-tree rectangles.
const pointTolerance = 1e-9

type nodeEntry struct {
	id   string
	rect rtreego.Rect
}

func (e *nodeEntry) Bounds() rtreego.Rect { return e.rect }

type edgeEntry struct {
	key  graph.EdgeKey
	a, b orb.Point
	rect rtreego.Rect
}

func (e *edgeEntry) Bounds() rtreego.Rect { return e.rect }

// Index holds R-trees over a topology's nodes and edge segments.
type Index struct {
	topo  *graph.Topology
	nodes *rtreego.Rtree
	edges *rtreego.Rtree
}

// NewIndex builds a spatial index over every node and edge of t.
func NewIndex(t *graph.Topology) *Index {
	idx := &Index{
		topo:  t,
		nodes: rtreego.NewTree(2, 25, 50),
		edges: rtreego.NewTree(2, 25, 50),
	}

	for _, id := range t.Nodes() {
		p, _ := t.Position(id)
		idx.nodes.Insert(&nodeEntry{
			id:   id,
			rect: rtreego.Point{p.X(), p.Y()}.ToRect(pointTolerance),
		})
	}

	for _, key := range t.Edges() {
		a, _ := t.Position(key.A)
		b, _ := t.Position(key.B)
		rect, err := segmentRect(a, b)
		if err != nil {
			continue
		}
		idx.edges.Insert(&edgeEntry{key: key, a: a, b: b, rect: rect})
	}

	return idx
}

// NearestNode returns the node closest to p within maxDist, or false if
// none is in range. Ties resolve to the smaller node ID.
func (idx *Index) NearestNode(p orb.Point, maxDist float64) (string, bool) {
	if maxDist <= 0 {
		maxDist = DefaultPickRadius
	}
	rect, err := queryRect(p, maxDist)
	if err != nil {
		return "", false
	}

	var (
		bestID   string
		bestDist float64
		found    bool
	)
	for _, item := range idx.nodes.SearchIntersect(rect) {
		entry := item.(*nodeEntry)
		pos, _ := idx.topo.Position(entry.id)
		d := planar.Distance(p, pos)
		if d > maxDist {
			continue
		}
		if !found || d < bestDist || (d == bestDist && entry.id < bestID) {
			bestID, bestDist, found = entry.id, d, true
		}
	}
	return bestID, found
}

// NearestEdge returns the edge whose segment is closest to p within
// maxDist, or false if none is in range. Ties resolve to the smaller
// canonical key.
func (idx *Index) NearestEdge(p orb.Point, maxDist float64) (graph.EdgeKey, bool) {
	if maxDist <= 0 {
		maxDist = DefaultPickRadius
	}
	rect, err := queryRect(p, maxDist)
	if err != nil {
		return graph.EdgeKey{}, false
	}

	var (
		bestKey  graph.EdgeKey
		bestDist float64
		found    bool
	)
	for _, item := range idx.edges.SearchIntersect(rect) {
		entry := item.(*edgeEntry)
		d := planar.DistanceFromSegment(entry.a, entry.b, p)
		if d > maxDist {
			continue
		}
		if !found || d < bestDist || (d == bestDist && lessKey(entry.key, bestKey)) {
			bestKey, bestDist, found = entry.key, d, true
		}
	}
	return bestKey, found
}

func lessKey(a, b graph.EdgeKey) bool {
	if a.A != b.A {
		return a.A < b.A
	}
	return a.B < b.B
}

// queryRect is the axis-aligned box of half-size maxDist around p.
// Candidates inside it still get an exact distance check.
func queryRect(p orb.Point, maxDist float64) (rtreego.Rect, error) {
	return rtreego.NewRect(
		rtreego.Point{p.X() - maxDist, p.Y() - maxDist},
		[]float64{2 * maxDist, 2 * maxDist},
	)
}

func segmentRect(a, b orb.Point) (rtreego.Rect, error) {
	minX, maxX := a.X(), b.X()
	if maxX < minX {
		minX, maxX = maxX, minX
	}
	minY, maxY := a.Y(), b.Y()
	if maxY < minY {
		minY, maxY = maxY, minY
	}
	// Degenerate extents (axis-aligned segments) need padding to form a
	// valid rectangle.
	return rtreego.NewRect(
		rtreego.Point{minX - pointTolerance, minY - pointTolerance},
		[]float64{maxX - minX + 2*pointTolerance, maxY - minY + 2*pointTolerance},
	)
}
