package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/paulmach/orb"

	"github.com/matzehuels/wayfinder/pkg/cache"
	"github.com/matzehuels/wayfinder/pkg/config"
	"github.com/matzehuels/wayfinder/pkg/graph"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	topo, err := graph.NewTopology(
		map[string]orb.Point{
			"A": {0, 0},
			"B": {3, 4},
			"C": {0, 5},
			"D": {6, 8},
		},
		[]graph.EdgeSpec{
			{From: "A", To: "B", Weight: 10},
			{From: "B", To: "D", Weight: 10},
			{From: "A", To: "C", Weight: 100},
			{From: "C", To: "D", Weight: 100},
		},
	)
	if err != nil {
		t.Fatal(err)
	}
	return New(config.Default(), topo, cache.NewMemoryCache(), log.New(io.Discard))
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return v
}

func newSession(t *testing.T, h http.Handler) string {
	t.Helper()
	rec := do(t, h, http.MethodPost, "/api/v1/sessions/", nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create session: status = %d, body = %s", rec.Code, rec.Body.String())
	}
	return decode[sessionResponse](t, rec).ID
}

func TestHealth(t *testing.T) {
	h := testServer(t).Handler()
	rec := do(t, h, http.MethodGet, "/health", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestMapEndpoint(t *testing.T) {
	h := testServer(t).Handler()
	rec := do(t, h, http.MethodGet, "/api/v1/map", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	resp := decode[mapResponse](t, rec)
	if len(resp.Nodes) != 4 || len(resp.Edges) != 4 {
		t.Errorf("map = %d nodes, %d edges; want 4, 4", len(resp.Nodes), len(resp.Edges))
	}
	if resp.Hash == "" {
		t.Error("map hash should be set")
	}
}

func TestLocate(t *testing.T) {
	h := testServer(t).Handler()

	rec := do(t, h, http.MethodGet, "/api/v1/map/locate?x=3&y=4", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	resp := decode[locateResponse](t, rec)
	if resp.Node == nil || *resp.Node != "B" {
		t.Errorf("Node = %v, want B", resp.Node)
	}

	rec = do(t, h, http.MethodGet, "/api/v1/map/locate?x=abc&y=4", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad coordinate: status = %d, want 400", rec.Code)
	}
}

func TestSessionLifecycle(t *testing.T) {
	h := testServer(t).Handler()
	id := newSession(t, h)

	rec := do(t, h, http.MethodGet, "/api/v1/sessions/"+id+"/", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get session: status = %d", rec.Code)
	}

	rec = do(t, h, http.MethodDelete, "/api/v1/sessions/"+id+"/", nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete session: status = %d", rec.Code)
	}

	rec = do(t, h, http.MethodGet, "/api/v1/sessions/"+id+"/", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("get deleted session: status = %d, want 404", rec.Code)
	}
}

func TestSessionValidation(t *testing.T) {
	h := testServer(t).Handler()

	rec := do(t, h, http.MethodGet, "/api/v1/sessions/not-a-uuid/", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("malformed id: status = %d, want 400", rec.Code)
	}

	rec = do(t, h, http.MethodGet, "/api/v1/sessions/00000000-0000-0000-0000-000000000000/", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown id: status = %d, want 404", rec.Code)
	}
}

func TestRouteFlow(t *testing.T) {
	h := testServer(t).Handler()
	id := newSession(t, h)

	rec := do(t, h, http.MethodPost, "/api/v1/sessions/"+id+"/route", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("route without endpoints: status = %d, want 400", rec.Code)
	}

	rec = do(t, h, http.MethodPut, "/api/v1/sessions/"+id+"/endpoints",
		endpointsRequest{Start: "A", Goal: "D"})
	if rec.Code != http.StatusOK {
		t.Fatalf("select endpoints: status = %d, body = %s", rec.Code, rec.Body.String())
	}

	rec = do(t, h, http.MethodPost, "/api/v1/sessions/"+id+"/route", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("route: status = %d, body = %s", rec.Code, rec.Body.String())
	}
	route := decode[routeResponse](t, rec)
	if !route.Found || route.Cost != 20 {
		t.Errorf("route = %+v, want found with cost 20", route)
	}
	if route.Cached {
		t.Error("first route should not be cached")
	}

	rec = do(t, h, http.MethodPost, "/api/v1/sessions/"+id+"/route", nil)
	if cached := decode[routeResponse](t, rec); !cached.Cached {
		t.Error("unchanged replan should reuse the last route")
	}
}

func TestRouteAfterBlock(t *testing.T) {
	h := testServer(t).Handler()
	id := newSession(t, h)

	do(t, h, http.MethodPut, "/api/v1/sessions/"+id+"/endpoints",
		endpointsRequest{Start: "A", Goal: "D"})

	rec := do(t, h, http.MethodPost, "/api/v1/sessions/"+id+"/block/edge",
		edgeRequest{From: "A", To: "B"})
	if rec.Code != http.StatusOK {
		t.Fatalf("block edge: status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if !decode[blockResponse](t, rec).Blocked {
		t.Error("edge should be blocked after first toggle")
	}

	rec = do(t, h, http.MethodPost, "/api/v1/sessions/"+id+"/route", nil)
	route := decode[routeResponse](t, rec)
	if !route.Found || route.Cost != 200 {
		t.Errorf("detour route = %+v, want cost 200", route)
	}

	rec = do(t, h, http.MethodPost, "/api/v1/sessions/"+id+"/reset", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("reset: status = %d", rec.Code)
	}
	rec = do(t, h, http.MethodPost, "/api/v1/sessions/"+id+"/route", nil)
	if route := decode[routeResponse](t, rec); route.Cost != 20 {
		t.Errorf("route after reset = %+v, want cost 20", route)
	}
}

func TestBlockNodeValidation(t *testing.T) {
	h := testServer(t).Handler()
	id := newSession(t, h)

	rec := do(t, h, http.MethodPost, "/api/v1/sessions/"+id+"/block/node",
		blockNodeRequest{ID: "nope"})
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown node: status = %d, want 404", rec.Code)
	}
}

func TestTrafficAdjust(t *testing.T) {
	h := testServer(t).Handler()
	id := newSession(t, h)

	rec := do(t, h, http.MethodPost, "/api/v1/sessions/"+id+"/traffic",
		trafficRequest{From: "A", To: "B", Direction: "increase"})
	if rec.Code != http.StatusOK {
		t.Fatalf("adjust: status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if resp := decode[trafficResponse](t, rec); resp.Weight != 10+graph.DefaultTrafficStep {
		t.Errorf("Weight = %v, want %v", resp.Weight, 10+graph.DefaultTrafficStep)
	}

	rec = do(t, h, http.MethodPost, "/api/v1/sessions/"+id+"/traffic",
		trafficRequest{From: "A", To: "B", Direction: "sideways"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad direction: status = %d, want 400", rec.Code)
	}

	rec = do(t, h, http.MethodGet, "/api/v1/sessions/"+id+"/traffic", nil)
	states := decode[[]graph.EdgeState](t, rec)
	if len(states) != 4 {
		t.Fatalf("traffic state: %d edges, want 4", len(states))
	}
	for _, st := range states {
		if st.Key == graph.NewEdgeKey("A", "B") && st.Current != 10+graph.DefaultTrafficStep {
			t.Errorf("edge A-B current = %v", st.Current)
		}
	}
}
