package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/paulmach/orb"

	"github.com/matzehuels/wayfinder/pkg/errors"
	"github.com/matzehuels/wayfinder/pkg/graph"
	"github.com/matzehuels/wayfinder/pkg/observability"
	"github.com/matzehuels/wayfinder/pkg/planner"
)

// ==================== Health & map ====================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type mapNode struct {
	ID string  `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

type mapEdge struct {
	From   string  `json:"from"`
	To     string  `json:"to"`
	Weight float64 `json:"weight"`
	Length float64 `json:"length"`
}

type mapResponse struct {
	Nodes []mapNode `json:"nodes"`
	Edges []mapEdge `json:"edges"`
	Hash  string    `json:"hash"`
}

func (s *Server) handleMap(w http.ResponseWriter, r *http.Request) {
	resp := mapResponse{Hash: s.topo.Hash()}
	for _, id := range s.topo.Nodes() {
		p, _ := s.topo.Position(id)
		resp.Nodes = append(resp.Nodes, mapNode{ID: id, X: p.X(), Y: p.Y()})
	}
	for _, key := range s.topo.Edges() {
		length, _ := s.topo.Length(key.A, key.B)
		weight, _ := s.topo.BaseWeight(key.A, key.B)
		resp.Edges = append(resp.Edges, mapEdge{
			From:   key.A,
			To:     key.B,
			Weight: weight,
			Length: length,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

type locateResponse struct {
	Node *string  `json:"node,omitempty"`
	Edge *mapEdge `json:"edge,omitempty"`
}

// handleLocate resolves a coordinate to the nearest node and edge
// within the pick radius.
func (s *Server) handleLocate(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	x, errX := strconv.ParseFloat(q.Get("x"), 64)
	y, errY := strconv.ParseFloat(q.Get("y"), 64)
	if errX != nil || errY != nil {
		writeError(w, errors.New(errors.ErrCodeInvalidInput, "x and y must be numbers"))
		return
	}
	radius := s.cfg.Map.PickRadius
	if raw := q.Get("radius"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil || parsed <= 0 {
			writeError(w, errors.New(errors.ErrCodeInvalidInput, "radius must be a positive number"))
			return
		}
		radius = parsed
	}

	p := orb.Point{x, y}
	var resp locateResponse
	if id, ok := s.index.NearestNode(p, radius); ok {
		resp.Node = &id
	}
	if key, ok := s.index.NearestEdge(p, radius); ok {
		resp.Edge = &mapEdge{From: key.A, To: key.B}
	}
	writeJSON(w, http.StatusOK, resp)
}

// ==================== Sessions ====================

type sessionResponse struct {
	ID        string `json:"id"`
	CreatedAt string `json:"created_at"`
	ExpiresAt string `json:"expires_at"`
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	sess := planner.NewSession(s.topo, s.cfg.GraphOptions(), s.cfg.SessionTTL())
	if err := s.store.Put(r.Context(), sess); err != nil {
		writeError(w, err)
		return
	}
	s.logger.Info("session created", "session", sess.ID)
	observability.Session().OnSessionCreate(r.Context(), sess.ID)
	writeJSON(w, http.StatusCreated, sessionResponse{
		ID:        sess.ID,
		CreatedAt: sess.CreatedAt.Format(timeFormat),
		ExpiresAt: sess.ExpiresAt().Format(timeFormat),
	})
}

const timeFormat = "2006-01-02T15:04:05Z07:00"

// session loads the request's session and extends its TTL.
func (s *Server) session(w http.ResponseWriter, r *http.Request) (*planner.Session, bool) {
	id := chi.URLParam(r, "sessionID")
	if err := errors.ValidateSessionID(id); err != nil {
		writeError(w, err)
		return nil, false
	}
	sess, err := s.store.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return nil, false
	}
	sess.Touch()
	return sess, true
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sess.Snapshot(s.cfg.Thresholds()))
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	if err := s.store.Delete(r.Context(), sess.ID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ==================== Endpoints & routing ====================

type endpointsRequest struct {
	Start string `json:"start,omitempty"`
	Goal  string `json:"goal,omitempty"`
}

func (s *Server) handleSelectEndpoints(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req endpointsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body"))
		return
	}
	if req.Start == "" && req.Goal == "" {
		writeError(w, errors.New(errors.ErrCodeInvalidInput, "at least one of start or goal is required"))
		return
	}
	if req.Start != "" {
		if err := sess.SelectStart(req.Start); err != nil {
			writeError(w, err)
			return
		}
	}
	if req.Goal != "" {
		if err := sess.SelectGoal(req.Goal); err != nil {
			writeError(w, err)
			return
		}
	}
	start, goal := sess.Endpoints()
	writeJSON(w, http.StatusOK, endpointsRequest{Start: start, Goal: goal})
}

type routeResponse struct {
	*planner.Route
	Cached bool `json:"cached"`
}

func (s *Server) handleRoute(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	route, cached, err := sess.PlanWithCacheInfo(r.Context(), s.planner)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, routeResponse{Route: route, Cached: cached})
}

// ==================== Mutations ====================

type blockNodeRequest struct {
	ID string `json:"id"`
}

type blockResponse struct {
	Blocked bool `json:"blocked"`
}

func (s *Server) handleBlockNode(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req blockNodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body"))
		return
	}
	blocked, err := sess.ToggleNode(req.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	s.logger.Info("node toggled", "session", sess.ID, "node", req.ID, "blocked", blocked)
	observability.Session().OnSessionMutate(r.Context(), sess.ID, "block-node")
	writeJSON(w, http.StatusOK, blockResponse{Blocked: blocked})
}

type edgeRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
}

func (s *Server) handleBlockEdge(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req edgeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body"))
		return
	}
	blocked, err := sess.ToggleEdge(req.From, req.To)
	if err != nil {
		writeError(w, err)
		return
	}
	s.logger.Info("edge toggled",
		"session", sess.ID, "from", req.From, "to", req.To, "blocked", blocked)
	observability.Session().OnSessionMutate(r.Context(), sess.ID, "block-edge")
	writeJSON(w, http.StatusOK, blockResponse{Blocked: blocked})
}

type trafficRequest struct {
	From      string `json:"from"`
	To        string `json:"to"`
	Direction string `json:"direction"`
}

type trafficResponse struct {
	Weight float64 `json:"weight"`
}

func (s *Server) handleAdjustTraffic(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req trafficRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body"))
		return
	}

	var dir graph.Direction
	switch req.Direction {
	case "increase":
		dir = graph.Increase
	case "decrease":
		dir = graph.Decrease
	default:
		writeError(w, errors.New(errors.ErrCodeInvalidInput,
			"direction must be increase or decrease, got %q", req.Direction))
		return
	}

	weight, err := sess.AdjustWeight(req.From, req.To, dir)
	if err != nil {
		writeError(w, err)
		return
	}
	observability.Session().OnSessionMutate(r.Context(), sess.ID, "traffic")
	writeJSON(w, http.StatusOK, trafficResponse{Weight: weight})
}

func (s *Server) handleTrafficState(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	snap := sess.Snapshot(s.cfg.Thresholds())
	writeJSON(w, http.StatusOK, snap.Edges)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	sess.Reset()
	s.logger.Info("session reset", "session", sess.ID)
	observability.Session().OnSessionMutate(r.Context(), sess.ID, "reset")
	writeJSON(w, http.StatusOK, sess.Snapshot(s.cfg.Thresholds()))
}
