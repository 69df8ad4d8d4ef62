package server

import (
	"encoding/json"
	"net/http"
	"net/http/pprof"
	"strings"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// registerHTTPHandlers sets up the REST routes.
func (s *Server) registerHTTPHandlers(mux *http.ServeMux) {
	mux.HandleFunc("/", s.router)
}

// router is the manual top-level router, same shape as a mux but cheap to
// reason about for this handful of endpoints.
func (s *Server) router(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path

	// --- Debug endpoints (pprof) ---
	if strings.HasPrefix(path, "/debug/pprof") {
		switch {
		case path == "/debug/pprof/":
			pprof.Index(w, r)
		case path == "/debug/pprof/cmdline":
			pprof.Cmdline(w, r)
		case path == "/debug/pprof/profile":
			pprof.Profile(w, r)
		case path == "/debug/pprof/symbol":
			pprof.Symbol(w, r)
		case path == "/debug/pprof/trace":
			pprof.Trace(w, r)
		default:
			s.writeHTTPError(w, http.StatusNotFound, "pprof endpoint not found")
		}
		return
	}

	switch path {
	case "/metrics":
		promhttp.Handler().ServeHTTP(w, r)
	case "/state":
		s.handleState(w, r)
	case "/graph":
		s.handleGraph(w, r)
	case "/focus":
		s.handleFocusGet(w, r)
	case "/actions/focus":
		s.handleFocusAction(w, r)
	case "/actions/camera":
		s.handleCameraAction(w, r)
	case "/actions/cursor":
		s.handleCursorAction(w, r)
	default:
		s.writeHTTPError(w, http.StatusNotFound, "endpoint not found")
	}
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeHTTPError(w, http.StatusMethodNotAllowed, "GET only")
		return
	}
	out := s.Latest()
	if out == nil {
		s.writeHTTPError(w, http.StatusServiceUnavailable, "no frame computed yet")
		return
	}
	resp := StateResponse{
		Seq:    out.Seq,
		Scales: out.Scales,
		Nodes:  out.Nodes,
	}
	if out.Focus != nil {
		resp.Focused = out.Focus.FocusedKeywordID
	}
	if len(out.Pulled) > 0 {
		resp.Pulled = make(map[string]PulledJSON, len(out.Pulled))
		for id, pp := range out.Pulled {
			resp.Pulled[id] = PulledJSON{X: pp.X, Y: pp.Y, Connected: pp.ConnectedPrimaryIDs}
		}
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeHTTPError(w, http.StatusMethodNotAllowed, "GET only")
		return
	}
	g := s.Engine.Graph()
	s.writeJSON(w, http.StatusOK, GraphSummary{
		Keywords: g.KeywordCount(),
		Contents: g.ContentCount(),
		Edges:    len(g.Edges()),
	})
}

func (s *Server) handleFocusGet(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeHTTPError(w, http.StatusMethodNotAllowed, "GET only")
		return
	}
	s.writeJSON(w, http.StatusOK, focusResponse(s))
}

func (s *Server) handleFocusAction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeHTTPError(w, http.StatusMethodNotAllowed, "POST only")
		return
	}
	var req FocusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeHTTPError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	if req.KeywordID == "" {
		s.Engine.ClearFocus()
		s.writeJSON(w, http.StatusOK, FocusResponse{})
		return
	}
	if err := s.Engine.Focus(req.KeywordID); err != nil {
		s.writeHTTPError(w, http.StatusNotFound, err.Error())
		return
	}
	s.writeJSON(w, http.StatusAccepted, FocusResponse{FocusedKeywordID: req.KeywordID})
}

func (s *Server) handleCameraAction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeHTTPError(w, http.StatusMethodNotAllowed, "POST only")
		return
	}
	var req CameraRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeHTTPError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	cam := cameraFromRequest(req)
	s.Engine.SetCamera(cam)
	s.writeJSON(w, http.StatusAccepted, map[string]string{"status": "queued"})
}

func (s *Server) handleCursorAction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeHTTPError(w, http.StatusMethodNotAllowed, "POST only")
		return
	}
	var req CursorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeHTTPError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	s.Engine.SetCursor(req.X, req.Y)
	s.writeJSON(w, http.StatusAccepted, map[string]string{"status": "queued"})
}

// --- helpers ---

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (s *Server) writeHTTPError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}

func focusResponse(s *Server) FocusResponse {
	st := s.Engine.FocusState()
	if st == nil {
		return FocusResponse{}
	}
	resp := FocusResponse{
		FocusedKeywordID: st.FocusedKeywordID,
		Tiers:            make(map[string]string, len(st.KeywordTiers)),
		MarginCount:      len(st.MarginNodeIDs),
	}
	for id, tier := range st.KeywordTiers {
		resp.Tiers[id] = tier.String()
	}
	return resp
}
