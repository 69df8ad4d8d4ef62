package server

import (
	"bytes"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sanonone/kartograph/pkg/core"
	"github.com/sanonone/kartograph/pkg/core/view"
	"github.com/sanonone/kartograph/pkg/nav"
)

func testServer(t *testing.T, authToken string) *Server {
	t.Helper()
	g, err := core.NewGraph(
		[]*core.KeywordNode{
			{ID: "k1", Label: "graphs", X: 0, Y: 0, HasPosition: true},
			{ID: "k2", Label: "layouts", X: 100, Y: 0, HasPosition: true},
		},
		[]*core.ContentNode{
			{ID: "c1", ParentIDs: []string{"k1", "k2"}, X: 50, Y: 0, HasPosition: true},
		},
		nil,
	)
	if err != nil {
		t.Fatalf("NewGraph failed: %v", err)
	}
	eng, err := nav.Open(g, nav.DefaultOptions())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(eng.Close)
	return New(eng, ":0", authToken)
}

func do(t *testing.T, s *Server, method, path string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	rec := httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	s := testServer(t, "secret")
	// Health checks bypass the auth chain.
	rec := do(t, s, http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("healthz status: got %d", rec.Code)
	}
}

func TestStateEndpoint(t *testing.T) {
	s := testServer(t, "")

	t.Run("NoFrameYet", func(t *testing.T) {
		rec := do(t, s, http.MethodGet, "/state", nil)
		if rec.Code != http.StatusServiceUnavailable {
			t.Errorf("state before first frame: got %d, want 503", rec.Code)
		}
	})

	t.Run("AfterPublish", func(t *testing.T) {
		out := s.Engine.Frame(nav.FrameInput{
			Camera: view.Camera{Distance: 500, FOV: math.Pi / 2},
			Width:  1000,
			Height: 1000,
		})
		s.Publish(out.Clone())

		rec := do(t, s, http.MethodGet, "/state", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("state status: got %d, body %s", rec.Code, rec.Body.String())
		}
		var resp struct {
			Seq   uint64           `json:"seq"`
			Nodes []nav.RenderNode `json:"nodes"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode state: %v", err)
		}
		if resp.Seq == 0 {
			t.Error("state must carry the frame sequence")
		}
		if len(resp.Nodes) == 0 {
			t.Error("state must carry the rendered nodes")
		}
	})

	t.Run("PostRejected", func(t *testing.T) {
		rec := do(t, s, http.MethodPost, "/state", nil)
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("POST /state: got %d, want 405", rec.Code)
		}
	})
}

func TestGraphEndpoint(t *testing.T) {
	s := testServer(t, "")
	rec := do(t, s, http.MethodGet, "/graph", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("graph status: got %d", rec.Code)
	}
	var summary GraphSummary
	if err := json.Unmarshal(rec.Body.Bytes(), &summary); err != nil {
		t.Fatalf("decode summary: %v", err)
	}
	if summary.Keywords != 2 || summary.Contents != 1 {
		t.Errorf("summary: %+v", summary)
	}
}

func TestFocusAction(t *testing.T) {
	s := testServer(t, "")

	t.Run("UnknownKeyword", func(t *testing.T) {
		rec := do(t, s, http.MethodPost, "/actions/focus", []byte(`{"keyword_id":"nope"}`))
		if rec.Code != http.StatusNotFound {
			t.Errorf("unknown keyword: got %d, want 404", rec.Code)
		}
	})

	t.Run("QueueAndReport", func(t *testing.T) {
		rec := do(t, s, http.MethodPost, "/actions/focus", []byte(`{"keyword_id":"k1"}`))
		if rec.Code != http.StatusAccepted {
			t.Fatalf("focus action: got %d", rec.Code)
		}

		// The request is applied at the top of the next frame.
		s.Engine.Frame(nav.FrameInput{
			Camera: view.Camera{Distance: 500, FOV: math.Pi / 2},
			Width:  1000,
			Height: 1000,
		})

		rec = do(t, s, http.MethodGet, "/focus", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("focus get: got %d", rec.Code)
		}
		var resp FocusResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode focus: %v", err)
		}
		if resp.FocusedKeywordID != "k1" {
			t.Errorf("focused: got %q", resp.FocusedKeywordID)
		}
		if resp.Tiers["k2"] != "neighbor-1" {
			t.Errorf("k2 tier: got %q, want neighbor-1", resp.Tiers["k2"])
		}
	})

	t.Run("EmptyIDClears", func(t *testing.T) {
		rec := do(t, s, http.MethodPost, "/actions/focus", []byte(`{"keyword_id":""}`))
		if rec.Code != http.StatusOK {
			t.Errorf("clear focus: got %d", rec.Code)
		}
	})

	t.Run("InvalidBody", func(t *testing.T) {
		rec := do(t, s, http.MethodPost, "/actions/focus", []byte(`{`))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("invalid body: got %d, want 400", rec.Code)
		}
	})
}

func TestCursorAndCameraActions(t *testing.T) {
	s := testServer(t, "")
	rec := do(t, s, http.MethodPost, "/actions/camera", []byte(`{"x":10,"y":20,"distance":800}`))
	if rec.Code != http.StatusAccepted {
		t.Errorf("camera action: got %d", rec.Code)
	}
	rec = do(t, s, http.MethodPost, "/actions/cursor", []byte(`{"x":5,"y":-5}`))
	if rec.Code != http.StatusAccepted {
		t.Errorf("cursor action: got %d", rec.Code)
	}
}

func TestAuthMiddleware(t *testing.T) {
	s := testServer(t, "secret")

	rec := do(t, s, http.MethodGet, "/graph", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("missing token: got %d, want 401", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/graph", nil)
	req.Header.Set("Authorization", "Bearer secret")
	out := httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(out, req)
	if out.Code != http.StatusOK {
		t.Errorf("valid token: got %d, want 200", out.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	s := testServer(t, "")
	rec := do(t, s, http.MethodGet, "/metrics", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("metrics status: got %d", rec.Code)
	}
}

func TestUnknownEndpoint(t *testing.T) {
	s := testServer(t, "")
	rec := do(t, s, http.MethodGet, "/nope", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown endpoint: got %d, want 404", rec.Code)
	}
}
