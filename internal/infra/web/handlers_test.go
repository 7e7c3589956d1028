package web

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"promptquest/internal/domain"
	"promptquest/internal/domain/ports/adapter"
	"promptquest/internal/usecase"
)

// ---- Fakes ----

type fakePlay struct {
	turn      *usecase.TurnResult
	turnErr   error
	sessions  map[string]*usecase.SessionView
	resets    []string
	fullReset bool
}

func (f *fakePlay) ProcessTurn(ctx context.Context, sessionID, prompt string, params adapter.SamplingParams) (*usecase.TurnResult, error) {
	if f.turnErr != nil {
		return nil, f.turnErr
	}
	return f.turn, nil
}

func (f *fakePlay) Session(ctx context.Context, sessionID string) (*usecase.SessionView, error) {
	v, ok := f.sessions[sessionID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return v, nil
}

func (f *fakePlay) ResetSession(ctx context.Context, sessionID string) error {
	f.resets = append(f.resets, sessionID)
	return nil
}

func (f *fakePlay) Stats(ctx context.Context) (*usecase.Stats, error) {
	return &usecase.Stats{Sessions: 2, Completed: 1}, nil
}

func (f *fakePlay) ResetAll(ctx context.Context) error {
	f.fullReset = true
	return nil
}

func newTestServer(play *fakePlay) *Server {
	log := zerolog.Nop()
	auth := NewAuthManager("test-secret", false, time.Minute)
	return NewServer(play, auth, "admin-key", func(context.Context) error { return nil }, &log)
}

func postJSON(t *testing.T, h http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestTurnEndpointAssignsSessionID(t *testing.T) {
	t.Parallel()
	play := &fakePlay{turn: &usecase.TurnResult{Answer: "hi", Level: 1}}
	h := newTestServer(play).Router()

	rec := postJSON(t, h, "/api/v1/turns", map[string]any{"prompt": "hello"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}

	var resp struct {
		SessionID string `json:"session_id"`
		Answer    string `json:"answer"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.SessionID == "" {
		t.Fatal("server did not assign a session id")
	}
	if resp.Answer != "hi" {
		t.Fatalf("answer = %q", resp.Answer)
	}
}

func TestTurnEndpointErrorMapping(t *testing.T) {
	t.Parallel()
	cases := []struct {
		err  error
		want int
	}{
		{domain.ErrInvalidArgument, http.StatusBadRequest},
		{domain.ErrLedgerLockBusy, http.StatusServiceUnavailable},
		{context.DeadlineExceeded, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		play := &fakePlay{turnErr: tc.err}
		h := newTestServer(play).Router()
		rec := postJSON(t, h, "/api/v1/turns", map[string]any{"prompt": "x"})
		if rec.Code != tc.want {
			t.Errorf("err %v: status = %d, want %d", tc.err, rec.Code, tc.want)
		}
	}
}

func TestTurnEndpointRejectsBadJSON(t *testing.T) {
	t.Parallel()
	h := newTestServer(&fakePlay{}).Router()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/turns", strings.NewReader("{nope"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestSessionEndpoint(t *testing.T) {
	t.Parallel()
	play := &fakePlay{sessions: map[string]*usecase.SessionView{
		"abc": {Level: 3, Instructions: "do things"},
	}}
	h := newTestServer(play).Router()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sessions/abc", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var view usecase.SessionView
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if view.Level != 3 {
		t.Fatalf("view = %+v", view)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/sessions/missing", nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing session status = %d", rec.Code)
	}
}

func TestSessionResetEndpoint(t *testing.T) {
	t.Parallel()
	play := &fakePlay{}
	h := newTestServer(play).Router()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions/abc/reset", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d", rec.Code)
	}
	if len(play.resets) != 1 || play.resets[0] != "abc" {
		t.Fatalf("resets = %v", play.resets)
	}
}

func TestHealthz(t *testing.T) {
	t.Parallel()
	h := newTestServer(&fakePlay{}).Router()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestAdminRequiresAuth(t *testing.T) {
	t.Parallel()
	h := newTestServer(&fakePlay{}).Router()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/stats", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("unauthenticated stats status = %d", rec.Code)
	}
}

func TestAdminLoginAndStats(t *testing.T) {
	t.Parallel()
	play := &fakePlay{}
	h := newTestServer(play).Router()

	// Wrong key is rejected.
	rec := postJSON(t, h, "/api/v1/admin/login", map[string]string{"api_key": "wrong"})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("wrong key status = %d", rec.Code)
	}

	rec = postJSON(t, h, "/api/v1/admin/login", map[string]string{"api_key": "admin-key"})
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d", rec.Code)
	}
	var login struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &login); err != nil || login.Token == "" {
		t.Fatalf("login response: %v %s", err, rec.Body)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/stats", nil)
	req.Header.Set("Authorization", "Bearer "+login.Token)
	rec2 := httptest.NewRecorder()
	h.ServeHTTP(rec2, req)
	if rec2.Code != http.StatusOK {
		t.Fatalf("stats status = %d", rec2.Code)
	}

	var stats usecase.Stats
	if err := json.Unmarshal(rec2.Body.Bytes(), &stats); err != nil {
		t.Fatalf("decode stats: %v", err)
	}
	if stats.Sessions != 2 || stats.Completed != 1 {
		t.Fatalf("stats = %+v", stats)
	}
}

func TestAdminReset(t *testing.T) {
	t.Parallel()
	play := &fakePlay{}
	srv := newTestServer(play)
	h := srv.Router()

	rec := postJSON(t, h, "/api/v1/admin/login", map[string]string{"api_key": "admin-key"})
	var login struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &login); err != nil {
		t.Fatalf("login: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/reset", nil)
	req.Header.Set("Authorization", "Bearer "+login.Token)
	rec2 := httptest.NewRecorder()
	h.ServeHTTP(rec2, req)
	if rec2.Code != http.StatusNoContent {
		t.Fatalf("reset status = %d", rec2.Code)
	}
	if !play.fullReset {
		t.Fatal("ResetAll not called")
	}
}

func TestTraceHeaderSet(t *testing.T) {
	t.Parallel()
	h := newTestServer(&fakePlay{}).Router()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Header().Get("X-Trace-Id") == "" {
		t.Fatal("missing X-Trace-Id header")
	}
}
