package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emtechbytes-cpu/ThreadSmith/internal/contract"
	"github.com/emtechbytes-cpu/ThreadSmith/internal/history"
	"github.com/emtechbytes-cpu/ThreadSmith/internal/llm"
	"github.com/emtechbytes-cpu/ThreadSmith/internal/middleware"
	"github.com/emtechbytes-cpu/ThreadSmith/internal/model"
	"github.com/emtechbytes-cpu/ThreadSmith/internal/service"
	"github.com/emtechbytes-cpu/ThreadSmith/pkg/logger"
)

const threadJSON = `{
	"hookVariations": {"curiosity": "hook c", "listicle": "hook l", "emotional": "hook e", "contrarian": "hook x"},
	"bodyPosts": ["post one", "post two"],
	"ctaVariations": {"question": "cta q", "recap": "cta r", "promotional": "cta p"},
	"hashtags": ["#ai", "#tools", "#tech"]
}`

type stubGateway struct {
	text  string
	err   error
	image error
}

func (s *stubGateway) Name() string { return "stub" }

func (s *stubGateway) GenerateText(context.Context, string, *contract.Schema) (string, error) {
	return s.text, s.err
}

func (s *stubGateway) GenerateImage(context.Context, string) (*model.Image, error) {
	if s.image != nil {
		return nil, s.image
	}
	return &model.Image{Data: []byte("png"), MIMEType: "image/png"}, nil
}

func (s *stubGateway) SearchGrounded(context.Context, string) (*llm.Grounded, error) {
	return &llm.Grounded{
		Text:    "1. Agents\n2. Small models",
		Sources: []model.Source{{URI: "https://example.com", Title: "Example"}},
	}, s.err
}

type server struct {
	router  http.Handler
	gateway *stubGateway
}

func newServer(t *testing.T, gateway llm.Gateway) *server {
	t.Helper()
	log := logger.NewNop()
	stub, _ := gateway.(*stubGateway)

	sessions := service.NewSessionService(log)
	hist := service.NewHistoryService(history.NewMemoryStore(), log)
	gen := service.NewGenerator(sessions, gateway, hist, nil, log)

	api := &Handlers{
		Sessions:   NewSessionHandler(sessions, log),
		Operations: NewOperationHandler(gen, log),
		Stream:     NewStreamHandler(gen, sessions, log),
		History:    NewHistoryHandler(hist),
	}
	health := NewHealthHandler(gateway, nil, nil)

	r := chi.NewRouter()
	r.Get("/ready", health.Ready)
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(""))
		api.Mount(r)
	})
	return &server{router: r, gateway: stub}
}

func (s *server) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, httptest.NewRequest(method, path, &buf))
	return rec
}

func (s *server) createSession(t *testing.T) string {
	t.Helper()
	cfg := model.DefaultConfiguration()
	cfg.Topic = "5 AI tools"
	cfg.Length = 2
	rec := s.do(t, http.MethodPost, "/api/v1/sessions", CreateSessionRequest{Configuration: &cfg})
	require.Equal(t, http.StatusCreated, rec.Code)

	var view model.SessionView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	return view.ID
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) operationError {
	t.Helper()
	var body operationError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestSessionLifecycle(t *testing.T) {
	s := newServer(t, &stubGateway{text: threadJSON})
	id := s.createSession(t)

	rec := s.do(t, http.MethodGet, "/api/v1/sessions/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	cfg := model.DefaultConfiguration()
	cfg.Topic = "Budgeting"
	rec = s.do(t, http.MethodPut, "/api/v1/sessions/"+id+"/configuration", cfg)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Budgeting")

	rec = s.do(t, http.MethodDelete, "/api/v1/sessions/"+id, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/v1/sessions/"+id, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/v1/sessions/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSessionConfigurationRejected(t *testing.T) {
	s := newServer(t, &stubGateway{text: threadJSON})

	cfg := model.DefaultConfiguration()
	cfg.Topic = "5 AI tools"
	cfg.Style = "Bogus"
	rec := s.do(t, http.MethodPost, "/api/v1/sessions", CreateSessionRequest{Configuration: &cfg})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	id := s.createSession(t)
	cfg = model.DefaultConfiguration()
	cfg.Topic = "5 AI tools"
	cfg.Length = 0
	rec = s.do(t, http.MethodPut, "/api/v1/sessions/"+id+"/configuration", cfg)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeError(t, rec).Error, "length")
}

func TestGenerateAndHistory(t *testing.T) {
	s := newServer(t, &stubGateway{text: threadJSON})
	id := s.createSession(t)

	rec := s.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/generate", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var view model.SessionView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	require.NotNil(t, view.Thread)
	assert.Equal(t, "hook c", view.Thread.HookVariations.Curiosity)

	rec = s.do(t, http.MethodGet, "/api/v1/history", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"total":1`)

	rec = s.do(t, http.MethodGet, "/api/v1/history/"+view.HistoryID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "post two")

	other := s.createSession(t)
	rec = s.do(t, http.MethodPost, "/api/v1/sessions/"+other+"/history/"+view.HistoryID+"/load", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "hook c")

	rec = s.do(t, http.MethodDelete, "/api/v1/history/0190a6c4-7d2e-7c3a-9f1b-3e4d5c6b7a89", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = s.do(t, http.MethodDelete, "/api/v1/history", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = s.do(t, http.MethodGet, "/api/v1/history/"+view.HistoryID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestOperationStatusCodes(t *testing.T) {
	s := newServer(t, &stubGateway{text: threadJSON})
	id := s.createSession(t)
	base := "/api/v1/sessions/" + id

	rec := s.do(t, http.MethodPost, base+"/refine", RefineRequest{Instruction: "shorter"})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "Generate a thread first.", decodeError(t, rec).Error)

	rec = s.do(t, http.MethodPost, base+"/refine", RefineRequest{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, base+"/generate", GenerateRequest{Configuration: &model.Configuration{}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	s.gateway.text = "not json"
	rec = s.do(t, http.MethodPost, base+"/generate", nil)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, "The AI returned an invalid response. Please try again.", body.Error)
	require.NotNil(t, body.Session)
	assert.Equal(t, body.Error, body.Session.Error)

	s.gateway.text = threadJSON
	rec = s.do(t, http.MethodPost, base+"/generate", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodPost, base+"/hooks/clickbait/regenerate", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, base+"/images/body/x/regenerate", RegenerateImageRequest{Style: model.ImageTechy})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, base+"/images/body/1/regenerate", RegenerateImageRequest{Style: model.ImageTechy})
	assert.Equal(t, http.StatusOK, rec.Code)

	s.gateway.image = &llm.UpstreamError{Provider: "stub", Op: "image", Message: "Quota exceeded."}
	rec = s.do(t, http.MethodPost, base+"/images/hook/regenerate", RegenerateImageRequest{Style: model.ImageBold, HookType: model.HookListicle})
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "Quota exceeded.", decodeError(t, rec).Error)

	s.gateway.text = "A fresh hook"
	rec = s.do(t, http.MethodPost, base+"/hooks/listicle/regenerate", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "A fresh hook")

	s.gateway.text = `{"bodyPosts": ["new body"]}`
	rec = s.do(t, http.MethodPost, base+"/body/regenerate", RegenerateBodyRequest{HookType: model.HookEmotional})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "new body")
}

func TestGatewayUnavailable(t *testing.T) {
	s := newServer(t, llm.NewUnavailable(llm.ProviderGemini))
	id := s.createSession(t)

	rec := s.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/generate", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, llm.UnavailableMessage, decodeError(t, rec).Error)

	rec = s.do(t, http.MethodGet, "/ready", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "degraded")
}

// pingStore is a memory store that reports a remote connection state.
type pingStore struct {
	*history.MemoryStore
	err error
}

func (p *pingStore) Ping(context.Context) error { return p.err }

func TestReadyPingsHistoryStore(t *testing.T) {
	store := &pingStore{MemoryStore: history.NewMemoryStore()}
	health := NewHealthHandler(&stubGateway{}, nil, store)

	rec := httptest.NewRecorder()
	health.Ready(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	store.err = errors.New("connection refused")
	rec = httptest.NewRecorder()
	health.Ready(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "history store unreachable")
}

func TestGenerateStream(t *testing.T) {
	s := newServer(t, &stubGateway{text: threadJSON})
	id := s.createSession(t)

	cfg := model.DefaultConfiguration()
	cfg.Topic = "5 AI tools"
	cfg.Length = 2
	cfg.Images.GenerateBodyImages = true
	rec := s.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/generate/stream", GenerateRequest{Configuration: &cfg})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))

	out := rec.Body.String()
	connected := strings.Index(out, "event: connected")
	thread := strings.Index(out, "event: thread")
	done := strings.Index(out, "event: done")
	assert.True(t, connected >= 0 && connected < thread && thread < done, out)
	assert.Equal(t, 2, strings.Count(out, "event: image"))
	assert.NotContains(t, out, "event: error")
}

func TestGenerateStreamReportsFailure(t *testing.T) {
	s := newServer(t, &stubGateway{err: errors.New(`{"error": {"message": "API key not valid."}}`)})
	id := s.createSession(t)

	rec := s.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/generate/stream", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "event: error")
	assert.Contains(t, rec.Body.String(), "API key not valid.")

	rec = s.do(t, http.MethodPost, "/api/v1/sessions/0190a6c4-7d2e-7c3a-9f1b-3e4d5c6b7a89/generate/stream", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTrending(t *testing.T) {
	s := newServer(t, &stubGateway{})

	rec := s.do(t, http.MethodPost, "/api/v1/trending", TrendingRequest{Niche: model.NicheTech})
	require.Equal(t, http.StatusOK, rec.Code)
	var topics model.TrendingTopics
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &topics))
	assert.Equal(t, []string{"Agents", "Small models"}, topics.Topics)

	rec = s.do(t, http.MethodPost, "/api/v1/trending", TrendingRequest{Niche: model.NicheOther})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	s.gateway.err = errors.New("blocked")
	rec = s.do(t, http.MethodPost, "/api/v1/trending", TrendingRequest{Niche: model.NicheTech})
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "Could not fetch trending topics. The API may be unavailable or the request was blocked.", decodeError(t, rec).Error)
}

type fakeEvents struct {
	owner, session string
	limit          int
}

func (f *fakeEvents) SessionEvents(_ context.Context, owner, sessionID string, limit int) ([]model.OperationEvent, error) {
	f.owner, f.session, f.limit = owner, sessionID, limit
	return nil, nil
}

func TestEventsList(t *testing.T) {
	reader := &fakeEvents{}
	h := NewEventHandler(reader, logger.NewNop())
	r := chi.NewRouter()
	r.With(middleware.Auth("")).Get("/sessions/{id}/events", h.List)

	id := "0190a6c4-7d2e-7c3a-9f1b-3e4d5c6b7a89"
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/sessions/"+id+"/events?limit=500", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"events": []}`, rec.Body.String())
	assert.Equal(t, middleware.LocalOwner, reader.owner)
	assert.Equal(t, id, reader.session)
	assert.Equal(t, 50, reader.limit)
}
