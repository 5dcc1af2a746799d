package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"campushub.org/internal/audit"
	"campushub.org/internal/auth"
	"campushub.org/internal/records"
)

// testEnv bundles an API wired onto in-memory stores with the collaborators
// tests need to mint tokens and inspect state.
type testEnv struct {
	handler http.Handler
	api     *API
	tokens  *auth.TokenService
	records *records.MemoryStore
	audit   *audit.MemoryStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	tokens, err := auth.NewTokenService("test-secret")
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	authSvc, err := auth.NewService(auth.NewMemoryCredentialStore(), tokens)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	recordStore := records.NewMemoryStore()
	auditStore := audit.NewMemoryStore()

	api := New(Options{
		Auth:      authSvc,
		Records:   recordStore,
		Audit:     audit.NewRecorder(auditStore),
		Version:   "test",
		RateBurst: 10000,
	})
	return &testEnv{
		handler: api.Handler(),
		api:     api,
		tokens:  tokens,
		records: recordStore,
		audit:   auditStore,
	}
}

func (e *testEnv) token(t *testing.T, role string) string {
	t.Helper()
	token, err := e.tokens.Issue(role+"@x.com", role, "ref-"+role, time.Now())
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	return token
}

// tokenAt issues a token as if it were minted hoursOffset hours from now.
func (e *testEnv) tokenAt(t *testing.T, role string, hoursOffset int) string {
	t.Helper()
	token, err := e.tokens.Issue(role+"@x.com", role, "ref-"+role, time.Now().Add(time.Duration(hoursOffset)*time.Hour))
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	return token
}

func (e *testEnv) do(t *testing.T, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.RemoteAddr = "192.0.2.1:12345"
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), dst); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}

func detailOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Detail string `json:"detail"`
	}
	decodeBody(t, rec, &body)
	return body.Detail
}

func TestRootBannerAndNotFound(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /: status %d", rec.Code)
	}
	var body struct {
		Message string `json:"message"`
		Version string `json:"version"`
	}
	decodeBody(t, rec, &body)
	if body.Message != "Campus Hub backend is running" || body.Version != "test" {
		t.Fatalf("unexpected banner: %+v", body)
	}

	rec = env.do(t, http.MethodGet, "/nope", "", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("GET /nope: status %d", rec.Code)
	}
}

func TestHealthAndReadiness(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/healthz", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /healthz: status %d", rec.Code)
	}

	// No DB configured means the probe always passes.
	rec = env.do(t, http.MethodGet, "/readyz", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /readyz: status %d", rec.Code)
	}
	var body struct {
		Status string `json:"status"`
	}
	decodeBody(t, rec, &body)
	if body.Status != "ready" {
		t.Fatalf("unexpected readiness: %+v", body)
	}
}

func TestSchemaCatalog(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/schema", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /schema: status %d", rec.Code)
	}
	var body struct {
		Collections map[string][]struct {
			Name     string `json:"name"`
			Kind     string `json:"kind"`
			Required bool   `json:"required"`
		} `json:"collections"`
	}
	decodeBody(t, rec, &body)
	students, ok := body.Collections["student"]
	if !ok {
		t.Fatalf("student collection missing from catalog: %v", body.Collections)
	}
	var sawName bool
	for _, f := range students {
		if f.Name == "name" && f.Kind == "string" && f.Required {
			sawName = true
		}
	}
	if !sawName {
		t.Fatalf("student.name descriptor missing: %+v", students)
	}

	rec = env.do(t, http.MethodPost, "/schema", "", `{}`)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("POST /schema: status %d", rec.Code)
	}
}

func TestResponsesCarryRequestID(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/healthz", "", "")
	if rec.Header().Get("X-Request-Id") == "" {
		t.Fatal("X-Request-Id not set")
	}

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.RemoteAddr = "192.0.2.1:12345"
	req.Header.Set("X-Request-Id", "given-id")
	rr := httptest.NewRecorder()
	env.handler.ServeHTTP(rr, req)
	if got := rr.Header().Get("X-Request-Id"); got != "given-id" {
		t.Fatalf("request id not echoed: %q", got)
	}
}
