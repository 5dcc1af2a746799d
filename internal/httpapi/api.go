// Package httpapi is the HTTP layer: routing, middleware, identity
// resolution, role gating and the audit recorder.
package httpapi

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"campushub.org/internal/audit"
	"campushub.org/internal/auth"
	"campushub.org/internal/obs"
	"campushub.org/internal/records"
	"campushub.org/internal/school"
)

// ReadyProbe reports readiness, pinging the database when one is configured.
type ReadyProbe struct {
	DB *sql.DB
}

func (rp ReadyProbe) Check(ctx context.Context) error {
	if rp.DB == nil {
		return nil
	}
	return rp.DB.PingContext(ctx)
}

// Options bundle the collaborators and tunables the API needs.
type Options struct {
	Auth       *auth.Service
	Records    records.Store
	Audit      *audit.Recorder
	ReadyProbe ReadyProbe
	Version    string

	RateBurst     int
	RatePerSecond int
	MaxBodyBytes  int64
}

// API is the HTTP layer.
type API struct {
	mux        *http.ServeMux
	auth       *auth.Service
	records    records.Store
	audit      *audit.Recorder
	readyProbe ReadyProbe
	version    string

	rateBurst     int
	ratePerSecond int
	maxBodyBytes  int64
}

// New wires routes onto a fresh mux.
func New(opts Options) *API {
	a := &API{
		mux:           http.NewServeMux(),
		auth:          opts.Auth,
		records:       opts.Records,
		audit:         opts.Audit,
		readyProbe:    opts.ReadyProbe,
		version:       opts.Version,
		rateBurst:     opts.RateBurst,
		ratePerSecond: opts.RatePerSecond,
		maxBodyBytes:  opts.MaxBodyBytes,
	}
	if a.rateBurst <= 0 {
		a.rateBurst = 20
	}
	if a.ratePerSecond <= 0 {
		a.ratePerSecond = 10
	}
	if a.maxBodyBytes <= 0 {
		a.maxBodyBytes = 1 << 20
	}
	a.routes()
	return a
}

// Handler returns the full middleware chain. Identity resolution wraps the
// audit recorder so the recorder and the role gates see the same caller.
// The recorder wraps everything that can reject a request, rate limiting
// and the CORS preflight short-circuit included, so every request yields
// one entry carrying the status the caller actually received.
func (a *API) Handler() http.Handler {
	var h http.Handler = a.mux
	h = MaxBodyBytes(h, a.maxBodyBytes)
	h = RateLimit(h, a.rateBurst, a.ratePerSecond)
	h = CORS(h)
	h = LoggingJSON(h)
	h = a.withAuditRecorder(h)
	h = a.withIdentity(h)
	h = SecurityHeaders(h)
	h = RequestID(h)
	return obs.Instrument(h)
}

// --- service handlers ---

func (a *API) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeDetail(w, http.StatusNotFound, "resource not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Campus Hub backend is running",
		"version": a.version,
	})
}

func (a *API) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": "campushub-api",
		"version": a.version,
	})
}

func (a *API) handleSchema(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"collections": school.Catalog()})
}

func (a *API) handleReadyz(w http.ResponseWriter, r *http.Request) {
	if err := a.readyProbe.Check(r.Context()); err != nil {
		obs.SetReady(false)
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status": "not_ready",
			"detail": err.Error(),
		})
		return
	}
	obs.SetReady(true)
	writeJSON(w, http.StatusOK, map[string]any{"status": "ready"})
}

// --- helpers ---

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeDetail emits the service-wide error shape.
func writeDetail(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{"detail": msg})
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	w.Header().Set("Allow", joinAllowed(allowed))
	writeDetail(w, http.StatusMethodNotAllowed, "method not allowed")
}

func joinAllowed(methods []string) string {
	out := ""
	for i, m := range methods {
		if i > 0 {
			out += ", "
		}
		out += m
	}
	return out
}

func (a *API) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	reader := http.MaxBytesReader(w, r.Body, a.maxBodyBytes)
	defer reader.Close()
	dec := json.NewDecoder(reader)
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is required")
		}
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		if err == nil {
			return errors.New("unexpected data after JSON body")
		}
		return err
	}
	return nil
}

func handleStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, records.ErrUnavailable):
		writeDetail(w, http.StatusServiceUnavailable, "storage unavailable")
	case errors.Is(err, records.ErrNotFound):
		writeDetail(w, http.StatusNotFound, "resource not found")
	case errors.Is(err, context.DeadlineExceeded):
		writeDetail(w, http.StatusServiceUnavailable, "storage timeout")
	default:
		writeDetail(w, http.StatusInternalServerError, "internal error")
	}
}
