// Package audit records one append-only entry per completed HTTP request:
// who acted, what they hit, and the status the caller actually received.
// Writes are best-effort; a failed write never affects the request outcome.
package audit

import (
	"context"
	"time"

	"campushub.org/internal/obs"
)

// ActionRequest labels entries produced by the request recorder.
const ActionRequest = "request"

// Entry is one audit row. ActorRefID and ActorRole are empty for anonymous
// callers.
type Entry struct {
	ID         string    `json:"id"`
	ActorRefID string    `json:"actor_ref_id,omitempty"`
	ActorRole  string    `json:"actor_role,omitempty"`
	Action     string    `json:"action"`
	Path       string    `json:"path"`
	Method     string    `json:"method"`
	Status     int       `json:"status"`
	ClientIP   string    `json:"client_ip,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Store appends immutable entries. There is no read, update or delete path
// at this layer.
type Store interface {
	AppendAuditEntry(ctx context.Context, entry *Entry) error
}

const writeTimeout = 5 * time.Second

// Recorder persists entries through a Store under the best-effort contract:
// Record always returns, and a store failure is counted and logged but never
// surfaced.
type Recorder struct {
	store Store
}

// NewRecorder wraps a store. A nil store yields a recorder that drops every
// entry, which keeps call sites uniform in tests.
func NewRecorder(store Store) *Recorder {
	return &Recorder{store: store}
}

// Record persists one entry. The write runs on a context detached from the
// request so a client disconnect cannot cancel it, but is still bounded.
func (r *Recorder) Record(ctx context.Context, entry *Entry) {
	if r == nil || r.store == nil || entry == nil {
		return
	}
	if entry.OccurredAt.IsZero() {
		entry.OccurredAt = time.Now().UTC()
	}

	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), writeTimeout)
	defer cancel()

	if err := r.store.AppendAuditEntry(writeCtx, entry); err != nil {
		obs.CountAuditWrite("error")
		obs.LogRequest(map[string]any{
			"ts":    time.Now().UTC().Format(time.RFC3339Nano),
			"level": "warn",
			"msg":   "audit_write_failed",
			"path":  entry.Path,
			"error": err.Error(),
		})
		return
	}
	obs.CountAuditWrite("ok")
}
