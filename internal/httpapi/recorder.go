package httpapi

import (
	"net/http"

	"campushub.org/internal/audit"
	"campushub.org/internal/auth"
)

// withAuditRecorder wraps the handler chain so that exactly one audit entry
// is written per request, strictly after the handler completes, carrying the
// status the caller actually received. It runs inside withIdentity's parent
// so it records whatever identity resolution produced, and its write is
// best-effort: a failed append never changes the response.
func (a *API) withAuditRecorder(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sw := &statusWriter{ResponseWriter: w, code: 200}
		next.ServeHTTP(sw, r)

		entry := &audit.Entry{
			Action:   audit.ActionRequest,
			Path:     r.URL.Path,
			Method:   r.Method,
			Status:   sw.code,
			ClientIP: clientIP(r),
		}
		if id, ok := auth.IdentityFromContext(r.Context()); ok {
			entry.ActorRefID = id.RefID
			entry.ActorRole = id.Role
		}
		a.audit.Record(r.Context(), entry)
	})
}
