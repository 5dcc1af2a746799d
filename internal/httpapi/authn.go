package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"campushub.org/internal/auth"
)

const (
	authHeader = "Authorization"
	bearer     = "Bearer "
)

// withIdentity resolves the caller's bearer token, if any, and attaches the
// identity to the request context. Resolution never fails the request:
// a missing, malformed or invalid token simply leaves the caller anonymous.
// Whether authentication is required is decided per route by RequireRole.
func (a *API) withIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id, ok := a.resolveIdentity(r); ok {
			r = r.WithContext(auth.ContextWithIdentity(r.Context(), id))
		}
		next.ServeHTTP(w, r)
	})
}

func (a *API) resolveIdentity(r *http.Request) (auth.Identity, bool) {
	if a.auth == nil {
		return auth.Identity{}, false
	}
	token, err := extractBearerToken(r.Header.Get(authHeader))
	if err != nil {
		return auth.Identity{}, false
	}
	id, err := a.auth.ResolveToken(token)
	if err != nil {
		return auth.Identity{}, false
	}
	return id, true
}

// RequireRole gates a handler on the caller's role. Anonymous callers get
// 401; authenticated callers whose role is not in the set get 403. An empty
// set accepts any authenticated caller.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !allowRoles(w, r, roles) {
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// allowRoles is the shared gate check. It writes the error response itself
// and reports whether the request may proceed. A nil slice means the route
// is open even to anonymous callers.
func allowRoles(w http.ResponseWriter, r *http.Request, roles []string) bool {
	if roles == nil {
		return true
	}
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		w.Header().Set("WWW-Authenticate", "Bearer")
		writeDetail(w, http.StatusUnauthorized, "Not authenticated")
		return false
	}
	if len(roles) > 0 {
		role := strings.ToLower(id.Role)
		for _, allowed := range roles {
			if role == strings.ToLower(allowed) {
				return true
			}
		}
		writeDetail(w, http.StatusForbidden, "Insufficient role")
		return false
	}
	return true
}

func extractBearerToken(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", errors.New("missing bearer token")
	}
	if !strings.HasPrefix(strings.ToLower(header), strings.ToLower(bearer)) {
		return "", errors.New("invalid authorization scheme")
	}
	token := strings.TrimSpace(header[len(bearer):])
	if token == "" {
		return "", errors.New("missing bearer token")
	}
	return token, nil
}
