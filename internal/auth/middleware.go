// Package auth issues and checks the bearer tokens that guard the API
// when JWT_SECRET is set.
package auth

import (
	"net/http"
	"strings"

	"project-builder-backend/internal/analytics"
)

type Middleware struct {
	secret []byte
}

// New returns a Middleware. With an empty secret every request passes
// through unauthenticated.
func New(secret []byte) Middleware {
	return Middleware{secret: secret}
}

// Enabled reports whether tokens are required.
func (m Middleware) Enabled() bool {
	return len(m.secret) > 0
}

func (m Middleware) Wrap(next http.Handler) http.Handler {
	if !m.Enabled() {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := r.Header.Get("Authorization")
		if !strings.HasPrefix(h, "Bearer ") {
			http.Error(w, "missing token", http.StatusUnauthorized)
			return
		}

		subject, err := ParseToken(m.secret, strings.TrimPrefix(h, "Bearer "))
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		// The subject travels under the analytics key so events are
		// attributed to the caller.
		next.ServeHTTP(w, r.WithContext(analytics.WithSubject(r.Context(), subject)))
	})
}
