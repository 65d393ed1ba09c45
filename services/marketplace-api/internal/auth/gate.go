package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"toolplanet/shared/pkg/apperr"
	"toolplanet/shared/pkg/httputil"
	"toolplanet/shared/pkg/metrics"
)

var ErrMissingCredentials = fmt.Errorf("%w: missing bearer token", apperr.ErrUnauthorized)

type Verifier interface {
	Verify(token string) (Identity, error)
}

// Authenticate extracts the bearer token from an Authorization header value
// and verifies it.
func Authenticate(v Verifier, header string) (Identity, error) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	token = strings.TrimSpace(token)
	if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return Identity{}, ErrMissingCredentials
	}
	id, err := v.Verify(token)
	if err != nil {
		return Identity{}, ErrInvalidToken
	}
	return id, nil
}

// Gate rejects requests without a valid token and stores the identity in the
// request context.
type Gate struct {
	Tokens Verifier
}

func (g *Gate) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := Authenticate(g.Tokens, r.Header.Get("Authorization"))
		if err != nil {
			reason := "invalid_token"
			if errors.Is(err, ErrMissingCredentials) {
				reason = "missing_credentials"
			}
			metrics.AuthRejected("auth", reason)
			httputil.WriteError(w, r, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
	})
}
