package auth

import (
	"context"
	"fmt"
	"net/http"

	"toolplanet/shared/pkg/apperr"
	"toolplanet/shared/pkg/httputil"
	"toolplanet/shared/pkg/metrics"
)

type Role string

const (
	RoleNone  Role = "none"
	RoleAdmin Role = "admin"
)

var ErrNotAdmin = fmt.Errorf("%w: admin role required", apperr.ErrForbidden)

// UserLookup reports the stored role for an email. found is false when no user
// record exists.
type UserLookup interface {
	FindRole(ctx context.Context, email string) (role Role, found bool, err error)
}

// CheckAdmin requires the identity in ctx to belong to a stored admin user.
func CheckAdmin(ctx context.Context, users UserLookup) error {
	id, ok := IdentityFrom(ctx)
	if !ok {
		return ErrMissingCredentials
	}
	role, found, err := users.FindRole(ctx, id.Email)
	if err != nil {
		return fmt.Errorf("auth: role lookup: %w", err)
	}
	if !found || role != RoleAdmin {
		return ErrNotAdmin
	}
	return nil
}

// RequireAdmin must be mounted after Gate.Middleware.
func RequireAdmin(users UserLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := CheckAdmin(r.Context(), users); err != nil {
				if apperr.KindOf(err) == apperr.KindForbidden {
					metrics.AuthRejected("role", "not_admin")
				}
				httputil.WriteError(w, r, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
