package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"toolplanet/shared/pkg/apperr"
	"toolplanet/shared/pkg/httputil"
	"toolplanet/shared/pkg/metrics"
)

var ErrNotOwner = fmt.Errorf("%w: resource belongs to another user", apperr.ErrForbidden)

// CheckOwner compares the verified identity with owner using exact equality.
func CheckOwner(ctx context.Context, owner string) error {
	id, ok := IdentityFrom(ctx)
	if !ok {
		return ErrMissingCredentials
	}
	if id.Email != owner {
		return ErrNotOwner
	}
	return nil
}

// CheckOwnerOrAdmin passes for the owner, otherwise falls back to the role check.
func CheckOwnerOrAdmin(ctx context.Context, owner string, users UserLookup) error {
	err := CheckOwner(ctx, owner)
	if err == nil || !errors.Is(err, ErrNotOwner) {
		return err
	}
	if err := CheckAdmin(ctx, users); err != nil {
		if errors.Is(err, ErrNotAdmin) {
			return ErrNotOwner
		}
		return err
	}
	return nil
}

// RequireOwnerQuery guards self-service endpoints whose target email is the
// query parameter param.
func RequireOwnerQuery(param string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := CheckOwner(r.Context(), r.URL.Query().Get(param)); err != nil {
				metrics.AuthRejected("ownership", "not_owner")
				httputil.WriteError(w, r, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
