package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCheckOwner(t *testing.T) {
	ctx := WithIdentity(context.Background(), Identity{Email: "a@x.com"})
	tests := []struct {
		owner string
		want  error
	}{
		{"a@x.com", nil},
		{"b@x.com", ErrNotOwner},
		{"A@x.com", ErrNotOwner},
		{"a@x.com ", ErrNotOwner},
		{"", ErrNotOwner},
	}
	for _, tt := range tests {
		err := CheckOwner(ctx, tt.owner)
		if tt.want == nil {
			if err != nil {
				t.Errorf("%q: unexpected %v", tt.owner, err)
			}
			continue
		}
		if !errors.Is(err, tt.want) {
			t.Errorf("%q: expected %v, got %v", tt.owner, tt.want, err)
		}
	}
}

func TestCheckOwnerOrAdmin(t *testing.T) {
	users := usersWith(map[string]Role{"root@x.com": RoleAdmin, "b@x.com": RoleNone})
	tests := []struct {
		caller string
		owner  string
		want   error
	}{
		{"a@x.com", "a@x.com", nil},
		{"root@x.com", "a@x.com", nil},
		{"b@x.com", "a@x.com", ErrNotOwner},
		{"ghost@x.com", "a@x.com", ErrNotOwner},
	}
	for _, tt := range tests {
		ctx := WithIdentity(context.Background(), Identity{Email: tt.caller})
		err := CheckOwnerOrAdmin(ctx, tt.owner, users)
		if tt.want == nil && err != nil {
			t.Errorf("%s->%s: unexpected %v", tt.caller, tt.owner, err)
		}
		if tt.want != nil && !errors.Is(err, tt.want) {
			t.Errorf("%s->%s: expected %v, got %v", tt.caller, tt.owner, tt.want, err)
		}
	}
}

func TestRequireOwnerQuery(t *testing.T) {
	called := false
	h := RequireOwnerQuery("email")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		_, _ = w.Write([]byte(`[{"id":"1"}]`))
	}))

	req := httptest.NewRequest(http.MethodGet, "/order?email=b@x.com", nil)
	req = req.WithContext(WithIdentity(req.Context(), Identity{Email: "a@x.com"}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	if called {
		t.Fatal("handler must not run on mismatch")
	}

	req = httptest.NewRequest(http.MethodGet, "/order?email=a@x.com", nil)
	req = req.WithContext(WithIdentity(req.Context(), Identity{Email: "a@x.com"}))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK || !called {
		t.Fatalf("owner rejected: %d called=%v", rec.Code, called)
	}
}
