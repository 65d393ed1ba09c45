package handlers

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"toolplanet/shared/pkg/apperr"
)

func TestEmailParam(t *testing.T) {
	tests := []struct {
		name    string
		rawPath string
		param   string
		want    string
		wantErr bool
	}{
		{name: "plain", param: "a@x.com", want: "a@x.com"},
		{name: "escaped", rawPath: "/user/a%40x.com", param: "a%40x.com", want: "a@x.com"},
		{name: "escaped percent", rawPath: "/user/a%2541", param: "a%2541", want: "a%41"},
		{name: "decoded percent", param: "a%41", want: "a%41"},
		{name: "malformed escape", rawPath: "/user/a%ZZ", param: "a%ZZ", wantErr: true},
		{name: "blank", param: "  ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/user/x", nil)
			r.URL.RawPath = tt.rawPath
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("email", tt.param)
			r = r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))

			got, err := emailParam(r)
			if tt.wantErr {
				if !errors.Is(err, apperr.ErrInvalid) {
					t.Fatalf("expected invalid, got %q, %v", got, err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Fatalf("got %q, %v; want %q", got, err, tt.want)
			}
		})
	}
}
