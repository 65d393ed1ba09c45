package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type fakePending struct {
	n   int
	err error
}

func (f *fakePending) Pending(context.Context) (int, error) { return f.n, f.err }

func TestPendingEndpoint(t *testing.T) {
	h := (&Server{Outbox: &fakePending{n: 7}}).Handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/outbox/pending", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body map[string]int
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil || body["pending"] != 7 {
		t.Fatalf("unexpected body %v (%v)", body, err)
	}
}

func TestPendingEndpointHidesDBError(t *testing.T) {
	h := (&Server{Outbox: &fakePending{err: errors.New("FATAL: password authentication failed for user \"outbox\"")}}).Handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/outbox/pending", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "password") {
		t.Fatalf("db error leaked: %s", rec.Body.String())
	}
}

func TestHealth(t *testing.T) {
	h := (&Server{Outbox: &fakePending{}}).Handler()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
