package handlers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"toolplanet/services/marketplace-api/internal/auth"
	"toolplanet/services/marketplace-api/internal/repo"
	"toolplanet/shared/pkg/apperr"
	"toolplanet/shared/pkg/httputil"
)

type UserStore interface {
	Upsert(ctx context.Context, email string, profile repo.Document) (inserted bool, err error)
	FindRole(ctx context.Context, email string) (auth.Role, bool, error)
	SetAdmin(ctx context.Context, email string) (matched, modified bool, err error)
	List(ctx context.Context) ([]repo.Document, error)
}

type TokenIssuer interface {
	Issue(id auth.Identity) (string, error)
}

type UsersHandler struct {
	Store  UserStore
	Tokens TokenIssuer
}

type upsertResult struct {
	Upserted bool `json:"upserted"`
}

type upsertUserResp struct {
	Result upsertResult `json:"result"`
	Token  string       `json:"token"`
}

type updateResp struct {
	MatchedCount  int `json:"matchedCount"`
	ModifiedCount int `json:"modifiedCount"`
}

type adminResp struct {
	Admin bool `json:"admin"`
}

// emailParam reads {email}. chi matches on RawPath when the request has one,
// so the segment may still be percent-encoded.
func emailParam(r *http.Request) (string, error) {
	email := chi.URLParam(r, "email")
	if r.URL.RawPath != "" {
		unescaped, err := url.PathUnescape(email)
		if err != nil {
			return "", fmt.Errorf("%w: malformed email", apperr.ErrInvalid)
		}
		email = unescaped
	}
	email = strings.TrimSpace(email)
	if email == "" {
		return "", fmt.Errorf("%w: email is required", apperr.ErrInvalid)
	}
	return email, nil
}

// profileFields drops keys a caller must not set through the profile upsert.
// Roles only change through MakeAdmin.
func profileFields(d repo.Document) repo.Document {
	out := make(repo.Document, len(d))
	for k, v := range d {
		switch k {
		case "email", "role", repo.IDKey:
			continue
		}
		out[k] = v
	}
	return out
}

// Upsert stores the profile fields and returns a token for the path email.
func (h *UsersHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	email, err := emailParam(r)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	profile, err := decodeDoc(w, r, true)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	inserted, err := h.Store.Upsert(r.Context(), email, profileFields(profile))
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	token, err := h.Tokens.Issue(auth.Identity{Email: email})
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	httputil.JSONResponse(w, http.StatusOK, upsertUserResp{
		Result: upsertResult{Upserted: inserted},
		Token:  token,
	})
}

func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.Store.List(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	httputil.JSONResponse(w, http.StatusOK, users)
}

func (h *UsersHandler) MakeAdmin(w http.ResponseWriter, r *http.Request) {
	email, err := emailParam(r)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	matched, modified, err := h.Store.SetAdmin(r.Context(), email)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	httputil.JSONResponse(w, http.StatusOK, updateResp{
		MatchedCount:  boolCount(matched),
		ModifiedCount: boolCount(modified),
	})
}

// IsAdmin reports admin:false for unknown users.
func (h *UsersHandler) IsAdmin(w http.ResponseWriter, r *http.Request) {
	email, err := emailParam(r)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	role, found, err := h.Store.FindRole(r.Context(), email)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	httputil.JSONResponse(w, http.StatusOK, adminResp{Admin: found && role == auth.RoleAdmin})
}
