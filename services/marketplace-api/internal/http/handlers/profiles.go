package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"toolplanet/services/marketplace-api/internal/auth"
	"toolplanet/services/marketplace-api/internal/repo"
	"toolplanet/shared/pkg/apperr"
	"toolplanet/shared/pkg/httputil"
)

type ProfileStore interface {
	Upsert(ctx context.Context, userEmail string, d repo.Document) error
	Get(ctx context.Context, userEmail string) (repo.Document, bool, error)
}

type ProfilesHandler struct {
	Store ProfileStore
}

type profileResp struct {
	UserInfo      bool          `json:"userInfo"`
	UserInfoExist repo.Document `json:"userInfoExist,omitempty"`
}

func (h *ProfilesHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	d, err := decodeDoc(w, r, false)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	userEmail, err := stringField(d, "userEmail")
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	if strings.TrimSpace(userEmail) == "" {
		httputil.WriteError(w, r, fmt.Errorf("%w: userEmail is required", apperr.ErrInvalid))
		return
	}
	// Ownership compares the value as sent; it is stored under that same key.
	if err := auth.CheckOwner(r.Context(), userEmail); err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	if err := h.Store.Upsert(r.Context(), userEmail, d); err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	httputil.JSONResponse(w, http.StatusOK, infoResp{Success: true, Info: "Info. Added Successful"})
}

// Get must be mounted behind auth.RequireOwnerQuery("userEmail").
func (h *ProfilesHandler) Get(w http.ResponseWriter, r *http.Request) {
	d, found, err := h.Store.Get(r.Context(), r.URL.Query().Get("userEmail"))
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	if !found {
		httputil.JSONResponse(w, http.StatusOK, profileResp{UserInfo: false})
		return
	}
	httputil.JSONResponse(w, http.StatusOK, profileResp{UserInfo: true, UserInfoExist: d})
}
