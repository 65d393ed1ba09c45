package handlers

import (
	"context"
	"net/http"

	"toolplanet/services/marketplace-api/internal/repo"
	"toolplanet/shared/pkg/httputil"
)

type ReviewStore interface {
	Insert(ctx context.Context, d repo.Document) (string, error)
	List(ctx context.Context) ([]repo.Document, error)
}

type ReviewsHandler struct {
	Store ReviewStore
}

func (h *ReviewsHandler) Create(w http.ResponseWriter, r *http.Request) {
	d, err := decodeDoc(w, r, false)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	id, err := h.Store.Insert(r.Context(), d)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	httputil.JSONResponse(w, http.StatusOK, infoResp{Success: true, Info: "Review Added Successful", ID: id})
}

func (h *ReviewsHandler) List(w http.ResponseWriter, r *http.Request) {
	docs, err := h.Store.List(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	httputil.JSONResponse(w, http.StatusOK, docs)
}
