package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"toolplanet/services/marketplace-api/internal/repo"
	"toolplanet/shared/pkg/httputil"
)

type ProductStore interface {
	List(ctx context.Context, limit int) ([]repo.Document, error)
	Get(ctx context.Context, id string) (repo.Document, error)
	Insert(ctx context.Context, d repo.Document) (string, error)
	Delete(ctx context.Context, id string) (bool, error)
}

type ProductsHandler struct {
	Store ProductStore
}

// List honours ?size=N as "newest N". A missing or non-numeric size lists all.
func (h *ProductsHandler) List(w http.ResponseWriter, r *http.Request) {
	size, err := strconv.Atoi(r.URL.Query().Get("size"))
	if err != nil || size < 0 {
		size = 0
	}
	docs, err := h.Store.List(r.Context(), size)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	httputil.JSONResponse(w, http.StatusOK, docs)
}

func (h *ProductsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := repo.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	d, err := h.Store.Get(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	httputil.JSONResponse(w, http.StatusOK, d)
}

func (h *ProductsHandler) Create(w http.ResponseWriter, r *http.Request) {
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
	httputil.JSONResponse(w, http.StatusOK, infoResp{Success: true, Info: "Product Added Successful", ID: id})
}

func (h *ProductsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := repo.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	deleted, err := h.Store.Delete(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	httputil.JSONResponse(w, http.StatusOK, deleteResp{DeletedCount: boolCount(deleted)})
}
