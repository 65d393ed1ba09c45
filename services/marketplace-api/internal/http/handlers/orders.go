package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"toolplanet/services/marketplace-api/internal/auth"
	"toolplanet/services/marketplace-api/internal/booking"
	"toolplanet/services/marketplace-api/internal/repo"
	"toolplanet/shared/pkg/httputil"
)

type Booker interface {
	Create(ctx context.Context, in booking.Input) (booking.Result, error)
}

type OrderStore interface {
	ListByCustomer(ctx context.Context, email string) ([]repo.Document, error)
	Get(ctx context.Context, id string) (repo.StoredOrder, error)
	Delete(ctx context.Context, id, deletedBy string) (bool, error)
}

type OrdersHandler struct {
	Booking Booker
	Store   OrderStore
	Users   auth.UserLookup
}

type createOrderReq struct {
	ProductID     string
	CustomerEmail string
	Fields        map[string]any
}

func parseCreateOrder(d repo.Document) (createOrderReq, error) {
	var (
		req createOrderReq
		err error
	)
	if req.ProductID, err = stringField(d, "productId"); err != nil {
		return req, err
	}
	if req.CustomerEmail, err = stringField(d, "customerEmail"); err != nil {
		return req, err
	}
	req.Fields = d
	return req, nil
}

func (h *OrdersHandler) Create(w http.ResponseWriter, r *http.Request) {
	d, err := decodeDoc(w, r, false)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	req, err := parseCreateOrder(d)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	res, err := h.Booking.Create(r.Context(), booking.Input{
		ProductID:     req.ProductID,
		CustomerEmail: req.CustomerEmail,
		Fields:        req.Fields,
	})
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	if res.Outcome == booking.Duplicate {
		httputil.JSONResponse(w, http.StatusOK, infoResp{Success: false, Info: booking.DuplicateInfo})
		return
	}
	httputil.JSONResponse(w, http.StatusOK, infoResp{Success: true, Info: booking.CreatedInfo, ID: res.OrderID})
}

// ListByCustomer must be mounted behind auth.RequireOwnerQuery("email").
func (h *OrdersHandler) ListByCustomer(w http.ResponseWriter, r *http.Request) {
	orders, err := h.Store.ListByCustomer(r.Context(), r.URL.Query().Get("email"))
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	httputil.JSONResponse(w, http.StatusOK, orders)
}

// load fetches the order named in the path and checks the caller may act on it.
func (h *OrdersHandler) load(r *http.Request) (repo.StoredOrder, error) {
	id, err := repo.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		return repo.StoredOrder{}, err
	}
	o, err := h.Store.Get(r.Context(), id)
	if err != nil {
		return repo.StoredOrder{}, err
	}
	if err := auth.CheckOwnerOrAdmin(r.Context(), o.CustomerEmail, h.Users); err != nil {
		return repo.StoredOrder{}, err
	}
	return o, nil
}

func (h *OrdersHandler) Get(w http.ResponseWriter, r *http.Request) {
	o, err := h.load(r)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	httputil.JSONResponse(w, http.StatusOK, o.Doc)
}

func (h *OrdersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	o, err := h.load(r)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	id, _ := auth.IdentityFrom(r.Context())
	deleted, err := h.Store.Delete(r.Context(), o.ID, id.Email)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	httputil.JSONResponse(w, http.StatusOK, deleteResp{DeletedCount: boolCount(deleted)})
}
