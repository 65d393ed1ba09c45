package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"

	"toolplanet/services/marketplace-api/internal/payment"
	"toolplanet/shared/pkg/apperr"
	"toolplanet/shared/pkg/httputil"
)

type IntentCreator interface {
	CreateIntent(ctx context.Context, price decimal.Decimal) (payment.Intent, error)
}

type PaymentsHandler struct {
	Payments IntentCreator
}

// maxPriceLen bounds the raw price literal before it is parsed.
const maxPriceLen = 64

// The client posts the whole product document; only price is read.
type paymentIntentReq struct {
	Price json.RawMessage `json:"price"`
}

func (req paymentIntentReq) price() (decimal.Decimal, error) {
	if len(req.Price) == 0 || string(req.Price) == "null" {
		return decimal.Decimal{}, fmt.Errorf("%w: price is required", apperr.ErrInvalid)
	}
	if len(req.Price) > maxPriceLen {
		return decimal.Decimal{}, fmt.Errorf("%w: price is out of range", apperr.ErrInvalid)
	}
	var p decimal.Decimal
	if err := p.UnmarshalJSON(req.Price); err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: price must be a decimal number", apperr.ErrInvalid)
	}
	return p, nil
}

type paymentIntentResp struct {
	ClientSecret string `json:"clientSecret"`
}

func (h *PaymentsHandler) CreateIntent(w http.ResponseWriter, r *http.Request) {
	var req paymentIntentReq
	if err := decodeJSON(w, r, &req); err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	price, err := req.price()
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}

	intent, err := h.Payments.CreateIntent(r.Context(), price)
	if err != nil {
		httputil.WriteError(w, r, err)
		return
	}
	httputil.JSONResponse(w, http.StatusOK, paymentIntentResp{ClientSecret: intent.ClientSecret})
}
