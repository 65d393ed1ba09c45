package payment

import (
	"context"
	"net/http"
	"time"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
)

// Stripe is the Processor backed by the Stripe payment intents API.
type Stripe struct {
	client paymentintent.Client
}

// NewStripe builds a client with network retries disabled and every call
// bounded by timeout. An empty baseURL targets the live API.
func NewStripe(key string, timeout time.Duration, baseURL string) *Stripe {
	cfg := &stripe.BackendConfig{
		HTTPClient:        &http.Client{Timeout: timeout},
		MaxNetworkRetries: stripe.Int64(0),
	}
	if baseURL != "" {
		cfg.URL = stripe.String(baseURL)
	}
	return &Stripe{client: paymentintent.Client{
		B:   stripe.GetBackendWithConfig(stripe.APIBackend, cfg),
		Key: key,
	}}
}

func (s *Stripe) CreateIntent(ctx context.Context, req IntentRequest) (string, error) {
	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(req.Amount),
		Currency:           stripe.String(req.Currency),
		PaymentMethodTypes: stripe.StringSlice(req.PaymentMethodTypes),
	}
	params.Context = ctx

	pi, err := s.client.New(params)
	if err != nil {
		return "", err
	}
	return pi.ClientSecret, nil
}
