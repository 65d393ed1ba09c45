package payment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"toolplanet/shared/pkg/apperr"
)

type fakeProcessor struct {
	createFn func(ctx context.Context, req IntentRequest) (string, error)
	calls    int
	last     IntentRequest
}

func (f *fakeProcessor) CreateIntent(ctx context.Context, req IntentRequest) (string, error) {
	f.calls++
	f.last = req
	return f.createFn(ctx, req)
}

func okProcessor() *fakeProcessor {
	return &fakeProcessor{createFn: func(context.Context, IntentRequest) (string, error) {
		return "pi_123_secret_abc", nil
	}}
}

func TestToMinorUnits(t *testing.T) {
	tests := []struct {
		price string
		want  int64
	}{
		{"19.99", 1999},
		{"0.29", 29},
		{"1.005", 101},
		{"1.004", 100},
		{"0.015", 2},
		{"100", 10000},
		{"4.5", 450},
		{"0.01", 1},
		{"92233720368547758.07", 9223372036854775807},
	}
	for _, tt := range tests {
		got, err := ToMinorUnits(decimal.RequireFromString(tt.price), false)
		if err != nil {
			t.Errorf("%s: unexpected error %v", tt.price, err)
			continue
		}
		if got != tt.want {
			t.Errorf("%s: got %d, want %d", tt.price, got, tt.want)
		}
	}
}

func TestToMinorUnitsRejects(t *testing.T) {
	for _, price := range []string{
		"-0.01", "-19.99", "92233720368547758.08", "0", "0.004",
		"1e-20000000", "1e20000000", "-1e20000000", "1e19", "0.0000000000000000001",
	} {
		if _, err := ToMinorUnits(decimal.RequireFromString(price), false); !errors.Is(err, apperr.ErrInvalid) {
			t.Errorf("%s: expected ErrInvalid, got %v", price, err)
		}
	}
}

func TestToMinorUnitsZeroPolicy(t *testing.T) {
	got, err := ToMinorUnits(decimal.Zero, true)
	if err != nil || got != 0 {
		t.Fatalf("allowed zero: got %d, %v", got, err)
	}
	if _, err := ToMinorUnits(decimal.Zero, false); !errors.Is(err, apperr.ErrInvalid) {
		t.Fatalf("rejected zero: got %v", err)
	}
}

func TestCreateIntent(t *testing.T) {
	p := okProcessor()
	svc := NewService(p, Config{Timeout: time.Second}, zerolog.Nop())

	intent, err := svc.CreateIntent(context.Background(), decimal.RequireFromString("19.99"))
	if err != nil {
		t.Fatalf("CreateIntent: %v", err)
	}
	if intent.ClientSecret != "pi_123_secret_abc" {
		t.Errorf("got secret %q", intent.ClientSecret)
	}
	if p.last.Amount != 1999 || p.last.Currency != "usd" {
		t.Errorf("unexpected request %+v", p.last)
	}
	if len(p.last.PaymentMethodTypes) != 1 || p.last.PaymentMethodTypes[0] != "card" {
		t.Errorf("unexpected methods %v", p.last.PaymentMethodTypes)
	}
}

func TestCreateIntentZeroPolicy(t *testing.T) {
	p := okProcessor()
	strict := NewService(p, Config{Timeout: time.Second}, zerolog.Nop())
	if _, err := strict.CreateIntent(context.Background(), decimal.Zero); !errors.Is(err, apperr.ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
	if p.calls != 0 {
		t.Fatalf("processor called for rejected price")
	}

	lenient := NewService(p, Config{Timeout: time.Second, AllowZeroAmount: true}, zerolog.Nop())
	if _, err := lenient.CreateIntent(context.Background(), decimal.Zero); err != nil {
		t.Fatalf("expected zero accepted, got %v", err)
	}
	if p.last.Amount != 0 {
		t.Fatalf("expected amount 0, got %d", p.last.Amount)
	}
}

func TestCreateIntentUpstreamErrorNoRetry(t *testing.T) {
	boom := errors.New("card_declined")
	p := &fakeProcessor{createFn: func(context.Context, IntentRequest) (string, error) {
		return "", boom
	}}
	svc := NewService(p, Config{Timeout: time.Second}, zerolog.Nop())

	_, err := svc.CreateIntent(context.Background(), decimal.RequireFromString("5"))
	if !errors.Is(err, apperr.ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
	if !errors.Is(err, boom) {
		t.Fatalf("expected cause preserved, got %v", err)
	}
	if p.calls != 1 {
		t.Fatalf("expected a single processor call, got %d", p.calls)
	}
}

func TestCreateIntentTimeout(t *testing.T) {
	p := &fakeProcessor{createFn: func(ctx context.Context, _ IntentRequest) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	}}
	svc := NewService(p, Config{Timeout: 20 * time.Millisecond}, zerolog.Nop())

	start := time.Now()
	_, err := svc.CreateIntent(context.Background(), decimal.RequireFromString("5"))
	if !errors.Is(err, apperr.ErrUpstream) || !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected upstream deadline error, got %v", err)
	}
	if time.Since(start) > 2*time.Second {
		t.Fatal("timeout not enforced")
	}
}

func TestCreateIntentEmptySecret(t *testing.T) {
	p := &fakeProcessor{createFn: func(context.Context, IntentRequest) (string, error) { return "", nil }}
	svc := NewService(p, Config{Timeout: time.Second}, zerolog.Nop())
	if _, err := svc.CreateIntent(context.Background(), decimal.RequireFromString("5")); !errors.Is(err, apperr.ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
}

func TestToMinorUnitsExponentBounds(t *testing.T) {
	got, err := ToMinorUnits(decimal.RequireFromString("1.990000000000000000"), false)
	if err != nil || got != 199 {
		t.Fatalf("18 decimal places: got %d, %v", got, err)
	}

	start := time.Now()
	for _, raw := range []string{`"1e-2000000000"`, `1e2000000000`} {
		var price decimal.Decimal
		if err := price.UnmarshalJSON([]byte(raw)); err != nil {
			t.Fatalf("%s: %v", raw, err)
		}
		if _, err := ToMinorUnits(price, true); !errors.Is(err, apperr.ErrInvalid) {
			t.Errorf("%s: expected ErrInvalid, got %v", raw, err)
		}
	}
	if d := time.Since(start); d > time.Second {
		t.Errorf("extreme exponents took %v", d)
	}
}
