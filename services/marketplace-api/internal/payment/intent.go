// Package payment turns a major-unit price into a processor payment intent.
package payment

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"toolplanet/shared/pkg/apperr"
	"toolplanet/shared/pkg/metrics"
)

const (
	CurrencyUSD = "usd"
	MethodCard  = "card"
)

var maxMinorUnits = decimal.NewFromInt(math.MaxInt64)

// maxPriceExponent bounds the decimal exponent accepted before scaling.
// Rounding costs grow with 10^|exponent|.
const maxPriceExponent = 18

// IntentRequest is what a Processor is asked to create. Amount is in minor units.
type IntentRequest struct {
	Amount             int64
	Currency           string
	PaymentMethodTypes []string
}

// Processor creates a payment intent and returns its client secret.
// Implementations must not retry on their own.
type Processor interface {
	CreateIntent(ctx context.Context, req IntentRequest) (clientSecret string, err error)
}

type Intent struct {
	ClientSecret string
}

type Config struct {
	Timeout         time.Duration
	AllowZeroAmount bool
}

type Service struct {
	processor Processor
	cfg       Config
	log       zerolog.Logger
	tracer    trace.Tracer
}

func NewService(p Processor, cfg Config, log zerolog.Logger) *Service {
	return &Service{
		processor: p,
		cfg:       cfg,
		log:       log.With().Str("component", "payment").Logger(),
		tracer:    otel.Tracer("toolplanet/payment"),
	}
}

// ToMinorUnits scales price by 100 and rounds half away from zero.
func ToMinorUnits(price decimal.Decimal, allowZero bool) (int64, error) {
	if e := price.Exponent(); e > maxPriceExponent || e < -maxPriceExponent {
		return 0, fmt.Errorf("%w: price is out of range", apperr.ErrInvalid)
	}
	if price.IsNegative() {
		return 0, fmt.Errorf("%w: price must not be negative", apperr.ErrInvalid)
	}
	minor := price.Shift(2).Round(0)
	if minor.GreaterThan(maxMinorUnits) {
		return 0, fmt.Errorf("%w: price is too large", apperr.ErrInvalid)
	}
	if minor.IsZero() && !allowZero {
		return 0, fmt.Errorf("%w: price must be greater than zero", apperr.ErrInvalid)
	}
	return minor.IntPart(), nil
}

func (s *Service) CreateIntent(ctx context.Context, price decimal.Decimal) (_ Intent, err error) {
	ctx, span := s.tracer.Start(ctx, "payment.CreateIntent")
	outcome := metrics.OutcomeCreated
	defer func() {
		metrics.PaymentIntent(outcome)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, outcome)
		} else {
			span.SetStatus(codes.Ok, outcome)
		}
		span.End()
	}()

	amount, err := ToMinorUnits(price, s.cfg.AllowZeroAmount)
	if err != nil {
		outcome = metrics.OutcomeInvalid
		return Intent{}, err
	}
	span.SetAttributes(attribute.Int64("payment.amount", amount))

	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	secret, err := s.processor.CreateIntent(ctx, IntentRequest{
		Amount:             amount,
		Currency:           CurrencyUSD,
		PaymentMethodTypes: []string{MethodCard},
	})
	if err == nil && secret == "" {
		err = errors.New("empty client secret")
	}
	if err != nil {
		outcome = metrics.OutcomeUpstream
		s.log.Error().Err(err).Int64("amount", amount).Msg("payment intent failed")
		return Intent{}, fmt.Errorf("%w: payment processor: %w", apperr.ErrUpstream, err)
	}
	return Intent{ClientSecret: secret}, nil
}
