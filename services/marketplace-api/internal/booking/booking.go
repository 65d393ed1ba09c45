// Package booking creates orders with at most one order per product and customer.
package booking

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"toolplanet/shared/pkg/apperr"
	"toolplanet/shared/pkg/metrics"
)

const (
	DuplicateInfo = "Already booked. Please order other products"
	CreatedInfo   = "Order Successful"
)

type Outcome string

const (
	Created   Outcome = "created"
	Duplicate Outcome = "duplicate"
)

type Input struct {
	ProductID     string
	CustomerEmail string
	// Fields carries the remaining line-item fields verbatim.
	Fields map[string]any
}

type Order struct {
	ID            string
	ProductID     string
	CustomerEmail string
	Fields        map[string]any
	CreatedAt     time.Time
}

type Result struct {
	Outcome Outcome
	OrderID string
}

// Store inserts o unless an order for the same product and customer exists.
// The check and the insert must be a single atomic operation.
type Store interface {
	InsertIfAbsent(ctx context.Context, o Order) (created bool, err error)
}

type Service struct {
	store  Store
	log    zerolog.Logger
	tracer trace.Tracer
	newID  func() string
	now    func() time.Time
}

func NewService(store Store, log zerolog.Logger) *Service {
	return &Service{
		store:  store,
		log:    log.With().Str("component", "booking").Logger(),
		tracer: otel.Tracer("toolplanet/booking"),
		newID:  uuid.NewString,
		now:    time.Now,
	}
}

func (in Input) validate() (Input, error) {
	in.ProductID = strings.TrimSpace(in.ProductID)
	in.CustomerEmail = strings.TrimSpace(in.CustomerEmail)
	if in.ProductID == "" {
		return in, fmt.Errorf("%w: productId is required", apperr.ErrInvalid)
	}
	if in.CustomerEmail == "" {
		return in, fmt.Errorf("%w: customerEmail is required", apperr.ErrInvalid)
	}
	return in, nil
}

func (s *Service) Create(ctx context.Context, in Input) (res Result, err error) {
	ctx, span := s.tracer.Start(ctx, "booking.Create",
		trace.WithAttributes(attribute.String("order.product_id", in.ProductID)),
	)
	outcome := metrics.OutcomeError
	defer func() {
		metrics.Booking(outcome)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, outcome)
		} else {
			span.SetAttributes(attribute.String("booking.outcome", string(res.Outcome)))
			span.SetStatus(codes.Ok, outcome)
		}
		span.End()
	}()

	in, err = in.validate()
	if err != nil {
		outcome = metrics.OutcomeInvalid
		return Result{}, err
	}

	o := Order{
		ID:            s.newID(),
		ProductID:     in.ProductID,
		CustomerEmail: in.CustomerEmail,
		Fields:        in.Fields,
		CreatedAt:     s.now().UTC(),
	}
	created, err := s.store.InsertIfAbsent(ctx, o)
	if err != nil {
		s.log.Error().Err(err).Str("product_id", o.ProductID).Msg("booking insert failed")
		return Result{}, fmt.Errorf("booking: insert: %w", err)
	}
	if !created {
		outcome = metrics.OutcomeDuplicate
		s.log.Info().Str("product_id", o.ProductID).Msg("duplicate booking")
		return Result{Outcome: Duplicate}, nil
	}

	outcome = metrics.OutcomeCreated
	s.log.Info().Str("order_id", o.ID).Str("product_id", o.ProductID).Msg("order booked")
	return Result{Outcome: Created, OrderID: o.ID}, nil
}
