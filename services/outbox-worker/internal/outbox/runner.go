// Package outbox relays booking events from outbox_events to RabbitMQ.
package outbox

import (
	"context"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	"toolplanet/services/outbox-worker/internal/metrics"
	"toolplanet/shared/pkg/rabbit"
)

type Publisher interface {
	Publish(ctx context.Context, routingKey string, body []byte, headers amqp.Table) error
}

type Runner struct {
	Log   zerolog.Logger
	Store Store

	// EventsPub receives events under their event type as routing key.
	EventsPub Publisher
	// DeadPub receives events that exhausted MaxAttempts, keyed "dead.<type>".
	DeadPub Publisher

	PollInterval time.Duration
	BatchSize    int
	MaxAttempts  int
	BackoffMax   time.Duration

	now func() time.Time
}

func (r *Runner) Run(ctx context.Context) {
	t := time.NewTicker(r.PollInterval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			r.Log.Info().Msg("outbox runner stopped")
			return
		case <-t.C:
			if _, err := r.RelayOnce(ctx); err != nil {
				r.Log.Error().Err(err).Msg("outbox tick failed")
			}
		}
	}
}

func (r *Runner) clock() time.Time {
	if r.now != nil {
		return r.now()
	}
	return time.Now()
}

// RelayOnce publishes one batch of due events and returns how many were sent.
func (r *Runner) RelayOnce(ctx context.Context) (int, error) {
	r.updatePending(ctx)

	b, err := r.Store.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer func() { _ = b.Rollback(ctx) }()

	batch, err := b.Due(ctx, r.BatchSize)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, e := range batch {
		headers := amqp.Table{
			"x-outbox-id": e.ID,
			"x-order-id":  e.OrderID,
			"x-attempts":  int32(e.Attempts),
		}

		if e.Attempts >= r.MaxAttempts {
			if err := r.bury(ctx, b, e, headers); err != nil {
				return sent, err
			}
			continue
		}

		pubCtx, cancel := rabbit.WithTimeout(ctx)
		err := r.EventsPub.Publish(pubCtx, e.EventType, e.Payload, headers)
		cancel()

		if err == nil {
			if err := b.MarkSent(ctx, e.ID); err != nil {
				return sent, err
			}
			metrics.OutboxSentTotal.WithLabelValues(e.EventType).Inc()
			sent++
			continue
		}

		metrics.OutboxPublishErrorsTotal.WithLabelValues(e.EventType).Inc()
		next := r.clock().Add(Backoff(e.Attempts+1, r.BackoffMax))
		if err2 := b.Reschedule(ctx, e.ID, next, err.Error()); err2 != nil {
			return sent, err2
		}
		r.Log.Error().Err(err).
			Str("id", e.ID).
			Str("type", e.EventType).
			Int("attempts", e.Attempts+1).
			Time("next", next).
			Msg("publish failed -> retry scheduled")
	}

	return sent, b.Commit(ctx)
}

// bury forwards an exhausted event to the dead-letter exchange and stops
// retrying it. A failed dead-letter publish is logged, not retried.
func (r *Runner) bury(ctx context.Context, b Batch, e Event, headers amqp.Table) error {
	if r.DeadPub != nil {
		pubCtx, cancel := rabbit.WithTimeout(ctx)
		if err := r.DeadPub.Publish(pubCtx, "dead."+e.EventType, e.Payload, headers); err != nil {
			r.Log.Error().Err(err).Str("id", e.ID).Msg("dead-letter publish failed")
		}
		cancel()
	}
	if err := b.MarkDead(ctx, e.ID, "max attempts reached"); err != nil {
		return err
	}
	metrics.OutboxDeadTotal.WithLabelValues(e.EventType).Inc()
	r.Log.Warn().Str("id", e.ID).Int("attempts", e.Attempts).Msg("outbox drop (max attempts)")
	return nil
}

func (r *Runner) updatePending(ctx context.Context) {
	ctx2, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	n, err := r.Store.Pending(ctx2)
	if err != nil {
		return
	}
	metrics.OutboxPending.Set(float64(n))
}

// Backoff doubles from 2s per attempt, capped at max and floored at 1s.
func Backoff(attempt int, max time.Duration) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	if attempt > 30 {
		return max
	}
	d := time.Duration(1<<uint(attempt)) * time.Second
	if d > max {
		return max
	}
	if d < time.Second {
		return time.Second
	}
	return d
}
