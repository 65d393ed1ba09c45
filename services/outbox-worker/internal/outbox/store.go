package outbox

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Event struct {
	ID        string
	OrderID   string
	EventType string
	Payload   []byte
	Attempts  int
}

// Store reads and updates outbox_events. Rows returned by a Batch stay locked
// until it is committed or rolled back.
type Store interface {
	Pending(ctx context.Context) (int, error)
	Begin(ctx context.Context) (Batch, error)
}

type Batch interface {
	Due(ctx context.Context, limit int) ([]Event, error)
	MarkSent(ctx context.Context, id string) error
	MarkDead(ctx context.Context, id, reason string) error
	Reschedule(ctx context.Context, id string, next time.Time, lastErr string) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

type StorePG struct {
	DB *pgxpool.Pool
}

func (s *StorePG) Pending(ctx context.Context) (int, error) {
	var n int
	err := s.DB.QueryRow(ctx, `select count(*) from outbox_events where sent_at is null`).Scan(&n)
	return n, err
}

func (s *StorePG) Begin(ctx context.Context) (Batch, error) {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return &batchPG{tx: tx}, nil
}

type batchPG struct {
	tx pgx.Tx
}

func (b *batchPG) Due(ctx context.Context, limit int) ([]Event, error) {
	rows, err := b.tx.Query(ctx, `
		select id::text, order_id::text, event_type, payload::text, attempts
		from outbox_events
		where sent_at is null and next_attempt_at <= now()
		order by created_at
		limit $1
		for update skip locked
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var batch []Event
	for rows.Next() {
		var (
			e       Event
			payload string
		)
		if err := rows.Scan(&e.ID, &e.OrderID, &e.EventType, &payload, &e.Attempts); err != nil {
			return nil, err
		}
		e.Payload = []byte(payload)
		batch = append(batch, e)
	}
	return batch, rows.Err()
}

func (b *batchPG) MarkSent(ctx context.Context, id string) error {
	_, err := b.tx.Exec(ctx, `update outbox_events set sent_at = now(), last_error = null where id = $1::uuid`, id)
	return err
}

func (b *batchPG) MarkDead(ctx context.Context, id, reason string) error {
	_, err := b.tx.Exec(ctx, `update outbox_events set sent_at = now(), last_error = $2 where id = $1::uuid`, id, reason)
	return err
}

func (b *batchPG) Reschedule(ctx context.Context, id string, next time.Time, lastErr string) error {
	_, err := b.tx.Exec(ctx, `
		update outbox_events
		set attempts = attempts + 1,
		    next_attempt_at = $2,
		    last_error = $3
		where id = $1::uuid
	`, id, next, lastErr)
	return err
}

func (b *batchPG) Commit(ctx context.Context) error   { return b.tx.Commit(ctx) }
func (b *batchPG) Rollback(ctx context.Context) error { return b.tx.Rollback(ctx) }
