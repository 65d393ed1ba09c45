package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"toolplanet/services/marketplace-api/internal/booking"
	"toolplanet/shared/pkg/apperr"
	"toolplanet/shared/pkg/models"
)

type OrdersPG struct {
	DB     DB
	Outbox *OutboxPG
}

// StoredOrder is an order row with its owner split out for authorization.
type StoredOrder struct {
	ID            string
	ProductID     string
	CustomerEmail string
	Doc           Document
}

func orderDoc(o booking.Order) Document {
	d := make(Document, len(o.Fields)+2)
	for k, v := range o.Fields {
		d[k] = v
	}
	delete(d, IDKey)
	d["productId"] = o.ProductID
	d["customerEmail"] = o.CustomerEmail
	return d
}

// InsertIfAbsent relies on orders_product_customer_uq: concurrent inserts for
// the same pair resolve to one row, and the booked event is only enqueued for
// the row that was actually written.
func (r *OrdersPG) InsertIfAbsent(ctx context.Context, o booking.Order) (bool, error) {
	doc, err := marshalDoc(orderDoc(o))
	if err != nil {
		return false, err
	}

	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var id string
	err = tx.QueryRow(ctx, `
		insert into orders(id, product_id, customer_email, doc, created_at)
		values ($1::uuid, $2, $3, $4::jsonb, $5)
		on conflict (product_id, customer_email) do nothing
		returning id::text
	`, o.ID, o.ProductID, o.CustomerEmail, doc, o.CreatedAt).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	evt := models.NewOrderBookedEvent(id, o.ProductID, o.CustomerEmail)
	if err := r.Outbox.Enqueue(ctx, tx, evt.ID, evt.OrderID, evt.Type, evt); err != nil {
		return false, fmt.Errorf("enqueue %s: %w", evt.Type, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return false, err
	}
	return true, nil
}

func (r *OrdersPG) ListByCustomer(ctx context.Context, email string) ([]Document, error) {
	rows, err := r.DB.Query(ctx, `
		select id::text, doc from orders
		where customer_email = $1
		order by created_at
	`, email)
	if err != nil {
		return nil, err
	}
	return scanDocs(rows)
}

func (r *OrdersPG) Get(ctx context.Context, id string) (StoredOrder, error) {
	var (
		o   StoredOrder
		raw []byte
	)
	err := r.DB.QueryRow(ctx, `
		select id::text, product_id, customer_email, doc from orders where id = $1::uuid
	`, id).Scan(&o.ID, &o.ProductID, &o.CustomerEmail, &raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return StoredOrder{}, fmt.Errorf("order %s: %w", id, apperr.ErrNotFound)
	}
	if err != nil {
		return StoredOrder{}, err
	}
	if o.Doc, err = unmarshalDoc(o.ID, raw); err != nil {
		return StoredOrder{}, err
	}
	return o, nil
}

// Delete removes the order and enqueues orders.deleted in the same transaction.
// It reports false when no such order exists.
func (r *OrdersPG) Delete(ctx context.Context, id, deletedBy string) (bool, error) {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var productID, customerEmail string
	err = tx.QueryRow(ctx, `
		delete from orders where id = $1::uuid
		returning product_id, customer_email
	`, id).Scan(&productID, &customerEmail)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	evt := models.NewOrderDeletedEvent(id, productID, customerEmail, deletedBy)
	if err := r.Outbox.Enqueue(ctx, tx, evt.ID, evt.OrderID, evt.Type, evt); err != nil {
		return false, fmt.Errorf("enqueue %s: %w", evt.Type, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return false, err
	}
	return true, nil
}
