package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"toolplanet/shared/pkg/apperr"
)

type ProductsPG struct{ DB DB }

// List returns every product oldest first, or the newest limit products newest
// first when limit > 0.
func (r *ProductsPG) List(ctx context.Context, limit int) ([]Document, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if limit > 0 {
		rows, err = r.DB.Query(ctx, `select id::text, doc from products order by created_at desc limit $1`, limit)
	} else {
		rows, err = r.DB.Query(ctx, `select id::text, doc from products order by created_at`)
	}
	if err != nil {
		return nil, err
	}
	return scanDocs(rows)
}

func (r *ProductsPG) Get(ctx context.Context, id string) (Document, error) {
	var raw []byte
	err := r.DB.QueryRow(ctx, `select doc from products where id = $1::uuid`, id).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("product %s: %w", id, apperr.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return unmarshalDoc(id, raw)
}

func (r *ProductsPG) Insert(ctx context.Context, d Document) (string, error) {
	clean := make(Document, len(d))
	for k, v := range d {
		if k != IDKey {
			clean[k] = v
		}
	}
	doc, err := marshalDoc(clean)
	if err != nil {
		return "", err
	}
	id := uuid.NewString()
	if _, err := r.DB.Exec(ctx, `insert into products(id, doc) values ($1::uuid, $2::jsonb)`, id, doc); err != nil {
		return "", err
	}
	return id, nil
}

func (r *ProductsPG) Delete(ctx context.Context, id string) (bool, error) {
	ct, err := r.DB.Exec(ctx, `delete from products where id = $1::uuid`, id)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() == 1, nil
}
