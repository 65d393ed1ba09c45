package repo

import (
	"context"

	"github.com/google/uuid"
)

type ReviewsPG struct{ DB DB }

func (r *ReviewsPG) Insert(ctx context.Context, d Document) (string, error) {
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
	if _, err := r.DB.Exec(ctx, `insert into reviews(id, doc) values ($1::uuid, $2::jsonb)`, id, doc); err != nil {
		return "", err
	}
	return id, nil
}

func (r *ReviewsPG) List(ctx context.Context) ([]Document, error) {
	rows, err := r.DB.Query(ctx, `select id::text, doc from reviews order by created_at`)
	if err != nil {
		return nil, err
	}
	return scanDocs(rows)
}
