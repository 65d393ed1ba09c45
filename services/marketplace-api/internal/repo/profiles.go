package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
)

type ProfilesPG struct{ DB DB }

// Upsert merges d into the profile keyed by userEmail.
func (r *ProfilesPG) Upsert(ctx context.Context, userEmail string, d Document) error {
	clean := make(Document, len(d)+1)
	for k, v := range d {
		if k != IDKey {
			clean[k] = v
		}
	}
	clean["userEmail"] = userEmail
	doc, err := marshalDoc(clean)
	if err != nil {
		return err
	}
	_, err = r.DB.Exec(ctx, `
		insert into profiles(user_email, doc, updated_at)
		values ($1, $2::jsonb, now())
		on conflict (user_email) do update
			set doc = profiles.doc || excluded.doc,
			    updated_at = now()
	`, userEmail, doc)
	return err
}

func (r *ProfilesPG) Get(ctx context.Context, userEmail string) (Document, bool, error) {
	var raw []byte
	err := r.DB.QueryRow(ctx, `select doc from profiles where user_email = $1`, userEmail).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	d, err := unmarshalDoc("", raw)
	if err != nil {
		return nil, false, err
	}
	return d, true, nil
}
