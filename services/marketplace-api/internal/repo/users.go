package repo

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"

	"toolplanet/services/marketplace-api/internal/auth"
)

type UsersPG struct{ DB DB }

// Upsert merges profile into the user keyed by email and reports whether the
// row was newly inserted. The role column is never touched.
func (r *UsersPG) Upsert(ctx context.Context, email string, profile Document) (bool, error) {
	doc, err := marshalDoc(profile)
	if err != nil {
		return false, err
	}

	var inserted bool
	err = r.DB.QueryRow(ctx, `
		insert into users(email, profile)
		values ($1, $2::jsonb)
		on conflict (email) do update
			set profile = users.profile || excluded.profile,
			    updated_at = now()
		returning (xmax = 0)
	`, email, doc).Scan(&inserted)
	return inserted, err
}

func (r *UsersPG) FindRole(ctx context.Context, email string) (auth.Role, bool, error) {
	var role string
	err := r.DB.QueryRow(ctx, `select role from users where email = $1`, email).Scan(&role)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return auth.Role(role), true, nil
}

// SetAdmin grants the admin role to an existing user. It reports whether a user
// matched and whether the role actually changed.
func (r *UsersPG) SetAdmin(ctx context.Context, email string) (matched, modified bool, err error) {
	var previous string
	err = r.DB.QueryRow(ctx, `
		with prev as (select role from users where email = $1 for update)
		update users set role = $2, updated_at = now()
		where email = $1
		returning (select role from prev)
	`, email, string(auth.RoleAdmin)).Scan(&previous)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, false, nil
	}
	if err != nil {
		return false, false, err
	}
	return true, previous != string(auth.RoleAdmin), nil
}

func (r *UsersPG) List(ctx context.Context) ([]Document, error) {
	rows, err := r.DB.Query(ctx, `select email, role, profile from users order by created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Document{}
	for rows.Next() {
		var (
			email, role string
			raw         []byte
		)
		if err := rows.Scan(&email, &role, &raw); err != nil {
			return nil, err
		}
		d := Document{}
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, err
		}
		d["email"] = email
		d["role"] = role
		out = append(out, d)
	}
	return out, rows.Err()
}
