package repo

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"toolplanet/shared/pkg/apperr"
)

//go:embed schema.sql
var schema string

// DB is the part of *pgxpool.Pool the repositories use.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Migrate creates the schema. It is safe to run repeatedly.
func Migrate(ctx context.Context, db DB) error {
	if _, err := db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// Document is a free-form JSON object as stored in a jsonb column.
type Document map[string]any

// IDKey is the field documents expose their id under.
const IDKey = "_id"

// ParseID validates a document id taken from a request path.
func ParseID(id string) (string, error) {
	u, err := uuid.Parse(id)
	if err != nil {
		return "", fmt.Errorf("%w: malformed id %q", apperr.ErrInvalid, id)
	}
	return u.String(), nil
}

func marshalDoc(d Document) (string, error) {
	if d == nil {
		return "{}", nil
	}
	b, err := json.Marshal(d)
	if err != nil {
		return "", fmt.Errorf("%w: document is not valid json", apperr.ErrInvalid)
	}
	return string(b), nil
}

func unmarshalDoc(id string, raw []byte) (Document, error) {
	d := Document{}
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, err
	}
	if id != "" {
		d[IDKey] = id
	}
	return d, nil
}

// scanDocs reads rows of (id, doc).
func scanDocs(rows pgx.Rows) ([]Document, error) {
	defer rows.Close()
	out := []Document{}
	for rows.Next() {
		var (
			id  string
			raw []byte
		)
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, err
		}
		d, err := unmarshalDoc(id, raw)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
