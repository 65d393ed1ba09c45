package repo

import (
	"context"
	"encoding/json"
	"time"
)

// ProductStore is implemented by ProductsPG and ProductsCached.
type ProductStore interface {
	List(ctx context.Context, limit int) ([]Document, error)
	Get(ctx context.Context, id string) (Document, error)
	Insert(ctx context.Context, d Document) (string, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// ByteCache is the subset of *cache.Redis the product cache needs.
type ByteCache interface {
	GetBytes(ctx context.Context, key string) ([]byte, error)
	SetBytes(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// ProductsCached reads single products through Redis. Cache failures fall back
// to Postgres.
type ProductsCached struct {
	PG    ProductStore
	Redis ByteCache
	TTL   time.Duration
}

func productKey(id string) string { return "product:" + id }

func (r *ProductsCached) List(ctx context.Context, limit int) ([]Document, error) {
	return r.PG.List(ctx, limit)
}

func (r *ProductsCached) Get(ctx context.Context, id string) (Document, error) {
	// 1) Redis
	if b, err := r.Redis.GetBytes(ctx, productKey(id)); err == nil {
		var d Document
		if json.Unmarshal(b, &d) == nil {
			return d, nil
		}
	}

	// 2) Postgres
	d, err := r.PG.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	// 3) backfill
	if b, err := json.Marshal(d); err == nil {
		_ = r.Redis.SetBytes(ctx, productKey(id), b, r.TTL)
	}
	return d, nil
}

func (r *ProductsCached) Insert(ctx context.Context, d Document) (string, error) {
	return r.PG.Insert(ctx, d)
}

func (r *ProductsCached) Delete(ctx context.Context, id string) (bool, error) {
	deleted, err := r.PG.Delete(ctx, id)
	if err != nil {
		return false, err
	}
	_ = r.Redis.Delete(ctx, productKey(id))
	return deleted, nil
}
