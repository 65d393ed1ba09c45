package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"toolplanet/shared/pkg/apperr"
	"toolplanet/shared/pkg/cache"
)

type fakeProducts struct {
	docs    map[string]Document
	gets    int
	deletes int
}

func (f *fakeProducts) List(context.Context, int) ([]Document, error) { return nil, nil }

func (f *fakeProducts) Get(_ context.Context, id string) (Document, error) {
	f.gets++
	d, ok := f.docs[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	return d, nil
}

func (f *fakeProducts) Insert(context.Context, Document) (string, error) { return "", nil }

func (f *fakeProducts) Delete(_ context.Context, id string) (bool, error) {
	f.deletes++
	_, ok := f.docs[id]
	delete(f.docs, id)
	return ok, nil
}

type fakeCache struct {
	data map[string][]byte
	err  error
}

func (f *fakeCache) GetBytes(_ context.Context, key string) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	b, ok := f.data[key]
	if !ok {
		return nil, cache.ErrMiss
	}
	return b, nil
}

func (f *fakeCache) SetBytes(_ context.Context, key string, value []byte, _ time.Duration) error {
	if f.err != nil {
		return f.err
	}
	f.data[key] = value
	return nil
}

func (f *fakeCache) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(f.data, k)
	}
	return f.err
}

const productID = "7d8f3d1e-7b0c-4a57-9b52-2f7d1f0a6a11"

func newCachedProducts() (*ProductsCached, *fakeProducts, *fakeCache) {
	pg := &fakeProducts{docs: map[string]Document{
		productID: {IDKey: productID, "name": "Hammer", "price": "12.5"},
	}}
	c := &fakeCache{data: map[string][]byte{}}
	return &ProductsCached{PG: pg, Redis: c, TTL: time.Minute}, pg, c
}

func TestProductsCachedReadThrough(t *testing.T) {
	r, pg, c := newCachedProducts()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		d, err := r.Get(ctx, productID)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if d["name"] != "Hammer" || d[IDKey] != productID {
			t.Fatalf("unexpected doc %v", d)
		}
	}
	if pg.gets != 1 {
		t.Fatalf("expected one postgres read, got %d", pg.gets)
	}
	if _, ok := c.data[productKey(productID)]; !ok {
		t.Fatal("expected cache backfill")
	}
}

func TestProductsCachedFallsBackWhenRedisDown(t *testing.T) {
	r, pg, c := newCachedProducts()
	c.err = errors.New("dial tcp: connection refused")

	for i := 0; i < 2; i++ {
		if _, err := r.Get(context.Background(), productID); err != nil {
			t.Fatalf("Get: %v", err)
		}
	}
	if pg.gets != 2 {
		t.Fatalf("expected postgres on every read, got %d", pg.gets)
	}
}

func TestProductsCachedMissNotCached(t *testing.T) {
	r, _, c := newCachedProducts()
	_, err := r.Get(context.Background(), "00000000-0000-0000-0000-000000000000")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if len(c.data) != 0 {
		t.Fatalf("missing product cached: %v", c.data)
	}
}

func TestProductsCachedDeleteInvalidates(t *testing.T) {
	r, pg, c := newCachedProducts()
	ctx := context.Background()
	if _, err := r.Get(ctx, productID); err != nil {
		t.Fatal(err)
	}

	deleted, err := r.Delete(ctx, productID)
	if err != nil || !deleted {
		t.Fatalf("Delete: %v %v", deleted, err)
	}
	if _, ok := c.data[productKey(productID)]; ok {
		t.Fatal("cache entry survived delete")
	}
	if _, err := r.Get(ctx, productID); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
	if pg.deletes != 1 {
		t.Fatalf("expected one delete, got %d", pg.deletes)
	}
}
