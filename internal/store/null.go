package store

import "context"

// NullStore is the store used when no backend is reachable. Every read
// behaves as a permanent miss and every write is silently dropped, so
// callers degrade to empty results instead of erroring.
type NullStore struct{}

// NewNullStore returns a store that accepts everything and holds nothing.
func NewNullStore() *NullStore {
	return &NullStore{}
}

func (NullStore) Upsert(context.Context, []Document) error { return nil }

func (NullStore) Get(context.Context, string) (*Document, error) { return nil, ErrNotFound }

func (NullStore) Query(context.Context, Query) ([]Result, error) { return nil, nil }

func (NullStore) List(context.Context) ([]Document, error) { return nil, nil }

func (NullStore) Delete(context.Context, []string) error { return nil }

func (NullStore) Count(context.Context) (int, error) { return 0, nil }

func (NullStore) Close() error { return nil }
