// Package catalog mirrors the server's product collection.
package catalog

import (
	"context"
	"fmt"

	"shopclient/internal/api"
	"shopclient/internal/store"
)

// Store owns the product collection. Mutations never touch the collection
// directly; the confirming re-fetch is the only reconciliation path, so the
// local view always reflects server-computed fields.
type Store struct {
	state *store.State[Product]
	gw    *api.Client
}

func NewStore(gw *api.Client) *Store {
	return &Store{state: store.New[Product](), gw: gw}
}

// Products returns a snapshot of the collection.
func (s *Store) Products() []Product { return s.state.Items() }

func (s *Store) Loading() bool { return s.state.Loading() }

func (s *Store) Err() string { return s.state.Err() }

// Subscribe registers fn to run after each committed state transition.
func (s *Store) Subscribe(fn func()) func() { return s.state.Subscribe(fn) }

// FetchAll replaces the collection with the server's current state.
func (s *Store) FetchAll(ctx context.Context) error {
	s.state.Begin()
	var products []Product
	if err := s.gw.Get(ctx, "/products", &products); err != nil {
		s.state.Fail(api.Detail(err, "failed to load products"))
		return err
	}
	s.state.Commit(products)
	return nil
}

// Create adds a product and re-fetches.
func (s *Store) Create(ctx context.Context, input ProductInput) error {
	s.state.Begin()
	if err := s.gw.Post(ctx, "/products", input, nil); err != nil {
		s.state.Fail(api.Detail(err, "failed to create product"))
		return err
	}
	return s.FetchAll(ctx)
}

// Update applies a partial update to the product keyed by id and re-fetches.
// On failure no part of the patch survives locally.
func (s *Store) Update(ctx context.Context, id int, patch ProductPatch) error {
	s.state.Begin()
	if err := s.gw.Put(ctx, fmt.Sprintf("/products/%d", id), patch, nil); err != nil {
		s.state.Fail(api.Detail(err, "failed to update product"))
		return err
	}
	return s.FetchAll(ctx)
}

// Remove deletes a product and re-fetches.
func (s *Store) Remove(ctx context.Context, id int) error {
	s.state.Begin()
	if err := s.gw.Delete(ctx, fmt.Sprintf("/products/%d", id)); err != nil {
		s.state.Fail(api.Detail(err, "failed to delete product"))
		return err
	}
	return s.FetchAll(ctx)
}
