// Package order mirrors the signed-in user's order history.
package order

import (
	"context"
	"fmt"

	"shopclient/internal/api"
	"shopclient/internal/store"
)

// Store owns the order collection. The server computes totals and snapshots
// prices; the store only ever replaces its collection with what the server
// returns.
type Store struct {
	state *store.State[Order]
	gw    *api.Client
}

func NewStore(gw *api.Client) *Store {
	return &Store{state: store.New[Order](), gw: gw}
}

// Orders returns a snapshot of the collection.
func (s *Store) Orders() []Order { return s.state.Items() }

func (s *Store) Loading() bool { return s.state.Loading() }

func (s *Store) Err() string { return s.state.Err() }

// Subscribe registers fn to run after each committed state transition.
func (s *Store) Subscribe(fn func()) func() { return s.state.Subscribe(fn) }

// FetchAll replaces the collection with the server's current state.
func (s *Store) FetchAll(ctx context.Context) error {
	s.state.Begin()
	var orders []Order
	if err := s.gw.Get(ctx, "/orders", &orders); err != nil {
		s.state.Fail(api.Detail(err, "failed to load orders"))
		return err
	}
	s.state.Commit(orders)
	return nil
}

// Create places an order from the server-side cart and re-fetches. On
// rejection (an empty cart, say) the collection is left untouched.
func (s *Store) Create(ctx context.Context, shippingAddress string) error {
	s.state.Begin()
	if err := s.gw.Post(ctx, "/orders", createRequest{ShippingAddress: shippingAddress}, nil); err != nil {
		s.state.Fail(api.Detail(err, "failed to place order"))
		return err
	}
	return s.FetchAll(ctx)
}

// Update applies a partial update to the order keyed by id and re-fetches.
func (s *Store) Update(ctx context.Context, id int, patch Patch) error {
	s.state.Begin()
	if err := s.gw.Put(ctx, fmt.Sprintf("/orders/%d", id), patch, nil); err != nil {
		s.state.Fail(api.Detail(err, "failed to update order"))
		return err
	}
	return s.FetchAll(ctx)
}
