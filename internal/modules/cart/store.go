// Package cart mirrors the server's cart for the signed-in user. Quantity
// edits keep a pending display overlay separate from the confirmed
// collection; the overlay never leaks into authoritative state.
package cart

import (
	"context"
	"fmt"
	"sync"

	"shopclient/internal/api"
	"shopclient/internal/store"
)

// Store owns the cart collection plus the optimistic quantity overlay.
type Store struct {
	state *store.State[Item]
	gw    *api.Client

	mu      sync.Mutex
	pending map[int]int // item id -> displayed quantity awaiting confirmation
}

func NewStore(gw *api.Client) *Store {
	return &Store{
		state:   store.New[Item](),
		gw:      gw,
		pending: make(map[int]int),
	}
}

// Items returns the confirmed collection, untouched by pending edits.
func (s *Store) Items() []Item { return s.state.Items() }

// DisplayItems overlays pending quantities onto the confirmed collection for
// immediate feedback while a confirming re-fetch is in flight.
func (s *Store) DisplayItems() []Item {
	items := s.state.Items()
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, item := range items {
		if q, ok := s.pending[item.ID]; ok {
			items[i].Quantity = q
		}
	}
	return items
}

// PendingQuantity reports the unconfirmed display quantity for an item, if any.
func (s *Store) PendingQuantity(itemID int) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.pending[itemID]
	return q, ok
}

// Total is recomputed from the confirmed collection on every call, never
// cached.
func (s *Store) Total() float64 {
	var total float64
	for _, item := range s.state.Items() {
		total += item.Product.Price * float64(item.Quantity)
	}
	return total
}

func (s *Store) Loading() bool { return s.state.Loading() }

func (s *Store) Err() string { return s.state.Err() }

// Subscribe registers fn to run after each committed state transition.
func (s *Store) Subscribe(fn func()) func() { return s.state.Subscribe(fn) }

// FetchAll replaces the collection with the server's current cart. Once the
// authoritative state lands, all pending overlays are reconciled away.
func (s *Store) FetchAll(ctx context.Context) error {
	s.state.Begin()
	var items []Item
	if err := s.gw.Get(ctx, "/cart", &items); err != nil {
		s.state.Fail(api.Detail(err, "failed to load cart"))
		return err
	}
	s.mu.Lock()
	s.pending = make(map[int]int)
	s.mu.Unlock()
	s.state.Commit(items)
	return nil
}

// Add puts quantity of a product into the cart. Quantities below 1 are
// clamped to 1 before dispatch.
func (s *Store) Add(ctx context.Context, productID, quantity int) error {
	if quantity < 1 {
		quantity = 1
	}
	s.state.Begin()
	if err := s.gw.Post(ctx, "/cart", addRequest{ProductID: productID, Quantity: quantity}, nil); err != nil {
		s.state.Fail(api.Detail(err, "failed to add item to cart"))
		return err
	}
	return s.FetchAll(ctx)
}

// UpdateQuantity changes an item's quantity. A quantity below 1 is a no-op:
// no request reaches the gateway. The new value is shown optimistically via
// DisplayItems until the re-fetch confirms it; on rejection the overlay is
// dropped and the last confirmed state stands.
func (s *Store) UpdateQuantity(ctx context.Context, itemID, quantity int) error {
	if quantity < 1 {
		return nil
	}
	s.mu.Lock()
	s.pending[itemID] = quantity
	s.mu.Unlock()
	s.state.Begin()
	if err := s.gw.Put(ctx, fmt.Sprintf("/cart/%d", itemID), updateRequest{Quantity: quantity}, nil); err != nil {
		s.mu.Lock()
		delete(s.pending, itemID)
		s.mu.Unlock()
		s.state.Fail(api.Detail(err, "failed to update quantity"))
		return err
	}
	return s.FetchAll(ctx)
}

// Remove deletes a cart line and re-fetches.
func (s *Store) Remove(ctx context.Context, itemID int) error {
	s.state.Begin()
	if err := s.gw.Delete(ctx, fmt.Sprintf("/cart/%d", itemID)); err != nil {
		s.state.Fail(api.Detail(err, "failed to remove item from cart"))
		return err
	}
	return s.FetchAll(ctx)
}
