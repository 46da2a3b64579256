// Package category mirrors the server's category collection and derives the
// hierarchical tree view from its flat nested-set form.
package category

import (
	"context"
	"fmt"

	"shopclient/internal/api"
	"shopclient/internal/store"
)

// Store owns the category collection. All writes reconcile by re-fetching the
// full collection after the server confirms the mutation.
type Store struct {
	state *store.State[Category]
	gw    *api.Client
}

func NewStore(gw *api.Client) *Store {
	return &Store{state: store.New[Category](), gw: gw}
}

// Categories returns a snapshot of the flat collection.
func (s *Store) Categories() []Category { return s.state.Items() }

func (s *Store) Loading() bool { return s.state.Loading() }

func (s *Store) Err() string { return s.state.Err() }

// Subscribe registers fn to run after each committed state transition.
func (s *Store) Subscribe(fn func()) func() { return s.state.Subscribe(fn) }

// Tree rebuilds the hierarchical projection from the current snapshot. The
// result is derived on every call and never stored.
func (s *Store) Tree() []*Node { return BuildTree(s.state.Items()) }

// FetchAll replaces the collection with the server's current state.
func (s *Store) FetchAll(ctx context.Context) error {
	s.state.Begin()
	var categories []Category
	if err := s.gw.Get(ctx, "/categories", &categories); err != nil {
		s.state.Fail(api.Detail(err, "failed to load categories"))
		return err
	}
	s.state.Commit(categories)
	return nil
}

// Create adds a category and re-fetches; the server assigns the identity.
func (s *Store) Create(ctx context.Context, name, description string, parentID *int) error {
	s.state.Begin()
	req := CreateRequest{Name: name, Description: description, ParentID: parentID}
	if err := s.gw.Post(ctx, "/categories", req, nil); err != nil {
		s.state.Fail(api.Detail(err, "failed to create category"))
		return err
	}
	return s.FetchAll(ctx)
}

// Remove deletes a category and re-fetches. On failure the collection is left
// untouched.
func (s *Store) Remove(ctx context.Context, id int) error {
	s.state.Begin()
	if err := s.gw.Delete(ctx, fmt.Sprintf("/categories/%d", id)); err != nil {
		s.state.Fail(api.Detail(err, "failed to delete category"))
		return err
	}
	return s.FetchAll(ctx)
}
