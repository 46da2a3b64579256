package cart_test

import (
	"context"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopclient/internal/api"
	"shopclient/internal/credentials"
	"shopclient/internal/modules/cart"
	"shopclient/internal/storetest"
)

func setup(t *testing.T) (*cart.Store, *storetest.Server) {
	t.Helper()
	srv := storetest.New()
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)
	srv.AddUser("alice", "alice@shop.test", "secret", false)
	creds := credentials.NewMemory()
	creds.SetToken(srv.IssueToken("alice"))
	return cart.NewStore(api.NewClient(ts.URL, creds)), srv
}

func TestAddAndTotal(t *testing.T) {
	s, srv := setup(t)
	tea := srv.AddProduct(storetest.Product{Name: "Tea", Price: 3.50, Stock: 10})
	pot := srv.AddProduct(storetest.Product{Name: "Teapot", Price: 24, Stock: 2})

	ctx := context.Background()
	require.NoError(t, s.Add(ctx, tea, 2))
	require.NoError(t, s.Add(ctx, pot, 1))

	require.Len(t, s.Items(), 2)
	assert.InDelta(t, 2*3.50+24, s.Total(), 1e-9)
	assert.False(t, s.Loading())
	assert.Empty(t, s.Err())
}

func TestTotalRecomputedAfterEveryMutation(t *testing.T) {
	s, srv := setup(t)
	tea := srv.AddProduct(storetest.Product{Name: "Tea", Price: 3.50, Stock: 10})

	ctx := context.Background()
	require.NoError(t, s.Add(ctx, tea, 1))
	before := s.Total()

	item := s.Items()[0]
	require.NoError(t, s.UpdateQuantity(ctx, item.ID, 4))
	assert.InDelta(t, 4*3.50, s.Total(), 1e-9)
	assert.NotEqual(t, before, s.Total())

	require.NoError(t, s.Remove(ctx, item.ID))
	assert.Zero(t, s.Total())
}

func TestUpdateQuantityBelowOneNeverDispatched(t *testing.T) {
	s, srv := setup(t)
	tea := srv.AddProduct(storetest.Product{Name: "Tea", Price: 3.50, Stock: 10})

	ctx := context.Background()
	require.NoError(t, s.Add(ctx, tea, 2))
	item := s.Items()[0]

	require.NoError(t, s.UpdateQuantity(ctx, item.ID, 0))
	require.NoError(t, s.UpdateQuantity(ctx, item.ID, -1))

	assert.Zero(t, srv.Requests("PUT", fmt.Sprintf("/cart/%d", item.ID)))
	assert.Equal(t, 2, s.Items()[0].Quantity)
}

func TestOptimisticOverlayDiscardedOnRejection(t *testing.T) {
	s, srv := setup(t)
	tea := srv.AddProduct(storetest.Product{Name: "Tea", Price: 3.50, Stock: 5})

	ctx := context.Background()
	require.NoError(t, s.Add(ctx, tea, 2))
	item := s.Items()[0]

	// More than the stock; the server rejects the update.
	err := s.UpdateQuantity(ctx, item.ID, 50)
	require.Error(t, err)
	assert.Equal(t, "Not enough stock for product Tea", s.Err())

	// Last confirmed state stands, no overlay left behind.
	_, pending := s.PendingQuantity(item.ID)
	assert.False(t, pending)
	assert.Equal(t, 2, s.Items()[0].Quantity)
	assert.Equal(t, 2, s.DisplayItems()[0].Quantity)
}

func TestOverlayClearedByConfirmingRefetch(t *testing.T) {
	s, srv := setup(t)
	tea := srv.AddProduct(storetest.Product{Name: "Tea", Price: 3.50, Stock: 10})

	ctx := context.Background()
	require.NoError(t, s.Add(ctx, tea, 1))
	item := s.Items()[0]

	require.NoError(t, s.UpdateQuantity(ctx, item.ID, 3))
	_, pending := s.PendingQuantity(item.ID)
	assert.False(t, pending)
	assert.Equal(t, 3, s.Items()[0].Quantity)
}

func TestAddSameProductMergesLines(t *testing.T) {
	s, srv := setup(t)
	tea := srv.AddProduct(storetest.Product{Name: "Tea", Price: 3.50, Stock: 10})

	ctx := context.Background()
	require.NoError(t, s.Add(ctx, tea, 1))
	require.NoError(t, s.Add(ctx, tea, 2))

	require.Len(t, s.Items(), 1)
	assert.Equal(t, 3, s.Items()[0].Quantity)
}

func TestFailedAddLeavesCollection(t *testing.T) {
	s, srv := setup(t)
	tea := srv.AddProduct(storetest.Product{Name: "Tea", Price: 3.50, Stock: 10})

	ctx := context.Background()
	require.NoError(t, s.Add(ctx, tea, 1))
	before := s.Items()

	err := s.Add(ctx, 999, 1)
	require.Error(t, err)
	assert.Equal(t, "Product not found", s.Err())
	assert.Equal(t, before, s.Items())
	assert.False(t, s.Loading())
}
