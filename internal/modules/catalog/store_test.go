package catalog_test

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopclient/internal/api"
	"shopclient/internal/credentials"
	"shopclient/internal/modules/catalog"
	"shopclient/internal/storetest"
)

func setup(t *testing.T, admin bool) (*catalog.Store, *storetest.Server) {
	t.Helper()
	srv := storetest.New()
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)
	srv.AddUser("alice", "alice@shop.test", "secret", admin)
	creds := credentials.NewMemory()
	creds.SetToken(srv.IssueToken("alice"))
	return catalog.NewStore(api.NewClient(ts.URL, creds)), srv
}

func TestFetchAllReplacesCollection(t *testing.T) {
	s, srv := setup(t, false)
	srv.AddProduct(storetest.Product{Name: "Tea", Price: 3.50, Stock: 10})
	srv.AddProduct(storetest.Product{Name: "Teapot", Price: 24, Stock: 2})

	require.NoError(t, s.FetchAll(context.Background()))
	products := s.Products()
	require.Len(t, products, 2)
	assert.Equal(t, "Tea", products[0].Name)
	assert.False(t, s.Loading())
	assert.Empty(t, s.Err())
}

func TestCreateRefetchesServerAssignedIdentity(t *testing.T) {
	s, _ := setup(t, true)

	input := catalog.ProductInput{
		Name: "Tea", Description: "loose leaf", Price: 3.50, Stock: 100,
		CategoryID: 1, SupplierID: 2, SupplyPrice: 1.20, LastSupplyDate: "2026-08-01",
	}
	require.NoError(t, s.Create(context.Background(), input))

	products := s.Products()
	require.Len(t, products, 1)
	assert.NotZero(t, products[0].ID)
	assert.Equal(t, "Tea", products[0].Name)
	assert.False(t, s.Loading())
	assert.Empty(t, s.Err())
}

func TestFailedCreateLeavesCollection(t *testing.T) {
	s, srv := setup(t, false) // not an admin
	srv.AddProduct(storetest.Product{Name: "Tea", Price: 3.50, Stock: 10})

	ctx := context.Background()
	require.NoError(t, s.FetchAll(ctx))
	before := s.Products()

	err := s.Create(ctx, catalog.ProductInput{Name: "Contraband"})
	require.Error(t, err)
	assert.Equal(t, "Not enough permissions", s.Err())
	assert.Equal(t, before, s.Products())
	assert.False(t, s.Loading())
}

func TestFailedUpdateLeavesCollection(t *testing.T) {
	s, srv := setup(t, true)
	srv.AddProduct(storetest.Product{Name: "Tea", Price: 3.50, Stock: 10})

	ctx := context.Background()
	require.NoError(t, s.FetchAll(ctx))
	before := s.Products()

	price := 9.99
	err := s.Update(ctx, 999, catalog.ProductPatch{Price: &price})
	require.Error(t, err)
	assert.Equal(t, "Product not found", s.Err())
	assert.Equal(t, before, s.Products())
}

func TestUpdateReflectsServerComputedState(t *testing.T) {
	s, srv := setup(t, true)
	id := srv.AddProduct(storetest.Product{Name: "Tea", Price: 3.50, Stock: 10})

	ctx := context.Background()
	price := 4.25
	require.NoError(t, s.Update(ctx, id, catalog.ProductPatch{Price: &price}))

	products := s.Products()
	require.Len(t, products, 1)
	assert.InDelta(t, 4.25, products[0].Price, 1e-9)
	assert.Equal(t, "Tea", products[0].Name) // untouched fields survive
}

func TestRemoveRefetches(t *testing.T) {
	s, srv := setup(t, true)
	id := srv.AddProduct(storetest.Product{Name: "Tea", Price: 3.50, Stock: 10})

	ctx := context.Background()
	require.NoError(t, s.Remove(ctx, id))
	assert.Empty(t, s.Products())
	assert.Empty(t, s.Err())
}

func TestTransportFailureUsesFallbackMessage(t *testing.T) {
	srv := storetest.New()
	ts := httptest.NewServer(srv)
	ts.Close() // nothing listening anymore
	s := catalog.NewStore(api.NewClient(ts.URL, nil))

	err := s.FetchAll(context.Background())
	require.Error(t, err)
	assert.Equal(t, "failed to load products", s.Err())
	assert.False(t, s.Loading())
}
