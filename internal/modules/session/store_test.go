package session_test

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopclient/internal/api"
	"shopclient/internal/credentials"
	"shopclient/internal/modules/session"
	"shopclient/internal/storetest"
)

func setup(t *testing.T) (*session.Store, *storetest.Server, *credentials.Memory) {
	t.Helper()
	srv := storetest.New()
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)
	creds := credentials.NewMemory()
	return session.NewStore(api.NewClient(ts.URL, creds), creds), srv, creds
}

func TestLoginPersistsTokenAndFetchesUser(t *testing.T) {
	s, srv, creds := setup(t)
	srv.AddUser("alice", "alice@shop.test", "secret", true)

	require.NoError(t, s.Login(context.Background(), "alice", "secret"))

	assert.True(t, s.IsAuthenticated())
	assert.NotEmpty(t, creds.Token())
	u := s.User()
	require.NotNil(t, u)
	assert.Equal(t, "alice", u.Username)
	assert.True(t, s.IsAdmin())
	assert.False(t, s.Loading())
	assert.Empty(t, s.Err())

	exp, ok := s.TokenExpiry()
	require.True(t, ok)
	assert.True(t, exp.After(time.Now()))
}

func TestLoginFailureClearsCredential(t *testing.T) {
	s, srv, creds := setup(t)
	srv.AddUser("alice", "alice@shop.test", "secret", false)

	err := s.Login(context.Background(), "alice", "wrong")
	require.Error(t, err)
	assert.Equal(t, "Incorrect username or password", s.Err())
	assert.False(t, s.IsAuthenticated())
	assert.Empty(t, creds.Token())
	assert.Nil(t, s.User())
}

func TestExpiredCredentialFullyClearsSession(t *testing.T) {
	s, srv, creds := setup(t)
	srv.AddUser("alice", "alice@shop.test", "secret", false)

	srv.SetTokenTTL(-time.Minute)
	creds.SetToken(srv.IssueToken("alice"))

	err := s.FetchCurrentUser(context.Background())
	require.Error(t, err)

	assert.Nil(t, s.User())
	assert.False(t, s.IsAuthenticated())
	assert.Empty(t, creds.Token(), "persisted credential must be removed")
	assert.Equal(t, "Could not validate credentials", s.Err())
}

func TestFetchCurrentUserWithoutCredentialIsNoop(t *testing.T) {
	s, srv, _ := setup(t)

	require.NoError(t, s.FetchCurrentUser(context.Background()))
	assert.Nil(t, s.User())
	assert.Zero(t, srv.Requests("GET", "/auth/me"))
}

func TestLogoutIsLocalOnly(t *testing.T) {
	s, srv, creds := setup(t)
	srv.AddUser("alice", "alice@shop.test", "secret", false)
	require.NoError(t, s.Login(context.Background(), "alice", "secret"))

	tokens := srv.Requests("POST", "/auth/token")
	mes := srv.Requests("GET", "/auth/me")

	s.Logout()

	assert.False(t, s.IsAuthenticated())
	assert.Nil(t, s.User())
	assert.Empty(t, creds.Token())
	assert.Equal(t, tokens, srv.Requests("POST", "/auth/token"))
	assert.Equal(t, mes, srv.Requests("GET", "/auth/me"))
}

func TestRegisterThenLogin(t *testing.T) {
	s, _, _ := setup(t)
	ctx := context.Background()

	require.NoError(t, s.Register(ctx, "bob@shop.test", "bob", "hunter2"))
	assert.Nil(t, s.User(), "register does not sign in")

	require.NoError(t, s.Login(ctx, "bob", "hunter2"))
	require.NotNil(t, s.User())
	assert.Equal(t, "bob@shop.test", s.User().Email)
	assert.False(t, s.IsAdmin())
}

func TestRegisterDuplicateUsername(t *testing.T) {
	s, srv, _ := setup(t)
	srv.AddUser("bob", "bob@shop.test", "hunter2", false)

	err := s.Register(context.Background(), "other@shop.test", "bob", "hunter2")
	require.Error(t, err)
	assert.Equal(t, "Username already registered", s.Err())
}

func TestTokenExpiryWithoutCredential(t *testing.T) {
	s, _, _ := setup(t)
	_, ok := s.TokenExpiry()
	assert.False(t, ok)
}
