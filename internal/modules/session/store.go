// Package session owns the authenticated-user state and the lifecycle of the
// persisted bearer credential.
package session

import (
	"context"
	"net/url"
	"sync"
	"time"

	"github.com/dgrijalva/jwt-go"

	"shopclient/internal/api"
	"shopclient/internal/credentials"
)

// Store holds the current user and credential. A credential that the server
// rejects is cleared immediately and never retried.
type Store struct {
	gw    *api.Client
	creds credentials.Store

	mu      sync.Mutex
	user    *User
	loading bool
	err     string
	subs    map[int]func()
	nextSub int
}

func NewStore(gw *api.Client, creds credentials.Store) *Store {
	return &Store{gw: gw, creds: creds, subs: make(map[int]func())}
}

// IsAuthenticated reports whether a credential is currently held.
func (s *Store) IsAuthenticated() bool { return s.creds.Token() != "" }

// User returns the current profile, nil when signed out or not yet fetched.
func (s *Store) User() *User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// IsAdmin reports whether the fetched profile has admin rights.
func (s *Store) IsAdmin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user != nil && s.user.IsAdmin
}

func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *Store) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Subscribe registers fn to run after each committed state transition.
func (s *Store) Subscribe(fn func()) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// Login exchanges credentials for a bearer token, persists it, then fetches
// the profile. On failure the credential is cleared along with the session.
func (s *Store) Login(ctx context.Context, username, password string) error {
	s.begin()
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)
	var tok tokenResponse
	if err := s.gw.PostForm(ctx, "/auth/token", form, &tok); err != nil {
		s.creds.Clear()
		s.fail(api.Detail(err, "failed to sign in"))
		return err
	}
	if err := s.creds.SetToken(tok.AccessToken); err != nil {
		s.fail("failed to persist credential")
		return err
	}
	return s.FetchCurrentUser(ctx)
}

// Register creates an account. It does not sign the new user in.
func (s *Store) Register(ctx context.Context, email, username, password string) error {
	s.begin()
	req := registerRequest{Email: email, Username: username, Password: password}
	if err := s.gw.Post(ctx, "/auth/register", req, nil); err != nil {
		s.fail(api.Detail(err, "failed to register"))
		return err
	}
	s.commit(nil, true)
	return nil
}

// FetchCurrentUser loads the profile for the stored credential. Any failure
// fully clears the session, including the persisted credential, so a stale
// token is never silently retried. Without a credential it is a no-op.
func (s *Store) FetchCurrentUser(ctx context.Context) error {
	if s.creds.Token() == "" {
		return nil
	}
	s.begin()
	var user User
	if err := s.gw.Get(ctx, "/auth/me", &user); err != nil {
		s.creds.Clear()
		s.clearUser()
		s.fail(api.Detail(err, "session expired"))
		return err
	}
	s.commit(&user, false)
	return nil
}

// Logout clears the session locally. No network call is made.
func (s *Store) Logout() {
	s.creds.Clear()
	s.mu.Lock()
	s.user = nil
	s.err = ""
	s.loading = false
	s.mu.Unlock()
	s.notify()
}

// TokenExpiry reports the stored credential's expiry without verifying its
// signature; the server remains the authority on validity. The second return
// is false when no credential or no expiry claim is present.
func (s *Store) TokenExpiry() (time.Time, bool) {
	token := s.creds.Token()
	if token == "" {
		return time.Time{}, false
	}
	claims := &jwt.StandardClaims{}
	if _, _, err := new(jwt.Parser).ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == 0 {
		return time.Time{}, false
	}
	return time.Unix(claims.ExpiresAt, 0), true
}

func (s *Store) begin() {
	s.mu.Lock()
	s.loading = true
	s.err = ""
	s.mu.Unlock()
	s.notify()
}

func (s *Store) fail(msg string) {
	s.mu.Lock()
	s.err = msg
	s.loading = false
	s.mu.Unlock()
	s.notify()
}

// commit clears loading and, unless keepUser is set, replaces the profile.
func (s *Store) commit(user *User, keepUser bool) {
	s.mu.Lock()
	if !keepUser {
		s.user = user
	}
	s.loading = false
	s.err = ""
	s.mu.Unlock()
	s.notify()
}

func (s *Store) clearUser() {
	s.mu.Lock()
	s.user = nil
	s.mu.Unlock()
}

func (s *Store) notify() {
	s.mu.Lock()
	fns := make([]func(), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}
