package storetest

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"
)

type ctxKey struct{}

func userFrom(r *http.Request) *User {
	u, _ := r.Context().Value(ctxKey{}).(*User)
	return u
}

// IssueToken mints a bearer token for username using the current TTL.
func (s *Server) IssueToken(username string) string {
	s.mu.Lock()
	ttl := s.tokenTTL
	key := s.jwtKey
	s.mu.Unlock()

	claims := &jwt.StandardClaims{
		Subject:   username,
		IssuedAt:  time.Now().Unix(),
		ExpiresAt: time.Now().Add(ttl).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
	if err != nil {
		panic(err)
	}
	return token
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	s.mu.Lock()
	_, exists := s.users[req.Username]
	s.mu.Unlock()
	if exists {
		fail(w, http.StatusBadRequest, "Username already registered")
		return
	}
	id := s.AddUser(req.Username, req.Email, req.Password, false)
	respond(w, http.StatusOK, userView{ID: id, Username: req.Username, Email: req.Email})
}

func (s *Server) token(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		fail(w, http.StatusBadRequest, "Invalid form data")
		return
	}
	username := r.FormValue("username")
	password := r.FormValue("password")

	s.mu.Lock()
	user, ok := s.users[username]
	s.mu.Unlock()
	if !ok || bcrypt.CompareHashAndPassword(user.passwordHash, []byte(password)) != nil {
		fail(w, http.StatusUnauthorized, "Incorrect username or password")
		return
	}
	respond(w, http.StatusOK, map[string]string{
		"access_token": s.IssueToken(username),
		"token_type":   "bearer",
	})
}

func (s *Server) me(w http.ResponseWriter, r *http.Request) {
	u := userFrom(r)
	respond(w, http.StatusOK, userView{ID: u.ID, Username: u.Username, Email: u.Email, IsAdmin: u.IsAdmin})
}

func (s *Server) requireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		raw, found := strings.CutPrefix(header, "Bearer ")
		if !found {
			fail(w, http.StatusUnauthorized, "Not authenticated")
			return
		}
		s.mu.Lock()
		key := s.jwtKey
		s.mu.Unlock()
		claims := &jwt.StandardClaims{}
		_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
			return key, nil
		})
		if err != nil {
			fail(w, http.StatusUnauthorized, "Could not validate credentials")
			return
		}
		s.mu.Lock()
		user, ok := s.users[claims.Subject]
		s.mu.Unlock()
		if !ok {
			fail(w, http.StatusUnauthorized, "Could not validate credentials")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, user)))
	})
}

func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if u := userFrom(r); u == nil || !u.IsAdmin {
			fail(w, http.StatusForbidden, "Not enough permissions")
			return
		}
		next.ServeHTTP(w, r)
	})
}
