// Package storetest implements an in-memory storefront API for exercising
// the client against realistic server behaviour: bearer auth, nested-set
// category intervals, server-computed order totals and structured {detail}
// failures.
package storetest

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"
)

// Server is the fake storefront. Wrap it in httptest.NewServer and point the
// gateway at its URL.
type Server struct {
	mu sync.Mutex

	jwtKey   []byte
	tokenTTL time.Duration

	users        map[string]*User
	nextUserID   int
	categories   map[int]*Category
	nextCategory int
	products     map[int]*Product
	nextProduct  int
	cartLines    map[int]*cartLine
	nextLine     int
	orders       map[int]*Order
	nextOrder    int

	requests map[string]int

	router *chi.Mux
}

func New() *Server {
	s := &Server{
		jwtKey:     []byte("storetest-signing-key"),
		tokenTTL:   time.Hour,
		users:      make(map[string]*User),
		categories: make(map[int]*Category),
		products:   make(map[int]*Product),
		cartLines:  make(map[int]*cartLine),
		orders:     make(map[int]*Order),
		requests:   make(map[string]int),
	}

	r := chi.NewRouter()
	r.Use(s.countRequests)

	r.Post("/auth/register", s.register)
	r.Post("/auth/token", s.token)
	r.Get("/categories", s.listCategories)
	r.Get("/products", s.listProducts)

	r.Group(func(r chi.Router) {
		r.Use(s.requireUser)
		r.Get("/auth/me", s.me)
		r.Get("/cart", s.listCart)
		r.Post("/cart", s.addToCart)
		r.Put("/cart/{id}", s.updateCartItem)
		r.Delete("/cart/{id}", s.removeCartItem)
		r.Get("/orders", s.listOrders)
		r.Post("/orders", s.createOrder)
	})

	r.Group(func(r chi.Router) {
		r.Use(s.requireUser, s.requireAdmin)
		r.Post("/categories", s.createCategory)
		r.Delete("/categories/{id}", s.deleteCategory)
		r.Post("/products", s.createProduct)
		r.Put("/products/{id}", s.updateProduct)
		r.Delete("/products/{id}", s.deleteProduct)
		r.Put("/orders/{id}", s.updateOrder)
	})

	s.router = r
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// SetTokenTTL changes the lifetime of tokens issued from now on. A negative
// TTL mints already-expired tokens, handy for stale-credential tests.
func (s *Server) SetTokenTTL(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokenTTL = d
}

// Requests reports how many requests hit method+path, e.g. ("PUT", "/cart/3").
func (s *Server) Requests(method, path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests[method+" "+path]
}

// AddUser registers an account directly and returns its id.
func (s *Server) AddUser(username, email, password string, admin bool) int {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextUserID++
	s.users[username] = &User{
		ID:           s.nextUserID,
		Username:     username,
		Email:        email,
		IsAdmin:      admin,
		passwordHash: hash,
	}
	return s.nextUserID
}

// AddCategory inserts a category directly, assigning its nested-set interval,
// and returns its id. An unknown parent makes it a root.
func (s *Server) AddCategory(name, description string, parentID *int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insertCategoryLocked(name, description, parentID).ID
}

// AddProduct inserts a product directly and returns its id. The given id is
// ignored; the server assigns identities.
func (s *Server) AddProduct(p Product) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextProduct++
	p.ID = s.nextProduct
	s.products[p.ID] = &p
	return p.ID
}

// ProductStock reports the remaining stock for a product.
func (s *Server) ProductStock(id int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.products[id]; ok {
		return p.Stock
	}
	return 0
}

// insertCategoryLocked appends the new node at the tail of its parent's
// interval, shifting every interval boundary at or past the insertion point.
func (s *Server) insertCategoryLocked(name, description string, parentID *int) *Category {
	lft := 1
	if parentID != nil {
		parent, ok := s.categories[*parentID]
		if !ok {
			parentID = nil
		} else {
			lft = parent.Rgt
		}
	}
	if parentID == nil {
		for _, c := range s.categories {
			if c.Rgt >= lft {
				lft = c.Rgt + 1
			}
		}
	}
	for _, c := range s.categories {
		if c.Lft >= lft {
			c.Lft += 2
		}
		if c.Rgt >= lft {
			c.Rgt += 2
		}
	}
	s.nextCategory++
	cat := &Category{
		ID:          s.nextCategory,
		Name:        name,
		Description: description,
		ParentID:    parentID,
		Lft:         lft,
		Rgt:         lft + 1,
	}
	s.categories[cat.ID] = cat
	return cat
}

func (s *Server) countRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests[r.Method+" "+r.URL.Path]++
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func respond(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if v != nil {
		json.NewEncoder(w).Encode(v)
	}
}

func fail(w http.ResponseWriter, code int, detail string) {
	respond(w, code, map[string]string{"detail": detail})
}
