package storetest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
)

func urlID(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	return id, err == nil
}

// ── Categories ───────────────────────────────────────────────────────────────

func (s *Server) listCategories(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	out := make([]*Category, 0, len(s.categories))
	for _, c := range s.categories {
		out = append(out, c)
	}
	s.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Lft < out[j].Lft })
	respond(w, http.StatusOK, out)
}

func (s *Server) createCategory(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		ParentID    *int   `json:"parent_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name == "" {
		fail(w, http.StatusBadRequest, "Category name is required")
		return
	}
	s.mu.Lock()
	if req.ParentID != nil {
		if _, ok := s.categories[*req.ParentID]; !ok {
			s.mu.Unlock()
			fail(w, http.StatusBadRequest, "Parent category not found")
			return
		}
	}
	cat := s.insertCategoryLocked(req.Name, req.Description, req.ParentID)
	s.mu.Unlock()
	respond(w, http.StatusOK, cat)
}

func (s *Server) deleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	s.mu.Lock()
	_, exists := s.categories[id]
	if exists {
		delete(s.categories, id)
	}
	s.mu.Unlock()
	if !ok || !exists {
		fail(w, http.StatusNotFound, "Category not found")
		return
	}
	respond(w, http.StatusNoContent, nil)
}

// ── Products ─────────────────────────────────────────────────────────────────

func (s *Server) listProducts(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	out := make([]*Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, p)
	}
	s.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	respond(w, http.StatusOK, out)
}

func (s *Server) createProduct(w http.ResponseWriter, r *http.Request) {
	var p Product
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if p.Name == "" {
		fail(w, http.StatusBadRequest, "Product name is required")
		return
	}
	id := s.AddProduct(p)
	s.mu.Lock()
	created := *s.products[id]
	s.mu.Unlock()
	respond(w, http.StatusOK, created)
}

func (s *Server) updateProduct(w http.ResponseWriter, r *http.Request) {
	var patch struct {
		Name           *string  `json:"name"`
		Description    *string  `json:"description"`
		Price          *float64 `json:"price"`
		Stock          *int     `json:"stock"`
		CategoryID     *int     `json:"category_id"`
		SupplierID     *int     `json:"supplier_id"`
		SupplyPrice    *float64 `json:"supply_price"`
		LastSupplyDate *string  `json:"last_supply_date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	id, _ := urlID(r)
	s.mu.Lock()
	p, ok := s.products[id]
	if !ok {
		s.mu.Unlock()
		fail(w, http.StatusNotFound, "Product not found")
		return
	}
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.Stock != nil {
		p.Stock = *patch.Stock
	}
	if patch.CategoryID != nil {
		p.CategoryID = *patch.CategoryID
	}
	if patch.SupplierID != nil {
		p.SupplierID = *patch.SupplierID
	}
	if patch.SupplyPrice != nil {
		p.SupplyPrice = *patch.SupplyPrice
	}
	if patch.LastSupplyDate != nil {
		p.LastSupplyDate = *patch.LastSupplyDate
	}
	updated := *p
	s.mu.Unlock()
	respond(w, http.StatusOK, updated)
}

func (s *Server) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, _ := urlID(r)
	s.mu.Lock()
	_, exists := s.products[id]
	delete(s.products, id)
	s.mu.Unlock()
	if !exists {
		fail(w, http.StatusNotFound, "Product not found")
		return
	}
	respond(w, http.StatusNoContent, nil)
}

// ── Cart ─────────────────────────────────────────────────────────────────────

func (s *Server) cartViewLocked(userID int) []cartItemView {
	out := []cartItemView{}
	for _, line := range s.cartLines {
		if line.UserID != userID {
			continue
		}
		p := s.products[line.ProductID]
		if p == nil {
			continue
		}
		out = append(out, cartItemView{
			ID: line.ID,
			Product: cartProductView{
				ID:          p.ID,
				Name:        p.Name,
				Description: p.Description,
				Price:       p.Price,
			},
			Quantity: line.Quantity,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Server) listCart(w http.ResponseWriter, r *http.Request) {
	u := userFrom(r)
	s.mu.Lock()
	view := s.cartViewLocked(u.ID)
	s.mu.Unlock()
	respond(w, http.StatusOK, view)
}

func (s *Server) addToCart(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID int `json:"product_id"`
		Quantity  int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	u := userFrom(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[req.ProductID]
	if !ok {
		fail(w, http.StatusBadRequest, "Product not found")
		return
	}
	if p.Stock < req.Quantity {
		fail(w, http.StatusBadRequest, fmt.Sprintf("Not enough stock for product %s", p.Name))
		return
	}
	// Same product already in the cart merges into one line.
	for _, line := range s.cartLines {
		if line.UserID == u.ID && line.ProductID == req.ProductID {
			line.Quantity += req.Quantity
			respond(w, http.StatusOK, s.cartViewLocked(u.ID))
			return
		}
	}
	s.nextLine++
	s.cartLines[s.nextLine] = &cartLine{
		ID:        s.nextLine,
		UserID:    u.ID,
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
	}
	respond(w, http.StatusOK, s.cartViewLocked(u.ID))
}

func (s *Server) updateCartItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	id, _ := urlID(r)
	u := userFrom(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	line, ok := s.cartLines[id]
	if !ok || line.UserID != u.ID {
		fail(w, http.StatusNotFound, "Cart item not found")
		return
	}
	p := s.products[line.ProductID]
	if p != nil && p.Stock < req.Quantity {
		fail(w, http.StatusBadRequest, fmt.Sprintf("Not enough stock for product %s", p.Name))
		return
	}
	line.Quantity = req.Quantity
	respond(w, http.StatusOK, s.cartViewLocked(u.ID))
}

func (s *Server) removeCartItem(w http.ResponseWriter, r *http.Request) {
	id, _ := urlID(r)
	u := userFrom(r)
	s.mu.Lock()
	line, ok := s.cartLines[id]
	owned := ok && line.UserID == u.ID
	if owned {
		delete(s.cartLines, id)
	}
	s.mu.Unlock()
	if !owned {
		fail(w, http.StatusNotFound, "Cart item not found")
		return
	}
	respond(w, http.StatusNoContent, nil)
}

// ── Orders ───────────────────────────────────────────────────────────────────

var orderStatuses = map[string]bool{
	"pending":    true,
	"processing": true,
	"shipped":    true,
	"delivered":  true,
	"cancelled":  true,
}

func (s *Server) listOrders(w http.ResponseWriter, r *http.Request) {
	u := userFrom(r)
	s.mu.Lock()
	out := []*Order{}
	for _, o := range s.orders {
		if o.UserID == u.ID {
			out = append(out, o)
		}
	}
	s.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	respond(w, http.StatusOK, out)
}

func (s *Server) createOrder(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ShippingAddress string `json:"shipping_address"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	u := userFrom(r)
	s.mu.Lock()
	defer s.mu.Unlock()

	var lines []*cartLine
	for _, line := range s.cartLines {
		if line.UserID == u.ID {
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		fail(w, http.StatusBadRequest, "Cart is empty")
		return
	}

	var total float64
	for _, line := range lines {
		p, ok := s.products[line.ProductID]
		if !ok {
			fail(w, http.StatusNotFound, fmt.Sprintf("Product %d not found", line.ProductID))
			return
		}
		if p.Stock < line.Quantity {
			fail(w, http.StatusBadRequest, fmt.Sprintf("Not enough stock for product %s", p.Name))
			return
		}
		total += p.Price * float64(line.Quantity)
	}

	sort.Slice(lines, func(i, j int) bool { return lines[i].ID < lines[j].ID })
	s.nextOrder++
	o := &Order{
		ID:              s.nextOrder,
		UserID:          u.ID,
		Status:          "pending",
		TotalAmount:     total,
		ShippingAddress: req.ShippingAddress,
		CreatedAt:       time.Now().UTC(),
	}
	for _, line := range lines {
		p := s.products[line.ProductID]
		o.Products = append(o.Products, OrderLine{
			ProductID:   p.ID,
			Quantity:    line.Quantity,
			PriceAtTime: p.Price,
			Name:        p.Name,
		})
		p.Stock -= line.Quantity
		delete(s.cartLines, line.ID)
	}
	s.orders[o.ID] = o
	respond(w, http.StatusOK, o)
}

func (s *Server) updateOrder(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status *string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	id, _ := urlID(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		fail(w, http.StatusNotFound, "Order not found")
		return
	}
	if req.Status != nil {
		if !orderStatuses[*req.Status] {
			fail(w, http.StatusBadRequest, "Invalid order status")
			return
		}
		o.Status = *req.Status
	}
	respond(w, http.StatusOK, o)
}
