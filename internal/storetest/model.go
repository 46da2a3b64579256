package storetest

import "time"

// User is a registered account on the fake storefront.
type User struct {
	ID           int
	Username     string
	Email        string
	IsAdmin      bool
	passwordHash []byte
}

// Category is the server-side category record with its nested-set interval.
type Category struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	ParentID    *int   `json:"parent_id"`
	Lft         int    `json:"lft"`
	Rgt         int    `json:"rgt"`
}

// Product is the server-side product record.
type Product struct {
	ID             int     `json:"id"`
	Name           string  `json:"name"`
	Description    string  `json:"description"`
	Price          float64 `json:"price"`
	Stock          int     `json:"stock"`
	CategoryID     int     `json:"category_id"`
	SupplierID     int     `json:"supplier_id"`
	SupplyPrice    float64 `json:"supply_price"`
	LastSupplyDate string  `json:"last_supply_date"`
}

type cartLine struct {
	ID        int
	UserID    int
	ProductID int
	Quantity  int
}

type cartItemView struct {
	ID       int             `json:"id"`
	Product  cartProductView `json:"product"`
	Quantity int             `json:"quantity"`
}

type cartProductView struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}

// Order is a placed order with price_at_time snapshots taken at creation.
type Order struct {
	ID              int         `json:"id"`
	UserID          int         `json:"-"`
	Status          string      `json:"status"`
	TotalAmount     float64     `json:"total_amount"`
	ShippingAddress string      `json:"shipping_address"`
	CreatedAt       time.Time   `json:"created_at"`
	Products        []OrderLine `json:"products"`
}

// OrderLine is one product within an order.
type OrderLine struct {
	ProductID   int     `json:"product_id"`
	Quantity    int     `json:"quantity"`
	PriceAtTime float64 `json:"price_at_time"`
	Name        string  `json:"name"`
}

type userView struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	IsAdmin  bool   `json:"is_admin"`
}
