package catalog

// Product is a catalog entry as served by the storefront API.
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

// ProductInput is the payload for creating a product; the server assigns the
// identity, never the client.
type ProductInput struct {
	Name           string  `json:"name"`
	Description    string  `json:"description"`
	Price          float64 `json:"price"`
	Stock          int     `json:"stock"`
	CategoryID     int     `json:"category_id"`
	SupplierID     int     `json:"supplier_id"`
	SupplyPrice    float64 `json:"supply_price"`
	LastSupplyDate string  `json:"last_supply_date"`
}

// ProductPatch is a partial update; nil fields are left untouched by the
// server.
type ProductPatch struct {
	Name           *string  `json:"name,omitempty"`
	Description    *string  `json:"description,omitempty"`
	Price          *float64 `json:"price,omitempty"`
	Stock          *int     `json:"stock,omitempty"`
	CategoryID     *int     `json:"category_id,omitempty"`
	SupplierID     *int     `json:"supplier_id,omitempty"`
	SupplyPrice    *float64 `json:"supply_price,omitempty"`
	LastSupplyDate *string  `json:"last_supply_date,omitempty"`
}
