package category

// Category is one node of the storefront taxonomy in its flat server form.
// Lft and Rgt carry the server's nested-set ordering: every descendant's
// interval sits strictly inside its parent's, and siblings are ordered by Lft.
type Category struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	ParentID    *int   `json:"parent_id"`
	Lft         int    `json:"lft"`
	Rgt         int    `json:"rgt"`
}

// CreateRequest is the payload for creating a category. The server assigns
// the id and the nested-set interval.
type CreateRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	ParentID    *int   `json:"parent_id,omitempty"`
}
