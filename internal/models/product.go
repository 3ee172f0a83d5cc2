package models

import (
	"encoding/json"
	"time"
)

// Product types drive whether shipping applies at checkout.
const (
	ProductTypePhysical = "physical" // printed books
	ProductTypeDigital  = "digital"  // ebooks
)

// Product is the catalog entry as served by the commerce backend.
type Product struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Author      string    `json:"author,omitempty"`
	Description string    `json:"description,omitempty"`
	Price       Amount    `json:"price"`
	Type        string    `json:"type"` // physical, digital
	Thumbnail   string    `json:"thumbnail,omitempty"`
	InStock     bool      `json:"inStock"`
	CreatedAt   time.Time `json:"createdAt,omitempty"`
	UpdatedAt   time.Time `json:"updatedAt,omitempty"`
}

// ProductSnapshot is a frozen copy of display fields captured when an
// item was added to the cart, used when the live product reference is
// unavailable (product removed or not expanded by the backend).
type ProductSnapshot struct {
	Title     string `json:"title"`
	Thumbnail string `json:"thumbnail,omitempty"`
	Type      string `json:"type,omitempty"`
}

// ProductRef is a cart line's product reference. The backend sends it
// either as a bare identifier string or as the expanded product object
// depending on the endpoint and population settings.
type ProductRef struct {
	ID      string
	Product *Product
}

func (r *ProductRef) UnmarshalJSON(data []byte) error {
	var id string
	if err := json.Unmarshal(data, &id); err == nil {
		r.ID = id
		r.Product = nil
		return nil
	}

	var p Product
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	r.Product = &p
	r.ID = p.ID
	return nil
}

func (r ProductRef) MarshalJSON() ([]byte, error) {
	if r.Product != nil {
		return json.Marshal(r.Product)
	}
	return json.Marshal(r.ID)
}
