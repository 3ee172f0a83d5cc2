package models

import (
	"encoding/json"
	"time"
)

// Order is the order record as served by the commerce backend.
type Order struct {
	ID              string           `json:"id"`
	Items           []OrderItem      `json:"items"`
	Subtotal        Amount           `json:"subtotal"`
	Discount        Amount           `json:"discount"`
	Shipping        Amount           `json:"shipping"`
	Total           Amount           `json:"total"`
	Status          string           `json:"status"` // pending, paid, shipped, delivered, cancelled
	PaymentMethod   string           `json:"paymentMethod"`
	Notes           string           `json:"notes,omitempty"`
	ShippingAddress *ShippingAddress `json:"shippingAddress,omitempty"`
	CreatedAt       time.Time        `json:"createdAt,omitempty"`
}

// UnmarshalJSON tolerates the backend's inconsistent identifier field.
// Depending on the endpoint the order id arrives as "id", "_id" or
// "orderId"; the first non-empty one wins.
func (o *Order) UnmarshalJSON(data []byte) error {
	type alias Order
	var obj alias
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*o = Order(obj)

	if o.ID == "" {
		var ids struct {
			MongoID string `json:"_id"`
			OrderID string `json:"orderId"`
		}
		if err := json.Unmarshal(data, &ids); err == nil {
			if ids.MongoID != "" {
				o.ID = ids.MongoID
			} else if ids.OrderID != "" {
				o.ID = ids.OrderID
			}
		}
	}
	return nil
}

type OrderItem struct {
	Product  ProductRef `json:"product"`
	Quantity int        `json:"quantity"`
	Price    Amount     `json:"price"`
}

// ShippingAddress is required on orders containing physical items and
// must be absent entirely on digital-only orders.
type ShippingAddress struct {
	FullName   string `json:"fullName"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
	Phone      string `json:"phone,omitempty"`
}
