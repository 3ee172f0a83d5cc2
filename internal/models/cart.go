package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// CartSnapshot is the complete, backend-authoritative representation of
// a user's cart at a point in time. Every successful cart mutation
// replaces the previous snapshot wholesale; nothing is patched locally.
type CartSnapshot struct {
	Items       []CartLine `json:"items"`
	Subtotal    Amount     `json:"subtotal"`
	Discount    Amount     `json:"discount"`
	Total       Amount     `json:"total"`
	Coupon      *CouponRef `json:"coupon,omitempty"`
	ItemCount   int        `json:"itemCount"`
	LastUpdated time.Time  `json:"lastUpdated,omitempty"`
}

// CartLine is one product-quantity-price entry within a cart. Price is
// the unit price in effect when the item was added, not necessarily the
// live catalog price.
type CartLine struct {
	Product         ProductRef       `json:"product"`
	ProductSnapshot *ProductSnapshot `json:"productSnapshot,omitempty"`
	Price           Amount           `json:"price"`
	Quantity        int              `json:"quantity"`
}

// ItemTotal is the line's extended price. Derived, never stored.
func (l CartLine) ItemTotal() Amount {
	return NewAmount(l.Price.Mul(decimal.NewFromInt(int64(l.Quantity))))
}

func (l CartLine) ProductID() string {
	return l.Product.ID
}

// ProductType resolves the product classification from the expanded
// product when present, falling back to the add-time snapshot.
func (l CartLine) ProductType() string {
	if l.Product.Product != nil && l.Product.Product.Type != "" {
		return l.Product.Product.Type
	}
	if l.ProductSnapshot != nil {
		return l.ProductSnapshot.Type
	}
	return ""
}

func (l CartLine) IsPhysical() bool {
	return l.ProductType() == ProductTypePhysical
}

// Title resolves the display name the same way ProductType does.
func (l CartLine) Title() string {
	if l.Product.Product != nil && l.Product.Product.Title != "" {
		return l.Product.Product.Title
	}
	if l.ProductSnapshot != nil {
		return l.ProductSnapshot.Title
	}
	return ""
}

// LineFor returns the line holding productID, or nil.
func (s *CartSnapshot) LineFor(productID string) *CartLine {
	for i := range s.Items {
		if s.Items[i].ProductID() == productID {
			return &s.Items[i]
		}
	}
	return nil
}

// PhysicalLineCount is the number of lines whose product requires
// shipping. Counts lines, not units.
func (s *CartSnapshot) PhysicalLineCount() int {
	n := 0
	for i := range s.Items {
		if s.Items[i].IsPhysical() {
			n++
		}
	}
	return n
}

// Normalize recomputes every derived field from the raw backend
// payload. It is the single place this happens; all cart operations
// run their response through it identically.
//
// Rules: discount is clamped into [0, subtotal]; total keeps the
// backend's value when it is positive and otherwise derives as
// subtotal minus discount; itemCount is the sum of line quantities;
// lastUpdated falls back to the local application time when the
// backend sent none.
func (s *CartSnapshot) Normalize(now time.Time) {
	if s.Discount.IsNegative() {
		s.Discount = NewAmount(decimal.Zero)
	}
	if s.Discount.GreaterThan(s.Subtotal.Decimal) {
		s.Discount = s.Subtotal
	}
	if !s.Total.IsPositive() {
		s.Total = NewAmount(s.Subtotal.Sub(s.Discount.Decimal))
	}
	if s.Total.IsNegative() {
		s.Total = NewAmount(decimal.Zero)
	}

	count := 0
	for i := range s.Items {
		count += s.Items[i].Quantity
	}
	s.ItemCount = count

	if s.LastUpdated.IsZero() {
		s.LastUpdated = now
	}
}

// Clone returns an independent copy safe to hand out while the
// original keeps being replaced.
func (s *CartSnapshot) Clone() *CartSnapshot {
	if s == nil {
		return nil
	}
	out := *s
	out.Items = make([]CartLine, len(s.Items))
	copy(out.Items, s.Items)
	if s.Coupon != nil {
		coupon := *s.Coupon
		out.Coupon = &coupon
	}
	return &out
}

// CouponRef is the coupon applied to a cart. The backend represents it
// either as the bare code string or as an object carrying at least a
// code field; both decode uniformly.
type CouponRef struct {
	Code          string  `json:"code"`
	Description   string  `json:"description,omitempty"`
	DiscountType  string  `json:"discountType,omitempty"` // percentage, fixed
	DiscountValue *Amount `json:"discountValue,omitempty"`
}

func (c *CouponRef) UnmarshalJSON(data []byte) error {
	var code string
	if err := json.Unmarshal(data, &code); err == nil {
		*c = CouponRef{Code: code}
		return nil
	}

	type alias CouponRef
	var obj alias
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*c = CouponRef(obj)
	return nil
}
