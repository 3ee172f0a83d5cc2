package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeDerivesTotalAndItemCount(t *testing.T) {
	snapshot := &CartSnapshot{
		Items: []CartLine{
			{Product: ProductRef{ID: "p1"}, Price: AmountFromInt(100), Quantity: 2},
			{Product: ProductRef{ID: "p2"}, Price: AmountFromInt(50), Quantity: 3},
		},
		Subtotal: AmountFromInt(350),
		Discount: AmountFromInt(0),
	}

	snapshot.Normalize(time.Now())

	assert.Equal(t, 5, snapshot.ItemCount)
	assert.True(t, snapshot.Total.Equal(decimal.NewFromInt(350)))
	assert.False(t, snapshot.LastUpdated.IsZero())
}

func TestNormalizeKeepsPositiveBackendTotal(t *testing.T) {
	snapshot := &CartSnapshot{
		Subtotal: AmountFromInt(500),
		Discount: AmountFromInt(50),
		Total:    AmountFromInt(450),
	}

	snapshot.Normalize(time.Now())

	assert.True(t, snapshot.Total.Equal(decimal.NewFromInt(450)))
}

func TestNormalizeClampsDiscountToSubtotal(t *testing.T) {
	snapshot := &CartSnapshot{
		Subtotal: AmountFromInt(100),
		Discount: AmountFromInt(150),
	}

	snapshot.Normalize(time.Now())

	assert.True(t, snapshot.Discount.Equal(decimal.NewFromInt(100)))
	assert.True(t, snapshot.Total.Equal(decimal.Zero))
	assert.False(t, snapshot.Total.IsNegative())
}

func TestNormalizeCoercesNonNumericAmountsToZero(t *testing.T) {
	var snapshot CartSnapshot
	raw := `{"items":[{"product":"p1","price":"not-a-number","quantity":2}],"subtotal":null,"discount":"oops","total":false}`
	require.NoError(t, json.Unmarshal([]byte(raw), &snapshot))

	snapshot.Normalize(time.Now())

	assert.True(t, snapshot.Subtotal.Equal(decimal.Zero))
	assert.True(t, snapshot.Discount.Equal(decimal.Zero))
	assert.Equal(t, 2, snapshot.ItemCount)
}

func TestProductRefDecodesBareIDAndExpandedObject(t *testing.T) {
	var bare ProductRef
	require.NoError(t, json.Unmarshal([]byte(`"abc123"`), &bare))
	assert.Equal(t, "abc123", bare.ID)
	assert.Nil(t, bare.Product)

	var expanded ProductRef
	require.NoError(t, json.Unmarshal([]byte(`{"id":"abc123","title":"The Go Programming Language","type":"physical"}`), &expanded))
	assert.Equal(t, "abc123", expanded.ID)
	require.NotNil(t, expanded.Product)
	assert.Equal(t, "physical", expanded.Product.Type)
}

func TestCouponRefDecodesStringAndObject(t *testing.T) {
	var fromString CouponRef
	require.NoError(t, json.Unmarshal([]byte(`"SAVE10"`), &fromString))
	assert.Equal(t, "SAVE10", fromString.Code)

	var fromObject CouponRef
	require.NoError(t, json.Unmarshal([]byte(`{"code":"SAVE10","discountType":"percentage"}`), &fromObject))
	assert.Equal(t, "SAVE10", fromObject.Code)
	assert.Equal(t, "percentage", fromObject.DiscountType)
}

func TestLineProductTypeFallsBackToSnapshot(t *testing.T) {
	line := CartLine{
		Product:         ProductRef{ID: "p1"},
		ProductSnapshot: &ProductSnapshot{Title: "Gone Ebook", Type: ProductTypeDigital},
	}

	assert.Equal(t, ProductTypeDigital, line.ProductType())
	assert.False(t, line.IsPhysical())
	assert.Equal(t, "Gone Ebook", line.Title())
}

func TestPhysicalLineCountCountsLinesNotUnits(t *testing.T) {
	snapshot := &CartSnapshot{
		Items: []CartLine{
			{Product: ProductRef{ID: "p1", Product: &Product{ID: "p1", Type: ProductTypePhysical}}, Quantity: 5},
			{Product: ProductRef{ID: "p2", Product: &Product{ID: "p2", Type: ProductTypePhysical}}, Quantity: 1},
			{Product: ProductRef{ID: "p3", Product: &Product{ID: "p3", Type: ProductTypeDigital}}, Quantity: 2},
		},
	}

	assert.Equal(t, 2, snapshot.PhysicalLineCount())
}

func TestItemTotal(t *testing.T) {
	line := CartLine{Price: AmountFromInt(100), Quantity: 3}
	assert.True(t, line.ItemTotal().Equal(decimal.NewFromInt(300)))
}

func TestCloneIsIndependent(t *testing.T) {
	original := &CartSnapshot{
		Items:  []CartLine{{Product: ProductRef{ID: "p1"}, Quantity: 1}},
		Coupon: &CouponRef{Code: "SAVE10"},
	}

	clone := original.Clone()
	clone.Items[0].Quantity = 99
	clone.Coupon.Code = "OTHER"

	assert.Equal(t, 1, original.Items[0].Quantity)
	assert.Equal(t, "SAVE10", original.Coupon.Code)
}

func TestOrderIDExtractionShapes(t *testing.T) {
	cases := map[string]string{
		`{"id":"o1"}`:      "o1",
		`{"_id":"o2"}`:     "o2",
		`{"orderId":"o3"}`: "o3",
		`{"status":"ok"}`:  "",
	}

	for raw, want := range cases {
		var order Order
		require.NoError(t, json.Unmarshal([]byte(raw), &order))
		assert.Equal(t, want, order.ID, "payload %s", raw)
	}
}
