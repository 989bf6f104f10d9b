package cart

import (
	"testing"
	"time"

	"github.com/scantagcandles/oremus-1/pricing"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func line(id, price string, qty int) pricing.LineItem {
	return pricing.LineItem{ID: id, Name: "Świeca " + id, UnitPrice: money(price), Quantity: qty, Size: pricing.SizeSmall}
}

func TestSnapshot_AddItemMergesLines(t *testing.T) {
	s, err := Snapshot{}.AddItem(line("1", "29.99", 1))
	require.NoError(t, err)
	s, err = s.AddItem(line("1", "29.99", 2))
	require.NoError(t, err)
	s, err = s.AddItem(line("2", "49.99", 1))
	require.NoError(t, err)

	require.Len(t, s.Items, 2)
	assert.Equal(t, 3, s.Items[0].Quantity)
	assert.Equal(t, 4, s.ItemCount())
}

func TestSnapshot_AddItemRejectsMalformedLines(t *testing.T) {
	_, err := Snapshot{}.AddItem(line("1", "-1", 1))
	assert.ErrorIs(t, err, pricing.ErrInvalidLineItem)

	_, err = Snapshot{}.AddItem(line("1", "1", 0))
	assert.ErrorIs(t, err, pricing.ErrInvalidLineItem)

	_, err = Snapshot{}.AddItem(line("1", "1", pricing.MaxQuantity+1))
	assert.ErrorIs(t, err, pricing.ErrInvalidLineItem)
}

func TestSnapshot_AddItemCapsMergedQuantity(t *testing.T) {
	s, err := Snapshot{}.AddItem(line("1", "29.99", pricing.MaxQuantity))
	require.NoError(t, err)

	next, err := s.AddItem(line("1", "29.99", 1))
	assert.ErrorIs(t, err, ErrInvalidQuantity)
	assert.Equal(t, pricing.MaxQuantity, next.Items[0].Quantity)
	assert.Equal(t, pricing.MaxQuantity, s.Items[0].Quantity)
	assert.False(t, s.Evaluate(time.Now()).Subtotal.IsNegative())
}

func TestSnapshot_MutatorsDoNotTouchReceiver(t *testing.T) {
	original := Snapshot{Items: []pricing.LineItem{line("1", "29.99", 1)}}

	updated, err := original.SetQuantity("1", 5)
	require.NoError(t, err)
	removed, err := original.RemoveItem("1")
	require.NoError(t, err)

	assert.Equal(t, 1, original.Items[0].Quantity)
	assert.Equal(t, 5, updated.Items[0].Quantity)
	assert.True(t, removed.IsEmpty())
	assert.Len(t, original.Items, 1)
}

func TestSnapshot_SetQuantity(t *testing.T) {
	s := Snapshot{Items: []pricing.LineItem{line("1", "29.99", 2)}}

	_, err := s.SetQuantity("1", 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = s.SetQuantity("1", pricing.MaxQuantity+1)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	capped, err := s.SetQuantity("1", pricing.MaxQuantity)
	require.NoError(t, err)
	assert.Equal(t, pricing.MaxQuantity, capped.ItemCount())

	_, err = s.SetQuantity("missing", 2)
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestSnapshot_SelectShippingValidates(t *testing.T) {
	_, err := Snapshot{}.SelectShipping(pricing.ShippingMethod{ID: "1", Price: money("-1")})
	assert.ErrorIs(t, err, ErrInvalidShipping)

	s, err := Snapshot{}.SelectShipping(pricing.ShippingMethod{ID: "1", Price: money("15")})
	require.NoError(t, err)
	assert.Equal(t, "1", s.Shipping.ID)
}

func TestSnapshot_ApplyDiscountReplacesPrevious(t *testing.T) {
	s := Snapshot{}.
		ApplyDiscount(pricing.DiscountCode{Code: "A", Discount: pricing.FixedAmount{Value: money("5")}}).
		ApplyDiscount(pricing.DiscountCode{Code: "B", Discount: pricing.FixedAmount{Value: money("7")}})
	assert.Equal(t, "B", s.Discount.Code)
	assert.Nil(t, s.ClearDiscount().Discount)
}

func TestSnapshot_RemovingLastItemBlocksCheckout(t *testing.T) {
	s := Snapshot{Items: []pricing.LineItem{line("1", "29.99", 1)}}
	s, err := s.RemoveItem("1")
	require.NoError(t, err)

	assert.True(t, s.IsEmpty())
	assert.True(t, s.Evaluate(time.Now()).Subtotal.IsZero())

	_, err = s.Checkout("ref", time.Now())
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestSnapshot_Checkout(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	s := Snapshot{
		Items:    []pricing.LineItem{line("1", "29.99", 2)},
		Shipping: &pricing.ShippingMethod{ID: "1", Name: "Kurier DPD", Price: money("15")},
		Discount: &pricing.DiscountCode{Code: "FIFTY", Discount: pricing.FixedAmount{Value: money("50")}},
	}

	bundle, err := s.Checkout("ref-1", now)
	require.NoError(t, err)
	assert.Equal(t, "ref-1", bundle.Reference)
	assert.True(t, money("59.98").Equal(bundle.Subtotal))
	assert.True(t, money("50").Equal(bundle.DiscountAmount))
	assert.True(t, money("15").Equal(bundle.ShippingPrice))
	assert.True(t, money("24.98").Equal(bundle.Total))
	assert.Equal(t, "FIFTY", bundle.Discount.Code)
	assert.Equal(t, now, bundle.CreatedAt)
}
