// Package pricing derives cart totals from line items, the selected
// shipping method and an optional discount code. Every function here is
// pure: same inputs, same outputs, no I/O.
package pricing

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Size is an informational product size tag.
type Size string

const (
	SizeSmall  Size = "small"
	SizeMedium Size = "medium"
	SizeLarge  Size = "large"
)

var ErrInvalidLineItem = errors.New("invalid line item")

// MaxQuantity caps the units of a single cart line.
const MaxQuantity = 999

// LineItem is one product line in a cart.
type LineItem struct {
	ID            string          `json:"id"`
	Name          string          `json:"name,omitempty"`
	UnitPrice     decimal.Decimal `json:"price"`
	Quantity      int             `json:"quantity"`
	Size          Size            `json:"size,omitempty"`
	DurationHours int             `json:"duration_hours,omitempty"`
}

// Validate rejects lines that must never reach the pricing functions.
func (li LineItem) Validate() error {
	switch {
	case li.ID == "":
		return fmt.Errorf("%w: missing id", ErrInvalidLineItem)
	case li.UnitPrice.IsNegative():
		return fmt.Errorf("%w: negative price", ErrInvalidLineItem)
	case li.Quantity < 1:
		return fmt.Errorf("%w: quantity below 1", ErrInvalidLineItem)
	case li.Quantity > MaxQuantity:
		return fmt.Errorf("%w: quantity above %d", ErrInvalidLineItem, MaxQuantity)
	}
	return nil
}

// Total is unit price times quantity.
func (li LineItem) Total() decimal.Decimal {
	return li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// ShippingMethod is a flat-price delivery option, optionally free above a
// threshold.
type ShippingMethod struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	Description   string           `json:"description,omitempty"`
	Price         decimal.Decimal  `json:"price"`
	FreeFrom      *decimal.Decimal `json:"free_from,omitempty"`
	EstimatedDays string           `json:"estimated_days,omitempty"`
}

// Totals is derived on every evaluation and never stored.
type Totals struct {
	Subtotal       decimal.Decimal `json:"subtotal"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	ShippingPrice  decimal.Decimal `json:"shipping_price"`
	GrandTotal     decimal.Decimal `json:"total"`
}

// ComputeSubtotal sums price times quantity over all items.
func ComputeSubtotal(items []LineItem) decimal.Decimal {
	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(item.Total())
	}
	return sum
}

// ValidateDiscount checks code against the subtotal and the clock. The
// checks run in a fixed order so the first failing rule is the one
// reported. Non-positive usage limits and minimums are treated as unset.
func ValidateDiscount(code *DiscountCode, subtotal decimal.Decimal, now time.Time) (*DiscountCode, error) {
	if code == nil || code.Discount == nil {
		return nil, ErrInvalidCode
	}
	if code.ValidFrom != nil && now.Before(*code.ValidFrom) {
		return nil, ErrNotYetValid
	}
	if code.ValidUntil != nil && now.After(*code.ValidUntil) {
		return nil, ErrExpired
	}
	if code.UsageLimit != nil && *code.UsageLimit > 0 && code.UsedCount >= *code.UsageLimit {
		return nil, ErrUsageLimitReached
	}
	if code.MinOrderAmount != nil && code.MinOrderAmount.IsPositive() && subtotal.LessThan(*code.MinOrderAmount) {
		return nil, ErrBelowMinimumOrder
	}
	return code, nil
}

// ComputeDiscountAmount returns the amount taken off subtotal. The result
// always lies in [0, subtotal].
func ComputeDiscountAmount(discount Discount, subtotal decimal.Decimal) decimal.Decimal {
	var amount decimal.Decimal
	switch d := discount.(type) {
	case nil:
		return decimal.Zero
	case Percentage:
		amount = subtotal.Mul(d.Value).Div(hundred).Round(2)
	case FixedAmount:
		amount = decimal.Min(d.Value, subtotal)
	default:
		return decimal.Zero
	}
	if amount.IsNegative() {
		return decimal.Zero
	}
	if amount.GreaterThan(subtotal) {
		return subtotal
	}
	return amount
}

// ComputeShippingPrice charges the method's flat price unless the
// post-discount amount reaches the free-shipping threshold.
func ComputeShippingPrice(method *ShippingMethod, subtotal, discountAmount decimal.Decimal) decimal.Decimal {
	if method == nil {
		return decimal.Zero
	}
	if method.FreeFrom != nil && subtotal.Sub(discountAmount).GreaterThanOrEqual(*method.FreeFrom) {
		return decimal.Zero
	}
	return method.Price
}

// ComputeGrandTotal is subtotal - discount + shipping, floored at zero.
func ComputeGrandTotal(subtotal, discountAmount, shippingPrice decimal.Decimal) decimal.Decimal {
	total := subtotal.Sub(discountAmount).Add(shippingPrice)
	if total.IsNegative() {
		return decimal.Zero
	}
	return total
}

// Input is everything an evaluation depends on.
type Input struct {
	Items    []LineItem
	Shipping *ShippingMethod
	Discount *DiscountCode
}

// Evaluation is the result of Compute. Discount is the code that was
// actually applied; DiscountErr explains why a requested code was not.
type Evaluation struct {
	Totals
	Discount    *DiscountCode `json:"discount"`
	DiscountErr error         `json:"-"`
}

// Compute runs the full pipeline: subtotal, discount validation, discount
// amount, shipping, grand total.
func Compute(in Input, now time.Time) Evaluation {
	var ev Evaluation
	ev.Subtotal = ComputeSubtotal(in.Items)

	if in.Discount != nil {
		applied, err := ValidateDiscount(in.Discount, ev.Subtotal, now)
		if err != nil {
			ev.DiscountErr = err
		} else {
			ev.Discount = applied
			ev.DiscountAmount = ComputeDiscountAmount(applied.Discount, ev.Subtotal)
		}
	}

	ev.ShippingPrice = ComputeShippingPrice(in.Shipping, ev.Subtotal, ev.DiscountAmount)
	ev.GrandTotal = ComputeGrandTotal(ev.Subtotal, ev.DiscountAmount, ev.ShippingPrice)
	return ev
}
