// Package cart holds the shopper's cart as an immutable Snapshot and the
// Service that loads, mutates, persists and prices it.
package cart

import (
	"errors"
	"fmt"
	"time"

	"github.com/scantagcandles/oremus-1/pricing"
	"github.com/shopspring/decimal"
)

var (
	ErrEmptyCart       = errors.New("cart is empty")
	ErrItemNotFound    = errors.New("cart item not found")
	ErrInvalidQuantity = fmt.Errorf("quantity must be between 1 and %d", pricing.MaxQuantity)
	ErrInvalidShipping = errors.New("invalid shipping method")
)

// Snapshot is the full client-held cart state. Mutators return a new
// Snapshot and leave the receiver untouched.
type Snapshot struct {
	Items    []pricing.LineItem      `json:"items"`
	Shipping *pricing.ShippingMethod `json:"shipping_method,omitempty"`
	Discount *pricing.DiscountCode   `json:"discount,omitempty"`
}

func (s Snapshot) clone() Snapshot {
	items := make([]pricing.LineItem, len(s.Items))
	copy(items, s.Items)
	s.Items = items
	return s
}

func (s Snapshot) IsEmpty() bool {
	return len(s.Items) == 0
}

// ItemCount is the number of units across all lines.
func (s Snapshot) ItemCount() int {
	n := 0
	for _, item := range s.Items {
		n += item.Quantity
	}
	return n
}

func (s Snapshot) indexOf(id string) int {
	for i, item := range s.Items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

// AddItem appends item, or increases the quantity of the existing line
// with the same id. The merged quantity may not exceed pricing.MaxQuantity.
func (s Snapshot) AddItem(item pricing.LineItem) (Snapshot, error) {
	if err := item.Validate(); err != nil {
		return s, err
	}
	next := s.clone()
	if i := next.indexOf(item.ID); i >= 0 {
		if next.Items[i].Quantity > pricing.MaxQuantity-item.Quantity {
			return s, ErrInvalidQuantity
		}
		next.Items[i].Quantity += item.Quantity
		return next, nil
	}
	next.Items = append(next.Items, item)
	return next, nil
}

func (s Snapshot) SetQuantity(id string, quantity int) (Snapshot, error) {
	if quantity < 1 || quantity > pricing.MaxQuantity {
		return s, ErrInvalidQuantity
	}
	i := s.indexOf(id)
	if i < 0 {
		return s, ErrItemNotFound
	}
	next := s.clone()
	next.Items[i].Quantity = quantity
	return next, nil
}

func (s Snapshot) RemoveItem(id string) (Snapshot, error) {
	i := s.indexOf(id)
	if i < 0 {
		return s, ErrItemNotFound
	}
	next := s.clone()
	next.Items = append(next.Items[:i], next.Items[i+1:]...)
	return next, nil
}

func (s Snapshot) SelectShipping(method pricing.ShippingMethod) (Snapshot, error) {
	if method.ID == "" || method.Price.IsNegative() || (method.FreeFrom != nil && method.FreeFrom.IsNegative()) {
		return s, ErrInvalidShipping
	}
	next := s.clone()
	next.Shipping = &method
	return next, nil
}

// ApplyDiscount stores an already validated code. It replaces any code
// applied before, so at most one discount is ever evaluated.
func (s Snapshot) ApplyDiscount(code pricing.DiscountCode) Snapshot {
	next := s.clone()
	next.Discount = &code
	return next
}

func (s Snapshot) ClearDiscount() Snapshot {
	next := s.clone()
	next.Discount = nil
	return next
}

// Evaluate prices the snapshot. The stored discount is re-validated
// against the current subtotal and clock every time.
func (s Snapshot) Evaluate(now time.Time) pricing.Evaluation {
	return pricing.Compute(pricing.Input{
		Items:    s.Items,
		Shipping: s.Shipping,
		Discount: s.Discount,
	}, now)
}

// CheckoutBundle is the opaque hand-off to the payment collaborator.
type CheckoutBundle struct {
	Reference      string                  `json:"reference"`
	Items          []pricing.LineItem      `json:"items"`
	Subtotal       decimal.Decimal         `json:"subtotal"`
	Discount       *pricing.DiscountCode   `json:"discount"`
	DiscountAmount decimal.Decimal         `json:"discountAmount"`
	ShippingMethod *pricing.ShippingMethod `json:"shippingMethod"`
	ShippingPrice  decimal.Decimal         `json:"shippingPrice"`
	Total          decimal.Decimal         `json:"total"`
	CreatedAt      time.Time               `json:"createdAt"`
}

// Checkout freezes the snapshot into a bundle. An empty cart cannot be
// checked out.
func (s Snapshot) Checkout(reference string, now time.Time) (CheckoutBundle, error) {
	if s.IsEmpty() {
		return CheckoutBundle{}, ErrEmptyCart
	}
	if reference == "" {
		return CheckoutBundle{}, fmt.Errorf("checkout: missing reference")
	}
	ev := s.Evaluate(now)
	items := make([]pricing.LineItem, len(s.Items))
	copy(items, s.Items)
	return CheckoutBundle{
		Reference:      reference,
		Items:          items,
		Subtotal:       ev.Subtotal,
		Discount:       ev.Discount,
		DiscountAmount: ev.DiscountAmount,
		ShippingMethod: s.Shipping,
		ShippingPrice:  ev.ShippingPrice,
		Total:          ev.GrandTotal,
		CreatedAt:      now,
	}, nil
}
