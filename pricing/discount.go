package pricing

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	KindPercentage = "percentage"
	KindFixed      = "fixed"
)

// Discount is either Percentage or FixedAmount.
type Discount interface {
	Kind() string
	Amount() decimal.Decimal
	isDiscount()
}

// Percentage takes Value percent off the subtotal.
type Percentage struct {
	Value decimal.Decimal
}

// FixedAmount takes Value off the subtotal, never more than the subtotal.
type FixedAmount struct {
	Value decimal.Decimal
}

func (Percentage) Kind() string              { return KindPercentage }
func (p Percentage) Amount() decimal.Decimal { return p.Value }
func (Percentage) isDiscount()               {}

func (FixedAmount) Kind() string              { return KindFixed }
func (f FixedAmount) Amount() decimal.Decimal { return f.Value }
func (FixedAmount) isDiscount()               {}

// ParseDiscount builds the variant for a stored discount_type.
func ParseDiscount(kind string, value decimal.Decimal) (Discount, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case KindPercentage:
		return Percentage{Value: value}, nil
	case KindFixed, "fixed_amount":
		return FixedAmount{Value: value}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDiscountType, kind)
	}
}

// DiscountCode is a fetched, immutable discount definition.
type DiscountCode struct {
	Code           string
	Discount       Discount
	ValidFrom      *time.Time
	ValidUntil     *time.Time
	UsageLimit     *int
	UsedCount      int
	MinOrderAmount *decimal.Decimal
}

// NormalizeCode returns the canonical (upper-case) form of a user-typed code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

type discountCodeJSON struct {
	Code           string           `json:"code"`
	DiscountType   string           `json:"discount_type"`
	DiscountValue  decimal.Decimal  `json:"discount_value"`
	ValidFrom      *time.Time       `json:"valid_from,omitempty"`
	ValidUntil     *time.Time       `json:"valid_until,omitempty"`
	UsageLimit     *int             `json:"usage_limit,omitempty"`
	UsedCount      int              `json:"used_count"`
	MinOrderAmount *decimal.Decimal `json:"min_order_amount,omitempty"`
}

func (d DiscountCode) MarshalJSON() ([]byte, error) {
	if d.Discount == nil {
		return nil, fmt.Errorf("discount code %q: %w", d.Code, ErrUnknownDiscountType)
	}
	return json.Marshal(discountCodeJSON{
		Code:           d.Code,
		DiscountType:   d.Discount.Kind(),
		DiscountValue:  d.Discount.Amount(),
		ValidFrom:      d.ValidFrom,
		ValidUntil:     d.ValidUntil,
		UsageLimit:     d.UsageLimit,
		UsedCount:      d.UsedCount,
		MinOrderAmount: d.MinOrderAmount,
	})
}

func (d *DiscountCode) UnmarshalJSON(data []byte) error {
	var raw discountCodeJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	discount, err := ParseDiscount(raw.DiscountType, raw.DiscountValue)
	if err != nil {
		return err
	}
	*d = DiscountCode{
		Code:           raw.Code,
		Discount:       discount,
		ValidFrom:      raw.ValidFrom,
		ValidUntil:     raw.ValidUntil,
		UsageLimit:     raw.UsageLimit,
		UsedCount:      raw.UsedCount,
		MinOrderAmount: raw.MinOrderAmount,
	}
	return nil
}
