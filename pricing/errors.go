package pricing

import "errors"

// Discount validation failures. All of them are non-fatal: the cart stays
// usable and totals are computed as if no discount had been applied.
var (
	ErrInvalidCode         = errors.New("invalid discount code")
	ErrNotYetValid         = errors.New("discount code is not active yet")
	ErrExpired             = errors.New("discount code has expired")
	ErrUsageLimitReached   = errors.New("discount code usage limit reached")
	ErrBelowMinimumOrder   = errors.New("order is below the discount minimum")
	ErrUnknownDiscountType = errors.New("unknown discount type")
)

// Reason maps a discount validation error to a stable machine-readable
// reason. It returns "" for errors outside the discount taxonomy.
func Reason(err error) string {
	switch {
	case errors.Is(err, ErrInvalidCode):
		return "invalid_code"
	case errors.Is(err, ErrNotYetValid):
		return "not_yet_valid"
	case errors.Is(err, ErrExpired):
		return "expired"
	case errors.Is(err, ErrUsageLimitReached):
		return "usage_limit_reached"
	case errors.Is(err, ErrBelowMinimumOrder):
		return "below_minimum_order"
	default:
		return ""
	}
}
