// Package catalog answers the read-only shop lookups: candle products,
// discount codes and shipping methods.
package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/scantagcandles/oremus-1/models"
	"github.com/scantagcandles/oremus-1/pricing"
	"github.com/shopspring/decimal"
)

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrCodeNotFound     = errors.New("discount code not found")
	ErrShippingNotFound = errors.New("shipping method not found")
)

type ProductCatalog interface {
	ActiveProducts(ctx context.Context) ([]models.CandleProduct, error)
	Product(ctx context.Context, id string) (models.CandleProduct, error)
}

// DiscountValidator resolves a user-typed code and checks it against the
// current subtotal. A missing code fails with pricing.ErrInvalidCode; a
// found but unusable code fails with the specific pricing reason.
type DiscountValidator interface {
	Validate(ctx context.Context, code string, subtotal decimal.Decimal, now time.Time) (*pricing.DiscountCode, error)
}

type ShippingCatalog interface {
	ActiveMethods(ctx context.Context) ([]pricing.ShippingMethod, error)
}

// FindMethod picks the method with the given id out of the active list.
func FindMethod(ctx context.Context, shipping ShippingCatalog, id string) (pricing.ShippingMethod, error) {
	methods, err := shipping.ActiveMethods(ctx)
	if err != nil {
		return pricing.ShippingMethod{}, err
	}
	for _, m := range methods {
		if m.ID == id {
			return m, nil
		}
	}
	return pricing.ShippingMethod{}, ErrShippingNotFound
}
