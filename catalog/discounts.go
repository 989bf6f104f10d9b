package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/scantagcandles/oremus-1/models"
	"github.com/scantagcandles/oremus-1/pricing"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Discounts struct {
	db *gorm.DB
}

func NewDiscounts(db *gorm.DB) *Discounts {
	return &Discounts{db: db}
}

// FindCode looks up an active code, case-insensitively. ErrCodeNotFound
// is returned when nothing matches.
func (d *Discounts) FindCode(ctx context.Context, code string) (*pricing.DiscountCode, error) {
	normalized := pricing.NormalizeCode(code)
	if normalized == "" {
		return nil, ErrCodeNotFound
	}

	var row models.DiscountCode
	err := d.db.WithContext(ctx).
		Where("code = ? AND is_active = ?", normalized, true).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCodeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetch discount code: %w", err)
	}
	return row.Pricing()
}

func (d *Discounts) Validate(ctx context.Context, code string, subtotal decimal.Decimal, now time.Time) (*pricing.DiscountCode, error) {
	found, err := d.FindCode(ctx, code)
	switch {
	case errors.Is(err, ErrCodeNotFound), errors.Is(err, pricing.ErrUnknownDiscountType):
		return nil, fmt.Errorf("%w: %w", pricing.ErrInvalidCode, err)
	case err != nil:
		return nil, err
	}
	return pricing.ValidateDiscount(found, subtotal, now)
}
