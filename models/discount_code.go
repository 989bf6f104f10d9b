package models

import (
	"time"

	"github.com/scantagcandles/oremus-1/pricing"
	"github.com/shopspring/decimal"
)

type DiscountCode struct {
	ID             uint            `gorm:"primaryKey;autoIncrement"`
	Code           string          `gorm:"uniqueIndex;not null"` // stored upper-case
	DiscountType   string          `gorm:"type:VARCHAR(20);not null"`
	DiscountValue  decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	ValidFrom      *time.Time
	ValidUntil     *time.Time
	UsageLimit     *int
	UsedCount      int
	MinOrderAmount decimal.NullDecimal `gorm:"type:numeric(10,2)"`
	IsActive       bool                `gorm:"index"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Pricing converts the row into the engine's immutable representation.
func (dc DiscountCode) Pricing() (*pricing.DiscountCode, error) {
	discount, err := pricing.ParseDiscount(dc.DiscountType, dc.DiscountValue)
	if err != nil {
		return nil, err
	}
	code := &pricing.DiscountCode{
		Code:       dc.Code,
		Discount:   discount,
		ValidFrom:  dc.ValidFrom,
		ValidUntil: dc.ValidUntil,
		UsageLimit: dc.UsageLimit,
		UsedCount:  dc.UsedCount,
	}
	if dc.MinOrderAmount.Valid {
		minimum := dc.MinOrderAmount.Decimal
		code.MinOrderAmount = &minimum
	}
	return code, nil
}
