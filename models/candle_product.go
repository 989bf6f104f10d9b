package models

import (
	"strconv"
	"time"

	"github.com/scantagcandles/oremus-1/pricing"
	"github.com/shopspring/decimal"
)

type CandleProduct struct {
	ID            uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	Name          string          `gorm:"not null" json:"name"`
	Description   string          `json:"description"`
	Size          pricing.Size    `gorm:"type:VARCHAR(10);not null" json:"size"`
	Price         decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price"`
	DurationHours int             `json:"duration_hours"`
	HeightCM      float64         `json:"height_cm"`
	DiameterCM    float64         `json:"diameter_cm"`
	WeightG       int             `json:"weight_g"`
	IsActive      bool            `gorm:"index" json:"is_active"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// LineItem snapshots the product into a cart line.
func (p CandleProduct) LineItem(quantity int) pricing.LineItem {
	return pricing.LineItem{
		ID:            strconv.FormatUint(uint64(p.ID), 10),
		Name:          p.Name,
		UnitPrice:     p.Price,
		Quantity:      quantity,
		Size:          p.Size,
		DurationHours: p.DurationHours,
	}
}
