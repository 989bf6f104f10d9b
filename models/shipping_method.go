package models

import (
	"strconv"
	"time"

	"github.com/scantagcandles/oremus-1/pricing"
	"github.com/shopspring/decimal"
)

type ShippingMethod struct {
	ID            uint                `gorm:"primaryKey;autoIncrement"`
	Name          string              `gorm:"not null"`
	Description   string
	Price         decimal.Decimal     `gorm:"type:numeric(10,2);not null"`
	FreeFrom      decimal.NullDecimal `gorm:"type:numeric(10,2)"`
	EstimatedDays string
	IsActive      bool `gorm:"index"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (m ShippingMethod) Pricing() pricing.ShippingMethod {
	method := pricing.ShippingMethod{
		ID:            strconv.FormatUint(uint64(m.ID), 10),
		Name:          m.Name,
		Description:   m.Description,
		Price:         m.Price,
		EstimatedDays: m.EstimatedDays,
	}
	if m.FreeFrom.Valid {
		free := m.FreeFrom.Decimal
		method.FreeFrom = &free
	}
	return method
}
