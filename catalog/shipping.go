package catalog

import (
	"context"

	"github.com/scantagcandles/oremus-1/models"
	"github.com/scantagcandles/oremus-1/pricing"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

// FallbackMethods is offered when no shipping method is configured or the
// lookup fails.
func FallbackMethods() []pricing.ShippingMethod {
	freeFrom := decimal.NewFromInt(100)
	return []pricing.ShippingMethod{
		{
			ID:            "1",
			Name:          "Kurier DPD",
			Description:   "Dostawa kurierska do drzwi",
			Price:         decimal.NewFromInt(15),
			FreeFrom:      &freeFrom,
			EstimatedDays: "2-3 dni robocze",
		},
		{
			ID:            "2",
			Name:          "Paczkomat InPost",
			Description:   "Odbiór w paczkomacie",
			Price:         decimal.NewFromInt(12),
			FreeFrom:      &freeFrom,
			EstimatedDays: "1-2 dni robocze",
		},
	}
}

type Shipping struct {
	db  *gorm.DB
	log *zap.Logger
	sfg singleflight.Group // collapses concurrent reads
}

func NewShipping(db *gorm.DB, log *zap.Logger) *Shipping {
	return &Shipping{db: db, log: log}
}

// ActiveMethods lists active shipping methods ordered by price. It never
// fails: an empty table or a failed query yields FallbackMethods.
func (s *Shipping) ActiveMethods(ctx context.Context) ([]pricing.ShippingMethod, error) {
	v, _, _ := s.sfg.Do("active", func() (interface{}, error) {
		var rows []models.ShippingMethod
		if err := s.db.WithContext(ctx).
			Where("is_active = ?", true).
			Order("price ASC").
			Find(&rows).Error; err != nil {
			s.log.Warn("shipping methods lookup failed, using fallback", zap.Error(err))
			return FallbackMethods(), nil
		}
		if len(rows) == 0 {
			return FallbackMethods(), nil
		}
		methods := make([]pricing.ShippingMethod, 0, len(rows))
		for _, row := range rows {
			methods = append(methods, row.Pricing())
		}
		return methods, nil
	})
	return v.([]pricing.ShippingMethod), nil
}
