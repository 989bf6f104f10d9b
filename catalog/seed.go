package catalog

import (
	"context"
	"fmt"

	"github.com/scantagcandles/oremus-1/models"
	"github.com/scantagcandles/oremus-1/pricing"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DefaultProducts is the stock OREMUS candle range.
func DefaultProducts() []models.CandleProduct {
	return []models.CandleProduct{
		{
			Name:          "Świeca OREMUS Mała",
			Description:   "Idealna do codziennej modlitwy. Zapach lawendy i białego piżma. Czas palenia: 48 godzin.",
			Size:          pricing.SizeSmall,
			Price:         decimal.RequireFromString("29.99"),
			DurationHours: 48,
			HeightCM:      10,
			DiameterCM:    7,
			WeightG:       200,
			IsActive:      true,
		},
		{
			Name:          "Świeca OREMUS Średnia",
			Description:   "Doskonała na dłuższe modlitwy i nowenny. Zapach lawendy i białego piżma. Czas palenia: 120 godzin.",
			Size:          pricing.SizeMedium,
			Price:         decimal.RequireFromString("49.99"),
			DurationHours: 120,
			HeightCM:      15,
			DiameterCM:    8,
			WeightG:       400,
			IsActive:      true,
		},
		{
			Name:          "Świeca OREMUS Duża",
			Description:   "Świeca na specjalne intencje i długie czuwania modlitewne. Zapach lawendy i białego piżma. Czas palenia: 240 godzin.",
			Size:          pricing.SizeLarge,
			Price:         decimal.RequireFromString("79.99"),
			DurationHours: 240,
			HeightCM:      20,
			DiameterCM:    10,
			WeightG:       700,
			IsActive:      true,
		},
	}
}

// SeedDefaults inserts DefaultProducts when the product table is empty.
func SeedDefaults(ctx context.Context, db *gorm.DB) (int, error) {
	var count int64
	if err := db.WithContext(ctx).Model(&models.CandleProduct{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	if count > 0 {
		return 0, nil
	}
	products := DefaultProducts()
	if err := db.WithContext(ctx).Create(&products).Error; err != nil {
		return 0, fmt.Errorf("seed products: %w", err)
	}
	return len(products), nil
}
