package catalog

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/scantagcandles/oremus-1/models"
	"gorm.io/gorm"
)

type Products struct {
	db *gorm.DB
}

func NewProducts(db *gorm.DB) *Products {
	return &Products{db: db}
}

// ActiveProducts lists purchasable candles, cheapest first.
func (p *Products) ActiveProducts(ctx context.Context) ([]models.CandleProduct, error) {
	products := []models.CandleProduct{}
	if err := p.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("price ASC").
		Find(&products).Error; err != nil {
		return nil, fmt.Errorf("fetch active products: %w", err)
	}
	return products, nil
}

// AllProducts includes inactive candles; used by the admin export.
func (p *Products) AllProducts(ctx context.Context) ([]models.CandleProduct, error) {
	var products []models.CandleProduct
	if err := p.db.WithContext(ctx).Order("id ASC").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("fetch products: %w", err)
	}
	return products, nil
}

func (p *Products) Product(ctx context.Context, id string) (models.CandleProduct, error) {
	var product models.CandleProduct
	pid, err := strconv.ParseUint(id, 10, 64)
	if err != nil {
		return product, ErrProductNotFound
	}
	err = p.db.WithContext(ctx).
		Where("id = ? AND is_active = ?", uint(pid), true).
		First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return product, ErrProductNotFound
	}
	if err != nil {
		return product, fmt.Errorf("fetch product %s: %w", id, err)
	}
	return product, nil
}

// SaveProduct updates the product with p.ID when it exists and inserts p
// otherwise. It reports whether a new row was created.
func (p *Products) SaveProduct(ctx context.Context, product *models.CandleProduct) (bool, error) {
	db := p.db.WithContext(ctx)
	if product.ID != 0 {
		var existing models.CandleProduct
		err := db.First(&existing, product.ID).Error
		switch {
		case err == nil:
			product.CreatedAt = existing.CreatedAt
			if err := db.Save(product).Error; err != nil {
				return false, fmt.Errorf("update product %d: %w", product.ID, err)
			}
			return false, nil
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return false, fmt.Errorf("fetch product %d: %w", product.ID, err)
		}
		product.ID = 0
	}
	if err := db.Create(product).Error; err != nil {
		return false, fmt.Errorf("create product: %w", err)
	}
	return true, nil
}
