package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/scantagcandles/oremus-1/models"
	"github.com/scantagcandles/oremus-1/pricing"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrCheckoutNotFound     = errors.New("checkout not found")
	ErrCheckoutAlreadyFinal = errors.New("checkout is no longer pending")
)

// CheckoutRecorder hands a frozen bundle over to the payment side.
type CheckoutRecorder interface {
	Record(ctx context.Context, owner string, bundle CheckoutBundle) error
}

// GormRecorder keeps checkout records in Postgres.
type GormRecorder struct {
	db *gorm.DB
}

func NewGormRecorder(db *gorm.DB) *GormRecorder {
	return &GormRecorder{db: db}
}

// Record stores the bundle as a pending checkout.
func (g *GormRecorder) Record(ctx context.Context, owner string, bundle CheckoutBundle) error {
	data, err := json.Marshal(bundle)
	if err != nil {
		return fmt.Errorf("marshal checkout bundle: %w", err)
	}
	record := models.CheckoutRecord{
		ID:        uuid.NewString(),
		Reference: bundle.Reference,
		OwnerKey:  owner,
		Bundle:    string(data),
		Total:     bundle.Total,
		Status:    models.CheckoutStatusPending,
		CreatedAt: bundle.CreatedAt,
	}
	if err := g.db.WithContext(ctx).Create(&record).Error; err != nil {
		return fmt.Errorf("create checkout record: %w", err)
	}
	return nil
}

// List returns checkout records newest first, optionally by status.
func (g *GormRecorder) List(ctx context.Context, status models.CheckoutStatus) ([]models.CheckoutRecord, error) {
	query := g.db.WithContext(ctx).Order("created_at DESC")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	records := []models.CheckoutRecord{}
	if err := query.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list checkouts: %w", err)
	}
	return records, nil
}

func (g *GormRecorder) Find(ctx context.Context, reference string) (*models.CheckoutRecord, error) {
	var record models.CheckoutRecord
	err := g.db.WithContext(ctx).Where("reference = ?", reference).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCheckoutNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find checkout %s: %w", reference, err)
	}
	return &record, nil
}

// SetStatus moves a pending checkout to its final status. Marking it paid
// consumes one use of the discount code it carried, never past its limit.
func (g *GormRecorder) SetStatus(ctx context.Context, reference string, status models.CheckoutStatus) (*models.CheckoutRecord, error) {
	var record models.CheckoutRecord
	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("reference = ?", reference).
			First(&record).Error; err != nil {
			return err
		}
		if record.Status != models.CheckoutStatusPending {
			return ErrCheckoutAlreadyFinal
		}
		if status == models.CheckoutStatusPending {
			return nil
		}

		if status == models.CheckoutStatusPaid {
			var bundle CheckoutBundle
			if err := json.Unmarshal([]byte(record.Bundle), &bundle); err != nil {
				return fmt.Errorf("decode checkout bundle: %w", err)
			}
			if bundle.Discount != nil {
				if err := tx.Model(&models.DiscountCode{}).
					Where("code = ?", pricing.NormalizeCode(bundle.Discount.Code)).
					Where("usage_limit IS NULL OR usage_limit <= 0 OR used_count < usage_limit").
					UpdateColumn("used_count", gorm.Expr("used_count + 1")).Error; err != nil {
					return fmt.Errorf("consume discount code: %w", err)
				}
			}
		}

		record.Status = status
		return tx.Model(&record).Update("status", status).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCheckoutNotFound
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}
