package models

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type CheckoutStatus string

const (
	CheckoutStatusPending   CheckoutStatus = "pending"   // Handed to the payment collaborator
	CheckoutStatusPaid      CheckoutStatus = "paid"      // Reported paid by the collaborator
	CheckoutStatusFailed    CheckoutStatus = "failed"    // Payment attempt failed
	CheckoutStatusAbandoned CheckoutStatus = "abandoned" // Never completed
)

// CheckoutRecord stores the frozen checkout bundle handed to payment.
type CheckoutRecord struct {
	ID        string          `gorm:"type:uuid;primaryKey" json:"id"`
	Reference string          `gorm:"uniqueIndex;not null" json:"reference"`
	OwnerKey  string          `gorm:"index;not null" json:"owner_key"`
	Bundle    string          `gorm:"type:jsonb;not null" json:"-"`
	Total     decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"total"`
	Status    CheckoutStatus  `gorm:"type:VARCHAR(20);default:'pending'" json:"status"`
	CreatedAt time.Time       `json:"created_at"`
}

// ParseCheckoutStatus maps a status string, case-insensitively.
func ParseCheckoutStatus(status string) (CheckoutStatus, error) {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case string(CheckoutStatusPending):
		return CheckoutStatusPending, nil
	case string(CheckoutStatusPaid):
		return CheckoutStatusPaid, nil
	case string(CheckoutStatusFailed):
		return CheckoutStatusFailed, nil
	case string(CheckoutStatusAbandoned):
		return CheckoutStatusAbandoned, nil
	default:
		return "", errors.New("invalid checkout status")
	}
}
