package cart

import (
	"context"
	"errors"
	"time"

	"github.com/scantagcandles/oremus-1/catalog"
	"github.com/scantagcandles/oremus-1/models"
	"github.com/scantagcandles/oremus-1/pricing"
	"github.com/shopspring/decimal"
)

// MockProducts implements catalog.ProductCatalog for testing
type MockProducts struct {
	Products map[string]models.CandleProduct
	Err      error
}

func (m *MockProducts) ActiveProducts(_ context.Context) ([]models.CandleProduct, error) {
	var out []models.CandleProduct
	for _, p := range m.Products {
		out = append(out, p)
	}
	return out, m.Err
}

func (m *MockProducts) Product(_ context.Context, id string) (models.CandleProduct, error) {
	if m.Err != nil {
		return models.CandleProduct{}, m.Err
	}
	p, ok := m.Products[id]
	if !ok {
		return models.CandleProduct{}, catalog.ErrProductNotFound
	}
	return p, nil
}

// MockDiscounts validates against an in-memory code table
type MockDiscounts struct {
	Codes map[string]pricing.DiscountCode
}

func (m *MockDiscounts) Validate(_ context.Context, code string, subtotal decimal.Decimal, now time.Time) (*pricing.DiscountCode, error) {
	found, ok := m.Codes[pricing.NormalizeCode(code)]
	if !ok {
		return nil, pricing.ErrInvalidCode
	}
	return pricing.ValidateDiscount(&found, subtotal, now)
}

// MockShipping returns a fixed method list
type MockShipping struct {
	Methods []pricing.ShippingMethod
	Err     error
}

func (m *MockShipping) ActiveMethods(_ context.Context) ([]pricing.ShippingMethod, error) {
	return m.Methods, m.Err
}

// MockRecorder captures recorded bundles
type MockRecorder struct {
	Bundles []CheckoutBundle
	Err     error
}

func (m *MockRecorder) Record(_ context.Context, _ string, bundle CheckoutBundle) error {
	if m.Err != nil {
		return m.Err
	}
	m.Bundles = append(m.Bundles, bundle)
	return nil
}

// FailingStore fails every operation
type FailingStore struct{}

var errStoreDown = errors.New("store unavailable")

func (FailingStore) Load(context.Context, string) (Snapshot, error) { return Snapshot{}, errStoreDown }
func (FailingStore) Save(context.Context, string, Snapshot) error   { return errStoreDown }
func (FailingStore) Delete(context.Context, string) error           { return errStoreDown }
