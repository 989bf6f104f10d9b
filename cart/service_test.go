package cart

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/scantagcandles/oremus-1/catalog"
	"github.com/scantagcandles/oremus-1/models"
	"github.com/scantagcandles/oremus-1/pricing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var fixedNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	svc       *Service
	store     Store
	recorder  *MockRecorder
	discounts *MockDiscounts
}

func newFixture(t *testing.T, store Store) fixture {
	t.Helper()
	free := money("100")
	past := fixedNow.Add(-48 * time.Hour)
	limit := 1

	products := &MockProducts{Products: map[string]models.CandleProduct{
		"1": {ID: 1, Name: "Świeca OREMUS Mała", Size: pricing.SizeSmall, Price: money("29.99"), DurationHours: 48, IsActive: true},
		"3": {ID: 3, Name: "Świeca OREMUS Duża", Size: pricing.SizeLarge, Price: money("79.99"), DurationHours: 240, IsActive: true},
	}}
	discounts := &MockDiscounts{Codes: map[string]pricing.DiscountCode{
		"FIFTY":  {Code: "FIFTY", Discount: pricing.FixedAmount{Value: money("50")}},
		"TWENTY": {Code: "TWENTY", Discount: pricing.Percentage{Value: money("20")}},
		"OLD":    {Code: "OLD", Discount: pricing.FixedAmount{Value: money("5")}, ValidUntil: &past},
		"USED":   {Code: "USED", Discount: pricing.FixedAmount{Value: money("5")}, UsageLimit: &limit, UsedCount: 1},
		"MIN100": {Code: "MIN100", Discount: pricing.FixedAmount{Value: money("10")}, MinOrderAmount: &free},
	}}
	shipping := &MockShipping{Methods: []pricing.ShippingMethod{
		{ID: "2", Name: "Paczkomat InPost", Price: money("12"), FreeFrom: &free},
		{ID: "1", Name: "Kurier DPD", Price: money("15"), FreeFrom: &free},
		{ID: "9", Name: "Flat", Price: money("15")},
	}}
	recorder := &MockRecorder{}

	svc := NewService(store, products, discounts, shipping, recorder, zap.NewNop(), WithClock(func() time.Time { return fixedNow }))
	return fixture{svc: svc, store: store, recorder: recorder, discounts: discounts}
}

func TestService_EmptyCartDefaultsToCheapestShipping(t *testing.T) {
	f := newFixture(t, NewMemoryStore())

	v := f.svc.Get(context.Background(), "device-1")
	assert.True(t, v.Snapshot.IsEmpty())
	require.NotNil(t, v.Snapshot.Shipping)
	assert.Equal(t, "2", v.Snapshot.Shipping.ID)
	assert.True(t, v.Evaluation.Subtotal.IsZero())
	assert.True(t, money("12").Equal(v.Evaluation.GrandTotal))
}

func TestService_AddAndAdjustItems(t *testing.T) {
	f := newFixture(t, NewMemoryStore())
	ctx := context.Background()

	_, err := f.svc.AddItem(ctx, "u1", "1", 1)
	require.NoError(t, err)
	v, err := f.svc.AddItem(ctx, "u1", "1", 1)
	require.NoError(t, err)
	require.Len(t, v.Snapshot.Items, 1)
	assert.Equal(t, 2, v.Snapshot.Items[0].Quantity)
	assert.True(t, money("59.98").Equal(v.Evaluation.Subtotal))

	v, err = f.svc.SetQuantity(ctx, "u1", "1", 4)
	require.NoError(t, err)
	assert.True(t, money("119.96").Equal(v.Evaluation.Subtotal))
	assert.True(t, v.Evaluation.ShippingPrice.IsZero())

	stored, err := f.store.Load(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 4, stored.Items[0].Quantity)
}

func TestService_RejectedMutationsKeepState(t *testing.T) {
	f := newFixture(t, NewMemoryStore())
	ctx := context.Background()

	_, err := f.svc.AddItem(ctx, "u1", "1", 2)
	require.NoError(t, err)

	v, err := f.svc.SetQuantity(ctx, "u1", "1", 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)
	assert.Equal(t, 2, v.Snapshot.Items[0].Quantity)

	_, err = f.svc.AddItem(ctx, "u1", "404", 1)
	assert.ErrorIs(t, err, catalog.ErrProductNotFound)

	_, err = f.svc.AddItem(ctx, "u1", "1", 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = f.svc.AddItem(ctx, "u1", "1", pricing.MaxQuantity)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = f.svc.RemoveItem(ctx, "u1", "404")
	assert.ErrorIs(t, err, ErrItemNotFound)

	_, err = f.svc.SelectShipping(ctx, "u1", "404")
	assert.ErrorIs(t, err, catalog.ErrShippingNotFound)

	stored, err := f.store.Load(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 2, stored.Items[0].Quantity)
}

func TestService_ApplyDiscount(t *testing.T) {
	f := newFixture(t, NewMemoryStore())
	ctx := context.Background()

	_, err := f.svc.AddItem(ctx, "u1", "1", 2)
	require.NoError(t, err)
	_, err = f.svc.SelectShipping(ctx, "u1", "9")
	require.NoError(t, err)

	v, err := f.svc.ApplyDiscount(ctx, "u1", "fifty")
	require.NoError(t, err)
	assert.Equal(t, "FIFTY", v.Evaluation.Discount.Code)
	assert.True(t, money("50").Equal(v.Evaluation.DiscountAmount))
	assert.True(t, money("24.98").Equal(v.Evaluation.GrandTotal))
}

func TestService_ApplyDiscountFailures(t *testing.T) {
	f := newFixture(t, NewMemoryStore())
	ctx := context.Background()
	_, err := f.svc.AddItem(ctx, "u1", "1", 1)
	require.NoError(t, err)

	tests := map[string]error{
		"nope":   pricing.ErrInvalidCode,
		"old":    pricing.ErrExpired,
		"used":   pricing.ErrUsageLimitReached,
		"min100": pricing.ErrBelowMinimumOrder,
	}
	for code, want := range tests {
		t.Run(code, func(t *testing.T) {
			v, err := f.svc.ApplyDiscount(ctx, "u1", code)
			assert.ErrorIs(t, err, want)
			assert.Nil(t, v.Snapshot.Discount)
			assert.True(t, money("29.99").Equal(v.Evaluation.Subtotal))
		})
	}
}

func TestService_FreeShippingUsesDiscountedAmount(t *testing.T) {
	f := newFixture(t, NewMemoryStore())
	ctx := context.Background()

	// 79.99 + 29.99 = 109.98; 20% off leaves 87.98, below the 100 threshold.
	_, err := f.svc.AddItem(ctx, "u1", "3", 1)
	require.NoError(t, err)
	v, err := f.svc.AddItem(ctx, "u1", "1", 1)
	require.NoError(t, err)
	assert.True(t, v.Evaluation.ShippingPrice.IsZero())

	v, err = f.svc.ApplyDiscount(ctx, "u1", "TWENTY")
	require.NoError(t, err)
	assert.True(t, money("22").Equal(v.Evaluation.DiscountAmount))
	assert.True(t, money("12").Equal(v.Evaluation.ShippingPrice))
	assert.True(t, money("99.98").Equal(v.Evaluation.GrandTotal))
}

func TestService_StoredDiscountRevalidated(t *testing.T) {
	f := newFixture(t, NewMemoryStore())
	ctx := context.Background()

	_, err := f.svc.AddItem(ctx, "u1", "3", 2)
	require.NoError(t, err)
	_, err = f.svc.ApplyDiscount(ctx, "u1", "MIN100")
	require.NoError(t, err)

	v, err := f.svc.SetQuantity(ctx, "u1", "3", 1)
	require.NoError(t, err)
	assert.NotNil(t, v.Snapshot.Discount)
	assert.ErrorIs(t, v.Evaluation.DiscountErr, pricing.ErrBelowMinimumOrder)
	assert.True(t, v.Evaluation.DiscountAmount.IsZero())
}

func TestService_ClearDiscountAndCart(t *testing.T) {
	f := newFixture(t, NewMemoryStore())
	ctx := context.Background()

	_, err := f.svc.AddItem(ctx, "u1", "3", 1)
	require.NoError(t, err)
	_, err = f.svc.ApplyDiscount(ctx, "u1", "TWENTY")
	require.NoError(t, err)

	v, err := f.svc.ClearDiscount(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, v.Snapshot.Discount)

	require.NoError(t, f.svc.Clear(ctx, "u1"))
	assert.True(t, f.svc.Get(ctx, "u1").Snapshot.IsEmpty())
}

func TestService_Checkout(t *testing.T) {
	f := newFixture(t, NewMemoryStore())
	ctx := context.Background()

	_, err := f.svc.Checkout(ctx, "u1")
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Empty(t, f.recorder.Bundles)

	_, err = f.svc.AddItem(ctx, "u1", "1", 2)
	require.NoError(t, err)

	bundle, err := f.svc.Checkout(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(bundle.Reference, "20250301120000-"))
	assert.Equal(t, "2", bundle.ShippingMethod.ID)
	assert.True(t, money("71.98").Equal(bundle.Total))
	require.Len(t, f.recorder.Bundles, 1)

	assert.False(t, f.svc.Get(ctx, "u1").Snapshot.IsEmpty())
}

func TestService_CheckoutRechecksDiscountUsage(t *testing.T) {
	f := newFixture(t, NewMemoryStore())
	ctx := context.Background()
	limit := 1
	f.discounts.Codes["ONCE"] = pricing.DiscountCode{Code: "ONCE", Discount: pricing.FixedAmount{Value: money("5")}, UsageLimit: &limit}

	_, err := f.svc.AddItem(ctx, "u1", "1", 2)
	require.NoError(t, err)
	_, err = f.svc.ApplyDiscount(ctx, "u1", "once")
	require.NoError(t, err)

	code := f.discounts.Codes["ONCE"]
	code.UsedCount = 1
	f.discounts.Codes["ONCE"] = code

	_, err = f.svc.Checkout(ctx, "u1")
	assert.ErrorIs(t, err, pricing.ErrUsageLimitReached)
	assert.Empty(t, f.recorder.Bundles)
	assert.NotNil(t, f.svc.Get(ctx, "u1").Snapshot.Discount)
}

func TestService_CheckoutUsesFreshDiscount(t *testing.T) {
	f := newFixture(t, NewMemoryStore())
	ctx := context.Background()

	_, err := f.svc.AddItem(ctx, "u1", "1", 2)
	require.NoError(t, err)
	_, err = f.svc.ApplyDiscount(ctx, "u1", "TWENTY")
	require.NoError(t, err)

	code := f.discounts.Codes["TWENTY"]
	code.UsedCount = 4
	f.discounts.Codes["TWENTY"] = code

	bundle, err := f.svc.Checkout(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, bundle.Discount)
	assert.Equal(t, 4, bundle.Discount.UsedCount)
	assert.True(t, money("12").Equal(bundle.DiscountAmount))
}

func TestService_CheckoutRecordFailure(t *testing.T) {
	f := newFixture(t, NewMemoryStore())
	ctx := context.Background()
	f.recorder.Err = errStoreDown

	_, err := f.svc.AddItem(ctx, "u1", "1", 1)
	require.NoError(t, err)
	_, err = f.svc.Checkout(ctx, "u1")
	assert.ErrorIs(t, err, errStoreDown)
}

func TestService_StorageFailureFallsBackToEmpty(t *testing.T) {
	f := newFixture(t, FailingStore{})
	ctx := context.Background()

	v := f.svc.Get(ctx, "u1")
	assert.True(t, v.Snapshot.IsEmpty())

	_, err := f.svc.AddItem(ctx, "u1", "1", 1)
	assert.ErrorIs(t, err, errStoreDown)
}

func TestService_ShippingUnavailable(t *testing.T) {
	store := NewMemoryStore()
	svc := NewService(store, &MockProducts{}, &MockDiscounts{}, &MockShipping{Err: errStoreDown}, &MockRecorder{}, zap.NewNop())

	v := svc.Get(context.Background(), "u1")
	assert.Nil(t, v.Snapshot.Shipping)
	assert.True(t, v.Evaluation.GrandTotal.IsZero())
}
