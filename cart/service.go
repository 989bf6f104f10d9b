package cart

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/scantagcandles/oremus-1/catalog"
	"github.com/scantagcandles/oremus-1/pricing"
	"go.uber.org/zap"
)

// View is a snapshot together with its freshly computed totals.
type View struct {
	Snapshot   Snapshot
	Evaluation pricing.Evaluation
}

type Service struct {
	store     Store
	products  catalog.ProductCatalog
	discounts catalog.DiscountValidator
	shipping  catalog.ShippingCatalog
	recorder  CheckoutRecorder
	log       *zap.Logger
	now       func() time.Time
}

type Option func(*Service)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func NewService(
	store Store,
	products catalog.ProductCatalog,
	discounts catalog.DiscountValidator,
	shipping catalog.ShippingCatalog,
	recorder CheckoutRecorder,
	log *zap.Logger,
	opts ...Option,
) *Service {
	s := &Service{
		store:     store,
		products:  products,
		discounts: discounts,
		shipping:  shipping,
		recorder:  recorder,
		log:       log,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// load never fails: a missing or unreadable cart is an empty cart.
func (s *Service) load(ctx context.Context, owner string) Snapshot {
	snapshot, err := s.store.Load(ctx, owner)
	if err == nil {
		return snapshot
	}
	if !errors.Is(err, ErrNotFound) {
		s.log.Warn("cart load failed, starting empty", zap.String("owner", owner), zap.Error(err))
	}
	return Snapshot{}
}

func (s *Service) save(ctx context.Context, owner string, snapshot Snapshot) error {
	if err := s.store.Save(ctx, owner, snapshot); err != nil {
		s.log.Error("cart save failed", zap.String("owner", owner), zap.Error(err))
		return err
	}
	return nil
}

// withDefaultShipping selects the cheapest active method when the shopper
// has not picked one yet.
func (s *Service) withDefaultShipping(ctx context.Context, snapshot Snapshot) Snapshot {
	if snapshot.Shipping != nil {
		return snapshot
	}
	methods, err := s.shipping.ActiveMethods(ctx)
	if err != nil {
		s.log.Warn("shipping methods unavailable", zap.Error(err))
		return snapshot
	}
	if len(methods) == 0 {
		return snapshot
	}
	cheapest := methods[0]
	for _, m := range methods[1:] {
		if m.Price.LessThan(cheapest.Price) {
			cheapest = m
		}
	}
	next, err := snapshot.SelectShipping(cheapest)
	if err != nil {
		return snapshot
	}
	return next
}

func (s *Service) view(ctx context.Context, snapshot Snapshot) View {
	snapshot = s.withDefaultShipping(ctx, snapshot)
	return View{
		Snapshot:   snapshot,
		Evaluation: snapshot.Evaluate(s.now()),
	}
}

func (s *Service) Get(ctx context.Context, owner string) View {
	return s.view(ctx, s.load(ctx, owner))
}

// mutate applies fn to the stored cart and persists the result. On any
// error the stored cart is left as it was.
func (s *Service) mutate(ctx context.Context, owner string, fn func(Snapshot) (Snapshot, error)) (View, error) {
	current := s.load(ctx, owner)
	next, err := fn(current)
	if err != nil {
		return s.view(ctx, current), err
	}
	if err := s.save(ctx, owner, next); err != nil {
		return s.view(ctx, current), err
	}
	return s.view(ctx, next), nil
}

func (s *Service) AddItem(ctx context.Context, owner, productID string, quantity int) (View, error) {
	if quantity < 1 || quantity > pricing.MaxQuantity {
		return s.Get(ctx, owner), ErrInvalidQuantity
	}
	product, err := s.products.Product(ctx, productID)
	if err != nil {
		return s.Get(ctx, owner), err
	}
	s.log.Debug("adding item", zap.String("owner", owner), zap.String("product_id", productID), zap.Int("quantity", quantity))
	return s.mutate(ctx, owner, func(snapshot Snapshot) (Snapshot, error) {
		return snapshot.AddItem(product.LineItem(quantity))
	})
}

func (s *Service) SetQuantity(ctx context.Context, owner, itemID string, quantity int) (View, error) {
	return s.mutate(ctx, owner, func(snapshot Snapshot) (Snapshot, error) {
		return snapshot.SetQuantity(itemID, quantity)
	})
}

func (s *Service) RemoveItem(ctx context.Context, owner, itemID string) (View, error) {
	return s.mutate(ctx, owner, func(snapshot Snapshot) (Snapshot, error) {
		return snapshot.RemoveItem(itemID)
	})
}

func (s *Service) SelectShipping(ctx context.Context, owner, methodID string) (View, error) {
	method, err := catalog.FindMethod(ctx, s.shipping, methodID)
	if err != nil {
		return s.Get(ctx, owner), err
	}
	return s.mutate(ctx, owner, func(snapshot Snapshot) (Snapshot, error) {
		return snapshot.SelectShipping(method)
	})
}

// ApplyDiscount validates code against the current subtotal and stores it
// only when it passes. A rejected code leaves the cart untouched.
func (s *Service) ApplyDiscount(ctx context.Context, owner, code string) (View, error) {
	return s.mutate(ctx, owner, func(snapshot Snapshot) (Snapshot, error) {
		subtotal := pricing.ComputeSubtotal(snapshot.Items)
		applied, err := s.discounts.Validate(ctx, code, subtotal, s.now())
		if err != nil {
			s.log.Info("discount rejected",
				zap.String("owner", owner),
				zap.String("code", pricing.NormalizeCode(code)),
				zap.String("reason", pricing.Reason(err)))
			return snapshot, err
		}
		return snapshot.ApplyDiscount(*applied), nil
	})
}

func (s *Service) ClearDiscount(ctx context.Context, owner string) (View, error) {
	return s.mutate(ctx, owner, func(snapshot Snapshot) (Snapshot, error) {
		return snapshot.ClearDiscount(), nil
	})
}

func (s *Service) Clear(ctx context.Context, owner string) error {
	if err := s.store.Delete(ctx, owner); err != nil {
		s.log.Error("cart clear failed", zap.String("owner", owner), zap.Error(err))
		return err
	}
	return nil
}

// Checkout freezes the cart and records the bundle for payment. The cart
// itself is kept until payment is confirmed elsewhere. An applied discount
// is looked up again so its usage count is current; a code that no longer
// passes rejects the checkout.
func (s *Service) Checkout(ctx context.Context, owner string) (CheckoutBundle, error) {
	now := s.now()
	snapshot := s.withDefaultShipping(ctx, s.load(ctx, owner))
	if !snapshot.IsEmpty() && snapshot.Discount != nil {
		subtotal := pricing.ComputeSubtotal(snapshot.Items)
		fresh, err := s.discounts.Validate(ctx, snapshot.Discount.Code, subtotal, now)
		if err != nil {
			s.log.Info("discount rejected at checkout",
				zap.String("owner", owner),
				zap.String("code", snapshot.Discount.Code),
				zap.String("reason", pricing.Reason(err)),
				zap.Error(err))
			return CheckoutBundle{}, err
		}
		snapshot = snapshot.ApplyDiscount(*fresh)
	}
	bundle, err := snapshot.Checkout(checkoutReference(now), now)
	if err != nil {
		return CheckoutBundle{}, err
	}
	if err := s.recorder.Record(ctx, owner, bundle); err != nil {
		s.log.Error("checkout record failed", zap.String("owner", owner), zap.Error(err))
		return CheckoutBundle{}, err
	}
	s.log.Info("checkout handed off",
		zap.String("owner", owner),
		zap.String("reference", bundle.Reference),
		zap.String("total", bundle.Total.StringFixed(2)))
	return bundle, nil
}

// checkoutReference looks like 20250908130500-<uuid4>.
func checkoutReference(now time.Time) string {
	return now.Format("20060102150405") + "-" + uuid.NewString()
}
