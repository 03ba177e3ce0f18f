package order

import (
	"context"
	"strings"

	"storemart-be/internal/coupon"
	"storemart-be/internal/customer"
	"storemart-be/internal/inventory"
	"storemart-be/internal/logger"
	"storemart-be/internal/metrics"
	"storemart-be/internal/product"
	"storemart-be/internal/sequence"

	"go.uber.org/zap"
)

type ItemInput struct {
	ProductID uint
	Quantity  int
}

type PlaceOrderInput struct {
	CustomerID     uint
	Items          []ItemInput
	Address        Address
	ShippingMethod ShippingMethod
	ShippingCost   float64
	PaymentMethod  PaymentMethod
	CouponCode     *string
	Note           *string
}

type Service interface {
	PlaceOrder(ctx context.Context, input PlaceOrderInput) (*Order, error)
	Get(ctx context.Context, id uint) (*Order, error)
	List(ctx context.Context, opts QueryOptions) ([]Order, error)
	UpdateOrder(ctx context.Context, id uint, patch Patch) (*Order, error)
}

type service struct {
	repo      Repository
	customers customer.Repository
	products  product.Repository
	ledger    inventory.Ledger
	coupons   coupon.Service
	seq       sequence.Generator
}

func NewService(
	repo Repository,
	customers customer.Repository,
	products product.Repository,
	ledger inventory.Ledger,
	coupons coupon.Service,
	seq sequence.Generator,
) Service {
	return &service{
		repo:      repo,
		customers: customers,
		products:  products,
		ledger:    ledger,
		coupons:   coupons,
		seq:       seq,
	}
}

type reservation struct {
	productID uint
	quantity  int
}

// releaseAll returns reserved stock after a failed placement. It runs on a
// context detached from the caller's so a timeout that aborted the order
// cannot also abort the compensation.
func (s *service) releaseAll(ctx context.Context, reserved []reservation) {
	detached := context.WithoutCancel(ctx)
	log := logger.FromCtx(ctx)

	for _, r := range reserved {
		metrics.DefaultPlacement.StockReleases.Inc()
		if _, err := s.ledger.Release(detached, r.productID, r.quantity); err != nil {
			log.Error("failed to release reserved stock",
				zap.Uint("product_id", r.productID),
				zap.Int("quantity", r.quantity),
				zap.Error(err),
			)
		}
	}
}

func (s *service) PlaceOrder(ctx context.Context, input PlaceOrderInput) (*Order, error) {
	timer := metrics.StartTimer()

	o, err := s.placeOrder(ctx, input)
	if err != nil {
		metrics.DefaultPlacement.Rejected.Inc()
		return nil, err
	}

	metrics.DefaultPlacement.Placed.Inc()
	logger.FromCtx(ctx).Debug("placement finished",
		zap.String("order_number", o.OrderNumber),
		zap.Duration("elapsed", timer.Duration()),
	)
	return o, nil
}

func (s *service) placeOrder(ctx context.Context, input PlaceOrderInput) (*Order, error) {
	log := logger.FromCtx(ctx).With(zap.Uint("customer_id", input.CustomerID))

	if len(input.Items) == 0 {
		return nil, ErrEmptyItems
	}
	for _, it := range input.Items {
		if it.Quantity < 1 {
			return nil, ErrInvalidQuantity
		}
	}
	if err := validateAddress(input.Address); err != nil {
		return nil, err
	}

	if _, err := s.customers.GetByID(ctx, input.CustomerID); err != nil {
		return nil, err
	}

	var (
		items      []Item
		reserved   []reservation
		orderTotal float64
	)

	for _, it := range input.Items {
		p, err := s.products.GetByID(ctx, it.ProductID)
		if err != nil {
			s.releaseAll(ctx, reserved)
			return nil, err
		}

		if _, err := s.ledger.Reserve(ctx, p.ID, it.Quantity); err != nil {
			s.releaseAll(ctx, reserved)
			return nil, err
		}
		reserved = append(reserved, reservation{productID: p.ID, quantity: it.Quantity})

		lineTotal := p.SellingPrice * float64(it.Quantity)
		orderTotal += lineTotal
		items = append(items, Item{
			ProductID: p.ID,
			Quantity:  it.Quantity,
			Price:     p.SellingPrice,
			LineTotal: lineTotal,
		})
	}

	var discount float64
	totalAmount := orderTotal
	if input.CouponCode != nil && *input.CouponCode != "" {
		app, err := s.coupons.Apply(ctx, *input.CouponCode, orderTotal)
		if err != nil {
			s.releaseAll(ctx, reserved)
			return nil, err
		}
		discount = app.DiscountAmount
		totalAmount = app.FinalTotal
	}

	orderNumber, err := s.seq.Next(ctx, sequence.DefaultOrderSequence)
	if err != nil {
		s.releaseAll(ctx, reserved)
		return nil, err
	}

	o := &Order{
		OrderNumber:    orderNumber,
		CustomerID:     input.CustomerID,
		Items:          items,
		CouponCode:     input.CouponCode,
		Discount:       discount,
		TotalAmount:    totalAmount,
		Note:           input.Note,
		Status:         StatusPending,
		PaymentStatus:  PaymentPending,
		ShippingMethod: input.ShippingMethod,
		ShippingCost:   input.ShippingCost,
		PaymentMethod:  input.PaymentMethod,
		Address:        input.Address,
		Comments:       []Comment{{Comment: "Order is placed"}},
	}

	if err := s.repo.Create(ctx, o); err != nil {
		s.releaseAll(ctx, reserved)
		return nil, err
	}

	// The order is durable; coupon usage is consumed afterwards so a failed
	// placement can never burn a use. If the decrement loses a race to the
	// last remaining use, the sale stands and the overdraw is logged.
	if input.CouponCode != nil && *input.CouponCode != "" {
		if err := s.coupons.Redeem(context.WithoutCancel(ctx), *input.CouponCode); err != nil {
			log.Warn("coupon redeem failed after order placement",
				zap.String("order_number", o.OrderNumber),
				zap.String("coupon_code", *input.CouponCode),
				zap.Error(err),
			)
		}
	}

	log.Info("order placed",
		zap.String("order_number", o.OrderNumber),
		zap.Float64("total_amount", o.TotalAmount),
		zap.Int("item_count", len(o.Items)),
	)

	return o, nil
}

func (s *service) Get(ctx context.Context, id uint) (*Order, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, opts QueryOptions) ([]Order, error) {
	return s.repo.List(ctx, opts)
}

func (s *service) UpdateOrder(ctx context.Context, id uint, patch Patch) (*Order, error) {
	return s.repo.Update(ctx, id, patch)
}

func validateAddress(a Address) error {
	for _, field := range []string{a.Street, a.City, a.State, a.PostalCode, a.Country} {
		if strings.TrimSpace(field) == "" {
			return ErrIncompleteAddress
		}
	}
	return nil
}
