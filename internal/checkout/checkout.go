// Package checkout turns a cart snapshot, delivery details and a payment
// label into a placed order.
package checkout

import (
	"context"
	"errors"
	"log"
	"time"

	"farm-market/internal/domain"

	"github.com/shopspring/decimal"
)

const DefaultMaxAttempts = 3

// Form is the delivery and payment step of checkout.
type Form struct {
	FirstName string
	LastName  string
	Phone     string
	Province  string
	District  string
	City      string
	Address   string
	Payment   string
}

// Prefill starts a form from the saved address. The saved city/address line
// fills both the city and the address fields.
func Prefill(a *domain.Address) Form {
	f := Form{Payment: domain.PaymentCash}
	if a == nil {
		return f
	}
	f.FirstName = a.FirstName
	f.LastName = a.LastName
	f.Phone = a.Phone
	f.Province = a.Province
	f.District = a.District
	f.City = a.CityAddress
	f.Address = a.CityAddress
	return f
}

func (f Form) Shipping() domain.ShippingDetails {
	return domain.ShippingDetails{
		FirstName: f.FirstName,
		LastName:  f.LastName,
		Phone:     f.Phone,
		Province:  f.Province,
		District:  f.District,
		City:      f.City,
		Address:   f.Address,
	}
}

func (f Form) Validate() error {
	if err := domain.ValidateShipping(f.Shipping()); err != nil {
		return err
	}
	if !domain.IsPaymentMethod(f.Payment) {
		return &domain.ValidationError{Fields: []string{"payment"}, Reason: "choose a payment method"}
	}
	return nil
}

// OrderCreator is the durable write, usually *infra.MarketClient.
type OrderCreator interface {
	CreateOrder(ctx context.Context, order *domain.Order) (*domain.Order, error)
}

// Placer builds and submits orders. Ids are generated here, so a conflict
// from the store is retried with a fresh id.
type Placer struct {
	api         OrderCreator
	ids         *domain.OrderIDGenerator
	fee         decimal.Decimal
	MaxAttempts int
	now         func() time.Time
}

func NewPlacer(api OrderCreator, ids *domain.OrderIDGenerator, deliveryFee decimal.Decimal) *Placer {
	if ids == nil {
		ids = domain.NewOrderIDGenerator("")
	}
	return &Placer{
		api:         api,
		ids:         ids,
		fee:         deliveryFee,
		MaxAttempts: DefaultMaxAttempts,
		now:         time.Now,
	}
}

func (p *Placer) DeliveryFee() decimal.Decimal { return p.fee }

// Total is what the buyer will be charged for lines.
func (p *Placer) Total(lines []domain.OrderLine) decimal.Decimal {
	return domain.OrderTotal(lines, p.fee)
}

// Place validates everything locally, then submits. Nothing is sent when
// validation fails.
func (p *Placer) Place(ctx context.Context, buyerEmail string, lines []domain.OrderLine, form Form) (*domain.Order, error) {
	if len(lines) == 0 {
		return nil, domain.ErrEmptyCart
	}
	if err := form.Validate(); err != nil {
		return nil, err
	}

	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	var lastErr error
	for i := 0; i < attempts; i++ {
		order := domain.NewOrder(p.ids.Next(), buyerEmail, form.Shipping(), form.Payment, lines, p.fee, p.now())
		if err := domain.ValidateOrder(order); err != nil {
			return nil, err
		}
		saved, err := p.api.CreateOrder(ctx, order)
		if err == nil {
			return saved, nil
		}
		lastErr = err
		if !errors.Is(err, domain.ErrConflict) {
			return nil, err
		}
		log.Printf("checkout: order id %s taken, retrying", order.OrderID)
	}
	return nil, lastErr
}
