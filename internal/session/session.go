// Package session wires the buyer and producer dashboards. Each session owns
// its own state; nothing is shared between sessions.
package session

import (
	"context"
	"time"

	"farm-market/internal/addressbook"
	"farm-market/internal/cart"
	"farm-market/internal/checkout"
	"farm-market/internal/dashboard"
	"farm-market/internal/domain"
	"farm-market/internal/infra"

	"github.com/shopspring/decimal"
)

// Options configure sessions that talk to a market server.
type Options struct {
	BaseURL       string
	Timeout       time.Duration
	// DeliveryFee must match the server's fee. Nil means
	// domain.DefaultDeliveryFee; a zero value means free delivery.
	DeliveryFee   *decimal.Decimal
	OrderIDPrefix string
}

func (o Options) timeout() time.Duration {
	if o.Timeout <= 0 {
		return 5 * time.Second
	}
	return o.Timeout
}

func (o Options) deliveryFee() decimal.Decimal {
	if o.DeliveryFee == nil {
		return domain.DefaultDeliveryFee
	}
	return *o.DeliveryFee
}

// BuyerAPI is everything a buyer session needs from the market server.
type BuyerAPI interface {
	addressbook.Store
	checkout.OrderCreator
	dashboard.BuyerAPI
}

type Catalog interface {
	GetProductById(ctx context.Context, id uint64) (*domain.Product, error)
}

type Buyer struct {
	Email   string
	Cart    *cart.Cart
	Address *addressbook.Panel
	Orders  *dashboard.BuyerOrders
	// Message is the last user-visible checkout failure.
	Message string

	catalog Catalog
	placer  *checkout.Placer
}

func NewBuyer(email string, api BuyerAPI, catalog Catalog, ids *domain.OrderIDGenerator, deliveryFee decimal.Decimal) *Buyer {
	email = domain.NormalizeEmail(email)
	return &Buyer{
		Email:   email,
		Cart:    cart.New(),
		Address: addressbook.NewPanel(api, email),
		Orders:  dashboard.NewBuyerOrders(api, email),
		catalog: catalog,
		placer:  checkout.NewPlacer(api, ids, deliveryFee),
	}
}

// ConnectBuyer builds a buyer session against the server at opts.BaseURL.
func ConnectBuyer(opts Options, email string) *Buyer {
	api := infra.NewMarketClient(opts.BaseURL, opts.timeout(), domain.Actor{Email: email, Role: domain.RoleBuyer})
	catalog := infra.NewCatalogClient(opts.BaseURL+"/api", opts.timeout())
	return NewBuyer(email, api, catalog, domain.NewOrderIDGenerator(opts.OrderIDPrefix), opts.deliveryFee())
}

// Mount loads the saved address and the order list.
func (b *Buyer) Mount(ctx context.Context) {
	b.Address.Mount(ctx)
	_ = b.Orders.Refresh(ctx)
}

// AddToCart looks the product up and adds it with its current price.
func (b *Buyer) AddToCart(ctx context.Context, productID uint64) (cart.Line, error) {
	p, err := b.catalog.GetProductById(ctx, productID)
	if err != nil {
		return cart.Line{}, err
	}
	if p == nil {
		return cart.Line{}, domain.ErrProductNotFound
	}
	return b.Cart.Add(*p), nil
}

// CheckoutForm starts checkout from the saved address, if any.
func (b *Buyer) CheckoutForm() checkout.Form {
	if !b.Address.HasSaved() {
		return checkout.Prefill(nil)
	}
	a := b.Address.Address()
	return checkout.Prefill(&a)
}

// CheckoutTotal is the cart total plus the delivery fee.
func (b *Buyer) CheckoutTotal() decimal.Decimal {
	return b.placer.Total(b.Cart.Snapshot())
}

// PlaceOrder submits the cart. Only a successful placement clears the cart
// and refreshes the order list.
func (b *Buyer) PlaceOrder(ctx context.Context, form checkout.Form) (*domain.Order, error) {
	order, err := b.placer.Place(ctx, b.Email, b.Cart.Snapshot(), form)
	if err != nil {
		b.Message = domain.UserMessage(err, "Failed to place order")
		return nil, err
	}
	b.Message = ""
	b.Cart.Clear()
	_ = b.Orders.Refresh(ctx)
	return order, nil
}

type Producer struct {
	Email  string
	Orders *dashboard.ProducerOrders
}

func NewProducer(email string, api dashboard.ProducerAPI) *Producer {
	return &Producer{Email: domain.NormalizeEmail(email), Orders: dashboard.NewProducerOrders(api)}
}

func ConnectProducer(opts Options, email string) *Producer {
	api := infra.NewMarketClient(opts.BaseURL, opts.timeout(), domain.Actor{Email: email, Role: domain.RoleProducer})
	return NewProducer(email, api)
}

func (p *Producer) Mount(ctx context.Context) {
	_ = p.Orders.Refresh(ctx)
}
