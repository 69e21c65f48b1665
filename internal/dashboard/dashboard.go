// Package dashboard keeps the order lists shown to buyers and producers.
// Lists are fetched on mount and again after every command; nothing is
// pushed.
package dashboard

import (
	"context"
	"fmt"

	"farm-market/internal/confirm"
	"farm-market/internal/domain"
)

type BuyerAPI interface {
	ListOrdersForBuyer(ctx context.Context, buyerEmail string) ([]domain.Order, error)
	CancelOrder(ctx context.Context, orderID string) error
}

type ProducerAPI interface {
	ListPendingOrders(ctx context.Context) ([]domain.Order, error)
	ConfirmOrder(ctx context.Context, orderID string) error
}

// view is the state shared by both dashboards.
type view struct {
	orders  []domain.Order
	Message string
}

func (v *view) Orders() []domain.Order {
	out := make([]domain.Order, len(v.orders))
	copy(out, v.orders)
	return out
}

func (v *view) find(orderID string) (domain.Order, bool) {
	for _, o := range v.orders {
		if o.OrderID == orderID {
			return o, true
		}
	}
	return domain.Order{}, false
}

// load replaces the list on success and keeps the previous one otherwise.
func (v *view) load(orders []domain.Order, err error) error {
	if err != nil {
		v.Message = domain.UserMessage(err, "Failed to load orders")
		return err
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	v.orders = orders
	v.Message = ""
	return nil
}

// pendingOnly rejects commands on orders that are not offered one.
func (v *view) pendingOnly(orderID string) error {
	o, ok := v.find(orderID)
	if !ok {
		return domain.ErrOrderNotFound
	}
	if o.Status != domain.StatusPending {
		return domain.ErrAlreadyResolved
	}
	return nil
}

type BuyerOrders struct {
	view
	api   BuyerAPI
	email string
}

func NewBuyerOrders(api BuyerAPI, buyerEmail string) *BuyerOrders {
	return &BuyerOrders{api: api, email: domain.NormalizeEmail(buyerEmail)}
}

func (b *BuyerOrders) Refresh(ctx context.Context) error {
	return b.load(b.api.ListOrdersForBuyer(ctx, b.email))
}

// CanCancel reports whether the cancel action is offered for o.
func (b *BuyerOrders) CanCancel(o domain.Order) bool {
	return o.Status == domain.StatusPending
}

// Cancel asks c, cancels and refetches. A failed refetch after a successful
// cancel only sets Message.
func (b *BuyerOrders) Cancel(ctx context.Context, orderID string, c confirm.Confirmer) error {
	if err := b.pendingOnly(orderID); err != nil {
		return err
	}
	if err := confirm.Ask(ctx, c, fmt.Sprintf("Cancel order %s?", orderID)); err != nil {
		return err
	}
	if err := b.api.CancelOrder(ctx, orderID); err != nil {
		b.Message = domain.UserMessage(err, "Failed to cancel order")
		return err
	}
	_ = b.Refresh(ctx)
	return nil
}

type ProducerOrders struct {
	view
	api ProducerAPI
}

func NewProducerOrders(api ProducerAPI) *ProducerOrders {
	return &ProducerOrders{api: api}
}

func (p *ProducerOrders) Refresh(ctx context.Context) error {
	return p.load(p.api.ListPendingOrders(ctx))
}

func (p *ProducerOrders) CanConfirm(o domain.Order) bool {
	return o.Status == domain.StatusPending
}

func (p *ProducerOrders) Confirm(ctx context.Context, orderID string, c confirm.Confirmer) error {
	if err := p.pendingOnly(orderID); err != nil {
		return err
	}
	if err := confirm.Ask(ctx, c, fmt.Sprintf("Confirm order %s?", orderID)); err != nil {
		return err
	}
	if err := p.api.ConfirmOrder(ctx, orderID); err != nil {
		p.Message = domain.UserMessage(err, "Failed to confirm order")
		return err
	}
	_ = p.Refresh(ctx)
	return nil
}
