package repository

import (
	"context"

	"farm-market/internal/domain"
)

// OrderRepository persists orders together with their lines.
type OrderRepository interface {
	// Create stores header and lines atomically. An existing order id yields
	// domain.ErrDuplicateOrderID.
	Create(ctx context.Context, order *domain.Order) error
	// FindByOrderID returns nil, nil when the order does not exist.
	FindByOrderID(ctx context.Context, orderID string) (*domain.Order, error)
	FindByBuyer(ctx context.Context, buyerEmail string) ([]domain.Order, error)
	FindByStatus(ctx context.Context, status domain.OrderStatus) ([]domain.Order, error)
	// UpdateStatus moves an order from one status to another only if it is
	// still in from. It returns domain.ErrOrderNotFound or
	// domain.ErrAlreadyResolved when nothing was updated.
	UpdateStatus(ctx context.Context, orderID string, from, to domain.OrderStatus) error
}

// AddressRepository keeps at most one address per buyer.
type AddressRepository interface {
	// FindByBuyer returns nil, nil when the buyer has no saved address.
	FindByBuyer(ctx context.Context, buyerEmail string) (*domain.Address, error)
	// Upsert replaces the whole record for address.BuyerEmail.
	Upsert(ctx context.Context, address *domain.Address) error
	// DeleteByBuyer reports whether a record was removed.
	DeleteByBuyer(ctx context.Context, buyerEmail string) (bool, error)
}
