package mongodb

import (
	"context"

	"farm-market/internal/domain"
)

// StatusHistoryInterface is the audit trail of status changes per order.
type StatusHistoryInterface interface {
	Record(ctx context.Context, change domain.StatusChange) error
	ListByOrder(ctx context.Context, orderID string) ([]domain.StatusChange, error)
}

var _ StatusHistoryInterface = (*StatusHistory)(nil)
