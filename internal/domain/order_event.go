package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	EventOrderPlaced    = "order.placed"
	EventOrderConfirmed = "order.confirmed"
	EventOrderCancelled = "order.cancelled"
)

type OrderPlacedEvent struct {
	OrderID    string          `json:"orderId"`
	BuyerEmail string          `json:"buyerEmail"`
	Total      decimal.Decimal `json:"total"`
	Lines      int             `json:"lines"`
	OrderDate  time.Time       `json:"orderDate"`
}

type OrderStatusChangedEvent struct {
	OrderID    string      `json:"orderId"`
	BuyerEmail string      `json:"buyerEmail"`
	OldStatus  OrderStatus `json:"oldStatus"`
	NewStatus  OrderStatus `json:"newStatus"`
	ChangedBy  string      `json:"changedBy"`
	ChangedAt  time.Time   `json:"changedAt"`
}

// StatusChange is one entry of an order's audit trail.
type StatusChange struct {
	OrderID   string      `json:"orderId" bson:"order_id"`
	OldStatus OrderStatus `json:"oldStatus" bson:"old_status"`
	NewStatus OrderStatus `json:"newStatus" bson:"new_status"`
	ChangedBy string      `json:"changedBy" bson:"changed_by"`
	Role      Role        `json:"role" bson:"role"`
	Timestamp time.Time   `json:"timestamp" bson:"timestamp"`
}

func EventForStatus(s OrderStatus) string {
	switch s {
	case StatusConfirmed:
		return EventOrderConfirmed
	case StatusCancelled:
		return EventOrderCancelled
	}
	return EventOrderPlaced
}
