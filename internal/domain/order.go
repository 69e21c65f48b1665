package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	StatusPending   OrderStatus = "Pending"
	StatusConfirmed OrderStatus = "Confirmed"
	StatusCancelled OrderStatus = "Cancelled"
)

// ParseOrderStatus accepts any casing of a known status.
func ParseOrderStatus(s string) (OrderStatus, bool) {
	for _, st := range []OrderStatus{StatusPending, StatusConfirmed, StatusCancelled} {
		if strings.EqualFold(strings.TrimSpace(s), string(st)) {
			return st, true
		}
	}
	return "", false
}

func (s OrderStatus) Terminal() bool {
	return s == StatusConfirmed || s == StatusCancelled
}

type Role string

const (
	RoleBuyer    Role = "buyer"
	RoleProducer Role = "producer"
)

func ParseRole(s string) (Role, bool) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleBuyer:
		return RoleBuyer, true
	case RoleProducer:
		return RoleProducer, true
	}
	return "", false
}

// Actor is the role holder performing an operation, identified by email.
type Actor struct {
	Email string
	Role  Role
}

// Owns reports whether the actor is the buyer identified by email.
func (a Actor) Owns(buyerEmail string) bool {
	return a.Role == RoleBuyer && NormalizeEmail(a.Email) != "" && NormalizeEmail(a.Email) == NormalizeEmail(buyerEmail)
}

// transitions lists every legal edge and the role that owns it.
var transitions = map[OrderStatus]map[OrderStatus]Role{
	StatusPending: {
		StatusConfirmed: RoleProducer,
		StatusCancelled: RoleBuyer,
	},
}

// CheckTransition reports whether role may move an order from one status to
// another. Edges owned by the other role yield ErrForbiddenTransition, a
// terminal source then yields ErrAlreadyResolved.
func CheckTransition(role Role, from, to OrderStatus) error {
	if !Owns(role, to) {
		return ErrForbiddenTransition
	}
	edges, ok := transitions[from]
	if !ok {
		return ErrAlreadyResolved
	}
	owner, ok := edges[to]
	if !ok {
		return ErrForbiddenTransition
	}
	if owner != role {
		return ErrForbiddenTransition
	}
	return nil
}

// Owns reports whether role owns the edge leading into status to.
func Owns(role Role, to OrderStatus) bool {
	for _, edges := range transitions {
		if owner, ok := edges[to]; ok && owner == role {
			return true
		}
	}
	return false
}

// ShippingDetails is the delivery snapshot captured when the order is placed.
type ShippingDetails struct {
	FirstName string `json:"firstName" gorm:"size:100;not null" validate:"required,max=100"`
	LastName  string `json:"lastName" gorm:"size:100;not null" validate:"required,max=100"`
	Phone     string `json:"phone" gorm:"size:32;not null" validate:"required,max=32"`
	Province  string `json:"province" gorm:"size:64;not null" validate:"required,province"`
	District  string `json:"district" gorm:"size:64;not null" validate:"required,district"`
	City      string `json:"city" gorm:"size:128;not null" validate:"required,max=128"`
	Address   string `json:"address" gorm:"size:255;not null" validate:"required,max=255"`
}

type Order struct {
	ID         uint64 `json:"-" gorm:"primaryKey;autoIncrement"`
	OrderID    string `json:"orderId" gorm:"size:64;not null;uniqueIndex" validate:"required,orderid"`
	BuyerEmail string `json:"buyerEmail" gorm:"size:255;not null;index" validate:"required,email"`

	ShippingDetails `gorm:"embedded"`

	Payment     string          `json:"payment" gorm:"size:64;not null" validate:"required,payment"`
	DeliveryFee decimal.Decimal `json:"deliveryFee" gorm:"type:decimal(12,2);not null"`
	Total       decimal.Decimal `json:"total" gorm:"type:decimal(12,2);not null"`
	Status      OrderStatus     `json:"status" gorm:"size:16;not null;index;default:'Pending'"`
	OrderDate   time.Time       `json:"orderDate" gorm:"not null"`
	UpdatedAt   time.Time       `json:"updatedAt"`
	Items       []OrderLine     `json:"items" gorm:"foreignKey:OrderRef;constraint:OnDelete:CASCADE" validate:"required,min=1,dive"`
}

// OrderLine is a denormalised copy of the product as it was in the cart.
type OrderLine struct {
	ID          uint64          `json:"id" gorm:"primaryKey;autoIncrement"`
	OrderRef    uint64          `json:"-" gorm:"index;not null"`
	ProductID   uint64          `json:"productId" gorm:"not null" validate:"required"`
	ProductName string          `json:"productName" gorm:"size:255;not null" validate:"required"`
	Category    string          `json:"category" gorm:"size:128"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(12,2);not null"`
	Quantity    int             `json:"quantity" gorm:"not null" validate:"min=1"`
	ImageURL    string          `json:"imageUrl" gorm:"size:512"`
}

func (l OrderLine) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Subtotal sums price×quantity over lines. Nothing is rounded.
func Subtotal(lines []OrderLine) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(l.Subtotal())
	}
	return sum
}

// OrderTotal is the amount charged for lines plus one delivery fee.
func OrderTotal(lines []OrderLine, deliveryFee decimal.Decimal) decimal.Decimal {
	return Subtotal(lines).Add(deliveryFee)
}

// NewOrder assembles a Pending order and computes its total once.
func NewOrder(orderID, buyerEmail string, shipping ShippingDetails, payment string, lines []OrderLine, deliveryFee decimal.Decimal, now time.Time) *Order {
	items := make([]OrderLine, len(lines))
	copy(items, lines)
	return &Order{
		OrderID:         orderID,
		BuyerEmail:      NormalizeEmail(buyerEmail),
		ShippingDetails: shipping,
		Payment:         payment,
		DeliveryFee:     deliveryFee,
		Total:           OrderTotal(items, deliveryFee),
		Status:          StatusPending,
		OrderDate:       now,
		Items:           items,
	}
}

// NormalizeEmail trims and lower-cases an identity so lookups are stable.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

const (
	PaymentCash           = "Cash"
	PaymentCashOnDelivery = "Cash on delivery"
	PaymentCardOnDelivery = "Card on delivery"
)

var PaymentMethods = []string{PaymentCash, PaymentCashOnDelivery, PaymentCardOnDelivery}

// DefaultDeliveryFee is the flat fee added once per order.
var DefaultDeliveryFee = decimal.NewFromInt(200)
