package services

import (
	"time"

	"farm-market/internal/domain"

	"github.com/shopspring/decimal"
)

const (
	TestBuyerEmail    = "nimal@example.com"
	TestProducerEmail = "farmer@example.com"
	TestOrderID       = "ORD20250102030405678-417"
)

var (
	testBuyer    = domain.Actor{Email: TestBuyerEmail, Role: domain.RoleBuyer}
	testProducer = domain.Actor{Email: TestProducerEmail, Role: domain.RoleProducer}
	testNow      = time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
)

func CreateMockShipping() domain.ShippingDetails {
	return domain.ShippingDetails{
		FirstName: "Nimal",
		LastName:  "Perera",
		Phone:     "0771234567",
		Province:  "Western Province",
		District:  "Colombo",
		City:      "12 Temple Road",
		Address:   "12 Temple Road",
	}
}

func CreateMockLines() []domain.OrderLine {
	return []domain.OrderLine{
		{ProductID: 1, ProductName: "Carrot", Category: "Vegetables", Price: decimal.NewFromInt(500), Quantity: 2},
		{ProductID: 2, ProductName: "Leeks", Category: "Vegetables", Price: decimal.NewFromInt(300), Quantity: 1},
	}
}

// CreateMockOrderInput is what a buyer session submits.
func CreateMockOrderInput(orderID string) *domain.Order {
	return &domain.Order{
		OrderID:         orderID,
		BuyerEmail:      TestBuyerEmail,
		ShippingDetails: CreateMockShipping(),
		Payment:         domain.PaymentCash,
		Items:           CreateMockLines(),
	}
}

func CreateMockOrder(orderID string, status domain.OrderStatus) *domain.Order {
	o := domain.NewOrder(orderID, TestBuyerEmail, CreateMockShipping(), domain.PaymentCash, CreateMockLines(), domain.DefaultDeliveryFee, testNow)
	o.Status = status
	return o
}

func CreateMockProduct(id uint64, name string, price int64) *domain.Product {
	return &domain.Product{
		ID:       id,
		Name:     name,
		Category: "Vegetables",
		Price:    decimal.NewFromInt(price),
	}
}
