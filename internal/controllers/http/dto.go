package http

import (
	"farm-market/internal/domain"

	"github.com/shopspring/decimal"
)

type CreateOrderRequest struct {
	OrderID     string           `json:"orderId"`
	BuyerEmail  string           `json:"buyerEmail"`
	FirstName   string           `json:"firstName"`
	LastName    string           `json:"lastName"`
	Phone       string           `json:"phone"`
	Province    string           `json:"province"`
	District    string           `json:"district"`
	City        string           `json:"city"`
	Address     string           `json:"address"`
	Payment     string           `json:"payment"`
	DeliveryFee decimal.Decimal  `json:"deliveryFee"`
	Total       decimal.Decimal  `json:"total"`
	Items       []OrderLineInput `json:"items"`
}

type OrderLineInput struct {
	ProductID   uint64          `json:"productId"`
	ProductName string          `json:"productName"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	ImageURL    string          `json:"imageUrl"`
}

func (r CreateOrderRequest) toDomain() *domain.Order {
	lines := make([]domain.OrderLine, 0, len(r.Items))
	for _, l := range r.Items {
		lines = append(lines, domain.OrderLine{
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			Category:    l.Category,
			Price:       l.Price,
			Quantity:    l.Quantity,
			ImageURL:    l.ImageURL,
		})
	}
	return &domain.Order{
		OrderID:    r.OrderID,
		BuyerEmail: r.BuyerEmail,
		ShippingDetails: domain.ShippingDetails{
			FirstName: r.FirstName,
			LastName:  r.LastName,
			Phone:     r.Phone,
			Province:  r.Province,
			District:  r.District,
			City:      r.City,
			Address:   r.Address,
		},
		Payment:     r.Payment,
		DeliveryFee: r.DeliveryFee,
		Total:       r.Total,
		Items:       lines,
	}
}

type StatusResponse struct {
	OrderID string             `json:"orderId"`
	Status  domain.OrderStatus `json:"status"`
}
