package infra

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"farm-market/internal/domain"

	"github.com/shopspring/decimal"
)

const (
	HeaderUserEmail = "X-User-Email"
	HeaderUserRole  = "X-User-Role"
)

// MarketClient talks to the market service for addresses and orders.
type MarketClient struct {
	baseURL    string
	httpClient *http.Client
	identity   domain.Actor
}

func NewMarketClient(baseURL string, timeout time.Duration, identity domain.Actor) *MarketClient {
	return &MarketClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		identity:   identity,
	}
}

// GetAddress returns nil, nil when the buyer has no saved address.
func (c *MarketClient) GetAddress(ctx context.Context, buyerEmail string) (*domain.Address, error) {
	var raw json.RawMessage
	err := c.do(ctx, http.MethodGet, "/api/address/"+url.PathEscape(buyerEmail), nil, &raw)
	if err != nil {
		if remote, ok := err.(*domain.RemoteError); ok && remote.StatusCode == http.StatusNotFound {
			return nil, nil
		}
		return nil, err
	}
	if len(bytes.TrimSpace(raw)) == 0 || string(bytes.TrimSpace(raw)) == "null" {
		return nil, nil
	}
	var a domain.Address
	if err := json.Unmarshal(raw, &a); err != nil {
		return nil, fmt.Errorf("%w: decode address: %v", domain.ErrTransport, err)
	}
	return &a, nil
}

func (c *MarketClient) SaveAddress(ctx context.Context, address *domain.Address) error {
	return c.do(ctx, http.MethodPost, "/api/address/save", address, nil)
}

func (c *MarketClient) DeleteAddress(ctx context.Context, buyerEmail string) error {
	return c.do(ctx, http.MethodDelete, "/api/address/"+url.PathEscape(buyerEmail), nil, nil)
}

func (c *MarketClient) CreateOrder(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodPost, "/api/orders", order, &raw); err != nil {
		return nil, err
	}
	saved, ok := decodeOrder(raw)
	if !ok {
		return order, nil
	}
	return &saved, nil
}

func (c *MarketClient) GetOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/api/orders/"+url.PathEscape(orderID), nil, &raw); err != nil {
		return nil, err
	}
	o, ok := decodeOrder(raw)
	if !ok {
		return nil, domain.ErrOrderNotFound
	}
	return &o, nil
}

func (c *MarketClient) ListOrdersForBuyer(ctx context.Context, buyerEmail string) ([]domain.Order, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/api/orders/buyer/"+url.PathEscape(buyerEmail), nil, &raw); err != nil {
		return nil, err
	}
	return decodeOrders(raw), nil
}

func (c *MarketClient) ListPendingOrders(ctx context.Context) ([]domain.Order, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, "/api/orders/pending", nil, &raw); err != nil {
		return nil, err
	}
	return decodeOrders(raw), nil
}

func (c *MarketClient) CancelOrder(ctx context.Context, orderID string) error {
	return c.do(ctx, http.MethodPost, "/api/orders/"+url.PathEscape(orderID)+"/cancel", nil, nil)
}

func (c *MarketClient) ConfirmOrder(ctx context.Context, orderID string) error {
	return c.do(ctx, http.MethodPost, "/api/orders/"+url.PathEscape(orderID)+"/confirm", nil, nil)
}

func (c *MarketClient) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.identity.Email != "" {
		req.Header.Set(HeaderUserEmail, c.identity.Email)
	}
	if c.identity.Role != "" {
		req.Header.Set(HeaderUserRole, string(c.identity.Role))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrTransport, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read response: %v", domain.ErrTransport, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &domain.RemoteError{StatusCode: resp.StatusCode, Message: errorMessage(data)}
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	if raw, ok := out.(*json.RawMessage); ok {
		*raw = append((*raw)[:0], data...)
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: decode response: %v", domain.ErrTransport, err)
	}
	return nil
}

// errorMessage prefers "message" over "error" in a JSON error body.
func errorMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if payload.Message != "" {
		return payload.Message
	}
	return payload.Error
}

// wireOrder accepts both camelCase and snake_case field names.
type wireOrder struct {
	OrderID          string           `json:"orderId"`
	OrderIDSnake     string           `json:"order_id"`
	BuyerEmail       string           `json:"buyerEmail"`
	BuyerEmailSnake  string           `json:"buyer_email"`
	FirstName        string           `json:"firstName"`
	FirstNameSnake   string           `json:"first_name"`
	LastName         string           `json:"lastName"`
	LastNameSnake    string           `json:"last_name"`
	Phone            string           `json:"phone"`
	Province         string           `json:"province"`
	District         string           `json:"district"`
	City             string           `json:"city"`
	Address          string           `json:"address"`
	Payment          string           `json:"payment"`
	DeliveryFee      *decimal.Decimal `json:"deliveryFee"`
	DeliveryFeeSnake *decimal.Decimal `json:"delivery_fee"`
	Total            *decimal.Decimal `json:"total"`
	Status           string           `json:"status"`
	OrderDate        string           `json:"orderDate"`
	OrderDateSnake   string           `json:"order_date"`
	Items            json.RawMessage  `json:"items"`
}

type wireLine struct {
	ID               uint64           `json:"id"`
	ProductID        uint64           `json:"productId"`
	ProductIDSnake   uint64           `json:"product_id"`
	ProductName      string           `json:"productName"`
	ProductNameSnake string           `json:"product_name"`
	Category         string           `json:"category"`
	Price            *decimal.Decimal `json:"price"`
	Quantity         int              `json:"quantity"`
	ImageURL         string           `json:"imageUrl"`
	ImageURLSnake    string           `json:"image_url"`
}

// decodeOrders never fails: a body that is not an array yields an empty list
// and malformed elements are skipped.
func decodeOrders(data []byte) []domain.Order {
	orders := []domain.Order{}
	var elems []json.RawMessage
	if err := json.Unmarshal(data, &elems); err != nil {
		return orders
	}
	for _, e := range elems {
		if o, ok := decodeOrder(e); ok {
			orders = append(orders, o)
		}
	}
	return orders
}

func decodeOrder(data []byte) (domain.Order, bool) {
	var w wireOrder
	if err := json.Unmarshal(data, &w); err != nil {
		log.Printf("orders: skipping malformed order: %v", err)
		return domain.Order{}, false
	}
	o := domain.Order{
		OrderID:    first(w.OrderID, w.OrderIDSnake),
		BuyerEmail: first(w.BuyerEmail, w.BuyerEmailSnake),
		ShippingDetails: domain.ShippingDetails{
			FirstName: first(w.FirstName, w.FirstNameSnake),
			LastName:  first(w.LastName, w.LastNameSnake),
			Phone:     w.Phone,
			Province:  w.Province,
			District:  w.District,
			City:      w.City,
			Address:   w.Address,
		},
		Payment:     w.Payment,
		DeliveryFee: firstDecimal(w.DeliveryFee, w.DeliveryFeeSnake),
		Total:       firstDecimal(w.Total),
		Status:      parseWireStatus(w.Status),
		OrderDate:   parseWireTime(first(w.OrderDate, w.OrderDateSnake)),
		Items:       decodeLines(w.Items),
	}
	if o.OrderID == "" {
		return domain.Order{}, false
	}
	return o, true
}

func decodeLines(data json.RawMessage) []domain.OrderLine {
	lines := []domain.OrderLine{}
	var elems []wireLine
	if err := json.Unmarshal(data, &elems); err != nil {
		return lines
	}
	for _, w := range elems {
		pid := w.ProductID
		if pid == 0 {
			pid = w.ProductIDSnake
		}
		lines = append(lines, domain.OrderLine{
			ID:          w.ID,
			ProductID:   pid,
			ProductName: first(w.ProductName, w.ProductNameSnake),
			Category:    w.Category,
			Price:       firstDecimal(w.Price),
			Quantity:    w.Quantity,
			ImageURL:    first(w.ImageURL, w.ImageURLSnake),
		})
	}
	return lines
}

func parseWireStatus(s string) domain.OrderStatus {
	if strings.TrimSpace(s) == "" {
		return domain.StatusPending
	}
	if st, ok := domain.ParseOrderStatus(s); ok {
		return st
	}
	return domain.OrderStatus(s)
}

func parseWireTime(s string) time.Time {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func first(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstDecimal(values ...*decimal.Decimal) decimal.Decimal {
	for _, v := range values {
		if v != nil {
			return *v
		}
	}
	return decimal.Zero
}
