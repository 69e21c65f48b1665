package session

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"farm-market/internal/addressbook"
	"farm-market/internal/confirm"
	httpapi "farm-market/internal/controllers/http"
	"farm-market/internal/domain"
	"farm-market/internal/infra"
	"farm-market/internal/infra/database/sqlitetest"
	mysqlrepo "farm-market/internal/repository/mysql"
	"farm-market/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var catalogProducts = []domain.Product{
	{ID: 1, Name: "Carrot", Category: "Vegetables", Price: decimal.NewFromInt(500), ImageURL: "carrot.png"},
	{ID: 2, Name: "Leeks", Category: "Vegetables", Price: decimal.NewFromInt(300), ImageURL: "leeks.png"},
}

func newCatalogServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/products" {
			_ = json.NewEncoder(w).Encode(catalogProducts)
			return
		}
		for _, p := range catalogProducts {
			if r.URL.Path == fmt.Sprintf("/products/%d", p.ID) {
				_ = json.NewEncoder(w).Encode(p)
				return
			}
		}
		http.NotFound(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newMarketServer(t *testing.T) *httptest.Server {
	t.Helper()
	return newMarketServerWithFee(t, decimal.NewFromInt(200))
}

func newMarketServerWithFee(t *testing.T, fee decimal.Decimal) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := sqlitetest.Open(t)
	catalog := newCatalogServer(t)
	orders := services.NewOrderService(mysqlrepo.NewOrderRepository(db), nil)
	orders.SetDeliveryFee(fee)

	r := gin.New()
	httpapi.NewHandler(
		orders,
		services.NewAddressService(mysqlrepo.NewAddressRepository(db)),
		services.NewCatalogService(infra.NewCatalogClient(catalog.URL, time.Second)),
	).RegisterRoutes(r)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func TestEndToEnd_PlaceConfirmAndList(t *testing.T) {
	ctx := context.Background()
	market := newMarketServer(t)
	fee := decimal.NewFromInt(200)
	opts := Options{BaseURL: market.URL, Timeout: 2 * time.Second, DeliveryFee: &fee}

	buyer := ConnectBuyer(opts, "Nimal@Example.com")
	producer := ConnectProducer(opts, "farmer@example.com")

	buyer.Mount(ctx)
	require.Equal(t, addressbook.ModeEdit, buyer.Address.Mode())
	for f, v := range map[addressbook.Field]string{
		addressbook.FieldFirstName: "Nimal", addressbook.FieldLastName: "Perera",
		addressbook.FieldPhone: "0771234567", addressbook.FieldProvince: "Western Province",
		addressbook.FieldDistrict: "Colombo", addressbook.FieldCityAddress: "12 Temple Road",
	} {
		require.NoError(t, buyer.Address.Set(f, v))
	}
	require.NoError(t, buyer.Address.Save(ctx), buyer.Address.Message)

	// A fresh session sees the saved address read-only.
	again := ConnectBuyer(opts, "nimal@example.com")
	again.Mount(ctx)
	assert.Equal(t, addressbook.ModeView, again.Address.Mode())
	assert.Equal(t, "12 Temple Road", again.Address.Address().CityAddress)

	for _, id := range []uint64{1, 1, 2} {
		_, err := buyer.AddToCart(ctx, id)
		require.NoError(t, err)
	}
	assert.True(t, decimal.NewFromInt(1300).Equal(buyer.Cart.Total()), buyer.Cart.Total().String())
	assert.True(t, decimal.NewFromInt(1500).Equal(buyer.CheckoutTotal()))

	order, err := buyer.PlaceOrder(ctx, buyer.CheckoutForm())
	require.NoError(t, err, buyer.Message)
	assert.True(t, domain.ValidOrderID(order.OrderID), order.OrderID)
	assert.True(t, decimal.NewFromInt(1500).Equal(order.Total), order.Total.String())
	assert.Equal(t, 0, buyer.Cart.Len())

	require.Len(t, buyer.Orders.Orders(), 1)
	assert.Equal(t, order.OrderID, buyer.Orders.Orders()[0].OrderID)
	assert.Equal(t, domain.StatusPending, buyer.Orders.Orders()[0].Status)
	require.Len(t, buyer.Orders.Orders()[0].Items, 2)

	producer.Mount(ctx)
	require.Len(t, producer.Orders.Orders(), 1)
	require.NoError(t, producer.Orders.Confirm(ctx, order.OrderID, confirm.Always))
	assert.Empty(t, producer.Orders.Orders())

	require.NoError(t, buyer.Orders.Refresh(ctx))
	assert.Equal(t, domain.StatusConfirmed, buyer.Orders.Orders()[0].Status)

	// Cancel is refused locally, and the server refuses it too.
	assert.ErrorIs(t, buyer.Orders.Cancel(ctx, order.OrderID, confirm.Always), domain.ErrAlreadyResolved)
	api := infra.NewMarketClient(market.URL, time.Second, domain.Actor{Email: "nimal@example.com", Role: domain.RoleBuyer})
	err = api.CancelOrder(ctx, order.OrderID)
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, "conflict: order is no longer pending", domain.UserMessage(err, "Failed to cancel order"))

	stored, err := api.GetOrder(ctx, order.OrderID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, stored.Status)
}

func TestEndToEnd_CancelAndDeleteAddress(t *testing.T) {
	ctx := context.Background()
	market := newMarketServer(t)
	opts := Options{BaseURL: market.URL}

	buyer := ConnectBuyer(opts, "nimal@example.com")
	producer := ConnectProducer(opts, "farmer@example.com")

	buyer.Mount(ctx)
	for f, v := range map[addressbook.Field]string{
		addressbook.FieldFirstName: "Nimal", addressbook.FieldLastName: "Perera",
		addressbook.FieldPhone: "0771234567", addressbook.FieldProvince: "Central Province",
		addressbook.FieldDistrict: "Kandy", addressbook.FieldCityAddress: "4 Lake Road",
	} {
		require.NoError(t, buyer.Address.Set(f, v))
	}
	require.NoError(t, buyer.Address.Save(ctx))

	_, err := buyer.AddToCart(ctx, 2)
	require.NoError(t, err)
	form := buyer.CheckoutForm()
	form.Payment = domain.PaymentCardOnDelivery
	order, err := buyer.PlaceOrder(ctx, form)
	require.NoError(t, err, buyer.Message)
	assert.True(t, decimal.NewFromInt(500).Equal(order.Total))

	require.NoError(t, buyer.Orders.Cancel(ctx, order.OrderID, confirm.Always))
	assert.Equal(t, domain.StatusCancelled, buyer.Orders.Orders()[0].Status)

	producer.Mount(ctx)
	assert.Empty(t, producer.Orders.Orders())

	require.NoError(t, buyer.Address.Delete(ctx, confirm.Always))
	fresh := ConnectBuyer(opts, "nimal@example.com")
	fresh.Mount(ctx)
	assert.Equal(t, addressbook.ModeEdit, fresh.Address.Mode())
	assert.False(t, fresh.Address.HasSaved())
}

func TestEndToEnd_DeliveryFeeDefaultsAndOverride(t *testing.T) {
	ctx := context.Background()
	saveAddress := func(t *testing.T, b *Buyer) {
		t.Helper()
		b.Mount(ctx)
		for f, v := range map[addressbook.Field]string{
			addressbook.FieldFirstName: "Nimal", addressbook.FieldLastName: "Perera",
			addressbook.FieldPhone: "0771234567", addressbook.FieldProvince: "Western Province",
			addressbook.FieldDistrict: "Colombo", addressbook.FieldCityAddress: "12 Temple Road",
		} {
			require.NoError(t, b.Address.Set(f, v))
		}
		require.NoError(t, b.Address.Save(ctx), b.Address.Message)
	}

	t.Run("unset fee uses the default", func(t *testing.T) {
		market := newMarketServerWithFee(t, domain.DefaultDeliveryFee)
		buyer := ConnectBuyer(Options{BaseURL: market.URL, Timeout: 2 * time.Second}, "nimal@example.com")
		saveAddress(t, buyer)

		_, err := buyer.AddToCart(ctx, 1)
		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(700).Equal(buyer.CheckoutTotal()), buyer.CheckoutTotal().String())

		order, err := buyer.PlaceOrder(ctx, buyer.CheckoutForm())
		require.NoError(t, err, buyer.Message)
		assert.True(t, decimal.NewFromInt(700).Equal(order.Total), order.Total.String())
	})

	t.Run("zero fee is free delivery", func(t *testing.T) {
		market := newMarketServerWithFee(t, decimal.Zero)
		free := decimal.Zero
		buyer := ConnectBuyer(Options{BaseURL: market.URL, DeliveryFee: &free}, "nimal@example.com")
		saveAddress(t, buyer)

		_, err := buyer.AddToCart(ctx, 2)
		require.NoError(t, err)
		order, err := buyer.PlaceOrder(ctx, buyer.CheckoutForm())
		require.NoError(t, err, buyer.Message)
		assert.True(t, decimal.NewFromInt(300).Equal(order.Total), order.Total.String())
	})
}
