package http

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"farm-market/internal/domain"
	"farm-market/internal/services"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	orders    *services.OrderService
	addresses *services.AddressService
	catalog   *services.CatalogService
}

func NewHandler(o *services.OrderService, a *services.AddressService, c *services.CatalogService) *Handler {
	return &Handler{orders: o, addresses: a, catalog: c}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	api.GET("/products", h.ListProducts)
	api.GET("/products/:id", h.GetProduct)

	authed := api.Group("", Identify())

	address := authed.Group("/address", RoleAllowed(domain.RoleBuyer))
	address.GET("/:buyerEmail", h.GetAddress)
	address.POST("/save", h.SaveAddress)
	address.DELETE("/:buyerEmail", h.DeleteAddress)

	orders := authed.Group("/orders")
	orders.POST("", RoleAllowed(domain.RoleBuyer), h.CreateOrder)
	orders.GET("/buyer/:email", RoleAllowed(domain.RoleBuyer), h.ListBuyerOrders)
	orders.GET("/pending", RoleAllowed(domain.RoleProducer), h.ListPendingOrders)
	orders.GET("/:orderId", h.GetOrder)
	orders.GET("/:orderId/history", h.OrderHistory)
	orders.POST("/:orderId/cancel", RoleAllowed(domain.RoleBuyer), h.CancelOrder)
	orders.POST("/:orderId/confirm", RoleAllowed(domain.RoleProducer), h.ConfirmOrder)
}

func (h *Handler) ListProducts(c *gin.Context) {
	products, err := h.catalog.ListProducts(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *Handler) GetProduct(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}
	p, err := h.catalog.GetProduct(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) GetAddress(c *gin.Context) {
	actor, _ := actorFrom(c)
	a, err := h.addresses.GetAddress(c.Request.Context(), actor, c.Param("buyerEmail"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (h *Handler) SaveAddress(c *gin.Context) {
	var req domain.Address
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	actor, _ := actorFrom(c)
	saved, err := h.addresses.SaveAddress(c.Request.Context(), actor, &req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, saved)
}

func (h *Handler) DeleteAddress(c *gin.Context) {
	actor, _ := actorFrom(c)
	if err := h.addresses.DeleteAddress(c.Request.Context(), actor, c.Param("buyerEmail")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	actor, _ := actorFrom(c)
	order, err := h.orders.PlaceOrder(c.Request.Context(), actor, req.toDomain())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

func (h *Handler) GetOrder(c *gin.Context) {
	actor, _ := actorFrom(c)
	order, err := h.orders.GetOrder(c.Request.Context(), actor, c.Param("orderId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) ListBuyerOrders(c *gin.Context) {
	actor, _ := actorFrom(c)
	orders, err := h.orders.ListOrdersForBuyer(c.Request.Context(), actor, c.Param("email"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *Handler) ListPendingOrders(c *gin.Context) {
	actor, _ := actorFrom(c)
	orders, err := h.orders.ListPendingOrders(c.Request.Context(), actor)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *Handler) OrderHistory(c *gin.Context) {
	actor, _ := actorFrom(c)
	trail, err := h.orders.OrderHistory(c.Request.Context(), actor, c.Param("orderId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, trail)
}

func (h *Handler) CancelOrder(c *gin.Context) {
	actor, _ := actorFrom(c)
	order, err := h.orders.CancelOrder(c.Request.Context(), actor, c.Param("orderId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, StatusResponse{OrderID: order.OrderID, Status: order.Status})
}

func (h *Handler) ConfirmOrder(c *gin.Context) {
	actor, _ := actorFrom(c)
	order, err := h.orders.ConfirmOrder(c.Request.Context(), actor, c.Param("orderId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, StatusResponse{OrderID: order.OrderID, Status: order.Status})
}

func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrValidation):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, domain.ErrTransport):
		status = http.StatusBadGateway
	}
	if status == http.StatusInternalServerError {
		log.Printf("http: %s %s: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(status, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
