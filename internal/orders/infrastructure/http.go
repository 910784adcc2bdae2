package infrastructure

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"go-delivery/internal/orders/application"
	"go-delivery/internal/orders/domain"
	"go-delivery/internal/orders/ports"
	"go-delivery/pkg/errors"
	"go-delivery/pkg/middleware"
)

// HTTPHandler handles HTTP requests for orders
type HTTPHandler struct {
	service *application.OrderService
}

// NewHTTPHandler creates a new HTTP handler
func NewHTTPHandler(service *application.OrderService) *HTTPHandler {
	return &HTTPHandler{service: service}
}

// RegisterRoutes registers the order routes
func (h *HTTPHandler) RegisterRoutes(r *gin.RouterGroup) {
	orders := r.Group("/orders")
	{
		orders.POST("", h.CreateOrder)
		orders.GET("", h.ListOrders)
		orders.GET("/:id", h.GetOrder)
		orders.PATCH("/:id", h.UpdateOrder)
	}
}

// CartItemRequest is one requested cart line
type CartItemRequest struct {
	ProductID    uint   `json:"product_id" binding:"required"`
	Quantity     int    `json:"quantity" binding:"required"`
	Observations string `json:"observations"`
}

// AddressRequest is the delivery address payload
type AddressRequest struct {
	Street       string  `json:"street" binding:"required"`
	Number       string  `json:"number" binding:"required"`
	Neighborhood string  `json:"neighborhood" binding:"required"`
	PostalCode   string  `json:"postal_code" binding:"required"`
	City         string  `json:"city" binding:"required"`
	State        string  `json:"state" binding:"required"`
	Complement   string  `json:"complement"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
}

// CreateOrderRequest is the request body for creating an order. The items
// slice is deliberately unconstrained here: an empty cart is a domain rule,
// not a binding rule.
type CreateOrderRequest struct {
	CustomerID    uint              `json:"customer_id" binding:"required"`
	Items         []CartItemRequest `json:"items"`
	Address       AddressRequest    `json:"address" binding:"required"`
	DeliveryFee   *decimal.Decimal  `json:"delivery_fee"`
	Discount      *decimal.Decimal  `json:"discount"`
	ExpectedTotal *decimal.Decimal  `json:"expected_total"`
}

// UpdateOrderRequest is either a status update or a field edit
type UpdateOrderRequest struct {
	Status       *string          `json:"status"`
	Reason       string           `json:"reason"`
	DeliveryFee  *decimal.Decimal `json:"delivery_fee"`
	Discount     *decimal.Decimal `json:"discount"`
	Observations *string          `json:"observations"`
	AddressID    *uint            `json:"address_id"`
}

// ItemResponse is one line item in an order response
type ItemResponse struct {
	ProductID          uint   `json:"product_id"`
	ProductName        string `json:"product_name"`
	Quantity           int    `json:"quantity"`
	Observations       string `json:"observations,omitempty"`
	OriginalPrice      string `json:"original_price"`
	UnitPrice          string `json:"unit_price"`
	Subtotal           string `json:"subtotal"`
	HadPromotion       bool   `json:"had_promotion"`
	PromotionName      string `json:"promotion_name,omitempty"`
	Discount           string `json:"discount"`
	DiscountPercentage string `json:"discount_percentage,omitempty"`
}

// AddressResponse is the address snapshot in an order response
type AddressResponse struct {
	ID           uint    `json:"id"`
	Street       string  `json:"street"`
	Number       string  `json:"number"`
	Neighborhood string  `json:"neighborhood"`
	PostalCode   string  `json:"postal_code"`
	City         string  `json:"city"`
	State        string  `json:"state"`
	Complement   string  `json:"complement,omitempty"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
}

// OrderResponse is the response body for order operations
type OrderResponse struct {
	ID                 uint            `json:"id"`
	CustomerID         uint            `json:"customer_id"`
	Items              []ItemResponse  `json:"items"`
	Subtotal           string          `json:"subtotal"`
	DeliveryFee        string          `json:"delivery_fee"`
	Discount           string          `json:"discount"`
	Total              string          `json:"total"`
	Status             string          `json:"status"`
	Observations       string          `json:"observations,omitempty"`
	CancellationReason string          `json:"cancellation_reason,omitempty"`
	Address            AddressResponse `json:"address"`
	CreatedAt          string          `json:"created_at"`
	ConfirmedAt        *string         `json:"confirmed_at,omitempty"`
	PreparingAt        *string         `json:"preparing_at,omitempty"`
	DispatchedAt       *string         `json:"dispatched_at,omitempty"`
	DeliveredAt        *string         `json:"delivered_at,omitempty"`
	CancelledAt        *string         `json:"cancelled_at,omitempty"`
	Version            uint            `json:"version"`
}

// RedirectResponse is returned when the address is outside the delivery area
type RedirectResponse struct {
	RedirectToPartners bool              `json:"redirect_to_partners"`
	PartnerLinks       map[string]string `json:"partner_links"`
}

// CreateOrder handles POST /orders
func (h *HTTPHandler) CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewValidation("invalid request body", err.Error()))
		return
	}

	items := make([]application.CartItemInput, len(req.Items))
	for i, item := range req.Items {
		items[i] = application.CartItemInput{
			ProductID:    item.ProductID,
			Quantity:     item.Quantity,
			Observations: item.Observations,
		}
	}

	output, err := h.service.CreateOrder(c.Request.Context(), application.CreateOrderInput{
		CustomerID: req.CustomerID,
		Items:      items,
		Address: ports.AddressInput{
			Street:       req.Address.Street,
			Number:       req.Address.Number,
			Neighborhood: req.Address.Neighborhood,
			PostalCode:   req.Address.PostalCode,
			City:         req.Address.City,
			State:        req.Address.State,
			Complement:   req.Address.Complement,
			Latitude:     req.Address.Latitude,
			Longitude:    req.Address.Longitude,
		},
		DeliveryFee:   req.DeliveryFee,
		Discount:      req.Discount,
		ExpectedTotal: req.ExpectedTotal,
	})
	if err != nil {
		c.Error(err)
		return
	}

	if output.RedirectToPartners {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"data": RedirectResponse{
				RedirectToPartners: true,
				PartnerLinks:       output.PartnerLinks,
			},
			"trace_id": c.GetString(middleware.TraceIDKey),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"data":     toOrderResponse(output.Order),
		"trace_id": c.GetString(middleware.TraceIDKey),
	})
}

// GetOrder handles GET /orders/:id
func (h *HTTPHandler) GetOrder(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	output, err := h.service.GetOrder(c.Request.Context(), application.GetOrderInput{ID: id})
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":     toOrderResponse(output.Order),
		"trace_id": c.GetString(middleware.TraceIDKey),
	})
}

// ListOrders handles GET /orders?customer_id=
func (h *HTTPHandler) ListOrders(c *gin.Context) {
	customerID, err := strconv.ParseUint(c.Query("customer_id"), 10, 32)
	if err != nil {
		c.Error(errors.NewValidation("customer_id query parameter is required", nil))
		return
	}

	orders, err := h.service.ListCustomerOrders(c.Request.Context(), uint(customerID))
	if err != nil {
		c.Error(err)
		return
	}

	responses := make([]OrderResponse, len(orders))
	for i, order := range orders {
		responses[i] = toOrderResponse(order)
	}

	c.JSON(http.StatusOK, gin.H{
		"data":     responses,
		"trace_id": c.GetString(middleware.TraceIDKey),
	})
}

// UpdateOrder handles PATCH /orders/:id
func (h *HTTPHandler) UpdateOrder(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(errors.NewValidation("invalid request body", err.Error()))
		return
	}

	input := application.UpdateOrderInput{
		OrderID:      id,
		Reason:       req.Reason,
		DeliveryFee:  req.DeliveryFee,
		Discount:     req.Discount,
		Observations: req.Observations,
		AddressID:    req.AddressID,
	}

	if req.Status != nil {
		status, err := domain.ParseStatus(*req.Status)
		if err != nil {
			c.Error(err)
			return
		}
		input.Status = &status
	}

	output, err := h.service.UpdateOrder(c.Request.Context(), input)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data":     toOrderResponse(output.Order),
		"trace_id": c.GetString(middleware.TraceIDKey),
	})
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.Error(errors.NewValidation("invalid order id", nil))
		return 0, false
	}
	return uint(id), true
}

func toOrderResponse(order *domain.Order) OrderResponse {
	items := make([]ItemResponse, len(order.Items))
	for i, item := range order.Items {
		items[i] = ItemResponse{
			ProductID:     item.ProductID,
			ProductName:   item.ProductName,
			Quantity:      item.Quantity,
			Observations:  item.Observations,
			OriginalPrice: item.OriginalPrice.StringFixed(2),
			UnitPrice:     item.UnitPrice.StringFixed(2),
			Subtotal:      item.Subtotal.StringFixed(2),
			HadPromotion:  item.HadPromotion,
			PromotionName: item.PromotionName,
			Discount:      item.DiscountAmount.StringFixed(2),
		}
		if item.DiscountPercentage.IsPositive() {
			items[i].DiscountPercentage = item.DiscountPercentage.String()
		}
	}

	return OrderResponse{
		ID:                 order.ID,
		CustomerID:         order.CustomerID,
		Items:              items,
		Subtotal:           order.Subtotal.StringFixed(2),
		DeliveryFee:        order.DeliveryFee.StringFixed(2),
		Discount:           order.Discount.StringFixed(2),
		Total:              order.Total.StringFixed(2),
		Status:             string(order.Status),
		Observations:       order.Observations,
		CancellationReason: order.CancellationReason,
		Address: AddressResponse{
			ID:           order.Address.ID,
			Street:       order.Address.Street,
			Number:       order.Address.Number,
			Neighborhood: order.Address.Neighborhood,
			PostalCode:   order.Address.PostalCode,
			City:         order.Address.City,
			State:        order.Address.State,
			Complement:   order.Address.Complement,
			Latitude:     order.Address.Latitude,
			Longitude:    order.Address.Longitude,
		},
		CreatedAt:    formatTime(order.CreatedAt),
		ConfirmedAt:  formatTimePtr(order.ConfirmedAt),
		PreparingAt:  formatTimePtr(order.PreparingAt),
		DispatchedAt: formatTimePtr(order.DispatchedAt),
		DeliveredAt:  formatTimePtr(order.DeliveredAt),
		CancelledAt:  formatTimePtr(order.CancelledAt),
		Version:      order.Version,
	}
}

func formatTime(t time.Time) string {
	return t.Format(time.RFC3339)
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatTime(*t)
	return &s
}
