package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Harry9021/kata-sweet-shop/internal/api/http/response"
	"github.com/Harry9021/kata-sweet-shop/internal/apierror"
	"github.com/Harry9021/kata-sweet-shop/internal/logger"
	"github.com/Harry9021/kata-sweet-shop/internal/model"
)

// OrderService defines order history operations.
type OrderService interface {
	MyOrders(ctx context.Context, userID uuid.UUID) ([]model.Order, error)
	Sales(ctx context.Context) (model.SalesReport, error)
}

// Order handles the /api/orders endpoints.
type Order struct {
	orderService   OrderService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewOrder creates a new Order handler.
func NewOrder(orderService OrderService, contextManager model.ContextManager, logger *logger.Logger) *Order {
	return &Order{orderService: orderService, contextManager: contextManager, logger: logger}
}

// MyOrders lists the orders of the authenticated user.
func (h *Order) MyOrders(c *gin.Context) {
	identity, ok := h.contextManager.GetIdentityFromContext(c.Request.Context())
	if !ok {
		response.Error(c, h.logger, apierror.NewErrUnauthenticated())
		return
	}

	orders, err := h.orderService.MyOrders(c.Request.Context(), identity.UserID)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	if orders == nil {
		orders = []model.Order{}
	}

	response.Success(c, http.StatusOK, "Orders retrieved successfully", orders)
}

// Sales reports every order with totals.
func (h *Order) Sales(c *gin.Context) {
	report, err := h.orderService.Sales(c.Request.Context())
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	if report.Orders == nil {
		report.Orders = []model.Order{}
	}

	response.Success(c, http.StatusOK, "Sales data retrieved successfully", report)
}
