package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/Harry9021/kata-sweet-shop/internal/apierror"
	"github.com/Harry9021/kata-sweet-shop/internal/logger"
	"github.com/Harry9021/kata-sweet-shop/internal/model"
)

// Order reads purchase history.
type Order struct {
	store  model.OrderStore
	logger *logger.Logger
}

func NewOrder(store model.OrderStore, logger *logger.Logger) *Order {
	return &Order{store: store, logger: logger}
}

// MyOrders lists the user's orders, newest first.
func (s *Order) MyOrders(ctx context.Context, userID uuid.UUID) ([]model.Order, error) {
	orders, err := s.store.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("Order service: failed to list user orders",
			"user_id", userID,
			"error", err.Error())
		return nil, apierror.NewErrInternalServerError(err)
	}
	return orders, nil
}

// Sales lists every order with its buyer and sums the revenue.
func (s *Order) Sales(ctx context.Context) (model.SalesReport, error) {
	orders, err := s.store.ListAll(ctx)
	if err != nil {
		s.logger.Error("Order service: failed to list orders",
			"error", err.Error())
		return model.SalesReport{}, apierror.NewErrInternalServerError(err)
	}

	report := model.SalesReport{Orders: orders, TotalOrders: len(orders)}
	for _, o := range orders {
		report.TotalRevenue += o.TotalAmount
	}
	return report, nil
}
