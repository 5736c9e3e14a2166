package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/Harry9021/kata-sweet-shop/internal/model"
)

// OrderStore is a mock of model.OrderStore.
type OrderStore struct {
	mock.Mock
}

var _ model.OrderStore = (*OrderStore)(nil)

func (m *OrderStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Order, error) {
	args := m.Called(ctx, userID)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Error(1)
}

func (m *OrderStore) ListAll(ctx context.Context) ([]model.Order, error) {
	args := m.Called(ctx)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Error(1)
}
