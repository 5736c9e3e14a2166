package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/Harry9021/kata-sweet-shop/internal/model"
)

// SweetStore is a mock of model.SweetStore.
type SweetStore struct {
	mock.Mock
}

var _ model.SweetStore = (*SweetStore)(nil)

func (m *SweetStore) Create(ctx context.Context, sweet model.Sweet) (model.Sweet, error) {
	args := m.Called(ctx, sweet)
	return args.Get(0).(model.Sweet), args.Error(1)
}

func (m *SweetStore) GetByID(ctx context.Context, id uuid.UUID) (model.Sweet, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Sweet), args.Error(1)
}

func (m *SweetStore) List(ctx context.Context) ([]model.Sweet, error) {
	args := m.Called(ctx)
	sweets, _ := args.Get(0).([]model.Sweet)
	return sweets, args.Error(1)
}

func (m *SweetStore) Update(ctx context.Context, id uuid.UUID, update model.SweetUpdate) (model.Sweet, error) {
	args := m.Called(ctx, id, update)
	return args.Get(0).(model.Sweet), args.Error(1)
}

func (m *SweetStore) SetImageKey(ctx context.Context, id uuid.UUID, key string) (model.Sweet, error) {
	args := m.Called(ctx, id, key)
	return args.Get(0).(model.Sweet), args.Error(1)
}

func (m *SweetStore) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *SweetStore) Restock(ctx context.Context, id uuid.UUID, quantity int) (model.Sweet, error) {
	args := m.Called(ctx, id, quantity)
	return args.Get(0).(model.Sweet), args.Error(1)
}

func (m *SweetStore) Purchase(ctx context.Context, params model.PurchaseParams) (model.Sweet, model.Order, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(model.Sweet), args.Get(1).(model.Order), args.Error(2)
}
