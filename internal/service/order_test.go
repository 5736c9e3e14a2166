package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Harry9021/kata-sweet-shop/internal/apierror"
	servermocks "github.com/Harry9021/kata-sweet-shop/internal/mocks"
	"github.com/Harry9021/kata-sweet-shop/internal/model"
	"github.com/Harry9021/kata-sweet-shop/internal/testutil"
)

func TestOrder_Sales(t *testing.T) {
	ctx := context.Background()
	store := &servermocks.OrderStore{}
	orders := []model.Order{
		{ID: uuid.New(), TotalAmount: 2.5},
		{ID: uuid.New(), TotalAmount: 4},
	}
	store.On("ListAll", ctx).Return(orders, nil)

	report, err := NewOrder(store, testutil.MakeNoopLogger()).Sales(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, report.TotalOrders)
	assert.InDelta(t, 6.5, report.TotalRevenue, 1e-9)
	assert.Equal(t, orders, report.Orders)
}

func TestOrder_MyOrders(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	store := &servermocks.OrderStore{}
	store.On("ListByUser", ctx, userID).Return([]model.Order{{ID: uuid.New(), UserID: userID}}, nil)

	got, err := NewOrder(store, testutil.MakeNoopLogger()).MyOrders(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestOrder_StoreFailure(t *testing.T) {
	ctx := context.Background()
	store := &servermocks.OrderStore{}
	store.On("ListAll", ctx).Return(nil, assert.AnError)

	_, err := NewOrder(store, testutil.MakeNoopLogger()).Sales(ctx)
	assert.ErrorIs(t, err, apierror.ErrInternal)
}
