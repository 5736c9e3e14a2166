package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// OrderStore defines read operations for orders. Orders are created by SweetStore.Purchase.
type OrderStore interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Order, error)
	ListAll(ctx context.Context) ([]Order, error)
}

// Order is a completed purchase.
type Order struct {
	ID          uuid.UUID   `json:"id"`
	UserID      uuid.UUID   `json:"userId"`
	UserEmail   string      `json:"userEmail,omitempty"`
	Items       []OrderItem `json:"items"`
	TotalAmount float64     `json:"totalAmount"`
	CreatedAt   time.Time   `json:"createdAt"`
}

// OrderItem is one line of an order.
type OrderItem struct {
	SweetID  uuid.UUID `json:"sweetId"`
	Name     string    `json:"name"`
	Quantity int       `json:"quantity"`
	Price    float64   `json:"price"`
}

// Total sums price*quantity over items.
func Total(items []OrderItem) float64 {
	var total float64
	for _, item := range items {
		total += item.Price * float64(item.Quantity)
	}
	return total
}

// SalesReport is the admin view over all orders.
type SalesReport struct {
	Orders       []Order `json:"orders"`
	TotalRevenue float64 `json:"totalRevenue"`
	TotalOrders  int     `json:"totalOrders"`
}
