package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/Harry9021/kata-sweet-shop/internal/model"
)

var _ model.OrderStore = (*OrderRepository)(nil)

type OrderRepository struct {
	db DBTX
}

func NewOrderRepository(db DBTX) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Order, error) {
	const query = `
        SELECT o.id, o.user_id, '' AS email, o.total_amount, o.created_at,
               i.sweet_id, i.name, i.quantity, i.price
        FROM orders o
        JOIN order_items i ON i.order_id = o.id
        WHERE o.user_id = $1
        ORDER BY o.created_at DESC, o.id, i.position
    `
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders by user: %w", err)
	}
	defer rows.Close()

	return collectOrders(rows)
}

func (r *OrderRepository) ListAll(ctx context.Context) ([]model.Order, error) {
	const query = `
        SELECT o.id, o.user_id, u.email, o.total_amount, o.created_at,
               i.sweet_id, i.name, i.quantity, i.price
        FROM orders o
        JOIN users u ON u.id = o.user_id
        JOIN order_items i ON i.order_id = o.id
        ORDER BY o.created_at DESC, o.id, i.position
    `
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	return collectOrders(rows)
}

// collectOrders folds one row per item into orders. Rows must be grouped by order.
func collectOrders(rows *sql.Rows) ([]model.Order, error) {
	orders := make([]model.Order, 0)
	for rows.Next() {
		var (
			o    model.Order
			item model.OrderItem
		)
		if err := rows.Scan(&o.ID, &o.UserID, &o.UserEmail, &o.TotalAmount, &o.CreatedAt,
			&item.SweetID, &item.Name, &item.Quantity, &item.Price); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}

		if n := len(orders); n > 0 && orders[n-1].ID == o.ID {
			orders[n-1].Items = append(orders[n-1].Items, item)
			continue
		}
		o.Items = []model.OrderItem{item}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate orders: %w", err)
	}
	return orders, nil
}
