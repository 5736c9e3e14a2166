package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/Harry9021/kata-sweet-shop/internal/model"
)

var _ model.SweetStore = (*SweetRepository)(nil)

type SweetRepository struct {
	db *sql.DB
}

func NewSweetRepository(db *sql.DB) *SweetRepository {
	return &SweetRepository{db: db}
}

const sweetColumns = `id, name, category, price, quantity, description, image_key, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSweet(row rowScanner) (model.Sweet, error) {
	var s model.Sweet
	err := row.Scan(&s.ID, &s.Name, &s.Category, &s.Price, &s.Quantity, &s.Description, &s.ImageKey, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

func notFoundOr(err error, format string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return model.ErrNotFound
	}
	return fmt.Errorf(format+": %w", err)
}

func (r *SweetRepository) Create(ctx context.Context, sweet model.Sweet) (model.Sweet, error) {
	query := `INSERT INTO sweets (id, name, category, price, quantity, description, image_key, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
			  RETURNING ` + sweetColumns

	if sweet.ID == uuid.Nil {
		sweet.ID = uuid.New()
	}

	saved, err := scanSweet(r.db.QueryRowContext(ctx, query,
		sweet.ID, sweet.Name, sweet.Category, sweet.Price, sweet.Quantity, sweet.Description, sweet.ImageKey,
	))
	if err != nil {
		return model.Sweet{}, fmt.Errorf("failed to create sweet: %w", err)
	}
	return saved, nil
}

func (r *SweetRepository) GetByID(ctx context.Context, id uuid.UUID) (model.Sweet, error) {
	query := `SELECT ` + sweetColumns + ` FROM sweets WHERE id = $1`

	s, err := scanSweet(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return model.Sweet{}, notFoundOr(err, "failed to get sweet")
	}
	return s, nil
}

func (r *SweetRepository) List(ctx context.Context) ([]model.Sweet, error) {
	query := `SELECT ` + sweetColumns + ` FROM sweets ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list sweets: %w", err)
	}
	defer rows.Close()

	sweets := make([]model.Sweet, 0)
	for rows.Next() {
		s, err := scanSweet(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sweet: %w", err)
		}
		sweets = append(sweets, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sweets: %w", err)
	}
	return sweets, nil
}

func (r *SweetRepository) Update(ctx context.Context, id uuid.UUID, update model.SweetUpdate) (model.Sweet, error) {
	query := `UPDATE sweets SET
				name = COALESCE($2, name),
				category = COALESCE($3, category),
				price = COALESCE($4, price),
				quantity = COALESCE($5, quantity),
				description = COALESCE($6, description),
				updated_at = NOW()
			  WHERE id = $1
			  RETURNING ` + sweetColumns

	s, err := scanSweet(r.db.QueryRowContext(ctx, query,
		id, update.Name, update.Category, update.Price, update.Quantity, update.Description,
	))
	if err != nil {
		return model.Sweet{}, notFoundOr(err, "failed to update sweet")
	}
	return s, nil
}

func (r *SweetRepository) SetImageKey(ctx context.Context, id uuid.UUID, key string) (model.Sweet, error) {
	query := `UPDATE sweets SET image_key = $2, updated_at = NOW() WHERE id = $1 RETURNING ` + sweetColumns

	s, err := scanSweet(r.db.QueryRowContext(ctx, query, id, key))
	if err != nil {
		return model.Sweet{}, notFoundOr(err, "failed to set sweet image")
	}
	return s, nil
}

func (r *SweetRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sweets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete sweet: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete sweet: %w", err)
	}
	if n == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *SweetRepository) Restock(ctx context.Context, id uuid.UUID, quantity int) (model.Sweet, error) {
	query := `UPDATE sweets SET quantity = quantity + $2, updated_at = NOW() WHERE id = $1 RETURNING ` + sweetColumns

	s, err := scanSweet(r.db.QueryRowContext(ctx, query, id, quantity))
	if err != nil {
		return model.Sweet{}, notFoundOr(err, "failed to restock sweet")
	}
	return s, nil
}

// Purchase decrements stock only while enough remains and writes the order in
// the same transaction. A shortfall returns *model.InsufficientStockError.
func (r *SweetRepository) Purchase(ctx context.Context, params model.PurchaseParams) (model.Sweet, model.Order, error) {
	var (
		sweet model.Sweet
		order model.Order
	)

	err := WithTx(ctx, r.db, func(ctx context.Context, tx DBTX) error {
		decrement := `UPDATE sweets SET quantity = quantity - $2, updated_at = NOW()
					  WHERE id = $1 AND quantity >= $2
					  RETURNING ` + sweetColumns

		var err error
		sweet, err = scanSweet(tx.QueryRowContext(ctx, decrement, params.SweetID, params.Quantity))
		if errors.Is(err, sql.ErrNoRows) {
			var available int
			err = tx.QueryRowContext(ctx, `SELECT quantity FROM sweets WHERE id = $1`, params.SweetID).Scan(&available)
			if err != nil {
				return notFoundOr(err, "failed to read stock")
			}
			return &model.InsufficientStockError{Available: available}
		}
		if err != nil {
			return fmt.Errorf("failed to decrement stock: %w", err)
		}

		order = model.Order{
			ID:     uuid.New(),
			UserID: params.UserID,
			Items: []model.OrderItem{{
				SweetID:  sweet.ID,
				Name:     sweet.Name,
				Quantity: params.Quantity,
				Price:    sweet.Price,
			}},
		}
		order.TotalAmount = model.Total(order.Items)

		err = tx.QueryRowContext(ctx,
			`INSERT INTO orders (id, user_id, total_amount, created_at) VALUES ($1, $2, $3, NOW()) RETURNING created_at`,
			order.ID, order.UserID, order.TotalAmount,
		).Scan(&order.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		for i, item := range order.Items {
			_, err = tx.ExecContext(ctx,
				`INSERT INTO order_items (order_id, position, sweet_id, name, quantity, price) VALUES ($1, $2, $3, $4, $5, $6)`,
				order.ID, i, item.SweetID, item.Name, item.Quantity, item.Price,
			)
			if err != nil {
				return fmt.Errorf("failed to create order item: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return model.Sweet{}, model.Order{}, err
	}

	return sweet, order, nil
}
