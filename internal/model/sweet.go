package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// SweetStore defines persistence operations for inventory items.
type SweetStore interface {
	Create(ctx context.Context, sweet Sweet) (Sweet, error)
	GetByID(ctx context.Context, id uuid.UUID) (Sweet, error)
	List(ctx context.Context) ([]Sweet, error)
	Update(ctx context.Context, id uuid.UUID, update SweetUpdate) (Sweet, error)
	SetImageKey(ctx context.Context, id uuid.UUID, key string) (Sweet, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Restock(ctx context.Context, id uuid.UUID, quantity int) (Sweet, error)
	// Purchase decrements stock and records the order atomically.
	Purchase(ctx context.Context, params PurchaseParams) (Sweet, Order, error)
}

// Category enumerates sweet categories.
type Category string

const (
	CategoryChocolate Category = "Chocolate"
	CategoryCandy     Category = "Candy"
	CategoryGummy     Category = "Gummy"
	CategoryHardCandy Category = "Hard Candy"
	CategoryLollipop  Category = "Lollipop"
	CategoryToffee    Category = "Toffee"
	CategoryOther     Category = "Other"
)

// Categories lists every accepted category.
var Categories = []Category{
	CategoryChocolate,
	CategoryCandy,
	CategoryGummy,
	CategoryHardCandy,
	CategoryLollipop,
	CategoryToffee,
	CategoryOther,
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Sweet is an inventory item.
type Sweet struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Category    Category  `json:"category"`
	Price       float64   `json:"price"`
	Quantity    int       `json:"quantity"`
	Description string    `json:"description,omitempty"`
	ImageKey    string    `json:"imageKey,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// SweetUpdate carries a partial update; nil fields are left unchanged.
type SweetUpdate struct {
	Name        *string
	Category    *Category
	Price       *float64
	Quantity    *int
	Description *string
}

// Empty reports whether the update changes nothing.
func (u SweetUpdate) Empty() bool {
	return u.Name == nil && u.Category == nil && u.Price == nil && u.Quantity == nil && u.Description == nil
}

// PurchaseParams describes a single-item purchase.
type PurchaseParams struct {
	SweetID  uuid.UUID
	UserID   uuid.UUID
	Quantity int
}
