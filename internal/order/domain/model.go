package domain

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// Order is the slice of an order that the catalog cares about: which product
// it references.
type Order struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	ProductID int64     `json:"product_id" gorm:"column:product_id;not null;index"`
	Quantity  int       `json:"quantity" gorm:"not null;default:1"`
	CreatedAt time.Time `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Order) TableName() string { return "orders" }

type Repository interface {
	Create(ctx context.Context, db *gorm.DB, order *Order) error
	ExistsForProduct(ctx context.Context, db *gorm.DB, productID int64) (bool, error)
}
