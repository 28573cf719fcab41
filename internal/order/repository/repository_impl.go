package repository

import (
	"context"

	"github.com/smallbiznis/storefront/internal/order/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Create(ctx context.Context, db *gorm.DB, order *domain.Order) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO orders (id, product_id, quantity, created_at) VALUES (?, ?, ?, ?)`,
		order.ID,
		order.ProductID,
		order.Quantity,
		order.CreatedAt,
	).Error
}

func (r *repo) ExistsForProduct(ctx context.Context, db *gorm.DB, productID int64) (bool, error) {
	var found int64
	err := db.WithContext(ctx).Raw(
		`SELECT COUNT(1) FROM (SELECT 1 FROM orders WHERE product_id = ? LIMIT 1) AS refs`,
		productID,
	).Scan(&found).Error
	if err != nil {
		return false, err
	}
	return found > 0, nil
}
