package repository

import (
	"context"

	"github.com/smallbiznis/storefront/internal/product/domain"
	"gorm.io/gorm"
)

const productColumns = `id, name, description, price, discount, quantity,
	category_id, manufacturer_id, supplier_id, unit_id, photo_path, created_at, updated_at`

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Create(ctx context.Context, db *gorm.DB, product *domain.Product) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO products (`+productColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		product.ID,
		product.Name,
		product.Description,
		product.Price,
		product.Discount,
		product.Quantity,
		product.CategoryID,
		product.ManufacturerID,
		product.SupplierID,
		product.UnitID,
		product.PhotoPath,
		product.CreatedAt,
		product.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id int64) (*domain.Product, error) {
	var p domain.Product
	err := db.WithContext(ctx).Raw(
		`SELECT `+productColumns+` FROM products WHERE id = ?`,
		id,
	).Scan(&p).Error
	if err != nil {
		return nil, err
	}
	if p.ID == 0 {
		return nil, nil
	}
	return &p, nil
}

func (r *repo) FindAll(ctx context.Context, db *gorm.DB) ([]domain.Listing, error) {
	var items []domain.Listing
	err := db.WithContext(ctx).Raw(
		`SELECT p.id, p.name, p.description, p.price, p.discount, p.quantity,
		        p.category_id, p.manufacturer_id, p.supplier_id, p.unit_id,
		        p.photo_path, p.created_at, p.updated_at,
		        COALESCE(c.name, '') AS category_name,
		        COALESCE(m.name, '') AS manufacturer_name,
		        COALESCE(s.name, '') AS supplier_name,
		        COALESCE(u.name, '') AS unit_name,
		        COALESCE(u.short_name, '') AS unit_short_name
		 FROM products p
		 LEFT JOIN categories c ON c.id = p.category_id
		 LEFT JOIN manufacturers m ON m.id = p.manufacturer_id
		 LEFT JOIN suppliers s ON s.id = p.supplier_id
		 LEFT JOIN units u ON u.id = p.unit_id
		 ORDER BY p.created_at ASC, p.id ASC`,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) FindIDByPhotoPath(ctx context.Context, db *gorm.DB, photoPath string) (int64, error) {
	var ids []int64
	err := db.WithContext(ctx).Raw(
		`SELECT id FROM products WHERE photo_path = ? LIMIT 1`,
		photoPath,
	).Scan(&ids).Error
	if err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}
	return ids[0], nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, product *domain.Product) (int64, error) {
	if product == nil {
		return 0, gorm.ErrInvalidData
	}
	res := db.WithContext(ctx).Exec(
		`UPDATE products
		 SET name = ?, description = ?, price = ?, discount = ?, quantity = ?,
		     category_id = ?, manufacturer_id = ?, supplier_id = ?, unit_id = ?,
		     photo_path = ?, updated_at = ?
		 WHERE id = ?`,
		product.Name,
		product.Description,
		product.Price,
		product.Discount,
		product.Quantity,
		product.CategoryID,
		product.ManufacturerID,
		product.SupplierID,
		product.UnitID,
		product.PhotoPath,
		product.UpdatedAt,
		product.ID,
	)
	return res.RowsAffected, res.Error
}

func (r *repo) UpdatePhoto(ctx context.Context, db *gorm.DB, id int64, photoPath *string) (int64, error) {
	res := db.WithContext(ctx).Exec(
		`UPDATE products SET photo_path = ? WHERE id = ?`,
		photoPath,
		id,
	)
	return res.RowsAffected, res.Error
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id int64) (int64, error) {
	res := db.WithContext(ctx).Exec(`DELETE FROM products WHERE id = ?`, id)
	return res.RowsAffected, res.Error
}
