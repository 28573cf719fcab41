package reference

import (
	"context"
	"fmt"

	"github.com/smallbiznis/storefront/internal/reference/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) domain.Repository {
	return &repository{db: db}
}

func (r *repository) ListCategories(ctx context.Context) ([]domain.Category, error) {
	var items []domain.Category
	err := r.db.WithContext(ctx).
		Raw(`SELECT id, name, created_at FROM categories ORDER BY name`).
		Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) ListManufacturers(ctx context.Context) ([]domain.Manufacturer, error) {
	var items []domain.Manufacturer
	err := r.db.WithContext(ctx).
		Raw(`SELECT id, name, created_at FROM manufacturers ORDER BY name`).
		Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) ListSuppliers(ctx context.Context) ([]domain.Supplier, error) {
	var items []domain.Supplier
	err := r.db.WithContext(ctx).
		Raw(`SELECT id, name, created_at FROM suppliers ORDER BY name`).
		Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) ListUnits(ctx context.Context) ([]domain.Unit, error) {
	var items []domain.Unit
	err := r.db.WithContext(ctx).
		Raw(`SELECT id, name, short_name, created_at FROM units ORDER BY name`).
		Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) LoadSet(ctx context.Context) (domain.Set, error) {
	var (
		set domain.Set
		err error
	)
	if set.Categories, err = r.ListCategories(ctx); err != nil {
		return domain.Set{}, err
	}
	if set.Manufacturers, err = r.ListManufacturers(ctx); err != nil {
		return domain.Set{}, err
	}
	if set.Suppliers, err = r.ListSuppliers(ctx); err != nil {
		return domain.Set{}, err
	}
	if set.Units, err = r.ListUnits(ctx); err != nil {
		return domain.Set{}, err
	}
	return set, nil
}

func (r *repository) Exists(ctx context.Context, db *gorm.DB, kind domain.Kind, id int64) (bool, error) {
	table := kind.Table()
	if table == "" {
		return false, fmt.Errorf("unknown reference kind %q", kind)
	}
	if db == nil {
		db = r.db
	}

	var count int64
	err := db.WithContext(ctx).
		Raw(`SELECT COUNT(1) FROM `+table+` WHERE id = ?`, id).
		Scan(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
