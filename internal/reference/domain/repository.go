package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	ListCategories(ctx context.Context) ([]Category, error)
	ListManufacturers(ctx context.Context) ([]Manufacturer, error)
	ListSuppliers(ctx context.Context) ([]Supplier, error)
	ListUnits(ctx context.Context) ([]Unit, error)
	LoadSet(ctx context.Context) (Set, error)
	// Exists runs on db so it can join the caller's transaction.
	Exists(ctx context.Context, db *gorm.DB, kind Kind, id int64) (bool, error)
}
