package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, db *gorm.DB, product *Product) error
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*Product, error)
	FindAll(ctx context.Context, db *gorm.DB) ([]Listing, error)
	FindIDByPhotoPath(ctx context.Context, db *gorm.DB, photoPath string) (int64, error)
	Update(ctx context.Context, db *gorm.DB, product *Product) (int64, error)
	UpdatePhoto(ctx context.Context, db *gorm.DB, id int64, photoPath *string) (int64, error)
	Delete(ctx context.Context, db *gorm.DB, id int64) (int64, error)
}
