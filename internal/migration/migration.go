package migration

import (
	"errors"
	"fmt"

	orderdomain "github.com/smallbiznis/storefront/internal/order/domain"
	productdomain "github.com/smallbiznis/storefront/internal/product/domain"
	referencedomain "github.com/smallbiznis/storefront/internal/reference/domain"
	"gorm.io/gorm"
)

// Models lists the catalog tables in dependency order.
func Models() []any {
	return []any{
		&referencedomain.Category{},
		&referencedomain.Manufacturer{},
		&referencedomain.Supplier{},
		&referencedomain.Unit{},
		&productdomain.Product{},
		&orderdomain.Order{},
	}
}

// RunMigrations creates or upgrades the catalog schema so the storefront is
// usable out of the box against an empty database file.
func RunMigrations(db *gorm.DB) error {
	if db == nil {
		return errors.New("migration database handle is required")
	}
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}
