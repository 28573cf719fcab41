package seed

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	referencedomain "github.com/smallbiznis/storefront/internal/reference/domain"
	"gorm.io/gorm"
)

var (
	defaultCategories    = []string{"Men's shoes", "Women's shoes", "Kids' shoes", "Accessories"}
	defaultManufacturers = []string{"Kari", "Marco Tozzi", "Rieker", "Alessio Nesca"}
	defaultSuppliers     = []string{"Kari", "Obuv for you"}
	defaultUnits         = []referencedomain.Unit{
		{Name: "Pair", ShortName: "pr"},
		{Name: "Piece", ShortName: "pc"},
	}
)

// EnsureReferenceData fills empty reference tables with the default
// dimensions. Tables that already hold rows are left alone. It returns the
// number of rows inserted.
func EnsureReferenceData(db *gorm.DB, node *snowflake.Node) (int, error) {
	if db == nil {
		return 0, errors.New("seed database handle is required")
	}
	if node == nil {
		var err error
		if node, err = snowflake.NewNode(1); err != nil {
			return 0, err
		}
	}

	ctx := context.Background()
	inserted := 0
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()

		var rows []any
		empty, err := isEmpty(ctx, tx, &referencedomain.Category{})
		if err != nil {
			return err
		}
		if empty {
			for _, name := range defaultCategories {
				rows = append(rows, &referencedomain.Category{ID: node.Generate().Int64(), Name: name, CreatedAt: now})
			}
		}

		if empty, err = isEmpty(ctx, tx, &referencedomain.Manufacturer{}); err != nil {
			return err
		}
		if empty {
			for _, name := range defaultManufacturers {
				rows = append(rows, &referencedomain.Manufacturer{ID: node.Generate().Int64(), Name: name, CreatedAt: now})
			}
		}

		if empty, err = isEmpty(ctx, tx, &referencedomain.Supplier{}); err != nil {
			return err
		}
		if empty {
			for _, name := range defaultSuppliers {
				rows = append(rows, &referencedomain.Supplier{ID: node.Generate().Int64(), Name: name, CreatedAt: now})
			}
		}

		if empty, err = isEmpty(ctx, tx, &referencedomain.Unit{}); err != nil {
			return err
		}
		if empty {
			for _, unit := range defaultUnits {
				unit := unit
				unit.ID = node.Generate().Int64()
				unit.CreatedAt = now
				rows = append(rows, &unit)
			}
		}

		for _, row := range rows {
			if err := tx.WithContext(ctx).Create(row).Error; err != nil {
				return err
			}
		}
		inserted = len(rows)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}

func isEmpty(ctx context.Context, tx *gorm.DB, model any) (bool, error) {
	var count int64
	if err := tx.WithContext(ctx).Model(model).Count(&count).Error; err != nil {
		return false, err
	}
	return count == 0, nil
}
