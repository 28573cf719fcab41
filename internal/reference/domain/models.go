package domain

import "time"

type Category struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"type:text;not null;uniqueIndex"`
	CreatedAt time.Time `json:"created_at,omitempty" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Category) TableName() string { return "categories" }

type Manufacturer struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"type:text;not null;uniqueIndex"`
	CreatedAt time.Time `json:"created_at,omitempty" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Manufacturer) TableName() string { return "manufacturers" }

type Supplier struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"type:text;not null;uniqueIndex"`
	CreatedAt time.Time `json:"created_at,omitempty" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Supplier) TableName() string { return "suppliers" }

type Unit struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"type:text;not null;uniqueIndex"`
	ShortName string    `json:"short_name" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at,omitempty" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Unit) TableName() string { return "units" }

// Label is the combined display form, e.g. "Pair (pr)".
func (u Unit) Label() string {
	if u.ShortName == "" {
		return u.Name
	}
	return u.Name + " (" + u.ShortName + ")"
}

// Kind names a reference dimension.
type Kind string

const (
	KindCategory     Kind = "category"
	KindManufacturer Kind = "manufacturer"
	KindSupplier     Kind = "supplier"
	KindUnit         Kind = "unit"
)

func (k Kind) Table() string {
	switch k {
	case KindCategory:
		return "categories"
	case KindManufacturer:
		return "manufacturers"
	case KindSupplier:
		return "suppliers"
	case KindUnit:
		return "units"
	default:
		return ""
	}
}
