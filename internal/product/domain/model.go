package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID             int64           `json:"id" gorm:"primaryKey"`
	Name           string          `json:"name" gorm:"type:text;not null"`
	Description    *string         `json:"description,omitempty" gorm:"type:text"`
	Price          decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	Discount       decimal.Decimal `json:"discount" gorm:"type:decimal(5,2);not null;default:0"`
	Quantity       int             `json:"quantity" gorm:"not null;default:0"`
	CategoryID     *int64          `json:"category_id,omitempty" gorm:"column:category_id;index"`
	ManufacturerID *int64          `json:"manufacturer_id,omitempty" gorm:"column:manufacturer_id;index"`
	SupplierID     *int64          `json:"supplier_id,omitempty" gorm:"column:supplier_id;index"`
	UnitID         *int64          `json:"unit_id,omitempty" gorm:"column:unit_id"`
	PhotoPath      *string         `json:"photo_path,omitempty" gorm:"type:text;uniqueIndex:ux_products_photo_path"`
	CreatedAt      time.Time       `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt      time.Time       `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Product) TableName() string { return "products" }

// Listing is a product joined with the display names of its resolved
// reference dimensions. Unresolved foreign keys render as "".
type Listing struct {
	Product
	Category      string `json:"category" gorm:"column:category_name"`
	Manufacturer  string `json:"manufacturer" gorm:"column:manufacturer_name"`
	Supplier      string `json:"supplier" gorm:"column:supplier_name"`
	Unit          string `json:"unit" gorm:"column:unit_name"`
	UnitShortName string `json:"unit_short_name" gorm:"column:unit_short_name"`
}

// Fields are the mutable, already validated fields of a product.
type Fields struct {
	Name           string
	Description    *string
	Price          decimal.Decimal
	Discount       decimal.Decimal
	Quantity       int
	CategoryID     *int64
	ManufacturerID *int64
	SupplierID     *int64
	UnitID         *int64
	PhotoPath      *string
}

// FieldsOf extracts the mutable fields of p.
func FieldsOf(p Product) Fields {
	return Fields{
		Name:           p.Name,
		Description:    p.Description,
		Price:          p.Price,
		Discount:       p.Discount,
		Quantity:       p.Quantity,
		CategoryID:     p.CategoryID,
		ManufacturerID: p.ManufacturerID,
		SupplierID:     p.SupplierID,
		UnitID:         p.UnitID,
		PhotoPath:      p.PhotoPath,
	}
}

// Apply overwrites every mutable field of p; id and created_at are untouched.
func (f Fields) Apply(p *Product) {
	p.Name = f.Name
	p.Description = f.Description
	p.Price = f.Price
	p.Discount = f.Discount
	p.Quantity = f.Quantity
	p.CategoryID = f.CategoryID
	p.ManufacturerID = f.ManufacturerID
	p.SupplierID = f.SupplierID
	p.UnitID = f.UnitID
	p.PhotoPath = f.PhotoPath
}

// Check re-asserts the record invariants on already parsed fields.
func (f Fields) Check() []FieldError {
	var errs []FieldError
	if f.Name == "" {
		errs = append(errs, FieldError{Field: FieldName, Code: CodeRequired})
	}
	if f.Price.IsNegative() {
		errs = append(errs, FieldError{Field: FieldPrice, Code: CodeNegative})
	}
	if f.Discount.IsNegative() || f.Discount.GreaterThan(maxDiscount) {
		errs = append(errs, FieldError{Field: FieldDiscount, Code: CodeOutOfRange})
	}
	if f.Quantity < 0 {
		errs = append(errs, FieldError{Field: FieldQuantity, Code: CodeNegative})
	}
	return errs
}
