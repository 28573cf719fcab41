package domain

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var maxDiscount = decimal.NewFromInt(100)

// Input is the raw text of the product editor form.
type Input struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
	Discount    string `json:"discount"`
	Quantity    string `json:"quantity"`
}

// Validate reports every violated rule of in; an empty result means the
// input is valid. It never stops at the first failure.
func Validate(in Input) []FieldError {
	_, errs := Parse(in)
	return errs
}

// Parse validates in and converts it to typed values. Optional numeric
// fields default to zero when blank. The returned Fields are only meaningful
// when no errors are reported; reference and photo fields are left empty.
func Parse(in Input) (Fields, []FieldError) {
	var (
		fields Fields
		errs   []FieldError
	)

	fields.Name = strings.TrimSpace(in.Name)
	if fields.Name == "" {
		errs = append(errs, FieldError{Field: FieldName, Code: CodeRequired})
	}

	if description := strings.TrimSpace(in.Description); description != "" {
		fields.Description = &description
	}

	price, err := decimal.NewFromString(strings.TrimSpace(in.Price))
	switch {
	case err != nil:
		errs = append(errs, FieldError{Field: FieldPrice, Code: CodeNotANumber})
	case price.IsNegative():
		errs = append(errs, FieldError{Field: FieldPrice, Code: CodeNegative})
	default:
		fields.Price = price
	}

	if raw := strings.TrimSpace(in.Discount); raw != "" {
		discount, err := decimal.NewFromString(raw)
		switch {
		case err != nil:
			errs = append(errs, FieldError{Field: FieldDiscount, Code: CodeNotANumber})
		case discount.IsNegative() || discount.GreaterThan(maxDiscount):
			errs = append(errs, FieldError{Field: FieldDiscount, Code: CodeOutOfRange})
		default:
			fields.Discount = discount
		}
	}

	if raw := strings.TrimSpace(in.Quantity); raw != "" {
		quantity, err := strconv.Atoi(raw)
		switch {
		case err != nil:
			errs = append(errs, FieldError{Field: FieldQuantity, Code: CodeNotAnInteger})
		case quantity < 0:
			errs = append(errs, FieldError{Field: FieldQuantity, Code: CodeNegative})
		default:
			fields.Quantity = quantity
		}
	}

	return fields, errs
}

// InputOf renders p back into editor text, the inverse of Parse for valid
// records.
func InputOf(p Product) Input {
	in := Input{
		Name:     p.Name,
		Price:    p.Price.String(),
		Quantity: strconv.Itoa(p.Quantity),
	}
	if p.Description != nil {
		in.Description = *p.Description
	}
	if !p.Discount.IsZero() {
		in.Discount = p.Discount.String()
	}
	return in
}
