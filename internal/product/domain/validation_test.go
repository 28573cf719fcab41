package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateReportsEveryViolation(t *testing.T) {
	errs := Validate(Input{Name: "  ", Price: "-5"})

	assert.Equal(t, []FieldError{
		{Field: FieldName, Code: CodeRequired},
		{Field: FieldPrice, Code: CodeNegative},
	}, errs)
}

func TestValidateAllFieldsInvalid(t *testing.T) {
	errs := Validate(Input{Name: "", Price: "abc", Discount: "101", Quantity: "1.5"})

	assert.Equal(t, []FieldError{
		{Field: FieldName, Code: CodeRequired},
		{Field: FieldPrice, Code: CodeNotANumber},
		{Field: FieldDiscount, Code: CodeOutOfRange},
		{Field: FieldQuantity, Code: CodeNotAnInteger},
	}, errs)
}

func TestValidateRules(t *testing.T) {
	cases := []struct {
		name  string
		input Input
		want  []FieldError
	}{
		{
			name:  "minimal valid",
			input: Input{Name: "Boots", Price: "0"},
		},
		{
			name:  "blank optional numbers default",
			input: Input{Name: "Boots", Price: "10", Discount: " ", Quantity: ""},
		},
		{
			name:  "discount bounds inclusive",
			input: Input{Name: "Boots", Price: "10", Discount: "100", Quantity: "0"},
		},
		{
			name:  "missing price",
			input: Input{Name: "Boots"},
			want:  []FieldError{{Field: FieldPrice, Code: CodeNotANumber}},
		},
		{
			name:  "negative discount",
			input: Input{Name: "Boots", Price: "10", Discount: "-0.5"},
			want:  []FieldError{{Field: FieldDiscount, Code: CodeOutOfRange}},
		},
		{
			name:  "discount not a number",
			input: Input{Name: "Boots", Price: "10", Discount: "ten"},
			want:  []FieldError{{Field: FieldDiscount, Code: CodeNotANumber}},
		},
		{
			name:  "negative quantity",
			input: Input{Name: "Boots", Price: "10", Quantity: "-1"},
			want:  []FieldError{{Field: FieldQuantity, Code: CodeNegative}},
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Validate(tc.input))
		})
	}
}

func TestParseConvertsFields(t *testing.T) {
	fields, errs := Parse(Input{
		Name:        "  Winter Boots ",
		Description: " warm ",
		Price:       "129.90",
		Discount:    "20",
		Quantity:    "7",
	})
	require.Empty(t, errs)

	assert.Equal(t, "Winter Boots", fields.Name)
	require.NotNil(t, fields.Description)
	assert.Equal(t, "warm", *fields.Description)
	assert.True(t, fields.Price.Equal(decimal.RequireFromString("129.9")))
	assert.True(t, fields.Discount.Equal(decimal.NewFromInt(20)))
	assert.Equal(t, 7, fields.Quantity)
	assert.Empty(t, fields.Check())
}

func TestParseBlankDescriptionIsNil(t *testing.T) {
	fields, errs := Parse(Input{Name: "Boots", Price: "1", Description: "   "})
	require.Empty(t, errs)
	assert.Nil(t, fields.Description)
	assert.True(t, fields.Discount.IsZero())
	assert.Equal(t, 0, fields.Quantity)
}

func TestInputOfRoundTrip(t *testing.T) {
	description := "leather"
	p := Product{
		Name:        "Loafers",
		Description: &description,
		Price:       decimal.RequireFromString("59.5"),
		Discount:    decimal.NewFromInt(10),
		Quantity:    3,
	}

	fields, errs := Parse(InputOf(p))
	require.Empty(t, errs)

	want := FieldsOf(p)
	assert.Equal(t, want.Name, fields.Name)
	assert.Equal(t, *want.Description, *fields.Description)
	assert.True(t, want.Price.Equal(fields.Price))
	assert.True(t, want.Discount.Equal(fields.Discount))
	assert.Equal(t, want.Quantity, fields.Quantity)
}

func TestCheckRejectsBrokenInvariants(t *testing.T) {
	errs := Fields{
		Name:     "x",
		Price:    decimal.NewFromInt(-1),
		Discount: decimal.NewFromInt(150),
		Quantity: -2,
	}.Check()

	assert.Len(t, errs, 3)
}

func TestReasonOf(t *testing.T) {
	assert.Equal(t, ReasonNone, ReasonOf(nil))
	assert.Equal(t, ReasonValidation, ReasonOf(&ValidationError{}))
	assert.Equal(t, ReasonNotFound, ReasonOf(&NotFoundError{ID: 1}))
	assert.Equal(t, ReasonReferentialIntegrity, ReasonOf(&ReferentialIntegrityError{ID: 1}))
	assert.Equal(t, ReasonAssetIO, ReasonOf(&AssetIOError{Path: "a", Op: "write", Err: assert.AnError}))
	assert.Equal(t, ReasonPersistence, ReasonOf(&PersistenceError{Err: assert.AnError}))

	vErr := &ValidationError{Errors: []FieldError{{Field: FieldName, Code: CodeRequired}}}
	assert.Equal(t, vErr.Errors, FieldErrorsOf(vErr))
	assert.Nil(t, FieldErrorsOf(assert.AnError))
}
