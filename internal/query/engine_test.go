package query

import (
	"testing"

	"github.com/shopspring/decimal"
	productdomain "github.com/smallbiznis/storefront/internal/product/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var threshold = decimal.NewFromInt(15)

func listing(id int64, name string, price int64, quantity int, supplier string) productdomain.Listing {
	return productdomain.Listing{
		Product: productdomain.Product{
			ID:       id,
			Name:     name,
			Price:    decimal.NewFromInt(price),
			Quantity: quantity,
		},
		Supplier: supplier,
	}
}

func ids(rows []Row) []int64 {
	out := make([]int64, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.ID)
	}
	return out
}

func catalog() []productdomain.Listing {
	description := "waterproof leather"
	boots := listing(1, "Boots", 120, 4, "Acme")
	boots.Description = &description
	boots.Category = "Footwear"

	sandals := listing(2, "Sandals", 40, 0, "Northwind")
	sandals.Manufacturer = "Rieker"

	slippers := listing(3, "Slippers", 25, 10, "Acme")
	slippers.Category = "Home"

	return []productdomain.Listing{boots, sandals, slippers}
}

func TestParseSortKey(t *testing.T) {
	key, err := ParseSortKey("")
	require.NoError(t, err)
	assert.Equal(t, SortNameAsc, key)

	key, err = ParseSortKey("price_desc")
	require.NoError(t, err)
	assert.Equal(t, SortPriceDesc, key)

	_, err = ParseSortKey("rating_asc")
	assert.ErrorIs(t, err, ErrInvalidSortKey)
}

func TestApplySearch(t *testing.T) {
	tests := []struct {
		name   string
		search string
		want   []int64
	}{
		{name: "empty keeps all", search: "", want: []int64{1, 2, 3}},
		{name: "substring case insensitive", search: "boo", want: []int64{1}},
		{name: "upper case input", search: "SLIP", want: []int64{3}},
		{name: "description", search: "Waterproof", want: []int64{1}},
		{name: "category", search: "home", want: []int64{3}},
		{name: "manufacturer", search: "rieker", want: []int64{2}},
		{name: "supplier", search: "acme", want: []int64{1, 3}},
		{name: "no match", search: "umbrella", want: []int64{}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			rows := Apply(catalog(), Request{Search: tt.search, Supplier: AllSuppliers}, threshold)
			assert.Equal(t, tt.want, ids(rows))
		})
	}
}

func TestApplySupplierFilter(t *testing.T) {
	rows := Apply(catalog(), Request{Supplier: "Acme"}, threshold)
	assert.Equal(t, []int64{1, 3}, ids(rows))

	rows = Apply(catalog(), Request{Supplier: "acme"}, threshold)
	assert.Empty(t, rows, "supplier filter is exact")

	rows = Apply(catalog(), Request{Supplier: ""}, threshold)
	assert.Len(t, rows, 3)
}

func TestApplyCombinesFiltersAsSubset(t *testing.T) {
	snapshot := catalog()
	rows := Apply(snapshot, Request{Search: "s", Supplier: "Acme", Sort: SortPriceAsc}, threshold)

	known := map[int64]bool{}
	for _, l := range snapshot {
		known[l.ID] = true
	}
	for _, r := range rows {
		assert.True(t, known[r.ID])
		assert.Equal(t, "Acme", r.Supplier)
	}
	assert.Equal(t, []int64{3, 1}, ids(rows))
}

func TestApplySort(t *testing.T) {
	tests := []struct {
		key  SortKey
		want []int64
	}{
		{key: SortNameAsc, want: []int64{1, 2, 3}},
		{key: SortNameDesc, want: []int64{3, 2, 1}},
		{key: SortPriceAsc, want: []int64{3, 2, 1}},
		{key: SortPriceDesc, want: []int64{1, 2, 3}},
		{key: SortQuantityAsc, want: []int64{2, 1, 3}},
		{key: SortQuantityDesc, want: []int64{3, 1, 2}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(string(tt.key), func(t *testing.T) {
			rows := Apply(catalog(), Request{Sort: tt.key}, threshold)
			assert.Equal(t, tt.want, ids(rows))
		})
	}
}

func TestApplySortPriceDescending(t *testing.T) {
	snapshot := []productdomain.Listing{
		listing(1, "a", 10, 1, ""),
		listing(2, "b", 30, 1, ""),
		listing(3, "c", 20, 1, ""),
	}

	rows := Apply(snapshot, Request{Sort: SortPriceDesc}, threshold)

	var prices []string
	for _, r := range rows {
		prices = append(prices, r.Price.String())
	}
	assert.Equal(t, []string{"30", "20", "10"}, prices)
}

func TestApplySortIsStable(t *testing.T) {
	snapshot := []productdomain.Listing{
		listing(1, "Boots", 50, 1, ""),
		listing(2, "Alpha", 10, 1, ""),
		listing(3, "Boots", 50, 2, ""),
		listing(4, "Alpha", 10, 2, ""),
	}

	assert.Equal(t, []int64{2, 4, 1, 3}, ids(Apply(snapshot, Request{Sort: SortNameAsc}, threshold)))
	assert.Equal(t, []int64{1, 3, 2, 4}, ids(Apply(snapshot, Request{Sort: SortPriceDesc}, threshold)))
}

func TestApplyDoesNotMutateSnapshot(t *testing.T) {
	snapshot := catalog()
	before := ids(Apply(snapshot, Request{}, threshold))

	_ = Apply(snapshot, Request{Search: "s", Sort: SortQuantityDesc}, threshold)

	var order []int64
	for _, l := range snapshot {
		order = append(order, l.ID)
	}
	assert.Equal(t, []int64{1, 2, 3}, order)
	assert.Equal(t, []int64{1, 2, 3}, before)
}

func TestNewRowDerivedAttributes(t *testing.T) {
	l := listing(1, "Boots", 100, 0, "")

	l.Discount = decimal.NewFromInt(20)
	row := NewRow(l, threshold)
	assert.True(t, row.FinalPrice.Equal(decimal.NewFromInt(80)), row.FinalPrice.String())
	assert.True(t, row.Discounted)
	assert.True(t, row.HeavilyDiscounted)
	assert.True(t, row.OutOfStock)

	l.Discount = decimal.NewFromInt(10)
	l.Quantity = 5
	row = NewRow(l, threshold)
	assert.True(t, row.FinalPrice.Equal(decimal.NewFromInt(90)))
	assert.False(t, row.HeavilyDiscounted)
	assert.False(t, row.OutOfStock)

	l.Discount = decimal.NewFromInt(15)
	assert.False(t, NewRow(l, threshold).HeavilyDiscounted, "threshold is exclusive")

	l.Discount = decimal.Zero
	row = NewRow(l, threshold)
	assert.False(t, row.Discounted)
	assert.True(t, row.FinalPrice.Equal(l.Price))
}
