package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSet() Set {
	return Set{
		Categories: []Category{{ID: 1, Name: "Footwear"}, {ID: 2, Name: "Outerwear"}},
		Suppliers:  []Supplier{{ID: 10, Name: "Acme"}, {ID: 11, Name: "Northwind"}},
		Units:      []Unit{{ID: 20, Name: "Pair", ShortName: "pr"}, {ID: 21, Name: "Piece", ShortName: "pc"}},
	}
}

func TestSetResolve(t *testing.T) {
	set := testSet()

	tests := []struct {
		name string
		kind Kind
		sel  Selection
		want *int64
	}{
		{name: "empty selection", kind: KindCategory, sel: Selection{}, want: nil},
		{name: "by id", kind: KindCategory, sel: Selection{ID: 2}, want: ptr(2)},
		{name: "id wins over name", kind: KindCategory, sel: Selection{ID: 1, Name: "Outerwear"}, want: ptr(1)},
		{name: "unknown id", kind: KindCategory, sel: Selection{ID: 99, Name: "Footwear"}, want: nil},
		{name: "by exact name", kind: KindSupplier, sel: Selection{Name: "Northwind"}, want: ptr(11)},
		{name: "name is case sensitive", kind: KindSupplier, sel: Selection{Name: "acme"}, want: nil},
		{name: "unit label", kind: KindUnit, sel: Selection{Name: "Pair (pr)"}, want: ptr(20)},
		{name: "unit bare name", kind: KindUnit, sel: Selection{Name: "Piece"}, want: ptr(21)},
		{name: "empty dimension", kind: KindManufacturer, sel: Selection{Name: "Acme"}, want: nil},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got := set.Resolve(tt.kind, tt.sel)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.want, *got)
		})
	}
}

func TestSetNameOf(t *testing.T) {
	set := testSet()

	assert.Equal(t, "Acme", set.NameOf(KindSupplier, ptr(10)))
	assert.Equal(t, "", set.NameOf(KindSupplier, ptr(12)))
	assert.Equal(t, "", set.NameOf(KindSupplier, nil))
}

func TestUnitLabel(t *testing.T) {
	assert.Equal(t, "Pair (pr)", Unit{Name: "Pair", ShortName: "pr"}.Label())
	assert.Equal(t, "Pair", Unit{Name: "Pair"}.Label())
}

func ptr(v int64) *int64 { return &v }
