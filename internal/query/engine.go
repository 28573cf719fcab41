package query

import (
	"cmp"
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/storefront/internal/config"
	"github.com/smallbiznis/storefront/internal/observability/metrics"
	productdomain "github.com/smallbiznis/storefront/internal/product/domain"
	"go.uber.org/fx"
)

// AllSuppliers disables the supplier filter.
const AllSuppliers = "all"

type SortKey string

const (
	SortNameAsc      SortKey = "name_asc"
	SortNameDesc     SortKey = "name_desc"
	SortPriceAsc     SortKey = "price_asc"
	SortPriceDesc    SortKey = "price_desc"
	SortQuantityAsc  SortKey = "quantity_asc"
	SortQuantityDesc SortKey = "quantity_desc"
)

var ErrInvalidSortKey = errors.New("invalid_sort_key")

// ParseSortKey accepts the six sort keys; "" selects name_asc.
func ParseSortKey(raw string) (SortKey, error) {
	key := SortKey(strings.TrimSpace(raw))
	switch key {
	case "":
		return SortNameAsc, nil
	case SortNameAsc, SortNameDesc, SortPriceAsc, SortPriceDesc, SortQuantityAsc, SortQuantityDesc:
		return key, nil
	default:
		return "", ErrInvalidSortKey
	}
}

type Request struct {
	Search   string  `json:"search"`
	Supplier string  `json:"supplier"`
	Sort     SortKey `json:"sort"`
}

// Row is a listing together with the attributes a renderer highlights.
type Row struct {
	productdomain.Listing
	FinalPrice        decimal.Decimal `json:"final_price"`
	Discounted        bool            `json:"discounted"`
	OutOfStock        bool            `json:"out_of_stock"`
	HeavilyDiscounted bool            `json:"heavily_discounted"`
}

var hundred = decimal.NewFromInt(100)

// NewRow derives the display attributes of l. threshold is the discount
// percentage above which a product counts as heavily discounted.
func NewRow(l productdomain.Listing, threshold decimal.Decimal) Row {
	row := Row{
		Listing:    l,
		FinalPrice: l.Price,
		OutOfStock: l.Quantity == 0,
	}
	if l.Discount.IsPositive() {
		row.Discounted = true
		row.FinalPrice = l.Price.Mul(hundred.Sub(l.Discount)).Div(hundred)
	}
	row.HeavilyDiscounted = l.Discount.GreaterThan(threshold)
	return row
}

// Apply filters and sorts a copy of snapshot. snapshot itself is never
// reordered.
func Apply(snapshot []productdomain.Listing, req Request, threshold decimal.Decimal) []Row {
	items := slices.Clone(snapshot)

	if req.Search != "" {
		needle := strings.ToLower(req.Search)
		items = slices.DeleteFunc(items, func(l productdomain.Listing) bool {
			return !matches(l, needle)
		})
	}

	if req.Supplier != "" && req.Supplier != AllSuppliers {
		items = slices.DeleteFunc(items, func(l productdomain.Listing) bool {
			return l.Supplier != req.Supplier
		})
	}

	slices.SortStableFunc(items, comparator(req.Sort))

	rows := make([]Row, 0, len(items))
	for _, item := range items {
		rows = append(rows, NewRow(item, threshold))
	}
	return rows
}

func matches(l productdomain.Listing, needle string) bool {
	description := ""
	if l.Description != nil {
		description = *l.Description
	}
	for _, field := range []string{l.Name, description, l.Category, l.Manufacturer, l.Supplier} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

func comparator(key SortKey) func(a, b productdomain.Listing) int {
	switch key {
	case SortNameDesc:
		return func(a, b productdomain.Listing) int { return cmp.Compare(b.Name, a.Name) }
	case SortPriceAsc:
		return func(a, b productdomain.Listing) int { return a.Price.Cmp(b.Price) }
	case SortPriceDesc:
		return func(a, b productdomain.Listing) int { return b.Price.Cmp(a.Price) }
	case SortQuantityAsc:
		return func(a, b productdomain.Listing) int { return cmp.Compare(a.Quantity, b.Quantity) }
	case SortQuantityDesc:
		return func(a, b productdomain.Listing) int { return cmp.Compare(b.Quantity, a.Quantity) }
	default:
		return func(a, b productdomain.Listing) int { return cmp.Compare(a.Name, b.Name) }
	}
}

type EngineParams struct {
	fx.In

	Policy  *config.CatalogPolicyHolder
	Metrics *metrics.CatalogMetrics `optional:"true"`
}

// Engine runs Apply with the current catalog policy.
type Engine struct {
	policy  *config.CatalogPolicyHolder
	metrics *metrics.CatalogMetrics
}

func NewEngine(p EngineParams) *Engine {
	return &Engine{policy: p.Policy, metrics: p.Metrics}
}

func (e *Engine) Run(snapshot []productdomain.Listing, req Request) []Row {
	e.metrics.ObserveQuery()
	return Apply(snapshot, req, e.policy.Get().HeavyDiscount())
}

// DebounceWindow is the quiet period applied to search input.
func (e *Engine) DebounceWindow() time.Duration {
	return e.policy.Get().DebounceWindow
}
