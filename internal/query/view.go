package query

import (
	"context"
	"slices"
	"sync"

	"github.com/smallbiznis/storefront/internal/clock"
	productdomain "github.com/smallbiznis/storefront/internal/product/domain"
	"go.uber.org/zap"
)

// Source supplies the catalog snapshot a view filters.
type Source interface {
	ListAll(ctx context.Context) ([]productdomain.Listing, error)
}

// RenderFunc receives every pipeline result with the size of the unfiltered
// snapshot.
type RenderFunc func(rows []Row, total int)

// View is the product list screen's state: a private snapshot plus the
// current search, supplier and sort selections.
type View struct {
	engine    *Engine
	source    Source
	debouncer *Debouncer
	render    RenderFunc
	log       *zap.Logger

	mu       sync.Mutex
	snapshot []productdomain.Listing
	req      Request
}

func NewView(engine *Engine, source Source, clk clock.Clock, log *zap.Logger, render RenderFunc) *View {
	return &View{
		engine:    engine,
		source:    source,
		debouncer: NewDebouncerFunc(clk, engine.DebounceWindow),
		render:    render,
		log:       log.Named("query.view"),
		req:       Request{Supplier: AllSuppliers, Sort: SortNameAsc},
	}
}

// Refresh reloads the snapshot from the store and re-runs the pipeline with
// the current selections.
func (v *View) Refresh(ctx context.Context) error {
	items, err := v.source.ListAll(ctx)
	if err != nil {
		v.log.Error("failed to load products", zap.Error(err))
		return err
	}

	v.mu.Lock()
	v.snapshot = slices.Clone(items)
	v.mu.Unlock()

	v.run()
	return nil
}

// SetSearch records text and schedules a debounced run.
func (v *View) SetSearch(text string) {
	v.mu.Lock()
	v.req.Search = text
	v.mu.Unlock()

	v.debouncer.Schedule(v.run)
}

func (v *View) SetSupplier(name string) {
	if name == "" {
		name = AllSuppliers
	}
	v.mu.Lock()
	v.req.Supplier = name
	v.mu.Unlock()

	v.run()
}

func (v *View) SetSort(key SortKey) {
	v.mu.Lock()
	v.req.Sort = key
	v.mu.Unlock()

	v.run()
}

func (v *View) Request() Request {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.req
}

// Close cancels a pending search run.
func (v *View) Close() {
	v.debouncer.Cancel()
}

func (v *View) run() {
	v.mu.Lock()
	snapshot := v.snapshot
	req := v.req
	v.mu.Unlock()

	rows := v.engine.Run(snapshot, req)
	if v.render != nil {
		v.render(rows, len(snapshot))
	}
}
