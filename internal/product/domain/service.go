package domain

import "context"

// Service is the catalog store: validated writes, integrity-guarded deletes
// and the enriched snapshot consumed by the list view.
type Service interface {
	ListAll(ctx context.Context) ([]Listing, error)
	GetByID(ctx context.Context, id int64) (*Product, error)
	Create(ctx context.Context, fields Fields) (int64, error)
	Update(ctx context.Context, id int64, fields Fields) error
	SetPhoto(ctx context.Context, id int64, photoPath *string) error
	// PhotoOwner returns the id of the product whose record references
	// photoPath, or 0 when none does.
	PhotoOwner(ctx context.Context, photoPath string) (int64, error)
	Delete(ctx context.Context, id int64) error
}
