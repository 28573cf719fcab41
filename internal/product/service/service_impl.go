package service

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/storefront/internal/clock"
	"github.com/smallbiznis/storefront/internal/observability/metrics"
	orderdomain "github.com/smallbiznis/storefront/internal/order/domain"
	"github.com/smallbiznis/storefront/internal/product/domain"
	referencedomain "github.com/smallbiznis/storefront/internal/reference/domain"
	"github.com/smallbiznis/storefront/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	GenID      *snowflake.Node
	Clock      clock.Clock
	Repo       domain.Repository
	Orders     orderdomain.Repository
	References referencedomain.Repository
	Metrics    *metrics.CatalogMetrics `optional:"true"`
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	genID      *snowflake.Node
	clock      clock.Clock
	repo       domain.Repository
	orders     orderdomain.Repository
	references referencedomain.Repository
	metrics    *metrics.CatalogMetrics
}

func New(p Params) domain.Service {
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("product.service"),
		genID:      p.GenID,
		clock:      p.Clock,
		repo:       p.Repo,
		orders:     p.Orders,
		references: p.References,
		metrics:    p.Metrics,
	}
}

func (s *Service) ListAll(ctx context.Context) ([]domain.Listing, error) {
	items, err := s.repo.FindAll(ctx, s.db)
	if err != nil {
		return nil, &domain.PersistenceError{Err: err}
	}
	return items, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	item, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, &domain.PersistenceError{Err: err}
	}
	if item == nil {
		return nil, &domain.NotFoundError{ID: id}
	}
	return item, nil
}

func (s *Service) Create(ctx context.Context, fields domain.Fields) (id int64, err error) {
	defer func() { s.metrics.ObserveMutation("create", string(domain.ReasonOf(err))) }()

	if errs := fields.Check(); len(errs) > 0 {
		return 0, &domain.ValidationError{Errors: errs}
	}

	now := s.clock.Now()
	p := &domain.Product{
		ID:        s.genID.Generate().Int64(),
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.resolveForeignKeys(ctx, tx, &fields); err != nil {
			return err
		}
		fields.Apply(p)
		return s.repo.Create(ctx, tx, p)
	})
	if err != nil {
		return 0, s.wrap(err)
	}

	s.log.Info("product created", zap.Int64("product_id", p.ID))
	return p.ID, nil
}

func (s *Service) Update(ctx context.Context, id int64, fields domain.Fields) (err error) {
	defer func() { s.metrics.ObserveMutation("update", string(domain.ReasonOf(err))) }()

	if errs := fields.Check(); len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		item, err := s.repo.FindByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if item == nil {
			return &domain.NotFoundError{ID: id}
		}

		if err := s.resolveForeignKeys(ctx, tx, &fields); err != nil {
			return err
		}
		fields.Apply(item)
		item.UpdatedAt = s.clock.Now()

		affected, err := s.repo.Update(ctx, tx, item)
		if err != nil {
			return err
		}
		if affected == 0 {
			return &domain.NotFoundError{ID: id}
		}
		return nil
	})
	if err != nil {
		return s.wrap(err)
	}

	s.log.Info("product updated", zap.Int64("product_id", id))
	return nil
}

func (s *Service) SetPhoto(ctx context.Context, id int64, photoPath *string) (err error) {
	defer func() { s.metrics.ObserveMutation("set_photo", string(domain.ReasonOf(err))) }()

	affected, err := s.repo.UpdatePhoto(ctx, s.db, id, photoPath)
	if err != nil {
		return s.wrap(err)
	}
	if affected == 0 {
		return &domain.NotFoundError{ID: id}
	}
	return nil
}

func (s *Service) PhotoOwner(ctx context.Context, photoPath string) (int64, error) {
	if photoPath == "" {
		return 0, nil
	}
	id, err := s.repo.FindIDByPhotoPath(ctx, s.db, photoPath)
	if err != nil {
		return 0, &domain.PersistenceError{Err: err}
	}
	return id, nil
}

// Delete removes a product unless an order still references it. The order
// check and the delete share one transaction so a blocked delete leaves the
// row untouched.
func (s *Service) Delete(ctx context.Context, id int64) (err error) {
	defer func() { s.metrics.ObserveMutation("delete", string(domain.ReasonOf(err))) }()

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		item, err := s.repo.FindByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if item == nil {
			return &domain.NotFoundError{ID: id}
		}

		referenced, err := s.orders.ExistsForProduct(ctx, tx, id)
		if err != nil {
			return err
		}
		if referenced {
			return &domain.ReferentialIntegrityError{ID: id}
		}

		affected, err := s.repo.Delete(ctx, tx, id)
		if err != nil {
			if db.IsForeignKeyErr(err) {
				return &domain.ReferentialIntegrityError{ID: id}
			}
			return err
		}
		if affected == 0 {
			return &domain.NotFoundError{ID: id}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrReferentialIntegrity) {
			s.log.Warn("product delete blocked by orders", zap.Int64("product_id", id))
		}
		return s.wrap(err)
	}

	s.log.Info("product deleted", zap.Int64("product_id", id))
	return nil
}

// resolveForeignKeys nulls any reference id that no longer exists so a
// dangling id is never stored.
func (s *Service) resolveForeignKeys(ctx context.Context, tx *gorm.DB, fields *domain.Fields) error {
	refs := []struct {
		kind referencedomain.Kind
		id   **int64
	}{
		{kind: referencedomain.KindCategory, id: &fields.CategoryID},
		{kind: referencedomain.KindManufacturer, id: &fields.ManufacturerID},
		{kind: referencedomain.KindSupplier, id: &fields.SupplierID},
		{kind: referencedomain.KindUnit, id: &fields.UnitID},
	}

	for _, ref := range refs {
		if *ref.id == nil {
			continue
		}
		ok, err := s.references.Exists(ctx, tx, ref.kind, **ref.id)
		if err != nil {
			return err
		}
		if !ok {
			s.log.Warn("unresolved reference stored as unspecified",
				zap.String("kind", string(ref.kind)),
				zap.Int64("reference_id", **ref.id),
			)
			*ref.id = nil
		}
	}
	return nil
}

func (s *Service) wrap(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrReferentialIntegrity):
		return err
	default:
		if db.IsDuplicateKeyErr(err) {
			s.log.Error("photo path already owned by another product", zap.Error(err))
		}
		return &domain.PersistenceError{Err: err}
	}
}
