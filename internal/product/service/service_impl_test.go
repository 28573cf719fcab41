package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/storefront/internal/clock"
	"github.com/smallbiznis/storefront/internal/migration"
	orderdomain "github.com/smallbiznis/storefront/internal/order/domain"
	orderrepository "github.com/smallbiznis/storefront/internal/order/repository"
	"github.com/smallbiznis/storefront/internal/product/domain"
	"github.com/smallbiznis/storefront/internal/product/repository"
	"github.com/smallbiznis/storefront/internal/reference"
	referencedomain "github.com/smallbiznis/storefront/internal/reference/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupProductService(t *testing.T) (domain.Service, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	if err := migration.RunMigrations(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake: %v", err)
	}

	svc := New(Params{
		DB:         db,
		Log:        zap.NewNop(),
		GenID:      node,
		Clock:      clock.NewFakeClock(time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)),
		Repo:       repository.Provide(),
		Orders:     orderrepository.Provide(),
		References: reference.NewRepository(db),
	})
	return svc, db
}

func seedReferences(t *testing.T, db *gorm.DB) {
	t.Helper()
	require.NoError(t, db.Create(&referencedomain.Category{ID: 1, Name: "Footwear"}).Error)
	require.NoError(t, db.Create(&referencedomain.Manufacturer{ID: 2, Name: "Rieker"}).Error)
	require.NoError(t, db.Create(&referencedomain.Supplier{ID: 3, Name: "Acme"}).Error)
	require.NoError(t, db.Create(&referencedomain.Unit{ID: 4, Name: "Pair", ShortName: "pr"}).Error)
}

func int64Ptr(v int64) *int64 { return &v }

func strPtr(v string) *string { return &v }

func bootFields() domain.Fields {
	return domain.Fields{
		Name:           "Boots",
		Description:    strPtr("Leather"),
		Price:          decimal.RequireFromString("19.99"),
		Discount:       decimal.NewFromInt(20),
		Quantity:       3,
		CategoryID:     int64Ptr(1),
		ManufacturerID: int64Ptr(2),
		SupplierID:     int64Ptr(3),
		UnitID:         int64Ptr(4),
	}
}

func TestCreateThenGetRoundTrip(t *testing.T) {
	svc, db := setupProductService(t)
	seedReferences(t, db)
	ctx := context.Background()

	id, err := svc.Create(ctx, bootFields())
	require.NoError(t, err)
	require.NotZero(t, id)

	got, err := svc.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Boots", got.Name)
	require.NotNil(t, got.Description)
	assert.Equal(t, "Leather", *got.Description)
	assert.True(t, got.Price.Equal(decimal.RequireFromString("19.99")), got.Price.String())
	assert.True(t, got.Discount.Equal(decimal.NewFromInt(20)), got.Discount.String())
	assert.Equal(t, 3, got.Quantity)
	require.NotNil(t, got.SupplierID)
	assert.Equal(t, int64(3), *got.SupplierID)
	assert.Nil(t, got.PhotoPath)
}

func TestCreateStoresDanglingReferenceAsNull(t *testing.T) {
	svc, db := setupProductService(t)
	seedReferences(t, db)
	ctx := context.Background()

	fields := bootFields()
	fields.SupplierID = int64Ptr(999)

	id, err := svc.Create(ctx, fields)
	require.NoError(t, err)

	got, err := svc.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, got.SupplierID)
	require.NotNil(t, got.CategoryID)
	assert.Equal(t, int64(1), *got.CategoryID)
}

func TestCreateRejectsInvalidFields(t *testing.T) {
	svc, _ := setupProductService(t)

	fields := bootFields()
	fields.Price = decimal.NewFromInt(-1)
	fields.Quantity = -2

	_, err := svc.Create(context.Background(), fields)
	require.Error(t, err)
	assert.Equal(t, domain.ReasonValidation, domain.ReasonOf(err))
	assert.Len(t, domain.FieldErrorsOf(err), 2)

	items, err := svc.ListAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestListAllJoinsReferenceNames(t *testing.T) {
	svc, db := setupProductService(t)
	seedReferences(t, db)
	ctx := context.Background()

	_, err := svc.Create(ctx, bootFields())
	require.NoError(t, err)
	bare := domain.Fields{Name: "Laces", Price: decimal.NewFromInt(2)}
	_, err = svc.Create(ctx, bare)
	require.NoError(t, err)

	items, err := svc.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)

	byName := map[string]domain.Listing{}
	for _, item := range items {
		byName[item.Name] = item
	}
	boots := byName["Boots"]
	assert.Equal(t, "Footwear", boots.Category)
	assert.Equal(t, "Rieker", boots.Manufacturer)
	assert.Equal(t, "Acme", boots.Supplier)
	assert.Equal(t, "Pair", boots.Unit)
	assert.Equal(t, "pr", boots.UnitShortName)

	laces := byName["Laces"]
	assert.Empty(t, laces.Category)
	assert.Empty(t, laces.Supplier)
}

func TestUpdateOverwritesFields(t *testing.T) {
	svc, db := setupProductService(t)
	seedReferences(t, db)
	ctx := context.Background()

	id, err := svc.Create(ctx, bootFields())
	require.NoError(t, err)

	fields := bootFields()
	fields.Name = "Winter boots"
	fields.Description = nil
	fields.Quantity = 0
	fields.SupplierID = nil
	require.NoError(t, svc.Update(ctx, id, fields))

	got, err := svc.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Winter boots", got.Name)
	assert.Nil(t, got.Description)
	assert.Zero(t, got.Quantity)
	assert.Nil(t, got.SupplierID)
}

func TestMissingProductIsNotFound(t *testing.T) {
	svc, _ := setupProductService(t)
	ctx := context.Background()

	_, err := svc.GetByID(ctx, 42)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = svc.Update(ctx, 42, domain.Fields{Name: "x"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = svc.SetPhoto(ctx, 42, strPtr("uploads/product_42.jpg"))
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = svc.Delete(ctx, 42)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteBlockedByOrderLeavesRow(t *testing.T) {
	svc, db := setupProductService(t)
	ctx := context.Background()

	fields := bootFields()
	fields.PhotoPath = strPtr("uploads/product_x.jpg")
	id, err := svc.Create(ctx, fields)
	require.NoError(t, err)

	orders := orderrepository.Provide()
	require.NoError(t, orders.Create(ctx, db, &orderdomain.Order{ID: 7, ProductID: id, Quantity: 1, CreatedAt: time.Now().UTC()}))

	err = svc.Delete(ctx, id)
	require.Error(t, err)
	assert.Equal(t, domain.ReasonReferentialIntegrity, domain.ReasonOf(err))

	got, err := svc.GetByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got.PhotoPath)
	assert.Equal(t, "uploads/product_x.jpg", *got.PhotoPath)
}

func TestDeleteRemovesRow(t *testing.T) {
	svc, _ := setupProductService(t)
	ctx := context.Background()

	id, err := svc.Create(ctx, bootFields())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, id))

	_, err = svc.GetByID(ctx, id)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSetPhotoPathIsUnique(t *testing.T) {
	svc, _ := setupProductService(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, bootFields())
	require.NoError(t, err)
	second, err := svc.Create(ctx, bootFields())
	require.NoError(t, err)

	path := strPtr("uploads/product_1.jpg")
	require.NoError(t, svc.SetPhoto(ctx, first, path))

	err = svc.SetPhoto(ctx, second, path)
	require.Error(t, err)
	assert.Equal(t, domain.ReasonPersistence, domain.ReasonOf(err))

	require.NoError(t, svc.SetPhoto(ctx, first, nil))
	got, err := svc.GetByID(ctx, first)
	require.NoError(t, err)
	assert.Nil(t, got.PhotoPath)
}

func TestPhotoOwner(t *testing.T) {
	svc, _ := setupProductService(t)
	ctx := context.Background()

	id, err := svc.Create(ctx, bootFields())
	require.NoError(t, err)
	require.NoError(t, svc.SetPhoto(ctx, id, strPtr("uploads/upload_01.jpg")))

	owner, err := svc.PhotoOwner(ctx, "uploads/upload_01.jpg")
	require.NoError(t, err)
	assert.Equal(t, id, owner)

	owner, err = svc.PhotoOwner(ctx, "uploads/upload_02.jpg")
	require.NoError(t, err)
	assert.Zero(t, owner)

	owner, err = svc.PhotoOwner(ctx, "")
	require.NoError(t, err)
	assert.Zero(t, owner)
}
