package seed_test

import (
	"fmt"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/storefront/internal/migration"
	referencedomain "github.com/smallbiznis/storefront/internal/reference/domain"
	"github.com/smallbiznis/storefront/internal/seed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func openDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, migration.RunMigrations(db))
	return db
}

func TestEnsureReferenceDataSeedsEmptyTables(t *testing.T) {
	db := openDB(t)
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	inserted, err := seed.EnsureReferenceData(db, node)
	require.NoError(t, err)
	assert.Equal(t, 12, inserted)

	var units []referencedomain.Unit
	require.NoError(t, db.Order("name").Find(&units).Error)
	require.Len(t, units, 2)
	assert.Equal(t, "Pair (pr)", units[0].Label())

	again, err := seed.EnsureReferenceData(db, node)
	require.NoError(t, err)
	assert.Zero(t, again)
}

func TestEnsureReferenceDataKeepsExistingRows(t *testing.T) {
	db := openDB(t)
	require.NoError(t, db.Create(&referencedomain.Supplier{ID: 1, Name: "Local"}).Error)

	_, err := seed.EnsureReferenceData(db, nil)
	require.NoError(t, err)

	var suppliers []referencedomain.Supplier
	require.NoError(t, db.Find(&suppliers).Error)
	require.Len(t, suppliers, 1)
	assert.Equal(t, "Local", suppliers[0].Name)
}
