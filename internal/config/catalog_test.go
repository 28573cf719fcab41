package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogPolicyDefaultsWithoutFile(t *testing.T) {
	chdir(t, t.TempDir())

	holder, err := NewCatalogPolicyHolder(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, DefaultCatalogPolicy(), holder.Get())
	assert.True(t, holder.Get().HeavyDiscount().Equal(decimal.NewFromInt(15)))
}

func TestCatalogPolicyFromFile(t *testing.T) {
	chdir(t, t.TempDir())
	dir := t.TempDir()
	content := []byte(`catalog:
  heavyDiscountThreshold: 25
  canvas:
    width: 640
    height: 480
  debounceWindow: 150ms
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "catalog.yml"), content, 0o644))

	holder, err := NewCatalogPolicyHolder(dir)
	require.NoError(t, err)

	policy := holder.Get()
	assert.Equal(t, 25.0, policy.HeavyDiscountThreshold)
	assert.Equal(t, Size{Width: 640, Height: 480}, policy.Canvas)
	assert.Equal(t, Size{Width: 150, Height: 150}, policy.Preview)
	assert.Equal(t, 85, policy.JPEGQuality)
	assert.Equal(t, 150*time.Millisecond, policy.DebounceWindow)
}

func TestCatalogPolicyRejectsInvalidFile(t *testing.T) {
	chdir(t, t.TempDir())
	dir := t.TempDir()
	content := []byte("catalog:\n  heavyDiscountThreshold: 120\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "catalog.yml"), content, 0o644))

	_, err := NewCatalogPolicyHolder(dir)
	assert.Error(t, err)
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
