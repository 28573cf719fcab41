package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Size is a pixel canvas.
type Size struct {
	Width  int `mapstructure:"width"`
	Height int `mapstructure:"height"`
}

// CatalogPolicy groups the fixed policy constants of the catalog: display
// classification thresholds, asset canvases and input debouncing.
type CatalogPolicy struct {
	HeavyDiscountThreshold float64       `mapstructure:"heavyDiscountThreshold"`
	Canvas                 Size          `mapstructure:"canvas"`
	Preview                Size          `mapstructure:"preview"`
	JPEGQuality            int           `mapstructure:"jpegQuality"`
	DebounceWindow         time.Duration `mapstructure:"debounceWindow"`
}

func DefaultCatalogPolicy() CatalogPolicy {
	return CatalogPolicy{
		HeavyDiscountThreshold: 15,
		Canvas:                 Size{Width: 300, Height: 200},
		Preview:                Size{Width: 150, Height: 150},
		JPEGQuality:            85,
		DebounceWindow:         300 * time.Millisecond,
	}
}

// HeavyDiscount returns the threshold as a decimal for exact comparisons.
func (p CatalogPolicy) HeavyDiscount() decimal.Decimal {
	return decimal.NewFromFloat(p.HeavyDiscountThreshold)
}

type CatalogPolicyHolder struct {
	current atomic.Value // holds CatalogPolicy
}

// NewStaticCatalogPolicy returns a holder that never reloads.
func NewStaticCatalogPolicy(policy CatalogPolicy) *CatalogPolicyHolder {
	holder := &CatalogPolicyHolder{}
	holder.current.Store(policy)
	return holder
}

// NewCatalogPolicyHolder reads catalog.yml from dir, falling back to the
// defaults when the file is absent. A present file is watched and reloaded;
// invalid reloads are ignored.
func NewCatalogPolicyHolder(dir string) (*CatalogPolicyHolder, error) {
	v := viper.New()

	v.SetConfigName("catalog")
	v.SetConfigType("yml")
	if strings.TrimSpace(dir) != "" {
		v.AddConfigPath(dir)
	}
	v.AddConfigPath(".")

	v.SetEnvPrefix("STOREFRONT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultCatalogPolicy()
	v.SetDefault("catalog.heavyDiscountThreshold", defaults.HeavyDiscountThreshold)
	v.SetDefault("catalog.canvas.width", defaults.Canvas.Width)
	v.SetDefault("catalog.canvas.height", defaults.Canvas.Height)
	v.SetDefault("catalog.preview.width", defaults.Preview.Width)
	v.SetDefault("catalog.preview.height", defaults.Preview.Height)
	v.SetDefault("catalog.jpegQuality", defaults.JPEGQuality)
	v.SetDefault("catalog.debounceWindow", defaults.DebounceWindow)

	watch := true
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
		watch = false
	}

	var policy CatalogPolicy
	if err := v.UnmarshalKey("catalog", &policy); err != nil {
		return nil, err
	}
	if err := validateCatalogPolicy(policy); err != nil {
		return nil, err
	}

	holder := NewStaticCatalogPolicy(policy)
	if !watch {
		return holder, nil
	}

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated CatalogPolicy
		if err := v.UnmarshalKey("catalog", &updated); err != nil {
			log.Printf("[catalog-policy] reload failed: %v", err)
			return
		}
		if err := validateCatalogPolicy(updated); err != nil {
			log.Printf("[catalog-policy] invalid policy ignored: %v", err)
			return
		}
		holder.Store(updated)
		log.Printf("[catalog-policy] reloaded from %s", e.Name)
	})

	return holder, nil
}

// Store replaces the current policy.
func (h *CatalogPolicyHolder) Store(policy CatalogPolicy) {
	h.current.Store(policy)
}

func (h *CatalogPolicyHolder) Get() CatalogPolicy {
	return h.current.Load().(CatalogPolicy)
}

func validateCatalogPolicy(p CatalogPolicy) error {
	if p.HeavyDiscountThreshold < 0 || p.HeavyDiscountThreshold > 100 {
		return errors.New("catalog.heavyDiscountThreshold must be within [0,100]")
	}
	if p.Canvas.Width <= 0 || p.Canvas.Height <= 0 {
		return errors.New("catalog.canvas must be positive")
	}
	if p.Preview.Width <= 0 || p.Preview.Height <= 0 {
		return errors.New("catalog.preview must be positive")
	}
	if p.JPEGQuality < 1 || p.JPEGQuality > 100 {
		return errors.New("catalog.jpegQuality must be within [1,100]")
	}
	if p.DebounceWindow <= 0 {
		return errors.New("catalog.debounceWindow must be positive")
	}
	return nil
}
