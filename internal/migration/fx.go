package migration

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/storefront/internal/config"
	"github.com/smallbiznis/storefront/internal/seed"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config, node *snowflake.Node, log *zap.Logger) error {
		if err := RunMigrations(conn); err != nil {
			return err
		}
		if !cfg.SeedReference {
			return nil
		}
		seeded, err := seed.EnsureReferenceData(conn, node)
		if err != nil {
			return err
		}
		if seeded > 0 {
			log.Named("migrations").Info("reference data seeded", zap.Int("rows", seeded))
		}
		return nil
	}),
)
