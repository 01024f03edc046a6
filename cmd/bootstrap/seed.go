package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"turf-booking/internal/infra/seed"
	"turf-booking/internal/pkg/config"
	"turf-booking/internal/usecase/shared"

	"go.uber.org/fx"
)

var SeedModule = fx.Module("seed",
	fx.Invoke(SeedCatalog),
)

// SeedCatalog loads STORE_CATALOG_FILE on start. Entries already present are
// left untouched, so restarts are harmless.
func SeedCatalog(lc fx.Lifecycle, cfg config.Config, uow shared.UnitOfWork, logger *slog.Logger) {
	if cfg.Store.CatalogFile == "" {
		return
	}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			catalog, err := seed.LoadCatalog(cfg.Store.CatalogFile)
			if err != nil {
				return err
			}
			created, err := seed.Apply(ctx, uow, catalog, logger)
			if err != nil {
				return fmt.Errorf("seed catalog %s: %w", cfg.Store.CatalogFile, err)
			}
			logger.Info("catalog seeded", "file", cfg.Store.CatalogFile, "created", created, "entries", len(catalog.Resources))
			return nil
		},
	})
}
