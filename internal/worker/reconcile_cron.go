package worker

// reconcile_cron.go
// Background goroutine that periodically recomputes each product's cached
// stock column from the ledger and corrects any drift. Every mutation path
// already updates both inside one transaction, so drift normally means a
// manual DB edit or a bug — either way the ledger wins.

import (
	"context"
	"time"

	"github.com/ABrayanM/tienda-proyecto-zahir/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// ReconcileCronConfig holds all dependencies for the reconcile goroutine.
type ReconcileCronConfig struct {
	ProductRepo  repository.ProductRepository
	MovementRepo repository.StockMovementRepository
	Interval     time.Duration
}

// StartReconcileCron launches a background goroutine that ticks on the
// configured interval and reconciles cached stock against the ledger.
// It respects the context for graceful shutdown.
func StartReconcileCron(ctx context.Context, cfg ReconcileCronConfig) {
	go func() {
		ticker := time.NewTicker(cfg.Interval)
		defer ticker.Stop()

		log.Info().Dur("interval", cfg.Interval).Msg("reconcile_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("reconcile_cron: shutting down")
				return
			case <-ticker.C:
				reconcile(ctx, cfg)
			}
		}
	}()
}

func reconcile(ctx context.Context, cfg ReconcileCronConfig) {
	rows, err := cfg.MovementRepo.DerivedStockAll(ctx)
	if err != nil {
		log.Error().Err(err).Msg("reconcile_cron: failed to derive stock")
		return
	}

	fixed := 0
	for _, row := range rows {
		pid, err := uuid.Parse(row.ID)
		if err != nil {
			continue
		}
		p, err := cfg.ProductRepo.FindByID(ctx, pid)
		if err != nil {
			continue
		}
		if int64(p.Stock) == row.Stock {
			continue
		}

		// Re-derive under the row lock: a sale may have landed between the
		// snapshot above and this fix.
		txErr := cfg.ProductRepo.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			locked, err := cfg.ProductRepo.FindByIDForUpdateTx(tx, pid)
			if err != nil {
				return err
			}
			derived, err := cfg.MovementRepo.DerivedStockTx(tx, pid)
			if err != nil {
				return err
			}
			if int64(locked.Stock) == derived {
				return nil
			}
			log.Warn().
				Str("product_id", pid.String()).
				Int("cached", locked.Stock).
				Int64("derived", derived).
				Msg("reconcile_cron: stock drift detected — ledger wins")
			return cfg.ProductRepo.SetStockTx(tx, pid, int(derived))
		})
		if txErr != nil {
			log.Error().Err(txErr).Str("product_id", pid.String()).Msg("reconcile_cron: fix failed")
			continue
		}
		fixed++
	}

	if fixed > 0 {
		log.Info().Int("fixed", fixed).Msg("reconcile_cron: drift corrected")
	}
}
