package db

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"
)

// StartOrphanLineCleaner removes cart lines whose product no longer exists in
// the catalog, on the given interval. Lines younger than grace are left alone
// so an in-flight catalog import cannot race the cleaner.
func StartOrphanLineCleaner(
	ctx context.Context,
	db *sql.DB,
	interval time.Duration,
	grace time.Duration,
	log *zap.Logger,
) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				cutoff := time.Now().Add(-grace)
				res, err := db.ExecContext(ctx, `
                    DELETE FROM cart_items
                     WHERE created_at < $1
                       AND NOT EXISTS (
                           SELECT 1 FROM products WHERE products.id = cart_items.product_id
                       )
                `, cutoff)
				if err != nil {
					log.Error("failed to clean orphan cart lines", zap.Error(err))
					continue
				}
				if rows, _ := res.RowsAffected(); rows > 0 {
					log.Info("cleaned orphan cart lines", zap.Int64("removed", rows))
				}
			}
		}
	}()
}
