package exports

import (
	"context"

	"github.com/uptrace/bun"

	"tablegen/infrastructure/sqlite"
	"tablegen/models"
)

func loadSummary(ctx context.Context, db *sqlite.DB) (Summary, error) {
	var summary Summary
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw(`
SELECT COUNT(*) AS runs,
       COALESCE(SUM(page_count), 0) AS pages,
       COALESCE(SUM(CASE WHEN signature_source = ? THEN 1 ELSE 0 END), 0) AS uploaded,
       COALESCE(strftime('%d/%m/%Y %H:%M', MAX(created_at)), '') AS last_run_at
FROM export_runs`, models.SignatureSourceUploaded).Scan(ctx, &summary)
	})
	if err != nil {
		return Summary{}, err
	}
	return summary, nil
}
