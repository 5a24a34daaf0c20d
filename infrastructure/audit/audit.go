package audit

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"tablegen/infrastructure/sqlite"
	"tablegen/models"
)

// Service records export runs. It never stores table content.
type Service struct {
	db *sqlite.DB
}

func NewService(db *sqlite.DB) *Service {
	return &Service{db: db}
}

// Write inserts run inside the caller transaction.
func (s *Service) Write(ctx context.Context, tx bun.Tx, run *models.ExportRun) error {
	if run == nil {
		return fmt.Errorf("export run is nil")
	}
	_, err := tx.NewInsert().Model(run).ExcludeColumn("id", "created_at").Returning("id, created_at").Exec(ctx)
	return err
}

// RecordExport writes run in its own transaction.
func (s *Service) RecordExport(ctx context.Context, run *models.ExportRun) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("audit db is not initialized")
	}
	return s.db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return s.Write(ctx, tx, run)
	})
}

// RecentExports lists the newest runs first.
func (s *Service) RecentExports(ctx context.Context, limit int) ([]models.ExportRun, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("audit db is not initialized")
	}
	if limit <= 0 {
		limit = 50
	}
	runs := make([]models.ExportRun, 0)
	err := s.db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewSelect().Model(&runs).OrderExpr("er.id DESC").Limit(limit).Scan(ctx)
	})
	if err != nil {
		return nil, err
	}
	return runs, nil
}
