// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the SyncRun
// audit log.
package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/opsvarejo/go-chamados-backend/internal/domain"
)

// CreateSyncRun persists one finished run record. Runs are written once
// after the pipeline completes, successfully or not; there is no
// in-progress state.
func CreateSyncRun(ctx context.Context, db *gorm.DB, run *domain.SyncRun) error {
	return db.WithContext(ctx).Create(run).Error
}

// GetSyncRun fetches a run by ID, or ErrNotFound.
func GetSyncRun(ctx context.Context, db *gorm.DB, id string) (*domain.SyncRun, error) {
	var run domain.SyncRun
	err := db.WithContext(ctx).Where("id = ?", id).First(&run).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// ListSyncRuns returns the most recent runs, newest first.
func ListSyncRuns(ctx context.Context, db *gorm.DB, limit int) ([]domain.SyncRun, error) {
	if limit <= 0 {
		limit = 20
	}
	var out []domain.SyncRun
	err := db.WithContext(ctx).
		Order("finished_at desc").
		Limit(limit).
		Find(&out).Error
	return out, err
}
