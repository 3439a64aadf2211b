// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the
// UserPermission model. Permissions are keyed by email: creates and
// updates share one upsert, deletes are explicit.
package repo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/opsvarejo/go-chamados-backend/internal/domain"
)

// UpsertPermission inserts or updates the role for email and returns the
// stored row.
func UpsertPermission(ctx context.Context, db *gorm.DB, email, role string) (*domain.UserPermission, error) {
	p := &domain.UserPermission{
		ID:        uuid.NewString(),
		Email:     email,
		Role:      role,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	err := db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "email"}},
			DoUpdates: clause.AssignmentColumns([]string{"role", "updated_at"}),
		}).
		Create(p).Error
	if err != nil {
		return nil, err
	}
	// Re-read so the caller sees the surviving row (the original ID on
	// update, the new one on insert).
	return GetPermissionByEmail(ctx, db, email)
}

// GetPermissionByEmail fetches the permission for email, or ErrNotFound.
func GetPermissionByEmail(ctx context.Context, db *gorm.DB, email string) (*domain.UserPermission, error) {
	var p domain.UserPermission
	err := db.WithContext(ctx).Where("email = ?", email).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListPermissions returns all permissions ordered by email.
func ListPermissions(ctx context.Context, db *gorm.DB) ([]domain.UserPermission, error) {
	var out []domain.UserPermission
	err := db.WithContext(ctx).Order("email asc").Find(&out).Error
	return out, err
}

// DeletePermissionByEmail removes the permission for email. When no row
// matches it returns ErrNotFound.
func DeletePermissionByEmail(ctx context.Context, db *gorm.DB, email string) error {
	res := db.WithContext(ctx).Where("email = ?", email).Delete(&domain.UserPermission{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
