// Package services – PermissionService
//
// This file implements PermissionService, the application-level component
// that manages user permissions. It validates email and role inputs and
// delegates persistence to the repo layer; email is the natural key for
// every operation.

package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/opsvarejo/go-chamados-backend/internal/domain"
	"github.com/opsvarejo/go-chamados-backend/internal/repo"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// PermissionService manages the email-to-role table.
type PermissionService struct {
	DB *gorm.DB
}

// List returns every stored permission ordered by email.
func (s *PermissionService) List(ctx context.Context) ([]domain.UserPermission, error) {
	tr := otel.Tracer("services/PermissionService")
	ctx, span := tr.Start(ctx, "List")
	defer span.End()

	return repo.ListPermissions(ctx, s.DB)
}

// Upsert creates or replaces the role for email. The email is lowercased
// and trimmed before storage so header identities and stored rows compare
// consistently.
func (s *PermissionService) Upsert(ctx context.Context, email, role string) (*domain.UserPermission, error) {
	tr := otel.Tracer("services/PermissionService")
	ctx, span := tr.Start(ctx, "Upsert",
		trace.WithAttributes(attribute.String("permission.role", role)),
	)
	defer span.End()

	email = normalizeEmail(email)
	if email == "" {
		return nil, ErrEmailRequired
	}
	role = strings.TrimSpace(role)
	if role == "" {
		return nil, ErrRoleRequired
	}
	if !domain.ValidRole(role) {
		return nil, ErrInvalidRole
	}
	return repo.UpsertPermission(ctx, s.DB, email, role)
}

// Delete removes the permission for email, or ErrPermissionNotFound.
func (s *PermissionService) Delete(ctx context.Context, email string) error {
	tr := otel.Tracer("services/PermissionService")
	ctx, span := tr.Start(ctx, "Delete")
	defer span.End()

	email = normalizeEmail(email)
	if email == "" {
		return ErrEmailRequired
	}
	err := repo.DeletePermissionByEmail(ctx, s.DB, email)
	if errors.Is(err, repo.ErrNotFound) {
		return ErrPermissionNotFound
	}
	return err
}

// RoleFor returns the stored role for email, or the empty string when no
// permission exists. Database faults are propagated.
func (s *PermissionService) RoleFor(ctx context.Context, email string) (string, error) {
	email = normalizeEmail(email)
	if email == "" {
		return "", nil
	}
	p, err := repo.GetPermissionByEmail(ctx, s.DB, email)
	if errors.Is(err, repo.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return p.Role, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
