// Package services – ProjectService
//
// This file implements ProjectService, which fetches the project database
// of the external workspace tool on demand and filters it through the
// status and sector allow-lists. Projects are never persisted locally.

package services

import (
	"context"
	"fmt"

	"github.com/opsvarejo/go-chamados-backend/internal/domain"
	"github.com/opsvarejo/go-chamados-backend/internal/workspace"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

// Allow-lists applied after normalization. Matching is exact and untrimmed
// against the source vocabulary: "Pausado " (trailing space) is a
// different value and drops the project.
var (
	ProjectStatuses = []string{"Planejamento", "Em andamento", "Pausado"}
	ProjectSectors  = []string{"Infra", "Infra & BI"}
)

// ProjectService reads curated projects straight from the source system.
type ProjectService struct {
	Source     TicketSource
	DatabaseID string
}

// List fetches every project page, normalizes it, and returns only
// projects whose status and sector both pass the allow-lists, in source
// order.
func (s *ProjectService) List(ctx context.Context) ([]domain.Project, error) {
	tr := otel.Tracer("services/ProjectService")
	ctx, span := tr.Start(ctx, "List")
	defer span.End()

	var (
		cursor string
		out    = make([]domain.Project, 0, 16)
	)
	for {
		page, err := s.Source.QueryDatabase(ctx, s.DatabaseID, nil, cursor)
		if err != nil {
			return nil, fmt.Errorf("fetch projects: %w", err)
		}
		for _, p := range page.Pages {
			proj := workspace.NormalizeProject(p)
			if contains(ProjectStatuses, proj.Status) && contains(ProjectSectors, proj.Sector) {
				out = append(out, proj)
			}
		}
		if !page.HasMore {
			break
		}
		cursor = page.NextCursor
	}

	span.SetAttributes(attribute.Int("projects.count", len(out)))
	return out, nil
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
