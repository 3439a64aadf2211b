// Package services – SyncService
//
// This file implements SyncService, the application-level component that
// owns the ticket synchronization pipeline: it drains the source database
// page by page, normalizes every page into a ticket record, and upserts
// each record on its (title, store) natural key. The pipeline is
// at-least-once: upserts applied before a fault stay applied, and the next
// run converges the table again.
//
// Observability: Run is OpenTelemetry-instrumented; the span carries the
// processed count and outcome.

package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/opsvarejo/go-chamados-backend/internal/domain"
	"github.com/opsvarejo/go-chamados-backend/internal/events"
	"github.com/opsvarejo/go-chamados-backend/internal/repo"
	"github.com/opsvarejo/go-chamados-backend/internal/workspace"

	// OpenTelemetry
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// TicketSource is the slice of the workspace client the sync depends on.
type TicketSource interface {
	QueryDatabase(ctx context.Context, databaseID string, filter map[string]any, cursor string) (workspace.QueryResult, error)
}

// SyncService drains the ticket database of the external workspace tool
// into the local ticket table.
type SyncService struct {
	DB         *gorm.DB
	Source     TicketSource
	DatabaseID string

	// Events is optional; a nil producer disables publishing.
	Events events.TicketEventProducer

	// Now is injectable for tests; defaults to time.Now.
	Now func() time.Time
}

func (s *SyncService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// Run executes one full synchronization pass and records it as a SyncRun.
// On success the returned run has Status "ok" and Count set to the number
// of upserted tickets. On failure the run is still recorded (Status
// "error") and the returned error wraps ErrSyncFailed.
func (s *SyncService) Run(ctx context.Context) (*domain.SyncRun, error) {
	tr := otel.Tracer("services/SyncService")
	ctx, span := tr.Start(ctx, "Run",
		trace.WithAttributes(attribute.String("sync.database_id", s.DatabaseID)),
	)
	defer span.End()

	startedAt := s.now()
	count, err := s.drain(ctx)
	finishedAt := s.now()

	run := &domain.SyncRun{
		ID:         uuid.NewString(),
		Status:     domain.SyncRunOK,
		Count:      count,
		StartedAt:  startedAt,
		FinishedAt: finishedAt,
	}
	if err != nil {
		run.Status = domain.SyncRunFailed
		run.Error = err.Error()
	}
	span.SetAttributes(
		attribute.Int("sync.count", count),
		attribute.String("sync.status", run.Status),
	)

	if cerr := repo.CreateSyncRun(ctx, s.DB, run); cerr != nil {
		log.Error().Err(cerr).Msg("sync: record run")
		if err == nil {
			err = cerr
		}
	}

	if err != nil {
		log.Error().Err(err).Int("count", count).Msg("sync: run failed")
		return run, errors.Join(ErrSyncFailed, err)
	}
	log.Info().Int("count", count).
		Dur("took", finishedAt.Sub(startedAt)).
		Msg("sync: run finished")
	return run, nil
}

// drain walks every result page and upserts each normalized ticket,
// returning the number of records applied before the first fault.
func (s *SyncService) drain(ctx context.Context) (int, error) {
	var (
		cursor string
		count  int
	)
	filter := workspace.TicketStatusFilter()

	for {
		page, err := s.Source.QueryDatabase(ctx, s.DatabaseID, filter, cursor)
		if err != nil {
			return count, fmt.Errorf("fetch page: %w", err)
		}

		for _, p := range page.Pages {
			t := workspace.NormalizeTicket(p, s.now())
			if err := repo.UpsertTicket(ctx, s.DB, &t); err != nil {
				return count, fmt.Errorf("upsert ticket %q/%q: %w", t.Title, t.Store, err)
			}
			count++
			s.publish(ctx, &t)
		}

		if !page.HasMore {
			return count, nil
		}
		cursor = page.NextCursor
	}
}

// publish emits a best-effort upsert event. The producer swallows broker
// errors, so publishing can never fail the pipeline.
func (s *SyncService) publish(ctx context.Context, t *domain.Ticket) {
	if s.Events == nil {
		return
	}
	s.Events.ProduceTicketEvent(ctx, "ticket.upserted", map[string]any{
		"title":  t.Title,
		"store":  t.Store,
		"status": t.Status,
		"region": t.Region,
	})
}
