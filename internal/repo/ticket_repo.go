// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Ticket
// model.
//
// All functions are context-aware and accept a *gorm.DB handle, making
// them safe for use within transactions or connection-scoped operations.
// They follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition.
//
// Error semantics:
//   - When a ticket is not found, functions return ErrNotFound (an alias
//     of gorm.ErrRecordNotFound).
//   - On DB errors the raw gorm error is propagated.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/opsvarejo/go-chamados-backend/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// ticketUpsertColumns are the fields replaced unconditionally when a sync
// re-encounters an existing (title, store) pair. created_at is kept from
// the first insert; everything else is last-write-wins.
var ticketUpsertColumns = []string{"status", "type", "priority", "region", "lat", "lng", "updated_at", "deleted_at"}

// UpsertTicket inserts t or, when a row with the same (title, store)
// already exists, replaces its mutable fields. The natural-key conflict
// target matches ux_ticket_title_store; the newest snapshot always wins,
// no partial-field merge.
func UpsertTicket(ctx context.Context, db *gorm.DB, t *domain.Ticket) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	t.UpdatedAt = time.Now().UTC()

	return db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "title"}, {Name: "store"}},
			DoUpdates: clause.AssignmentColumns(ticketUpsertColumns),
		}).
		Create(t).Error
}

// TicketFilter narrows ticket listings. Empty fields are ignored; set
// fields match exactly.
type TicketFilter struct {
	Region string
	Status string
	Store  string
	Type   string
}

func applyTicketFilter(q *gorm.DB, f TicketFilter) *gorm.DB {
	if f.Region != "" {
		q = q.Where("region = ?", f.Region)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Store != "" {
		q = q.Where("store = ?", f.Store)
	}
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}
	return q
}

// CountTickets returns the number of tickets matching f.
func CountTickets(ctx context.Context, db *gorm.DB, f TicketFilter) (int64, error) {
	var total int64
	err := applyTicketFilter(db.WithContext(ctx).Model(&domain.Ticket{}), f).
		Count(&total).Error
	return total, err
}

// ListTicketsPage returns a page of tickets matching f, most recent first.
// Use CountTickets to obtain the total for pagination metadata.
func ListTicketsPage(ctx context.Context, db *gorm.DB, f TicketFilter, offset, limit int) ([]domain.Ticket, error) {
	var out []domain.Ticket
	err := applyTicketFilter(db.WithContext(ctx), f).
		Order("created_at desc").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// ListAllTickets returns every ticket, most recent first. The ticket set
// is small (open tickets of one retail network), so the quick-search index
// is built from a full listing.
func ListAllTickets(ctx context.Context, db *gorm.DB) ([]domain.Ticket, error) {
	var out []domain.Ticket
	err := db.WithContext(ctx).Order("created_at desc").Find(&out).Error
	return out, err
}

// GroupCount is one bucket of an aggregate query.
type GroupCount struct {
	Key   string `json:"key"`
	Count int64  `json:"count"`
}

// TicketStats returns the total ticket count plus counts grouped by region
// and by status, feeding the dashboard charts and the map.
func TicketStats(ctx context.Context, db *gorm.DB) (total int64, byRegion, byStatus []GroupCount, err error) {
	q := db.WithContext(ctx).Model(&domain.Ticket{})
	if err = q.Count(&total).Error; err != nil {
		return 0, nil, nil, err
	}

	err = db.WithContext(ctx).Model(&domain.Ticket{}).
		Select("region as key, count(*) as count").
		Group("region").
		Order("count desc").
		Scan(&byRegion).Error
	if err != nil {
		return 0, nil, nil, err
	}

	err = db.WithContext(ctx).Model(&domain.Ticket{}).
		Select("status as key, count(*) as count").
		Group("status").
		Order("count desc").
		Scan(&byStatus).Error
	if err != nil {
		return 0, nil, nil, err
	}
	return total, byRegion, byStatus, nil
}
