// Handler wiring.
//
// Handlers are transport-thin: they validate input, call application
// services, and translate results into HTTP responses (including
// conditional responses). Business rules live in the services package.
package handlers

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/opsvarejo/go-chamados-backend/internal/domain"
	"github.com/opsvarejo/go-chamados-backend/internal/utils"
)

//
// Service contracts (context-aware)
//

// SyncService triggers one full pass of the ticket sync pipeline.
//
// Implementations must be safe for concurrent use and honor the provided
// context for cancellation and timeouts.
type SyncService interface {
	Run(ctx context.Context) (*domain.SyncRun, error)
}

// ProjectService fetches curated projects from the source system.
type ProjectService interface {
	List(ctx context.Context) ([]domain.Project, error)
}

// PermissionService manages the email-to-role table.
type PermissionService interface {
	List(ctx context.Context) ([]domain.UserPermission, error)
	Upsert(ctx context.Context, email, role string) (*domain.UserPermission, error)
	Delete(ctx context.Context, email string) error
}

// Handlers groups the HTTP endpoints for sync, tickets, projects, and
// permissions. It depends on abstract service interfaces to keep transport
// concerns separate from business logic; the DB handle serves read-only
// aggregate queries (listing, stats, ETags).
type Handlers struct {
	db      *gorm.DB
	syncSvc SyncService
	projSvc ProjectService
	permSvc PermissionService

	// idemTTL bounds how long a recorded sync outcome can be replayed.
	idemTTL time.Duration
}

// New constructs a Handlers instance bound to the given database handle and
// services.
func New(db *gorm.DB, syncSvc SyncService, projSvc ProjectService, permSvc PermissionService) *Handlers {
	return &Handlers{
		db:      db,
		syncSvc: syncSvc,
		projSvc: projSvc,
		permSvc: permSvc,
		idemTTL: 24 * time.Hour,
	}
}

// WithIdempotencyTTL overrides the replay window for recorded sync
// outcomes. Non-positive values keep the current window.
func (h *Handlers) WithIdempotencyTTL(d time.Duration) *Handlers {
	if d > 0 {
		h.idemTTL = d
	}
	return h
}

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

// clampPagination parses and bounds page and page_size query params to sane
// defaults and limits, returning (page, pageSize).
func clampPagination(c *gin.Context) (page, pageSize int) {
	const (
		defaultPage     = 1
		defaultPageSize = 20
		maxPageSize     = 100
	)
	page = utils.AtoiDefault(c.Query("page"), defaultPage)
	if page < 1 {
		page = 1
	}
	pageSize = utils.AtoiDefault(c.Query("page_size"), defaultPageSize)
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return
}
