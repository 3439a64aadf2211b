// Sync HTTP handlers.
//
// This file exposes REST endpoints for the ticket sync pipeline:
//   - POST /sync       (trigger a full synchronization pass)
//   - GET  /sync/runs  (recent run history)
//
// POST /sync honors the Idempotency-Key header: a retried request with the
// same key replays the recorded run instead of starting a second pass.
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/opsvarejo/go-chamados-backend/internal/domain"
	"github.com/opsvarejo/go-chamados-backend/internal/http/middleware"
	"github.com/opsvarejo/go-chamados-backend/internal/repo"
	"github.com/opsvarejo/go-chamados-backend/internal/utils"
)

// SyncResponse is the payload of a completed (or replayed) sync trigger.
type SyncResponse struct {
	Message string `json:"message" example:"sincronização concluída"`
	Count   int    `json:"count"   example:"128"`
}

// ListSyncRunsResponse wraps the recent run history.
type ListSyncRunsResponse struct {
	Runs []domain.SyncRun `json:"runs"`
}

const syncDoneMessage = "sincronização concluída"

// TriggerSync godoc
// @ID          triggerSync
// @Summary     Trigger a ticket synchronization
// @Description Drains the source ticket database and upserts every normalized record. Safe to retry with an Idempotency-Key header.
// @Tags        Sync
// @Produce     json
//
// @Param       Idempotency-Key  header  string  false "Stable key for safe retries"  example(sync-2025-03-01)
//
// @Success     200  {object}  handlers.SyncResponse
// @Failure     500  {object}  handlers.ErrorResponse  "Sync failed"
// @Router      /sync [post]
func (h *Handlers) TriggerSync(c *gin.Context) {
	ctx := c.Request.Context()
	email := userEmail(c)
	key, hasKey := middleware.GetIdempotencyKey(c)

	// Replay: return the recorded outcome without re-running the pipeline.
	if hasKey && middleware.IsReplay(c) {
		rec, err := repo.GetIdempotency(ctx, h.db, email, "sync", key, time.Now().UTC())
		if err == nil {
			if run, rerr := repo.GetSyncRun(ctx, h.db, rec.RunID); rerr == nil {
				ok(c, rec.Status, SyncResponse{Message: syncDoneMessage, Count: run.Count})
				return
			}
		}
		// Fall through and run normally when the record vanished.
	}

	run, err := h.syncSvc.Run(ctx)
	if err != nil {
		middleware.SyncRuns.WithLabelValues(domain.SyncRunFailed).Inc()
		fail(c, http.StatusInternalServerError, ErrCodeSyncFailed, "falha na sincronização")
		return
	}
	middleware.SyncRuns.WithLabelValues(domain.SyncRunOK).Inc()
	middleware.SyncTickets.Add(float64(run.Count))

	if hasKey {
		// Best effort; a lost record only means the retry re-runs the sync,
		// which converges to the same state anyway.
		_, _ = repo.CreateIdempotency(ctx, h.db, email, "sync", key, run.ID, http.StatusOK, h.idemTTL)
	}

	ok(c, http.StatusOK, SyncResponse{Message: syncDoneMessage, Count: run.Count})
}

// ListSyncRuns godoc
// @ID          listSyncRuns
// @Summary     List recent sync runs
// @Description Returns the most recent sync executions, newest first.
// @Tags        Sync
// @Produce     json
//
// @Param       limit  query  int  false "Maximum runs to return"  minimum(1) maximum(100) default(20)
//
// @Success     200  {object}  handlers.ListSyncRunsResponse
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /sync/runs [get]
func (h *Handlers) ListSyncRuns(c *gin.Context) {
	limit := utils.AtoiDefault(c.Query("limit"), 20)
	if limit > 100 {
		limit = 100
	}

	runs, err := repo.ListSyncRuns(c.Request.Context(), h.db, limit)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, ListSyncRunsResponse{Runs: runs})
}

// userEmail extracts the authenticated email from the Gin context as set by
// the identity middleware; empty for anonymous requests on an open
// instance.
func userEmail(c *gin.Context) string {
	if v, ok := c.Get("userEmail"); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
