// Ticket HTTP handlers.
//
// This file exposes the read side of the ticket table:
//   - GET /tickets         (list, filtered and paginated, ETag support)
//   - GET /tickets/stats   (aggregate counts for the dashboard charts)
//   - GET /tickets/search  (quick search over titles, stores, and labels)
package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/opsvarejo/go-chamados-backend/internal/domain"
	"github.com/opsvarejo/go-chamados-backend/internal/repo"
	"github.com/opsvarejo/go-chamados-backend/internal/search"
	"github.com/opsvarejo/go-chamados-backend/internal/utils"
)

// ListTicketsResponse wraps a page of tickets and pagination information.
type ListTicketsResponse struct {
	Tickets    []domain.Ticket `json:"tickets"`
	Pagination Pagination      `json:"pagination"`
}

// TicketStatsResponse carries the aggregate counts behind the dashboard
// charts and the region map.
type TicketStatsResponse struct {
	Total    int64             `json:"total"`
	ByRegion []repo.GroupCount `json:"by_region"`
	ByStatus []repo.GroupCount `json:"by_status"`
}

// SearchResult is one ranked quick-search hit.
type SearchResult struct {
	Ticket domain.Ticket `json:"ticket"`
	Score  float64       `json:"score"`
}

// SearchTicketsResponse wraps the ranked quick-search hits.
type SearchTicketsResponse struct {
	Results []SearchResult `json:"results"`
}

// ListTickets godoc
// @ID          listTickets
// @Summary     List tickets (filtered, paginated)
// @Description Returns a page of synchronized tickets. Filters match exactly. Supports weak ETag via If-None-Match and may return 304.
// @Tags        Tickets
// @Produce     json
//
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"  example(W/\"tickets:42:1735000000\")
// @Param       region         query   string  false "Filter by region"            example(Sul)
// @Param       status         query   string  false "Filter by status"            example(Em aberto)
// @Param       store          query   string  false "Filter by store label"       example(Matriz-MO)
// @Param       type           query   string  false "Filter by type"              example(Rede)
// @Param       page           query   int     false "Page number"                 minimum(1) default(1)
// @Param       page_size      query   int     false "Items per page"              minimum(1) maximum(100) default(20)
//
// @Success     200  {object} handlers.ListTicketsResponse
// @Header      200  {string} ETag "Weak ETag for current table state"
// @Success     304  {string} string "Not Modified"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /tickets [get]
func (h *Handlers) ListTickets(c *gin.Context) {
	ctx := c.Request.Context()
	page, pageSize := clampPagination(c)

	// ETag pre-check over the whole table (best effort): any upsert bumps
	// the max updated_at, invalidating cached filtered views too.
	if count, maxTS, err := repo.TicketsStats(ctx, h.db); err == nil {
		var ts int64
		if maxTS != nil {
			ts = maxTS.Unix()
		}
		etag := fmt.Sprintf(`W/"tickets:%d:%d"`, count, ts)
		c.Header("ETag", etag)
		if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
			c.Status(http.StatusNotModified)
			return
		}
	}

	f := repo.TicketFilter{
		Region: c.Query("region"),
		Status: c.Query("status"),
		Store:  c.Query("store"),
		Type:   c.Query("type"),
	}

	total, err := repo.CountTickets(ctx, h.db, f)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	items, err := repo.ListTicketsPage(ctx, h.db, f, (page-1)*pageSize, pageSize)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	ok(c, http.StatusOK, ListTicketsResponse{
		Tickets: items,
		Pagination: Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    page < totalPages,
		},
	})
}

// TicketStats godoc
// @ID          ticketStats
// @Summary     Aggregate ticket counts
// @Description Returns the total ticket count plus counts grouped by region and by status.
// @Tags        Tickets
// @Produce     json
//
// @Success     200  {object} handlers.TicketStatsResponse
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /tickets/stats [get]
func (h *Handlers) TicketStats(c *gin.Context) {
	total, byRegion, byStatus, err := repo.TicketStats(c.Request.Context(), h.db)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, TicketStatsResponse{
		Total:    total,
		ByRegion: byRegion,
		ByStatus: byStatus,
	})
}

// SearchTickets godoc
// @ID          searchTickets
// @Summary     Quick search over tickets
// @Description Ranks tickets against the query by token overlap; accents are folded so "titulo" matches "Título".
// @Tags        Tickets
// @Produce     json
//
// @Param       q  query  string  true  "Search terms"             example(impressora matriz)
// @Param       k  query  int     false "Maximum hits to return"   minimum(1) maximum(50) default(5)
//
// @Success     200  {object} handlers.SearchTicketsResponse
// @Failure     400  {object} handlers.ErrorResponse "Missing query"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /tickets/search [get]
func (h *Handlers) SearchTickets(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "query parameter q is required")
		return
	}
	k := utils.AtoiDefault(c.Query("k"), 5)
	if k > 50 {
		k = 50
	}

	// The open-ticket set is small; building the index per request keeps
	// results current right after a sync.
	tickets, err := repo.ListAllTickets(c.Request.Context(), h.db)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	idx := search.NewIndexFromTickets(tickets)

	hits := idx.TopK(q, k)
	results := make([]SearchResult, 0, len(hits))
	for _, r := range hits {
		results = append(results, SearchResult{Ticket: r.Ticket, Score: r.Score})
	}
	ok(c, http.StatusOK, SearchTicketsResponse{Results: results})
}
