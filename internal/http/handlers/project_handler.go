// Project HTTP handlers.
//
// This file exposes the single read endpoint for curated projects:
//   - GET /projects  (fetch from the source system and filter)
//
// Projects are never persisted; every request reflects the source system
// at that moment.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/opsvarejo/go-chamados-backend/internal/domain"
)

// ListProjectsResponse wraps the filtered project list.
type ListProjectsResponse struct {
	Projects []domain.Project `json:"projects"`
}

// ListProjects godoc
// @ID          listProjects
// @Summary     List curated projects
// @Description Fetches the project database from the source system and returns only projects passing the status and sector allow-lists.
// @Tags        Projects
// @Produce     json
//
// @Success     200  {object} handlers.ListProjectsResponse
// @Failure     500  {object} handlers.ErrorResponse "Fetch failed"
// @Router      /projects [get]
func (h *Handlers) ListProjects(c *gin.Context) {
	projects, err := h.projSvc.List(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, ListProjectsResponse{Projects: projects})
}
