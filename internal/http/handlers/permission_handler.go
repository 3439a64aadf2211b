// Permission HTTP handlers.
//
// This file exposes the user permission CRUD plus the identity endpoint:
//   - GET    /permissions  (list)
//   - POST   /permissions  (create or update, keyed by email)
//   - DELETE /permissions  (remove, email in the JSON body)
//   - GET    /me           (authenticated identity and resolved role)
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/opsvarejo/go-chamados-backend/internal/auth"
	"github.com/opsvarejo/go-chamados-backend/internal/domain"
	"github.com/opsvarejo/go-chamados-backend/internal/services"
)

// UpsertPermissionRequest is the JSON payload for creating or updating a
// permission.
type UpsertPermissionRequest struct {
	Email string `json:"email" example:"ana@empresa.com.br"`
	Role  string `json:"role"  example:"TI"`
}

// DeletePermissionRequest is the JSON payload for removing a permission.
type DeletePermissionRequest struct {
	Email string `json:"email" example:"ana@empresa.com.br"`
}

// ListPermissionsResponse wraps the stored permissions.
type ListPermissionsResponse struct {
	Permissions []domain.UserPermission `json:"permissions"`
}

// MeResponse describes the calling user.
type MeResponse struct {
	Email string `json:"email" example:"ana@empresa.com.br"`
	Name  string `json:"name"  example:"Ana"`
	Role  string `json:"role"  example:"TI"`
}

// ListPermissions godoc
// @ID          listPermissions
// @Summary     List user permissions
// @Tags        Permissions
// @Produce     json
//
// @Success     200  {object} handlers.ListPermissionsResponse
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /permissions [get]
func (h *Handlers) ListPermissions(c *gin.Context) {
	perms, err := h.permSvc.List(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, ListPermissionsResponse{Permissions: perms})
}

// UpsertPermission godoc
// @ID          upsertPermission
// @Summary     Create or update a permission
// @Description Assigns a role to an email. A second write to the same email replaces the role.
// @Tags        Permissions
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.UpsertPermissionRequest  true  "Permission payload"
//
// @Success     201  {object}  domain.UserPermission
// @Failure     400  {object}  handlers.ErrorResponse "Validation error"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /permissions [post]
func (h *Handlers) UpsertPermission(c *gin.Context) {
	var req UpsertPermissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	p, err := h.permSvc.Upsert(c.Request.Context(), req.Email, req.Role)
	switch {
	case errors.Is(err, services.ErrEmailRequired),
		errors.Is(err, services.ErrRoleRequired),
		errors.Is(err, services.ErrInvalidRole):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		return
	case err != nil:
		fail(c, http.StatusInternalServerError, ErrCodeSaveFailed, err.Error())
		return
	}
	ok(c, http.StatusCreated, p)
}

// DeletePermission godoc
// @ID          deletePermission
// @Summary     Delete a permission
// @Description Removes the permission for the given email.
// @Tags        Permissions
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.DeletePermissionRequest  true  "Target email"
//
// @Success     204  {string}  string "No Content"
// @Failure     400  {object}  handlers.ErrorResponse "Validation error"
// @Failure     404  {object}  handlers.ErrorResponse "Unknown email"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /permissions [delete]
func (h *Handlers) DeletePermission(c *gin.Context) {
	var req DeletePermissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	err := h.permSvc.Delete(c.Request.Context(), req.Email)
	switch {
	case errors.Is(err, services.ErrEmailRequired):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		return
	case errors.Is(err, services.ErrPermissionNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "permission not found")
		return
	case err != nil:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	noContent(c)
}

// Me godoc
// @ID          me
// @Summary     Current identity
// @Description Returns the authenticated email, display name, and resolved role.
// @Tags        Permissions
// @Produce     json
//
// @Success     200  {object}  handlers.MeResponse
// @Router      /me [get]
func (h *Handlers) Me(c *gin.Context) {
	ok(c, http.StatusOK, MeResponse{
		Email: auth.EmailFromCtx(c),
		Name:  auth.NameFromCtx(c),
		Role:  auth.RoleFromCtx(c),
	})
}
