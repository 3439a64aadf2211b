package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Trusted identity headers asserted by the upstream proxy.
const (
	HeaderUserEmail = "X-User-Email"
	HeaderUserName  = "X-User-Name"
)

// Gin context keys set by Identity.
const (
	ctxKeyUserEmail = "userEmail"
	ctxKeyUserName  = "userName"
	ctxKeyUserRole  = "userRole"
)

// Identity reads the trusted identity headers, enforces the allow-list,
// and attaches email, name, and resolved role to the Gin context.
//
// With an allow-list configured, a missing or unknown email aborts with
// 403 in the standard error envelope. Without one every request passes,
// anonymous requests included.
func Identity(r *Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		email := normalize(c.GetHeader(HeaderUserEmail))
		name := strings.TrimSpace(c.GetHeader(HeaderUserName))

		ok, err := r.Allowed(c.Request.Context(), email)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"request_id": c.Writer.Header().Get("X-Request-ID"),
				"code":       "internal_error",
				"message":    "internal server error",
			})
			return
		}
		if !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"request_id": c.Writer.Header().Get("X-Request-ID"),
				"code":       "forbidden",
				"message":    "user is not allowed",
			})
			return
		}

		role, err := r.Resolve(c.Request.Context(), email)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"request_id": c.Writer.Header().Get("X-Request-ID"),
				"code":       "internal_error",
				"message":    "internal server error",
			})
			return
		}

		c.Set(ctxKeyUserEmail, email)
		c.Set(ctxKeyUserName, name)
		c.Set(ctxKeyUserRole, role)
		c.Next()
	}
}

// EmailFromCtx returns the authenticated email, or "" for anonymous
// requests on an open instance.
func EmailFromCtx(c *gin.Context) string { return c.GetString(ctxKeyUserEmail) }

// NameFromCtx returns the asserted display name, possibly empty.
func NameFromCtx(c *gin.Context) string { return c.GetString(ctxKeyUserName) }

// RoleFromCtx returns the resolved role as set by Identity.
func RoleFromCtx(c *gin.Context) string { return c.GetString(ctxKeyUserRole) }
