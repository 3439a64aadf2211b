// Package auth resolves dashboard identities and roles. Authentication
// itself happens upstream (the reverse proxy asserts the user's email);
// this package decides whether that email may enter and which role it
// carries.
//
// Role resolution order:
//  1. the static allow-list from configuration
//  2. a stored user permission
//  3. the Visitante fallback
package auth

import (
	"context"
	"strings"

	"github.com/opsvarejo/go-chamados-backend/internal/domain"
)

// RoleLookup returns the stored role for an email, or "" when none exists.
// services.PermissionService.RoleFor satisfies it.
type RoleLookup func(ctx context.Context, email string) (string, error)

// Resolver maps emails to dashboard roles.
type Resolver struct {
	// Static is the configuration allow-list, email → role, keys lowercased.
	Static map[string]string

	// Lookup consults stored permissions; nil disables the lookup.
	Lookup RoleLookup
}

// Resolve returns the role for email. Unknown emails resolve to
// RoleVisitor; whether they are admitted at all is Allowed's concern.
func (r *Resolver) Resolve(ctx context.Context, email string) (string, error) {
	email = normalize(email)
	if role, ok := r.Static[email]; ok {
		return role, nil
	}
	if r.Lookup != nil {
		role, err := r.Lookup(ctx, email)
		if err != nil {
			return "", err
		}
		if role != "" {
			return role, nil
		}
	}
	return domain.RoleVisitor, nil
}

// Allowed reports whether email may use the dashboard. With no static
// allow-list configured the instance is open (local development); once one
// is configured, an email must appear in it or hold a stored permission.
func (r *Resolver) Allowed(ctx context.Context, email string) (bool, error) {
	if len(r.Static) == 0 {
		return true, nil
	}
	email = normalize(email)
	if _, ok := r.Static[email]; ok {
		return true, nil
	}
	if r.Lookup != nil {
		role, err := r.Lookup(ctx, email)
		if err != nil {
			return false, err
		}
		if role != "" {
			return true, nil
		}
	}
	return false, nil
}

// ParseStaticRoles parses the STATIC_ROLES configuration value, a
// comma-separated list of email=role pairs. Malformed pairs and roles
// outside the assignable set are dropped.
func ParseStaticRoles(s string) map[string]string {
	out := map[string]string{}
	for _, pair := range strings.Split(s, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		email, role, ok := strings.Cut(pair, "=")
		email = normalize(email)
		role = strings.TrimSpace(role)
		if !ok || email == "" || !domain.ValidRole(role) {
			continue
		}
		out[email] = role
	}
	return out
}

func normalize(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
