package auth

import (
	"context"
	"testing"

	"github.com/opsvarejo/go-chamados-backend/internal/domain"
)

func TestParseStaticRoles(t *testing.T) {
	got := ParseStaticRoles(" Ana@Empresa.com.br = TI ,bad-pair, jose@empresa.com.br=Gerente, x@y=Admin ,")
	if len(got) != 2 {
		t.Fatalf("ParseStaticRoles = %v", got)
	}
	if got["ana@empresa.com.br"] != domain.RoleIT {
		t.Fatalf("expected lowercased email key with role TI: %v", got)
	}
	if got["jose@empresa.com.br"] != domain.RoleManager {
		t.Fatalf("missing jose: %v", got)
	}
}

func TestResolver_Resolve_Order(t *testing.T) {
	ctx := context.Background()
	r := &Resolver{
		Static: map[string]string{"ana@empresa.com.br": domain.RoleIT},
		Lookup: func(_ context.Context, email string) (string, error) {
			if email == "jose@empresa.com.br" {
				return domain.RoleStore, nil
			}
			// The static hit must win before the lookup runs.
			if email == "ana@empresa.com.br" {
				return domain.RoleManager, nil
			}
			return "", nil
		},
	}

	cases := []struct {
		email string
		want  string
	}{
		{"ana@empresa.com.br", domain.RoleIT},
		{"ANA@empresa.com.br ", domain.RoleIT},
		{"jose@empresa.com.br", domain.RoleStore},
		{"desconhecido@empresa.com.br", domain.RoleVisitor},
	}
	for _, tc := range cases {
		got, err := r.Resolve(ctx, tc.email)
		if err != nil {
			t.Fatalf("Resolve(%q): %v", tc.email, err)
		}
		if got != tc.want {
			t.Fatalf("Resolve(%q) = %q, want %q", tc.email, got, tc.want)
		}
	}
}

func TestResolver_Allowed(t *testing.T) {
	ctx := context.Background()

	open := &Resolver{}
	if ok, _ := open.Allowed(ctx, ""); !ok {
		t.Fatal("open instance must admit anonymous requests")
	}

	closed := &Resolver{
		Static: map[string]string{"ana@empresa.com.br": domain.RoleIT},
		Lookup: func(_ context.Context, email string) (string, error) {
			if email == "jose@empresa.com.br" {
				return domain.RoleStore, nil
			}
			return "", nil
		},
	}
	if ok, _ := closed.Allowed(ctx, "ana@empresa.com.br"); !ok {
		t.Fatal("static email must be admitted")
	}
	if ok, _ := closed.Allowed(ctx, "jose@empresa.com.br"); !ok {
		t.Fatal("stored permission must be admitted")
	}
	if ok, _ := closed.Allowed(ctx, "intruso@empresa.com.br"); ok {
		t.Fatal("unknown email must be rejected")
	}
	if ok, _ := closed.Allowed(ctx, ""); ok {
		t.Fatal("anonymous must be rejected on a closed instance")
	}
}
