package identity

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fastygo/nexus/domain"
	"github.com/fastygo/nexus/repository"
	boltstore "github.com/fastygo/nexus/repository/bolt"
)

func setupStore(t *testing.T) repository.KeyValueStore {
	t.Helper()
	store, err := boltstore.Open(filepath.Join(t.TempDir(), "nexus.db"), "")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSeed_Idempotent(t *testing.T) {
	store := setupStore(t)
	uc := New(store, nil)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := uc.Seed(ctx); err != nil {
			t.Fatalf("seed #%d: %v", i, err)
		}
	}

	users, err := uc.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(users) != 1 || users[0] != SeedAdmin {
		t.Fatalf("expected only the seeded admin, got %+v", users)
	}
}

func TestSeed_DoesNotOverwriteExistingUsers(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	existing := []domain.User{{ID: "u1", Name: "Ann", Email: "ann@x.io", Role: domain.RoleUser}}
	if err := repository.SaveJSON(ctx, store, repository.KeyUsers, existing); err != nil {
		t.Fatalf("save: %v", err)
	}

	uc := New(store, nil)
	if err := uc.Seed(ctx); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := uc.FindByEmail(ctx, SeedAdmin.Email); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("admin must not be seeded over an existing collection, err=%v", err)
	}
}

func TestRegister(t *testing.T) {
	uc := New(setupStore(t), nil)
	ctx := context.Background()
	if err := uc.Seed(ctx); err != nil {
		t.Fatalf("seed: %v", err)
	}

	user, err := uc.Register(ctx, "Jane Doe", "jane@example.com", domain.RoleUser)
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if !strings.HasPrefix(user.ID, "usr-") {
		t.Errorf("id = %q", user.ID)
	}
	if !strings.Contains(user.AvatarURL, "Jane+Doe") {
		t.Errorf("avatar = %q", user.AvatarURL)
	}

	tests := []struct {
		name  string
		uname string
		email string
		role  domain.Role
		want  error
	}{
		{"duplicate different case", "Other", "JANE@example.com", domain.RoleUser, domain.ErrDuplicateEmail},
		{"duplicate seed admin", "Admin", "Admin@Nexus.com", domain.RoleAdmin, domain.ErrDuplicateEmail},
		{"missing name", "", "x@example.com", domain.RoleUser, domain.ErrInvalidPayload},
		{"unknown role", "X", "x@example.com", domain.Role("root"), domain.ErrInvalidPayload},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := uc.Register(ctx, tt.uname, tt.email, tt.role); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}

	users, _ := uc.List(ctx)
	if len(users) != 2 {
		t.Fatalf("failed registrations must not mutate state, got %d users", len(users))
	}
}

func TestFindByEmail_CaseInsensitive(t *testing.T) {
	uc := New(setupStore(t), nil)
	ctx := context.Background()
	_ = uc.Seed(ctx)

	user, err := uc.FindByEmail(ctx, "  ADMIN@nexus.COM ")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if user.ID != SeedAdmin.ID {
		t.Fatalf("found %+v", user)
	}

	if _, err := uc.FindByEmail(ctx, "nobody@nexus.com"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
