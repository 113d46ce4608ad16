// Package identity keeps the registered user collection. It performs lookups by email only;
// no secret is stored or verified.
package identity

import (
	"context"
	"net/url"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fastygo/nexus/domain"
	"github.com/fastygo/nexus/repository"
)

// SeedAdmin is written once when no user collection exists.
var SeedAdmin = domain.User{
	ID:        "admin-seed",
	Name:      "System Admin",
	Email:     "admin@nexus.com",
	Role:      domain.RoleAdmin,
	AvatarURL: "https://ui-avatars.com/api/?name=System+Admin&background=6366f1&color=fff",
}

type UseCase struct {
	store  repository.KeyValueStore
	logger *zap.Logger

	mu sync.Mutex
}

func New(store repository.KeyValueStore, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		store:  store,
		logger: logger,
	}
}

// Seed writes the default administrator when the user collection is absent.
func (uc *UseCase) Seed(ctx context.Context) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	var users []domain.User
	found, err := repository.LoadJSON(ctx, uc.store, repository.KeyUsers, &users)
	if err != nil || found {
		return err
	}
	if err := repository.SaveJSON(ctx, uc.store, repository.KeyUsers, []domain.User{SeedAdmin}); err != nil {
		return err
	}
	uc.logger.Info("seeded default administrator", zap.String("email", SeedAdmin.Email))
	return nil
}

// Register adds a user. Emails are compared case-insensitively at this point only.
func (uc *UseCase) Register(ctx context.Context, name, email string, role domain.Role) (*domain.User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" || email == "" || !role.Valid() {
		return nil, domain.ErrInvalidPayload
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()

	users, err := uc.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].MatchesEmail(email) {
			return nil, domain.ErrDuplicateEmail
		}
	}

	user := domain.User{
		ID:        "usr-" + uuid.NewString(),
		Name:      name,
		Email:     email,
		Role:      role,
		AvatarURL: avatarURL(name),
	}
	if err := repository.SaveJSON(ctx, uc.store, repository.KeyUsers, append(users, user)); err != nil {
		return nil, err
	}

	uc.logger.Info("user registered", zap.String("user_id", user.ID), zap.String("role", string(role)))
	return &user, nil
}

// FindByEmail returns domain.ErrUserNotFound when no user matches.
func (uc *UseCase) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	users, err := uc.load(ctx)
	if err != nil {
		return nil, err
	}
	email = strings.TrimSpace(email)
	for i := range users {
		if users[i].MatchesEmail(email) {
			user := users[i]
			return &user, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (uc *UseCase) List(ctx context.Context) ([]domain.User, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.load(ctx)
}

func (uc *UseCase) load(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	if _, err := repository.LoadJSON(ctx, uc.store, repository.KeyUsers, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func avatarURL(name string) string {
	return "https://ui-avatars.com/api/?name=" + url.QueryEscape(name) + "&background=random&color=fff"
}
