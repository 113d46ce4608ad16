// Package auth tracks the single active session of the process.
//
// Login is an email lookup against the identity store; there is no credential check. On startup
// the persisted session record is either trusted as is or re-resolved against the identity store,
// depending on the configured domain.RestoreMode.
package auth

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/fastygo/nexus/domain"
	"github.com/fastygo/nexus/repository"
	"github.com/fastygo/nexus/usecase"
)

// Directory resolves and registers users.
type Directory interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Register(ctx context.Context, name, email string, role domain.Role) (*domain.User, error)
}

type Options struct {
	Mode       domain.RestoreMode
	LoginDelay time.Duration
}

type UseCase struct {
	users  Directory
	store  repository.KeyValueStore
	opts   Options
	logger *zap.Logger

	mu    sync.RWMutex
	state domain.SessionState
	user  *domain.User
}

func New(users Directory, store repository.KeyValueStore, opts Options, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Mode == "" {
		opts.Mode = domain.RestoreTrust
	}
	return &UseCase{
		users:  users,
		store:  store,
		opts:   opts,
		logger: logger,
		state:  domain.SessionLoading,
	}
}

// Restore leaves the loading state using the persisted session record.
func (uc *UseCase) Restore(ctx context.Context) error {
	var persisted domain.User
	found, err := repository.LoadJSON(ctx, uc.store, repository.KeySession, &persisted)
	if err != nil {
		uc.setAnonymous()
		return err
	}
	if !found {
		uc.setAnonymous()
		return nil
	}

	if uc.opts.Mode == domain.RestoreRevalidate {
		resolved, err := uc.users.FindByEmail(ctx, persisted.Email)
		if err != nil {
			if !errors.Is(err, domain.ErrUserNotFound) {
				uc.setAnonymous()
				return err
			}
			uc.logger.Warn("persisted session no longer resolves, discarding", zap.String("user_id", persisted.ID))
			uc.setAnonymous()
			return uc.store.Remove(ctx, repository.KeySession)
		}
		persisted = *resolved
	}

	uc.setAuthenticated(&persisted)
	uc.logger.Info("session restored", zap.String("user_id", persisted.ID), zap.String("mode", string(uc.opts.Mode)))
	return nil
}

// Login authenticates by email alone. An unknown email returns false and leaves the state unchanged.
func (uc *UseCase) Login(ctx context.Context, email string) (bool, error) {
	if err := uc.wait(ctx); err != nil {
		return false, err
	}

	user, err := uc.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			uc.logger.Info("login rejected", zap.String("reason", "unknown email"))
			return false, nil
		}
		return false, err
	}

	if err := uc.persist(ctx, user); err != nil {
		return false, err
	}
	uc.logger.Info("user logged in", zap.String("user_id", user.ID))
	return true, nil
}

// Signup registers a user and logs it in. A taken email returns false without mutating anything.
func (uc *UseCase) Signup(ctx context.Context, name, email string, role domain.Role) (bool, error) {
	if err := uc.wait(ctx); err != nil {
		return false, err
	}

	user, err := uc.users.Register(ctx, name, email, role)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			uc.logger.Info("signup rejected", zap.String("reason", "duplicate email"))
			return false, nil
		}
		return false, err
	}

	if err := uc.persist(ctx, user); err != nil {
		return false, err
	}
	return true, nil
}

// Logout clears the persisted session. Calling it while anonymous is harmless.
func (uc *UseCase) Logout(ctx context.Context) error {
	if err := uc.store.Remove(ctx, repository.KeySession); err != nil {
		return err
	}
	uc.setAnonymous()
	return nil
}

// Current returns a copy of the session user, or nil when anonymous.
func (uc *UseCase) Current() *domain.User {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	if uc.user == nil {
		return nil
	}
	user := *uc.user
	return &user
}

func (uc *UseCase) State() domain.SessionState {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	return uc.state
}

func (uc *UseCase) persist(ctx context.Context, user *domain.User) error {
	if err := repository.SaveJSON(ctx, uc.store, repository.KeySession, user); err != nil {
		return err
	}
	uc.setAuthenticated(user)
	return nil
}

func (uc *UseCase) wait(ctx context.Context) error {
	if uc.opts.LoginDelay <= 0 {
		return nil
	}
	timer := time.NewTimer(uc.opts.LoginDelay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (uc *UseCase) setAuthenticated(user *domain.User) {
	copied := *user
	uc.mu.Lock()
	uc.user = &copied
	uc.state = domain.SessionAuthenticated
	uc.mu.Unlock()
}

func (uc *UseCase) setAnonymous() {
	uc.mu.Lock()
	uc.user = nil
	uc.state = domain.SessionAnonymous
	uc.mu.Unlock()
}

var _ usecase.CurrentUser = (*UseCase)(nil)
