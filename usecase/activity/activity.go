// Package activity keeps the bounded, newest-first audit trail of user actions.
package activity

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fastygo/nexus/domain"
	appLogger "github.com/fastygo/nexus/pkg/logger"
	"github.com/fastygo/nexus/repository"
	"github.com/fastygo/nexus/usecase"
)

const DefaultLimit = 100

type UseCase struct {
	store    repository.KeyValueStore
	session  usecase.CurrentUser
	observer usecase.ActionObserver
	limit    int
	logger   *zap.Logger
	now      func() time.Time

	mu      sync.RWMutex
	entries []domain.ActivityLog
}

func New(store repository.KeyValueStore, session usecase.CurrentUser, limit int, logger *zap.Logger) *UseCase {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		store:   store,
		session: session,
		limit:   limit,
		logger:  logger,
		now:     time.Now,
	}
}

// WithObserver registers a callback notified of each recorded action.
func (uc *UseCase) WithObserver(observer usecase.ActionObserver) *UseCase {
	uc.observer = observer
	return uc
}

// Load reads the persisted log. A missing record yields an empty log.
func (uc *UseCase) Load(ctx context.Context) error {
	var entries []domain.ActivityLog
	if _, err := repository.LoadJSON(ctx, uc.store, repository.KeyActivities, &entries); err != nil {
		return err
	}
	if len(entries) > uc.limit {
		entries = entries[:uc.limit]
	}

	uc.mu.Lock()
	uc.entries = entries
	uc.mu.Unlock()
	return nil
}

// Record prepends an entry attributed to the session user. Without a session it does nothing.
func (uc *UseCase) Record(ctx context.Context, action, details, entityID string) error {
	user := uc.session.Current()
	if user == nil {
		return nil
	}

	entry := domain.ActivityLog{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		UserName:  user.Name,
		Action:    action,
		Timestamp: uc.now().UTC(),
		Details:   details,
		EntityID:  entityID,
	}

	uc.mu.Lock()
	next := make([]domain.ActivityLog, 0, min(len(uc.entries)+1, uc.limit))
	next = append(next, entry)
	next = append(next, uc.entries...)
	if len(next) > uc.limit {
		next = next[:uc.limit]
	}
	if err := repository.SaveJSON(ctx, uc.store, repository.KeyActivities, next); err != nil {
		uc.mu.Unlock()
		return err
	}
	uc.entries = next
	uc.mu.Unlock()

	if uc.observer != nil {
		uc.observer.ObserveAction(action)
	}
	appLogger.WithRequestID(ctx, uc.logger).Debug("activity recorded",
		zap.String("action", action),
		zap.String("user_id", user.ID),
		zap.String("entity_id", entityID))
	return nil
}

// History returns the entries linked to entityID, newest first.
func (uc *UseCase) History(entityID string) []domain.ActivityLog {
	uc.mu.RLock()
	defer uc.mu.RUnlock()

	out := []domain.ActivityLog{}
	for _, entry := range uc.entries {
		if entry.EntityID == entityID {
			out = append(out, entry)
		}
	}
	return out
}

// Recent returns at most n of the newest entries. n <= 0 returns the whole log.
func (uc *UseCase) Recent(n int) []domain.ActivityLog {
	uc.mu.RLock()
	defer uc.mu.RUnlock()

	if n <= 0 || n > len(uc.entries) {
		n = len(uc.entries)
	}
	out := make([]domain.ActivityLog, n)
	copy(out, uc.entries[:n])
	return out
}

func (uc *UseCase) All() []domain.ActivityLog {
	return uc.Recent(0)
}

var _ usecase.ActivityRecorder = (*UseCase)(nil)
