package usecase

import (
	"context"

	"github.com/fastygo/nexus/domain"
)

// CurrentUser exposes the authenticated user of the running session, or nil.
type CurrentUser interface {
	Current() *domain.User
}

// ActivityRecorder appends entries to the activity log.
type ActivityRecorder interface {
	Record(ctx context.Context, action, details, entityID string) error
}

// ActionObserver receives every recorded activity action, e.g. for metrics.
type ActionObserver interface {
	ObserveAction(action string)
}
