package task

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fastygo/nexus/domain"
	appLogger "github.com/fastygo/nexus/pkg/logger"
	"github.com/fastygo/nexus/repository"
	"github.com/fastygo/nexus/usecase"
)

// Filter narrows ListVisible results. An empty or "all" status matches every task.
type Filter struct {
	Status string
	Search string
}

// UseCase owns the task collection, newest first.
//
// Every operation needs an authenticated session and only touches tasks the session user can
// see (admins see all tasks, users see their own). Anything else is a silent no-op.
type UseCase struct {
	store    repository.KeyValueStore
	session  usecase.CurrentUser
	activity usecase.ActivityRecorder
	logger   *zap.Logger
	now      func() time.Time

	mu    sync.RWMutex
	tasks []domain.Task
}

func New(store repository.KeyValueStore, session usecase.CurrentUser, activity usecase.ActivityRecorder, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		store:    store,
		session:  session,
		activity: activity,
		logger:   logger,
		now:      time.Now,
	}
}

// Load reads the task record, seeding the example tasks on first run.
// Records written before comments existed load with an empty comment list.
func (uc *UseCase) Load(ctx context.Context) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	var tasks []domain.Task
	found, err := repository.LoadJSON(ctx, uc.store, repository.KeyTasks, &tasks)
	if err != nil {
		return err
	}
	if !found {
		tasks = seedTasks()
		if err := repository.SaveJSON(ctx, uc.store, repository.KeyTasks, tasks); err != nil {
			return err
		}
		uc.logger.Info("seeded example tasks", zap.Int("count", len(tasks)))
	}

	for i := range tasks {
		if tasks[i].Comments == nil {
			tasks[i].Comments = []domain.Comment{}
		}
	}
	uc.tasks = tasks
	return nil
}

func (uc *UseCase) Create(ctx context.Context, input domain.TaskInput) (*domain.Task, error) {
	user := uc.session.Current()
	if user == nil {
		return nil, nil
	}
	if input.Status == "" {
		input.Status = domain.StatusPending
	}
	if input.Priority == "" {
		input.Priority = domain.PriorityMedium
	}
	if strings.TrimSpace(input.Title) == "" || !input.Status.Valid() || !input.Priority.Valid() {
		return nil, domain.ErrInvalidPayload
	}

	created := domain.Task{
		ID:          uuid.NewString(),
		Title:       input.Title,
		Description: input.Description,
		Status:      input.Status,
		Priority:    input.Priority,
		DueDate:     input.DueDate,
		OwnerID:     user.ID,
		OwnerName:   user.Name,
		Comments:    []domain.Comment{},
	}

	uc.mu.Lock()
	next := make([]domain.Task, 0, len(uc.tasks)+1)
	next = append(next, created)
	next = append(next, uc.tasks...)
	if err := uc.save(ctx, next); err != nil {
		uc.mu.Unlock()
		return nil, err
	}
	uc.mu.Unlock()

	uc.record(ctx, domain.ActionCreatedTask, fmt.Sprintf("Added \"%s\"", created.Title), created.ID)
	out := created.Clone()
	return &out, nil
}

// Update merges patch into the task. A status change logs "Updated Status", anything else "Updated Task".
func (uc *UseCase) Update(ctx context.Context, id string, patch domain.TaskPatch) (*domain.Task, error) {
	user := uc.session.Current()
	if user == nil {
		return nil, nil
	}
	if patch.Status != nil && !patch.Status.Valid() {
		return nil, domain.ErrInvalidPayload
	}
	if patch.Priority != nil && !patch.Priority.Valid() {
		return nil, domain.ErrInvalidPayload
	}

	uc.mu.Lock()
	idx := uc.indexVisible(user, id)
	if idx < 0 {
		uc.mu.Unlock()
		return nil, nil
	}
	before := uc.tasks[idx]
	after := before.Clone()
	patch.Apply(&after)

	next := make([]domain.Task, len(uc.tasks))
	copy(next, uc.tasks)
	next[idx] = after
	if err := uc.save(ctx, next); err != nil {
		uc.mu.Unlock()
		return nil, err
	}
	uc.mu.Unlock()

	if patch.Status != nil && *patch.Status != before.Status {
		uc.record(ctx, domain.ActionUpdatedStatus, fmt.Sprintf("Moved \"%s\" to %s", before.Title, after.Status), id)
	} else {
		uc.record(ctx, domain.ActionUpdatedTask, fmt.Sprintf("Modified details for \"%s\"", before.Title), id)
	}
	out := after.Clone()
	return &out, nil
}

// Delete reports whether a task was removed. Unknown ids are not logged.
func (uc *UseCase) Delete(ctx context.Context, id string) (bool, error) {
	user := uc.session.Current()
	if user == nil {
		return false, nil
	}

	uc.mu.Lock()
	idx := uc.indexVisible(user, id)
	if idx < 0 {
		uc.mu.Unlock()
		return false, nil
	}
	removed := uc.tasks[idx]
	next := make([]domain.Task, 0, len(uc.tasks)-1)
	next = append(next, uc.tasks[:idx]...)
	next = append(next, uc.tasks[idx+1:]...)
	if err := uc.save(ctx, next); err != nil {
		uc.mu.Unlock()
		return false, err
	}
	uc.mu.Unlock()

	uc.record(ctx, domain.ActionDeletedTask, fmt.Sprintf("Removed \"%s\"", removed.Title), id)
	return true, nil
}

// AddComment appends a comment and logs "Added Comment" only.
func (uc *UseCase) AddComment(ctx context.Context, taskID, text string) (*domain.Comment, error) {
	user := uc.session.Current()
	if user == nil {
		return nil, nil
	}
	if strings.TrimSpace(text) == "" {
		return nil, domain.ErrInvalidPayload
	}

	uc.mu.Lock()
	idx := uc.indexVisible(user, taskID)
	if idx < 0 {
		uc.mu.Unlock()
		return nil, nil
	}
	comment := domain.Comment{
		ID:        uuid.NewString(),
		Text:      text,
		UserID:    user.ID,
		UserName:  user.Name,
		CreatedAt: uc.now().UTC(),
	}
	updated := uc.tasks[idx].Clone()
	updated.Comments = append(updated.Comments, comment)

	next := make([]domain.Task, len(uc.tasks))
	copy(next, uc.tasks)
	next[idx] = updated
	if err := uc.save(ctx, next); err != nil {
		uc.mu.Unlock()
		return nil, err
	}
	uc.mu.Unlock()

	uc.record(ctx, domain.ActionAddedComment, fmt.Sprintf("Commented on \"%s\"", updated.Title), taskID)
	return &comment, nil
}

// ListVisible returns every task for admins and owned tasks otherwise, in stored order.
func (uc *UseCase) ListVisible() []domain.Task {
	return uc.Filter(Filter{})
}

// Filter applies a status and case-insensitive title search on top of ListVisible.
func (uc *UseCase) Filter(filter Filter) []domain.Task {
	user := uc.session.Current()
	out := []domain.Task{}
	if user == nil {
		return out
	}
	search := strings.ToLower(strings.TrimSpace(filter.Search))
	status := filter.Status
	if status == "all" {
		status = ""
	}

	uc.mu.RLock()
	defer uc.mu.RUnlock()
	for _, t := range uc.tasks {
		if !visible(user, t) {
			continue
		}
		if status != "" && string(t.Status) != status {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(t.Title), search) {
			continue
		}
		out = append(out, t.Clone())
	}
	return out
}

// Get returns a visible task or nil.
func (uc *UseCase) Get(id string) *domain.Task {
	user := uc.session.Current()
	if user == nil {
		return nil
	}
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	idx := uc.indexVisible(user, id)
	if idx < 0 {
		return nil
	}
	out := uc.tasks[idx].Clone()
	return &out
}

// Digests returns the insight payload for the visible tasks.
func (uc *UseCase) Digests() []domain.TaskDigest {
	tasks := uc.ListVisible()
	out := make([]domain.TaskDigest, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.Digest())
	}
	return out
}

func (uc *UseCase) indexVisible(user *domain.User, id string) int {
	for i := range uc.tasks {
		if uc.tasks[i].ID == id {
			if !visible(user, uc.tasks[i]) {
				return -1
			}
			return i
		}
	}
	return -1
}

// save must be called with mu held.
func (uc *UseCase) save(ctx context.Context, next []domain.Task) error {
	if err := repository.SaveJSON(ctx, uc.store, repository.KeyTasks, next); err != nil {
		return err
	}
	uc.tasks = next
	return nil
}

func (uc *UseCase) record(ctx context.Context, action, details, id string) {
	if uc.activity == nil {
		return
	}
	if err := uc.activity.Record(ctx, action, details, id); err != nil {
		appLogger.WithRequestID(ctx, uc.logger).Error("failed to record activity", zap.String("action", action), zap.String("task_id", id), zap.Error(err))
	}
}

func visible(user *domain.User, t domain.Task) bool {
	return user.IsAdmin() || t.OwnerID == user.ID
}
