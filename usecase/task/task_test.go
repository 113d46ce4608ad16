package task

import (
	"context"
	"encoding/json"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/fastygo/nexus/domain"
	"github.com/fastygo/nexus/repository"
	boltstore "github.com/fastygo/nexus/repository/bolt"
	"github.com/fastygo/nexus/usecase/activity"
)

type switchableSession struct {
	user *domain.User
}

func (s *switchableSession) Current() *domain.User {
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

var (
	admin = &domain.User{ID: "admin-seed", Name: "System Admin", Role: domain.RoleAdmin}
	ulla  = &domain.User{ID: "usr-ulla", Name: "Ulla", Role: domain.RoleUser}
	omar  = &domain.User{ID: "usr-omar", Name: "Omar", Role: domain.RoleUser}
)

type fixture struct {
	store    repository.KeyValueStore
	session  *switchableSession
	activity *activity.UseCase
	tasks    *UseCase
}

func setup(t *testing.T) fixture {
	t.Helper()
	store, err := boltstore.Open(filepath.Join(t.TempDir(), "nexus.db"), "")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	session := &switchableSession{}
	log := activity.New(store, session, 0, nil)
	tasks := New(store, session, log, nil)
	if err := tasks.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	return fixture{store: store, session: session, activity: log, tasks: tasks}
}

func strPtr(s string) *string { return &s }

func statusPtr(s domain.TaskStatus) *domain.TaskStatus { return &s }

func TestLoad_SeedIsIdempotent(t *testing.T) {
	first := setup(t)
	second := setup(t)
	first.session.user = admin
	second.session.user = admin

	a, b := first.tasks.ListVisible(), second.tasks.ListVisible()
	if len(a) != 3 {
		t.Fatalf("expected 3 seeded tasks, got %d", len(a))
	}
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("seeding differs between fresh starts:\n%+v\n%+v", a, b)
	}

	if err := first.tasks.Load(context.Background()); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got := first.tasks.ListVisible(); !reflect.DeepEqual(got, a) {
		t.Fatalf("reload changed tasks: %+v", got)
	}
}

func TestLoad_LegacyRecordWithoutComments(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	legacy := `[{"id":"old","title":"Legacy","description":"","status":"pending","priority":"low","dueDate":"2023-01-01","ownerId":"admin-seed","ownerName":"System Admin"}]`
	if err := f.store.Set(ctx, repository.KeyTasks, []byte(legacy)); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := f.tasks.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}

	f.session.user = admin
	tasks := f.tasks.ListVisible()
	if len(tasks) != 1 || tasks[0].Comments == nil || len(tasks[0].Comments) != 0 {
		t.Fatalf("expected normalized empty comments, got %+v", tasks)
	}

	raw, err := json.Marshal(tasks)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded []domain.Task
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !reflect.DeepEqual(decoded, tasks) {
		t.Fatalf("round trip mismatch:\n%+v\n%+v", decoded, tasks)
	}
}

func TestCreate_Scenario(t *testing.T) {
	f := setup(t)
	f.session.user = ulla
	ctx := context.Background()

	created, err := f.tasks.Create(ctx, domain.TaskInput{
		Title:    "Spec draft",
		Status:   domain.StatusPending,
		Priority: domain.PriorityHigh,
		DueDate:  "2024-01-10",
	})
	if err != nil || created == nil {
		t.Fatalf("create: %+v %v", created, err)
	}

	visible := f.tasks.ListVisible()
	if len(visible) != 1 || visible[0].ID != created.ID {
		t.Fatalf("user should see only the new task, got %+v", visible)
	}
	if visible[0].OwnerName != ulla.Name || visible[0].OwnerID != ulla.ID || len(visible[0].Comments) != 0 {
		t.Fatalf("unexpected task %+v", visible[0])
	}

	head := f.activity.Recent(1)[0]
	if head.Action != domain.ActionCreatedTask || head.EntityID != created.ID || head.Details != `Added "Spec draft"` {
		t.Fatalf("log head = %+v", head)
	}

	f.session.user = admin
	if all := f.tasks.ListVisible(); all[0].ID != created.ID || len(all) != 4 {
		t.Fatalf("new task must be prepended, got %+v", all)
	}
}

func TestCreate_Validation(t *testing.T) {
	f := setup(t)
	f.session.user = ulla
	ctx := context.Background()

	tests := []struct {
		name  string
		input domain.TaskInput
	}{
		{"blank title", domain.TaskInput{Title: "  "}},
		{"bad status", domain.TaskInput{Title: "x", Status: "done"}},
		{"bad priority", domain.TaskInput{Title: "x", Priority: "urgent"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := f.tasks.Create(ctx, tt.input); !domain.IsDomainError(err, domain.ErrCodeInvalid) {
				t.Fatalf("expected invalid payload, got %v", err)
			}
		})
	}

	created, err := f.tasks.Create(ctx, domain.TaskInput{Title: "defaults"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Status != domain.StatusPending || created.Priority != domain.PriorityMedium {
		t.Fatalf("defaults not applied: %+v", created)
	}
}

func TestUpdate_Logging(t *testing.T) {
	f := setup(t)
	f.session.user = ulla
	ctx := context.Background()
	created, _ := f.tasks.Create(ctx, domain.TaskInput{Title: "Spec draft", Priority: domain.PriorityHigh, DueDate: "2024-01-10"})

	updated, err := f.tasks.Update(ctx, created.ID, domain.TaskPatch{Status: statusPtr(domain.StatusCompleted)})
	if err != nil || updated == nil || updated.Status != domain.StatusCompleted {
		t.Fatalf("update: %+v %v", updated, err)
	}
	head := f.activity.Recent(1)[0]
	if head.Action != domain.ActionUpdatedStatus || !strings.Contains(head.Details, "completed") {
		t.Fatalf("log head = %+v", head)
	}

	if _, err := f.tasks.Update(ctx, created.ID, domain.TaskPatch{Title: strPtr("Spec final"), Status: statusPtr(domain.StatusCompleted)}); err != nil {
		t.Fatalf("update: %v", err)
	}
	head = f.activity.Recent(1)[0]
	if head.Action != domain.ActionUpdatedTask || head.Details != `Modified details for "Spec draft"` {
		t.Fatalf("same status must log a generic update, got %+v", head)
	}
	if got := f.tasks.Get(created.ID); got.Title != "Spec final" || got.DueDate != "2024-01-10" {
		t.Fatalf("patch not merged: %+v", got)
	}

	if _, err := f.tasks.Update(ctx, created.ID, domain.TaskPatch{Status: statusPtr("archived")}); !domain.IsDomainError(err, domain.ErrCodeInvalid) {
		t.Fatalf("expected invalid status error, got %v", err)
	}
}

func TestUpdate_UnknownOrForeignTaskIsNoop(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	f.session.user = ulla
	created, _ := f.tasks.Create(ctx, domain.TaskInput{Title: "mine"})
	before := len(f.activity.All())

	f.session.user = omar
	for _, id := range []string{"missing", created.ID} {
		got, err := f.tasks.Update(ctx, id, domain.TaskPatch{Title: strPtr("hijack")})
		if err != nil || got != nil {
			t.Fatalf("update %s: %+v %v", id, got, err)
		}
	}
	if len(f.activity.All()) != before {
		t.Fatal("no-op updates must not be logged")
	}

	f.session.user = admin
	if got := f.tasks.Get(created.ID); got.Title != "mine" {
		t.Fatalf("task was modified: %+v", got)
	}
	if _, err := f.tasks.Update(ctx, created.ID, domain.TaskPatch{Title: strPtr("by admin")}); err != nil {
		t.Fatalf("admin update: %v", err)
	}
	if got := f.tasks.Get(created.ID); got.Title != "by admin" {
		t.Fatalf("admin should be able to update any task: %+v", got)
	}
}

func TestDelete(t *testing.T) {
	f := setup(t)
	f.session.user = admin
	ctx := context.Background()
	before := f.tasks.ListVisible()
	logBefore := len(f.activity.All())

	removed, err := f.tasks.Delete(ctx, "does-not-exist")
	if err != nil || removed {
		t.Fatalf("delete missing: %v %v", removed, err)
	}
	if !reflect.DeepEqual(f.tasks.ListVisible(), before) || len(f.activity.All()) != logBefore {
		t.Fatal("deleting a missing id must change nothing")
	}

	removed, err = f.tasks.Delete(ctx, "t2")
	if err != nil || !removed {
		t.Fatalf("delete t2: %v %v", removed, err)
	}
	if f.tasks.Get("t2") != nil || len(f.tasks.ListVisible()) != 2 {
		t.Fatal("t2 still present")
	}
	head := f.activity.Recent(1)[0]
	if head.Action != domain.ActionDeletedTask || head.EntityID != "t2" || head.Details != `Removed "Database Schema Design"` {
		t.Fatalf("log head = %+v", head)
	}

	reloaded := New(f.store, f.session, nil, nil)
	if err := reloaded.Load(ctx); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if len(reloaded.ListVisible()) != 2 {
		t.Fatal("delete was not persisted")
	}
}

func TestAddComment_LogsOnce(t *testing.T) {
	f := setup(t)
	f.session.user = admin
	ctx := context.Background()
	logBefore := len(f.activity.All())

	comment, err := f.tasks.AddComment(ctx, "t3", "looks good")
	if err != nil || comment == nil {
		t.Fatalf("add comment: %+v %v", comment, err)
	}
	if comment.UserID != admin.ID || comment.UserName != admin.Name || comment.CreatedAt.IsZero() {
		t.Fatalf("comment not attributed: %+v", comment)
	}

	task := f.tasks.Get("t3")
	if len(task.Comments) != 1 || task.Comments[0].ID != comment.ID {
		t.Fatalf("comments = %+v", task.Comments)
	}

	entries := f.activity.All()
	if len(entries) != logBefore+1 {
		t.Fatalf("expected exactly one new log entry, got %d", len(entries)-logBefore)
	}
	if entries[0].Action != domain.ActionAddedComment || entries[0].EntityID != "t3" {
		t.Fatalf("log head = %+v", entries[0])
	}
	for _, e := range entries {
		if e.Action == domain.ActionUpdatedTask {
			t.Fatal("comment must not log a generic update")
		}
	}

	second, _ := f.tasks.AddComment(ctx, "t3", "second")
	task = f.tasks.Get("t3")
	if len(task.Comments) != 2 || task.Comments[1].ID != second.ID {
		t.Fatal("comments must keep append order")
	}

	if c, err := f.tasks.AddComment(ctx, "missing", "x"); c != nil || err != nil {
		t.Fatalf("missing task: %+v %v", c, err)
	}
}

func TestListVisible_RoleScoping(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	f.session.user = ulla
	u1, _ := f.tasks.Create(ctx, domain.TaskInput{Title: "u1"})
	f.session.user = omar
	_, _ = f.tasks.Create(ctx, domain.TaskInput{Title: "o1"})
	f.session.user = ulla
	u2, _ := f.tasks.Create(ctx, domain.TaskInput{Title: "u2"})

	got := f.tasks.ListVisible()
	if len(got) != 2 || got[0].ID != u2.ID || got[1].ID != u1.ID {
		t.Fatalf("user view = %+v", got)
	}
	for _, task := range got {
		if task.OwnerID != ulla.ID {
			t.Fatalf("foreign task leaked: %+v", task)
		}
	}

	f.session.user = admin
	if all := f.tasks.ListVisible(); len(all) != 6 {
		t.Fatalf("admin should see every task, got %d", len(all))
	}

	f.session.user = nil
	if none := f.tasks.ListVisible(); len(none) != 0 {
		t.Fatalf("anonymous view = %+v", none)
	}
}

func TestFilter(t *testing.T) {
	f := setup(t)
	f.session.user = admin

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"all", Filter{Status: "all"}, []string{"t1", "t2", "t3"}},
		{"status", Filter{Status: string(domain.StatusInProgress)}, []string{"t2"}},
		{"search case insensitive", Filter{Search: "DASHBOARD"}, []string{"t3"}},
		{"status and search", Filter{Status: "completed", Search: "schema"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ids []string
			for _, task := range f.tasks.Filter(tt.filter) {
				ids = append(ids, task.ID)
			}
			if !reflect.DeepEqual(ids, tt.want) {
				t.Fatalf("ids = %v, want %v", ids, tt.want)
			}
		})
	}
}

func TestNoSession_IsSilent(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	if got, err := f.tasks.Create(ctx, domain.TaskInput{Title: "x"}); got != nil || err != nil {
		t.Fatalf("create: %+v %v", got, err)
	}
	if got, err := f.tasks.Update(ctx, "t1", domain.TaskPatch{Title: strPtr("x")}); got != nil || err != nil {
		t.Fatalf("update: %+v %v", got, err)
	}
	if ok, err := f.tasks.Delete(ctx, "t1"); ok || err != nil {
		t.Fatalf("delete: %v %v", ok, err)
	}
	if got, err := f.tasks.AddComment(ctx, "t1", "x"); got != nil || err != nil {
		t.Fatalf("comment: %+v %v", got, err)
	}
	if len(f.activity.All()) != 0 {
		t.Fatal("anonymous calls must not log")
	}

	f.session.user = admin
	if len(f.tasks.ListVisible()) != 3 {
		t.Fatal("anonymous calls must not mutate tasks")
	}
}

func TestOwnerName_DoesNotUpdateRetroactively(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	f.session.user = &domain.User{ID: ulla.ID, Name: "Ulla", Role: domain.RoleUser}
	created, _ := f.tasks.Create(ctx, domain.TaskInput{Title: "snapshot"})

	f.session.user = &domain.User{ID: ulla.ID, Name: "Ulla Renamed", Role: domain.RoleUser}
	if got := f.tasks.Get(created.ID); got.OwnerName != "Ulla" {
		t.Fatalf("owner name should stay a creation-time snapshot, got %q", got.OwnerName)
	}
}

func TestReturnedTasksAreCopies(t *testing.T) {
	f := setup(t)
	f.session.user = admin
	listed := f.tasks.ListVisible()
	listed[0].Title = "mutated"
	listed[0].Comments[0].Text = "mutated"

	fresh := f.tasks.Get("t1")
	if fresh.Title == "mutated" || fresh.Comments[0].Text == "mutated" {
		t.Fatal("callers must not be able to mutate store state")
	}
}

func TestDigests(t *testing.T) {
	f := setup(t)
	f.session.user = admin
	digests := f.tasks.Digests()
	if len(digests) != 3 {
		t.Fatalf("digests = %+v", digests)
	}
	want := domain.TaskDigest{Title: "Implement Authentication Flow", Status: domain.StatusCompleted, Priority: domain.PriorityHigh, Due: "2023-11-15", Owner: "System Admin"}
	if digests[0] != want {
		t.Fatalf("digest = %+v", digests[0])
	}
}
