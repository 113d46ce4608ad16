package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/fastygo/nexus/domain"
	"github.com/fastygo/nexus/internal/config"
	"github.com/fastygo/nexus/usecase/insight"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Storage: config.StorageConfig{
			Driver:   config.DriverBolt,
			BoltPath: filepath.Join(t.TempDir(), "nexus.db"),
		},
		Session:  config.SessionConfig{Restore: "trust"},
		Activity: config.ActivityConfig{Limit: 100},
	}
}

func TestNew_BoltEndToEnd(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)

	a, err := New(ctx, cfg, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if a.Session.State() != domain.SessionAnonymous {
		t.Fatalf("state = %s, want anonymous", a.Session.State())
	}

	ok, err := a.Session.Login(ctx, "admin@nexus.com")
	if err != nil || !ok {
		t.Fatalf("login = %v, %v", ok, err)
	}
	if got := len(a.Tasks.ListVisible()); got != 3 {
		t.Fatalf("admin sees %d tasks, want 3", got)
	}

	created, err := a.Tasks.Create(ctx, domain.TaskInput{Title: "Wire app"})
	if err != nil || created == nil {
		t.Fatalf("create = %v, %v", created, err)
	}
	if got := a.Activity.Recent(1); len(got) != 1 || got[0].Action != domain.ActionCreatedTask {
		t.Fatalf("recent activity = %+v", got)
	}

	result := a.Insight.Analyze(ctx)
	if result.Outcome != insight.OutcomeUnconfigured {
		t.Fatalf("insight outcome = %s, want unconfigured", result.Outcome)
	}
	if err := a.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := New(ctx, cfg, nil)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	if reopened.Session.Current() == nil {
		t.Fatal("session not restored")
	}
	if got := len(reopened.Tasks.ListVisible()); got != 4 {
		t.Fatalf("after reopen admin sees %d tasks, want 4", got)
	}
}

func TestOpenStore_UnknownDriver(t *testing.T) {
	cfg := testConfig(t)
	cfg.Storage.Driver = "sqlite"
	if _, err := OpenStore(context.Background(), cfg, nil); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}
