package dashboard

import (
	"fmt"
	"testing"

	"github.com/fastygo/nexus/domain"
)

type fakeTasks []domain.Task

func (f fakeTasks) ListVisible() []domain.Task { return f }

type fakeLog []domain.ActivityLog

func (f fakeLog) Recent(n int) []domain.ActivityLog {
	if n > len(f) {
		n = len(f)
	}
	return f[:n]
}

func TestCompute(t *testing.T) {
	tasks := []domain.Task{
		{Status: domain.StatusCompleted, Priority: domain.PriorityHigh},
		{Status: domain.StatusInProgress, Priority: domain.PriorityHigh},
		{Status: domain.StatusPending, Priority: domain.PriorityMedium},
		{Status: domain.StatusCompleted, Priority: domain.PriorityLow},
	}
	got := Compute(tasks)
	want := Stats{Total: 4, Completed: 2, InProgress: 1, Pending: 1, High: 2, Medium: 1, Low: 1, CompletionRate: 0.5}
	if got != want {
		t.Fatalf("stats = %+v, want %+v", got, want)
	}

	if empty := Compute(nil); empty != (Stats{}) {
		t.Fatalf("empty stats = %+v", empty)
	}
}

func TestOverview_RecentActivityCapped(t *testing.T) {
	var log fakeLog
	for i := 0; i < 8; i++ {
		log = append(log, domain.ActivityLog{ID: fmt.Sprint(i)})
	}
	uc := New(fakeTasks{{Status: domain.StatusPending, Priority: domain.PriorityLow}}, log)

	overview := uc.Overview()
	if overview.Stats.Total != 1 || overview.Stats.Pending != 1 {
		t.Fatalf("stats = %+v", overview.Stats)
	}
	if len(overview.RecentActivity) != 5 || overview.RecentActivity[0].ID != "0" {
		t.Fatalf("recent = %+v", overview.RecentActivity)
	}
}
