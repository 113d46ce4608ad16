package dashboard

import (
	"github.com/fastygo/nexus/domain"
)

const recentActivityCount = 5

type TaskLister interface {
	ListVisible() []domain.Task
}

type ActivityReader interface {
	Recent(n int) []domain.ActivityLog
}

type Stats struct {
	Total          int     `json:"total"`
	Completed      int     `json:"completed"`
	InProgress     int     `json:"in_progress"`
	Pending        int     `json:"pending"`
	High           int     `json:"high"`
	Medium         int     `json:"medium"`
	Low            int     `json:"low"`
	CompletionRate float64 `json:"completion_rate"`
}

type Overview struct {
	Stats          Stats                `json:"stats"`
	RecentActivity []domain.ActivityLog `json:"recent_activity"`
}

type UseCase struct {
	tasks      TaskLister
	activities ActivityReader
}

func New(tasks TaskLister, activities ActivityReader) *UseCase {
	return &UseCase{tasks: tasks, activities: activities}
}

// Overview computes statistics over the tasks visible to the session and the latest activity.
func (uc *UseCase) Overview() Overview {
	return Overview{
		Stats:          Compute(uc.tasks.ListVisible()),
		RecentActivity: uc.activities.Recent(recentActivityCount),
	}
}

func Compute(tasks []domain.Task) Stats {
	var s Stats
	s.Total = len(tasks)
	for _, t := range tasks {
		switch t.Status {
		case domain.StatusCompleted:
			s.Completed++
		case domain.StatusInProgress:
			s.InProgress++
		case domain.StatusPending:
			s.Pending++
		}
		switch t.Priority {
		case domain.PriorityHigh:
			s.High++
		case domain.PriorityMedium:
			s.Medium++
		case domain.PriorityLow:
			s.Low++
		}
	}
	if s.Total > 0 {
		s.CompletionRate = float64(s.Completed) / float64(s.Total)
	}
	return s
}
