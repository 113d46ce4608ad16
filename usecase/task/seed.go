package task

import (
	"time"

	"github.com/fastygo/nexus/domain"
)

// seedTasks are written on first run when no task record exists.
func seedTasks() []domain.Task {
	return []domain.Task{
		{
			ID:          "t1",
			Title:       "Implement Authentication Flow",
			Description: "Integrate JWT based auth with secure route protection.",
			Status:      domain.StatusCompleted,
			Priority:    domain.PriorityHigh,
			DueDate:     "2023-11-15",
			OwnerID:     "admin-seed",
			OwnerName:   "System Admin",
			Comments: []domain.Comment{
				{
					ID:        "c1",
					Text:      "Initial setup complete, waiting for review.",
					UserID:    "admin-seed",
					UserName:  "System Admin",
					CreatedAt: time.Date(2023, time.November, 14, 10, 0, 0, 0, time.UTC),
				},
			},
		},
		{
			ID:          "t2",
			Title:       "Database Schema Design",
			Description: "Finalize Mongoose schemas for Users, Orders, and Products.",
			Status:      domain.StatusInProgress,
			Priority:    domain.PriorityHigh,
			DueDate:     "2023-11-20",
			OwnerID:     "admin-seed",
			OwnerName:   "System Admin",
			Comments:    []domain.Comment{},
		},
		{
			ID:          "t3",
			Title:       "Client Dashboard UI",
			Description: "Implement responsive grid layout for the main statistics page.",
			Status:      domain.StatusPending,
			Priority:    domain.PriorityMedium,
			DueDate:     "2023-11-25",
			OwnerID:     "admin-seed",
			OwnerName:   "System Admin",
			Comments:    []domain.Comment{},
		},
	}
}
