package model

import (
	"time"

	"github.com/google/uuid"
)

// TaskPriority is the urgency level of a task.
type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
	PriorityUrgent TaskPriority = "urgent"
)

// TaskStatus is the lifecycle state of a task.
type TaskStatus string

const (
	StatusPending    TaskStatus = "pending"
	StatusInProgress TaskStatus = "in_progress"
	StatusCompleted  TaskStatus = "completed"
	StatusCancelled  TaskStatus = "cancelled"
)

// RepeatRule describes how a recurring task schedules its next occurrence.
type RepeatRule string

const (
	RepeatDaily    RepeatRule = "daily"
	RepeatWeekly   RepeatRule = "weekly"
	RepeatMonthly  RepeatRule = "monthly"
	RepeatYearly   RepeatRule = "yearly"
	RepeatWeekdays RepeatRule = "weekdays"
	RepeatWeekends RepeatRule = "weekends"
)

// Next returns the next occurrence of the rule strictly after from.
func (r RepeatRule) Next(from time.Time) time.Time {
	switch r {
	case RepeatDaily:
		return from.AddDate(0, 0, 1)
	case RepeatWeekly:
		return from.AddDate(0, 0, 7)
	case RepeatMonthly:
		return from.AddDate(0, 1, 0)
	case RepeatYearly:
		return from.AddDate(1, 0, 0)
	case RepeatWeekdays:
		next := from.AddDate(0, 0, 1)
		for isWeekend(next) {
			next = next.AddDate(0, 0, 1)
		}
		return next
	case RepeatWeekends:
		next := from.AddDate(0, 0, 1)
		for !isWeekend(next) {
			next = next.AddDate(0, 0, 1)
		}
		return next
	}
	return from
}

func isWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// Task is a single work item. It may belong to at most one project and
// at most one parent task; subtasks are deleted with their parent.
type Task struct {
	ID             uuid.UUID    `json:"id" db:"id"`
	Title          string       `json:"title" db:"title"`
	Description    string       `json:"description" db:"description"`
	Priority       TaskPriority `json:"priority" db:"priority"`
	Status         TaskStatus   `json:"status" db:"status"`
	DueDate        *time.Time   `json:"due_date,omitempty" db:"due_date"`
	CreatedAt      time.Time    `json:"created_at" db:"created_at"`
	CompletedAt    *time.Time   `json:"completed_at,omitempty" db:"completed_at"`
	ReminderDate   *time.Time   `json:"reminder_date,omitempty" db:"reminder_date"`
	RepeatRule     *RepeatRule  `json:"repeat_rule,omitempty" db:"repeat_rule"`
	RepeatInterval int          `json:"repeat_interval" db:"repeat_interval"`
	ProjectID      *uuid.UUID   `json:"project_id,omitempty" db:"project_id"`
	ParentTaskID   *uuid.UUID   `json:"parent_task_id,omitempty" db:"parent_task_id"`
}

// NewTask creates a pending task with a fresh identifier.
func NewTask(title, description string, priority TaskPriority) Task {
	return Task{
		ID:             uuid.New(),
		Title:          title,
		Description:    description,
		Priority:       priority,
		Status:         StatusPending,
		CreatedAt:      time.Now(),
		RepeatInterval: 1,
	}
}

// SetStatus transitions the task to status at the given time, keeping
// CompletedAt non-nil exactly when the status is completed.
func (t *Task) SetStatus(status TaskStatus, at time.Time) {
	t.Status = status
	if status == StatusCompleted {
		if t.CompletedAt == nil {
			done := at
			t.CompletedAt = &done
		}
	} else {
		t.CompletedAt = nil
	}
}
