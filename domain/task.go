package domain

import "time"

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// DueDateLayout is the calendar-date form due dates carry.
const DueDateLayout = "2006-01-02"

// Task represents an assigned activity item. AssignedTo and AssignedBy are
// snapshots of the users at creation time, not live references.
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	AssignedTo  User       `json:"assignedTo"`
	AssignedBy  User       `json:"assignedBy"`
	Priority    Priority   `json:"priority"`
	Status      Status     `json:"status"`
	DueDate     string     `json:"dueDate"`
	CreatedAt   time.Time  `json:"createdAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

func (t *Task) IsCompleted() bool {
	return t != nil && t.Status == StatusCompleted
}

// CompletedOnTime reports whether the task was completed on or before its
// due date. Both sides are compared as calendar dates; ISO dates order
// correctly as strings.
func (t *Task) CompletedOnTime() bool {
	if !t.IsCompleted() || t.CompletedAt == nil || t.DueDate == "" {
		return false
	}
	return t.CompletedAt.Format(DueDateLayout) <= t.DueDate
}

// TaskPatch carries the fields of a partial update. Nil fields are left
// untouched; CreatedAt and the id are never patchable.
type TaskPatch struct {
	Title       *string
	Description *string
	AssignedTo  *User
	Priority    *Priority
	Status      *Status
	DueDate     *string
	CompletedAt *time.Time
}

// Apply merges the patch into the task.
func (t *Task) Apply(p TaskPatch) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.AssignedTo != nil {
		t.AssignedTo = *p.AssignedTo
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.DueDate != nil {
		t.DueDate = *p.DueDate
	}
	if p.CompletedAt != nil {
		at := *p.CompletedAt
		t.CompletedAt = &at
	}
}
