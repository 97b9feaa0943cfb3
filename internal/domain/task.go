package domain

import "time"

// Task represents a to-do item in the domain model.
// This is a pure domain model without database-specific concerns.
type Task struct {
	ID        int64
	Text      string
	Done      bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewTask creates a new open Task stamped with the given creation time.
func NewTask(text string, now time.Time) Task {
	return Task{
		Text:      text,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Touch refreshes UpdatedAt. The new value is always strictly later than the
// previous one, even when the clock has not advanced since the last mutation.
func (t *Task) Touch(now time.Time) {
	if !now.After(t.UpdatedAt) {
		now = t.UpdatedAt.Add(time.Microsecond)
	}
	t.UpdatedAt = now
}

// In returns a copy of the task with both timestamps expressed in loc.
func (t Task) In(loc *time.Location) Task {
	if loc == nil {
		return t
	}
	t.CreatedAt = t.CreatedAt.In(loc)
	t.UpdatedAt = t.UpdatedAt.In(loc)
	return t
}
