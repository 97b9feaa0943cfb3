package sqlite

import "time"

// Task is one row of the tasks table.
type Task struct {
	ID        int64
	Text      string
	Done      bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
