package services

import (
	"context"
	"time"

	"todo-list/internal/domain"
)

// Clock supplies the current time. Tests replace it to get deterministic
// timestamps.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns a Clock backed by time.Now.
func SystemClock() Clock {
	return systemClock{}
}

// TaskService handles the lifecycle of database-backed tasks
type TaskService interface {
	// Queries
	ListTasks(ctx context.Context) ([]domain.Task, error)
	GetTask(ctx context.Context, id int64) (*domain.Task, error)

	// Mutations; blank text yields a validation error before any lookup
	CreateTask(ctx context.Context, text string) (*domain.Task, error)
	EditTask(ctx context.Context, id int64, text string) (*domain.Task, error)
	ToggleTask(ctx context.Context, id int64) (*domain.Task, error)
	DeleteTask(ctx context.Context, id int64) error

	// Bulk import; every task shares one creation timestamp
	ImportTasks(ctx context.Context, texts []string) ([]domain.Task, error)

	// Location is the civil time zone returned timestamps are expressed in
	Location() *time.Location
}

// TextListService handles the flat-file task list, where a task is
// identified by its line index.
type TextListService interface {
	ListLines(ctx context.Context) (domain.TextList, error)
	AddLine(ctx context.Context, text string) (domain.TextList, error)
	UpdateLine(ctx context.Context, index int, text string) (bool, error)
	DeleteLine(ctx context.Context, text string) (bool, error)
}

// ServiceContainer groups the services a process wires up
type ServiceContainer struct {
	TaskService     TaskService
	TextListService TextListService
}
