package services

import (
	"context"
	"strconv"
	"strings"
	"time"

	"todo-list/internal/domain"
	"todo-list/internal/errors"
	"todo-list/internal/logging"
	"todo-list/internal/repository/sqlite"
	"todo-list/internal/validation"
)

// taskServiceImpl implements the TaskService interface
type taskServiceImpl struct {
	repo          sqlite.Repository
	clock         Clock
	location      *time.Location
	mapper        *domain.Mapper
	taskValidator *validation.TaskValidator
}

// NewTaskService creates a new TaskService instance. A nil clock means the
// system clock and a nil location means UTC.
func NewTaskService(repo sqlite.Repository, clock Clock, location *time.Location) TaskService {
	if clock == nil {
		clock = SystemClock()
	}
	if location == nil {
		location = time.UTC
	}
	return &taskServiceImpl{
		repo:          repo,
		clock:         clock,
		location:      location,
		mapper:        domain.NewMapper(),
		taskValidator: validation.NewTaskValidator(),
	}
}

func (t *taskServiceImpl) Location() *time.Location {
	return t.location
}

func (t *taskServiceImpl) now() time.Time {
	return t.clock.Now().In(t.location)
}

func (t *taskServiceImpl) toDomain(dbTask *sqlite.Task) *domain.Task {
	task := t.mapper.Task.FromDatabase(*dbTask).In(t.location)
	return &task
}

// ListTasks returns every task, newest first
func (t *taskServiceImpl) ListTasks(ctx context.Context) ([]domain.Task, error) {
	dbTasks, err := t.repo.ListTasks(ctx)
	if err != nil {
		return nil, err
	}

	tasks := t.mapper.Task.FromDatabaseSlice(dbTasks)
	for i := range tasks {
		tasks[i] = tasks[i].In(t.location)
	}
	return tasks, nil
}

// GetTask retrieves a task by its ID
func (t *taskServiceImpl) GetTask(ctx context.Context, id int64) (*domain.Task, error) {
	if err := t.taskValidator.ValidateTaskID(id); err != nil {
		return nil, errors.NewNotFoundError("task", strconv.FormatInt(id, 10))
	}

	dbTask, err := t.repo.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}
	return t.toDomain(dbTask), nil
}

// CreateTask stores a new open task
func (t *taskServiceImpl) CreateTask(ctx context.Context, text string) (*domain.Task, error) {
	cleaned, err := t.taskValidator.CleanText("task", text)
	if err != nil {
		return nil, err
	}

	task := domain.NewTask(cleaned, t.now())
	dbTask := t.mapper.Task.ToDatabase(task)
	if err := t.repo.CreateTask(ctx, &dbTask); err != nil {
		return nil, err
	}

	logging.Debugf("created task %d", dbTask.ID)
	return t.toDomain(&dbTask), nil
}

// EditTask replaces the text of an existing task. Blank text is rejected
// before the task is looked up.
func (t *taskServiceImpl) EditTask(ctx context.Context, id int64, text string) (*domain.Task, error) {
	cleaned, err := t.taskValidator.CleanText("new_task", text)
	if err != nil {
		return nil, err
	}

	dbTask, err := t.repo.ModifyTask(ctx, id, func(row *sqlite.Task) error {
		row.Text = cleaned
		t.touch(row)
		return nil
	})
	if err != nil {
		return nil, err
	}

	logging.Debugf("edited task %d", id)
	return t.toDomain(dbTask), nil
}

// ToggleTask flips the completion flag
func (t *taskServiceImpl) ToggleTask(ctx context.Context, id int64) (*domain.Task, error) {
	dbTask, err := t.repo.ModifyTask(ctx, id, func(row *sqlite.Task) error {
		row.Done = !row.Done
		t.touch(row)
		return nil
	})
	if err != nil {
		return nil, err
	}

	logging.Debugf("toggled task %d to done=%t", id, dbTask.Done)
	return t.toDomain(dbTask), nil
}

func (t *taskServiceImpl) touch(dbTask *sqlite.Task) {
	task := t.mapper.Task.FromDatabase(*dbTask)
	task.Touch(t.now())
	dbTask.UpdatedAt = task.UpdatedAt
}

// DeleteTask removes a task
func (t *taskServiceImpl) DeleteTask(ctx context.Context, id int64) error {
	if err := t.repo.DeleteTask(ctx, id); err != nil {
		return err
	}
	logging.Debugf("deleted task %d", id)
	return nil
}

// ImportTasks creates one open task per non-blank text in a single
// transaction. All of them share the same creation timestamp.
func (t *taskServiceImpl) ImportTasks(ctx context.Context, texts []string) ([]domain.Task, error) {
	batch := t.now()

	tasks := make([]domain.Task, 0, len(texts))
	for _, text := range texts {
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		tasks = append(tasks, domain.NewTask(text, batch))
	}
	if len(tasks) == 0 {
		return tasks, nil
	}

	dbTasks := t.mapper.Task.ToDatabaseSlice(tasks)
	if err := t.repo.CreateTasks(ctx, dbTasks); err != nil {
		return nil, err
	}

	logging.Debugf("imported %d task(s)", len(dbTasks))
	imported := t.mapper.Task.FromDatabaseSlice(dbTasks)
	for i := range imported {
		imported[i] = imported[i].In(t.location)
	}
	return imported, nil
}
