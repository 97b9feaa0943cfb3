package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"todo-list/internal/errors"
	"todo-list/internal/repository/sqlite/migrations"

	_ "modernc.org/sqlite"
)

// DefaultBusyTimeout is how long a writer waits on a locked database file.
const DefaultBusyTimeout = 30 * time.Second

// Repository defines the interface for task table operations
type Repository interface {
	// Create operations
	CreateTask(ctx context.Context, task *Task) error
	CreateTasks(ctx context.Context, tasks []*Task) error

	// Read operations
	GetTask(ctx context.Context, id int64) (*Task, error)
	ListTasks(ctx context.Context) ([]*Task, error)

	// Update operations
	ModifyTask(ctx context.Context, id int64, fn func(*Task) error) (*Task, error)

	// Delete operations
	DeleteTask(ctx context.Context, id int64) error

	// Utility
	Close() error
}

// Option tunes how the repository opens its database.
type Option func(*options)

type options struct {
	busyTimeout time.Duration
}

// WithBusyTimeout sets the SQLite busy timeout used while waiting on locks.
func WithBusyTimeout(d time.Duration) Option {
	return func(o *options) { o.busyTimeout = d }
}

// SQLiteRepository implements the Repository interface
type SQLiteRepository struct {
	db *sql.DB
}

// New creates a new SQLite repository instance
func New(dbPath string, opts ...Option) (*SQLiteRepository, error) {
	o := options{busyTimeout: DefaultBusyTimeout}
	for _, opt := range opts {
		opt(&o)
	}

	db, err := sql.Open("sqlite", buildDSN(dbPath, o))
	if err != nil {
		return nil, errors.NewDatabaseError("open database", err)
	}
	// one connection: writers queue on the busy timeout instead of racing
	db.SetMaxOpenConns(1)

	if err := migrations.RunMigrations(db); err != nil {
		db.Close()
		return nil, errors.NewDatabaseError("run migrations", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func buildDSN(dbPath string, o options) string {
	return fmt.Sprintf("%s?_pragma=busy_timeout(%d)", dbPath, o.busyTimeout.Milliseconds())
}

// Close closes the database connection
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

const insertTaskQuery = `
	INSERT INTO tasks (task, done, created_at, updated_at)
	VALUES (?, ?, ?, ?)`

const selectTaskColumns = `SELECT id, task, done, created_at, updated_at FROM tasks`

// CreateTask inserts a task and sets its ID
func (r *SQLiteRepository) CreateTask(ctx context.Context, task *Task) error {
	return InTx(ctx, r.db, func(tx *sql.Tx) error {
		return insertTask(ctx, tx, task)
	})
}

// CreateTasks inserts all tasks in one transaction; a failure on any row
// leaves the table unchanged.
func (r *SQLiteRepository) CreateTasks(ctx context.Context, tasks []*Task) error {
	if len(tasks) == 0 {
		return nil
	}
	return InTx(ctx, r.db, func(tx *sql.Tx) error {
		for _, task := range tasks {
			if err := insertTask(ctx, tx, task); err != nil {
				return err
			}
		}
		return nil
	})
}

func insertTask(ctx context.Context, q Querier, task *Task) error {
	id, err := ExecuteWithLastInsertID(ctx, q, insertTaskQuery,
		task.Text,
		FormatBoolForDB(task.Done),
		FormatTimeForDB(task.CreatedAt),
		FormatTimeForDB(task.UpdatedAt),
	)
	if err != nil {
		return err
	}
	task.ID = id
	return nil
}

// GetTask retrieves a task by ID
func (r *SQLiteRepository) GetTask(ctx context.Context, id int64) (*Task, error) {
	return getTask(ctx, r.db, id)
}

func getTask(ctx context.Context, q Querier, id int64) (*Task, error) {
	query := selectTaskColumns + ` WHERE id = ?`
	return QuerySingle(ctx, q, query, ScanTask, "task", fmt.Sprintf("%d", id), id)
}

// ListTasks retrieves all tasks, newest first
func (r *SQLiteRepository) ListTasks(ctx context.Context) ([]*Task, error) {
	query := selectTaskColumns + ` ORDER BY created_at DESC, id DESC`
	return QueryMultiple(ctx, r.db, query, ScanTasks, "tasks")
}

// updateTask writes text, done and updated_at of an existing task
func updateTask(ctx context.Context, q Querier, task *Task) error {
	query := `UPDATE tasks SET task = ?, done = ?, updated_at = ? WHERE id = ?`
	return ExecuteWithRowsAffected(ctx, q, query, "task", fmt.Sprintf("%d", task.ID),
		task.Text,
		FormatBoolForDB(task.Done),
		FormatTimeForDB(task.UpdatedAt),
		task.ID,
	)
}

// ModifyTask loads a task, lets fn change it and writes it back, all inside
// one transaction. A missing id yields a not found error.
func (r *SQLiteRepository) ModifyTask(ctx context.Context, id int64, fn func(*Task) error) (*Task, error) {
	var modified *Task
	err := InTx(ctx, r.db, func(tx *sql.Tx) error {
		task, err := getTask(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := fn(task); err != nil {
			return err
		}
		if err := updateTask(ctx, tx, task); err != nil {
			return err
		}
		modified = task
		return nil
	})
	if err != nil {
		return nil, err
	}
	return modified, nil
}

// DeleteTask deletes a task by ID
func (r *SQLiteRepository) DeleteTask(ctx context.Context, id int64) error {
	return InTx(ctx, r.db, func(tx *sql.Tx) error {
		query := `DELETE FROM tasks WHERE id = ?`
		return ExecuteWithRowsAffected(ctx, tx, query, "task", fmt.Sprintf("%d", id), id)
	})
}
