package services

import (
	"path/filepath"
	"sync"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/require"

	"todo-list/internal/repository/sqlite"
	"todo-list/internal/repository/textfile"
)

// fakeClock returns a fixed instant until moved.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(now time.Time) *fakeClock {
	return &fakeClock{now: now}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func hongKong(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Hong_Kong")
	require.NoError(t, err)
	return loc
}

func setupTaskService(t *testing.T, clock Clock) (TaskService, sqlite.Repository) {
	t.Helper()

	repo, err := sqlite.New(filepath.Join(t.TempDir(), "task.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	return NewTaskService(repo, clock, hongKong(t)), repo
}

func setupTextListService(t *testing.T) (TextListService, *textfile.FileStore) {
	t.Helper()

	store, err := textfile.New(filepath.Join(t.TempDir(), "tasks.txt"))
	require.NoError(t, err)
	return NewTextListService(store), store
}
