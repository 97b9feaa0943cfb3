package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"todo-list/internal/repository/sqlite"
)

func TestTaskMapper_RoundTrip(t *testing.T) {
	mapper := NewMapper().Task
	created := time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC)
	domainTask := Task{
		ID:        7,
		Text:      "Write report",
		Done:      true,
		CreatedAt: created,
		UpdatedAt: created.Add(time.Hour),
	}

	dbTask := mapper.ToDatabase(domainTask)
	assert.Equal(t, sqlite.Task{
		ID:        7,
		Text:      "Write report",
		Done:      true,
		CreatedAt: created,
		UpdatedAt: created.Add(time.Hour),
	}, dbTask)

	assert.Equal(t, domainTask, mapper.FromDatabase(dbTask))
}

func TestTaskMapper_Slices(t *testing.T) {
	mapper := NewTaskMapper()
	dbTasks := []*sqlite.Task{
		{ID: 2, Text: "two"},
		{ID: 1, Text: "one", Done: true},
	}

	domainTasks := mapper.FromDatabaseSlice(dbTasks)
	assert.Len(t, domainTasks, 2)
	assert.Equal(t, "two", domainTasks[0].Text)
	assert.True(t, domainTasks[1].Done)

	back := mapper.ToDatabaseSlice(domainTasks)
	assert.Equal(t, dbTasks, back)

	assert.Empty(t, mapper.FromDatabaseSlice(nil))
}
