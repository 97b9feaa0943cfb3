package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todo-list/internal/errors"
	"todo-list/internal/validation"
)

var start = time.Date(2025, 6, 23, 3, 47, 24, 0, time.UTC)

func TestTaskService_CreateTask(t *testing.T) {
	tests := []struct {
		name           string
		text           string
		expected       string
		errorAssertion func(t *testing.T, err error)
	}{
		{
			name:     "should create task with plain text",
			text:     "Write report",
			expected: "Write report",
		},
		{
			name:     "should trim surrounding whitespace",
			text:     "  Write report \t",
			expected: "Write report",
		},
		{
			name: "should reject empty text",
			text: "",
			errorAssertion: func(t *testing.T, err error) {
				assert.True(t, validation.IsValidationError(err))
			},
		},
		{
			name: "should reject whitespace-only text",
			text: "   ",
			errorAssertion: func(t *testing.T, err error) {
				assert.True(t, validation.IsValidationError(err))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			service, _ := setupTaskService(t, newFakeClock(start))
			ctx := context.Background()

			// Act
			result, err := service.CreateTask(ctx, tt.text)

			// Assert
			if tt.errorAssertion != nil {
				tt.errorAssertion(t, err)
				assert.Nil(t, result)

				listed, listErr := service.ListTasks(ctx)
				require.NoError(t, listErr)
				assert.Empty(t, listed)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, result)
			assert.Greater(t, result.ID, int64(0))
			assert.Equal(t, tt.expected, result.Text)
			assert.False(t, result.Done)
			assert.True(t, start.Equal(result.CreatedAt))
			assert.True(t, result.CreatedAt.Equal(result.UpdatedAt))
			assert.Equal(t, "Asia/Hong_Kong", result.CreatedAt.Location().String())
		})
	}
}

func TestTaskService_ListTasks_NewestFirst(t *testing.T) {
	clock := newFakeClock(start)
	service, _ := setupTaskService(t, clock)
	ctx := context.Background()

	for _, text := range []string{"first", "second", "third"} {
		_, err := service.CreateTask(ctx, text)
		require.NoError(t, err)
		clock.Advance(time.Second)
	}

	tasks, err := service.ListTasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 3)
	assert.Equal(t, "third", tasks[0].Text)
	assert.Equal(t, "second", tasks[1].Text)
	assert.Equal(t, "first", tasks[2].Text)
	assert.Equal(t, "Asia/Hong_Kong", tasks[0].UpdatedAt.Location().String())
}

func TestTaskService_EditTask(t *testing.T) {
	clock := newFakeClock(start)
	service, _ := setupTaskService(t, clock)
	ctx := context.Background()

	created, err := service.CreateTask(ctx, "draft")
	require.NoError(t, err)

	clock.Advance(time.Minute)
	edited, err := service.EditTask(ctx, created.ID, "  final  ")
	require.NoError(t, err)
	assert.Equal(t, "final", edited.Text)
	assert.True(t, edited.UpdatedAt.After(created.UpdatedAt))
	assert.True(t, created.CreatedAt.Equal(edited.CreatedAt))
}

func TestTaskService_EditTask_BlankSkipsLookup(t *testing.T) {
	service, _ := setupTaskService(t, newFakeClock(start))

	// blank text on a missing id is a validation error, not a not found
	_, err := service.EditTask(context.Background(), 999, "   ")
	assert.True(t, validation.IsValidationError(err))
	assert.False(t, errors.IsNotFound(err))
}

func TestTaskService_EditTask_NotFound(t *testing.T) {
	service, _ := setupTaskService(t, newFakeClock(start))

	_, err := service.EditTask(context.Background(), 999, "text")
	assert.True(t, errors.IsNotFound(err))
}

func TestTaskService_ToggleTask(t *testing.T) {
	service, _ := setupTaskService(t, newFakeClock(start))
	ctx := context.Background()

	created, err := service.CreateTask(ctx, "flip")
	require.NoError(t, err)

	// the clock never moves, yet every mutation must still advance updated_at
	first, err := service.ToggleTask(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, first.Done)
	assert.True(t, first.UpdatedAt.After(created.UpdatedAt))

	second, err := service.ToggleTask(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, second.Done)
	assert.True(t, second.UpdatedAt.After(first.UpdatedAt))

	_, err = service.ToggleTask(ctx, 12345)
	assert.True(t, errors.IsNotFound(err))
}

func TestTaskService_DeleteTask(t *testing.T) {
	service, _ := setupTaskService(t, newFakeClock(start))
	ctx := context.Background()

	created, err := service.CreateTask(ctx, "gone soon")
	require.NoError(t, err)

	require.NoError(t, service.DeleteTask(ctx, created.ID))

	_, err = service.GetTask(ctx, created.ID)
	assert.True(t, errors.IsNotFound(err))

	err = service.DeleteTask(ctx, created.ID)
	assert.True(t, errors.IsNotFound(err))
}

func TestTaskService_GetTask_InvalidID(t *testing.T) {
	service, _ := setupTaskService(t, newFakeClock(start))

	_, err := service.GetTask(context.Background(), 0)
	assert.True(t, errors.IsNotFound(err))
}

func TestTaskService_ImportTasks(t *testing.T) {
	clock := newFakeClock(start)
	service, _ := setupTaskService(t, clock)
	ctx := context.Background()

	imported, err := service.ImportTasks(ctx, []string{"alpha", "  ", "beta", " gamma "})
	require.NoError(t, err)
	require.Len(t, imported, 3)

	for _, task := range imported {
		assert.False(t, task.Done)
		assert.True(t, start.Equal(task.CreatedAt))
		assert.True(t, start.Equal(task.UpdatedAt))
	}
	assert.Equal(t, "gamma", imported[2].Text)

	listed, err := service.ListTasks(ctx)
	require.NoError(t, err)
	assert.Len(t, listed, 3)
}

func TestTaskService_ImportTasks_Nothing(t *testing.T) {
	service, _ := setupTaskService(t, newFakeClock(start))

	imported, err := service.ImportTasks(context.Background(), []string{"", " "})
	require.NoError(t, err)
	assert.Empty(t, imported)
}

func TestTaskService_DefaultsToUTC(t *testing.T) {
	service := NewTaskService(nil, nil, nil)
	assert.Equal(t, time.UTC, service.Location())
}
