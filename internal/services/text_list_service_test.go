package services

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todo-list/internal/domain"
	"todo-list/internal/validation"
)

func TestTextListService_AddLine(t *testing.T) {
	service, store := setupTextListService(t)
	ctx := context.Background()

	_, err := service.AddLine(ctx, "  buy milk ")
	require.NoError(t, err)
	list, err := service.AddLine(ctx, "call mom")
	require.NoError(t, err)
	assert.Equal(t, domain.TextList{"buy milk", "call mom"}, list)

	b, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Equal(t, "buy milk\ncall mom", string(b))
}

func TestTextListService_AddLine_Blank(t *testing.T) {
	service, store := setupTextListService(t)

	_, err := service.AddLine(context.Background(), "   ")
	assert.True(t, validation.IsValidationError(err))

	_, statErr := os.Stat(store.Path())
	assert.True(t, os.IsNotExist(statErr))
}

func TestTextListService_UpdateLine(t *testing.T) {
	tests := []struct {
		name     string
		index    int
		text     string
		applied  bool
		expected domain.TextList
	}{
		{"replaces line in bounds", 1, "b2", true, domain.TextList{"a", "b2", "c"}},
		{"trims replacement", 0, "  a2 ", true, domain.TextList{"a2", "b", "c"}},
		{"ignores index past the end", 3, "x", false, domain.TextList{"a", "b", "c"}},
		{"ignores negative index", -1, "x", false, domain.TextList{"a", "b", "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, store := setupTextListService(t)
			ctx := context.Background()
			require.NoError(t, store.Save(ctx, domain.TextList{"a", "b", "c"}))

			applied, err := service.UpdateLine(ctx, tt.index, tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.applied, applied)

			list, err := service.ListLines(ctx)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, list)
		})
	}
}

func TestTextListService_UpdateLine_Blank(t *testing.T) {
	service, store := setupTextListService(t)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, domain.TextList{"a"}))

	applied, err := service.UpdateLine(ctx, 0, " ")
	assert.True(t, validation.IsValidationError(err))
	assert.False(t, applied)

	list, err := service.ListLines(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.TextList{"a"}, list)
}

func TestTextListService_DeleteLine(t *testing.T) {
	service, store := setupTextListService(t)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, domain.TextList{"dup", "other", "dup"}))

	removed, err := service.DeleteLine(ctx, "dup")
	require.NoError(t, err)
	assert.True(t, removed)

	list, err := service.ListLines(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.TextList{"other", "dup"}, list)

	removed, err = service.DeleteLine(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, removed)

	list, err = service.ListLines(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.TextList{"other", "dup"}, list)
}
