package services

import (
	"context"

	"todo-list/internal/domain"
	"todo-list/internal/logging"
	"todo-list/internal/repository/textfile"
	"todo-list/internal/validation"
)

// textListServiceImpl implements the TextListService interface
type textListServiceImpl struct {
	store         textfile.Store
	taskValidator *validation.TaskValidator
}

// NewTextListService creates a new TextListService instance
func NewTextListService(store textfile.Store) TextListService {
	return &textListServiceImpl{
		store:         store,
		taskValidator: validation.NewTaskValidator(),
	}
}

// ListLines returns the lines in insertion order
func (s *textListServiceImpl) ListLines(ctx context.Context) (domain.TextList, error) {
	return s.store.Load(ctx)
}

// AddLine appends a trimmed, non-blank line
func (s *textListServiceImpl) AddLine(ctx context.Context, text string) (domain.TextList, error) {
	cleaned, err := s.taskValidator.CleanText("task", text)
	if err != nil {
		return nil, err
	}

	list, err := s.store.Modify(ctx, func(list domain.TextList) (domain.TextList, bool) {
		return list.Append(cleaned), true
	})
	if err != nil {
		return nil, err
	}
	logging.Debugf("appended line %d", len(list)-1)
	return list, nil
}

// UpdateLine replaces the line at index. It reports false without writing
// when index does not address a line at the time of the call.
func (s *textListServiceImpl) UpdateLine(ctx context.Context, index int, text string) (bool, error) {
	cleaned, err := s.taskValidator.CleanText("updated_task", text)
	if err != nil {
		return false, err
	}

	changed := false
	_, err = s.store.Modify(ctx, func(list domain.TextList) (domain.TextList, bool) {
		var updated domain.TextList
		updated, changed = list.Replace(index, cleaned)
		return updated, changed
	})
	if err != nil {
		return false, err
	}
	logging.Debugf("update line %d applied=%t", index, changed)
	return changed, nil
}

// DeleteLine removes the first line whose text equals text exactly
func (s *textListServiceImpl) DeleteLine(ctx context.Context, text string) (bool, error) {
	removed := false
	_, err := s.store.Modify(ctx, func(list domain.TextList) (domain.TextList, bool) {
		var updated domain.TextList
		updated, removed = list.RemoveFirst(text)
		return updated, removed
	})
	if err != nil {
		return false, err
	}
	logging.Debugf("delete line %q applied=%t", text, removed)
	return removed, nil
}
