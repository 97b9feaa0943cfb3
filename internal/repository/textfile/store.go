package textfile

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"todo-list/internal/domain"
	apperrors "todo-list/internal/errors"
	"todo-list/internal/logging"
)

// Store persists a TextList as one task per line.
type Store interface {
	Load(ctx context.Context) (domain.TextList, error)
	Save(ctx context.Context, list domain.TextList) error
	Modify(ctx context.Context, fn func(domain.TextList) (domain.TextList, bool)) (domain.TextList, error)
	Path() string
}

// FileStore implements Store on a plain UTF-8 file. Every mutation reads the
// whole file and writes it back; there is no lock between callers, so two
// concurrent mutations resolve as last writer wins.
type FileStore struct {
	path string
}

// New returns a store backed by path, creating the parent directory if needed.
// The file itself is created lazily on the first save.
func New(path string) (*FileStore, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, apperrors.NewStorageError("create directory", dir, err)
		}
	}
	return &FileStore{path: path}, nil
}

// Path returns the backing file path.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads every non-empty line. A missing file is an empty list.
func (s *FileStore) Load(ctx context.Context) (domain.TextList, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.NewTimeoutError("read lines", err.Error())
	}

	b, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.TextList{}, nil
		}
		return nil, apperrors.NewStorageError("read lines", s.path, err)
	}
	return parseLines(string(b)), nil
}

func parseLines(content string) domain.TextList {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	list := domain.TextList{}
	for _, line := range strings.Split(content, "\n") {
		if line == "" {
			continue
		}
		list = append(list, line)
	}
	return list
}

// Save replaces the file content with list. The data goes to a temporary
// file in the same directory first, which is then renamed over the target.
func (s *FileStore) Save(ctx context.Context, list domain.TextList) error {
	if err := ctx.Err(); err != nil {
		return apperrors.NewTimeoutError("write lines", err.Error())
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return apperrors.NewStorageError("create temp file", s.path, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(strings.Join(list, "\n")); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return apperrors.NewStorageError("write lines", s.path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return apperrors.NewStorageError("write lines", s.path, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return apperrors.NewStorageError("replace file", s.path, err)
	}

	logging.Debugf("textfile: wrote %d line(s) to %s", len(list), s.path)
	return nil
}

// Modify loads the list, applies fn and saves the result when fn reports a
// change. It returns the list as it stands afterwards.
func (s *FileStore) Modify(ctx context.Context, fn func(domain.TextList) (domain.TextList, bool)) (domain.TextList, error) {
	list, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}

	updated, changed := fn(list)
	if !changed {
		return list, nil
	}
	if err := s.Save(ctx, updated); err != nil {
		return nil, err
	}
	return updated, nil
}
