package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

var (
	ErrNotFound    = errors.New("file not found")
	ErrOutsideRoot = errors.New("path escapes data directory")
)

// LocalSource reads band files from a directory tree.
type LocalSource struct {
	Root string
	// Open disables the root check so any readable path is accepted.
	Open bool
}

// NewLocalSource returns a source rooted at root.
func NewLocalSource(root string) *LocalSource {
	return &LocalSource{Root: root}
}

// NewOpenSource returns a source that reads paths as given, for command-line use.
func NewOpenSource() *LocalSource {
	return &LocalSource{Open: true}
}

// ReadFile reads path relative to the root. Absolute paths and paths that
// climb out of the root are rejected unless the source is open.
func (l *LocalSource) ReadFile(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	clean := filepath.Clean(filepath.FromSlash(path))
	if !l.Open && !filepath.IsLocal(clean) {
		return nil, fmt.Errorf("%s: %w", path, ErrOutsideRoot)
	}
	data, err := os.ReadFile(filepath.Join(l.Root, clean))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", path, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}
