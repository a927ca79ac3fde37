// Package testutil provides test helpers shared across packages.
package testutil

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	oerrors "github.com/amdpack/cli/internal/errors"
	"github.com/amdpack/cli/internal/locator"
)

// WriteFile creates a file with the given content in the specified directory.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create parent dirs for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write file %s: %v", path, err)
	}
	return path
}

// MapLocator serves package files from memory and counts lookups per path.
type MapLocator struct {
	Files map[string]string

	mu    sync.Mutex
	calls map[string]int
}

// NewMapLocator returns a locator over files, keyed by package-relative path.
func NewMapLocator(files map[string]string) *MapLocator {
	return &MapLocator{Files: files, calls: make(map[string]int)}
}

// Locate implements locator.Locator. Paths that only exist as a directory
// report locator.ErrIsDirectory.
func (m *MapLocator) Locate(ctx context.Context, relPath string) (*locator.File, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	relPath = strings.TrimPrefix(path.Clean("/"+relPath), "/")

	m.mu.Lock()
	m.calls[relPath]++
	m.mu.Unlock()

	if contents, ok := m.Files[relPath]; ok {
		return &locator.File{Path: relPath, Contents: contents}, nil
	}
	for name := range m.Files {
		if strings.HasPrefix(name, relPath+"/") {
			return nil, fmt.Errorf("%s: %w", relPath, locator.ErrIsDirectory)
		}
	}
	return nil, fmt.Errorf("%s: %w", relPath, oerrors.ErrNotFound)
}

// Calls returns how often relPath was located.
func (m *MapLocator) Calls(relPath string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[relPath]
}
