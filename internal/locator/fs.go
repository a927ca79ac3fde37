package locator

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	oerrors "github.com/amdpack/cli/internal/errors"
	"github.com/amdpack/cli/internal/moduleid"
	"github.com/amdpack/cli/internal/output"
)

// FS reads package files from a directory.
type FS struct {
	fs   afero.Fs
	root string
}

// NewFS returns a locator rooted at root on fs.
func NewFS(fs afero.Fs, root string) *FS {
	return &FS{fs: fs, root: root}
}

// Root returns the package directory.
func (l *FS) Root() string {
	return l.root
}

// Locate reads root/relPath.
func (l *FS) Locate(_ context.Context, relPath string) (*File, error) {
	rel := cleanRel(relPath)
	full := filepath.Join(l.root, filepath.FromSlash(rel))

	info, err := l.fs.Stat(full)
	switch {
	case os.IsNotExist(err):
		return nil, notFound(rel)
	case os.IsPermission(err):
		return nil, fmt.Errorf("%s: %w", full, oerrors.ErrPermission)
	case err != nil:
		return nil, fmt.Errorf("stat %s: %w", full, err)
	case info.IsDir():
		return nil, fmt.Errorf("%s: %w", rel, ErrIsDirectory)
	}

	data, err := afero.ReadFile(l.fs, full)
	if err != nil {
		if os.IsPermission(err) {
			return nil, fmt.Errorf("%s: %w", full, oerrors.ErrPermission)
		}
		return nil, fmt.Errorf("reading %s: %w", full, err)
	}

	output.Debug("located file", "path", full)
	if moduleid.Ext(rel) == ".wasm" {
		return &File{Path: full, Contents: base64.StdEncoding.EncodeToString(data)}, nil
	}
	return &File{Path: full, Contents: string(data)}, nil
}

// FindPackageDir finds the directory of package name by walking from
// startDir up through every node_modules directory on the way to the root.
func FindPackageDir(fs afero.Fs, startDir, name string) (string, error) {
	dir := filepath.Clean(startDir)
	for {
		candidate := filepath.Join(dir, "node_modules", filepath.FromSlash(name))
		if ok, _ := afero.Exists(fs, filepath.Join(candidate, "package.json")); ok {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", oerrors.NewNotFoundError(
		fmt.Sprintf("cannot find npm package: %s", name),
		startDir,
		"install the package or set packages."+name+".location in the config",
	)
}
