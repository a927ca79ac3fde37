// Package locator reads package files from wherever a package lives: a local
// directory, a node_modules tree or a CDN.
//
// A Locator resolves paths relative to the package root. The package reader
// never looks behind this interface.
package locator

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"strings"

	oerrors "github.com/amdpack/cli/internal/errors"
)

// ErrIsDirectory reports that a path names a directory rather than a file.
// It wraps ErrNotFound so callers that only care about presence can ignore it.
var ErrIsDirectory = fmt.Errorf("is a directory: %w", oerrors.ErrNotFound)

// File is a located package file.
type File struct {
	// Path identifies where the file was read from.
	Path string

	// Contents is the file text. Binary files are base64 encoded.
	Contents string
}

// Locator reads files relative to a package root.
type Locator interface {
	Locate(ctx context.Context, relPath string) (*File, error)
}

// Func adapts a function to the Locator interface.
type Func func(ctx context.Context, relPath string) (*File, error)

// Locate calls f.
func (f Func) Locate(ctx context.Context, relPath string) (*File, error) {
	return f(ctx, relPath)
}

// Package describes where a package comes from.
type Package struct {
	// Name is the package name the rest of the build uses.
	Name string

	// Location overrides where the package is read from: a directory for the
	// filesystem locator, another package name for the CDN locator.
	Location string

	// Main forces the main entry, ignoring the package's own manifest.
	Main string

	// Version pins the CDN version.
	Version string
}

// cleanRel normalizes a package-relative path and keeps it inside the root.
func cleanRel(relPath string) string {
	return strings.TrimPrefix(path.Clean("/"+relPath), "/")
}

func notFound(relPath string) error {
	return fmt.Errorf("%s: %w", relPath, oerrors.ErrNotFound)
}

// WithForcedMain wraps loc so that package.json is synthesized as
// {"name": name, "main": main}. All other paths go to loc.
func WithForcedMain(loc Locator, name, main string) Locator {
	return Func(func(ctx context.Context, relPath string) (*File, error) {
		if cleanRel(relPath) != "package.json" {
			return loc.Locate(ctx, relPath)
		}
		data, err := json.Marshal(forcedManifest{Name: name, Main: main})
		if err != nil {
			return nil, err
		}
		return &File{Path: "package.json", Contents: string(data)}, nil
	})
}

type forcedManifest struct {
	Name string `json:"name"`
	Main string `json:"main"`
}

// WithName wraps loc so that package.json reports name. It serves packages
// installed or published under another name.
func WithName(loc Locator, name string) Locator {
	return Func(func(ctx context.Context, relPath string) (*File, error) {
		f, err := loc.Locate(ctx, relPath)
		if err != nil || cleanRel(relPath) != "package.json" {
			return f, err
		}
		renamed, err := renameManifest([]byte(f.Contents), name)
		if err != nil {
			return nil, oerrors.NewParseError("invalid package.json", f.Path, err)
		}
		return &File{Path: f.Path, Contents: renamed}, nil
	})
}
