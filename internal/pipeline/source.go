package pipeline

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	oerrors "github.com/amdpack/cli/internal/errors"
	"github.com/amdpack/cli/internal/locator"
	"github.com/amdpack/cli/internal/output"
)

// Source finds packages on disk and, optionally, on the CDN.
//
// Lookup order for a package name:
//  1. Packages[name].Location when it is a directory path
//  2. the nearest node_modules directory above NodeModules
//  3. the CDN, when enabled
//
// A Packages[name].Main override applies to whichever locator is found.
type Source struct {
	// Fs is the filesystem for local packages. Defaults to the OS filesystem.
	Fs afero.Fs

	// NodeModules is the directory node_modules lookups start from.
	// Empty disables node_modules lookups.
	NodeModules string

	// CDN enables the jsDelivr fallback.
	CDN bool

	// CDNOptions configure every CDN locator.
	CDNOptions []locator.JSDelivrOption

	// Packages holds per-package overrides.
	Packages map[string]locator.Package
}

// isDirPath reports whether s is a filesystem path rather than a package name.
func isDirPath(s string) bool {
	return strings.HasPrefix(s, ".") || filepath.IsAbs(s)
}

func (s *Source) fs() afero.Fs {
	if s.Fs == nil {
		return afero.NewOsFs()
	}
	return s.Fs
}

// Locator implements LocatorSource.
func (s *Source) Locator(ctx context.Context, name string) (locator.Locator, error) {
	if isDirPath(name) {
		output.Debug("reading package from directory", "dir", name)
		return locator.NewFS(s.fs(), name), nil
	}

	pkg, ok := s.Packages[name]
	if !ok {
		pkg = locator.Package{Name: name}
	}
	pkg.Name = name

	loc, err := s.find(ctx, pkg)
	if err != nil {
		return nil, err
	}
	if pkg.Main != "" {
		output.Debug("forcing main", "package", name, "main", pkg.Main)
		loc = locator.WithForcedMain(loc, name, pkg.Main)
	}
	return loc, nil
}

func (s *Source) find(ctx context.Context, pkg locator.Package) (locator.Locator, error) {
	if pkg.Location != "" && isDirPath(pkg.Location) {
		output.Debug("reading package from configured location", "package", pkg.Name, "dir", pkg.Location)
		return locator.NewFS(s.fs(), pkg.Location), nil
	}

	lookup := pkg.Name
	if pkg.Location != "" {
		lookup = pkg.Location
	}

	if s.NodeModules != "" {
		dir, err := locator.FindPackageDir(s.fs(), s.NodeModules, lookup)
		if err == nil {
			output.Debug("found package in node_modules", "package", pkg.Name, "dir", dir)
			var loc locator.Locator = locator.NewFS(s.fs(), dir)
			if lookup != pkg.Name {
				loc = locator.WithName(loc, pkg.Name)
			}
			return loc, nil
		}
		if !s.CDN || !errors.Is(err, oerrors.ErrNotFound) {
			return nil, err
		}
	}

	if s.CDN {
		return locator.NewJSDelivr(ctx, pkg, s.CDNOptions...)
	}
	return nil, oerrors.NewValidationError(
		"no package source configured",
		pkg.Name,
		"pass --node-modules or --cdn",
	)
}
