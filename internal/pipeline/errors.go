package pipeline

import (
	"fmt"
)

// BuildError is implemented by errors tied to one requested unit.
type BuildError interface {
	error

	// Resource returns the requested resource, or "" for the main file.
	Resource() string
}

// UnitError reports a unit that failed to resolve or transform.
type UnitError struct {
	// Package is the package being built.
	Package string

	// Name is the requested resource; empty for the main file.
	Name string

	// Err is the underlying failure.
	Err error
}

func (e *UnitError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("package %s: main: %v", e.Package, e.Err)
	}
	return fmt.Sprintf("package %s: resource %q: %v", e.Package, e.Name, e.Err)
}

func (e *UnitError) Unwrap() error {
	return e.Err
}

func (e *UnitError) Resource() string {
	return e.Name
}

// PackageRequiredError indicates no package was given.
type PackageRequiredError struct{}

func (e *PackageRequiredError) Error() string {
	return "package required: pass a package name or directory"
}

// Resource returns empty string as this is not a unit error.
func (e *PackageRequiredError) Resource() string {
	return ""
}

// InvalidOptionError reports an unusable build option.
type InvalidOptionError struct {
	Option string
	Reason string
}

func (e *InvalidOptionError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Option, e.Reason)
}

// Resource returns empty string as this is not a unit error.
func (e *InvalidOptionError) Resource() string {
	return ""
}
