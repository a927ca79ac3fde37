package pipeline

import (
	"context"

	"github.com/amdpack/cli/internal/locator"
	"github.com/amdpack/cli/internal/unit"
)

// Pipeline resolves packages into code units.
type Pipeline interface {
	// Build reads the requested units of one package and runs them through
	// the transform stages.
	//
	// Any failing unit fails the whole build; no partial result is returned.
	// The context is passed to every locator call.
	Build(ctx context.Context, opts BuildOptions) (*BuildResult, error)
}

// LocatorSource creates the locator of a package by name.
type LocatorSource interface {
	Locator(ctx context.Context, name string) (locator.Locator, error)
}

// BuildOptions configures one build.
type BuildOptions struct {
	// Package is the package name, or a path to a package directory.
	// Required.
	Package string

	// Resources are read relative to the package's main file.
	// Optional. When empty, only the main file is read.
	Resources []string

	// Main reads the main file in addition to Resources.
	Main bool

	// Transform runs the transform stages. Without it units are only
	// resolved and prepared.
	Transform bool

	// Env is injected into the process package.
	Env map[string]string

	// Strict turns warnings into errors.
	Strict bool

	// Concurrency bounds the units processed at once. Zero means DefaultConcurrency.
	Concurrency int
}

// Validate checks the options.
func (o BuildOptions) Validate() error {
	if o.Package == "" {
		return &PackageRequiredError{}
	}
	if o.Concurrency < 0 {
		return &InvalidOptionError{Option: "concurrency", Reason: "must not be negative"}
	}
	return nil
}

// BuildResult is the output of a build.
type BuildResult struct {
	// Package is the name from the package's package.json.
	Package string

	// MainPath is the resolved main file, relative to the package root.
	MainPath string

	// Units are in request order: the main file first when requested, then
	// Resources.
	Units []*unit.Unit

	// Warnings are non-fatal findings.
	Warnings []string
}
