// Package pipeline builds the units of a package: it locates the package,
// reads the requested files and runs each one through the transform stages.
package pipeline

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	oerrors "github.com/amdpack/cli/internal/errors"
	"github.com/amdpack/cli/internal/moduleid"
	"github.com/amdpack/cli/internal/output"
	"github.com/amdpack/cli/internal/reader"
	"github.com/amdpack/cli/internal/transform"
	"github.com/amdpack/cli/internal/transformer"
	"github.com/amdpack/cli/internal/transformer/cjsamd"
	"github.com/amdpack/cli/internal/transformer/processenv"
	"github.com/amdpack/cli/internal/transformer/wasm"
	"github.com/amdpack/cli/internal/unit"
)

// DefaultConcurrency bounds the units built at once.
const DefaultConcurrency = 8

// pipeline implements the Pipeline interface.
type pipeline struct {
	source LocatorSource
}

// NewPipeline creates a Pipeline that finds packages through source.
func NewPipeline(source LocatorSource) Pipeline {
	return &pipeline{source: source}
}

// DefaultStages returns the transform stages of a build, in order: wasm
// wrapping, CommonJS wrapping, then process.env injection.
func DefaultStages(env map[string]string) []transform.Stage {
	return []transform.Stage{
		wasm.Transform,
		cjsamd.Transform,
		processenv.New(env),
	}
}

// request is one unit to build. main requests have an empty resource.
type request struct {
	main     bool
	resource string
}

// Build executes the pipeline and returns results.
//
// Phase sequence:
//  1. LOCATE:    LocatorSource.Locator() → locator.Locator
//  2. MANIFEST:  reader.ReadPackageJSON()
//  3. READ:      reader.ReadMain() / reader.ReadResource(), in parallel
//  4. TRANSFORM: unit.Prepare() then transform.Transform() per unit
//  5. WARNINGS:  transformer.CollectWarnings()
func (p *pipeline) Build(ctx context.Context, opts BuildOptions) (*BuildResult, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	// Phase 1: LOCATE
	loc, err := p.source.Locator(ctx, opts.Package)
	if err != nil {
		return nil, err
	}

	// Phase 2: MANIFEST
	r := reader.New(loc)
	if err := r.ReadPackageJSON(ctx); err != nil {
		return nil, fmt.Errorf("package %s: %w", opts.Package, err)
	}
	output.Debug("package loaded", "package", r.Name(), "main", r.MainPath())

	var stages []transform.Stage
	if opts.Transform {
		stages = DefaultStages(opts.Env)
	}

	// Phases 3 and 4 run per unit.
	requests := plan(opts)
	units := make([]*unit.Unit, len(requests))

	limit := opts.Concurrency
	if limit == 0 {
		limit = DefaultConcurrency
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, req := range requests {
		g.Go(func() error {
			u, err := buildUnit(gctx, r, req, stages)
			if err != nil {
				return &UnitError{Package: r.Name(), Name: req.resource, Err: err}
			}
			units[i] = u
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	// Phase 5: WARNINGS
	warnings := transformer.CollectWarnings(units)
	if opts.Strict && len(warnings) > 0 {
		return nil, oerrors.NewValidationError(
			fmt.Sprintf("build of %s produced %d warning(s) in strict mode", r.Name(), len(warnings)),
			r.Name(),
			strings.Join(warnings, "; "),
		)
	}
	if warnings == nil {
		warnings = make([]string, 0)
	}

	return &BuildResult{
		Package:  r.Name(),
		MainPath: r.MainPath(),
		Units:    units,
		Warnings: warnings,
	}, nil
}

// plan lists the units a build reads, main first.
func plan(opts BuildOptions) []request {
	var requests []request
	if opts.Main || len(opts.Resources) == 0 {
		requests = append(requests, request{main: true})
	}
	for _, res := range opts.Resources {
		requests = append(requests, request{resource: res})
	}
	return requests
}

func buildUnit(ctx context.Context, r *reader.Reader, req request, stages []transform.Stage) (*unit.Unit, error) {
	var (
		u   *unit.Unit
		err error
	)
	if req.main {
		u, err = r.ReadMain(ctx)
	} else {
		u, err = r.ReadResource(ctx, req.resource)
	}
	if err != nil {
		return nil, err
	}

	prepared, err := unit.Prepare(u, moduleid.IsJavaScript(u.Path))
	if err != nil {
		return nil, err
	}
	out, err := transform.Transform(ctx, prepared, stages...)
	if err != nil {
		return nil, err
	}
	output.Debug("unit built", "module", out.ModuleID, "changed", out != prepared)
	return out, nil
}
