// Package transform runs transform stages over a code unit.
//
// Stages run in order, each on the previous stage's output. A stage reports
// what it changed as a Result; the runner merges it into a new unit and folds
// the stage's source map onto the accumulated one so the final map always
// points at the unit's original input.
package transform

import (
	"context"
	"fmt"

	"github.com/google/go-cmp/cmp"

	"github.com/amdpack/cli/internal/sourcemap"
	"github.com/amdpack/cli/internal/unit"
)

// Stage transforms a unit. It must not modify u. A nil result means the stage
// had nothing to do.
type Stage func(ctx context.Context, u *unit.Unit) (*Result, error)

// Result holds the fields a stage changed. Nil scalars and empty lists are
// left alone.
type Result struct {
	Contents    *string
	Path        *string
	ModuleID    *string
	PackageName *string
	ForceWrap   *bool

	// SourceMap maps the stage output back to the stage input.
	SourceMap *sourcemap.Map

	// Deps and Defined are merged into the unit's lists.
	Deps    []string
	Defined []string
}

// String returns a pointer to s.
func String(s string) *string { return &s }

// Bool returns a pointer to b.
func Bool(b bool) *bool { return &b }

// Transform runs stages over u. When no stage changes anything, u itself is
// returned. A stage error aborts the run and no unit is returned.
func Transform(ctx context.Context, u *unit.Unit, stages ...Stage) (*unit.Unit, error) {
	if len(stages) == 0 {
		return u, nil
	}

	current := u
	for _, stage := range stages {
		res, err := stage(ctx, current)
		if err != nil {
			return nil, fmt.Errorf("transforming %s: %w", describe(u), err)
		}
		if res == nil {
			continue
		}
		next, err := apply(current, res)
		if err != nil {
			return nil, fmt.Errorf("transforming %s: %w", describe(u), err)
		}
		current = next
	}

	if current == u || cmp.Equal(u, current) {
		return u, nil
	}
	return current, nil
}

// apply merges res into a copy of u.
func apply(u *unit.Unit, res *Result) (*unit.Unit, error) {
	next := u.Clone()

	if res.Contents != nil {
		next.Contents = *res.Contents
	}
	if res.Path != nil {
		next.Path = *res.Path
	}
	if res.ModuleID != nil {
		next.ModuleID = *res.ModuleID
	}
	if res.PackageName != nil {
		next.PackageName = *res.PackageName
	}
	if res.ForceWrap != nil {
		next.ForceWrap = *res.ForceWrap
	}

	if res.SourceMap != nil {
		m, err := sourcemap.Accumulate(u.SourceMap, res.SourceMap, u.Contents)
		if err != nil {
			return nil, err
		}
		next.SourceMap = m
	}

	next.Deps = MergeList(next.Deps, res.Deps)
	next.Defined = MergeList(next.Defined, res.Defined)
	return next, nil
}

// MergeList appends the values of additions missing from existing, keeping
// the order of both. existing is returned as is when nothing is added.
func MergeList(existing, additions []string) []string {
	if len(additions) == 0 {
		return existing
	}
	seen := make(map[string]bool, len(existing)+len(additions))
	for _, v := range existing {
		seen[v] = true
	}

	out := existing
	copied := false
	for _, v := range additions {
		if seen[v] {
			continue
		}
		if !copied {
			out = append(make([]string, 0, len(existing)+len(additions)), existing...)
			copied = true
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

func describe(u *unit.Unit) string {
	if u.ModuleID != "" {
		return u.ModuleID
	}
	return u.Path
}
