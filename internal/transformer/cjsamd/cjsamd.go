// Package cjsamd wraps CommonJS modules into AMD define calls.
//
// Only the shims for globals the module actually references are injected, so
// a module that never touches process does not gain a dependency on it.
package cjsamd

import (
	"context"
	"regexp"

	"github.com/amdpack/cli/internal/edit"
	oerrors "github.com/amdpack/cli/internal/errors"
	"github.com/amdpack/cli/internal/jsast"
	"github.com/amdpack/cli/internal/moduleid"
	"github.com/amdpack/cli/internal/output"
	"github.com/amdpack/cli/internal/transform"
	"github.com/amdpack/cli/internal/unit"
)

const (
	header = "define(function (require, exports, module) {"
	footer = "\n});\n"

	dirnameShim = "var __filename = module.uri || '', __dirname = __filename.slice(0, __filename.lastIndexOf('/') + 1);"
	globalShim  = "var global = this;"
	processShim = "var process = require('process');"
	bufferShim  = "var Buffer = require('buffer').Buffer;"

	// dynamicImportFunc replaces the import keyword of import() calls.
	dynamicImportFunc = "__dimport"
	dynamicImportShim = "var " + dynamicImportFunc + " = function(d){return requirejs([requirejs.resolveModuleId(module.id,d)]).then(function(r){return r[0]&&r[0].default?r[0].default:r;});};"
)

// forcedPathRE matches package files that are CommonJS by convention.
var forcedPathRE = regexp.MustCompile(`(?i)(^|/)(cjs|commonjs)/`)

// Transform wraps u into an AMD define call when it is a CommonJS module.
// It returns nil when u needs no wrapping or is not a script.
func Transform(ctx context.Context, u *unit.Unit) (*transform.Result, error) {
	if !moduleid.IsJavaScript(u.Path) {
		return nil, nil
	}
	analysis, err := jsast.Analyze(ctx, []byte(u.Contents))
	if err != nil {
		return nil, err
	}
	if analysis.HasError {
		return nil, oerrors.NewParseError("cannot analyze JavaScript", u.Path, nil)
	}

	usage := DetectUsage(analysis)
	forced := u.ForceWrap || (u.PackageName != "" && forcedPathRE.MatchString(u.Path))

	d := decide(usage, forced)
	if d == skip {
		output.Debug("cjs wrap skipped", "module", u.ModuleID, "define", usage.Define, "commonjs", usage.CommonJS.Any())
		return nil, nil
	}

	filename := u.Path
	if u.SourceMap != nil && u.SourceMap.File != "" {
		filename = u.SourceMap.File
	}

	editor := edit.New(u.Contents, filename)
	editor.Prepend(header)

	cjs := usage.CommonJS
	if cjs.Dirname || cjs.Filename {
		editor.Prepend(dirnameShim)
	}
	if cjs.Global {
		editor.Prepend(globalShim)
	}
	if cjs.Process {
		editor.Prepend(processShim)
	}
	if cjs.Buffer {
		editor.Prepend(bufferShim)
	}

	for _, span := range analysis.DynamicImports {
		if err := editor.Replace(span.Start, span.End, dynamicImportFunc); err != nil {
			return nil, err
		}
	}
	if len(analysis.DynamicImports) > 0 {
		editor.Prepend(dynamicImportShim)
	}

	editor.Prepend("\n")
	editor.Append(footer)

	out := editor.Apply()
	res := &transform.Result{
		Contents:  transform.String(out.Code),
		SourceMap: out.Map,
	}
	if d == wrapForced {
		res.ForceWrap = transform.Bool(true)
	}
	output.Debug("cjs wrapped", "module", u.ModuleID, "forced", d == wrapForced)
	return res, nil
}
