package reader

import (
	"context"
	"fmt"
	"strings"

	"github.com/amdpack/cli/internal/edit"
	oerrors "github.com/amdpack/cli/internal/errors"
	"github.com/amdpack/cli/internal/jsast"
	"github.com/amdpack/cli/internal/moduleid"
	"github.com/amdpack/cli/internal/output"
	"github.com/amdpack/cli/internal/unit"
)

// applyBrowser rewrites the module references of u through the replacement
// table. relPath is the package-relative path of u.
func applyBrowser(ctx context.Context, table map[string]Replacement, relPath string, u *unit.Unit) error {
	analysis, err := jsast.Analyze(ctx, []byte(u.Contents))
	if err != nil {
		return fmt.Errorf("analyzing %s: %w", relPath, err)
	}
	if analysis.HasError {
		return oerrors.NewParseError("cannot analyze JavaScript", relPath, nil)
	}

	dir := moduleid.Parse(relPath).Dir()
	editor := edit.New(u.Contents, u.Path)
	for _, ref := range analysis.References {
		if ref.Value == "" {
			continue
		}
		target, ok := replaceSpecifier(table, dir, ref.Value)
		if !ok || target == ref.Value {
			continue
		}
		if err := editor.Replace(ref.Span.Start, ref.Span.End, target); err != nil {
			return fmt.Errorf("rewriting %q in %s: %w", ref.Value, relPath, err)
		}
		output.Debug("browser replacement", "path", relPath, "from", ref.Value, "to", target)
	}

	if !editor.Changed() {
		return nil
	}
	out := editor.Apply()
	u.Contents = out.Code
	u.SourceMap = out.Map
	return nil
}

// replaceSpecifier looks spec up in the table. Relative specifiers are
// resolved against dir first; relative targets are re-expressed from dir.
func replaceSpecifier(table map[string]Replacement, dir, spec string) (string, bool) {
	var (
		rep Replacement
		ok  bool
	)
	if moduleid.IsRelative(spec) {
		joined, inside := moduleid.Resolve(dir, spec)
		if !inside {
			return "", false
		}
		rep, ok = table[pathKey(joined)]
	} else {
		bare := moduleid.StripJSExtension(spec)
		for _, key := range []string{spec, bare, bare + ".js"} {
			if rep, ok = table[key]; ok {
				break
			}
		}
	}
	if !ok {
		return "", false
	}

	switch {
	case rep.Ignore:
		return IgnoredModule, true
	case strings.HasPrefix(rep.Target, "./"):
		return moduleid.Relative(dir, strings.TrimPrefix(rep.Target, "./")), true
	default:
		return rep.Target, true
	}
}
