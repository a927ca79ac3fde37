package reader

import (
	"context"
	"errors"
	"fmt"
	"path"

	oerrors "github.com/amdpack/cli/internal/errors"
	"github.com/amdpack/cli/internal/moduleid"
	"github.com/amdpack/cli/internal/output"
)

// candidate is one way an id may resolve to a file.
type candidate struct {
	path string

	// manifest marks a directory package.json whose entry fields redirect
	// the id.
	manifest bool
}

// candidates lists, in priority order, the files an id may denote.
func candidates(id string) []candidate {
	var out []candidate
	if moduleid.Ext(id) != "" {
		out = append(out, candidate{path: id})
	} else {
		out = append(out, candidate{path: id + ".js"}, candidate{path: id + ".json"})
	}
	return append(out,
		candidate{path: id + "/package.json", manifest: true},
		candidate{path: id + "/index.js"},
		candidate{path: id + "/index.json"},
	)
}

// resolveTarget returns the first candidate of id the locator confirms.
func (r *Reader) resolveTarget(ctx context.Context, id string, depth int) (string, error) {
	for _, c := range candidates(id) {
		var (
			resolved string
			err      error
		)
		if c.manifest {
			resolved, err = r.resolveNested(ctx, id, c.path, depth)
		} else {
			resolved, err = r.probe(ctx, c.path)
		}
		if err == nil {
			return resolved, nil
		}
		if !errors.Is(err, oerrors.ErrNotFound) {
			return "", err
		}
	}
	return "", fmt.Errorf("%s: %w", id, oerrors.ErrNotFound)
}

func (r *Reader) probe(ctx context.Context, p string) (string, error) {
	if _, err := r.loc.Locate(ctx, p); err != nil {
		return "", err
	}
	return p, nil
}

// resolveNested follows a directory's own package.json.
func (r *Reader) resolveNested(ctx context.Context, dir, manifestPath string, depth int) (string, error) {
	if depth >= maxNestedManifests {
		return "", fmt.Errorf("%s: too many nested package.json files: %w", manifestPath, oerrors.ErrNotFound)
	}
	file, err := r.loc.Locate(ctx, manifestPath)
	if err != nil {
		return "", err
	}
	nested, err := parseManifest([]byte(file.Contents))
	if err != nil {
		return "", oerrors.NewParseError("invalid package.json", file.Path, err)
	}
	browserMain, _, err := nested.browserField()
	if err != nil {
		return "", oerrors.NewParseError("invalid package.json", file.Path, err)
	}

	var ref string
	for _, field := range []string{browserMain, nested.Module, nested.Main} {
		if field != "" {
			ref = field
			break
		}
	}
	if ref == "" {
		return "", fmt.Errorf("%s declares no entry: %w", manifestPath, oerrors.ErrNotFound)
	}

	target := path.Join(dir, normalizeMainRef(ref))
	output.Debug("following nested package.json", "manifest", manifestPath, "entry", target)
	return r.resolveTarget(ctx, target, depth+1)
}
