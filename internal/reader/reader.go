// Package reader resolves a package's entry points and resources through a
// locator and produces code units from them.
//
// A Reader serves one package. It reads package.json once, picks the main file
// from the browser, module and main fields, builds the browser replacement
// table and applies that table to the module references of every JavaScript
// unit it produces.
package reader

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	oerrors "github.com/amdpack/cli/internal/errors"
	"github.com/amdpack/cli/internal/locator"
	"github.com/amdpack/cli/internal/moduleid"
	"github.com/amdpack/cli/internal/output"
	"github.com/amdpack/cli/internal/unit"
)

// IgnoredModule replaces references to modules a browser table maps to false.
const IgnoredModule = "__ignore__"

// maxNestedManifests bounds directory package.json indirections.
const maxNestedManifests = 8

// Reader reads one package.
type Reader struct {
	loc locator.Locator

	group singleflight.Group
	mu    sync.RWMutex
	state *packageState
}

// packageState is derived from package.json and never changes once published.
type packageState struct {
	name        string
	mainPath    string
	mainID      moduleid.ID
	replacement map[string]Replacement
}

// New returns a reader for the package behind loc.
func New(loc locator.Locator) *Reader {
	return &Reader{loc: loc}
}

func (r *Reader) loaded() *packageState {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state
}

// ReadPackageJSON reads and resolves package.json. It is idempotent and safe
// for concurrent use; concurrent callers share a single read.
func (r *Reader) ReadPackageJSON(ctx context.Context) error {
	_, err := r.packageState(ctx)
	return err
}

func (r *Reader) packageState(ctx context.Context) (*packageState, error) {
	if st := r.loaded(); st != nil {
		return st, nil
	}
	// The flight is shared, so one caller's cancellation must not fail the rest.
	loadCtx := context.WithoutCancel(ctx)
	v, err, _ := r.group.Do("package.json", func() (interface{}, error) {
		if st := r.loaded(); st != nil {
			return st, nil
		}
		st, err := r.load(loadCtx)
		if err != nil {
			return nil, err
		}
		r.mu.Lock()
		if r.state == nil {
			r.state = st
		}
		st = r.state
		r.mu.Unlock()
		return st, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*packageState), nil
}

func (r *Reader) load(ctx context.Context) (*packageState, error) {
	file, err := r.loc.Locate(ctx, "package.json")
	if err != nil {
		if errors.Is(err, oerrors.ErrNotFound) {
			return nil, oerrors.NewNotFoundError("package.json not found", "package.json", "")
		}
		return nil, fmt.Errorf("reading package.json: %w", err)
	}

	manifest, err := parseManifest([]byte(file.Contents))
	if err != nil {
		return nil, oerrors.NewParseError("invalid package.json", file.Path, err)
	}
	browserMain, table, err := manifest.browserField()
	if err != nil {
		return nil, oerrors.NewParseError("invalid package.json", file.Path, err)
	}

	st := &packageState{name: manifest.Name, replacement: table}
	ref := manifest.mainReference(browserMain)

	mainPath := ref
	if moduleid.Ext(ref) == "" {
		mainPath, err = r.resolveTarget(ctx, ref, 0)
		if err != nil {
			if errors.Is(err, oerrors.ErrNotFound) {
				return nil, oerrors.NewNotFoundError(
					fmt.Sprintf("cannot resolve main %q of package %s", ref, manifest.Name),
					file.Path,
					"",
				)
			}
			return nil, err
		}
	}

	if rep, ok := table[pathKey(mainPath)]; ok && !rep.Ignore && strings.HasPrefix(rep.Target, "./") {
		replaced, err := r.resolveTarget(ctx, strings.TrimPrefix(rep.Target, "./"), 0)
		if err != nil {
			return nil, fmt.Errorf("resolving browser replacement of main %s: %w", mainPath, err)
		}
		output.Debug("browser field replaced main", "package", manifest.Name, "from", mainPath, "to", replaced)
		mainPath = replaced
	}

	st.mainPath = mainPath
	st.mainID = moduleid.Parse(mainPath)
	output.Debug("resolved main", "package", manifest.Name, "main", mainPath)
	return st, nil
}

// Name returns the package name. ReadPackageJSON must have succeeded.
func (r *Reader) Name() string {
	if st := r.loaded(); st != nil {
		return st.name
	}
	return ""
}

// MainPath returns the resolved main file. ReadPackageJSON must have succeeded.
func (r *Reader) MainPath() string {
	if st := r.loaded(); st != nil {
		return st.mainPath
	}
	return ""
}

// BrowserReplacement returns a copy of the browser replacement table.
func (r *Reader) BrowserReplacement() map[string]Replacement {
	st := r.loaded()
	if st == nil {
		return nil
	}
	out := make(map[string]Replacement, len(st.replacement))
	for k, v := range st.replacement {
		out[k] = v
	}
	return out
}

// ReadMain reads the package's main file.
func (r *Reader) ReadMain(ctx context.Context) (*unit.Unit, error) {
	st, err := r.packageState(ctx)
	if err != nil {
		return nil, err
	}
	return r.readFile(ctx, st, st.mainPath, st.mainPath)
}

// ReadResource reads resource relative to the main file. Every directory from
// the main file's directory up to the package root is tried, deepest first.
func (r *Reader) ReadResource(ctx context.Context, resource string) (*unit.Unit, error) {
	st, err := r.packageState(ctx)
	if err != nil {
		return nil, err
	}
	resource = strings.TrimSuffix(strings.TrimPrefix(resource, "./"), "/")

	dirs := ancestors(st.mainID.Dir())
	for _, dir := range dirs {
		id := path.Join(dir, resource)

		if rep, key, ok := st.lookupPath(id); ok {
			u, err := r.readReplacement(ctx, st, id, key, rep)
			if err == nil || !errors.Is(err, oerrors.ErrNotFound) {
				return u, err
			}
			continue
		}

		target, err := r.resolveTarget(ctx, id, 0)
		if err != nil {
			if errors.Is(err, oerrors.ErrNotFound) {
				continue
			}
			return nil, err
		}
		return r.readFile(ctx, st, target, target)
	}

	return nil, oerrors.NewNotFoundError(
		fmt.Sprintf("resource not found: %s", resource),
		st.name,
		fmt.Sprintf("searched %s", strings.Join(searchedIDs(dirs, resource), ", ")),
	)
}

// ancestors lists dir and each of its parents, ending with the package root "".
func ancestors(dir string) []string {
	var out []string
	for dir != "" && dir != "." {
		out = append(out, dir)
		i := strings.LastIndexByte(dir, '/')
		if i < 0 {
			break
		}
		dir = dir[:i]
	}
	return append(out, "")
}

func searchedIDs(dirs []string, resource string) []string {
	ids := make([]string, 0, len(dirs))
	for _, dir := range dirs {
		ids = append(ids, path.Join(dir, resource))
	}
	return ids
}

// lookupPath finds a browser table entry for the files id may resolve to.
func (st *packageState) lookupPath(id string) (Replacement, string, bool) {
	if len(st.replacement) == 0 {
		return Replacement{}, "", false
	}
	keys := []string{pathKey(id), "./" + id + ".json", "./" + id + "/index", "./" + id + "/index.json"}
	for _, key := range keys {
		if rep, ok := st.replacement[key]; ok {
			return rep, key, true
		}
	}
	return Replacement{}, "", false
}

func (r *Reader) readReplacement(ctx context.Context, st *packageState, id, key string, rep Replacement) (*unit.Unit, error) {
	moduleID := st.name + "/" + moduleid.StripJSExtension(id)
	filePath := id
	if moduleid.Ext(filePath) == "" {
		filePath += ".js"
	}

	switch {
	case rep.Ignore:
		output.Debug("browser field ignores resource", "package", st.name, "key", key)
		return &unit.Unit{Path: filePath, ModuleID: moduleID, PackageName: st.name}, nil
	case strings.HasPrefix(rep.Target, "./"):
		target, err := r.resolveTarget(ctx, strings.TrimPrefix(rep.Target, "./"), 0)
		if err != nil {
			return nil, err
		}
		output.Debug("browser field redirects resource", "package", st.name, "key", key, "target", target)
		u, err := r.readFile(ctx, st, target, target)
		if err != nil {
			return nil, err
		}
		u.ModuleID = moduleID
		return u, nil
	default:
		output.Debug("browser field aliases resource to package", "package", st.name, "key", key, "target", rep.Target)
		return &unit.Unit{
			Path:        filePath,
			Contents:    fmt.Sprintf("module.exports = require('%s');", rep.Target),
			ModuleID:    moduleID,
			PackageName: st.name,
		}, nil
	}
}

// readFile reads relPath and builds its unit. idPath decides the module id.
func (r *Reader) readFile(ctx context.Context, st *packageState, relPath, idPath string) (*unit.Unit, error) {
	file, err := r.loc.Locate(ctx, relPath)
	if err != nil {
		if errors.Is(err, oerrors.ErrNotFound) {
			return nil, oerrors.NewNotFoundError(fmt.Sprintf("cannot read %s", relPath), st.name, "")
		}
		return nil, fmt.Errorf("reading %s: %w", relPath, err)
	}

	u := &unit.Unit{
		Path:        file.Path,
		Contents:    file.Contents,
		ModuleID:    st.name + "/" + moduleid.Parse(idPath).BareID,
		PackageName: st.name,
	}
	if moduleid.IsJavaScript(relPath) && len(st.replacement) > 0 {
		if err := applyBrowser(ctx, st.replacement, relPath, u); err != nil {
			return nil, err
		}
	}
	return u, nil
}
