package output

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/amdpack/cli/internal/unit"
)

// FileOptions controls per-unit file output.
type FileOptions struct {
	// OutDir is the directory units are written under.
	OutDir string

	// SourceMaps writes a .map file next to every unit that has a source map.
	SourceMaps bool
}

// WriteUnitFiles writes each unit to OutDir/<module id>.js and returns the
// written paths relative to OutDir, in unit order.
func WriteUnitFiles(units []*unit.Unit, opts FileOptions) ([]string, error) {
	if len(units) == 0 {
		return nil, nil
	}
	if err := os.MkdirAll(opts.OutDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	// Track filenames to handle collisions
	usedNames := make(map[string]int)

	var written []string
	for _, u := range units {
		name := unitFilename(u, usedNames)
		dest := filepath.Join(opts.OutDir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return nil, fmt.Errorf("creating directory for %s: %w", name, err)
		}

		contents := strings.TrimRight(u.Contents, "\n") + "\n"
		if opts.SourceMaps && u.SourceMap != nil {
			data, err := u.SourceMap.JSON()
			if err != nil {
				return nil, fmt.Errorf("encoding source map of %s: %w", name, err)
			}
			if err := os.WriteFile(dest+".map", data, 0o644); err != nil {
				return nil, fmt.Errorf("writing %s.map: %w", dest, err)
			}
			contents += "//# sourceMappingURL=" + path.Base(name) + ".map\n"
			written = append(written, name+".map")
		}
		if err := os.WriteFile(dest, []byte(contents), 0o644); err != nil {
			return nil, fmt.Errorf("writing %s: %w", dest, err)
		}
		written = append(written, name)

		Debug("wrote unit file", "module", u.ModuleID, "file", dest)
	}
	return written, nil
}

// unitFilename derives a relative .js filename from the unit's module id.
func unitFilename(u *unit.Unit, usedNames map[string]int) string {
	id := u.ModuleID
	if id == "" {
		id = u.Path
	}
	if i := strings.LastIndex(id, "!"); i >= 0 {
		id = id[i+1:]
	}

	// Keep the name inside the output directory.
	name := strings.TrimLeft(path.Clean("/"+sanitizeName(id)), "/")
	if name == "" {
		name = "unit"
	}
	base := strings.TrimSuffix(name, ".js")

	count, exists := usedNames[base]
	usedNames[base] = count + 1
	if exists {
		return fmt.Sprintf("%s-%d.js", base, count+1)
	}
	return base + ".js"
}

// sanitizeName makes a module id safe for use in filenames. Slashes are kept
// as directory separators.
func sanitizeName(name string) string {
	replacer := strings.NewReplacer(
		"\\", "-",
		":", "-",
		"*", "-",
		"?", "-",
		"\"", "",
		"<", "",
		">", "",
		"|", "-",
	)
	return replacer.Replace(name)
}
