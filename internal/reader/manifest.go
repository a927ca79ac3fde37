package reader

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/amdpack/cli/internal/moduleid"
)

// Manifest is the subset of package.json the reader honors.
type Manifest struct {
	Name   string `json:"name"`
	Main   string `json:"main"`
	Module string `json:"module"`

	// Browser is either a string (main override) or an object mapping
	// specifiers to a replacement string or false.
	Browser json.RawMessage `json:"browser,omitempty"`
}

// Replacement is one browser replacement table entry.
type Replacement struct {
	// Target is the normalized replacement specifier. Package-relative paths
	// start with "./"; anything else names a package.
	Target string

	// Ignore replaces the module with an empty one.
	Ignore bool
}

func parseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// browserField splits the browser field into its main override and its
// replacement table.
func (m *Manifest) browserField() (string, map[string]Replacement, error) {
	table := make(map[string]Replacement)
	raw := bytes.TrimSpace(m.Browser)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", table, nil
	}

	switch raw[0] {
	case '"':
		var main string
		if err := json.Unmarshal(raw, &main); err != nil {
			return "", nil, fmt.Errorf("browser: %w", err)
		}
		return main, table, nil
	case '{':
		var entries map[string]json.RawMessage
		if err := json.Unmarshal(raw, &entries); err != nil {
			return "", nil, fmt.Errorf("browser: %w", err)
		}
		for key, value := range entries {
			var target string
			if err := json.Unmarshal(value, &target); err == nil {
				table[normalizeKey(key)] = Replacement{Target: normalizeSpecifier(target)}
				continue
			}
			var flag bool
			if err := json.Unmarshal(value, &flag); err == nil && !flag {
				table[normalizeKey(key)] = Replacement{Ignore: true}
			}
		}
		return "", table, nil
	default:
		return "", table, nil
	}
}

// mainReference applies the browser (string) > module > main > index.js
// priority and trims "./" and trailing "/".
func (m *Manifest) mainReference(browserMain string) string {
	ref := "index.js"
	for _, candidate := range []string{browserMain, m.Module, m.Main} {
		if candidate != "" {
			ref = candidate
			break
		}
	}
	return normalizeMainRef(ref)
}

func normalizeMainRef(ref string) string {
	ref = strings.TrimPrefix(ref, "./")
	ref = strings.TrimSuffix(ref, "/")
	if ref == "" || ref == "." {
		return "index.js"
	}
	return ref
}

// normalizeKey normalizes a replacement table key. Keys not starting with "."
// are bare module specifiers, including deep ones like "pkg/sub.js", and stay
// verbatim.
func normalizeKey(key string) string {
	if !strings.HasPrefix(key, ".") {
		return key
	}
	return normalizeSpecifier(key)
}

// normalizeSpecifier brings replacement targets to one form: package names
// stay verbatim, paths become "./path" without ".js".
func normalizeSpecifier(spec string) string {
	if moduleid.IsPackageName(spec) {
		return spec
	}
	p := strings.TrimPrefix(spec, "./")
	return "./" + moduleid.StripJSExtension(p)
}

// pathKey is the replacement table key of a package-relative file path.
func pathKey(relPath string) string {
	return "./" + moduleid.StripJSExtension(relPath)
}
