// Package moduleid classifies module paths and decomposes them into bare ids.
//
// A bare id is the identifier a module is registered under once its JavaScript
// extension is dropped: "lib/index.js" becomes "lib/index". Other recognized
// extensions are part of the identity ("lib/index.css" stays "lib/index.css") so a
// stylesheet never collides with the script next to it.
package moduleid

import (
	"path"
	"strings"
)

// knownExtensions lists the file types a module id can already carry. Anything else
// after the last dot ("jquery.min", "v1.2") is treated as part of the name.
var knownExtensions = map[string]bool{
	".js":   true,
	".mjs":  true,
	".cjs":  true,
	".jsx":  true,
	".ts":   true,
	".tsx":  true,
	".json": true,
	".css":  true,
	".less": true,
	".scss": true,
	".sass": true,
	".styl": true,
	".html": true,
	".htm":  true,
	".svg":  true,
	".xml":  true,
	".txt":  true,
	".md":   true,
	".yml":  true,
	".yaml": true,
	".wasm": true,
	".vue":  true,
}

// jsExtensions are stripped when computing a bare id.
var jsExtensions = []string{".js"}

// ID is the decomposed form of a module path.
type ID struct {
	// BareID is the path without its JavaScript extension.
	BareID string

	// Parts are the "/"-separated segments of the original path.
	Parts []string

	// Ext is the recognized extension including the dot, or "" when none.
	Ext string
}

// Dir returns the directory part of the original path ("" at the package root).
func (id ID) Dir() string {
	if len(id.Parts) <= 1 {
		return ""
	}
	return strings.Join(id.Parts[:len(id.Parts)-1], "/")
}

// Ext returns the recognized extension of id, including the leading dot.
// It returns "" for ids without one, for dotfiles such as ".gitignore", and for
// suffixes that are not a known file type.
func Ext(id string) string {
	base := id
	if i := strings.LastIndexByte(id, '/'); i >= 0 {
		base = id[i+1:]
	}
	dot := strings.LastIndexByte(base, '.')
	if dot <= 0 {
		return ""
	}
	ext := strings.ToLower(base[dot:])
	if !knownExtensions[ext] {
		return ""
	}
	return ext
}

// Parse decomposes p into its segments, extension and bare id.
func Parse(p string) ID {
	ext := Ext(p)
	return ID{
		BareID: StripJSExtension(p),
		Parts:  strings.Split(p, "/"),
		Ext:    ext,
	}
}

// StripJSExtension removes a trailing JavaScript extension. Other extensions are kept.
func StripJSExtension(id string) string {
	for _, e := range jsExtensions {
		if strings.HasSuffix(id, e) && len(id) > len(e) {
			return id[:len(id)-len(e)]
		}
	}
	return id
}

// IsPackageName reports whether id names a whole package: "foo" or "@scope/foo".
func IsPackageName(id string) bool {
	if id == "" || strings.HasPrefix(id, ".") {
		return false
	}
	parts := strings.Split(id, "/")
	return len(parts) == 1 || (len(parts) == 2 && strings.HasPrefix(parts[0], "@"))
}

// IsRelative reports whether id is a "./" or "../" specifier.
func IsRelative(id string) bool {
	return id == "." || id == ".." || strings.HasPrefix(id, "./") || strings.HasPrefix(id, "../")
}

// Resolve joins a relative specifier onto dir, both package-root relative.
// ok is false when the result escapes the package root.
func Resolve(dir, specifier string) (string, bool) {
	joined := path.Join(dir, specifier)
	if joined == ".." || strings.HasPrefix(joined, "../") {
		return "", false
	}
	if joined == "." {
		joined = ""
	}
	return joined, true
}

// Relative expresses target (package-root relative) as a "./" or "../" specifier
// from dir (also package-root relative).
func Relative(dir, target string) string {
	var fromParts []string
	if dir != "" && dir != "." {
		fromParts = strings.Split(path.Clean(dir), "/")
	}
	toParts := strings.Split(path.Clean(target), "/")

	common := 0
	for common < len(fromParts) && common < len(toParts)-1 && fromParts[common] == toParts[common] {
		common++
	}

	up := len(fromParts) - common
	rest := strings.Join(toParts[common:], "/")
	if up == 0 {
		return "./" + rest
	}
	return strings.Repeat("../", up) + rest
}

// IsJavaScript reports whether p names a script file.
func IsJavaScript(p string) bool {
	switch Ext(p) {
	case ".js", ".mjs", ".cjs":
		return true
	}
	return false
}
