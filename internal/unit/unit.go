// Package unit defines the code unit exchanged between the package reader and
// transform stages.
package unit

import (
	"encoding/base64"
	"fmt"
	"regexp"
	"strings"

	"github.com/amdpack/cli/internal/sourcemap"
)

// Unit is one module's source plus the metadata transform stages read and
// produce. Stages never mutate a Unit; they return changes as a result.
type Unit struct {
	Contents    string         `json:"contents" yaml:"contents"`
	Path        string         `json:"path" yaml:"path"`
	ModuleID    string         `json:"moduleId,omitempty" yaml:"moduleId,omitempty"`
	PackageName string         `json:"packageName,omitempty" yaml:"packageName,omitempty"`
	SourceMap   *sourcemap.Map `json:"sourceMap,omitempty" yaml:"sourceMap,omitempty"`
	Deps        []string       `json:"deps,omitempty" yaml:"deps,omitempty"`
	Defined     []string       `json:"defined,omitempty" yaml:"defined,omitempty"`
	ForceWrap   bool           `json:"forceWrap,omitempty" yaml:"forceWrap,omitempty"`
}

// Clone returns a copy of u that shares no slices or maps with it.
func (u *Unit) Clone() *Unit {
	c := *u
	c.SourceMap = u.SourceMap.Clone()
	if u.Deps != nil {
		c.Deps = append([]string(nil), u.Deps...)
	}
	if u.Defined != nil {
		c.Defined = append([]string(nil), u.Defined...)
	}
	return &c
}

// EnsureSemicolon trims trailing whitespace from contents and terminates them
// with a semicolon when they do not end with one already.
func EnsureSemicolon(contents string) string {
	trimmed := strings.TrimRight(contents, " \t\r\n")
	if strings.HasSuffix(trimmed, ";") {
		return trimmed
	}
	return trimmed + ";"
}

var inlineSourceMapRE = regexp.MustCompile(`(?m)^[ \t]*//[#@] sourceMappingURL=data:application/json(?:;charset=[\w-]+)?;base64,([A-Za-z0-9+/=]+)[ \t]*$`)

var mapFileCommentRE = regexp.MustCompile(`(?m)(?:^[ \t]*//[#@] sourceMappingURL=[^\s'"]+?\.map[ \t]*$|/\*[#@] sourceMappingURL=[^\s*'"]+?\.map[ \t]*\*/)`)

// StripSourceMapFileComments removes comments that point at external source
// map files. Their maps are not read, and the reference is wrong once the code
// is wrapped.
func StripSourceMapFileComments(contents string) string {
	return mapFileCommentRE.ReplaceAllString(contents, "")
}

// ExtractInlineSourceMap returns contents without an inline base64 source map
// comment, and the decoded map when one is present.
func ExtractInlineSourceMap(contents string) (string, *sourcemap.Map, error) {
	loc := inlineSourceMapRE.FindStringSubmatchIndex(contents)
	if loc == nil {
		return contents, nil, nil
	}
	data, err := base64.StdEncoding.DecodeString(contents[loc[2]:loc[3]])
	if err != nil {
		return contents, nil, fmt.Errorf("decoding inline source map: %w", err)
	}
	m, err := sourcemap.Parse(data)
	if err != nil {
		return contents, nil, err
	}
	return contents[:loc[0]] + contents[loc[1]:], m, nil
}

// Prepare turns a freshly read unit into pipeline input: an inline source map
// becomes the unit's map (composed with any map the reader already attached),
// external map comments are dropped and JavaScript contents end with a
// semicolon.
func Prepare(u *Unit, javascript bool) (*Unit, error) {
	next := u.Clone()
	contents, m, err := ExtractInlineSourceMap(next.Contents)
	if err != nil {
		return nil, fmt.Errorf("preparing %s: %w", u.Path, err)
	}
	switch {
	case m != nil && next.SourceMap != nil:
		// The unit was already rewritten; chain the rewrite onto the inline map.
		composed, err := sourcemap.Accumulate(m, next.SourceMap, u.Contents)
		if err != nil {
			return nil, fmt.Errorf("preparing %s: %w", u.Path, err)
		}
		next.SourceMap = composed
	case m != nil:
		next.SourceMap = m
	}
	next.Contents = StripSourceMapFileComments(contents)
	if javascript {
		next.Contents = EnsureSemicolon(next.Contents)
	}
	return next, nil
}
