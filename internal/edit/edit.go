// Package edit applies positional text edits to source code and produces the
// edited code together with a source map back to the original text.
//
// Offsets passed to an Editor are byte offsets into the original code. The
// generated map counts columns in UTF-16 code units.
package edit

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/amdpack/cli/internal/sourcemap"
)

// Editor collects edits against an original text.
type Editor struct {
	original string
	source   string

	prepends []string
	appends  []string
	inserts  map[int][]string
	replaces []replacement
}

type replacement struct {
	start, end int
	text       string
}

// Output is the result of applying an Editor.
type Output struct {
	Code string
	Map  *sourcemap.Map
}

// New returns an Editor for code. source names the original file in the
// generated map.
func New(code, source string) *Editor {
	return &Editor{
		original: code,
		source:   source,
		inserts:  make(map[int][]string),
	}
}

// Prepend adds text before the original code. Prepends keep call order.
func (e *Editor) Prepend(text string) *Editor {
	e.prepends = append(e.prepends, text)
	return e
}

// Append adds text after the original code.
func (e *Editor) Append(text string) *Editor {
	e.appends = append(e.appends, text)
	return e
}

// Insert adds text at byte offset idx of the original code.
func (e *Editor) Insert(idx int, text string) error {
	if idx < 0 || idx > len(e.original) {
		return fmt.Errorf("insert offset %d out of range [0, %d]", idx, len(e.original))
	}
	if idx < len(e.original) && !utf8.RuneStart(e.original[idx]) {
		return fmt.Errorf("insert offset %d splits a character", idx)
	}
	for _, r := range e.replaces {
		if idx > r.start && idx < r.end {
			return fmt.Errorf("insert offset %d falls inside replaced range [%d, %d)", idx, r.start, r.end)
		}
	}
	e.inserts[idx] = append(e.inserts[idx], text)
	return nil
}

// Replace substitutes text for original[start:end].
func (e *Editor) Replace(start, end int, text string) error {
	if start < 0 || end > len(e.original) || start >= end {
		return fmt.Errorf("invalid replace range [%d, %d) for length %d", start, end, len(e.original))
	}
	if !utf8.RuneStart(e.original[start]) || (end < len(e.original) && !utf8.RuneStart(e.original[end])) {
		return fmt.Errorf("replace range [%d, %d) splits a character", start, end)
	}
	for _, r := range e.replaces {
		if start < r.end && r.start < end {
			return fmt.Errorf("replace range [%d, %d) overlaps [%d, %d)", start, end, r.start, r.end)
		}
	}
	for idx := range e.inserts {
		if idx > start && idx < end {
			return fmt.Errorf("replace range [%d, %d) covers insert at %d", start, end, idx)
		}
	}
	e.replaces = append(e.replaces, replacement{start: start, end: end, text: text})
	return nil
}

// Changed reports whether any edit was recorded.
func (e *Editor) Changed() bool {
	return len(e.prepends) > 0 || len(e.appends) > 0 || len(e.inserts) > 0 || len(e.replaces) > 0
}

// Apply renders the edited code and its source map.
//
// Every token of the original code that survives gets a segment. Text added by
// Prepend, Insert or Append maps to the last original position emitted before
// it (0:0 at the start); replacement text maps to the start of the range it
// replaced.
func (e *Editor) Apply() *Output {
	replaces := append([]replacement(nil), e.replaces...)
	sort.Slice(replaces, func(i, j int) bool { return replaces[i].start < replaces[j].start })

	g := &generator{lines: [][]sourcemap.Segment{nil}}
	for _, text := range e.prepends {
		g.writeAdded(text)
	}

	ri := 0
	pos := 0
	prevWord := false
	for {
		if texts, ok := e.inserts[pos]; ok {
			for _, text := range texts {
				g.writeAdded(text)
			}
			g.dirty = true
		}
		if pos >= len(e.original) {
			break
		}

		if ri < len(replaces) && replaces[ri].start == pos {
			r := replaces[ri]
			ri++
			g.last = g.src
			g.writeReplacement(r.text)
			g.skipOriginal(e.original[r.start:r.end])
			g.dirty = true
			prevWord = false
			pos = r.end
			continue
		}

		r, size := utf8.DecodeRuneInString(e.original[pos:])
		if r == utf8.RuneError && size == 1 {
			// Invalid bytes pass through untouched.
			g.mark(g.src)
			g.dirty = false
			g.writeRaw(e.original[pos])
			prevWord = false
			pos++
			continue
		}
		word := isWordRune(r)
		if !unicode.IsSpace(r) && (g.dirty || !word || !prevWord) {
			g.mark(g.src)
			g.dirty = false
		}
		g.writeOriginal(r)
		prevWord = word
		pos += size
	}

	for _, text := range e.appends {
		g.writeAdded(text)
	}

	return &Output{
		Code: g.out.String(),
		Map: &sourcemap.Map{
			Version:        3,
			File:           e.source,
			Sources:        []string{e.source},
			SourcesContent: []string{e.original},
			Names:          []string{},
			Mappings:       sourcemap.EncodeMappings(g.lines),
		},
	}
}

type position struct {
	line, column int
}

type generator struct {
	out   strings.Builder
	lines [][]sourcemap.Segment

	genColumn int
	src       position
	last      position

	// dirty is set once added text separates the next original character from
	// its predecessor.
	dirty bool
}

func (g *generator) mark(p position) {
	line := len(g.lines) - 1
	seg := sourcemap.Segment{
		GenColumn:    g.genColumn,
		HasSource:    true,
		SourceLine:   p.line,
		SourceColumn: p.column,
	}
	if n := len(g.lines[line]); n > 0 && g.lines[line][n-1].GenColumn == g.genColumn {
		g.lines[line][n-1] = seg
	} else {
		g.lines[line] = append(g.lines[line], seg)
	}
	g.last = p
}

func (g *generator) emit(r rune) {
	g.out.WriteRune(r)
	if r == '\n' {
		g.lines = append(g.lines, nil)
		g.genColumn = 0
		return
	}
	g.genColumn += utf16Len(r)
}

func (g *generator) writeAdded(text string) {
	for _, r := range text {
		if g.genColumn == 0 && r != '\n' {
			g.mark(g.last)
		}
		g.emit(r)
	}
}

func (g *generator) writeReplacement(text string) {
	if text == "" {
		return
	}
	start := g.src
	first := true
	for _, r := range text {
		if r != '\n' && (first || g.genColumn == 0) {
			g.mark(start)
			first = false
		}
		g.emit(r)
	}
}

func (g *generator) writeOriginal(r rune) {
	g.emit(r)
	g.advance(r)
}

func (g *generator) writeRaw(b byte) {
	g.out.WriteByte(b)
	g.genColumn++
	g.src.column++
}

func (g *generator) skipOriginal(s string) {
	for _, r := range s {
		g.advance(r)
	}
}

func (g *generator) advance(r rune) {
	if r == '\n' {
		g.src.line++
		g.src.column = 0
		return
	}
	g.src.column += utf16Len(r)
}

func isWordRune(r rune) bool {
	return r == '_' || r == '$' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func utf16Len(r rune) int {
	if r >= 0x10000 {
		return 2
	}
	return 1
}
