// Package sourcemap models version 3 source maps and composes them across
// transform stages.
//
// Mappings are handled in decoded form as one []Segment per generated line.
// Lines and columns are zero-based; columns count UTF-16 code units.
package sourcemap

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Map is a version 3 source map.
type Map struct {
	Version        int      `json:"version" yaml:"version"`
	File           string   `json:"file,omitempty" yaml:"file,omitempty"`
	SourceRoot     string   `json:"sourceRoot,omitempty" yaml:"sourceRoot,omitempty"`
	Sources        []string `json:"sources" yaml:"sources"`
	SourcesContent []string `json:"sourcesContent,omitempty" yaml:"sourcesContent,omitempty"`
	Names          []string `json:"names" yaml:"names"`
	Mappings       string   `json:"mappings" yaml:"mappings"`
}

// Segment is one decoded mapping entry.
type Segment struct {
	// GenColumn is the column in the generated line.
	GenColumn int

	// HasSource is false for segments that map to nothing.
	HasSource bool

	Source       int
	SourceLine   int
	SourceColumn int

	// HasName reports whether Name indexes into Map.Names.
	HasName bool
	Name    int
}

// Parse decodes a JSON source map.
func Parse(data []byte) (*Map, error) {
	var m Map
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decoding source map: %w", err)
	}
	if m.Version != 3 {
		return nil, fmt.Errorf("unsupported source map version %d", m.Version)
	}
	return &m, nil
}

// JSON encodes the map.
func (m *Map) JSON() ([]byte, error) {
	return json.Marshal(m)
}

// Clone returns a deep copy of m.
func (m *Map) Clone() *Map {
	if m == nil {
		return nil
	}
	c := *m
	c.Sources = append([]string(nil), m.Sources...)
	if m.SourcesContent != nil {
		c.SourcesContent = append([]string(nil), m.SourcesContent...)
	}
	c.Names = append([]string(nil), m.Names...)
	return &c
}

// Decode returns the decoded mappings of m.
func (m *Map) Decode() ([][]Segment, error) {
	return DecodeMappings(m.Mappings)
}

// DecodeMappings decodes a VLQ "mappings" string.
func DecodeMappings(mappings string) ([][]Segment, error) {
	lines := [][]Segment{nil}
	var source, srcLine, srcCol, name int
	var genCol int

	i := 0
	for i < len(mappings) {
		switch mappings[i] {
		case ';':
			lines = append(lines, nil)
			genCol = 0
			i++
			continue
		case ',':
			i++
			continue
		}

		var fields [5]int
		n := 0
		for i < len(mappings) && mappings[i] != ',' && mappings[i] != ';' {
			if n == len(fields) {
				return nil, fmt.Errorf("segment with more than %d fields", len(fields))
			}
			v, next, err := readVLQ(mappings, i)
			if err != nil {
				return nil, err
			}
			fields[n] = v
			n++
			i = next
		}

		genCol += fields[0]
		seg := Segment{GenColumn: genCol}
		switch n {
		case 1:
		case 4, 5:
			source += fields[1]
			srcLine += fields[2]
			srcCol += fields[3]
			seg.HasSource = true
			seg.Source, seg.SourceLine, seg.SourceColumn = source, srcLine, srcCol
			if n == 5 {
				name += fields[4]
				seg.HasName = true
				seg.Name = name
			}
		default:
			return nil, fmt.Errorf("segment with %d fields", n)
		}

		last := len(lines) - 1
		lines[last] = append(lines[last], seg)
	}
	return lines, nil
}

// EncodeMappings encodes decoded lines into a VLQ "mappings" string.
func EncodeMappings(lines [][]Segment) string {
	var b strings.Builder
	var source, srcLine, srcCol, name int

	for li, line := range lines {
		if li > 0 {
			b.WriteByte(';')
		}
		genCol := 0
		for si, seg := range line {
			if si > 0 {
				b.WriteByte(',')
			}
			writeVLQ(&b, seg.GenColumn-genCol)
			genCol = seg.GenColumn
			if !seg.HasSource {
				continue
			}
			writeVLQ(&b, seg.Source-source)
			writeVLQ(&b, seg.SourceLine-srcLine)
			writeVLQ(&b, seg.SourceColumn-srcCol)
			source, srcLine, srcCol = seg.Source, seg.SourceLine, seg.SourceColumn
			if seg.HasName {
				writeVLQ(&b, seg.Name-name)
				name = seg.Name
			}
		}
	}
	return b.String()
}

// Position is a location in an original source.
type Position struct {
	Source string
	Line   int
	Column int
	Name   string
}

// OriginalPosition returns the original position for a generated position, using
// the closest segment at or before column on that line.
func (m *Map) OriginalPosition(line, column int) (Position, bool) {
	lines, err := m.Decode()
	if err != nil || line < 0 || line >= len(lines) {
		return Position{}, false
	}
	seg, ok := findSegment(lines[line], column)
	if !ok || !seg.HasSource {
		return Position{}, false
	}
	pos := Position{Line: seg.SourceLine, Column: seg.SourceColumn}
	if seg.Source < len(m.Sources) {
		pos.Source = m.Sources[seg.Source]
	}
	if seg.HasName && seg.Name < len(m.Names) {
		pos.Name = m.Names[seg.Name]
	}
	return pos, true
}

// findSegment returns the last segment whose generated column is <= column.
// Segments on a line are sorted by generated column.
func findSegment(line []Segment, column int) (Segment, bool) {
	lo, hi := 0, len(line)
	for lo < hi {
		mid := (lo + hi) / 2
		if line[mid].GenColumn <= column {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if lo == 0 {
		return Segment{}, false
	}
	return line[lo-1], true
}
