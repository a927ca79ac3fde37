package sourcemap

import "fmt"

// Accumulate folds a stage map into the accumulated map of a unit.
//
// prior maps the stage input back to the original sources; stage maps the stage
// output back to the stage input. The result maps the stage output straight to the
// original sources and keeps prior's sources and sourcesContent.
//
// A nil stage keeps prior unchanged. A nil prior adopts stage, inlining input as
// the content of a single-source map that does not carry its own sourcesContent.
// Segments whose stage-input position has no mapping in prior are dropped.
func Accumulate(prior, stage *Map, input string) (*Map, error) {
	if stage == nil {
		return prior, nil
	}
	if prior == nil {
		m := stage.Clone()
		m.Version = 3
		if len(m.SourcesContent) == 0 && len(m.Sources) == 1 {
			m.SourcesContent = []string{input}
		}
		return m, nil
	}

	priorLines, err := prior.Decode()
	if err != nil {
		return nil, fmt.Errorf("decoding accumulated map: %w", err)
	}
	stageLines, err := stage.Decode()
	if err != nil {
		return nil, fmt.Errorf("decoding stage map: %w", err)
	}

	names := newNameTable()
	out := make([][]Segment, len(stageLines))
	for li, line := range stageLines {
		for _, seg := range line {
			if !seg.HasSource {
				out[li] = append(out[li], Segment{GenColumn: seg.GenColumn})
				continue
			}
			if seg.SourceLine >= len(priorLines) {
				continue
			}
			traced, ok := findSegment(priorLines[seg.SourceLine], seg.SourceColumn)
			if !ok || !traced.HasSource {
				continue
			}

			next := Segment{
				GenColumn:    seg.GenColumn,
				HasSource:    true,
				Source:       traced.Source,
				SourceLine:   traced.SourceLine,
				SourceColumn: traced.SourceColumn,
			}
			switch {
			case traced.HasName && traced.Name < len(prior.Names):
				next.HasName, next.Name = true, names.index(prior.Names[traced.Name])
			case seg.HasName && seg.Name < len(stage.Names):
				next.HasName, next.Name = true, names.index(stage.Names[seg.Name])
			}
			out[li] = append(out[li], next)
		}
	}

	file := prior.File
	if file == "" {
		file = stage.File
	}
	m := &Map{
		Version:    3,
		File:       file,
		SourceRoot: prior.SourceRoot,
		Sources:    append([]string(nil), prior.Sources...),
		Names:      names.list,
		Mappings:   EncodeMappings(out),
	}
	if prior.SourcesContent != nil {
		m.SourcesContent = append([]string(nil), prior.SourcesContent...)
	}
	return m, nil
}

type nameTable struct {
	list []string
	seen map[string]int
}

func newNameTable() *nameTable {
	return &nameTable{list: []string{}, seen: make(map[string]int)}
}

func (t *nameTable) index(name string) int {
	if i, ok := t.seen[name]; ok {
		return i
	}
	t.list = append(t.list, name)
	t.seen[name] = len(t.list) - 1
	return len(t.list) - 1
}
