package sourcemap

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seg(genCol, line, col int) Segment {
	return Segment{GenColumn: genCol, HasSource: true, SourceLine: line, SourceColumn: col}
}

func TestVLQ_KnownValues(t *testing.T) {
	tests := []struct {
		value int
		want  string
	}{
		{0, "A"},
		{1, "C"},
		{-1, "D"},
		{15, "e"},
		{16, "gB"},
		{-16, "hB"},
		{1000, "w+B"},
	}
	for _, tt := range tests {
		var b strings.Builder
		writeVLQ(&b, tt.value)
		assert.Equal(t, tt.want, b.String())

		got, next, err := readVLQ(tt.want, 0)
		require.NoError(t, err)
		assert.Equal(t, tt.value, got)
		assert.Equal(t, len(tt.want), next)
	}
}

func TestEncodeMappings(t *testing.T) {
	lines := [][]Segment{
		{seg(0, 0, 0), seg(1, 0, 1)},
		{seg(0, 0, 1)},
		{seg(0, 1, 0), seg(1, 1, 1)},
	}
	assert.Equal(t, "AAAA,CAAC;AAAA;AACD,CAAC", EncodeMappings(lines))
}

func TestDecodeMappings_RoundTrip(t *testing.T) {
	lines := [][]Segment{
		{seg(0, 0, 0), {GenColumn: 4}, {GenColumn: 6, HasSource: true, SourceLine: 2, SourceColumn: 7, HasName: true, Name: 1}},
		nil,
		{seg(3, 5, 0)},
	}
	decoded, err := DecodeMappings(EncodeMappings(lines))
	require.NoError(t, err)
	assert.Equal(t, lines, decoded)
}

func TestDecodeMappings_Invalid(t *testing.T) {
	_, err := DecodeMappings("AA!A")
	assert.Error(t, err)

	_, err = DecodeMappings("AA")
	assert.Error(t, err, "two-field segments are not valid")
}

func TestParse(t *testing.T) {
	m, err := Parse([]byte(`{"version":3,"sources":["a.js"],"names":[],"mappings":"AAAA"}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"a.js"}, m.Sources)

	_, err = Parse([]byte(`{"version":2,"sources":[],"names":[],"mappings":""}`))
	assert.Error(t, err)

	_, err = Parse([]byte(`{`))
	assert.Error(t, err)
}

func TestOriginalPosition(t *testing.T) {
	m := &Map{
		Version:  3,
		Sources:  []string{"src/foo.js"},
		Names:    []string{"bar"},
		Mappings: EncodeMappings([][]Segment{{seg(0, 0, 0), {GenColumn: 5, HasSource: true, SourceLine: 0, SourceColumn: 9, HasName: true}}}),
	}

	pos, ok := m.OriginalPosition(0, 3)
	require.True(t, ok)
	assert.Equal(t, Position{Source: "src/foo.js", Line: 0, Column: 0}, pos)

	pos, ok = m.OriginalPosition(0, 7)
	require.True(t, ok)
	assert.Equal(t, Position{Source: "src/foo.js", Line: 0, Column: 9, Name: "bar"}, pos)

	_, ok = m.OriginalPosition(4, 0)
	assert.False(t, ok)
}

func TestAccumulate_NilStageKeepsPrior(t *testing.T) {
	prior := &Map{Version: 3, Sources: []string{"a.js"}, Names: []string{}, Mappings: "AAAA"}
	got, err := Accumulate(prior, nil, "a;")
	require.NoError(t, err)
	assert.Same(t, prior, got)
}

func TestAccumulate_NilPriorAdoptsStage(t *testing.T) {
	stage := &Map{Version: 3, File: "src/foo.js", Sources: []string{"src/foo.js"}, Names: []string{}, Mappings: "AAAA"}
	got, err := Accumulate(nil, stage, "a;\nb;\n")
	require.NoError(t, err)
	assert.Equal(t, []string{"a;\nb;\n"}, got.SourcesContent)
	assert.Equal(t, "AAAA", got.Mappings)
	assert.Nil(t, stage.SourcesContent, "stage map must not be mutated")
}

func TestAccumulate_TracesThroughPrior(t *testing.T) {
	// prior: "a;\nb;\n" generated from "a;b;\n"
	prior := &Map{
		Version:        3,
		File:           "src/foo.js",
		Sources:        []string{"src/foo.js"},
		SourcesContent: []string{"a;b;\n"},
		Names:          []string{},
		Mappings:       EncodeMappings([][]Segment{{seg(0, 0, 0)}, {seg(0, 0, 3)}}),
	}
	// stage: "a;\nadd;\nb;\n" generated from "a;\nb;\n"
	stage := &Map{
		Version: 3,
		File:    "src/foo.js",
		Sources: []string{"src/foo.js"},
		Names:   []string{},
		Mappings: EncodeMappings([][]Segment{
			{seg(0, 0, 0), seg(1, 0, 1)},
			{seg(0, 0, 1)},
			{seg(0, 1, 0), seg(1, 1, 1)},
		}),
	}

	got, err := Accumulate(prior, stage, "a;\nb;\n")
	require.NoError(t, err)

	assert.Equal(t, "src/foo.js", got.File)
	assert.Equal(t, []string{"a;b;\n"}, got.SourcesContent)
	lines, err := got.Decode()
	require.NoError(t, err)
	assert.Equal(t, [][]Segment{
		{seg(0, 0, 0), seg(1, 0, 0)},
		{seg(0, 0, 0)},
		{seg(0, 0, 3), seg(1, 0, 3)},
	}, lines)
}

func TestAccumulate_DropsUntracedAndKeepsNames(t *testing.T) {
	prior := &Map{
		Version:  3,
		Sources:  []string{"orig.js"},
		Names:    []string{"orig"},
		Mappings: EncodeMappings([][]Segment{{{GenColumn: 2, HasSource: true, SourceLine: 4, SourceColumn: 1, HasName: true, Name: 0}}}),
	}
	stage := &Map{
		Version: 3,
		Sources: []string{"mid.js"},
		Names:   []string{"mid"},
		Mappings: EncodeMappings([][]Segment{{
			seg(0, 0, 0), // before the first prior segment: dropped
			{GenColumn: 3, HasSource: true, SourceLine: 0, SourceColumn: 2, HasName: true, Name: 0},
			seg(9, 7, 0), // line missing in prior: dropped
			{GenColumn: 12},
		}}),
	}

	got, err := Accumulate(prior, stage, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"orig.js"}, got.Sources)
	assert.Equal(t, []string{"orig"}, got.Names)

	lines, err := got.Decode()
	require.NoError(t, err)
	assert.Equal(t, [][]Segment{{
		{GenColumn: 3, HasSource: true, SourceLine: 4, SourceColumn: 1, HasName: true, Name: 0},
		{GenColumn: 12},
	}}, lines)
}
