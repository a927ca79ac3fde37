package output

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatValid(t *testing.T) {
	tests := []struct {
		format Format
		valid  bool
	}{
		{FormatYAML, true},
		{FormatJSON, true},
		{FormatTable, true},
		{FormatCode, true},
		{Format("dir"), false},
		{Format(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			assert.Equal(t, tt.valid, tt.format.Valid())
		})
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input string
		want  Format
		ok    bool
	}{
		{"yaml", FormatYAML, true},
		{"YML", FormatYAML, true},
		{"json", FormatJSON, true},
		{"table", FormatTable, true},
		{"js", FormatCode, true},
		{"xml", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseFormat(tt.input)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestValidFormats(t *testing.T) {
	for _, name := range ValidFormats() {
		f, ok := ParseFormat(name)
		assert.True(t, ok)
		assert.True(t, f.Valid())
	}
}
