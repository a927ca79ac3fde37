package transformer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/amdpack/cli/internal/transformer"
	"github.com/amdpack/cli/internal/unit"
)

func TestCollectWarnings(t *testing.T) {
	tests := []struct {
		name     string
		units    []*unit.Unit
		wantWarn []string // nil means expect no warnings
	}{
		{
			name: "regular modules, no warning",
			units: []*unit.Unit{
				{ModuleID: "foo/index", Contents: "require('bar');"},
				{ModuleID: "foo/data.json", Contents: `{"a":1}`},
			},
			wantWarn: nil,
		},
		{
			name: "ignored reference",
			units: []*unit.Unit{
				{ModuleID: "foo/index", Contents: "require('__ignore__');"},
				{ModuleID: "foo/lib", Contents: `import x from "__ignore__";`},
			},
			wantWarn: []string{
				"module foo/index: depends on a module ignored by the browser field",
				"module foo/lib: depends on a module ignored by the browser field",
			},
		},
		{
			// An empty unit gets a trailing semicolon when prepared.
			name: "empty module",
			units: []*unit.Unit{
				{ModuleID: "foo/lib/node", Contents: ";"},
				{Path: "lib/fs.js", Contents: ""},
			},
			wantWarn: []string{
				"module foo/lib/node: replaced with an empty module",
				"module lib/fs.js: replaced with an empty module",
			},
		},
		{
			name:     "nil units are skipped",
			units:    []*unit.Unit{nil},
			wantWarn: nil,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := transformer.CollectWarnings(tc.units)
			if tc.wantWarn == nil {
				assert.Empty(t, got)
			} else {
				assert.Equal(t, tc.wantWarn, got)
			}
		})
	}
}
