package processenv

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amdpack/cli/internal/unit"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name string
		unit *unit.Unit
		env  map[string]string
		want string
	}{
		{
			name: "local file named process",
			unit: &unit.Unit{Path: "src/process.js", Contents: "lorem", ModuleID: "process"},
			env:  map[string]string{"NODE_ENV": "foo"},
		},
		{
			name: "other package",
			unit: &unit.Unit{Path: "node_modules/process2/index.js", Contents: "lorem", ModuleID: "process2/index", PackageName: "process2"},
			env:  map[string]string{"NODE_ENV": "foo"},
		},
		{
			name: "process package",
			unit: &unit.Unit{Path: "node_modules/process/browser.js", Contents: "lorem", ModuleID: "process/browser", PackageName: "process"},
			env:  map[string]string{"NODE_ENV": "foo"},
			want: "lorem\nprocess.env = {\"NODE_ENV\":\"foo\"};\n",
		},
		{
			name: "sorted keys",
			unit: &unit.Unit{Path: "browser.js", Contents: "lorem", PackageName: "process"},
			env:  map[string]string{"B": "2", "A": "1"},
			want: "lorem\nprocess.env = {\"A\":\"1\",\"B\":\"2\"};\n",
		},
		{
			name: "no env",
			unit: &unit.Unit{Path: "browser.js", Contents: "lorem", PackageName: "process"},
			want: "lorem\nprocess.env = {};\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := New(tt.env)(context.Background(), tt.unit)
			require.NoError(t, err)
			if tt.want == "" {
				assert.Nil(t, res)
				return
			}
			require.NotNil(t, res)
			require.NotNil(t, res.Contents)
			assert.Equal(t, tt.want, *res.Contents)
		})
	}
}

func TestNew_CopiesEnv(t *testing.T) {
	env := map[string]string{"A": "1"}
	stage := New(env)
	env["A"] = "changed"

	res, err := stage(context.Background(), &unit.Unit{Contents: "x", PackageName: "process"})
	require.NoError(t, err)
	assert.Equal(t, "x\nprocess.env = {\"A\":\"1\"};\n", *res.Contents)
}
