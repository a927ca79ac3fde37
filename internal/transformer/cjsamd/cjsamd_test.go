package cjsamd

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	oerrors "github.com/amdpack/cli/internal/errors"
	"github.com/amdpack/cli/internal/jsast"
	"github.com/amdpack/cli/internal/sourcemap"
	"github.com/amdpack/cli/internal/unit"
)

func TestDetectUsage(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want Usage
	}{
		{
			name: "require and exports",
			src:  "var a = require('a'); exports.a = a;",
			want: Usage{CommonJS: CommonJSUsage{Require: true, Exports: true}},
		},
		{
			name: "module exports",
			src:  "module.exports = 1;",
			want: Usage{CommonJS: CommonJSUsage{Module: true}},
		},
		{
			name: "node globals",
			src:  "var x = [__dirname, __filename, global, process, Buffer];",
			want: Usage{CommonJS: CommonJSUsage{Dirname: true, Filename: true, Global: true, Process: true, Buffer: true}},
		},
		{
			name: "define",
			src:  "define(['a'], function (a) { return a; });",
			want: Usage{Define: true},
		},
		{
			name: "shadowed",
			src:  "function f(require, module) { return require(module); }",
			want: Usage{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := jsast.Analyze(context.Background(), []byte(tt.src))
			require.NoError(t, err)
			assert.Equal(t, tt.want, DetectUsage(f))
		})
	}
}

func TestDecide(t *testing.T) {
	cjs := CommonJSUsage{Require: true}
	tests := []struct {
		name   string
		usage  Usage
		forced bool
		want   decision
	}{
		{"define only", Usage{Define: true}, false, skip},
		{"define only forced", Usage{Define: true}, true, skip},
		{"commonjs", Usage{CommonJS: cjs}, false, wrap},
		{"umd", Usage{CommonJS: cjs, Define: true}, false, skip},
		{"umd forced", Usage{CommonJS: cjs, Define: true}, true, wrapForced},
		{"plain script", Usage{}, false, skip},
		{"plain script forced", Usage{}, true, wrapForced},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, decide(tt.usage, tt.forced))
		})
	}
}

func TestTransform_SkipsAMD(t *testing.T) {
	u := &unit.Unit{Path: "a.js", Contents: "define(['a'], function (a) { return a; });"}
	res, err := Transform(context.Background(), u)
	require.NoError(t, err)
	assert.Nil(t, res)
}

func TestTransform_SkipsPlainScript(t *testing.T) {
	u := &unit.Unit{Path: "a.js", Contents: "var a = 1;"}
	res, err := Transform(context.Background(), u)
	require.NoError(t, err)
	assert.Nil(t, res)
}

func TestTransform_WrapsCommonJS(t *testing.T) {
	u := &unit.Unit{Path: "a.js", Contents: "var a = require('a');"}
	res, err := Transform(context.Background(), u)
	require.NoError(t, err)
	require.NotNil(t, res)
	require.NotNil(t, res.Contents)
	assert.Equal(t, "define(function (require, exports, module) {\nvar a = require('a');\n});\n", *res.Contents)
	assert.Nil(t, res.ForceWrap)
	require.NotNil(t, res.SourceMap)
	assert.Equal(t, []string{"a.js"}, res.SourceMap.Sources)
}

func TestTransform_OnlyReferencedShims(t *testing.T) {
	u := &unit.Unit{Path: "a.js", Contents: "module.exports = process.env.NODE_ENV;"}
	res, err := Transform(context.Background(), u)
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t,
		"define(function (require, exports, module) {var process = require('process');\nmodule.exports = process.env.NODE_ENV;\n});\n",
		*res.Contents)
}

func TestTransform_AllShims(t *testing.T) {
	u := &unit.Unit{Path: "a.js", Contents: "module.exports = [__dirname, global, process, Buffer];"}
	res, err := Transform(context.Background(), u)
	require.NoError(t, err)
	require.NotNil(t, res)

	want := header + dirnameShim + globalShim + processShim + bufferShim + "\n" + u.Contents + footer
	assert.Equal(t, want, *res.Contents)
}

func TestTransform_DynamicImport(t *testing.T) {
	u := &unit.Unit{Path: "a.js", Contents: "module.exports = function () { return import('./b'); };"}
	res, err := Transform(context.Background(), u)
	require.NoError(t, err)
	require.NotNil(t, res)

	assert.True(t, strings.HasPrefix(*res.Contents, header+dynamicImportShim+"\n"))
	assert.Contains(t, *res.Contents, "return __dimport('./b');")
	assert.NotContains(t, *res.Contents, "import(")
}

func TestTransform_ForcedByPath(t *testing.T) {
	u := &unit.Unit{Path: "dist/cjs/index.js", PackageName: "foo", Contents: "var a = 1;"}
	res, err := Transform(context.Background(), u)
	require.NoError(t, err)
	require.NotNil(t, res)
	require.NotNil(t, res.ForceWrap)
	assert.True(t, *res.ForceWrap)
	assert.Equal(t, "define(function (require, exports, module) {\nvar a = 1;\n});\n", *res.Contents)

	local := &unit.Unit{Path: "dist/cjs/index.js", Contents: "var a = 1;"}
	res, err = Transform(context.Background(), local)
	require.NoError(t, err)
	assert.Nil(t, res, "only package files are forced")
}

func TestTransform_ForceWrapKeepsUMDWrapped(t *testing.T) {
	u := &unit.Unit{
		Path:      "a.js",
		ForceWrap: true,
		Contents:  "if (typeof define === 'function') { define([], f); } else { module.exports = f(); }",
	}
	res, err := Transform(context.Background(), u)
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.True(t, strings.HasPrefix(*res.Contents, header))
}

func TestTransform_SourceMapFile(t *testing.T) {
	u := &unit.Unit{
		Path:      "a.js",
		Contents:  "exports.a = 1;",
		SourceMap: &sourcemap.Map{Version: 3, File: "a.ts", Sources: []string{"a.ts"}, Mappings: "AAAA"},
	}
	res, err := Transform(context.Background(), u)
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, []string{"a.ts"}, res.SourceMap.Sources)
}

func TestTransform_ParseError(t *testing.T) {
	u := &unit.Unit{Path: "a.js", Contents: "var = ;"}
	_, err := Transform(context.Background(), u)
	require.Error(t, err)
	assert.True(t, errors.Is(err, oerrors.ErrParse))
}

func TestTransform_SkipsNonScripts(t *testing.T) {
	u := &unit.Unit{Path: "dist/cjs/data.json", PackageName: "foo", Contents: `{"a":1}`}
	res, err := Transform(context.Background(), u)
	require.NoError(t, err)
	assert.Nil(t, res)
}
