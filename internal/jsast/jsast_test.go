package jsast

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func analyze(t *testing.T, src string) *File {
	t.Helper()
	f, err := Analyze(context.Background(), []byte(src))
	require.NoError(t, err)
	return f
}

func TestAnalyze_FreeIdentifiers(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []string
	}{
		{"commonjs module", "var x = require('a');\nmodule.exports = x;", []string{"module", "require"}},
		{"amd module", "define(['a'], function (a) { return a; });", []string{"define"}},
		{"block scoped let", "{ let a = 1; } a; const b = 2; b;", []string{"a"}},
		{"catch parameter", "try {} catch (e) { e; }", nil},
		{"destructuring", "var {a, b: [c, ...d], e = f} = g; a; c; d; e;", []string{"f", "g"}},
		{"arrow parameter", "var h = x => x + y;", []string{"y"}},
		{"named function expression", "var f = function g() { g(); }; g;", []string{"g"}},
		{"hoisted function", "foo(); function foo() {}", nil},
		{"var in for-in", "for (var k in o) {} k;", []string{"o"}},
		{"class declaration", "class A {} new A(); new B();", []string{"B"}},
		{"typeof guard", "if (typeof define === 'function' && define.amd) {}", []string{"define"}},
		{"shorthand property", "var o = {process};", []string{"process"}},
		{"member properties", "a.b.c = {d: 1};", []string{"a"}},
		{"function scoped var", "function f() { var __dirname = 1; } __filename;", []string{"__filename"}},
		{"imports", "import a, {b as c} from 'x'; import * as d from 'y'; a(c, d, b);", []string{"b"}},
		{"reexports", "export {d} from 'y';", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := analyze(t, tt.src)
			assert.False(t, f.HasError)
			assert.Equal(t, tt.want, f.Free)
			for _, name := range tt.want {
				assert.True(t, f.IsFree(name))
			}
		})
	}
}

func TestAnalyze_ShadowedRequire(t *testing.T) {
	f := analyze(t, "function f(require) { require('x'); }\ndefine(function (require) { return require('y'); });")
	assert.Equal(t, []string{"define"}, f.Free)
	assert.Empty(t, f.References)
}

func TestAnalyze_References(t *testing.T) {
	src := "var x = require('a');\n" +
		"import b from './b';\n" +
		"export * from \"c\";\n" +
		"export {d} from 'd';\n" +
		"import('e').then(x);\n" +
		"require(name);\n"
	f := analyze(t, src)

	require.Len(t, f.References, 5)
	assert.Equal(t, Reference{Kind: Require, Value: "a", Span: Span{Start: 17, End: 18}}, f.References[0])

	kinds := make([]ReferenceKind, 0, len(f.References))
	values := make([]string, 0, len(f.References))
	for _, ref := range f.References {
		kinds = append(kinds, ref.Kind)
		values = append(values, ref.Value)
		assert.Equal(t, ref.Value, src[ref.Span.Start:ref.Span.End])
	}
	assert.Equal(t, []ReferenceKind{Require, Import, Export, Export, DynamicImport}, kinds)
	assert.Equal(t, []string{"a", "./b", "c", "d", "e"}, values)
}

func TestAnalyze_DynamicImports(t *testing.T) {
	src := "async function f() { await import('./a'); return import(b); }"
	f := analyze(t, src)

	require.Len(t, f.DynamicImports, 2)
	for _, span := range f.DynamicImports {
		assert.Equal(t, "import", src[span.Start:span.End])
	}
	assert.Equal(t, []string{"b"}, f.Free)
}

func TestAnalyze_SyntaxError(t *testing.T) {
	f := analyze(t, "var = ;")
	assert.True(t, f.HasError)
}

func TestReferenceKind_String(t *testing.T) {
	assert.Equal(t, "require", Require.String())
	assert.Equal(t, "dynamic-import", DynamicImport.String())
	assert.Equal(t, "unknown", ReferenceKind(42).String())
}
