package moduleid

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExt(t *testing.T) {
	tests := []struct {
		id   string
		want string
	}{
		{"lib/index", ""},
		{"lib/index.js", ".js"},
		{"lib/index.css", ".css"},
		{"lib/index.JSON", ".json"},
		{"foo/a.min", ""},
		{".gitignore", ""},
		{"lib/.eslintrc", ""},
		{"v1.2/index", ""},
		{"a.wasm", ".wasm"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			assert.Equal(t, tt.want, Ext(tt.id))
		})
	}
}

func TestParse(t *testing.T) {
	id := Parse("dist/cjs/main.js")
	assert.Equal(t, "dist/cjs/main", id.BareID)
	assert.Equal(t, []string{"dist", "cjs", "main.js"}, id.Parts)
	assert.Equal(t, ".js", id.Ext)
	assert.Equal(t, "dist/cjs", id.Dir())

	css := Parse("main.css")
	assert.Equal(t, "main.css", css.BareID)
	assert.Equal(t, ".css", css.Ext)
	assert.Equal(t, "", css.Dir())

	bare := Parse("lib/index")
	assert.Equal(t, "lib/index", bare.BareID)
	assert.Equal(t, "", bare.Ext)
}

func TestParse_StableForScripts(t *testing.T) {
	for _, p := range []string{"index.js", "lib/a.min.js", "lib/index", "@scope/x/y.js"} {
		first := Parse(p)
		again := Parse(first.BareID + ".js")
		assert.Equal(t, first.BareID, again.BareID, p)
	}
}

func TestStripJSExtension(t *testing.T) {
	assert.Equal(t, "a.json", StripJSExtension("a.json"))
	assert.Equal(t, "./b/a.html", StripJSExtension("./b/a.html"))
	assert.Equal(t, "foo/a.min", StripJSExtension("foo/a.min"))
	assert.Equal(t, "a", StripJSExtension("a.js"))
	assert.Equal(t, "./b/a", StripJSExtension("./b/a.js"))
	assert.Equal(t, "@bar/foo/a.min", StripJSExtension("@bar/foo/a.min.js"))
	assert.Equal(t, ".js", StripJSExtension(".js"))
}

func TestIsPackageName(t *testing.T) {
	assert.True(t, IsPackageName("foo"))
	assert.True(t, IsPackageName("lorem-name"))
	assert.True(t, IsPackageName("@foo/bar"))

	assert.False(t, IsPackageName("./foo"))
	assert.False(t, IsPackageName("../foo/bar"))
	assert.False(t, IsPackageName("./@foo/bar"))
	assert.False(t, IsPackageName("foo/bar"))
	assert.False(t, IsPackageName("@foo/bar/loo"))
	assert.False(t, IsPackageName(""))
}

func TestResolve(t *testing.T) {
	got, ok := Resolve("server", "./only.js")
	assert.True(t, ok)
	assert.Equal(t, "server/only.js", got)

	got, ok = Resolve("lib", "../server/only.js")
	assert.True(t, ok)
	assert.Equal(t, "server/only.js", got)

	got, ok = Resolve("", "./index.js")
	assert.True(t, ok)
	assert.Equal(t, "index.js", got)

	_, ok = Resolve("", "../outside.js")
	assert.False(t, ok)
}

func TestRelative(t *testing.T) {
	assert.Equal(t, "./shims/client-only", Relative("", "shims/client-only"))
	assert.Equal(t, "../shims/client-only", Relative("server", "shims/client-only"))
	assert.Equal(t, "../../shims/b", Relative("a/b", "shims/b"))
	assert.Equal(t, "./c", Relative("a/b", "a/b/c"))
	assert.Equal(t, "../d", Relative("a/b", "a/d"))
}

func TestIsJavaScript(t *testing.T) {
	assert.True(t, IsJavaScript("lib/index.js"))
	assert.True(t, IsJavaScript("lib/index.mjs"))
	assert.True(t, IsJavaScript("index.cjs"))
	assert.False(t, IsJavaScript("data.json"))
	assert.False(t, IsJavaScript("lib/index"))
	assert.False(t, IsJavaScript("a.wasm"))
}
