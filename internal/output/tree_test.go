package output

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderFileTree(t *testing.T) {
	got := RenderFileTree("dist", []string{"foo/index.js", "bar.js", "foo/util.js"})
	lines := strings.Split(strings.TrimRight(got, "\n"), "\n")

	assert.Len(t, lines, 5)
	assert.Contains(t, lines[0], "dist/")
	assert.Contains(t, lines[1], "foo/")
	assert.Contains(t, lines[2], "index.js")
	assert.Contains(t, lines[3], "util.js")
	assert.Contains(t, lines[4], "bar.js")
	assert.Contains(t, lines[4], treeLast)
}

func TestRenderFileTree_Empty(t *testing.T) {
	assert.Empty(t, RenderFileTree("dist", nil))
}
