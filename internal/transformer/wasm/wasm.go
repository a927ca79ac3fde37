// Package wasm turns base64 encoded WebAssembly units into AMD modules that
// expose the binary as an ArrayBuffer.
package wasm

import (
	"context"
	"fmt"
	"strings"

	"github.com/amdpack/cli/internal/transform"
	"github.com/amdpack/cli/internal/unit"
)

// Base64Module decodes the payload at runtime.
const Base64Module = "base64-arraybuffer"

// Transform wraps a .wasm unit. Other units are left alone.
func Transform(_ context.Context, u *unit.Unit) (*transform.Result, error) {
	if !strings.HasSuffix(strings.ToLower(u.Path), ".wasm") {
		return nil, nil
	}
	id := u.ModuleID
	if id == "" {
		id = u.Path
	}
	return Wrap(id, u.Contents), nil
}

// Wrap builds the module "raw!<id>" around base64 contents.
func Wrap(id, contents string) *transform.Result {
	defined := "raw!" + id
	code := fmt.Sprintf(
		"define('%s',['%s'],function(a){return {arrayBuffer: function() {return Promise.resolve(a.decode(%q));}}});",
		defined, Base64Module, contents,
	)
	return &transform.Result{
		Contents: transform.String(code),
		Defined:  []string{defined},
		Deps:     []string{Base64Module},
	}
}
