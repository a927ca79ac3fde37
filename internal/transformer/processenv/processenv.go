// Package processenv injects environment values into the browser shim of the
// "process" package.
package processenv

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/amdpack/cli/internal/output"
	"github.com/amdpack/cli/internal/transform"
	"github.com/amdpack/cli/internal/unit"
)

// PackageName is the package whose units receive the environment.
const PackageName = "process"

// New returns a stage that appends a process.env assignment to every unit of
// the process package. env is copied; the stage never consults the host
// environment.
func New(env map[string]string) transform.Stage {
	values := make(map[string]string, len(env))
	for k, v := range env {
		values[k] = v
	}

	return func(_ context.Context, u *unit.Unit) (*transform.Result, error) {
		if u.PackageName != PackageName {
			return nil, nil
		}
		data, err := json.Marshal(values)
		if err != nil {
			return nil, fmt.Errorf("encoding process.env: %w", err)
		}
		output.Debug("injecting process.env", "module", u.ModuleID, "keys", len(values))
		return &transform.Result{
			Contents: transform.String(u.Contents + "\nprocess.env = " + string(data) + ";\n"),
		}, nil
	}
}
