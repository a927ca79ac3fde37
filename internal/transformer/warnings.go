// Package transformer holds the transform stages that turn package files into
// AMD modules, and utilities over their output.
package transformer

import (
	"sort"
	"strings"

	"github.com/amdpack/cli/internal/reader"
	"github.com/amdpack/cli/internal/unit"
)

// CollectWarnings gathers non-fatal findings from transformed units.
//
// A unit is reported when the browser field replaced it with an empty module,
// or when it still references the ignored-module placeholder. Both usually
// mean the package expects a Node.js API the browser build cannot provide.
func CollectWarnings(units []*unit.Unit) []string {
	var warnings []string
	for _, u := range units {
		if u == nil {
			continue
		}
		name := u.ModuleID
		if name == "" {
			name = u.Path
		}

		if strings.TrimSpace(u.Contents) == "" || strings.TrimSpace(u.Contents) == ";" {
			warnings = append(warnings, "module "+name+": replaced with an empty module")
			continue
		}
		if referencesIgnored(u.Contents) {
			warnings = append(warnings, "module "+name+": depends on a module ignored by the browser field")
		}
	}
	sort.Strings(warnings)
	return warnings
}

func referencesIgnored(contents string) bool {
	return strings.Contains(contents, "'"+reader.IgnoredModule+"'") ||
		strings.Contains(contents, `"`+reader.IgnoredModule+`"`)
}
