package cjsamd

import "github.com/amdpack/cli/internal/jsast"

// CommonJSUsage records which CommonJS globals a file references freely.
type CommonJSUsage struct {
	Require  bool
	Exports  bool
	Module   bool
	Dirname  bool
	Filename bool
	Global   bool
	Process  bool
	Buffer   bool
}

// Any reports whether any CommonJS global is used.
func (c CommonJSUsage) Any() bool {
	return c.Require || c.Exports || c.Module || c.Dirname || c.Filename ||
		c.Global || c.Process || c.Buffer
}

// Usage is the module-format evidence found in a file.
type Usage struct {
	CommonJS CommonJSUsage

	// Define is set when the file calls a free define, i.e. it is already
	// an AMD or UMD module.
	Define bool
}

// DetectUsage derives the usage record from an analysis.
func DetectUsage(f *jsast.File) Usage {
	return Usage{
		CommonJS: CommonJSUsage{
			Require:  f.IsFree("require"),
			Exports:  f.IsFree("exports"),
			Module:   f.IsFree("module"),
			Dirname:  f.IsFree("__dirname"),
			Filename: f.IsFree("__filename"),
			Global:   f.IsFree("global"),
			Process:  f.IsFree("process"),
			Buffer:   f.IsFree("Buffer"),
		},
		Define: f.IsFree("define"),
	}
}

// decision is the outcome of the wrap rules.
type decision int

const (
	skip decision = iota
	wrap
	wrapForced
)

// decide applies the wrap rules. forced is set by the caller when the unit
// demands a wrap.
func decide(usage Usage, forced bool) decision {
	cjs := usage.CommonJS.Any()
	switch {
	case usage.Define && !cjs:
		return skip
	case forced:
		return wrapForced
	case usage.Define:
		// UMD: it registers itself when define is present.
		return skip
	case cjs:
		return wrap
	default:
		return skip
	}
}
