package output

import "strings"

// Format specifies how units are written.
type Format string

const (
	// FormatYAML outputs units as a YAML stream.
	FormatYAML Format = "yaml"

	// FormatJSON outputs units as a JSON array.
	FormatJSON Format = "json"

	// FormatTable outputs a summary table.
	FormatTable Format = "table"

	// FormatCode outputs only the unit contents.
	FormatCode Format = "code"
)

// String returns the string representation of the format.
func (f Format) String() string {
	return string(f)
}

// Valid reports whether f is a known format.
func (f Format) Valid() bool {
	switch f {
	case FormatYAML, FormatJSON, FormatTable, FormatCode:
		return true
	default:
		return false
	}
}

// ParseFormat parses a format name. Unknown names yield ok=false.
func ParseFormat(s string) (Format, bool) {
	switch strings.ToLower(s) {
	case "yaml", "yml":
		return FormatYAML, true
	case "json":
		return FormatJSON, true
	case "table":
		return FormatTable, true
	case "code", "js":
		return FormatCode, true
	default:
		return "", false
	}
}

// ValidFormats returns the accepted format names.
func ValidFormats() []string {
	return []string{"yaml", "json", "table", "code"}
}
