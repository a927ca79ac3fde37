package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/amdpack/cli/internal/unit"
)

// UnitOptions controls unit output formatting.
type UnitOptions struct {
	// Format selects the encoding.
	Format Format

	// Writer is the output destination.
	Writer io.Writer
}

// WriteUnits writes units in the requested format, preserving their order.
func WriteUnits(units []*unit.Unit, opts UnitOptions) error {
	switch opts.Format {
	case FormatJSON:
		return writeUnitsJSON(units, opts.Writer)
	case FormatTable:
		_, err := io.WriteString(opts.Writer, unitTable(units)+"\n")
		return err
	case FormatCode:
		return writeUnitsCode(units, opts.Writer)
	case FormatYAML, "":
		return writeUnitsYAML(units, opts.Writer)
	}
	return fmt.Errorf("unsupported output format %q", opts.Format)
}

func writeUnitsJSON(units []*unit.Unit, w io.Writer) error {
	if units == nil {
		units = []*unit.Unit{}
	}
	data, err := json.MarshalIndent(units, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling units to JSON: %w", err)
	}
	_, err = w.Write(append(data, '\n'))
	return err
}

func writeUnitsYAML(units []*unit.Unit, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	for _, u := range units {
		if err := enc.Encode(u); err != nil {
			return fmt.Errorf("marshaling unit %s to YAML: %w", u.Path, err)
		}
	}
	return enc.Close()
}

func writeUnitsCode(units []*unit.Unit, w io.Writer) error {
	for _, u := range units {
		if _, err := io.WriteString(w, strings.TrimRight(u.Contents, "\n")+"\n"); err != nil {
			return err
		}
	}
	return nil
}

func unitTable(units []*unit.Unit) string {
	t := NewTable("MODULE", "PATH", "DEPS", "SIZE", "MAP").AlignRight(3)
	for _, u := range units {
		hasMap := "no"
		if u.SourceMap != nil {
			hasMap = "yes"
		}
		t.Row(u.ModuleID, u.Path, strings.Join(u.Deps, ","), strconv.Itoa(len(u.Contents)), hasMap)
	}
	return t.String()
}
