package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/amdpack/cli/internal/output"
	"github.com/amdpack/cli/internal/version"
)

// NewVersionCmd creates the version command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long: `Show amdpack version information.

Displays:
  - amdpack version, commit, and build date
  - Go version and the JavaScript grammar in use`,
		RunE: runVersion,
	}
}

func runVersion(_ *cobra.Command, _ []string) error {
	info := version.GetInfo()

	output.Println(fmt.Sprintf("amdpack version %s", info.Version))
	output.Println(fmt.Sprintf("  Commit:    %s", info.GitCommit))
	output.Println(fmt.Sprintf("  Built:     %s", info.BuildDate))
	output.Println(fmt.Sprintf("  Go:        %s", info.GoVersion))
	output.Println(fmt.Sprintf("  Parser:    %s", info.Parser))

	return nil
}
