package cmd

import (
	"github.com/spf13/cobra"

	"github.com/amdpack/cli/internal/pipeline"
)

// NewResolveCmd creates the resolve command.
func NewResolveCmd() *cobra.Command {
	var pf packageFlags

	cmd := &cobra.Command{
		Use:   "resolve <package> [resource]",
		Short: "Show how a package file resolves",
		Long: `Resolve the main file of a package, or one resource next to it, without
transforming it. The unit is printed with its module id, path and source map.

Examples:
  # Show the main file of a package
  amdpack resolve lodash

  # Show where a resource of a package resolves
  amdpack resolve @scope/pkg ./util -o table`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPackage(cmd, &pf, pipeline.BuildOptions{
				Package:   args[0],
				Resources: args[1:],
			})
		},
	}

	pf.AddTo(cmd, "yaml")
	return cmd
}
