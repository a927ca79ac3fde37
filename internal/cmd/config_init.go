package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/amdpack/cli/internal/config"
	oerrors "github.com/amdpack/cli/internal/errors"
	"github.com/amdpack/cli/internal/output"
)

// NewConfigInitCmd creates the config init command.
func NewConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize default configuration",
		Long: `Initialize the amdpack configuration.

Creates ~/.amdpack/config.yaml with:
  - the node_modules lookup directory
  - jsDelivr CDN settings
  - process.env entries and per-package overrides (commented out)

Examples:
  # Initialize configuration
  amdpack config init

  # Overwrite existing configuration
  amdpack config init --force`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigInit(force)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false,
		"Overwrite existing configuration")

	return cmd
}

func runConfigInit(force bool) error {
	paths, err := config.DefaultPaths()
	if err != nil {
		return exitError(oerrors.Wrap(oerrors.ErrNotFound, "could not determine home directory"))
	}

	if _, err := os.Stat(paths.ConfigFile); err == nil && !force {
		return exitError(&oerrors.DetailError{
			Type:     "validation failed",
			Message:  "configuration already exists",
			Location: paths.ConfigFile,
			Hint:     "Use --force to overwrite existing configuration.",
			Cause:    oerrors.ErrValidation,
		})
	}

	if err := os.MkdirAll(paths.HomeDir, 0o700); err != nil {
		return exitError(oerrors.Wrap(oerrors.ErrPermission, "could not create ~/.amdpack directory"))
	}
	if err := os.WriteFile(paths.ConfigFile, []byte(config.DefaultConfigTemplate), 0o600); err != nil {
		return exitError(oerrors.Wrap(oerrors.ErrPermission, "could not write config.yaml"))
	}

	output.Println(output.FormatCheckmark("Configuration initialized at " + paths.ConfigFile))
	output.Println("Validate with: amdpack config vet")
	return nil
}
