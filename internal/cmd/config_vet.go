package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/amdpack/cli/internal/config"
	oerrors "github.com/amdpack/cli/internal/errors"
	"github.com/amdpack/cli/internal/output"
)

// NewConfigVetCmd creates the config vet command.
func NewConfigVetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "vet",
		Short: "Validate configuration",
		Long: `Validate the amdpack configuration file.

Checks performed:
  1. Config file exists at resolved path
  2. Config file is valid YAML with only known fields
  3. Values pass the schema (URLs, package names, env entries)

The config path is resolved using precedence:
  --config flag > AMDPACK_CONFIG env > ~/.amdpack/config.yaml

Examples:
  # Validate default configuration
  amdpack config vet

  # Validate custom config path
  amdpack config vet --config /path/to/config.yaml`,
		RunE: runConfigVet,
	}
}

func runConfigVet(_ *cobra.Command, _ []string) error {
	pathResult, err := config.ResolveConfigPath(config.ResolveConfigPathOptions{
		FlagValue: configFlag,
	})
	if err != nil {
		return exitError(oerrors.Wrap(oerrors.ErrNotFound, "could not resolve config path"))
	}
	configPath, err := config.ExpandPath(pathResult.ConfigPath)
	if err != nil {
		return exitError(err)
	}

	output.Debug("validating config",
		"path", configPath,
		"source", pathResult.Source,
	)

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return exitError(oerrors.NewNotFoundError(
			"configuration file not found",
			configPath,
			"Run 'amdpack config init' to create default configuration",
		))
	}

	validator, err := config.NewValidator()
	if err != nil {
		return exitError(err)
	}
	if err := validator.ValidateFile(configPath); err != nil {
		return exitError(oerrors.NewValidationError(err.Error(), configPath, "Fix the listed fields and run 'amdpack config vet' again"))
	}

	cfg, err := config.NewLoader().Load(configPath)
	if err != nil {
		return exitError(oerrors.NewParseError("cannot load configuration", configPath, err))
	}
	if err := validator.Validate(cfg); err != nil {
		return exitError(oerrors.NewValidationError(err.Error(), configPath, ""))
	}

	output.Println(output.FormatCheckmark("Configuration is valid: " + configPath))
	return nil
}
