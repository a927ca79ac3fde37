// Package cmd provides CLI command implementations.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/amdpack/cli/internal/config"
	"github.com/amdpack/cli/internal/output"
)

var (
	// Global flags
	configFlag     string
	verboseFlag    bool
	timestampsFlag bool

	// Loaded during PersistentPreRunE
	loadedConfig       *config.Config
	resolvedConfigPath config.ResolveConfigPathResult
)

// NewRootCmd creates the root command for the amdpack CLI.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "amdpack",
		Short: "Resolve npm packages into AMD modules",
		Long: `amdpack resolves npm packages from node_modules or the jsDelivr CDN and
turns their files into AMD modules a browser loader can consume.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initializeGlobals(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "Path to config file (env: AMDPACK_CONFIG)")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&timestampsFlag, "timestamps", true, "Show timestamps in log output")

	rootCmd.AddCommand(NewBuildCmd())
	rootCmd.AddCommand(NewResolveCmd())
	rootCmd.AddCommand(NewConfigCmd())
	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// initializeGlobals sets up logging and loads configuration.
func initializeGlobals(cmd *cobra.Command) error {
	pathResult, err := config.ResolveConfigPath(config.ResolveConfigPathOptions{FlagValue: configFlag})
	if err != nil {
		output.Debug("config path resolution error", "error", err)
	}
	resolvedConfigPath = pathResult

	cfg, err := config.NewLoader().Load(pathResult.ConfigPath)
	if err != nil {
		// Commands that don't need config still work.
		output.Debug("config load error", "error", err)
		cfg = nil
	}
	loadedConfig = cfg

	// Timestamps: flag (if explicitly set) > config > default (nil = true)
	logCfg := output.LogConfig{Verbose: verboseFlag}
	if cmd.Flags().Changed("timestamps") {
		logCfg.Timestamps = output.BoolPtr(timestampsFlag)
	} else if cfg != nil && cfg.Log.Timestamps != nil {
		logCfg.Timestamps = cfg.Log.Timestamps
	}
	output.SetupLogging(logCfg)

	if verboseFlag {
		output.Debug("initializing CLI",
			"config", pathResult.ConfigPath,
			"source", pathResult.Source,
			"loaded", cfg != nil,
		)
	}
	return nil
}

// GetConfig returns the loaded configuration, or nil when none could be read.
func GetConfig() *config.Config {
	return loadedConfig
}

// GetConfigPath returns the resolved config path value.
func GetConfigPath() string {
	if resolvedConfigPath.ConfigPath != "" {
		return resolvedConfigPath.ConfigPath
	}
	return configFlag
}
