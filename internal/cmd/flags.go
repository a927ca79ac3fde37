package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/amdpack/cli/internal/config"
	oerrors "github.com/amdpack/cli/internal/errors"
	"github.com/amdpack/cli/internal/locator"
	"github.com/amdpack/cli/internal/output"
	"github.com/amdpack/cli/internal/pipeline"
)

// packageFlags are the flags shared by commands that read packages.
type packageFlags struct {
	nodeModules string
	cdn         bool
	cdnBaseURL  string
	env         []string
	envFiles    []string
	output      string
	strict      bool
	concurrency int
	outDir      string
	sourceMaps  bool
}

// AddTo registers the flags on cmd. defaultOutput is the --output default.
func (f *packageFlags) AddTo(cmd *cobra.Command, defaultOutput string) {
	cmd.Flags().StringVar(&f.nodeModules, "node-modules", "",
		"Directory node_modules lookups start from (env: AMDPACK_NODE_MODULES)")
	cmd.Flags().BoolVar(&f.cdn, "cdn", false,
		"Fall back to the jsDelivr CDN for missing packages (env: AMDPACK_CDN)")
	cmd.Flags().StringVar(&f.cdnBaseURL, "cdn-base-url", "",
		"CDN npm endpoint (env: AMDPACK_CDN_BASE_URL)")
	cmd.Flags().StringArrayVarP(&f.env, "env", "e", nil,
		"KEY=VALUE injected into process.env (repeatable)")
	cmd.Flags().StringArrayVar(&f.envFiles, "env-file", nil,
		"Dotenv file injected into process.env (repeatable)")
	cmd.Flags().StringVarP(&f.output, "output", "o", defaultOutput,
		"Output format: "+strings.Join(output.ValidFormats(), ", "))
	cmd.Flags().BoolVar(&f.strict, "strict", false,
		"Fail when the build produces warnings")
	cmd.Flags().IntVar(&f.concurrency, "concurrency", pipeline.DefaultConcurrency,
		"Maximum files processed at once")
	cmd.Flags().StringVar(&f.outDir, "out-dir", "",
		"Write one file per unit under this directory instead of stdout")
	cmd.Flags().BoolVar(&f.sourceMaps, "source-maps", false,
		"With --out-dir, also write .map files")
}

// format parses the --output flag.
func (f *packageFlags) format() (output.Format, error) {
	format, ok := output.ParseFormat(f.output)
	if !ok {
		return "", &oerrors.ExitError{
			Code: ExitGeneralError,
			Err: fmt.Errorf("invalid output format %q (valid: %s)",
				f.output, strings.Join(output.ValidFormats(), ", ")),
		}
	}
	return format, nil
}

// resolve merges the flags with the loaded configuration.
func (f *packageFlags) resolve(cmd *cobra.Command) *config.Resolved {
	opts := config.ResolveOptions{
		NodeModulesFlag: f.nodeModules,
		CDNBaseURLFlag:  f.cdnBaseURL,
		Config:          GetConfig(),
	}
	if cmd.Flags().Changed("cdn") {
		opts.CDNFlag = output.BoolPtr(f.cdn)
	}
	resolved := config.Resolve(opts)
	config.LogResolvedValues(resolved.Values)
	return resolved
}

// source builds the package source for a resolved configuration.
func source(resolved *config.Resolved) (*pipeline.Source, error) {
	cache, err := locator.NewCache(resolved.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("creating CDN cache: %w", err)
	}

	cfg := &config.Config{Packages: resolved.Packages}
	return &pipeline.Source{
		NodeModules: resolved.NodeModules,
		CDN:         resolved.CDN,
		CDNOptions: []locator.JSDelivrOption{
			locator.WithBaseURL(resolved.CDNBaseURL),
			locator.WithCache(cache),
		},
		Packages: cfg.LocatorPackages(),
	}, nil
}

// envVars layers process.env values: config, then env files, then --env.
func (f *packageFlags) envVars(resolved *config.Resolved) (map[string]string, error) {
	fromConfig, err := config.ParseEnv(resolved.Env)
	if err != nil {
		return nil, oerrors.NewValidationError(err.Error(), GetConfigPath(), "use KEY=VALUE entries under env")
	}
	fromFiles, err := config.ReadEnvFiles(f.envFiles...)
	if err != nil {
		return nil, oerrors.NewNotFoundError(err.Error(), strings.Join(f.envFiles, ", "), "")
	}
	fromFlags, err := config.ParseEnv(f.env)
	if err != nil {
		return nil, oerrors.NewValidationError(err.Error(), "--env", "use --env KEY=VALUE")
	}
	return config.MergeEnv(fromConfig, fromFiles, fromFlags), nil
}
