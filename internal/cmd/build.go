package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	oerrors "github.com/amdpack/cli/internal/errors"
	"github.com/amdpack/cli/internal/output"
	"github.com/amdpack/cli/internal/pipeline"
	"github.com/amdpack/cli/internal/unit"
)

// NewBuildCmd creates the build command.
func NewBuildCmd() *cobra.Command {
	var (
		pf       packageFlags
		mainFlag bool
	)

	cmd := &cobra.Command{
		Use:   "build <package> [resource...]",
		Short: "Build package files into AMD modules",
		Long: `Resolve files of an npm package and transform them into AMD modules.

CommonJS files are wrapped in define(), WebAssembly files become raw! modules
and the process package gets the configured process.env values.

Arguments:
  package     Package name, or a path to a package directory
  resource    Files relative to the package's main file (default: the main file)

Examples:
  # Build the main file of a package
  amdpack build lodash

  # Build two files of a package next to its main file
  amdpack build @scope/pkg ./util ./data.json

  # Inject process.env values
  amdpack build process --env NODE_ENV=production --env-file .env

  # Fall back to the CDN and print a summary
  amdpack build react --cdn -o table`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPackage(cmd, &pf, pipeline.BuildOptions{
				Package:   args[0],
				Resources: args[1:],
				Main:      mainFlag,
				Transform: true,
			})
		},
	}

	pf.AddTo(cmd, "code")
	cmd.Flags().BoolVar(&mainFlag, "main", false,
		"Also build the main file when resources are given")
	return cmd
}

// runPackage reads and optionally transforms the units of one package.
func runPackage(cmd *cobra.Command, pf *packageFlags, opts pipeline.BuildOptions) error {
	format, err := pf.format()
	if err != nil {
		return err
	}

	resolved := pf.resolve(cmd)
	src, err := source(resolved)
	if err != nil {
		return exitError(err)
	}
	if opts.Transform {
		env, err := pf.envVars(resolved)
		if err != nil {
			return exitError(err)
		}
		opts.Env = env
	}
	opts.Strict = pf.strict
	opts.Concurrency = pf.concurrency

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var result *pipeline.BuildResult
	title := "Resolving " + opts.Package
	if opts.Transform {
		title = "Building " + opts.Package
	}
	err = output.RunWithSpinner(ctx, title, func(ctx context.Context) error {
		var buildErr error
		result, buildErr = pipeline.NewPipeline(src).Build(ctx, opts)
		return buildErr
	})
	if err != nil {
		var unitErr *pipeline.UnitError
		if errors.As(err, &unitErr) {
			name := unitErr.Resource()
			if name == "" {
				name = "main"
			}
			output.PackageLogger(unitErr.Package).Error(output.FormatUnitLine(name, output.StatusFailed))
		}
		return exitError(err)
	}

	pkgLog := output.PackageLogger(result.Package)
	for _, u := range result.Units {
		pkgLog.Debug(output.FormatUnitLine(u.ModuleID, unitStatus(u)))
	}
	for _, w := range result.Warnings {
		pkgLog.Warn(w)
	}

	if pf.outDir != "" {
		written, err := output.WriteUnitFiles(result.Units, output.FileOptions{
			OutDir:     pf.outDir,
			SourceMaps: pf.sourceMaps,
		})
		if err != nil {
			return exitError(oerrors.Wrap(oerrors.ErrPermission, err.Error()))
		}
		pkgLog.Info(fmt.Sprintf("wrote %d file(s) to %s", len(written), pf.outDir))
		output.Print(output.RenderFileTree(pf.outDir, written))
		return nil
	}

	if err := output.WriteUnits(result.Units, output.UnitOptions{
		Format: format,
		Writer: cmd.OutOrStdout(),
	}); err != nil {
		return exitError(fmt.Errorf("writing units: %w", err))
	}
	pkgLog.Info(output.FormatCheckmark(fmt.Sprintf("%d unit(s) from %s", len(result.Units), result.MainPath)))
	return nil
}

// unitStatus describes what happened to a unit for the summary log.
func unitStatus(u *unit.Unit) string {
	switch {
	case u.Contents == "" || u.Contents == ";":
		return output.StatusIgnored
	case strings.HasPrefix(u.Contents, "define("):
		return output.StatusWrapped
	default:
		return output.StatusResolved
	}
}
