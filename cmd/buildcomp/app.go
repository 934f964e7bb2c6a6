// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/buildcomp/buildcomp/internal/config"
	"github.com/buildcomp/buildcomp/internal/discovery"
	"github.com/buildcomp/buildcomp/internal/issue"
	"github.com/buildcomp/buildcomp/pkg/manifest"
	"github.com/buildcomp/buildcomp/pkg/resolver"
	"github.com/buildcomp/buildcomp/pkg/types"

	"github.com/spf13/cobra"
)

type (
	// App wires CLI services and shared dependencies. It is the composition root for
	// the CLI layer: all Cobra command handlers receive an App reference and delegate
	// through its service interfaces.
	App struct {
		Config      ConfigProvider
		Discovery   DiscoveryService
		Resolvers   ResolverFactory
		Diagnostics DiagnosticRenderer
		Clock       Clock
		stdout      io.Writer
		stderr      io.Writer
		logger      *slog.Logger
		verbose     bool
		colorScheme config.ColorScheme
	}

	// Dependencies defines the injection points for building an App. Nil fields are
	// replaced with production defaults by NewApp. Tests can supply mock implementations
	// to isolate specific service behavior.
	Dependencies struct {
		Config      ConfigProvider
		Discovery   DiscoveryService
		Resolvers   ResolverFactory
		Diagnostics DiagnosticRenderer
		Clock       Clock
		Stdout      io.Writer
		Stderr      io.Writer
	}

	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
	}

	// DiscoveryService loads the manifests of a components directory.
	DiscoveryService interface {
		Discover(ctx context.Context, dir string) (*discovery.Result, error)
	}

	// ResolverFactory builds the resolver consulted during collection. A nil
	// resolver means every option falls back to its defaults.
	ResolverFactory interface {
		NewResolver(ctx context.Context, manifests []*manifest.Manifest, hooks config.HooksConfig) (resolver.Resolver, []discovery.Diagnostic)
	}

	// DiagnosticRenderer renders structured diagnostics.
	DiagnosticRenderer interface {
		Render(ctx context.Context, diags []discovery.Diagnostic, stderr io.Writer)
	}

	// Clock stamps the rendered output.
	Clock interface {
		Now() time.Time
	}

	clockFunc func() time.Time

	fsDiscoveryService struct{}

	hookResolverFactory struct{}

	defaultDiagnosticRenderer struct{}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) (*App, error) {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.Discovery == nil {
		deps.Discovery = &fsDiscoveryService{}
	}
	if deps.Resolvers == nil {
		deps.Resolvers = &hookResolverFactory{}
	}
	if deps.Diagnostics == nil {
		deps.Diagnostics = &defaultDiagnosticRenderer{}
	}
	if deps.Clock == nil {
		deps.Clock = clockFunc(time.Now)
	}

	return &App{
		Config:      deps.Config,
		Discovery:   deps.Discovery,
		Resolvers:   deps.Resolvers,
		Diagnostics: deps.Diagnostics,
		Clock:       deps.Clock,
		stdout:      deps.Stdout,
		stderr:      deps.Stderr,
		logger:      slog.Default(),
		colorScheme: config.ColorSchemeAuto,
	}, nil
}

func (f clockFunc) Now() time.Time { return f() }

// Discover scans dir on the local filesystem.
func (s *fsDiscoveryService) Discover(ctx context.Context, dir string) (*discovery.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return discovery.Discover(dir)
}

// NewResolver registers the hook files of every manifest. Hooks that fail to
// load are reported and their options fall back to defaults.
func (f *hookResolverFactory) NewResolver(_ context.Context, manifests []*manifest.Manifest, hooks config.HooksConfig) (resolver.Resolver, []discovery.Diagnostic) {
	if !hooks.Enabled {
		return nil, nil
	}

	reg := resolver.NewRegistry()
	var diags []discovery.Diagnostic
	for _, m := range manifests {
		if m.Disabled {
			continue
		}
		if _, err := resolver.LoadHooks(reg, m, resolver.WithTimeout(hooks.Timeout)); err != nil {
			diags = append(diags, discovery.Diagnostic{
				Severity: discovery.SeverityWarning,
				Code:     discovery.CodeHookSkipped,
				Message:  fmt.Sprintf("component %q: %v", m.ID, err),
				Path:     m.Dir,
				Cause:    err,
			})
		}
	}
	return reg, diags
}

// Render writes structured diagnostics to stderr with lipgloss styling.
func (r *defaultDiagnosticRenderer) Render(_ context.Context, diags []discovery.Diagnostic, stderr io.Writer) {
	for _, diag := range diags {
		prefix := WarningStyle.Render("warning")
		if diag.Severity == discovery.SeverityError {
			prefix = ErrorStyle.Render("error")
		}

		if diag.Path != "" {
			_, _ = fmt.Fprintf(stderr, "%s: %s (%s)\n", prefix, diag.Message, VerboseStyle.Render(diag.Path))
			continue
		}

		_, _ = fmt.Fprintf(stderr, "%s: %s\n", prefix, diag.Message)
	}
}

// settings is the effective per-invocation configuration after flags are applied.
type settings struct {
	cfg            *config.Config
	projectRoot    string
	componentsPath string
	outputPath     string
}

// loadSettings loads configuration and applies root flags over it. A config file
// named with --config must load; any other failure falls back to defaults.
func (a *App) loadSettings(ctx context.Context, flags *rootFlags) (*settings, error) {
	cfg, err := a.Config.Load(ctx, config.LoadOptions{
		ConfigFilePath: flags.configFile,
		ProjectRoot:    flags.projectRoot,
	})
	if err != nil {
		if flags.configFile != "" {
			return nil, err
		}
		_, _ = fmt.Fprintln(a.stderr, WarningStyle.Render("Warning: ")+formatErrorForDisplay(err, flags.verbose))
		cfg = config.DefaultConfig()
	}

	if flags.componentsDir != "" {
		cfg.ComponentsDir = flags.componentsDir
	}
	if flags.outputFile != "" {
		cfg.OutputFile = flags.outputFile
	}

	a.verbose = flags.verbose || cfg.UI.Verbose
	a.colorScheme = cfg.UI.ColorScheme
	a.logger = newLogger(a.stderr, a.verbose)

	return &settings{
		cfg:            cfg,
		projectRoot:    flags.projectRoot,
		componentsPath: cfg.ComponentsPath(flags.projectRoot),
		outputPath:     cfg.OutputPath(flags.projectRoot),
	}, nil
}

// reportDiagnostics renders diagnostics in verbose mode and logs them otherwise.
func (a *App) reportDiagnostics(ctx context.Context, diags []discovery.Diagnostic) {
	if len(diags) == 0 {
		return
	}
	if a.verbose {
		a.Diagnostics.Render(ctx, diags, a.stderr)
		return
	}
	for _, d := range diags {
		a.logger.Debug("diagnostic", "code", d.Code, "message", d.Message, "path", d.Path)
	}
}

// fail prints err with its issue help and returns an ExitError so that fang
// does not render it a second time.
func (a *App) fail(cmd *cobra.Command, err error) error {
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	_, _ = fmt.Fprintln(a.stderr, ErrorStyle.Render("Error: ")+formatErrorForDisplay(err, a.verbose))

	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		if entry := ae.Issue(); entry != nil {
			rendered, renderErr := entry.Render(string(a.colorScheme))
			if renderErr != nil {
				a.logger.Warn("failed to render issue catalog entry", "issueID", ae.IssueId, "error", renderErr)
			} else {
				_, _ = fmt.Fprint(a.stderr, rendered)
			}
		}
	}

	return &ExitError{Code: types.ExitFailure, Err: err}
}
