// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/buildcomp/buildcomp/internal/issue"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// rootFlags holds the persistent flags shared by every subcommand.
type rootFlags struct {
	projectRoot   string
	componentsDir string
	outputFile    string
	configFile    string
	verbose       bool
}

// NewRootCommand builds the command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:   "buildcomp",
		Short: "Collect buildout components into one configuration file",
		Long: TitleStyle.Render("buildcomp") + SubtitleStyle.Render(" - Collect buildout components into one configuration file") + `

buildcomp scans a components directory, resolves every component's options
through its hooks, its previous values and its defaults, and merges the
resulting configuration fragments into a single buildout file.

` + SubtitleStyle.Render("Examples:") + `
  buildcomp collect                    Collect and write the output file
  buildcomp collect app.port=8080      Collect with an option override
  buildcomp order                      Show the collection order
  buildcomp show-defaults              Show the default value of every option
  buildcomp create --id cache ttl=60   Scaffold a new component`,
		SilenceUsage: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flags.projectRoot, "project-root", "p", ".", "project root that relative paths resolve against")
	pf.StringVarP(&flags.componentsDir, "components-dir", "c", "", "components directory (overrides configuration)")
	pf.StringVarP(&flags.outputFile, "output-file", "o", "", "output file (overrides configuration)")
	pf.StringVar(&flags.configFile, "config", "", "config file (default is ./buildcomp.cue, then $XDG_CONFIG_HOME/buildcomp/config.cue)")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "enable verbose output")

	rootCmd.AddCommand(
		newCollectCommand(app, flags),
		newOrderCommand(app, flags),
		newShowDefaultsCommand(app, flags),
		newCreateCommand(app, flags),
		newConfigCommand(app, flags),
	)

	rootCmd.SetOut(app.stdout)
	rootCmd.SetErr(app.stderr)
	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the CLI. It is called by main.main().
func Execute() {
	app, err := NewApp(Dependencies{})
	if err != nil {
		fmt.Fprintln(os.Stderr, ErrorStyle.Render("Error: ")+err.Error())
		os.Exit(1)
	}

	if err := fang.Execute(
		context.Background(),
		NewRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(int(exitErr.Code))
		}
		os.Exit(1)
	}
}

// formatErrorForDisplay formats an error for user display.
// ActionableErrors use their Format method; verbose mode shows the full chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}
