// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"strings"

	"github.com/buildcomp/buildcomp/internal/config"

	"github.com/spf13/cobra"
)

// newConfigCommand creates the `buildcomp config` command tree.
func newConfigCommand(app *App, flags *rootFlags) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect buildcomp configuration",
		Long: `Inspect buildcomp configuration.

Configuration is read from the first of:
  - the file given with --config
  - ./buildcomp.cue in the project root
  - $XDG_CONFIG_HOME/buildcomp/config.cue (~/.config/buildcomp/config.cue)

BUILDCOMP_* environment variables override file values, e.g.
BUILDCOMP_OUTPUT_FILE or BUILDCOMP_HOOKS_ENABLED.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := app.loadSettings(cmd.Context(), flags)
			if err != nil {
				return app.fail(cmd, err)
			}
			path, err := config.ResolvePath(loadOptions(flags))
			if err != nil {
				return app.fail(cmd, err)
			}
			showConfig(app, st, path)
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show the configuration file in use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.ResolvePath(loadOptions(flags))
			if err != nil {
				return app.fail(cmd, err)
			}
			if path == "" {
				_, _ = fmt.Fprintln(app.stdout, SubtitleStyle.Render("(using defaults)"))
				return nil
			}
			_, _ = fmt.Fprintln(app.stdout, path)
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output the effective configuration as CUE",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := app.loadSettings(cmd.Context(), flags)
			if err != nil {
				return app.fail(cmd, err)
			}
			_, _ = fmt.Fprint(app.stdout, config.GenerateCUE(st.cfg))
			return nil
		},
	})

	return cfgCmd
}

func loadOptions(flags *rootFlags) config.LoadOptions {
	return config.LoadOptions{
		ConfigFilePath: flags.configFile,
		ProjectRoot:    flags.projectRoot,
	}
}

func showConfig(app *App, st *settings, path string) {
	out := app.stdout
	keyStyle := KeyStyle
	valueStyle := SuccessStyle
	cfg := st.cfg

	_, _ = fmt.Fprintln(out, TitleStyle.Render("Current Configuration"))
	_, _ = fmt.Fprintln(out)
	if path == "" {
		_, _ = fmt.Fprintf(out, "%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	} else {
		_, _ = fmt.Fprintf(out, "%s: %s\n", keyStyle.Render("Config file"), path)
	}
	_, _ = fmt.Fprintln(out)

	_, _ = fmt.Fprintf(out, "%s: %s\n", keyStyle.Render("components_dir"), valueStyle.Render(st.componentsPath))
	_, _ = fmt.Fprintf(out, "%s: %s\n", keyStyle.Render("output_file"), valueStyle.Render(st.outputPath))

	_, _ = fmt.Fprintln(out)
	_, _ = fmt.Fprintf(out, "%s:\n", keyStyle.Render("render"))
	_, _ = fmt.Fprintf(out, "  indent: %s\n", valueStyle.Render(fmt.Sprint(cfg.Render.Indent)))

	_, _ = fmt.Fprintln(out)
	_, _ = fmt.Fprintf(out, "%s:\n", keyStyle.Render("merge"))
	_, _ = fmt.Fprintf(out, "  append_keys: %s\n", listOrNone(cfg.Merge.AppendKeys, valueStyle.Render))
	_, _ = fmt.Fprintf(out, "  unique_keys: %s\n", listOrNone(cfg.Merge.UniqueKeys, valueStyle.Render))

	_, _ = fmt.Fprintln(out)
	_, _ = fmt.Fprintf(out, "%s:\n", keyStyle.Render("hooks"))
	_, _ = fmt.Fprintf(out, "  enabled: %s\n", valueStyle.Render(fmt.Sprint(cfg.Hooks.Enabled)))
	_, _ = fmt.Fprintf(out, "  timeout: %s\n", valueStyle.Render(cfg.Hooks.Timeout.String()))

	_, _ = fmt.Fprintln(out)
	_, _ = fmt.Fprintf(out, "%s:\n", keyStyle.Render("ui"))
	_, _ = fmt.Fprintf(out, "  color_scheme: %s\n", valueStyle.Render(cfg.UI.ColorScheme.String()))
	_, _ = fmt.Fprintf(out, "  verbose: %s\n", valueStyle.Render(fmt.Sprint(cfg.UI.Verbose)))
}

func listOrNone(items []string, render func(...string) string) string {
	if len(items) == 0 {
		return SubtitleStyle.Render("(none)")
	}
	return render(strings.Join(items, ", "))
}
