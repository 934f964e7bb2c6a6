// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/buildcomp/buildcomp/internal/collect"

	"github.com/spf13/cobra"
)

func newShowDefaultsCommand(app *App, flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "show-defaults",
		Short: "Show the default value of every option",
		Long: `Show the default value of every option.

Values come from the manifest defaults, overlaid with the values stored in
the current output file. Strings are printed quoted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := app.loadSettings(ctx, flags)
			if err != nil {
				return app.fail(cmd, err)
			}

			found, ok, err := app.discover(ctx, cmd, st)
			if err != nil || !ok {
				return err
			}

			prior := readPriorState(app, st.outputPath)
			defaults := collect.BuildDefaults(found.Manifests, prior.snapshot, nil)
			for _, entry := range defaults.Entries() {
				_, _ = fmt.Fprintf(app.stdout, "%s=%s\n", entry.Key, formatDefault(entry.Value))
			}
			return nil
		},
	}
}

// formatDefault renders a value the way Go source would spell it.
func formatDefault(v any) string {
	switch t := v.(type) {
	case nil:
		return "nil"
	case string:
		return strconv.Quote(t)
	case []any:
		parts := make([]string, len(t))
		for i, e := range t {
			parts[i] = formatDefault(e)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case []string:
		parts := make([]string, len(t))
		for i, e := range t {
			parts[i] = strconv.Quote(e)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return fmt.Sprint(v)
	}
}
