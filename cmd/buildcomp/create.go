// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/buildcomp/buildcomp/internal/issue"
	"github.com/buildcomp/buildcomp/pkg/manifest"

	"github.com/spf13/cobra"
)

// hookTemplate is written to hooks/<option>.js for every option of a new component.
const hookTemplate = `// Resolves one option of the component.
//
// ctx.fallback holds the previous or default value; ctx.defaults and
// ctx.options expose the other values. ctx.config.set(section, key, value)
// writes into the generated configuration.
function collect(ctx) {
    return ctx.fallback;
}
`

type createFlags struct {
	id           string
	name         string
	section      string
	dependencies []string
	noHooks      bool
}

func newCreateCommand(app *App, flags *rootFlags) *cobra.Command {
	cf := &createFlags{}
	cmd := &cobra.Command{
		Use:   "create --id <id> [option[=value]...]",
		Short: "Create a new component",
		Long: `Create a new component directory holding a manifest.json and one
JavaScript hook per option.

Options are given as NAME or NAME=VALUE; VALUE becomes the option default.`,
		Example: `  buildcomp create --id cache --dependencies base ttl=60 backend`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCreate(cmd, app, flags, cf, args)
		},
	}

	cmd.Flags().StringVar(&cf.id, "id", "", "component id (required)")
	cmd.Flags().StringVar(&cf.name, "name", "", "component title (default is the id)")
	cmd.Flags().StringVar(&cf.section, "section", "", "section hooks write into (default is the id)")
	cmd.Flags().StringSliceVar(&cf.dependencies, "dependencies", nil, "ids of components collected first")
	cmd.Flags().BoolVar(&cf.noHooks, "no-hooks", false, "do not create hook files")
	_ = cmd.MarkFlagRequired("id")

	return cmd
}

func runCreate(cmd *cobra.Command, app *App, flags *rootFlags, cf *createFlags, args []string) error {
	st, err := app.loadSettings(cmd.Context(), flags)
	if err != nil {
		return app.fail(cmd, err)
	}

	names, defaults := parseOptionArgs(args)
	m := manifest.New(cf.id,
		manifest.WithTitle(cf.name),
		manifest.WithSection(cf.section),
		manifest.WithOptions(names...),
		manifest.WithDefaults(defaults),
		manifest.WithDependencies(cf.dependencies...),
	)
	if err := m.Validate(); err != nil {
		return app.fail(cmd, issue.NewErrorContext().
			WithOperation("create component").
			WithResource(cf.id).
			WithSuggestion("Component ids and dependencies must be identifiers, e.g. my_component").
			WithSuggestion("Option names must not contain spaces or '='").
			WithIssue(issue.ManifestInvalidId).
			Wrap(err).
			BuildError())
	}

	dir := filepath.Join(st.componentsPath, m.ID)
	if _, err := os.Stat(dir); err == nil {
		return app.fail(cmd, issue.NewErrorContext().
			WithOperation("create component").
			WithResource(dir).
			WithSuggestion("Pick another --id or remove the existing directory").
			Wrap(errors.New("component directory already exists")).
			BuildError())
	}

	data, err := manifest.Marshal(m)
	if err != nil {
		return app.fail(cmd, err)
	}
	if err := writeComponent(dir, data, names, !cf.noHooks); err != nil {
		return app.fail(cmd, issue.WrapWithOperation(err, "create component"))
	}

	if app.verbose {
		_, _ = fmt.Fprintln(app.stdout, SubtitleStyle.Render("Manifest:"))
		_, _ = fmt.Fprint(app.stdout, string(data))
	}
	_, _ = fmt.Fprintf(app.stdout, "%s %s %s\n", SuccessStyle.Render("Component"), KeyStyle.Render(m.ID), SuccessStyle.Render("create success."))
	return nil
}

// parseOptionArgs splits NAME[=VALUE] arguments. Names without a value get a
// nil default; repeated names keep their first position and last value.
func parseOptionArgs(args []string) ([]string, map[string]any) {
	var names []string
	defaults := make(map[string]any, len(args))
	for _, arg := range args {
		name, value, hasValue := strings.Cut(strings.TrimSpace(arg), "=")
		if _, seen := defaults[name]; !seen {
			names = append(names, name)
		}
		if hasValue {
			defaults[name] = value
		} else {
			defaults[name] = nil
		}
	}
	return names, defaults
}

func writeComponent(dir string, manifestData []byte, options []string, hooks bool) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create component directory: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, manifest.JSONFileName), manifestData, 0o644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	if !hooks {
		return nil
	}

	hooksDir := filepath.Join(dir, manifest.HooksDirName)
	if err := os.MkdirAll(hooksDir, 0o755); err != nil {
		return fmt.Errorf("failed to create hooks directory: %w", err)
	}
	for _, opt := range options {
		if err := os.WriteFile(filepath.Join(hooksDir, opt+".js"), []byte(hookTemplate), 0o644); err != nil {
			return fmt.Errorf("failed to write hook for %s: %w", opt, err)
		}
	}
	return nil
}
