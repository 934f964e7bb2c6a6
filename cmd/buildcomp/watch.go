// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/buildcomp/buildcomp/internal/discovery"
	"github.com/buildcomp/buildcomp/internal/issue"
	"github.com/buildcomp/buildcomp/internal/watch"

	"github.com/spf13/cobra"
)

// runCollectWatch collects once, then again after every change to a manifest
// or hook until the command context is canceled. Failed runs are reported and
// watching continues.
func runCollectWatch(cmd *cobra.Command, app *App, flags *rootFlags, args []string) error {
	ctx := cmd.Context()
	st, err := app.loadSettings(ctx, flags)
	if err != nil {
		return app.fail(cmd, err)
	}
	if info, statErr := os.Stat(st.componentsPath); statErr != nil || !info.IsDir() {
		return app.fail(cmd, issue.NewErrorContext().
			WithOperation("watch components").
			WithResource(st.componentsPath).
			WithSuggestion("Create the directory or point --components-dir at an existing one").
			WithIssue(issue.ComponentsDirNotFoundId).
			Wrap(discovery.ErrComponentsDirNotFound).
			BuildError())
	}

	recollect := func(ctx context.Context) {
		found, err := app.Discovery.Discover(ctx, st.componentsPath)
		if err == nil {
			app.reportDiagnostics(ctx, found.Diagnostics)
			err = app.collectOnce(ctx, st, found, args)
		}
		if err != nil {
			_, _ = fmt.Fprintln(app.stderr, WarningStyle.Render("Collect failed: ")+formatErrorForDisplay(err, app.verbose))
		}
	}

	recollect(ctx)

	var ignore []string
	if rel, relErr := filepath.Rel(st.componentsPath, st.outputPath); relErr == nil && filepath.IsLocal(rel) {
		ignore = append(ignore, filepath.ToSlash(rel))
	}
	w, err := watch.New(watch.Config{
		Dir:    st.componentsPath,
		Ignore: ignore,
		OnChange: func(ctx context.Context, changed []string) error {
			app.logger.Info("components changed, collecting again", "files", len(changed))
			recollect(ctx)
			return nil
		},
		Logger: app.logger,
	})
	if err != nil {
		return app.fail(cmd, err)
	}

	_, _ = fmt.Fprintf(app.stdout, "%s %s\n", SubtitleStyle.Render("Watching"), KeyStyle.Render(st.componentsPath))
	if err := w.Run(ctx); err != nil {
		return app.fail(cmd, err)
	}
	return nil
}
