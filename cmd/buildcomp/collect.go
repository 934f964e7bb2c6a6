// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/buildcomp/buildcomp/internal/collect"
	"github.com/buildcomp/buildcomp/internal/discovery"
	"github.com/buildcomp/buildcomp/internal/issue"
	"github.com/buildcomp/buildcomp/pkg/buildcfg"
	"github.com/buildcomp/buildcomp/pkg/options"

	"github.com/spf13/cobra"
)

// priorState is what a previous run left in the output file.
type priorState struct {
	exists   bool
	snapshot *options.Store
}

func newCollectCommand(app *App, flags *rootFlags) *cobra.Command {
	var watchMode bool
	cmd := &cobra.Command{
		Use:   "collect [key=value...]",
		Short: "Collect every component and write the output file",
		Long: `Collect every component and write the output file.

Each component option is resolved from its hook, then from the value stored
in the previous output file, then from the manifest default. Positional
key=value arguments override all of them, e.g. 'buildcomp collect app.port=8080'.

With --watch, buildcomp keeps running and collects again whenever a manifest
or hook file changes.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if watchMode {
				return runCollectWatch(cmd, app, flags, args)
			}
			return runCollect(cmd, app, flags, args)
		},
	}
	cmd.Flags().BoolVarP(&watchMode, "watch", "w", false, "collect again when component files change")
	return cmd
}

func runCollect(cmd *cobra.Command, app *App, flags *rootFlags, args []string) error {
	ctx := cmd.Context()
	st, err := app.loadSettings(ctx, flags)
	if err != nil {
		return app.fail(cmd, err)
	}

	found, ok, err := app.discover(ctx, cmd, st)
	if err != nil || !ok {
		return err
	}
	if err := app.collectOnce(ctx, st, found, args); err != nil {
		return app.fail(cmd, err)
	}
	return nil
}

// collectOnce runs the pipeline over found and writes the output file.
func (a *App) collectOnce(ctx context.Context, st *settings, found *discovery.Result, args []string) error {
	overrides, skipped := options.ParseOverrides(args)
	for _, token := range skipped {
		a.logger.Warn("ignoring malformed override", "token", token)
	}

	prior := readPriorState(a, st.outputPath)

	res, diags := a.Resolvers.NewResolver(ctx, found.Manifests, st.cfg.Hooks)
	a.reportDiagnostics(ctx, diags)

	collector := collect.New(found.Manifests,
		collect.WithResolver(res),
		collect.WithSnapshot(prior.snapshot),
		collect.WithOverrides(overrides),
		collect.WithRules(st.cfg.Merge.Rules()),
		collect.WithClock(a.Clock),
		collect.WithLogger(a.logger),
	)
	result, err := collector.Collect(ctx)
	if errors.Is(err, collect.ErrNoManifests) {
		a.noComponents(st.componentsPath)
		return nil
	}
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := result.Render(&buf, st.cfg.Render.Indent); err != nil {
		return err
	}
	if err := writeFileAtomic(st.outputPath, buf.Bytes()); err != nil {
		return issue.NewErrorContext().
			WithOperation("write output file").
			WithResource(st.outputPath).
			WithSuggestions(
				"Check that the output directory exists and is writable",
				"Use --output-file to write somewhere else",
			).
			WithIssue(issue.OutputWriteFailedId).
			Wrap(err).
			BuildError()
	}

	verb := "Create"
	if prior.exists {
		verb = "Update"
	}
	a.logger.Debug("collection finished", "components", len(result.Order), "options", result.Options.Len())
	_, _ = fmt.Fprintf(a.stdout, "%s %s %s\n", SuccessStyle.Render(verb), KeyStyle.Render(st.outputPath), SuccessStyle.Render("success."))
	return nil
}

// discover scans the components directory. It reports false, with a nil error,
// when there is nothing to collect.
func (a *App) discover(ctx context.Context, cmd *cobra.Command, st *settings) (*discovery.Result, bool, error) {
	found, err := a.Discovery.Discover(ctx, st.componentsPath)
	if errors.Is(err, discovery.ErrComponentsDirNotFound) {
		a.noComponents(st.componentsPath)
		return nil, false, nil
	}
	if err != nil {
		return nil, false, a.fail(cmd, err)
	}
	a.reportDiagnostics(ctx, found.Diagnostics)

	if len(found.Manifests) == 0 {
		a.noComponents(st.componentsPath)
		return nil, false, nil
	}
	return found, true, nil
}

func (a *App) noComponents(dir string) {
	_, _ = fmt.Fprintf(a.stdout, "%s %s\n", SubtitleStyle.Render("No components found in"), KeyStyle.Render(dir))
	if !a.verbose {
		return
	}
	if rendered, err := issue.Get(issue.NoComponentsId).Render(string(a.colorScheme)); err == nil {
		_, _ = fmt.Fprint(a.stderr, rendered)
	}
}

// readPriorState recovers the options snapshot of a previous run. Any failure
// means there is no prior state.
func readPriorState(app *App, path string) priorState {
	f, err := os.Open(path)
	if err != nil {
		return priorState{snapshot: options.New()}
	}
	defer func() { _ = f.Close() }() // read-only

	prior := priorState{exists: true, snapshot: options.New()}
	meta, err := buildcfg.ReadMetadata(f)
	if err != nil {
		app.logger.Debug("previous output has no readable metadata", "path", path, "error", err)
		return prior
	}
	snapshot, err := options.DecodeSnapshot(meta.Options)
	if err != nil {
		app.logger.Debug("discarding previous options snapshot", "path", path, "error", err)
		return prior
	}
	prior.snapshot = snapshot
	return prior
}

// writeFileAtomic writes data to a temp file next to path and renames it into place.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	// No-op once the rename succeeded.
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}
