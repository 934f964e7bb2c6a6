// SPDX-License-Identifier: MPL-2.0

package resolver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"

	"github.com/buildcomp/buildcomp/pkg/manifest"
)

// Environment variables exported to shell hooks.
const (
	EnvManifest = "BUILDCOMP_MANIFEST"
	EnvSection  = "BUILDCOMP_SECTION"
	EnvOption   = "BUILDCOMP_OPTION"
	EnvDefault  = "BUILDCOMP_DEFAULT"
)

// shellHook runs a parsed script with the in-process POSIX interpreter. Trimmed
// stdout is the value: empty declines, one line is a string, several lines a list.
type shellHook struct {
	path    string
	file    *syntax.File
	dir     string
	environ []string
}

func compileShellHook(path string, src []byte, m *manifest.Manifest, cfg hookConfig) (Resolver, error) {
	file, err := syntax.NewParser().Parse(bytes.NewReader(src), path)
	if err != nil {
		return nil, err
	}
	return &shellHook{path: path, file: file, dir: m.Dir, environ: cfg.environ}, nil
}

func (h *shellHook) Resolve(ctx context.Context, req *Request) (any, error) {
	env := append(slices.Clone(h.environ),
		EnvManifest+"="+req.Manifest.ID,
		EnvSection+"="+req.Manifest.Section,
		EnvOption+"="+req.Option,
		EnvDefault+"="+formatEnvValue(req.Default()),
	)

	var stdout, stderr bytes.Buffer
	runner, err := interp.New(
		interp.Dir(h.dir),
		interp.Env(expand.ListEnviron(env...)),
		interp.StdIO(nil, &stdout, &stderr),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create interpreter: %w", err)
	}

	if err := runner.Run(ctx, h.file); err != nil {
		var exitStatus interp.ExitStatus
		if errors.As(err, &exitStatus) {
			return nil, fmt.Errorf("shell hook %s exited with status %d: %s", h.path, exitStatus, strings.TrimSpace(stderr.String()))
		}
		return nil, fmt.Errorf("shell hook %s: %w", h.path, err)
	}

	return parseShellOutput(stdout.String()), nil
}

func parseShellOutput(out string) any {
	var lines []any
	for line := range strings.SplitSeq(strings.TrimSpace(out), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	switch len(lines) {
	case 0:
		return nil
	case 1:
		return lines[0]
	default:
		return lines
	}
}

func formatEnvValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case []any:
		parts := make([]string, 0, len(t))
		for _, e := range t {
			parts = append(parts, formatEnvValue(e))
		}
		return strings.Join(parts, "\n")
	default:
		return fmt.Sprint(v)
	}
}
