// SPDX-License-Identifier: MPL-2.0

package resolver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/buildcomp/buildcomp/pkg/manifest"
)

// DefaultHookTimeout bounds a single hook invocation.
const DefaultHookTimeout = 10 * time.Second

// HookExtensions lists hook file extensions in lookup order. The first file found
// for an option wins.
var HookExtensions = []string{".expr", ".cel", ".js", ".sh"}

type (
	hookConfig struct {
		timeout time.Duration
		environ []string
	}

	// HookOption configures LoadHooks.
	HookOption func(*hookConfig)

	hookCompiler func(path string, src []byte, m *manifest.Manifest, cfg hookConfig) (Resolver, error)

	// timedResolver bounds the wrapped resolver with a timeout.
	timedResolver struct {
		next    Resolver
		timeout time.Duration
	}
)

var hookCompilers = map[string]hookCompiler{
	".expr": compileExprHook,
	".cel":  compileCELHook,
	".js":   compileJSHook,
	".sh":   compileShellHook,
}

// WithTimeout bounds each hook call; zero or negative disables the bound.
func WithTimeout(d time.Duration) HookOption {
	return func(c *hookConfig) { c.timeout = d }
}

// WithEnviron sets the base environment of shell hooks. Defaults to os.Environ().
func WithEnviron(env []string) HookOption {
	return func(c *hookConfig) { c.environ = slices.Clone(env) }
}

// LoadHooks registers a resolver for every declared option of m that has a hook
// file. It returns how many hooks were registered. Hooks that fail to compile
// are skipped and reported together in the returned error.
func LoadHooks(reg *Registry, m *manifest.Manifest, opts ...HookOption) (int, error) {
	if !m.HooksAvailable || m.Dir == "" {
		return 0, nil
	}

	cfg := hookConfig{timeout: DefaultHookTimeout}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.environ == nil {
		cfg.environ = os.Environ()
	}

	hooksDir := filepath.Join(m.Dir, manifest.HooksDirName)
	var (
		loaded int
		errs   []error
	)
	for _, option := range m.OptionNames() {
		path, ext, ok := findHook(hooksDir, option)
		if !ok {
			continue
		}
		src, err := os.ReadFile(path)
		if err != nil {
			errs = append(errs, fmt.Errorf("failed to read hook %s: %w", path, err))
			continue
		}
		res, err := hookCompilers[ext](path, src, m, cfg)
		if err != nil {
			errs = append(errs, fmt.Errorf("failed to compile hook %s: %w", path, err))
			continue
		}
		if cfg.timeout > 0 {
			res = &timedResolver{next: res, timeout: cfg.timeout}
		}
		reg.Register(m.ID, option, res)
		loaded++
		slog.Debug("registered hook", "manifest", m.ID, "option", option, "path", path)
	}

	return loaded, errors.Join(errs...)
}

func findHook(dir, option string) (path, ext string, ok bool) {
	for _, ext := range HookExtensions {
		path := filepath.Join(dir, option+ext)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, ext, true
		}
	}
	return "", "", false
}

func (t *timedResolver) Resolve(ctx context.Context, req *Request) (any, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.next.Resolve(ctx, req)
}
