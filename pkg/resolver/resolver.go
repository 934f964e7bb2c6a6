// SPDX-License-Identifier: MPL-2.0

package resolver

import (
	"context"
	"errors"
	"time"

	"github.com/buildcomp/buildcomp/pkg/buildcfg"
	"github.com/buildcomp/buildcomp/pkg/manifest"
	"github.com/buildcomp/buildcomp/pkg/options"
)

// ErrUnavailable is returned when no resolver handles an option.
var ErrUnavailable = errors.New("no resolver available")

type (
	// Request carries everything a resolver may read or contribute to.
	Request struct {
		Manifest *manifest.Manifest
		Option   string
		// Fragment is the manifest's private config fragment. Resolvers may add
		// sections and keys to it; it is folded into the final config afterwards.
		Fragment *buildcfg.Root
		// Defaults is the manifest's layered defaults, keyed by option name.
		Defaults map[string]any
		// Collected is a copy of the options resolved so far.
		Collected *options.Store
		Now       time.Time
	}

	// Resolver produces the value of one option. A nil value with a nil error
	// declines and lets the caller fall back to defaults.
	Resolver interface {
		Resolve(ctx context.Context, req *Request) (any, error)
	}

	// Func adapts a function to Resolver.
	Func func(ctx context.Context, req *Request) (any, error)

	registryKey struct {
		manifestID string
		option     string
	}

	// Registry dispatches requests by manifest id and option name.
	Registry struct {
		handlers map[registryKey]Resolver
	}
)

// Resolve calls f.
func (f Func) Resolve(ctx context.Context, req *Request) (any, error) {
	return f(ctx, req)
}

// Key returns the flat options key of the requested option.
func (r *Request) Key() string {
	return options.Key(r.Manifest.ID, r.Option)
}

// Default returns the layered default of the requested option.
func (r *Request) Default() any {
	return r.Defaults[r.Option]
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[registryKey]Resolver)}
}

// Register installs res for one option, replacing any earlier handler.
func (r *Registry) Register(manifestID, option string, res Resolver) {
	r.handlers[registryKey{manifestID, option}] = res
}

// Has reports whether a handler exists for the option.
func (r *Registry) Has(manifestID, option string) bool {
	_, ok := r.handlers[registryKey{manifestID, option}]
	return ok
}

// Len returns the number of registered handlers.
func (r *Registry) Len() int { return len(r.handlers) }

// Resolve dispatches req to its registered handler, or returns ErrUnavailable.
func (r *Registry) Resolve(ctx context.Context, req *Request) (any, error) {
	res, ok := r.handlers[registryKey{req.Manifest.ID, req.Option}]
	if !ok {
		return nil, ErrUnavailable
	}
	return res.Resolve(ctx, req)
}

// hookEnv is the variable set shared by the expression hooks.
func hookEnv(req *Request) map[string]any {
	collected := map[string]any{}
	if req.Collected != nil {
		collected = req.Collected.Flat()
	}
	defaults := req.Defaults
	if defaults == nil {
		defaults = map[string]any{}
	}
	return map[string]any{
		"manifest": req.Manifest.ID,
		"section":  req.Manifest.Section,
		"option":   req.Option,
		"fallback": req.Default(),
		"defaults": defaults,
		"options":  collected,
		"now":      req.Now,
	}
}
