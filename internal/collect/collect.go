// SPDX-License-Identifier: MPL-2.0

package collect

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/buildcomp/buildcomp/internal/dag"
	"github.com/buildcomp/buildcomp/internal/issue"
	"github.com/buildcomp/buildcomp/pkg/buildcfg"
	"github.com/buildcomp/buildcomp/pkg/manifest"
	"github.com/buildcomp/buildcomp/pkg/options"
	"github.com/buildcomp/buildcomp/pkg/resolver"
)

// ErrNoManifests is returned by Collect when there is nothing to collect.
var ErrNoManifests = errors.New("no enabled components to collect")

type (
	// Clock provides the time stamped into the rendered metadata.
	Clock interface {
		Now() time.Time
	}

	systemClock struct{}

	// handlerIndex is implemented by resolvers that can tell whether they hold an
	// explicit handler for an option.
	handlerIndex interface {
		Has(manifestID, option string) bool
	}

	// Option configures a Collector.
	Option func(*Collector)

	// Collector runs the collection pipeline over one set of manifests.
	Collector struct {
		manifests []*manifest.Manifest
		byID      map[string]*manifest.Manifest
		resolver  resolver.Resolver
		snapshot  *options.Store
		overrides *options.Store
		rules     *buildcfg.Rules
		clock     Clock
		logger    *slog.Logger
	}

	// Result is the outcome of one collection run.
	Result struct {
		// Config is the final config every fragment was folded into.
		Config *buildcfg.Root
		// Options holds the resolved options of every collected manifest.
		Options *options.Store
		// Defaults is the layered defaults store the run fell back to.
		Defaults *options.Store
		// Order lists manifest ids in collection order.
		Order []string
		// CreatedAt is the clock reading taken when collection finished.
		CreatedAt time.Time
	}
)

func (systemClock) Now() time.Time { return time.Now() }

// WithResolver sets the resolver consulted for each option.
func WithResolver(r resolver.Resolver) Option {
	return func(c *Collector) { c.resolver = r }
}

// WithSnapshot sets the options recovered from a prior run.
func WithSnapshot(s *options.Store) Option {
	return func(c *Collector) { c.snapshot = s }
}

// WithOverrides sets command-line overrides, applied over every other layer.
func WithOverrides(s *options.Store) Option {
	return func(c *Collector) { c.overrides = s }
}

// WithRules sets the merge rules of the final config and every fragment.
func WithRules(r *buildcfg.Rules) Option {
	return func(c *Collector) { c.rules = r }
}

// WithClock replaces the system clock.
func WithClock(clock Clock) Option {
	return func(c *Collector) { c.clock = clock }
}

// WithLogger replaces slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *Collector) { c.logger = l }
}

// New creates a Collector. When two manifests share an id, the first one wins.
func New(manifests []*manifest.Manifest, opts ...Option) *Collector {
	c := &Collector{
		byID:      make(map[string]*manifest.Manifest, len(manifests)),
		snapshot:  options.New(),
		overrides: options.New(),
		rules:     buildcfg.DefaultRules(),
		clock:     systemClock{},
		logger:    slog.Default(),
	}
	for _, m := range manifests {
		if m == nil {
			continue
		}
		if _, dup := c.byID[m.ID]; dup {
			continue
		}
		c.byID[m.ID] = m
		c.manifests = append(c.manifests, m)
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BuildDefaults layers manifest defaults, then the snapshot, then overrides.
// Every manifest contributes, disabled ones included.
func BuildDefaults(manifests []*manifest.Manifest, snapshot, overrides *options.Store) *options.Store {
	defaults := options.New()
	for _, m := range manifests {
		if m == nil {
			continue
		}
		defaults.PutAll(m.ID, m.DefaultValues())
	}
	defaults.Overlay(snapshot)
	defaults.Overlay(overrides)
	return defaults
}

// Defaults returns the layered defaults of the collector's manifests.
func (c *Collector) Defaults() *options.Store {
	return BuildDefaults(c.manifests, c.snapshot, c.overrides)
}

// Order returns the enabled manifest ids, every one after its dependencies.
// Unknown and disabled dependencies are ignored.
func (c *Collector) Order() ([]string, error) {
	g := dag.New()
	for _, m := range c.manifests {
		if !m.Disabled {
			g.AddNode(m.ID)
		}
	}
	for _, m := range c.manifests {
		if m.Disabled {
			continue
		}
		for _, dep := range m.DependencyIDs() {
			if !g.HasNode(dep) {
				continue
			}
			g.AddEdge(dep, m.ID)
		}
	}

	order, err := g.Order()
	if err != nil {
		var cycleErr *dag.CycleError
		if errors.As(err, &cycleErr) {
			return nil, issue.NewErrorContext().
				WithOperation("order components").
				WithResource(strings.Join(cycleErr.Cycle, " -> ")).
				WithSuggestions(
					"Remove one of the dependencies listed in the cycle",
					"Run 'buildcomp order' after editing the manifests to check the result",
				).
				WithIssue(issue.DependencyCycleId).
				Wrap(err).
				BuildError()
		}
		return nil, err
	}
	return order, nil
}

// Collect resolves every enabled manifest in dependency order and folds its
// fragment into the final config.
func (c *Collector) Collect(ctx context.Context) (*Result, error) {
	order, err := c.Order()
	if err != nil {
		return nil, err
	}
	if len(order) == 0 {
		return nil, ErrNoManifests
	}

	res := &Result{
		Config:   buildcfg.NewRoot(c.rules),
		Options:  options.New(),
		Defaults: c.Defaults(),
		Order:    order,
	}

	for _, id := range order {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		m := c.byID[id]
		fragment := buildcfg.NewRoot(c.rules)
		resolved := c.collectOptions(ctx, m, fragment, res)

		res.Config.Merge(fragment)
		for _, entry := range resolved.Entries() {
			res.Options.Set(entry.Key, entry.Value)
		}
		c.logger.Debug("component collected", "component", id, "options", resolved.Len(), "sections", fragment.Len())
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res.CreatedAt = c.clock.Now()
	return res, nil
}

// collectOptions resolves the options of m in declaration order. The returned
// store holds only m's contribution.
func (c *Collector) collectOptions(ctx context.Context, m *manifest.Manifest, fragment *buildcfg.Root, res *Result) *options.Store {
	resolved := options.New()
	for _, opt := range m.OptionNames() {
		key := options.Key(m.ID, opt)

		value, ok := c.resolve(ctx, &resolver.Request{
			Manifest:  m,
			Option:    opt,
			Fragment:  fragment,
			Defaults:  res.Defaults.Group(m.ID),
			Collected: c.collected(res.Options, resolved),
			Now:       c.clock.Now(),
		})
		if !ok {
			resolved.Set(key, res.Defaults.Get(key))
			continue
		}

		if mapping, isMap := options.Normalize(value).(map[string]any); isMap {
			resolved.PutAll(m.ID, mapping)
			continue
		}
		resolved.Set(key, value)
	}

	// Overrides win over resolver results too.
	for _, entry := range c.overrides.Entries() {
		owner, opt := options.SplitKey(entry.Key)
		if owner != m.ID {
			continue
		}
		if resolved.Has(entry.Key) || slices.Contains(m.OptionNames(), opt) {
			resolved.Set(entry.Key, entry.Value)
		}
	}
	return resolved
}

// resolve asks the resolver for one option. It reports false when the caller
// should fall back to the layered defaults.
func (c *Collector) resolve(ctx context.Context, req *resolver.Request) (any, bool) {
	if c.resolver == nil {
		return nil, false
	}
	if idx, ok := c.resolver.(handlerIndex); ok && !req.Manifest.HooksAvailable && !idx.Has(req.Manifest.ID, req.Option) {
		return nil, false
	}

	value, err := c.resolver.Resolve(ctx, req)
	switch {
	case errors.Is(err, resolver.ErrUnavailable):
		c.logger.Debug("no resolver for option, using defaults", "option", req.Key())
		return nil, false
	case err != nil:
		c.logger.Warn("resolver failed, using defaults", "option", req.Key(), "error", err)
		return nil, false
	case value == nil:
		return nil, false
	}
	return value, true
}

func (c *Collector) collected(done, current *options.Store) *options.Store {
	view := done.Clone()
	view.Overlay(current)
	return view
}

// Snapshot encodes the resolved options for the metadata section.
func (r *Result) Snapshot() (string, error) {
	return options.EncodeSnapshot(r.Options)
}

// Render writes the final config followed by the metadata section.
func (r *Result) Render(w io.Writer, indent int) error {
	snapshot, err := r.Snapshot()
	if err != nil {
		return err
	}
	return buildcfg.Render(w, r.Config, buildcfg.RenderOptions{
		Indent:   indent,
		Metadata: buildcfg.NewMetadata(snapshot, r.CreatedAt),
	})
}
