// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"errors"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strings"
)

var (
	// ErrInvalidManifest is the sentinel wrapped by every manifest decoding or
	// validation failure.
	ErrInvalidManifest = errors.New("invalid manifest")

	identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
)

type (
	// InvalidIDError is returned when a manifest id is not identifier-safe.
	InvalidIDError struct {
		ID string
	}

	// Manifest describes one component: the options it resolves, their static
	// defaults and the components it must be collected after.
	// Containers are private and only handed out as copies.
	Manifest struct {
		ID       string
		Title    string
		Section  string
		Disabled bool

		// Dir is the component directory.
		Dir string
		// Path is the manifest file the record was loaded from.
		Path string
		// HooksAvailable is set when Dir contains a hooks directory.
		HooksAvailable bool

		options      []string
		defaults     map[string]any
		dependencies []string
	}

	// Option configures a Manifest built with New.
	Option func(*Manifest)
)

// Error implements the error interface.
func (e *InvalidIDError) Error() string {
	if e.ID == "" {
		return "manifest id is empty"
	}
	return fmt.Sprintf("manifest id %q is not a valid identifier", e.ID)
}

// Unwrap returns ErrInvalidManifest for errors.Is() compatibility.
func (e *InvalidIDError) Unwrap() error { return ErrInvalidManifest }

// New builds a manifest in memory. Section and Title default to id.
func New(id string, opts ...Option) *Manifest {
	m := &Manifest{
		ID:       id,
		defaults: make(map[string]any),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.applyDefaults()
	return m
}

// WithTitle sets the human readable title.
func WithTitle(title string) Option {
	return func(m *Manifest) { m.Title = title }
}

// WithSection sets the fragment section name.
func WithSection(section string) Option {
	return func(m *Manifest) { m.Section = section }
}

// WithOptions appends option names in declaration order.
func WithOptions(names ...string) Option {
	return func(m *Manifest) { m.options = append(m.options, names...) }
}

// WithDefaults copies static option defaults.
func WithDefaults(defaults map[string]any) Option {
	return func(m *Manifest) { maps.Copy(m.defaults, defaults) }
}

// WithDependencies appends dependency ids.
func WithDependencies(ids ...string) Option {
	return func(m *Manifest) { m.dependencies = append(m.dependencies, ids...) }
}

// WithDisabled marks the manifest as excluded from collection.
func WithDisabled(disabled bool) Option {
	return func(m *Manifest) { m.Disabled = disabled }
}

// WithDir sets the component directory and whether it carries hooks.
func WithDir(dir string, hooks bool) Option {
	return func(m *Manifest) {
		m.Dir = dir
		m.HooksAvailable = hooks
	}
}

// OptionNames returns the declared options in order.
func (m *Manifest) OptionNames() []string { return slices.Clone(m.options) }

// DefaultValues returns a copy of the static defaults.
func (m *Manifest) DefaultValues() map[string]any { return maps.Clone(m.defaults) }

// Default returns the static default for option.
func (m *Manifest) Default(option string) (any, bool) {
	v, ok := m.defaults[option]
	return v, ok
}

// DependencyIDs returns the declared dependencies in order.
func (m *Manifest) DependencyIDs() []string { return slices.Clone(m.dependencies) }

// Validate checks the identifier fields.
func (m *Manifest) Validate() error {
	if !IsIdentifier(m.ID) {
		return &InvalidIDError{ID: m.ID}
	}
	for _, dep := range m.dependencies {
		if !IsIdentifier(dep) {
			return fmt.Errorf("%w: dependency %q of %s is not a valid identifier", ErrInvalidManifest, dep, m.ID)
		}
	}
	for _, opt := range m.options {
		if opt == "" || strings.ContainsAny(opt, " \t=") {
			return fmt.Errorf("%w: option %q of %s is not a valid name", ErrInvalidManifest, opt, m.ID)
		}
	}
	return nil
}

// String implements fmt.Stringer.
func (m *Manifest) String() string {
	return fmt.Sprintf("Manifest(id=%s, title=%s)", m.ID, m.Title)
}

func (m *Manifest) applyDefaults() {
	if m.Section == "" {
		m.Section = m.ID
	}
	if m.Title == "" {
		m.Title = m.ID
	}
}

// IsIdentifier reports whether s is usable as a component id.
func IsIdentifier(s string) bool {
	return identifierPattern.MatchString(s)
}

// DeriveID turns a directory name into a component id: lower-cased with dashes
// replaced by underscores.
func DeriveID(dirName string) string {
	return strings.ReplaceAll(strings.ToLower(dirName), "-", "_")
}
