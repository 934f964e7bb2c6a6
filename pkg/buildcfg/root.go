// SPDX-License-Identifier: MPL-2.0

package buildcfg

import "slices"

const (
	// SectionBuildout is always rendered first.
	SectionBuildout = "buildout"
	// SectionVersions is always rendered second.
	SectionVersions = "versions"
	// SectionMetadata is the reserved trailing section that carries process state.
	SectionMetadata = "buildout_component"

	// MetadataOptionsKey holds the encoded options snapshot.
	MetadataOptionsKey = "options"
	// MetadataCreateTimeKey holds the human readable creation timestamp.
	MetadataCreateTimeKey = "create_time"
)

// Root is an ordered collection of sections forming one configuration document.
type Root struct {
	names    []string
	sections map[string]*Section
	rules    *Rules
}

// NewRoot creates an empty document. A nil rules value uses DefaultRules.
func NewRoot(rules *Rules) *Root {
	if rules == nil {
		rules = DefaultRules()
	}
	return &Root{
		sections: make(map[string]*Section),
		rules:    rules,
	}
}

// Rules returns the per-key rules shared by the document's sections.
func (r *Root) Rules() *Rules { return r.rules }

// Section returns the named section, creating and registering an empty one when it
// does not exist yet.
func (r *Root) Section(name string) *Section {
	if s, ok := r.sections[name]; ok {
		return s
	}
	s := NewSection(name, r.rules)
	r.names = append(r.names, name)
	r.sections[name] = s
	return s
}

// Lookup returns the named section without creating it.
func (r *Root) Lookup(name string) (*Section, bool) {
	s, ok := r.sections[name]
	return s, ok
}

// Names returns section names in first-seen order.
func (r *Root) Names() []string { return slices.Clone(r.names) }

// Len returns the number of sections.
func (r *Root) Len() int { return len(r.names) }

// Assign merges content into the named section instead of replacing it.
// content accepts anything Section.Merge accepts.
func (r *Root) Assign(name string, content any) {
	r.Section(name).Merge(content)
}

// Merge folds every section of other into r, in other's order. Sections unknown
// to r are adopted together with their operator tables.
func (r *Root) Merge(other *Root) {
	if other == nil || other == r {
		return
	}
	for _, name := range other.names {
		incoming := other.sections[name]
		if existing, ok := r.sections[name]; ok {
			existing.Merge(incoming)
			continue
		}
		adopted := incoming.Clone()
		adopted.rules = r.rules
		r.names = append(r.names, name)
		r.sections[name] = adopted
	}
}

// Clone returns a deep copy.
func (r *Root) Clone() *Root {
	c := NewRoot(r.rules)
	for _, name := range r.names {
		c.names = append(c.names, name)
		c.sections[name] = r.sections[name].Clone()
	}
	return c
}
