// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"fmt"

	"github.com/buildcomp/buildcomp/pkg/manifest"
)

// CheckDependencies reports dependencies that collection will ignore: ids that
// were not loaded and components that are disabled. Manifests that are
// themselves disabled are not checked.
func CheckDependencies(manifests []*manifest.Manifest) []Diagnostic {
	byID := make(map[string]*manifest.Manifest, len(manifests))
	for _, m := range manifests {
		if _, ok := byID[m.ID]; !ok {
			byID[m.ID] = m
		}
	}

	var diagnostics []Diagnostic
	for _, m := range manifests {
		if m.Disabled {
			continue
		}
		for _, dep := range m.DependencyIDs() {
			target, ok := byID[dep]
			switch {
			case !ok:
				diagnostics = append(diagnostics, Diagnostic{
					Severity: SeverityWarning,
					Code:     CodeUnknownDependency,
					Message:  fmt.Sprintf("component %q depends on unknown component %q", m.ID, dep),
					Path:     m.Path,
				})
			case target.Disabled:
				diagnostics = append(diagnostics, Diagnostic{
					Severity: SeverityWarning,
					Code:     CodeDisabledDependency,
					Message:  fmt.Sprintf("component %q depends on disabled component %q", m.ID, dep),
					Path:     m.Path,
				})
			}
		}
	}
	return diagnostics
}
