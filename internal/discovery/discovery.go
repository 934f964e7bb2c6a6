// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/buildcomp/buildcomp/pkg/manifest"
)

// ErrComponentsDirNotFound is returned when the components directory does not exist.
var ErrComponentsDirNotFound = errors.New("components directory not found")

// Result bundles the loaded manifests with diagnostics produced while scanning.
type Result struct {
	// Dir is the absolute components directory.
	Dir string
	// Manifests are the loaded components, ordered by directory name.
	Manifests []*manifest.Manifest
	// Diagnostics lists every skipped entry and dependency problem.
	Diagnostics []Diagnostic
}

// Discover loads one manifest per immediate subdirectory of dir, in directory
// name order. Entries that cannot be loaded are skipped and reported as
// diagnostics; only a missing or unreadable dir is an error.
func Discover(dir string) (*Result, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve components directory %q: %w", dir, err)
	}

	// os.ReadDir returns entries sorted by file name.
	entries, err := os.ReadDir(absDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrComponentsDirNotFound, absDir)
		}
		return nil, fmt.Errorf("failed to list components directory %s: %w", absDir, err)
	}

	res := &Result{Dir: absDir}
	seen := make(map[string]string)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		entryPath := filepath.Join(absDir, entry.Name())

		if !manifest.IsIdentifier(manifest.DeriveID(entry.Name())) {
			res.Diagnostics = append(res.Diagnostics, Diagnostic{
				Severity: SeverityWarning,
				Code:     CodeNameSkipped,
				Message:  fmt.Sprintf("skipping directory %q: name is not a valid component identifier", entry.Name()),
				Path:     entryPath,
			})
			continue
		}

		m, err := manifest.Load(entryPath)
		if err != nil {
			res.Diagnostics = append(res.Diagnostics, loadDiagnostic(entryPath, err))
			continue
		}

		if first, dup := seen[m.ID]; dup {
			res.Diagnostics = append(res.Diagnostics, Diagnostic{
				Severity: SeverityWarning,
				Code:     CodeDuplicateID,
				Message:  fmt.Sprintf("skipping component %q: id already used by %s", m.ID, first),
				Path:     m.Path,
			})
			continue
		}
		seen[m.ID] = m.Path
		res.Manifests = append(res.Manifests, m)
	}

	res.Diagnostics = append(res.Diagnostics, CheckDependencies(res.Manifests)...)
	return res, nil
}

func loadDiagnostic(path string, err error) Diagnostic {
	if errors.Is(err, manifest.ErrManifestNotFound) {
		return Diagnostic{
			Severity: SeverityWarning,
			Code:     CodeManifestMissing,
			Message:  fmt.Sprintf("skipping %s: no manifest file", path),
			Path:     path,
			Cause:    err,
		}
	}
	return Diagnostic{
		Severity: SeverityWarning,
		Code:     CodeManifestSkipped,
		Message:  fmt.Sprintf("skipping invalid component at %s: %v", path, err),
		Path:     path,
		Cause:    err,
	}
}

// IDs returns the ids of the loaded manifests in order.
func (r *Result) IDs() []string {
	ids := make([]string, 0, len(r.Manifests))
	for _, m := range r.Manifests {
		ids = append(ids, m.ID)
	}
	return ids
}
