// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/buildcomp/buildcomp/pkg/cueutil"

	"github.com/pelletier/go-toml/v2"
)

const (
	// CUEFileName is probed first.
	CUEFileName = "manifest.cue"
	// JSONFileName is probed second.
	JSONFileName = "manifest.json"
	// TOMLFileName is probed last.
	TOMLFileName = "manifest.toml"
	// HooksDirName is the per-component directory holding option resolvers.
	HooksDirName = "hooks"

	schemaDefinition = "#Manifest"
)

var (
	//go:embed manifest_schema.cue
	manifestSchema []byte

	// FileNames lists manifest file names in probe order.
	FileNames = []string{CUEFileName, JSONFileName, TOMLFileName}

	// ErrManifestNotFound is returned when a directory has no manifest file.
	ErrManifestNotFound = errors.New("manifest file not found")
)

// fileManifest is the on-disk shape shared by every format.
type fileManifest struct {
	ID           string         `json:"id,omitempty"`
	Title        string         `json:"title,omitempty"`
	Section      string         `json:"section,omitempty"`
	Options      []string       `json:"options,omitempty"`
	Defaults     map[string]any `json:"defaults,omitempty"`
	Dependencies []string       `json:"dependencies,omitempty"`
	Disabled     bool           `json:"disabled,omitempty"`
}

// Find returns the first manifest file present in dir.
func Find(dir string) (string, error) {
	for _, name := range FileNames {
		path := filepath.Join(dir, name)
		info, err := os.Stat(path)
		if err == nil && !info.IsDir() {
			return path, nil
		}
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("failed to stat %s: %w", path, err)
		}
	}
	return "", fmt.Errorf("%w in %s", ErrManifestNotFound, dir)
}

// Load reads the manifest of the component directory dir. A missing id is derived
// from the directory name.
func Load(dir string) (*Manifest, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	path, err := Find(absDir)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest at %s: %w", path, err)
	}

	fm, err := decode(data, path)
	if err != nil {
		return nil, err
	}
	if fm.ID == "" {
		fm.ID = DeriveID(filepath.Base(absDir))
	}

	hooks := false
	if info, statErr := os.Stat(filepath.Join(absDir, HooksDirName)); statErr == nil && info.IsDir() {
		hooks = true
	}

	m := fm.toManifest()
	m.Dir = absDir
	m.Path = path
	m.HooksAvailable = hooks

	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Parse decodes manifest content; the format is picked from the base name of path.
// The result has no Dir and, when the content omits it, no ID.
func Parse(data []byte, path string) (*Manifest, error) {
	fm, err := decode(data, path)
	if err != nil {
		return nil, err
	}
	m := fm.toManifest()
	m.Path = path
	return m, nil
}

// Marshal encodes m as manifest.json content.
func Marshal(m *Manifest) ([]byte, error) {
	fm := fileManifest{
		ID:           m.ID,
		Title:        m.Title,
		Section:      m.Section,
		Options:      m.OptionNames(),
		Defaults:     m.DefaultValues(),
		Dependencies: m.DependencyIDs(),
		Disabled:     m.Disabled,
	}
	if fm.Section == fm.ID {
		fm.Section = ""
	}
	data, err := json.MarshalIndent(fm, "", "    ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode manifest %s: %w", m.ID, err)
	}
	return append(data, '\n'), nil
}

func decode(data []byte, path string) (*fileManifest, error) {
	var (
		result *cueutil.ParseResult[fileManifest]
		err    error
	)
	switch filepath.Base(path) {
	case TOMLFileName:
		var raw map[string]any
		if err := toml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrInvalidManifest, path, err)
		}
		result, err = cueutil.DecodeValue[fileManifest](manifestSchema, raw, schemaDefinition, cueutil.WithFilename(path))
	default:
		result, err = cueutil.ParseAndDecode[fileManifest](manifestSchema, data, schemaDefinition, cueutil.WithFilename(path))
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidManifest, err)
	}
	return result.Value, nil
}

func (fm *fileManifest) toManifest() *Manifest {
	return New(fm.ID,
		WithTitle(fm.Title),
		WithSection(fm.Section),
		WithOptions(fm.Options...),
		WithDefaults(fm.Defaults),
		WithDependencies(fm.Dependencies...),
		WithDisabled(fm.Disabled),
	)
}
