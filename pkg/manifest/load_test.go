// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"testing"

	"github.com/buildcomp/buildcomp/pkg/options"
)

const (
	cueManifest = `
id:           "web"
title:        "Web frontend"
section:      "www"
options:      ["port", "eggs"]
defaults:     {port: 8080, eggs: ["django", "foo"]}
dependencies: ["db"]
`
	jsonManifest = `{
    "id": "web",
    "title": "Web frontend",
    "section": "www",
    "options": ["port", "eggs"],
    "defaults": {"port": 8080, "eggs": ["django", "foo"]},
    "dependencies": ["db"]
}`
	tomlManifest = `
id = "web"
title = "Web frontend"
section = "www"
options = ["port", "eggs"]
dependencies = ["db"]

[defaults]
port = 8080
eggs = ["django", "foo"]
`
)

func writeComponent(t *testing.T, name, file, content string) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("failed to create %s: %v", dir, err)
	}
	if err := os.WriteFile(filepath.Join(dir, file), []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", file, err)
	}
	return dir
}

func TestLoad_FormatsDecodeIdentically(t *testing.T) {
	t.Parallel()

	tests := []struct {
		file    string
		content string
	}{
		{CUEFileName, cueManifest},
		{JSONFileName, jsonManifest},
		{TOMLFileName, tomlManifest},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			t.Parallel()
			dir := writeComponent(t, "web", tt.file, tt.content)

			m, err := Load(dir)
			if err != nil {
				t.Fatalf("Load() error: %v", err)
			}
			if m.ID != "web" || m.Title != "Web frontend" || m.Section != "www" {
				t.Errorf("unexpected identity %+v", m)
			}
			if !slices.Equal(m.OptionNames(), []string{"port", "eggs"}) {
				t.Errorf("OptionNames() = %v", m.OptionNames())
			}
			if !slices.Equal(m.DependencyIDs(), []string{"db"}) {
				t.Errorf("DependencyIDs() = %v", m.DependencyIDs())
			}
			want := map[string]any{"port": int64(8080), "eggs": []any{"django", "foo"}}
			if got := options.Normalize(m.DefaultValues()); !reflect.DeepEqual(got, want) {
				t.Errorf("DefaultValues() = %#v, want %#v", got, want)
			}
			if m.Path != filepath.Join(dir, tt.file) {
				t.Errorf("Path = %q", m.Path)
			}
			if m.HooksAvailable {
				t.Error("HooksAvailable should be false without a hooks directory")
			}
		})
	}
}

func TestLoad_FileLookupOrder(t *testing.T) {
	t.Parallel()

	dir := writeComponent(t, "web", JSONFileName, `{"id": "from_json"}`)
	if err := os.WriteFile(filepath.Join(dir, CUEFileName), []byte(`id: "from_cue"`), 0o644); err != nil {
		t.Fatal(err)
	}

	m, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if m.ID != "from_cue" {
		t.Errorf("ID = %q, want from_cue", m.ID)
	}
}

func TestLoad_DerivesIDAndHooks(t *testing.T) {
	t.Parallel()

	dir := writeComponent(t, "My-Service", JSONFileName, `{"options": ["port"]}`)
	if err := os.Mkdir(filepath.Join(dir, HooksDirName), 0o755); err != nil {
		t.Fatal(err)
	}

	m, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if m.ID != "my_service" {
		t.Errorf("ID = %q, want my_service", m.ID)
	}
	if m.Section != "my_service" {
		t.Errorf("Section = %q, want my_service", m.Section)
	}
	if !m.HooksAvailable {
		t.Error("HooksAvailable should be true")
	}
}

func TestLoad_EmptyIDDerivedFromDirectory(t *testing.T) {
	t.Parallel()

	tests := []struct {
		file    string
		content string
	}{
		{CUEFileName, `id: ""`},
		{JSONFileName, `{"id": ""}`},
		{TOMLFileName, `id = ""`},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			t.Parallel()
			dir := writeComponent(t, "cache", tt.file, tt.content)

			m, err := Load(dir)
			if err != nil {
				t.Fatalf("Load() error: %v", err)
			}
			if m.ID != "cache" {
				t.Errorf("ID = %q, want cache", m.ID)
			}
		})
	}
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	t.Run("missing manifest", func(t *testing.T) {
		t.Parallel()
		_, err := Load(t.TempDir())
		if !errors.Is(err, ErrManifestNotFound) {
			t.Errorf("Load() error = %v, want ErrManifestNotFound", err)
		}
	})

	t.Run("schema violation", func(t *testing.T) {
		t.Parallel()
		dir := writeComponent(t, "web", JSONFileName, `{"id": "web", "options": "port"}`)
		_, err := Load(dir)
		if !errors.Is(err, ErrInvalidManifest) {
			t.Errorf("Load() error = %v, want ErrInvalidManifest", err)
		}
	})

	t.Run("unknown field", func(t *testing.T) {
		t.Parallel()
		dir := writeComponent(t, "web", CUEFileName, `id: "web"
hook: "x"`)
		if _, err := Load(dir); !errors.Is(err, ErrInvalidManifest) {
			t.Errorf("Load() error = %v, want ErrInvalidManifest", err)
		}
	})

	t.Run("broken toml", func(t *testing.T) {
		t.Parallel()
		dir := writeComponent(t, "web", TOMLFileName, "id = ")
		if _, err := Load(dir); !errors.Is(err, ErrInvalidManifest) {
			t.Errorf("Load() error = %v, want ErrInvalidManifest", err)
		}
	})

	t.Run("underivable id", func(t *testing.T) {
		t.Parallel()
		dir := writeComponent(t, "1web", JSONFileName, `{}`)
		_, err := Load(dir)
		var idErr *InvalidIDError
		if !errors.As(err, &idErr) {
			t.Errorf("Load() error = %v, want *InvalidIDError", err)
		}
	})
}

func TestMarshal_RoundTrip(t *testing.T) {
	t.Parallel()

	m := New("web", WithOptions("port"), WithDefaults(map[string]any{"port": "8080"}), WithDependencies("db"))
	data, err := Marshal(m)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}

	got, err := Parse(data, JSONFileName)
	if err != nil {
		t.Fatalf("Parse() error: %v\n%s", err, data)
	}
	if got.ID != "web" || got.Section != "web" {
		t.Errorf("unexpected identity %+v", got)
	}
	if !reflect.DeepEqual(got.DefaultValues(), map[string]any{"port": "8080"}) {
		t.Errorf("DefaultValues() = %v", got.DefaultValues())
	}
}
