// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/buildcomp/buildcomp/pkg/buildcfg"
)

func TestColorScheme_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value ColorScheme
		want  bool
	}{
		{ColorSchemeAuto, true},
		{ColorSchemeDark, true},
		{ColorSchemeLight, true},
		{"", false},
		{"Dark", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.value), func(t *testing.T) {
			t.Parallel()
			valid, errs := tt.value.IsValid()
			if valid != tt.want {
				t.Errorf("ColorScheme(%q).IsValid() = %v, want %v", tt.value, valid, tt.want)
			}
			if !tt.want && (len(errs) == 0 || !errors.Is(errs[0], ErrInvalidColorScheme)) {
				t.Errorf("errors = %v, want ErrInvalidColorScheme", errs)
			}
		})
	}
}

func TestConfig_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		mutate   func(*Config)
		wantErrs []error
	}{
		{"defaults", func(*Config) {}, nil},
		{"blank components dir", func(c *Config) { c.ComponentsDir = "  " }, []error{ErrInvalidPath}},
		{"indent too large", func(c *Config) { c.Render.Indent = 17 }, []error{ErrInvalidRenderConfig}},
		{"zero timeout", func(c *Config) { c.Hooks.Timeout = 0 }, []error{ErrInvalidHooksConfig}},
		{
			"several fields",
			func(c *Config) {
				c.OutputFile = ""
				c.UI.ColorScheme = "neon"
			},
			[]error{ErrInvalidPath, ErrInvalidColorScheme},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := DefaultConfig()
			tt.mutate(cfg)
			valid, errs := cfg.IsValid()
			if valid != (len(tt.wantErrs) == 0) {
				t.Fatalf("IsValid() = %v, errs = %v", valid, errs)
			}
			if valid {
				return
			}

			var cfgErr *InvalidConfigError
			if !errors.As(errs[0], &cfgErr) {
				t.Fatalf("expected *InvalidConfigError, got %T", errs[0])
			}
			if !errors.Is(errs[0], ErrInvalidConfig) {
				t.Error("error should wrap ErrInvalidConfig")
			}
			if len(cfgErr.FieldErrors) != len(tt.wantErrs) {
				t.Fatalf("FieldErrors = %v, want %d entries", cfgErr.FieldErrors, len(tt.wantErrs))
			}
			for i, want := range tt.wantErrs {
				if !errors.Is(cfgErr.FieldErrors[i], want) {
					t.Errorf("FieldErrors[%d] = %v, want %v", i, cfgErr.FieldErrors[i], want)
				}
			}
		})
	}
}

func TestConfig_Paths(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	root := filepath.FromSlash("/srv/project")
	if got, want := cfg.ComponentsPath(root), filepath.Join(root, "buildout", "components"); got != want {
		t.Errorf("ComponentsPath() = %q, want %q", got, want)
	}

	abs := filepath.Join(t.TempDir(), "out.cfg")
	cfg.OutputFile = abs
	if got := cfg.OutputPath(root); got != abs {
		t.Errorf("OutputPath() = %q, want %q", got, abs)
	}
	if got := cfg.ComponentsPath(""); got != DefaultComponentsDir {
		t.Errorf("ComponentsPath(\"\") = %q", got)
	}
}

func TestMergeConfig_Rules(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Merge.UniqueKeys = []string{"parts"}

	root := buildcfg.NewRoot(cfg.Merge.Rules())
	s := root.Section(buildcfg.SectionBuildout)
	s.Add("parts", "app")
	s.Add("parts", "app")
	s.Add("eggs", "django")

	if v, _ := s.Get("parts"); v.Len() != 1 {
		t.Errorf("parts = %v, want one item", v.Items())
	}
	if got := s.Operator("eggs"); got != buildcfg.OpAppend {
		t.Errorf("Operator(eggs) = %q, want +=", got)
	}
	if got := s.Operator("parts"); got != buildcfg.OpAssign {
		t.Errorf("Operator(parts) = %q, want =", got)
	}
}
