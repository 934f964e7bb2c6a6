// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/buildcomp/buildcomp/pkg/buildcfg"
	"github.com/buildcomp/buildcomp/pkg/resolver"
)

const (
	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"

	// DefaultComponentsDir is relative to the project root.
	DefaultComponentsDir = "buildout/components"
	// DefaultOutputFile is relative to the project root.
	DefaultOutputFile = "buildout/components/component.cfg"

	minIndent = 1
	maxIndent = 16
)

var (
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidRenderConfig is the sentinel error wrapped by InvalidRenderConfigError.
	ErrInvalidRenderConfig = errors.New("invalid render config")
	// ErrInvalidHooksConfig is the sentinel error wrapped by InvalidHooksConfigError.
	ErrInvalidHooksConfig = errors.New("invalid hooks config")
	// ErrInvalidPath is returned when a configured path is whitespace-only.
	ErrInvalidPath = errors.New("invalid path")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	// It wraps ErrInvalidColorScheme for errors.Is() compatibility.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// InvalidRenderConfigError is returned when RenderConfig holds an out-of-range indent.
	InvalidRenderConfigError struct {
		Indent int
	}

	// InvalidHooksConfigError is returned when HooksConfig holds a non-positive timeout.
	InvalidHooksConfigError struct {
		Timeout time.Duration
	}

	// InvalidPathError is returned when a path field is set but blank.
	InvalidPathError struct {
		Field string
		Value string
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It wraps ErrInvalidConfig for errors.Is() compatibility and collects
	// field-level validation errors from all sub-components.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// ComponentsDir holds one subdirectory per component.
		ComponentsDir string `json:"components_dir" mapstructure:"components_dir"`
		// OutputFile is the rendered buildout configuration.
		OutputFile string `json:"output_file" mapstructure:"output_file"`
		// Render configures the output layout
		Render RenderConfig `json:"render" mapstructure:"render"`
		// Merge configures per-key merge rules
		Merge MergeConfig `json:"merge" mapstructure:"merge"`
		// Hooks configures option hooks
		Hooks HooksConfig `json:"hooks" mapstructure:"hooks"`
		// UI configures the user interface
		UI UIConfig `json:"ui" mapstructure:"ui"`
	}

	// RenderConfig configures the output layout.
	RenderConfig struct {
		// Indent is the continuation-line width of multi-line values.
		Indent int `json:"indent" mapstructure:"indent"`
	}

	// MergeConfig lists keys with non-default merge behavior.
	MergeConfig struct {
		// AppendKeys render with "+=".
		AppendKeys []string `json:"append_keys" mapstructure:"append_keys"`
		// UniqueKeys skip values already present when merged.
		UniqueKeys []string `json:"unique_keys" mapstructure:"unique_keys"`
	}

	// HooksConfig configures the per-component option hooks.
	HooksConfig struct {
		// Enabled turns hook loading on or off.
		Enabled bool `json:"enabled" mapstructure:"enabled"`
		// Timeout bounds a single hook evaluation.
		Timeout time.Duration `json:"timeout" mapstructure:"timeout"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		// ColorScheme sets the color scheme
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
		// Verbose enables debug logging
		Verbose bool `json:"verbose" mapstructure:"verbose"`
	}
)

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		ComponentsDir: DefaultComponentsDir,
		OutputFile:    DefaultOutputFile,
		Render: RenderConfig{
			Indent: buildcfg.DefaultIndent,
		},
		Merge: MergeConfig{
			AppendKeys: append([]string(nil), buildcfg.DefaultAppendKeys...),
			UniqueKeys: []string{},
		},
		Hooks: HooksConfig{
			Enabled: true,
			Timeout: resolver.DefaultHookTimeout,
		},
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
			Verbose:     false,
		},
	}
}

// Rules builds the merge rules of the final config.
func (c MergeConfig) Rules() *buildcfg.Rules {
	return buildcfg.NewRules(c.AppendKeys, c.UniqueKeys)
}

// ComponentsPath resolves ComponentsDir against projectRoot unless it is absolute.
func (c *Config) ComponentsPath(projectRoot string) string {
	return resolvePath(projectRoot, c.ComponentsDir)
}

// OutputPath resolves OutputFile against projectRoot unless it is absolute.
func (c *Config) OutputPath(projectRoot string) string {
	return resolvePath(projectRoot, c.OutputFile)
}

func resolvePath(root, path string) string {
	if filepath.IsAbs(path) || root == "" {
		return path
	}
	return filepath.Join(root, path)
}

// IsValid returns whether the Config has valid fields.
// It delegates to RenderConfig.IsValid(), HooksConfig.IsValid() and
// UIConfig.IsValid(); both paths must be non-blank.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if strings.TrimSpace(c.ComponentsDir) == "" {
		errs = append(errs, &InvalidPathError{Field: "components_dir", Value: c.ComponentsDir})
	}
	if strings.TrimSpace(c.OutputFile) == "" {
		errs = append(errs, &InvalidPathError{Field: "output_file", Value: c.OutputFile})
	}
	if valid, fieldErrs := c.Render.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Hooks.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.UI.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	msgs := make([]string, 0, len(e.FieldErrors))
	for _, fe := range e.FieldErrors {
		msgs = append(msgs, fe.Error())
	}
	return fmt.Sprintf("invalid config: %s", strings.Join(msgs, "; "))
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// IsValid returns whether the indent is within range.
func (c RenderConfig) IsValid() (bool, []error) {
	if c.Indent < minIndent || c.Indent > maxIndent {
		return false, []error{&InvalidRenderConfigError{Indent: c.Indent}}
	}
	return true, nil
}

// Error implements the error interface for InvalidRenderConfigError.
func (e *InvalidRenderConfigError) Error() string {
	return fmt.Sprintf("invalid render indent %d (valid: %d-%d)", e.Indent, minIndent, maxIndent)
}

// Unwrap returns ErrInvalidRenderConfig for errors.Is() compatibility.
func (e *InvalidRenderConfigError) Unwrap() error { return ErrInvalidRenderConfig }

// IsValid returns whether the hook timeout is positive.
func (c HooksConfig) IsValid() (bool, []error) {
	if c.Timeout <= 0 {
		return false, []error{&InvalidHooksConfigError{Timeout: c.Timeout}}
	}
	return true, nil
}

// Error implements the error interface for InvalidHooksConfigError.
func (e *InvalidHooksConfigError) Error() string {
	return fmt.Sprintf("invalid hook timeout %s: must be positive", e.Timeout)
}

// Unwrap returns ErrInvalidHooksConfig for errors.Is() compatibility.
func (e *InvalidHooksConfigError) Unwrap() error { return ErrInvalidHooksConfig }

// Error implements the error interface for InvalidPathError.
func (e *InvalidPathError) Error() string {
	return fmt.Sprintf("invalid %s %q: must not be blank", e.Field, e.Value)
}

// Unwrap returns ErrInvalidPath for errors.Is() compatibility.
func (e *InvalidPathError) Unwrap() error { return ErrInvalidPath }

// IsValid returns whether the UIConfig has valid fields.
// It delegates to ColorScheme.IsValid(); bool fields need no validation.
func (c UIConfig) IsValid() (bool, []error) {
	return c.ColorScheme.IsValid()
}

// Error implements the error interface for InvalidColorSchemeError.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidColorSchemeError) Unwrap() error {
	return ErrInvalidColorScheme
}

// String returns the string representation of the ColorScheme.
func (cs ColorScheme) String() string { return string(cs) }

// IsValid returns whether the ColorScheme is one of the defined color schemes,
// and a list of validation errors if it is not.
func (cs ColorScheme) IsValid() (bool, []error) {
	switch cs {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	default:
		return false, []error{&InvalidColorSchemeError{Value: cs}}
	}
}
