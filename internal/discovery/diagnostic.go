// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"errors"
	"fmt"
)

const (
	// SeverityWarning indicates a recoverable discovery warning.
	SeverityWarning Severity = "warning"
	// SeverityError indicates a non-fatal discovery error diagnostic.
	SeverityError Severity = "error"

	// CodeNameSkipped reports a directory whose name is not an identifier.
	CodeNameSkipped DiagnosticCode = "component_name_skipped"
	// CodeManifestMissing reports a directory without a manifest file.
	CodeManifestMissing DiagnosticCode = "manifest_missing"
	// CodeManifestSkipped reports a manifest that failed to load.
	CodeManifestSkipped DiagnosticCode = "manifest_load_skipped"
	// CodeDuplicateID reports a manifest whose id was already taken.
	CodeDuplicateID DiagnosticCode = "component_duplicate_id"
	// CodeUnknownDependency reports a dependency on an id that was not loaded.
	CodeUnknownDependency DiagnosticCode = "dependency_unknown"
	// CodeDisabledDependency reports a dependency on a disabled component.
	CodeDisabledDependency DiagnosticCode = "dependency_disabled"
	// CodeHookSkipped reports a hook file that could not be loaded.
	CodeHookSkipped DiagnosticCode = "hook_load_skipped"
)

var (
	// ErrInvalidSeverity is returned when a Severity value is not recognized.
	ErrInvalidSeverity = errors.New("invalid diagnostic severity")
	// ErrInvalidDiagnosticCode is returned when a DiagnosticCode value is not recognized.
	ErrInvalidDiagnosticCode = errors.New("invalid diagnostic code")
)

type (
	// Severity represents discovery diagnostic severity.
	Severity string

	// DiagnosticCode is a machine-readable diagnostic identifier.
	DiagnosticCode string

	// Diagnostic represents a structured discovery diagnostic that is returned
	// to callers (rather than written to stderr) for consistent rendering policy.
	Diagnostic struct {
		// Severity is the diagnostic level (warning or error).
		Severity Severity
		// Code is a machine-readable identifier (e.g., "manifest_load_skipped").
		Code DiagnosticCode
		// Message is the human-readable description.
		Message string
		// Path is the file path associated with this diagnostic (optional).
		Path string
		// Cause is the underlying error (optional, for programmatic inspection).
		Cause error
	}
)

// IsValid returns whether the Severity is one of the defined levels,
// and a list of validation errors if it is not.
func (s Severity) IsValid() (bool, []error) {
	switch s {
	case SeverityWarning, SeverityError:
		return true, nil
	default:
		return false, []error{fmt.Errorf("%w: %q", ErrInvalidSeverity, string(s))}
	}
}

// IsValid returns whether the DiagnosticCode is one of the defined codes,
// and a list of validation errors if it is not.
func (c DiagnosticCode) IsValid() (bool, []error) {
	switch c {
	case CodeNameSkipped, CodeManifestMissing, CodeManifestSkipped,
		CodeDuplicateID, CodeUnknownDependency, CodeDisabledDependency, CodeHookSkipped:
		return true, nil
	default:
		return false, []error{fmt.Errorf("%w: %q", ErrInvalidDiagnosticCode, string(c))}
	}
}

// String returns a single-line rendering suitable for logs.
func (d Diagnostic) String() string {
	if d.Path == "" {
		return fmt.Sprintf("%s [%s]: %s", d.Severity, d.Code, d.Message)
	}
	return fmt.Sprintf("%s [%s] %s: %s", d.Severity, d.Code, d.Path, d.Message)
}
