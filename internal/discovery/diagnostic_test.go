// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"errors"
	"testing"
)

func TestSeverity_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		severity Severity
		want     bool
		wantErr  bool
	}{
		{SeverityWarning, true, false},
		{SeverityError, true, false},
		{"", false, true},
		{"invalid", false, true},
		{"WARNING", false, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.severity), func(t *testing.T) {
			t.Parallel()
			isValid, errs := tt.severity.IsValid()
			if isValid != tt.want {
				t.Errorf("Severity(%q).IsValid() = %v, want %v", tt.severity, isValid, tt.want)
			}
			if tt.wantErr {
				if len(errs) == 0 {
					t.Fatalf("Severity(%q).IsValid() returned no errors, want error", tt.severity)
				}
				if !errors.Is(errs[0], ErrInvalidSeverity) {
					t.Errorf("error should wrap ErrInvalidSeverity, got: %v", errs[0])
				}
			} else if len(errs) > 0 {
				t.Errorf("Severity(%q).IsValid() returned unexpected errors: %v", tt.severity, errs)
			}
		})
	}
}

func TestDiagnosticCode_IsValid(t *testing.T) {
	t.Parallel()

	validCodes := []DiagnosticCode{
		CodeNameSkipped, CodeManifestMissing, CodeManifestSkipped,
		CodeDuplicateID, CodeUnknownDependency, CodeDisabledDependency, CodeHookSkipped,
	}
	for _, code := range validCodes {
		if ok, errs := code.IsValid(); !ok {
			t.Errorf("DiagnosticCode(%q).IsValid() = false: %v", code, errs)
		}
	}

	ok, errs := DiagnosticCode("bogus").IsValid()
	if ok {
		t.Fatal("DiagnosticCode(bogus).IsValid() = true, want false")
	}
	if len(errs) == 0 || !errors.Is(errs[0], ErrInvalidDiagnosticCode) {
		t.Errorf("errors = %v, want ErrInvalidDiagnosticCode", errs)
	}
}

func TestDiagnostic_String(t *testing.T) {
	t.Parallel()

	d := Diagnostic{Severity: SeverityWarning, Code: CodeManifestMissing, Message: "no manifest", Path: "/c/x"}
	if got, want := d.String(), "warning [manifest_missing] /c/x: no manifest"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	d.Path = ""
	if got, want := d.String(), "warning [manifest_missing]: no manifest"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
