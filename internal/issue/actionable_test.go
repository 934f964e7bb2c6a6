// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"strings"
	"testing"
)

func TestActionableError_Error(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  *ActionableError
		want string
	}{
		{
			name: "operation only",
			err:  &ActionableError{Operation: "collect components"},
			want: "failed to collect components",
		},
		{
			name: "with resource",
			err:  &ActionableError{Operation: "load manifest", Resource: "web/manifest.cue"},
			want: "failed to load manifest: web/manifest.cue",
		},
		{
			name: "with cause",
			err: &ActionableError{
				Operation: "write configuration",
				Resource:  "component.cfg",
				Cause:     errors.New("permission denied"),
			},
			want: "failed to write configuration: component.cfg: permission denied",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestActionableError_ErrorsIs(t *testing.T) {
	t.Parallel()

	sentinel := errors.New("sentinel")
	err := NewErrorContext().WithOperation("collect").Wrap(sentinel).BuildError()
	if !errors.Is(err, sentinel) {
		t.Error("errors.Is should find the wrapped cause")
	}
	var ae *ActionableError
	if !errors.As(err, &ae) {
		t.Fatal("errors.As should find *ActionableError")
	}
}

func TestActionableError_Format(t *testing.T) {
	t.Parallel()

	inner := errors.New("disk full")
	err := &ActionableError{
		Operation:   "write configuration",
		Suggestions: []string{"Free some space", "Use --output-file"},
		Cause:       errors.Join(inner),
	}

	plain := err.Format(false)
	if !strings.Contains(plain, "\n  • Free some space") || !strings.Contains(plain, "\n  • Use --output-file") {
		t.Errorf("Format(false) missing suggestions: %q", plain)
	}
	if strings.Contains(plain, "Error chain") {
		t.Error("Format(false) should not include the error chain")
	}

	verbose := err.Format(true)
	if !strings.Contains(verbose, "Error chain:") || !strings.Contains(verbose, "1. disk full") {
		t.Errorf("Format(true) missing chain: %q", verbose)
	}
}

func TestErrorContext_Build(t *testing.T) {
	t.Parallel()

	if NewErrorContext().WithResource("x").Build() != nil {
		t.Error("Build() without operation should return nil")
	}
	if NewErrorContext().BuildError() != nil {
		t.Error("BuildError() without operation should return nil")
	}

	ae := NewErrorContext().
		WithOperation("order components").
		WithResource("a").
		WithSuggestion("one").
		WithSuggestions("two", "three").
		WithIssue(DependencyCycleId).
		Build()
	if ae == nil {
		t.Fatal("Build() returned nil")
	}
	if len(ae.Suggestions) != 3 || !ae.HasSuggestions() {
		t.Errorf("Suggestions = %v", ae.Suggestions)
	}
	if ae.Issue() == nil || ae.Issue().Id() != DependencyCycleId {
		t.Errorf("Issue() = %v, want dependency cycle entry", ae.Issue())
	}
	if (&ActionableError{Operation: "x"}).Issue() != nil {
		t.Error("Issue() should be nil without an id")
	}
}

func TestWrapWithOperation(t *testing.T) {
	t.Parallel()

	if WrapWithOperation(nil, "x") != nil {
		t.Error("WrapWithOperation(nil) should return nil")
	}
	cause := errors.New("boom")
	err := WrapWithOperation(cause, "render configuration")
	if err.Error() != "failed to render configuration: boom" {
		t.Errorf("Error() = %q", err.Error())
	}
}
