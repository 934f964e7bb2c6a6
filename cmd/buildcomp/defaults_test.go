// SPDX-License-Identifier: MPL-2.0

package cmd

import "testing"

func TestFormatDefault(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value any
		want  string
	}{
		{name: "nil", value: nil, want: "nil"},
		{name: "string", value: "django", want: `"django"`},
		{name: "string with quotes", value: `say "hi"`, want: `"say \"hi\""`},
		{name: "int", value: int64(8080), want: "8080"},
		{name: "bool", value: true, want: "true"},
		{name: "list", value: []any{"a", int64(1), nil}, want: `["a", 1, nil]`},
		{name: "string list", value: []string{"x", "y"}, want: `["x", "y"]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := formatDefault(tt.value); got != tt.want {
				t.Errorf("formatDefault(%v) = %s, want %s", tt.value, got, tt.want)
			}
		})
	}
}
