// SPDX-License-Identifier: MPL-2.0

package buildcfg

import (
	"slices"
	"testing"
	"time"
)

func TestValueOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		in    any
		kind  Kind
		items []string
	}{
		{"string", "  django ", KindScalar, []string{"django"}},
		{"int", 42, KindScalar, []string{"42"}},
		{"bool", true, KindScalar, []string{"true"}},
		{"nil", nil, KindScalar, []string{""}},
		{"string slice", []string{"a", "b"}, KindList, []string{"a", "b"}},
		{"any slice", []any{"a", 1, 2.5}, KindList, []string{"a", "1", "2.5"}},
		{"comment", Comment("generated"), KindComment, []string{"# generated"}},
		{"time", time.Date(2026, 1, 2, 3, 4, 5, 123456000, time.UTC), KindScalar, []string{"2026-01-02 03:04:05.123456"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			v := ValueOf(tt.in)
			if v.Kind() != tt.kind {
				t.Errorf("Kind() = %s, want %s", v.Kind(), tt.kind)
			}
			if !slices.Equal(v.Items(), tt.items) {
				t.Errorf("Items() = %q, want %q", v.Items(), tt.items)
			}
		})
	}
}

func TestValue_AppendPromotesScalar(t *testing.T) {
	t.Parallel()

	v := Scalar("django")
	v.Append(List("foo", "bar"))

	if v.Kind() != KindList {
		t.Errorf("Kind() = %s, want list", v.Kind())
	}
	if want := []string{"django", "foo", "bar"}; !slices.Equal(v.Items(), want) {
		t.Errorf("Items() = %q, want %q", v.Items(), want)
	}
}

func TestValue_AppendKeepsDuplicates(t *testing.T) {
	t.Parallel()

	v := List("1")
	v.Append(List("1"))

	if want := []string{"1", "1"}; !slices.Equal(v.Items(), want) {
		t.Errorf("Items() = %q, want %q", v.Items(), want)
	}
}

func TestUniqueList_SkipsDuplicates(t *testing.T) {
	t.Parallel()

	v := UniqueList("a", "b", "a")
	v.Append(List("b", "c"))

	if want := []string{"a", "b", "c"}; !slices.Equal(v.Items(), want) {
		t.Errorf("Items() = %q, want %q", v.Items(), want)
	}
	if !v.Unique() {
		t.Error("Unique() = false, want true")
	}
}

func TestValue_CloneIsIndependent(t *testing.T) {
	t.Parallel()

	orig := List("a")
	c := orig.Clone()
	c.Append(List("b"))

	if orig.Len() != 1 {
		t.Errorf("original mutated: %q", orig.Items())
	}
	if orig.Equal(c) {
		t.Error("clone should differ after append")
	}
}

func TestKind_String(t *testing.T) {
	t.Parallel()

	if got := Kind(99).String(); got != "unknown" {
		t.Errorf("Kind(99).String() = %q, want unknown", got)
	}
}
