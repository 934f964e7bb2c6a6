// SPDX-License-Identifier: MPL-2.0

package options

import (
	"reflect"
	"slices"
	"testing"
	"time"
)

func TestStore_PutLastWins(t *testing.T) {
	t.Parallel()

	s := New()
	s.Put("foo", "bar", 1)
	s.Put("foo", "bar", 2)

	if s.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", s.Len())
	}
	if got := s.Get("foo.bar"); got != int64(2) {
		t.Errorf("Get(foo.bar) = %#v, want int64(2)", got)
	}
	want := map[string]map[string]any{"foo": {"bar": int64(2)}}
	if got := s.GroupBy(); !reflect.DeepEqual(got, want) {
		t.Errorf("GroupBy() = %v, want %v", got, want)
	}
}

func TestKeyAndSplitKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		manifest, option string
		key              string
		splitManifest    string
		splitOption      string
	}{
		{"foo", "bar", "foo.bar", "foo", "bar"},
		{"foo", "other.bar", "other.bar", "other", "bar"},
		{"", "loose", "loose", "", "loose"},
		{"a", "b.c.d", "b.c.d", "b", "c.d"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Parallel()
			if got := Key(tt.manifest, tt.option); got != tt.key {
				t.Errorf("Key(%q, %q) = %q, want %q", tt.manifest, tt.option, got, tt.key)
			}
			m, o := SplitKey(tt.key)
			if m != tt.splitManifest || o != tt.splitOption {
				t.Errorf("SplitKey(%q) = (%q, %q), want (%q, %q)", tt.key, m, o, tt.splitManifest, tt.splitOption)
			}
		})
	}
}

func TestStore_KeysWithoutSeparatorGroupUnderEmpty(t *testing.T) {
	t.Parallel()

	s := New()
	s.Set("loose", "x")
	s.Put("app", "port", 80)

	if got := s.Group(""); !reflect.DeepEqual(got, map[string]any{"loose": "x"}) {
		t.Errorf("Group(\"\") = %v", got)
	}
	if want := []string{"", "app"}; !slices.Equal(s.Groups(), want) {
		t.Errorf("Groups() = %q, want %q", s.Groups(), want)
	}
}

func TestStore_PreservesInsertionOrder(t *testing.T) {
	t.Parallel()

	s := New()
	s.Put("b", "x", 1)
	s.Put("a", "y", 2)
	s.Put("b", "x", 3)

	if want := []string{"b.x", "a.y"}; !slices.Equal(s.Keys(), want) {
		t.Errorf("Keys() = %v, want %v", s.Keys(), want)
	}
}

func TestStore_Delete(t *testing.T) {
	t.Parallel()

	s := New()
	s.Put("app", "a", 1)
	s.Put("app", "b", 2)
	s.Delete("app.a")
	s.Delete("missing")

	if s.Has("app.a") {
		t.Error("app.a still present")
	}
	if got := s.Group("app"); !reflect.DeepEqual(got, map[string]any{"b": int64(2)}) {
		t.Errorf("Group(app) = %v", got)
	}

	s.Delete("app.b")
	if len(s.Groups()) != 0 {
		t.Errorf("Groups() = %v, want empty", s.Groups())
	}
}

func TestStore_OverlayAndClone(t *testing.T) {
	t.Parallel()

	base := New()
	base.Put("app", "x", 1)
	base.Put("app", "y", 1)

	top := New()
	top.Put("app", "x", 2)
	top.Put("db", "z", 3)

	merged := base.Clone()
	merged.Overlay(top)

	if base.Get("app.x") != int64(1) {
		t.Error("Clone shares state with the original")
	}
	want := []Entry{
		{Key: "app.x", Value: int64(2)},
		{Key: "app.y", Value: int64(1)},
		{Key: "db.z", Value: int64(3)},
	}
	if got := merged.Entries(); !reflect.DeepEqual(got, want) {
		t.Errorf("Entries() = %v, want %v", got, want)
	}
}

func TestStore_PutAllSorted(t *testing.T) {
	t.Parallel()

	s := New()
	s.PutAll("app", map[string]any{"z": 1, "a": 2})

	if want := []string{"app.a", "app.z"}; !slices.Equal(s.Keys(), want) {
		t.Errorf("Keys() = %v, want %v", s.Keys(), want)
	}
}

type port uint16

func TestNormalize(t *testing.T) {
	t.Parallel()

	name := "ptr"
	tests := []struct {
		name string
		in   any
		want any
	}{
		{"int", 3, int64(3)},
		{"int32", int32(3), int64(3)},
		{"named uint", port(8080), int64(8080)},
		{"float32", float32(0.5), 0.5},
		{"string slice", []string{"a", "b"}, []any{"a", "b"}},
		{"int slice", []int{1, 2}, []any{int64(1), int64(2)}},
		{"typed map", map[string]int{"a": 1}, map[string]any{"a": int64(1)}},
		{"nested", []any{map[string]any{"k": []string{"v"}}}, []any{map[string]any{"k": []any{"v"}}}},
		{"pointer", &name, "ptr"},
		{"nil pointer", (*string)(nil), nil},
		{"time", time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC), "2026-01-02 03:04:05.000000"},
		{"bytes", []byte("raw"), "raw"},
		{"struct", struct{ A int }{1}, "{1}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Normalize(tt.in); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Normalize(%#v) = %#v, want %#v", tt.in, got, tt.want)
			}
		})
	}
}
