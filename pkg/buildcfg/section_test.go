// SPDX-License-Identifier: MPL-2.0

package buildcfg

import (
	"slices"
	"testing"
)

func TestSection_MergeAccumulates(t *testing.T) {
	t.Parallel()

	s := NewSection("part", nil)
	s.Merge(map[string]any{"x": []any{1}})
	s.Merge(map[string]any{"x": []any{1}})

	v, ok := s.Get("x")
	if !ok {
		t.Fatal("key x missing")
	}
	if want := []string{"1", "1"}; !slices.Equal(v.Items(), want) {
		t.Errorf("x = %q, want %q", v.Items(), want)
	}
}

func TestSection_SetReplaces(t *testing.T) {
	t.Parallel()

	s := NewSection(SectionBuildout, nil)
	s.Set("eggs", "django")
	s.Set("eggs", []string{"django", "foo"})

	v, _ := s.Get("eggs")
	if want := []string{"django", "foo"}; !slices.Equal(v.Items(), want) {
		t.Errorf("eggs = %q, want %q", v.Items(), want)
	}
	if op := s.Operator("eggs"); op != OpAppend {
		t.Errorf("Operator(eggs) = %q, want %q", op, OpAppend)
	}
	if !slices.Equal(s.Keys(), []string{"eggs"}) {
		t.Errorf("Keys() = %v, want [eggs]", s.Keys())
	}
}

func TestSection_AddPromotes(t *testing.T) {
	t.Parallel()

	s := NewSection("part", nil)
	s.Set("recipe", "a")
	s.Add("recipe", "b")

	v, _ := s.Get("recipe")
	if v.Kind() != KindList {
		t.Errorf("Kind() = %s, want list", v.Kind())
	}
	if want := []string{"a", "b"}; !slices.Equal(v.Items(), want) {
		t.Errorf("recipe = %q, want %q", v.Items(), want)
	}
}

func TestSection_UniqueKeysDedupeOnMerge(t *testing.T) {
	t.Parallel()

	rules := NewRules(DefaultAppendKeys, []string{"eggs"})
	s := NewSection(SectionBuildout, rules)
	s.Merge([]KeyValue{{Key: "eggs", Value: []string{"django", "foo"}}})
	s.Merge([]KeyValue{{Key: "eggs", Value: []string{"foo", "bar"}}})

	v, _ := s.Get("eggs")
	if want := []string{"django", "foo", "bar"}; !slices.Equal(v.Items(), want) {
		t.Errorf("eggs = %q, want %q", v.Items(), want)
	}
}

func TestSection_OperatorFirstWriteWins(t *testing.T) {
	t.Parallel()

	s := NewSection("part", nil)
	s.SetOperator("parts", OpAppend)
	s.Set("parts", "x")

	other := NewSection("part", nil)
	other.Set("parts", "y")
	s.Merge(other)

	if op := s.Operator("parts"); op != OpAppend {
		t.Errorf("Operator(parts) = %q, want %q", op, OpAppend)
	}
	v, _ := s.Get("parts")
	if want := []string{"x", "y"}; !slices.Equal(v.Items(), want) {
		t.Errorf("parts = %q, want %q", v.Items(), want)
	}
}

func TestSection_MergeAdoptsIncomingOperator(t *testing.T) {
	t.Parallel()

	other := NewSection("part", nil)
	other.SetOperator("develop", OpAppend)
	other.Set("develop", "src/app")

	s := NewSection("part", nil)
	s.Merge(other)

	if op := s.Operator("develop"); op != OpAppend {
		t.Errorf("Operator(develop) = %q, want %q", op, OpAppend)
	}
}

func TestSection_MergeMapIsSorted(t *testing.T) {
	t.Parallel()

	s := NewSection("part", nil)
	s.Merge(map[string]any{"zeta": 1, "alpha": 2, "mid": 3})

	if want := []string{"alpha", "mid", "zeta"}; !slices.Equal(s.Keys(), want) {
		t.Errorf("Keys() = %v, want %v", s.Keys(), want)
	}
}

func TestSection_SelfMerge(t *testing.T) {
	t.Parallel()

	s := NewSection("part", nil)
	s.Set("a", "1")
	s.Merge(s)

	v, _ := s.Get("a")
	if want := []string{"1", "1"}; !slices.Equal(v.Items(), want) {
		t.Errorf("a = %q, want %q", v.Items(), want)
	}
}

func TestRoot_MergeFoldsFragments(t *testing.T) {
	t.Parallel()

	first := NewRoot(nil)
	first.Section(SectionBuildout).Set("eggs", "django")

	second := NewRoot(nil)
	second.Section(SectionBuildout).Set("eggs", []string{"django", "foo"})
	second.Section("app").Set("recipe", "zc.recipe.egg")

	root := NewRoot(nil)
	root.Merge(first)
	root.Merge(second)

	v, _ := root.Section(SectionBuildout).Get("eggs")
	if want := []string{"django", "django", "foo"}; !slices.Equal(v.Items(), want) {
		t.Errorf("eggs = %q, want %q", v.Items(), want)
	}
	if want := []string{SectionBuildout, "app"}; !slices.Equal(root.Names(), want) {
		t.Errorf("Names() = %v, want %v", root.Names(), want)
	}

	// The fragments must not share state with the merged root.
	root.Section("app").Add("recipe", "other")
	if v, _ := second.Section("app").Get("recipe"); v.Len() != 1 {
		t.Errorf("fragment mutated through merged root: %q", v.Items())
	}
}

func TestRoot_AssignMerges(t *testing.T) {
	t.Parallel()

	root := NewRoot(nil)
	root.Assign("app", map[string]any{"recipe": "a"})
	root.Assign("app", map[string]any{"recipe": "b"})

	v, _ := root.Section("app").Get("recipe")
	if want := []string{"a", "b"}; !slices.Equal(v.Items(), want) {
		t.Errorf("recipe = %q, want %q", v.Items(), want)
	}
}
