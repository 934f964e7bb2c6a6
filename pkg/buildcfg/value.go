// SPDX-License-Identifier: MPL-2.0

package buildcfg

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

const (
	// KindScalar is a single inline value.
	KindScalar Kind = iota
	// KindList is an ordered, possibly multi-line value.
	KindList
	// KindComment renders as a "# text" line value.
	KindComment
)

// timeLayout matches the text form used for timestamps inside rendered files.
const timeLayout = "2006-01-02 15:04:05.000000"

type (
	// Kind tags the shape of a Value.
	Kind int

	// Comment is a value that renders as a comment rather than as data.
	Comment string

	// Value is the tagged union stored under a Section key.
	// Items hold the rendered text of each element; a scalar has exactly one item.
	Value struct {
		kind   Kind
		items  []string
		unique bool
	}
)

// String returns a readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindList:
		return "list"
	case KindComment:
		return "comment"
	default:
		return "unknown"
	}
}

// Scalar builds a single-valued Value.
func Scalar(v any) Value {
	return Value{kind: KindScalar, items: []string{formatItem(v)}}
}

// List builds a list Value from the given elements.
func List(elems ...any) Value {
	items := make([]string, 0, len(elems))
	for _, e := range elems {
		items = append(items, formatItem(e))
	}
	return Value{kind: KindList, items: items}
}

// UniqueList builds a list Value that skips elements already present when merged into.
func UniqueList(elems ...any) Value {
	v := List(elems...)
	v.unique = true
	v.items = dedupe(v.items)
	return v
}

// NewComment builds a comment Value.
func NewComment(text string) Value {
	return Value{kind: KindComment, items: []string{Comment(text).render()}}
}

// ValueOf coerces an arbitrary Go value into a Value.
// String and interface slices become lists, everything else a scalar.
func ValueOf(v any) Value {
	switch t := v.(type) {
	case Value:
		return t.Clone()
	case *Value:
		if t == nil {
			return List()
		}
		return t.Clone()
	case Comment:
		return NewComment(string(t))
	case []string:
		elems := make([]any, len(t))
		for i, s := range t {
			elems[i] = s
		}
		return List(elems...)
	case []any:
		return List(t...)
	default:
		return Scalar(v)
	}
}

// Kind reports the value's shape.
func (v Value) Kind() Kind { return v.kind }

// Items returns a copy of the rendered elements.
func (v Value) Items() []string { return slices.Clone(v.items) }

// Len returns the number of elements.
func (v Value) Len() int { return len(v.items) }

// Unique reports whether the value rejects duplicate elements on merge.
func (v Value) Unique() bool { return v.unique }

// Clone returns an independent copy.
func (v Value) Clone() Value {
	return Value{kind: v.kind, items: slices.Clone(v.items), unique: v.unique}
}

// Append accumulates other into v. A scalar target is promoted to a list first.
// When v is unique, elements already present are skipped.
func (v *Value) Append(other Value) {
	if v.kind != KindList {
		v.kind = KindList
	}
	for _, item := range other.items {
		if v.unique && slices.Contains(v.items, item) {
			continue
		}
		v.items = append(v.items, item)
	}
}

// Equal reports whether both values have the same kind, items and flags.
func (v Value) Equal(other Value) bool {
	return v.kind == other.kind && v.unique == other.unique && slices.Equal(v.items, other.items)
}

func (c Comment) render() string {
	return "# " + strings.TrimSpace(string(c))
}

// formatItem renders a single element the way it appears in the output file.
func formatItem(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case Comment:
		return t.render()
	case time.Time:
		return t.UTC().Format(timeLayout)
	case fmt.Stringer:
		return strings.TrimSpace(t.String())
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

func dedupe(items []string) []string {
	out := items[:0]
	for _, item := range items {
		if !slices.Contains(out, item) {
			out = append(out, item)
		}
	}
	return out
}
