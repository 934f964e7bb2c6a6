// SPDX-License-Identifier: MPL-2.0

package options

import (
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strings"
	"time"
)

// Separator joins a manifest id and an option name into a flat key.
const Separator = "."

// TimeLayout is the text form time values are normalized to.
const TimeLayout = "2006-01-02 15:04:05.000000"

type (
	// Entry is one flat key/value pair.
	Entry struct {
		Key   string
		Value any
	}

	// Store is an ordered set of resolved options.
	// The zero value is not usable; call New.
	Store struct {
		keys    []string
		flat    map[string]any
		groups  []string
		grouped map[string]map[string]any
	}
)

// New creates an empty Store.
func New() *Store {
	return &Store{
		flat:    make(map[string]any),
		grouped: make(map[string]map[string]any),
	}
}

// Key joins a manifest id and option name. An option that already contains the
// separator, or an empty manifest id, yields the option unchanged.
func Key(manifestID, option string) string {
	if manifestID == "" || strings.Contains(option, Separator) {
		return option
	}
	return manifestID + Separator + option
}

// SplitKey splits a flat key at its first separator. Keys without a separator
// belong to the empty manifest id.
func SplitKey(key string) (manifestID, option string) {
	if m, o, ok := strings.Cut(key, Separator); ok {
		return m, o
	}
	return "", key
}

// Put stores value under Key(manifestID, option). The last put wins.
func (s *Store) Put(manifestID, option string, value any) {
	s.Set(Key(manifestID, option), value)
}

// PutAll stores every entry of values for manifestID in sorted key order.
func (s *Store) PutAll(manifestID string, values map[string]any) {
	for _, option := range slices.Sorted(maps.Keys(values)) {
		s.Put(manifestID, option, values[option])
	}
}

// Set stores value under a flat key. A new key is appended; an existing key keeps
// its position.
func (s *Store) Set(key string, value any) {
	value = Normalize(value)
	if _, ok := s.flat[key]; !ok {
		s.keys = append(s.keys, key)
	}
	s.flat[key] = value

	m, o := SplitKey(key)
	group, ok := s.grouped[m]
	if !ok {
		group = make(map[string]any)
		s.grouped[m] = group
		s.groups = append(s.groups, m)
	}
	group[o] = value
}

// Get returns the value under key, or nil.
func (s *Store) Get(key string) any {
	return s.flat[key]
}

// Lookup returns the value under key and whether it is present.
func (s *Store) Lookup(key string) (any, bool) {
	v, ok := s.flat[key]
	return v, ok
}

// Has reports whether key is present.
func (s *Store) Has(key string) bool {
	_, ok := s.flat[key]
	return ok
}

// Delete removes key from both views.
func (s *Store) Delete(key string) {
	if _, ok := s.flat[key]; !ok {
		return
	}
	delete(s.flat, key)
	s.keys = slices.DeleteFunc(s.keys, func(k string) bool { return k == key })

	m, o := SplitKey(key)
	group := s.grouped[m]
	delete(group, o)
	if len(group) == 0 {
		delete(s.grouped, m)
		s.groups = slices.DeleteFunc(s.groups, func(g string) bool { return g == m })
	}
}

// Keys returns flat keys in insertion order.
func (s *Store) Keys() []string { return slices.Clone(s.keys) }

// Len returns the number of flat entries.
func (s *Store) Len() int { return len(s.keys) }

// Entries returns the flat view in insertion order.
func (s *Store) Entries() []Entry {
	out := make([]Entry, 0, len(s.keys))
	for _, k := range s.keys {
		out = append(out, Entry{Key: k, Value: s.flat[k]})
	}
	return out
}

// Flat returns a copy of the flat view.
func (s *Store) Flat() map[string]any {
	return maps.Clone(s.flat)
}

// Groups returns manifest ids in first-seen order.
func (s *Store) Groups() []string { return slices.Clone(s.groups) }

// Group returns a copy of the options stored for manifestID.
func (s *Store) Group(manifestID string) map[string]any {
	return maps.Clone(s.grouped[manifestID])
}

// GroupBy returns a copy of the grouped view.
func (s *Store) GroupBy() map[string]map[string]any {
	out := make(map[string]map[string]any, len(s.grouped))
	for m, group := range s.grouped {
		out[m] = maps.Clone(group)
	}
	return out
}

// Overlay sets every entry of other onto s in other's order.
func (s *Store) Overlay(other *Store) {
	if other == nil || other == s {
		return
	}
	for _, k := range other.keys {
		s.Set(k, other.flat[k])
	}
}

// Clone returns an independent copy.
func (s *Store) Clone() *Store {
	c := New()
	c.Overlay(s)
	return c
}

// Normalize converts a value to the canonical shapes the store holds: nil, string,
// bool, int64, float64, []any and map[string]any. Times become TimeLayout text and
// anything else its fmt representation.
func Normalize(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case string, bool, int64, float64:
		return t
	case int:
		return int64(t)
	case time.Time:
		return t.UTC().Format(TimeLayout)
	case []byte:
		return string(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = Normalize(e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = Normalize(e)
		}
		return out
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return int64(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return rv.Float()
	case reflect.Bool:
		return rv.Bool()
	case reflect.String:
		return rv.String()
	case reflect.Slice, reflect.Array:
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = Normalize(rv.Index(i).Interface())
		}
		return out
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			break
		}
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out[iter.Key().String()] = Normalize(iter.Value().Interface())
		}
		return out
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil
		}
		return Normalize(rv.Elem().Interface())
	}
	return fmt.Sprint(v)
}
