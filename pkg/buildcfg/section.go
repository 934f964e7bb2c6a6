// SPDX-License-Identifier: MPL-2.0

package buildcfg

import (
	"maps"
	"slices"
)

const (
	// OpAssign is the default "key = value" operator.
	OpAssign Operator = "="
	// OpAppend renders "key += value", extending a value inherited from an extended file.
	OpAppend Operator = "+="
)

type (
	// Operator combines a key with the value it inherits from extended configuration.
	Operator string

	// KeyValue is one ordered entry used to merge literal content into a Section.
	KeyValue struct {
		Key   string
		Value any
	}

	// Rules decides per-key defaults shared by every section of a Root.
	Rules struct {
		appendKeys []string
		uniqueKeys []string
	}

	// Section is one named, ordered, multi-valued block of a configuration document.
	// Every key carries exactly one operator for the section's lifetime.
	Section struct {
		name      string
		keys      []string
		values    map[string]*Value
		operators map[string]Operator
		rules     *Rules
	}
)

// DefaultAppendKeys lists keys that conventionally extend inherited values.
var DefaultAppendKeys = []string{"eggs"}

// IsValid reports whether the operator is one of the supported forms.
func (o Operator) IsValid() bool {
	return o == OpAssign || o == OpAppend
}

// NewRules builds per-key rules. Nil slices mean "none".
func NewRules(appendKeys, uniqueKeys []string) *Rules {
	return &Rules{
		appendKeys: slices.Clone(appendKeys),
		uniqueKeys: slices.Clone(uniqueKeys),
	}
}

// DefaultRules returns rules with DefaultAppendKeys and no unique keys.
func DefaultRules() *Rules {
	return NewRules(DefaultAppendKeys, nil)
}

func (r *Rules) operatorFor(key string) Operator {
	if r != nil && slices.Contains(r.appendKeys, key) {
		return OpAppend
	}
	return OpAssign
}

func (r *Rules) uniqueFor(key string) bool {
	return r != nil && slices.Contains(r.uniqueKeys, key)
}

// NewSection creates an empty section. A nil rules value uses DefaultRules.
func NewSection(name string, rules *Rules) *Section {
	if rules == nil {
		rules = DefaultRules()
	}
	return &Section{
		name:      name,
		values:    make(map[string]*Value),
		operators: make(map[string]Operator),
		rules:     rules,
	}
}

// Name returns the section header name.
func (s *Section) Name() string { return s.name }

// Keys returns keys in first-insertion order.
func (s *Section) Keys() []string { return slices.Clone(s.keys) }

// Len returns the number of keys.
func (s *Section) Len() int { return len(s.keys) }

// Get returns a copy of the value stored under key.
func (s *Section) Get(key string) (Value, bool) {
	v, ok := s.values[key]
	if !ok {
		return Value{}, false
	}
	return v.Clone(), true
}

// Has reports whether key is present.
func (s *Section) Has(key string) bool {
	_, ok := s.values[key]
	return ok
}

// Operator returns the operator recorded for key, "=" when none is recorded.
func (s *Section) Operator(key string) Operator {
	if op, ok := s.operators[key]; ok {
		return op
	}
	return OpAssign
}

// SetOperator explicitly overrides the operator of key, whether or not the key
// holds a value yet.
func (s *Section) SetOperator(key string, op Operator) {
	s.operators[key] = op
}

// Set replaces the value under key. The key keeps its position and operator if it
// already exists.
func (s *Section) Set(key string, v any) {
	val := ValueOf(v)
	if s.rules.uniqueFor(key) {
		val.unique = true
		val.items = dedupe(val.items)
	}
	s.ensureKey(key, s.rules.operatorFor(key))
	s.values[key] = &val
}

// Add accumulates v into key: an existing value is promoted to a list and v is
// appended to it.
func (s *Section) Add(key string, v any) {
	s.appendValue(key, ValueOf(v), s.rules.operatorFor(key))
}

// Merge folds other into s. other may be a *Section, a map[string]any or a
// []KeyValue; any other type is ignored. Incoming values are always appended,
// never substituted, and existing operators are left untouched.
func (s *Section) Merge(other any) {
	switch o := other.(type) {
	case *Section:
		if o == nil {
			return
		}
		if o == s {
			o = s.Clone()
		}
		for _, key := range o.keys {
			s.appendValue(key, *o.values[key], o.Operator(key))
		}
	case map[string]any:
		for _, key := range slices.Sorted(maps.Keys(o)) {
			s.appendValue(key, ValueOf(o[key]), s.rules.operatorFor(key))
		}
	case []KeyValue:
		for _, kv := range o {
			s.appendValue(kv.Key, ValueOf(kv.Value), s.rules.operatorFor(kv.Key))
		}
	}
}

// Clone returns a deep copy sharing only the rules.
func (s *Section) Clone() *Section {
	c := NewSection(s.name, s.rules)
	c.keys = slices.Clone(s.keys)
	for k, v := range s.values {
		cv := v.Clone()
		c.values[k] = &cv
	}
	maps.Copy(c.operators, s.operators)
	return c
}

func (s *Section) appendValue(key string, incoming Value, op Operator) {
	created := s.ensureKey(key, op)
	slot := s.values[key]
	if created {
		slot.unique = incoming.unique || s.rules.uniqueFor(key)
	}
	slot.Append(incoming)
}

// ensureKey creates an empty list slot for key and records its operator on first
// sight. It reports whether the key was created.
func (s *Section) ensureKey(key string, op Operator) bool {
	if _, ok := s.values[key]; ok {
		return false
	}
	s.keys = append(s.keys, key)
	s.values[key] = &Value{kind: KindList}
	if _, ok := s.operators[key]; !ok {
		s.operators[key] = op
	}
	return true
}
