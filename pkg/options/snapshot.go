// SPDX-License-Identifier: MPL-2.0

package options

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"math"
	"slices"
	"strconv"
)

// snapshotVersion is bumped whenever the wire layout changes.
const snapshotVersion = 1

const (
	wireNull  = "null"
	wireStr   = "str"
	wireInt   = "int"
	wireFloat = "float"
	wireBool  = "bool"
	wireList  = "list"
	wireMap   = "map"
)

// ErrInvalidSnapshot is returned when a snapshot blob cannot be decoded.
var ErrInvalidSnapshot = errors.New("invalid options snapshot")

type (
	// wireValue tags every value with its type so ints and floats survive JSON.
	wireValue struct {
		T string      `json:"t"`
		S string      `json:"s,omitempty"`
		I int64       `json:"i,omitempty"`
		F float64     `json:"f,omitempty"`
		B bool        `json:"b,omitempty"`
		L []wireValue `json:"l,omitempty"`
		M []wireEntry `json:"m,omitempty"`
	}

	wireEntry struct {
		K string    `json:"k"`
		V wireValue `json:"v"`
	}

	wireSnapshot struct {
		Version int         `json:"version"`
		Entries []wireEntry `json:"entries"`
	}
)

// EncodeSnapshot serializes the flat view of s, in order, to a base64 string.
func EncodeSnapshot(s *Store) (string, error) {
	snap := wireSnapshot{Version: snapshotVersion, Entries: make([]wireEntry, 0, s.Len())}
	for _, e := range s.Entries() {
		wv, err := toWire(e.Value)
		if err != nil {
			return "", fmt.Errorf("failed to encode option %q: %w", e.Key, err)
		}
		snap.Entries = append(snap.Entries, wireEntry{K: e.Key, V: wv})
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return "", fmt.Errorf("failed to encode options snapshot: %w", err)
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// DecodeSnapshot restores a Store from a blob produced by EncodeSnapshot.
// Every failure wraps ErrInvalidSnapshot.
func DecodeSnapshot(blob string) (*Store, error) {
	data, err := base64.StdEncoding.DecodeString(blob)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
	}

	var snap wireSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
	}
	if snap.Version != snapshotVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrInvalidSnapshot, snap.Version)
	}

	s := New()
	for _, e := range snap.Entries {
		v, err := fromWire(e.V)
		if err != nil {
			return nil, fmt.Errorf("%w: option %q: %w", ErrInvalidSnapshot, e.K, err)
		}
		s.Set(e.K, v)
	}
	return s, nil
}

func toWire(v any) (wireValue, error) {
	switch t := v.(type) {
	case nil:
		return wireValue{T: wireNull}, nil
	case string:
		return wireValue{T: wireStr, S: t}, nil
	case int64:
		return wireValue{T: wireInt, I: t}, nil
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			// JSON has no NaN or Inf; carry them as text.
			return wireValue{T: wireFloat, S: strconv.FormatFloat(t, 'g', -1, 64)}, nil
		}
		return wireValue{T: wireFloat, F: t}, nil
	case bool:
		return wireValue{T: wireBool, B: t}, nil
	case []any:
		wv := wireValue{T: wireList, L: make([]wireValue, 0, len(t))}
		for _, e := range t {
			we, err := toWire(e)
			if err != nil {
				return wireValue{}, err
			}
			wv.L = append(wv.L, we)
		}
		return wv, nil
	case map[string]any:
		wv := wireValue{T: wireMap, M: make([]wireEntry, 0, len(t))}
		for _, k := range slices.Sorted(maps.Keys(t)) {
			we, err := toWire(t[k])
			if err != nil {
				return wireValue{}, err
			}
			wv.M = append(wv.M, wireEntry{K: k, V: we})
		}
		return wv, nil
	default:
		return wireValue{}, fmt.Errorf("unsupported value type %T", v)
	}
}

func fromWire(wv wireValue) (any, error) {
	switch wv.T {
	case wireNull:
		return nil, nil
	case wireStr:
		return wv.S, nil
	case wireInt:
		return wv.I, nil
	case wireFloat:
		if wv.S != "" {
			return strconv.ParseFloat(wv.S, 64)
		}
		return wv.F, nil
	case wireBool:
		return wv.B, nil
	case wireList:
		out := make([]any, 0, len(wv.L))
		for _, e := range wv.L {
			v, err := fromWire(e)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case wireMap:
		out := make(map[string]any, len(wv.M))
		for _, e := range wv.M {
			v, err := fromWire(e.V)
			if err != nil {
				return nil, err
			}
			out[e.K] = v
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unknown value tag %q", wv.T)
	}
}
