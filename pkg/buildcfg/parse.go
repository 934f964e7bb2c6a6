// SPDX-License-Identifier: MPL-2.0

package buildcfg

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
)

var (
	// ErrMalformed is the sentinel wrapped by ParseError.
	ErrMalformed = errors.New("malformed configuration")
	// ErrNoMetadata is returned when a document has no reserved metadata section.
	ErrNoMetadata = errors.New("metadata section not found")

	sectionHeaderPattern = regexp.MustCompile(`^\[([^\[\]]+)\]\s*$`)
	keyLinePattern       = regexp.MustCompile(`^(\S.*?)\s*(\+=|=)\s*(.*)$`)
)

// ParseError reports the line at which a document could not be read.
type ParseError struct {
	Line int
	Msg  string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

// Unwrap returns ErrMalformed for errors.Is() compatibility.
func (e *ParseError) Unwrap() error { return ErrMalformed }

// Parse reads a rendered document back into a Root. Operators are restored from
// the text; rules only affect later writes.
func Parse(r io.Reader, rules *Rules) (*Root, error) {
	return parse(r, rules, false)
}

// parse reads a document. When lenient, lines that cannot be read are dropped
// together with their continuation lines instead of failing.
func parse(r io.Reader, rules *Rules, lenient bool) (*Root, error) {
	root := NewRoot(rules)

	var (
		current  *Section
		key      string
		items    []string
		skipping bool
	)
	malformed := func(lineNo int, msg string) error {
		if lenient {
			key, items, skipping = "", nil, true
			return nil
		}
		return &ParseError{Line: lineNo, Msg: msg}
	}
	flush := func() {
		if current == nil || key == "" {
			return
		}
		if len(items) > 1 && items[0] == "" {
			items = items[1:]
		}
		if len(items) == 1 {
			current.Set(key, items[0])
		} else {
			current.Set(key, items)
		}
		key, items = "", nil
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)

		switch {
		case trimmed == "":
			continue
		case line[0] == ' ' || line[0] == '\t':
			if skipping {
				continue
			}
			if key == "" {
				if err := malformed(lineNo, "continuation line without a key"); err != nil {
					return nil, err
				}
				continue
			}
			items = append(items, trimmed)
		case line[0] == '#' || line[0] == ';':
			continue
		case sectionHeaderPattern.MatchString(line):
			flush()
			skipping = false
			current = root.Section(sectionHeaderPattern.FindStringSubmatch(line)[1])
		default:
			flush()
			m := keyLinePattern.FindStringSubmatch(line)
			if m == nil {
				if err := malformed(lineNo, fmt.Sprintf("cannot parse %q", line)); err != nil {
					return nil, err
				}
				continue
			}
			if current == nil {
				if err := malformed(lineNo, "key outside of any section"); err != nil {
					return nil, err
				}
				continue
			}
			skipping = false
			key = m[1]
			items = []string{strings.TrimSpace(m[3])}
			current.SetOperator(key, Operator(m[2]))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read configuration: %w", err)
	}
	flush()

	return root, nil
}

// ReadMetadata parses a rendered document and returns its reserved section.
// Lines that cannot be read elsewhere in the document are ignored.
func ReadMetadata(r io.Reader) (*Metadata, error) {
	root, err := parse(r, nil, true)
	if err != nil {
		return nil, err
	}
	s, ok := root.Lookup(SectionMetadata)
	if !ok {
		return nil, ErrNoMetadata
	}

	meta := &Metadata{}
	if v, ok := s.Get(MetadataOptionsKey); ok {
		meta.Options = strings.Join(v.Items(), "")
	}
	if v, ok := s.Get(MetadataCreateTimeKey); ok {
		meta.CreateTime = strings.Join(v.Items(), " ")
	}
	return meta, nil
}
