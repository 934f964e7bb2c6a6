// SPDX-License-Identifier: MPL-2.0

package buildcfg

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
)

// DefaultIndent is the continuation-line indent width.
const DefaultIndent = 4

// ErrUnwritableName is returned by Render for a section or key name that Parse
// could not read back.
var ErrUnwritableName = errors.New("name cannot be written")

type (
	// Metadata is the content of the reserved trailing section.
	Metadata struct {
		// Options is the encoded options snapshot.
		Options string
		// CreateTime is the quoted creation timestamp, e.g. '2026-01-02 03:04:05.000000'.
		CreateTime string
	}

	// RenderOptions controls Render.
	RenderOptions struct {
		// Indent is the continuation-line indent; values <= 0 use DefaultIndent.
		Indent int
		// Metadata, when set, is rendered as the reserved trailing section.
		Metadata *Metadata
	}
)

// NewMetadata builds the reserved section content for a snapshot captured at createdAt.
func NewMetadata(snapshot string, createdAt time.Time) *Metadata {
	return &Metadata{
		Options:    snapshot,
		CreateTime: "'" + createdAt.UTC().Format(timeLayout) + "'",
	}
}

// CreatedAt parses CreateTime back into a time.
func (m Metadata) CreatedAt() (time.Time, error) {
	return time.Parse(timeLayout, strings.Trim(m.CreateTime, `'"`))
}

// RenderString renders root to a string. It returns "" when root holds a name
// Render rejects.
func RenderString(root *Root, opts RenderOptions) string {
	var sb strings.Builder
	if err := Render(&sb, root, opts); err != nil {
		return ""
	}
	return sb.String()
}

// Render writes root in section order: buildout, versions, every other section in
// first-seen order, then the reserved metadata section. A section named like the
// reserved one inside root is never rendered; the metadata in opts replaces it.
// Names Parse could not read back fail with ErrUnwritableName before anything is
// written.
func Render(w io.Writer, root *Root, opts RenderOptions) error {
	indent := opts.Indent
	if indent <= 0 {
		indent = DefaultIndent
	}
	padding := strings.Repeat(" ", indent)

	if err := checkNames(root); err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	first := true
	emit := func(s *Section) {
		if !first {
			bw.WriteString("\n")
		}
		first = false
		writeSection(bw, s, padding)
	}

	rendered := map[string]bool{SectionMetadata: true}
	for _, name := range []string{SectionBuildout, SectionVersions} {
		if s, ok := root.Lookup(name); ok {
			emit(s)
		}
		rendered[name] = true
	}
	for _, name := range root.Names() {
		if rendered[name] {
			continue
		}
		rendered[name] = true
		s, _ := root.Lookup(name)
		emit(s)
	}

	if opts.Metadata != nil {
		meta := NewSection(SectionMetadata, root.Rules())
		meta.Set(MetadataOptionsKey, opts.Metadata.Options)
		meta.Set(MetadataCreateTimeKey, opts.Metadata.CreateTime)
		emit(meta)
	}

	return bw.Flush()
}

func writeSection(bw *bufio.Writer, s *Section, padding string) {
	bw.WriteString("[")
	bw.WriteString(s.Name())
	bw.WriteString("]\n")

	for _, key := range s.keys {
		lines := itemLines(s.values[key].items)
		bw.WriteString(key)
		bw.WriteString(" ")
		bw.WriteString(string(s.Operator(key)))
		if len(lines) > 0 && lines[0] != "" {
			bw.WriteString(" ")
			bw.WriteString(lines[0])
		}
		bw.WriteString("\n")
		for _, line := range lines[min(1, len(lines)):] {
			bw.WriteString(padding)
			bw.WriteString(line)
			bw.WriteString("\n")
		}
	}
}

// itemLines splits items holding embedded newlines into one line per
// continuation. Blank inner lines are dropped; a leading empty item is kept so
// the value starts on the next line.
func itemLines(items []string) []string {
	lines := make([]string, 0, len(items))
	for i, item := range items {
		for j, part := range strings.Split(item, "\n") {
			part = strings.TrimSpace(part)
			if part == "" && (i > 0 || j > 0) {
				continue
			}
			lines = append(lines, part)
		}
	}
	return lines
}

func checkNames(root *Root) error {
	for _, name := range root.names {
		if name == "" || strings.ContainsAny(name, "[]\r\n") || strings.TrimSpace(name) != name {
			return fmt.Errorf("%w: section %q", ErrUnwritableName, name)
		}
		if name == SectionMetadata {
			continue
		}
		for _, key := range root.sections[name].keys {
			if !writableKey(key) {
				return fmt.Errorf("%w: key %q in section %q", ErrUnwritableName, key, name)
			}
		}
	}
	return nil
}

func writableKey(key string) bool {
	if key == "" || strings.TrimSpace(key) != key || strings.ContainsAny(key, "=\r\n") {
		return false
	}
	switch key[0] {
	case '#', ';', '[':
		return false
	}
	return true
}
