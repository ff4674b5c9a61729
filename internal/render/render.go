// Package render formats poll results as indented plain text.
//
// Values are walked uniformly: maps print their keys in sorted order, lists
// print "[i]" entries, and a field whose path did not resolve prints "n/a".
package render

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/nextracker/nextracker/internal/fields"
)

// Missing is shown for values that could not be resolved.
const Missing = "n/a"

// Indent is the per-level indentation.
const Indent = "  "

// Line is one line of output at a nesting depth.
type Line struct {
	Depth int
	Text  string
}

// String renders the line with its indentation.
func (l Line) String() string {
	return strings.Repeat(Indent, l.Depth) + l.Text
}

// Layout fixes the display order of sections and fields.
type Layout struct {
	Sections []string
	Fields   map[string][]string
}

// NewLayout orders the sections of sel the way m lists them, with sections m
// does not know appended alphabetically. Field order is taken from sel.
func NewLayout(m *fields.Mapper, sel fields.Selection) Layout {
	sel = sel.Normalize()
	layout := Layout{Fields: make(map[string][]string, len(sel))}

	seen := make(map[string]bool, len(sel))
	for _, section := range m.Sections() {
		if names, ok := sel[section]; ok {
			layout.Sections = append(layout.Sections, section)
			layout.Fields[section] = names
			seen[section] = true
		}
	}

	var rest []string
	for section := range sel {
		if !seen[section] {
			rest = append(rest, section)
		}
	}
	sort.Strings(rest)
	for _, section := range rest {
		layout.Sections = append(layout.Sections, section)
		layout.Fields[section] = sel[section]
	}
	return layout
}

// order returns the sections of result in layout order, then any extras
// sorted.
func (l Layout) order(result fields.Result) []string {
	var out []string
	seen := make(map[string]bool)
	for _, s := range l.Sections {
		if _, ok := result[s]; ok {
			out = append(out, s)
			seen[s] = true
		}
	}
	var rest []string
	for s := range result {
		if !seen[s] {
			rest = append(rest, s)
		}
	}
	sort.Strings(rest)
	return append(out, rest...)
}

// FieldOrder returns the field names of one section in layout order, then any
// extras sorted.
func (l Layout) FieldOrder(section string, values map[string]any) []string {
	var out []string
	seen := make(map[string]bool)
	for _, name := range l.Fields[section] {
		if _, ok := values[name]; ok && !seen[name] {
			out = append(out, name)
			seen[name] = true
		}
	}
	var rest []string
	for name := range values {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	return append(out, rest...)
}

// Text renders a whole result: a header line per section, its fields
// indented below it.
func Text(result fields.Result, layout Layout) string {
	var b strings.Builder
	for _, section := range layout.order(result) {
		b.WriteString(section)
		b.WriteByte('\n')
		for _, line := range Section(result[section], section, layout) {
			b.WriteString(Line{Depth: line.Depth + 1, Text: line.Text}.String())
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// Section renders the fields of one section starting at depth 0.
func Section(values map[string]any, section string, layout Layout) []Line {
	var lines []Line
	for _, name := range layout.FieldOrder(section, values) {
		lines = append(lines, Lines(name, values[name], 0)...)
	}
	return lines
}

// Lines renders one named value. Scalars fit on one line ("name: value");
// maps and lists put their children on the following lines, one level deeper.
func Lines(name string, v any, depth int) []Line {
	switch node := v.(type) {
	case map[string]any:
		if len(node) == 0 {
			return []Line{{Depth: depth, Text: name + ": {}"}}
		}
		lines := []Line{{Depth: depth, Text: name + ":"}}
		keys := make([]string, 0, len(node))
		for k := range node {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			lines = append(lines, Lines(k, node[k], depth+1)...)
		}
		return lines
	case []any:
		if len(node) == 0 {
			return []Line{{Depth: depth, Text: name + ": []"}}
		}
		lines := []Line{{Depth: depth, Text: name + ":"}}
		for i, child := range node {
			lines = append(lines, Lines("["+strconv.Itoa(i)+"]", child, depth+1)...)
		}
		return lines
	default:
		return []Line{{Depth: depth, Text: name + ": " + Value(v)}}
	}
}

// Value formats a scalar. Containers are summarized by their size.
func Value(v any) string {
	switch val := v.(type) {
	case nil:
		return Missing
	case string:
		if val == "" {
			return `""`
		}
		return val
	case bool:
		return strconv.FormatBool(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case int:
		return strconv.Itoa(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case map[string]any:
		return fmt.Sprintf("{%d keys}", len(val))
	case []any:
		return fmt.Sprintf("[%d items]", len(val))
	default:
		return fmt.Sprint(val)
	}
}
