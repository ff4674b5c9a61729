package fields

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/nextracker/nextracker/internal/errors"
)

// Selection lists, per section, the fields a caller wants extracted.
type Selection map[string][]string

// Normalize returns a copy with names trimmed, blanks dropped and duplicates
// removed (first occurrence wins). Sections with no fields are kept.
func (s Selection) Normalize() Selection {
	out := make(Selection, len(s))
	for section, names := range s {
		section = strings.TrimSpace(section)
		seen := make(map[string]bool, len(names))
		list := out[section]
		if list == nil {
			list = []string{}
		}
		for _, name := range names {
			name = strings.TrimSpace(name)
			if name == "" || seen[name] {
				continue
			}
			seen[name] = true
			list = append(list, name)
		}
		out[section] = list
	}
	return out
}

// Count returns the number of distinct (section, field) pairs selected.
func (s Selection) Count() int {
	n := 0
	for _, names := range s.Normalize() {
		n += len(names)
	}
	return n
}

// Result holds one extracted value per selected field, nil when the field's
// path did not resolve in the document.
type Result map[string]map[string]any

// Mapper resolves selections against documents using a fixed Table.
type Mapper struct {
	table    Table
	sections []string
	fields   map[string][]string
}

// NewMapper creates a mapper over table. The table is copied.
func NewMapper(table Table) *Mapper {
	t := table.Merge(nil)
	sections, fields := canonicalOrder(t)
	return &Mapper{
		table:    t,
		sections: sections,
		fields:   fields,
	}
}

// Sections returns the known section names in display order.
func (m *Mapper) Sections() []string {
	return append([]string(nil), m.sections...)
}

// Fields returns the known field names of a section in display order.
func (m *Mapper) Fields(section string) []string {
	return append([]string(nil), m.fields[section]...)
}

// Path returns the path registered for (section, field).
func (m *Mapper) Path(section, field string) (Path, bool) {
	p, ok := m.table[Key{Section: section, Field: field}]
	return p, ok
}

// Validate reports the first selected section or field that has no path.
// It is meant to run once at startup.
func (m *Mapper) Validate(sel Selection) error {
	sections := make([]string, 0, len(sel))
	for s := range sel {
		sections = append(sections, s)
	}
	sort.Strings(sections)

	for _, section := range sections {
		known, ok := m.fields[section]
		if !ok {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("Unknown section '%s'", section),
				"Valid sections: "+strings.Join(m.sections, ", "))
		}
		for _, field := range sel[section] {
			if _, ok := m.table[Key{Section: section, Field: field}]; !ok {
				return errors.New(errors.ErrConfig,
					fmt.Sprintf("Unknown field '%s' in section '%s'", field, section),
					fmt.Sprintf("Valid fields for '%s': %s", section, strings.Join(known, ", ")))
			}
		}
	}
	return nil
}

// Resolve extracts every selected field from doc. It never fails: a field
// whose path cannot be followed resolves to nil without affecting others.
func (m *Mapper) Resolve(doc any, sel Selection) Result {
	result := make(Result, len(sel))
	for section, names := range sel {
		values := make(map[string]any, len(names))
		for _, name := range names {
			path, ok := m.table[Key{Section: section, Field: name}]
			if !ok {
				values[name] = nil
				continue
			}
			v, _ := Lookup(doc, path)
			values[name] = v
		}
		result[section] = values
	}
	return result
}

// Lookup walks doc along path. The boolean is false when a segment could not
// be followed: missing key, non-container node, or a bad list index.
func Lookup(doc any, path Path) (any, bool) {
	cur := doc
	for _, seg := range path {
		switch node := cur.(type) {
		case map[string]any:
			next, ok := node[seg]
			if !ok {
				return nil, false
			}
			cur = next
		case []any:
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= len(node) {
				return nil, false
			}
			cur = node[idx]
		default:
			return nil, false
		}
	}
	return cur, true
}
