package fields

import (
	"sort"
	"strings"
)

// Path is an ordered list of keys leading from the document root to one value.
// A segment is a map key, or a decimal index when the current node is a list.
type Path []string

// String renders the path in its '/'-separated form.
func (p Path) String() string {
	return strings.Join(p, "/")
}

// ParsePath parses a '/'-separated path. Keys may contain dots
// (Nextcloud uses keys such as "memcache.local"). Empty segments are dropped.
func ParsePath(s string) Path {
	var p Path
	for _, seg := range strings.Split(s, "/") {
		seg = strings.TrimSpace(seg)
		if seg != "" {
			p = append(p, seg)
		}
	}
	return p
}

// Key identifies one extractable field.
type Key struct {
	Section string
	Field   string
}

// Table maps every known (section, field) pair to its path.
type Table map[Key]Path

// Merge returns a copy of t with overrides applied on top.
func (t Table) Merge(overrides Table) Table {
	out := make(Table, len(t)+len(overrides))
	for k, p := range t {
		out[k] = p
	}
	for k, p := range overrides {
		out[k] = p
	}
	return out
}

// Common path prefixes of the serverinfo response.
var (
	metaRoot      = Path{"ocs", "meta"}
	dataRoot      = Path{"ocs", "data"}
	nextcloudRoot = Path{"ocs", "data", "nextcloud"}
	systemRoot    = Path{"ocs", "data", "nextcloud", "system"}
	serverRoot    = Path{"ocs", "data", "server"}
)

func under(prefix Path, segs ...string) Path {
	p := make(Path, 0, len(prefix)+len(segs))
	p = append(p, prefix...)
	return append(p, segs...)
}

type entry struct {
	field string
	path  Path
}

// defaultLayout is the canonical section and field order used for display.
var defaultLayout = []struct {
	section string
	entries []entry
}{
	{"status", []entry{
		{"status", under(metaRoot, "status")},
		{"status_code", under(metaRoot, "statuscode")},
		{"message", under(metaRoot, "message")},
	}},
	{"nextcloud_info", []entry{
		{"version", under(systemRoot, "version")},
		{"theme", under(systemRoot, "theme")},
		{"enable_avatars", under(systemRoot, "enable_avatars")},
		{"enable_previews", under(systemRoot, "enable_previews")},
		{"memcache_local", under(systemRoot, "memcache.local")},
		{"memcache_distributed", under(systemRoot, "memcache.distributed")},
		{"memcache_locking", under(systemRoot, "memcache.locking")},
		{"filelocking_enabled", under(systemRoot, "filelocking.enabled")},
		{"debug", under(systemRoot, "debug")},
		{"apps_installed", under(systemRoot, "apps", "num_installed")},
		{"apps_updates_available", under(systemRoot, "apps", "num_updates_available")},
		{"num_users", under(nextcloudRoot, "storage", "num_users")},
		{"num_files", under(nextcloudRoot, "storage", "num_files")},
		{"num_storages", under(nextcloudRoot, "storage", "num_storages")},
		{"num_shares", under(nextcloudRoot, "shares", "num_shares")},
		{"active_users_5min", under(dataRoot, "activeUsers", "last5minutes")},
		{"active_users_1h", under(dataRoot, "activeUsers", "last1hour")},
		{"active_users_24h", under(dataRoot, "activeUsers", "last24hours")},
	}},
	{"system_info", []entry{
		{"freespace", under(systemRoot, "freespace")},
		{"cpu_load", under(systemRoot, "cpuload")},
		{"cpu_load_1m", under(systemRoot, "cpuload", "0")},
		{"total_memory", under(systemRoot, "mem_total")},
		{"free_memory", under(systemRoot, "mem_free")},
		{"total_swap", under(systemRoot, "swap_total")},
		{"free_swap", under(systemRoot, "swap_free")},
		{"webserver", under(serverRoot, "webserver")},
	}},
	{"database", []entry{
		{"type", under(serverRoot, "database", "type")},
		{"version", under(serverRoot, "database", "version")},
		{"size", under(serverRoot, "database", "size")},
	}},
	{"php", []entry{
		{"version", under(serverRoot, "php", "version")},
		{"memory_limit", under(serverRoot, "php", "memory_limit")},
		{"max_execution_time", under(serverRoot, "php", "max_execution_time")},
		{"upload_max_filesize", under(serverRoot, "php", "upload_max_filesize")},
		{"opcache_enabled", under(serverRoot, "php", "opcache", "opcache_enabled")},
	}},
}

// DefaultTable returns a fresh copy of the built-in serverinfo table.
func DefaultTable() Table {
	t := make(Table)
	for _, sec := range defaultLayout {
		for _, e := range sec.entries {
			t[Key{Section: sec.section, Field: e.field}] = append(Path(nil), e.path...)
		}
	}
	return t
}

// canonicalOrder returns sections and their fields for table t: built-in
// sections and fields first in their declared order, anything else after,
// alphabetically.
func canonicalOrder(t Table) ([]string, map[string][]string) {
	rank := make(map[Key]int)
	sectionRank := make(map[string]int)
	i := 0
	for si, sec := range defaultLayout {
		sectionRank[sec.section] = si
		for _, e := range sec.entries {
			rank[Key{Section: sec.section, Field: e.field}] = i
			i++
		}
	}

	fieldsBySection := make(map[string][]string)
	for k := range t {
		fieldsBySection[k.Section] = append(fieldsBySection[k.Section], k.Field)
	}

	sections := make([]string, 0, len(fieldsBySection))
	for s, names := range fieldsBySection {
		sections = append(sections, s)
		sort.Slice(names, func(a, b int) bool {
			ra, okA := rank[Key{Section: s, Field: names[a]}]
			rb, okB := rank[Key{Section: s, Field: names[b]}]
			if okA != okB {
				return okA
			}
			if okA {
				return ra < rb
			}
			return names[a] < names[b]
		})
	}

	sort.Slice(sections, func(a, b int) bool {
		ra, okA := sectionRank[sections[a]]
		rb, okB := sectionRank[sections[b]]
		if okA != okB {
			return okA
		}
		if okA {
			return ra < rb
		}
		return sections[a] < sections[b]
	})

	return sections, fieldsBySection
}
