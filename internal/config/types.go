package config

import (
	"sort"
	"time"

	"github.com/nextracker/nextracker/internal/fields"
)

// CurrentConfigVersion is the schema version for the config file.
// Increment when making breaking changes to the config structure.
const CurrentConfigVersion = 1

// Refresh and request timing defaults and limits.
const (
	DefaultInterval = 30 * time.Second
	DefaultTimeout  = 10 * time.Second
	MinInterval     = time.Second
)

// Config represents the complete .nextracker.yaml configuration file.
type Config struct {
	Version int `yaml:"version" mapstructure:"version"`

	// Interval between periodic polls, as a duration string ("30s", "1m").
	Interval string `yaml:"interval" mapstructure:"interval"`

	// Timeout for each HTTP request, as a duration string.
	Timeout string `yaml:"timeout" mapstructure:"timeout"`

	// Fields toggles extraction per section and field.
	Fields map[string]map[string]bool `yaml:"fields" mapstructure:"fields"`

	// Paths adds or overrides field paths, '/'-separated.
	Paths map[string]map[string]string `yaml:"paths,omitempty" mapstructure:"paths"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Version:  CurrentConfigVersion,
		Interval: DefaultInterval.String(),
		Timeout:  DefaultTimeout.String(),
		Fields: map[string]map[string]bool{
			"status": {
				"status":      true,
				"status_code": true,
			},
			"nextcloud_info": {
				"version":           true,
				"num_users":         true,
				"active_users_5min": true,
			},
			"system_info": {
				"cpu_load":    true,
				"free_memory": true,
			},
			"database": {
				"type": true,
				"size": true,
			},
			"php": {
				"version": true,
			},
		},
		Paths: map[string]map[string]string{},
	}
}

// IntervalDuration returns the parsed poll interval, or the default.
func (c *Config) IntervalDuration() time.Duration {
	return parseDuration(c.Interval, DefaultInterval)
}

// TimeoutDuration returns the parsed request timeout, or the default.
func (c *Config) TimeoutDuration() time.Duration {
	return parseDuration(c.Timeout, DefaultTimeout)
}

// Table returns the built-in field table with the config's path overrides applied.
func (c *Config) Table() fields.Table {
	overrides := make(fields.Table)
	for section, entries := range c.Paths {
		for field, raw := range entries {
			overrides[fields.Key{Section: section, Field: field}] = fields.ParsePath(raw)
		}
	}
	return fields.DefaultTable().Merge(overrides)
}

// Selection returns the enabled fields. Sections without an enabled field are
// dropped. Fields follow the mapper's display order; names the mapper does
// not know are appended alphabetically so that validation can report them.
func (c *Config) Selection(m *fields.Mapper) fields.Selection {
	sel := make(fields.Selection)
	for section, toggles := range c.Fields {
		enabled := make(map[string]bool)
		for name, on := range toggles {
			if on {
				enabled[name] = true
			}
		}
		if len(enabled) == 0 {
			continue
		}

		var ordered []string
		for _, name := range m.Fields(section) {
			if enabled[name] {
				ordered = append(ordered, name)
				delete(enabled, name)
			}
		}
		rest := make([]string, 0, len(enabled))
		for name := range enabled {
			rest = append(rest, name)
		}
		sort.Strings(rest)

		sel[section] = append(ordered, rest...)
	}
	return sel
}

// SetSelection replaces the field toggles with exactly the given selection.
func (c *Config) SetSelection(sel fields.Selection) {
	c.Fields = make(map[string]map[string]bool, len(sel))
	for section, names := range sel.Normalize() {
		if len(names) == 0 {
			continue
		}
		toggles := make(map[string]bool, len(names))
		for _, name := range names {
			toggles[name] = true
		}
		c.Fields[section] = toggles
	}
}

// parseDuration parses a duration string, returning the default if parsing fails.
func parseDuration(s string, def time.Duration) time.Duration {
	if s == "" {
		return def
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return def
	}
	return d
}
