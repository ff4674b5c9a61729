package config

import (
	"fmt"
	"sort"
	"time"

	"github.com/nextracker/nextracker/internal/errors"
	"github.com/nextracker/nextracker/internal/fields"
)

// Validate checks the config for errors and returns structured error messages.
// Field names are checked separately by ValidateSelection, against the table
// the config produces.
func Validate(cfg *Config) error {
	if cfg.Version > CurrentConfigVersion {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("This config is from the future (version %d, but nextracker only knows up to %d)", cfg.Version, CurrentConfigVersion),
			"Upgrade nextracker or lower the version in .nextracker.yaml")
	}

	if err := validateDuration("interval", cfg.Interval, MinInterval); err != nil {
		return err
	}
	if err := validateDuration("timeout", cfg.Timeout, time.Millisecond); err != nil {
		return err
	}

	return validatePaths(cfg.Paths)
}

// ValidateSelection checks that every enabled field has a path.
func ValidateSelection(cfg *Config, m *fields.Mapper) error {
	if err := m.Validate(cfg.Selection(m)); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"The 'fields' section of your config names something nextracker can't extract",
			"Run 'nextracker fields --all' to list every known field, or add it under 'paths'.")
	}
	return nil
}

func validateDuration(name, value string, min time.Duration) error {
	if value == "" {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("'%s' doesn't look like a valid %s", value, name),
			"Try something like 10s, 30s, or 1m.")
	}
	if d < min {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("%s %s is too short", name, value),
			fmt.Sprintf("Minimum %s is %s.", name, min))
	}
	return nil
}

func validatePaths(paths map[string]map[string]string) error {
	sections := make([]string, 0, len(paths))
	for s := range paths {
		sections = append(sections, s)
	}
	sort.Strings(sections)

	for _, section := range sections {
		for field, raw := range paths[section] {
			if len(fields.ParsePath(raw)) == 0 {
				return errors.New(errors.ErrConfig,
					fmt.Sprintf("Path for %s.%s is empty", section, field),
					"Write paths as '/'-separated keys, e.g. ocs/data/server/php/version")
			}
		}
	}
	return nil
}
