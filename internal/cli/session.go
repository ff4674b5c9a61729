package cli

import (
	"fmt"
	"time"

	"github.com/nextracker/nextracker/internal/config"
	"github.com/nextracker/nextracker/internal/errors"
	"github.com/nextracker/nextracker/internal/fields"
	"github.com/nextracker/nextracker/internal/logger"
	"github.com/nextracker/nextracker/internal/poller"
	"github.com/nextracker/nextracker/internal/render"
)

// session holds everything a polling command needs, built from the config
// file and the credentials.
type session struct {
	Config     *config.Config
	ConfigPath string // empty when defaults are in use
	Creds      config.Credentials
	Mapper     *fields.Mapper
	Selection  fields.Selection
	Layout     render.Layout
	Client     *poller.Client
	Poller     *poller.Coordinator
	Interval   time.Duration
}

// loadSession loads and validates config and credentials, then wires the
// HTTP client and coordinator. intervalFlag overrides the configured
// interval when set.
func loadSession(cfgPath, envPath, intervalFlag string) (*session, error) {
	cfg, path, err := config.LoadOrDefault(cfgPath)
	if err != nil {
		return nil, err
	}
	if intervalFlag != "" {
		cfg.Interval = intervalFlag
	}
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}

	mapper := fields.NewMapper(cfg.Table())
	if err := config.ValidateSelection(cfg, mapper); err != nil {
		return nil, err
	}
	sel := cfg.Selection(mapper)
	if sel.Count() == 0 {
		where := "the default config"
		if path != "" {
			where = path
		}
		return nil, errors.New(errors.ErrConfig,
			fmt.Sprintf("No fields are enabled in %s", where),
			"Enable at least one field, or run 'nextracker init' to pick some.")
	}

	creds, err := config.LoadCredentials(envPath)
	if err != nil {
		return nil, err
	}

	client := poller.NewClient(creds)
	client.SetTimeout(cfg.TimeoutDuration())
	client.SetLogger(logger.NewEnvLogger("[http]"))

	coord := poller.New(client, mapper, sel)
	coord.SetLogger(logger.NewEnvLogger("[poller]"))

	return &session{
		Config:     cfg,
		ConfigPath: path,
		Creds:      creds,
		Mapper:     mapper,
		Selection:  sel,
		Layout:     render.NewLayout(mapper, sel),
		Client:     client,
		Poller:     coord,
		Interval:   cfg.IntervalDuration(),
	}, nil
}
