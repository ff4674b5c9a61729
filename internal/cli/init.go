package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/nextracker/nextracker/internal/config"
	"github.com/nextracker/nextracker/internal/errors"
	"github.com/nextracker/nextracker/internal/fields"
	"github.com/nextracker/nextracker/internal/ui"
	"github.com/spf13/cobra"
)

var (
	initForce          bool
	initNonInteractive bool
)

// initCmd creates a new .nextracker.yaml configuration
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create .nextracker.yaml configuration",
	Long: `Create a .nextracker.yaml file in the current directory.

Walks through each section of the serverinfo response and lets you pick the
fields to show. With --non-interactive (or when CI is set) the defaults are
written as-is.

Examples:
  nextracker init
  nextracker init --force
  nextracker init --non-interactive`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return Init(cmd.OutOrStdout(), InitOptions{
			Dir:            ".",
			Overwrite:      initForce,
			NonInteractive: initNonInteractive || os.Getenv("CI") != "",
		})
	},
}

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite existing config")
	initCmd.Flags().BoolVar(&initNonInteractive, "non-interactive", false, "write the defaults without prompting")
	rootCmd.AddCommand(initCmd)
}

// InitOptions holds options for the init command.
type InitOptions struct {
	Dir            string // Directory to write the config into
	Overwrite      bool   // Overwrite existing config without asking
	NonInteractive bool   // Skip prompts, use defaults
}

// Init creates a new .nextracker.yaml configuration file.
func Init(w io.Writer, opts InitOptions) error {
	configPath := filepath.Join(opts.Dir, config.ConfigFileName)

	if _, err := os.Stat(configPath); err == nil && !opts.Overwrite {
		if opts.NonInteractive {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("Config file already exists: %s", configPath),
				"Use --force to overwrite")
		}

		var overwrite bool
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(fmt.Sprintf("Config file '%s' already exists. Overwrite?", config.ConfigFileName)).
					Value(&overwrite),
			),
		)
		if err := form.Run(); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to get user input",
				"Try running with --force to overwrite")
		}
		if !overwrite {
			fmt.Fprintln(w, "Cancelled.")
			return nil
		}
	}

	cfg := config.DefaultConfig()
	if !opts.NonInteractive {
		if err := promptConfig(cfg); err != nil {
			return err
		}
	}

	if err := config.Save(configPath, cfg); err != nil {
		return err
	}

	mapper := fields.NewMapper(cfg.Table())
	fmt.Fprintf(w, "%s Created %s (%d fields enabled)\n\n", ui.SymbolSuccess, configPath, cfg.Selection(mapper).Count())
	fmt.Fprintln(w, "Next steps:")
	fmt.Fprintf(w, "  Put %s, %s and %s in %s\n", config.EnvInstance, config.EnvUser, config.EnvPassword, config.DefaultEnvFile)
	fmt.Fprintln(w, "  nextracker fetch   - Poll once to check the connection")
	fmt.Fprintln(w, "  nextracker         - Start the dashboard")
	return nil
}

// promptConfig asks for the refresh interval and one multi-select per
// section, then stores the answers in cfg.
func promptConfig(cfg *config.Config) error {
	mapper := fields.NewMapper(cfg.Table())
	current := cfg.Selection(mapper)

	interval := cfg.Interval
	groups := []*huh.Group{
		huh.NewGroup(
			huh.NewInput().
				Title("Refresh interval").
				Description("How often to poll the server (e.g., 30s, 1m)").
				Placeholder(config.DefaultInterval.String()).
				Value(&interval).
				Validate(func(s string) error {
					d, err := time.ParseDuration(s)
					if err != nil {
						return fmt.Errorf("not a duration")
					}
					if d < config.MinInterval {
						return fmt.Errorf("minimum is %s", config.MinInterval)
					}
					return nil
				}),
		),
	}

	chosen := make(map[string]*[]string, len(mapper.Sections()))
	for _, section := range mapper.Sections() {
		on := make(map[string]bool)
		for _, name := range current[section] {
			on[name] = true
		}

		var options []huh.Option[string]
		for _, name := range mapper.Fields(section) {
			options = append(options, huh.NewOption(name, name).Selected(on[name]))
		}

		picked := new([]string)
		chosen[section] = picked
		groups = append(groups, huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title(section).
				Description("Space to toggle, enter to continue").
				Options(options...).
				Value(picked),
		))
	}

	if err := huh.NewForm(groups...).Run(); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to get user input",
			"Check terminal compatibility or use --non-interactive flag")
	}

	sel := make(fields.Selection, len(chosen))
	for section, picked := range chosen {
		sel[section] = *picked
	}
	if sel.Count() == 0 {
		return errors.New(errors.ErrConfig,
			"No fields selected",
			"Pick at least one field, or run with --non-interactive to keep the defaults")
	}

	cfg.Interval = interval
	cfg.SetSelection(sel)
	return nil
}
