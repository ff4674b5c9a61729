package cli

import (
	"fmt"
	"io"

	"github.com/nextracker/nextracker/internal/config"
	"github.com/nextracker/nextracker/internal/fields"
	"github.com/nextracker/nextracker/internal/ui"
	"github.com/spf13/cobra"
)

// pathColumnWidth caps the PATH column so long paths don't wrap the table.
const pathColumnWidth = 56

var fieldsAllFlag bool

// fieldsCmd lists the fields nextracker can extract
var fieldsCmd = &cobra.Command{
	Use:   "fields",
	Short: "List the enabled fields and their paths",
	Long: `List the fields the config enables, with the response path each one is
read from. Use --all to include every field nextracker knows about.

Examples:
  nextracker fields
  nextracker fields --all`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return fieldsCommand(cmd.OutOrStdout(), fieldsAllFlag)
	},
}

func init() {
	fieldsCmd.Flags().BoolVar(&fieldsAllFlag, "all", false, "include fields that are not enabled")
	rootCmd.AddCommand(fieldsCmd)
}

// fieldsCommand prints the field table for the loaded config.
func fieldsCommand(w io.Writer, all bool) error {
	cfg, path, err := config.LoadOrDefault(cfgFile)
	if err != nil {
		return err
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}

	mapper := fields.NewMapper(cfg.Table())
	rows := fieldRows(mapper, cfg.Selection(mapper), all)

	source := "built-in defaults"
	if path != "" {
		source = path
	}

	if len(rows) == 0 {
		fmt.Fprintf(w, "No fields enabled in %s. Run 'nextracker fields --all' to see what's available.\n", source)
		return nil
	}

	titles := []string{"SECTION", "FIELD", "PATH"}
	if all {
		titles = append(titles, "ON")
	}
	fmt.Fprintln(w, ui.RenderSimpleTable(ui.FitColumns(titles, rows, pathColumnWidth), rows))
	fmt.Fprintf(w, "\n%d of %d fields enabled (%s)\n", countEnabled(mapper, cfg.Selection(mapper)), countAll(mapper), source)
	return nil
}

// fieldRows builds one row per field in mapper order. Without all, only
// selected fields are listed.
func fieldRows(m *fields.Mapper, sel fields.Selection, all bool) [][]string {
	var rows [][]string
	for _, section := range m.Sections() {
		enabled := make(map[string]bool)
		for _, name := range sel[section] {
			enabled[name] = true
		}
		for _, name := range m.Fields(section) {
			if !all && !enabled[name] {
				continue
			}
			p, _ := m.Path(section, name)
			row := []string{section, name, p.String()}
			if all {
				mark := ""
				if enabled[name] {
					mark = ui.SymbolSuccess
				}
				row = append(row, mark)
			}
			rows = append(rows, row)
		}
	}
	return rows
}

func countEnabled(m *fields.Mapper, sel fields.Selection) int {
	n := 0
	for _, section := range m.Sections() {
		for _, name := range sel[section] {
			if _, ok := m.Path(section, name); ok {
				n++
			}
		}
	}
	return n
}

func countAll(m *fields.Mapper) int {
	n := 0
	for _, section := range m.Sections() {
		n += len(m.Fields(section))
	}
	return n
}
