package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/nextracker/nextracker/internal/errors"
	"github.com/nextracker/nextracker/internal/fields"
	"github.com/nextracker/nextracker/internal/render"
	"github.com/nextracker/nextracker/internal/ui"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// fetchCmd runs a single poll and prints the result
var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Poll once and print the selected fields",
	Long: `Poll the serverinfo API once and print the selected fields.

Exits non-zero when the poll fails, so it can be used from scripts and
health checks.

Examples:
  nextracker fetch
  nextracker fetch --json | jq .data.result.database`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		return fetchCommand(ctx, cmd.OutOrStdout(), machineMode)
	},
}

func init() {
	fetchCmd.Flags().BoolVar(&machineMode, "json", false, "output the result as JSON")
	rootCmd.AddCommand(fetchCmd)
}

// FetchOutput is the data of a successful `fetch --json`.
type FetchOutput struct {
	Host       string        `json:"host"`
	DurationMS int64         `json:"duration_ms"`
	Result     fields.Result `json:"result"`
}

// fetchCommand polls once and writes the outcome to w.
func fetchCommand(ctx context.Context, w io.Writer, asJSON bool) error {
	s, err := loadSession(cfgFile, envFile, "")
	if err != nil {
		return fetchFailed(w, asJSON, err)
	}

	var spinner *ui.Spinner
	if !asJSON && term.IsTerminal(int(os.Stderr.Fd())) {
		spinner = ui.NewSpinner("Polling "+s.Creds.Host(), os.Stderr)
		spinner.Start()
	}

	out := s.Poller.Poll(ctx)

	if spinner != nil {
		if out.OK() {
			spinner.Success()
		} else {
			spinner.Fail()
		}
	}

	if !out.OK() {
		return fetchFailed(w, asJSON, out.Err)
	}

	if asJSON {
		return WriteJSONSuccess(w, FetchOutput{
			Host:       s.Creds.Host(),
			DurationMS: out.Duration().Milliseconds(),
			Result:     out.Result,
		})
	}

	_, err = fmt.Fprint(w, render.Text(out.Result, s.Layout))
	return err
}

// fetchFailed reports err in the requested format. In JSON mode the error
// goes into the envelope and only the exit code is returned.
func fetchFailed(w io.Writer, asJSON bool, err error) error {
	if !asJSON {
		return err
	}
	if writeErr := WriteJSONFromError(w, err); writeErr != nil {
		return writeErr
	}
	return errors.NewExitError(1)
}
