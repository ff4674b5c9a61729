package cli

import (
	"context"
	goerrors "errors"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/nextracker/nextracker/internal/errors"
	"github.com/nextracker/nextracker/internal/logger"
	"github.com/nextracker/nextracker/internal/monitor"
	"github.com/nextracker/nextracker/internal/poller"
	"github.com/nextracker/nextracker/internal/render"
	"github.com/nextracker/nextracker/internal/ui"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// debugLogFile receives log output while the dashboard owns the terminal.
const debugLogFile = "nextracker-debug.log"

// eventBuffer is the capacity of the channel between the poller and its consumer.
const eventBuffer = 16

var (
	watchIntervalFlag string
	watchCountFlag    int
)

// watchCmd starts the live dashboard
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Live dashboard of the server's status",
	Long: `Poll the serverinfo API on an interval and show the selected fields in a
full-screen dashboard.

When stdout is not a terminal, each poll is printed as plain text instead.

Keyboard shortcuts:
  q / Ctrl+C  Quit
  r           Refresh now
  up/k        Scroll up
  down/j      Scroll down
  ?           Show help

Examples:
  nextracker watch
  nextracker watch --interval 10s
  nextracker watch --count 3 > status.log`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return watchCommand(cmd.Context(), watchIntervalFlag)
	},
}

func init() {
	watchCmd.Flags().StringVar(&watchIntervalFlag, "interval", "", "refresh interval (e.g., 10s, 1m); overrides the config file")
	watchCmd.Flags().IntVar(&watchCountFlag, "count", 0, "exit after this many polls in text mode (0 = run until interrupted)")
	rootCmd.AddCommand(watchCmd)
}

// watchCommand picks the dashboard or text mode depending on stdout.
func watchCommand(ctx context.Context, intervalFlag string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	s, err := loadSession(cfgFile, envFile, intervalFlag)
	if err != nil {
		return err
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return watchLines(ctx, s, os.Stdout, watchCountFlag)
	}
	return watchDashboard(ctx, s)
}

// watchDashboard runs the Bubble Tea dashboard until the user quits.
func watchDashboard(ctx context.Context, s *session) error {
	// The dashboard owns the terminal, so log output must go elsewhere.
	if logger.DebugEnabled() {
		f, err := tea.LogToFile(debugLogFile, "nextracker")
		if err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Cannot open "+debugLogFile,
				"Check write permissions in the current directory, or unset "+logger.DebugEnv)
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
		defer log.SetOutput(os.Stderr)
	}

	ctx, cancel := context.WithCancel(ctx)
	events := make(chan poller.Event, eventBuffer)
	if err := s.Poller.Start(s.Interval, poller.ChannelListener(ctx, events)); err != nil {
		cancel()
		return err
	}
	// Cancel first so a listener blocked on a full channel lets the worker exit.
	defer func() {
		cancel()
		s.Poller.Stop()
	}()

	model := monitor.NewModel(s.Creds.Host(), s.Layout, s.Interval, s.Poller, events)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		if goerrors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return errors.WrapWithCode(err, errors.ErrConfig,
			"The dashboard stopped unexpectedly",
			"Try --no-color, or pipe the output to get plain text mode")
	}
	return nil
}

// watchLines prints each poll outcome as text until ctx is done, or until
// count outcomes have been printed when count is positive.
func watchLines(ctx context.Context, s *session, w io.Writer, count int) error {
	ctx, cancel := context.WithCancel(ctx)
	events := make(chan poller.Event, eventBuffer)
	if err := s.Poller.Start(s.Interval, poller.ChannelListener(ctx, events)); err != nil {
		cancel()
		return err
	}
	defer func() {
		cancel()
		s.Poller.Stop()
	}()

	printed := 0
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			if ev.Type != poller.EventOutcome {
				continue
			}
			writeOutcome(w, s, ev.Outcome)
			printed++
			if count > 0 && printed >= count {
				return nil
			}
		}
	}
}

// writeOutcome prints one poll as a status line followed by the rendered
// fields, or by the error on failure.
func writeOutcome(w io.Writer, s *session, out poller.Outcome) {
	muted := lipgloss.NewStyle().Foreground(ui.ColorMuted)
	stamp := out.Finished.Format(time.TimeOnly)

	if !out.OK() {
		fail := lipgloss.NewStyle().Foreground(ui.ColorError)
		fmt.Fprintf(w, "%s %s poll #%d failed %s\n  %s\n\n",
			fail.Render(ui.SymbolFail), stamp, out.Seq,
			muted.Render("("+ui.FormatDuration(out.Duration())+")"),
			errors.SummaryOf(out.Err))
		return
	}

	ok := lipgloss.NewStyle().Foreground(ui.ColorSuccess)
	fmt.Fprintf(w, "%s %s poll #%d %s %s\n",
		ok.Render(ui.SymbolSuccess), stamp, out.Seq, s.Creds.Host(),
		muted.Render("("+ui.FormatDuration(out.Duration())+")"))
	fmt.Fprintln(w, render.Text(out.Result, s.Layout))
}
