// Package ui provides terminal UI components shared by the CLI commands.
//
// # Color Scheme
//
// Colors are defined as ANSI codes for broad terminal compatibility:
//
//	ColorSuccess   (green)  - Successful polls
//	ColorError     (red)    - Failures and errors
//	ColorWarning   (yellow) - Warnings
//	ColorMuted     (gray)   - Secondary text, timing info
//
// Use DisableColors() to switch to monochrome output (for --no-color flag).
//
// # Spinner Usage
//
//	s := ui.NewSpinner("Polling cloud.example.com", os.Stderr)
//	s.Start()
//	// ... do work ...
//	s.Success() // or s.Fail()
//
// SpinnerFrames is shared with the dashboard so both spin the same way.
//
// # Tables
//
// RenderSimpleTable renders a bubbles table as plain CLI output; FitColumns
// sizes its columns from the data.
package ui
