// Package cli implements the nextracker command-line interface.
//
// Each file holds one Cobra command and the function doing its work, kept
// separate from the command so tests can call it with their own writer:
//
//	nextracker              - Same as 'watch'
//	nextracker watch        - Live dashboard (plain text when piped)
//	nextracker fetch        - Poll once, print text or --json
//	nextracker fields       - List enabled fields and their paths
//	nextracker init         - Create .nextracker.yaml
//	nextracker version      - Print version information
//	nextracker completion   - Shell completion scripts
//
// # Sessions
//
// Commands that talk to the server go through loadSession, which loads and
// validates the config, reads credentials from the environment or the
// --env-file, and wires a poller.Client into a poller.Coordinator. All
// config problems surface there as CONFIG errors, before any request is made.
//
// # Flag Handling
//
// Global flags (--config, --env-file, --no-color) are defined on the root
// command and available to all subcommands.
//
// # Output
//
// Errors are printed by Execute in the errors package's layout. With
// --json, failures are written inside the JSON envelope instead and only the
// exit code is returned.
package cli
