// Package cli is responsible for parsing command-line arguments, validating
// user input, and handling process-level concerns like exit codes. It
// translates cobra flags into the application's configuration and runs
// one app operation per subcommand.
package cli
