package cli

// Exit codes for the relog CLI
// These codes support programmatic composition and CI integration
const (
	// ExitSuccess indicates the command completed normally
	ExitSuccess = 0

	// ExitRuntimeError indicates a repository or output failure
	ExitRuntimeError = 1

	// ExitConfigError indicates the configuration failed to load or validate
	ExitConfigError = 2

	// ExitInvalidArguments indicates invalid command arguments
	ExitInvalidArguments = 3
)
