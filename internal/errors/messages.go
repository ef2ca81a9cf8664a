package errors

import "fmt"

// Common error messages for the relog CLI.
// These templates ensure consistent, actionable error messages.

// NotARepository creates an error when no git repository can be found.
func NotARepository(path string) *CLIError {
	return NewRuntimeError(
		fmt.Sprintf("no git repository found at %s", path),
		"Run relog inside a repository, or point at one with --repo-path",
		"Initialize a new repository with: git init",
	)
}

// ConfigFileNotFound creates an error for a missing config file.
func ConfigFileNotFound(path string) *CLIError {
	return NewConfigError(
		fmt.Sprintf("config file not found: %s", path),
		"Run 'relog init' to create a starter configuration",
		"Or drop the --config flag to use the built-in defaults",
	)
}

// ConfigParseError creates an error for an unreadable config file.
func ConfigParseError(path string, err error) *CLIError {
	return WrapWithMessage(err, Configuration,
		fmt.Sprintf("failed to parse config file: %s", path),
		"Check the file for YAML or JSON syntax errors",
		"Validate the configuration with: relog check",
		"Recreate it with: relog init --force",
	)
}

// ConfigInvalid creates an error for configuration that parsed but failed validation.
func ConfigInvalid(err error) *CLIError {
	return WrapWithMessage(err, Configuration,
		"invalid configuration",
		"Validate the configuration with: relog check",
		"group_rules must end with a catch-all pattern such as '.*'",
	)
}

// InvalidFlagCombination creates an error for incompatible flag combinations.
func InvalidFlagCombination(flags string, reason string) *CLIError {
	return NewArgumentError(
		fmt.Sprintf("invalid flag combination: %s", flags),
		reason,
		"Use 'relog --help' to see valid options",
	)
}

// OutputNotWritable creates an error when the changelog file cannot be written.
func OutputNotWritable(path string, err error) *CLIError {
	return WrapWithMessage(err, Runtime,
		fmt.Sprintf("cannot write changelog to %s", path),
		"Check file permissions: ls -la "+path,
		"Ensure the parent directory exists and is writable",
	)
}

// NoRemoteURL creates an error when PR links cannot be resolved.
func NoRemoteURL() *CLIError {
	return NewConfigError(
		"no repository URL for pull-request links",
		"Set repo_url in the configuration file",
		"Or add an 'origin' remote to the repository",
	)
}
