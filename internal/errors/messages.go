package errors

import "fmt"

// Common error messages for the spec-dock CLI.
// These templates keep messages consistent and actionable.

// InvalidTarget creates an error for a target path that is missing or not a directory.
func InvalidTarget(path string, cause error) *CLIError {
	err := NewArgumentError(
		fmt.Sprintf("target path is not a directory: %s", path),
		"Create the directory first: mkdir -p "+path,
		"Or pass an existing project directory: spec-dock init <path>",
	)
	err.Cause = cause
	return err
}

// AlreadyInitialized creates an error for init against an existing .spec-dock.
func AlreadyInitialized(message string, cause error) *CLIError {
	err := NewPrerequisiteError(
		message,
		"Refresh managed files with: spec-dock update",
		"Or re-scaffold with: spec-dock init --force",
		"Add --reset-current to discard .spec-dock/current",
	)
	err.Cause = cause
	return err
}

// MissingAsset creates an error for an incomplete asset bundle.
func MissingAsset(message string, cause error) *CLIError {
	err := newError(Packaging, message, []string{
		"This spec-dock build is missing bundled files; reinstall spec-dock",
		"If you set assets_dir (or SPEC_DOCK_ASSETS_DIR), check that it points at a complete bundle",
	})
	err.Cause = cause
	return err
}

// ConfigLoadError creates an error for a configuration file or value that
// could not be loaded.
func ConfigLoadError(err error) *CLIError {
	return WrapWithMessage(err, Configuration,
		"failed to load configuration",
		"Check the file passed with --config or ~/.config/spec-dock/config.yml",
		"Check SPEC_DOCK_* environment variables",
	)
}

// InstallFailed wraps an unexpected filesystem failure during init or update.
func InstallFailed(command string, err error) *CLIError {
	return WrapWithMessage(err, Runtime,
		fmt.Sprintf("%s failed", command),
		"Check permissions on the target directory",
		"Re-run with --debug for step-by-step logs",
	)
}
