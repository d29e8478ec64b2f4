package main

import "github.com/matzehuels/patchbay/pkg/errors"

// Exit codes reported by the patchbay CLI.
const (
	ExitSuccess     = 0   // Success
	ExitError       = 1   // General error (invalid arguments, runtime failure)
	ExitConfigError = 2   // Configuration error (invalid config file)
	ExitDataError   = 3   // Data error (malformed document, library, or validation failure)
	ExitNotFound    = 4   // Resource not found (block type, file, revision)
	ExitStorage     = 5   // Revision store failure
	ExitInterrupted = 130 // Standard shell convention for SIGINT
)

// exitCode maps a coded error to a process exit code.
func exitCode(err error) int {
	switch errors.GetCode(err) {
	case "":
		return ExitError
	case errors.ErrCodeInvalidConfig:
		return ExitConfigError
	case errors.ErrCodeInvalidDocument, errors.ErrCodeInvalidLibrary,
		errors.ErrCodeTypeMismatch, errors.ErrCodeInvalidTopology,
		errors.ErrCodeInvalidInput, errors.ErrCodeInvalidPath:
		return ExitDataError
	case errors.ErrCodeNotFound, errors.ErrCodeBlockNotFound,
		errors.ErrCodeFileNotFound, errors.ErrCodeRevisionNotFound:
		return ExitNotFound
	case errors.ErrCodeStorage:
		return ExitStorage
	default:
		return ExitError
	}
}
