package cloudgrab

import "errors"

// Failure categories for a download operation, in the order they can occur.
// Validation and launch failures are returned synchronously from Session.Start;
// runtime failures are only observable through operation state.
var (
	// ErrValidation covers bad URLs, disallowed paths and dangerous arguments.
	// Nothing is spawned after a validation failure.
	ErrValidation = errors.New("validation failed")
	// ErrLaunch covers a missing downloader executable or an OS-level spawn failure.
	ErrLaunch = errors.New("failed to launch downloader")
	// ErrRuntime covers a nonzero downloader exit with no files produced.
	ErrRuntime = errors.New("downloader failed")
)
