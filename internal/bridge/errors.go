package bridge

import "errors"

// Error categories. Every error leaving this package wraps exactly one of
// these sentinels, so callers classify with errors.Is and map the category to
// a transport-level status without parsing messages.
var (
	// ErrConfig marks a required connection value that is missing.
	ErrConfig = errors.New("config error")

	// ErrConnection marks a network connect, handshake, or auth failure.
	ErrConnection = errors.New("connection error")

	// ErrRemote marks a failed remote filesystem or exec operation.
	ErrRemote = errors.New("remote error")

	// ErrLocalIO marks a local file or directory failure.
	ErrLocalIO = errors.New("local io error")

	// ErrArchive marks an archive write or finalize failure.
	ErrArchive = errors.New("archive error")

	// ErrPath marks a name that cannot be used as a path component.
	ErrPath = errors.New("path error")
)
