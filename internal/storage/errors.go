package storage

import "errors"

// Driver-level failure taxonomy. Callers distinguish cases with errors.Is;
// drivers wrap these with context via fmt.Errorf("...: %w", ...).
var (
	// ErrNotFound means a referenced entity ID is absent from the partition
	// it was looked up in.
	ErrNotFound = errors.New("not found")

	// ErrPermissionDenied means the file handle no longer carries a write
	// grant.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrParse means persisted JSON could not be decoded.
	ErrParse = errors.New("parse error")

	// ErrIO means an underlying read or write failed.
	ErrIO = errors.New("io error")

	// ErrUnsupported means the file driver was invoked without file storage
	// being available on this runtime.
	ErrUnsupported = errors.New("file storage not supported")
)
