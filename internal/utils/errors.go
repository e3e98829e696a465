package utils

import "errors"

var (
	ErrUnsupportedType  = errors.New("unsupported file type")
	ErrTooLarge         = errors.New("file size not allowed")
	ErrUploadAborted    = errors.New("upload aborted")
	ErrStorageFailure   = errors.New("storage backend failure")
	ErrStoreUnavailable = errors.New("event store unavailable")
)
