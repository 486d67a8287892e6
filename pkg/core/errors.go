package core

import "errors"

// Common errors.
var (
	ErrIndexOutOfRange = errors.New("note index out of range")
	ErrNoteNotFound    = errors.New("note not found")
	ErrInvalidNote     = errors.New("invalid note")
	ErrReadOnly        = errors.New("persistence is in read-only mode")
	ErrNotSupported    = errors.New("operation not supported by persistence")
)
