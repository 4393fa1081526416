package progression

import "errors"

// Error taxonomy shared by every component. Services wrap these with context;
// handlers map them to HTTP status codes with errors.Is.
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidState = errors.New("invalid state")
	ErrOutOfRange   = errors.New("out of range")
)
