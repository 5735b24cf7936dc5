package services

import "errors"

// ErrValidation marks a caller mistake: missing or malformed required
// fields. Never retried.
var ErrValidation = errors.New("validation failed")

// ErrNotFound marks an operation against a nonexistent notification or
// recipient.
var ErrNotFound = errors.New("not found")

// ErrConflict marks a create that collides with an existing record for the
// same recipient, type and scheduled time.
var ErrConflict = errors.New("conflict")
