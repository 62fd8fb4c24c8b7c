// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow handlers to distinguish
// between different failure scenarios without inspecting driver errors.
package repository

import "errors"

// ErrDuplicate is returned when an insert collides with an existing row,
// such as registering a user with an email that is already taken.
// Handlers should translate this into an HTTP 409 response.
var ErrDuplicate = errors.New("duplicate")

// ErrNotFound is returned when a lookup yields no row. Handlers should
// translate this into an HTTP 404 response.
var ErrNotFound = errors.New("not found")
