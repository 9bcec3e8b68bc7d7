// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios without
// inspecting driver-specific errors.
package repository

import "errors"

// ErrLoadingNotFound is returned when a loading report referenced by id
// does not exist. Handlers should translate this into an HTTP 404.
var ErrLoadingNotFound = errors.New("loading not found")

// ErrUsernameExists is returned when creating a user whose username is
// already taken. Handlers should translate this into an HTTP 409.
var ErrUsernameExists = errors.New("username already exists")
