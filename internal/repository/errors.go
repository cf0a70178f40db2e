// Package repository defines error values that are reused across
// multiple repositories. These sentinel values allow higher layers such
// as handlers and the rental workflow to distinguish between different
// failure scenarios without inspecting driver-specific errors.
package repository

import "errors"

// ErrCustomerNotFound is returned when a customer cannot be found.
var ErrCustomerNotFound = errors.New("customer not found")

// ErrGenreNotFound is returned when a genre cannot be found.
var ErrGenreNotFound = errors.New("genre not found")

// ErrMovieNotFound is returned when a movie cannot be found.
var ErrMovieNotFound = errors.New("movie not found")

// ErrRentalNotFound is returned when a rental cannot be found.
var ErrRentalNotFound = errors.New("rental not found")

// ErrConflict is returned when an insert or update collides with
// existing state, such as creating a genre whose name is already taken.
// Handlers should translate this into an HTTP 409 response.
var ErrConflict = errors.New("conflict")

// ErrEmailExists is returned when a user registration collides with an
// existing email address. Handlers should translate this into an HTTP
// 400 response.
var ErrEmailExists = errors.New("email already registered")

// ErrTokenInvalid is returned when a refresh token is unknown, revoked
// or expired.
var ErrTokenInvalid = errors.New("refresh token invalid")
