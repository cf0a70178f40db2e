// Package workflow implements the rental lifecycle: checkout and
// return. Both operations run their writes as a single atomic unit
// against the transactional store so that partial state is never
// observable.
package workflow

import "errors"

// ErrInvalidReference is returned when a customer, movie or rental
// identifier is malformed before any lookup is attempted.
var ErrInvalidReference = errors.New("invalid reference")

// ErrCustomerNotFound is returned by checkout when the referenced
// customer does not exist.
var ErrCustomerNotFound = errors.New("customer not found")

// ErrMovieNotFound is returned by checkout when the referenced movie
// does not exist.
var ErrMovieNotFound = errors.New("movie not found")

// ErrRentalNotFound is returned by return when the rental does not
// exist.
var ErrRentalNotFound = errors.New("rental not found")

// ErrOutOfStock is returned when a checkout targets a movie with no
// copies available. No rental is created in that case.
var ErrOutOfStock = errors.New("movie not in stock")

// ErrAlreadyReturned is returned when a return targets a rental that is
// already closed. The fee computation never runs twice for a rental.
var ErrAlreadyReturned = errors.New("rental already returned")

// ErrWorkflowAborted is returned when the underlying store fails during
// the atomic unit. The cause is logged by the engine and not carried in
// the error chain; callers receive only this sentinel.
var ErrWorkflowAborted = errors.New("rental workflow aborted")
