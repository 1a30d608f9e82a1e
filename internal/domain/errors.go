package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist in the database.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. non-positive amount, usage date before payment date).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrForbidden is returned when the acting user lacks the required role on a
// trip (e.g. a viewer attempting to record an expense).
// Handlers should map this to HTTP 403.
var ErrForbidden = errors.New("forbidden")

// ErrTripClosed is returned when a write is attempted against a closed trip.
// Handlers should map this to HTTP 409 Conflict.
var ErrTripClosed = errors.New("trip is closed")
