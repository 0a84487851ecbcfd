package domain

import "errors"

var (
	// ErrInvalidRoute: origin equals destination in a search or booking request.
	ErrInvalidRoute = errors.New("origin and destination must differ")

	// Flight-sequence validation failures.
	ErrInvalidSequence        = errors.New("one or more flight ids do not exist")
	ErrRouteBreak             = errors.New("consecutive flights do not share a connecting airport")
	ErrInsufficientConnection = errors.New("connection time below minimum")
	ErrConnectionTooLong      = errors.New("connection time above maximum")

	ErrInvalidFlights = errors.New("requested flights could not be resolved")
	ErrRouteMismatch  = errors.New("flight sequence does not match requested origin/destination")

	ErrNotFound = errors.New("booking not found")

	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidTransition covers a missing booking, a booking in the wrong
	// state, or a lost race against a concurrent transition. Callers re-fetch
	// the booking to disambiguate.
	ErrInvalidTransition = errors.New("booking cannot transition from its current status")

	ErrReferenceGeneration = errors.New("could not generate booking reference")
)
