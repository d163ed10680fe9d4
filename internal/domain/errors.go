package domain

import "errors"

// Sentinel errors returned by services. Handlers map these to HTTP statuses.
var (
	// ErrNotFound covers both absent entities and entities the actor is
	// not allowed to see, so ownership is never leaked.
	ErrNotFound = errors.New("not found")

	// ErrInsufficientSeats is a business-rule rejection: nothing was mutated.
	ErrInsufficientSeats = errors.New("not enough seats available")

	// ErrBookingFailed means the booking transaction did not commit.
	// No partial state survives; the request is safe to retry.
	ErrBookingFailed = errors.New("booking failed")

	// ErrTicketNotCancelable is returned when the ticket already left
	// the PAID state.
	ErrTicketNotCancelable = errors.New("ticket is not cancelable")

	// ErrNoPassengers rejects a booking request with an empty or invalid
	// passenger list before any store call.
	ErrNoPassengers = errors.New("at least one passenger is required")

	ErrEmailTaken       = errors.New("email already registered")
	ErrInvalidLogin     = errors.New("invalid email or password")
	ErrUserInactive     = errors.New("user is inactive")
	ErrNoCompany        = errors.New("no company assigned")
	ErrCompanyNameTaken = errors.New("company with this name already exists")
	ErrInvalidManager   = errors.New("user is not a company manager")
	ErrFlightHasTickets = errors.New("flight has existing tickets")
)
