package domain

import "time"

type TicketStatus string

const (
	TicketStatusPaid     TicketStatus = "PAID"
	TicketStatusRefunded TicketStatus = "REFUNDED"
	TicketStatusCanceled TicketStatus = "CANCELED"
)

// CanTransitionTo encodes the one-way status table: PAID may move to
// REFUNDED or CANCELED, both of which are terminal.
func (s TicketStatus) CanTransitionTo(next TicketStatus) bool {
	if s != TicketStatusPaid {
		return false
	}
	return next == TicketStatusRefunded || next == TicketStatusCanceled
}

type Ticket struct {
	ID             int64
	UserID         int64
	FlightID       int64
	Status         TicketStatus
	ConfirmationID string
	PassengerName  string
	PricePaidCents int64
	PurchasedAt    time.Time
	CanceledAt     *time.Time
}

type Passenger struct {
	Name      string
	Birthdate string
}

// FlightPassenger is a manifest row for company managers: a ticket joined
// with the purchasing user's account details.
type FlightPassenger struct {
	TicketID       int64
	UserID         int64
	UserName       string
	UserEmail      string
	PassengerName  string
	Status         TicketStatus
	ConfirmationID string
	PricePaidCents int64
	PurchasedAt    time.Time
	CanceledAt     *time.Time
}
