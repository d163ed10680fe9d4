package domain

import "time"

type Flight struct {
	ID              int64
	CompanyID       int64
	FlightNumber    string
	Origin          string
	Destination     string
	DepartureTime   time.Time
	ArrivalTime     time.Time
	DurationMinutes int
	Stops           int
	PriceCents      int64
	SeatsTotal      int
	SeatsAvailable  int
	Active          bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// FlightFilter narrows a public flight search. Zero values mean "no filter".
type FlightFilter struct {
	Origin        string
	Destination   string
	DepartureDate *time.Time // day window [date, date+24h)
	Passengers    int        // minimum seats available
	MinPriceCents *int64
	MaxPriceCents *int64
	Stops         *int
	Airline       string // company name, partial match
	Sort          string // "price" or "departure_time"
	Limit         int
	Offset        int
}
