package domain

import "time"

// BookingAggregate is a derived grouping of tickets by confirmation id.
// It is computed on read and never persisted.
type BookingAggregate struct {
	ConfirmationID   string
	CompanyID        *int64 // nil when the flight record is gone
	TotalAmountCents int64
	PurchasedAt      time.Time // earliest member timestamp
}

type PlatformStats struct {
	TotalUsers        int64
	TotalCompanies    int64
	TotalFlights      int64
	ActiveFlights     int64
	CompletedFlights  int64
	TotalPassengers   int64
	TotalRevenueCents int64
}

type CompanyStats struct {
	TotalFlights      int64
	ActiveFlights     int64
	CompletedFlights  int64
	TotalPassengers   int64
	TotalRevenueCents int64
}
