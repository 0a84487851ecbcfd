package domain

import "time"

type Flight struct {
	ID            int64
	FlightNumber  string
	AirlineID     int64
	Origin        string
	Destination   string
	DepartureTime time.Time
	ArrivalTime   time.Time
	CreatedAt     time.Time
}

type Airline struct {
	ID   int64
	Name string
	Code string
}

// FlightDetails is a flight joined with its carrier for display.
type FlightDetails struct {
	Flight
	AirlineName string
	AirlineCode string
}
