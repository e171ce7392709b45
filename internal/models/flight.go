package models

import "time"

type Flight struct {
	ID           int        `json:"id"`
	FlightNumber string     `json:"flight_number"`
	Origin       string     `json:"origin"`
	Destination  string     `json:"destination"`
	FlightDate   time.Time  `json:"flight_date"`
	ScheduledDep *time.Time `json:"scheduled_departure,omitempty"`
	ScheduledArr *time.Time `json:"scheduled_arrival,omitempty"`
	AircraftType string     `json:"aircraft_type,omitempty"`
	Status       string     `json:"status"` // 'scheduled', 'departed', 'arrived', 'cancelled'
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// CreateFlightRequest represents the request body for creating a flight
type CreateFlightRequest struct {
	FlightNumber string     `json:"flight_number"`
	Origin       string     `json:"origin"`
	Destination  string     `json:"destination"`
	FlightDate   string     `json:"flight_date"` // YYYY-MM-DD
	ScheduledDep *time.Time `json:"scheduled_departure,omitempty"`
	ScheduledArr *time.Time `json:"scheduled_arrival,omitempty"`
	AircraftType string     `json:"aircraft_type"`
}
