package models

import "time"

type ULD struct {
	ID            int       `json:"id"`
	ULDNumber     string    `json:"uld_number"` // e.g. PMC12345CX
	ULDType       string    `json:"uld_type"`   // pallet, container...
	FlightID      *int      `json:"flight_id,omitempty"`
	FlightNumber  string    `json:"flight_number,omitempty"` // Denormalized for display
	CurrentStatus int       `json:"current_status"`          // 0 = no history yet
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ULDStatusEvent is one entry in a ULD's append-only status history.
type ULDStatusEvent struct {
	ID         int       `json:"id"`
	ULDID      int       `json:"uld_id"`
	Status     int       `json:"status"`
	Timestamp  time.Time `json:"timestamp"`
	ChangedBy  int       `json:"changed_by"`
	Backfilled bool      `json:"backfilled"` // Synthesized to fill a skipped stage
}

// CreateULDRequest represents the request body for registering a ULD
type CreateULDRequest struct {
	ULDNumber string `json:"uld_number"`
	ULDType   string `json:"uld_type"`
	FlightID  *int   `json:"flight_id,omitempty"`
}

// UpdateULDStatusRequest represents the request body for a status update.
// Mode 'strict' rejects when earlier stages are missing; 'backfill'
// synthesizes the missing entries first.
type UpdateULDStatusRequest struct {
	Status int    `json:"status"`
	Mode   string `json:"mode"` // 'strict' (default) or 'backfill'
}
