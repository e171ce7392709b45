package models

import "time"

type LoadPlan struct {
	ID             int       `json:"id"`
	FlightID       int       `json:"flight_id"`
	FlightNumber   string    `json:"flight_number,omitempty"` // Denormalized for display
	LatestRevision int       `json:"latest_revision"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// LoadPlanItem is one AWB line item within a load plan revision.
// Revisions are append-only snapshots: rows are created when a parsed
// document is ingested for a revision and never edited afterwards.
// SerialNumber is the stable business key correlating the same logical
// item across revisions; the row ID is storage identity only.
type LoadPlanItem struct {
	ID           int     `json:"id"`
	LoadPlanID   int     `json:"load_plan_id"`
	Revision     int     `json:"revision"`
	SerialNumber *string `json:"serial_number"`

	AWBNumber           *string  `json:"awb_number,omitempty"`
	OriginDestination   *string  `json:"origin_destination,omitempty"`
	Pieces              *int     `json:"pieces,omitempty"`
	Weight              *float64 `json:"weight,omitempty"`
	Volume              *float64 `json:"volume,omitempty"`
	LoadVolume          *float64 `json:"load_volume,omitempty"`
	SHC                 *string  `json:"shc,omitempty"` // Special handling code
	Description         *string  `json:"description,omitempty"`
	ProductCode         *string  `json:"product_code,omitempty"`
	HandlingCharge      *float64 `json:"handling_charge,omitempty"`
	ServiceCharge       *float64 `json:"service_charge,omitempty"`
	BookingStatus       *string  `json:"booking_status,omitempty"`
	Priority            *string  `json:"priority,omitempty"`
	InboundFlight       *string  `json:"inbound_flight,omitempty"`
	ArrivalTime         *string  `json:"arrival_time,omitempty"`
	QuantityCode        *string  `json:"quantity_code,omitempty"`
	PaymentTerms        *string  `json:"payment_terms,omitempty"` // PP / CC
	WarehouseCode       *string  `json:"warehouse_code,omitempty"`
	SpecialInstructions *string  `json:"special_instructions,omitempty"`
	ULDAllocation       *string  `json:"uld_allocation,omitempty"`
	SpecialNotes        *string  `json:"special_notes,omitempty"`
	Sector              *string  `json:"sector,omitempty"`
	RampTransfer        *bool    `json:"ramp_transfer,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateLoadPlanRequest represents the request body for creating a load plan
type CreateLoadPlanRequest struct {
	FlightID int `json:"flight_id"`
}

// IngestRevisionRequest carries one parsed document's line items. The
// server assigns the next revision number; clients never pick one.
type IngestRevisionRequest struct {
	Items []*LoadPlanItem `json:"items"`
}

// IngestRevisionResponse reports the assigned revision and any rows
// that could not be correlated (missing serial number).
type IngestRevisionResponse struct {
	Revision      int `json:"revision"`
	ItemCount     int `json:"item_count"`
	OrphanedItems int `json:"orphaned_items"`
}
