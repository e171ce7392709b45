package services

import (
	"strings"

	"cargo-backend/internal/models"
)

// comparableField binds a field name (the key used in persisted
// field_changes payloads) to its raw-value extractor. Structural
// columns (id, load_plan_id, revision, created_at, updated_at) are
// deliberately absent: they differ across revisions without
// representing a business change.
type comparableField struct {
	Name string
	Get  func(*models.LoadPlanItem) interface{}
}

var comparableFields = []comparableField{
	{"awb_number", func(it *models.LoadPlanItem) interface{} { return strVal(it.AWBNumber) }},
	{"origin_destination", func(it *models.LoadPlanItem) interface{} { return strVal(it.OriginDestination) }},
	{"pieces", func(it *models.LoadPlanItem) interface{} { return intVal(it.Pieces) }},
	{"weight", func(it *models.LoadPlanItem) interface{} { return floatVal(it.Weight) }},
	{"volume", func(it *models.LoadPlanItem) interface{} { return floatVal(it.Volume) }},
	{"load_volume", func(it *models.LoadPlanItem) interface{} { return floatVal(it.LoadVolume) }},
	{"shc", func(it *models.LoadPlanItem) interface{} { return strVal(it.SHC) }},
	{"description", func(it *models.LoadPlanItem) interface{} { return strVal(it.Description) }},
	{"product_code", func(it *models.LoadPlanItem) interface{} { return strVal(it.ProductCode) }},
	{"handling_charge", func(it *models.LoadPlanItem) interface{} { return floatVal(it.HandlingCharge) }},
	{"service_charge", func(it *models.LoadPlanItem) interface{} { return floatVal(it.ServiceCharge) }},
	{"booking_status", func(it *models.LoadPlanItem) interface{} { return strVal(it.BookingStatus) }},
	{"priority", func(it *models.LoadPlanItem) interface{} { return strVal(it.Priority) }},
	{"inbound_flight", func(it *models.LoadPlanItem) interface{} { return strVal(it.InboundFlight) }},
	{"arrival_time", func(it *models.LoadPlanItem) interface{} { return strVal(it.ArrivalTime) }},
	{"quantity_code", func(it *models.LoadPlanItem) interface{} { return strVal(it.QuantityCode) }},
	{"payment_terms", func(it *models.LoadPlanItem) interface{} { return strVal(it.PaymentTerms) }},
	{"warehouse_code", func(it *models.LoadPlanItem) interface{} { return strVal(it.WarehouseCode) }},
	{"special_instructions", func(it *models.LoadPlanItem) interface{} { return strVal(it.SpecialInstructions) }},
	{"uld_allocation", func(it *models.LoadPlanItem) interface{} { return strVal(it.ULDAllocation) }},
	{"special_notes", func(it *models.LoadPlanItem) interface{} { return strVal(it.SpecialNotes) }},
	{"sector", func(it *models.LoadPlanItem) interface{} { return strVal(it.Sector) }},
	{"ramp_transfer", func(it *models.LoadPlanItem) interface{} { return boolVal(it.RampTransfer) }},
}

func strVal(p *string) interface{} {
	if p == nil {
		return nil
	}
	return *p
}

func intVal(p *int) interface{} {
	if p == nil {
		return nil
	}
	return *p
}

func floatVal(p *float64) interface{} {
	if p == nil {
		return nil
	}
	return *p
}

func boolVal(p *bool) interface{} {
	if p == nil {
		return nil
	}
	return *p
}

// normalizeValue decides what a value "is" for comparison purposes:
// nil stays nil, strings are trimmed and an empty result counts as
// nil, numbers and booleans pass through untouched (zero and false
// are meaningful values, not "empty").
func normalizeValue(v interface{}) interface{} {
	if v == nil {
		return nil
	}
	if s, ok := v.(string); ok {
		trimmed := strings.TrimSpace(s)
		if trimmed == "" {
			return nil
		}
		return trimmed
	}
	return v
}

// valuesDiffer compares two raw values under normalization. Both nil
// after normalization means equal; exactly one nil means different;
// otherwise strict (case-sensitive) equality decides.
func valuesDiffer(a, b interface{}) bool {
	na := normalizeValue(a)
	nb := normalizeValue(b)

	if na == nil && nb == nil {
		return false
	}
	if (na == nil) != (nb == nil) {
		return true
	}
	return na != nb
}

// compareItems returns a delta for every comparable field whose
// normalized values differ between the two snapshots. The deltas
// carry the raw (pre-normalization) values; an empty map means the
// items are equivalent and no change record should be emitted.
func compareItems(original, revised *models.LoadPlanItem) map[string]models.FieldDelta {
	deltas := make(map[string]models.FieldDelta)
	for _, f := range comparableFields {
		oldVal := f.Get(original)
		newVal := f.Get(revised)
		if valuesDiffer(oldVal, newVal) {
			deltas[f.Name] = models.FieldDelta{Old: oldVal, New: newVal}
		}
	}
	return deltas
}

// serialKey returns the correlation key for an item, or "" when the
// item cannot participate in comparison (missing serial number).
func serialKey(it *models.LoadPlanItem) string {
	if it.SerialNumber == nil {
		return ""
	}
	return strings.TrimSpace(*it.SerialNumber)
}
