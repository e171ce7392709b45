package services

import (
	"fmt"
	"sort"

	"cargo-backend/internal/models"
)

// ULD handling lifecycle. Statuses advance chronologically and only
// forward; a unit cannot be stored before the handler has received it.
const (
	StatusOnAircraft         = 1
	StatusReceivedByHandler  = 2
	StatusTunnelInducted     = 3
	StatusStored             = 4
	StatusBreakdownCompleted = 5

	StatusTerminal = StatusBreakdownCompleted
)

var statusNames = map[int]string{
	StatusOnAircraft:         "On Aircraft",
	StatusReceivedByHandler:  "Received by Handler",
	StatusTunnelInducted:     "Tunnel Inducted",
	StatusStored:             "Stored",
	StatusBreakdownCompleted: "Breakdown Completed",
}

// StatusName returns the display name for a lifecycle status
func StatusName(status int) string {
	if name, ok := statusNames[status]; ok {
		return name
	}
	return fmt.Sprintf("Unknown (%d)", status)
}

// TransitionResult reports whether a target status may be recorded.
// A missing prerequisite is a normal outcome, not an error: the
// caller chooses between rejecting and backfilling the gap.
type TransitionResult struct {
	IsValid         bool   `json:"is_valid"`
	MissingStatuses []int  `json:"missing_statuses"`
	Message         string `json:"message,omitempty"`
}

// ValidateTransition checks that every status strictly before target
// is already present in history. Only presence matters; the order the
// entries were recorded in is irrelevant.
func ValidateTransition(history []*models.ULDStatusEvent, target int) TransitionResult {
	if target < StatusOnAircraft || target > StatusTerminal {
		return TransitionResult{
			IsValid: false,
			Message: fmt.Sprintf("invalid status %d: must be between %d and %d", target, StatusOnAircraft, StatusTerminal),
		}
	}

	present := presentStatuses(history)

	var missing []int
	for status := StatusOnAircraft; status < target; status++ {
		if !present[status] {
			missing = append(missing, status)
		}
	}
	sort.Ints(missing)

	if len(missing) > 0 {
		return TransitionResult{
			IsValid:         false,
			MissingStatuses: missing,
			Message:         fmt.Sprintf("cannot record %q: %d earlier stage(s) missing", StatusName(target), len(missing)),
		}
	}

	return TransitionResult{IsValid: true}
}

// NextAllowedStatuses returns the single next stage based on the
// highest status present: [1] for an empty history, empty at the
// terminal stage.
func NextAllowedStatuses(history []*models.ULDStatusEvent) []int {
	highest := 0
	for _, e := range history {
		if e.Status > highest && e.Status <= StatusTerminal {
			highest = e.Status
		}
	}

	if highest >= StatusTerminal {
		return []int{}
	}
	return []int{highest + 1}
}

func presentStatuses(history []*models.ULDStatusEvent) map[int]bool {
	present := make(map[int]bool, len(history))
	for _, e := range history {
		present[e.Status] = true
	}
	return present
}
