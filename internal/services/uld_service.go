package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cargo-backend/internal/metrics"
	"cargo-backend/internal/models"
	"cargo-backend/internal/timeutil"
)

// Status update modes
const (
	ModeStrict   = "strict"
	ModeBackfill = "backfill"
)

// ErrTransitionRejected wraps a strict-mode rejection; the handler
// maps it to a 409 with the validator result attached.
var ErrTransitionRejected = errors.New("status transition rejected")

// ULDStore is the storage adapter for the tracking workflow
type ULDStore interface {
	Get(ctx context.Context, id int) (*models.ULD, error)
	History(ctx context.Context, uldID int) ([]*models.ULDStatusEvent, error)
	AppendStatusEvents(ctx context.Context, uldID int, events []*models.ULDStatusEvent) error
}

// StatusBroadcaster pushes live updates to connected tracking screens
type StatusBroadcaster interface {
	BroadcastStatus(update StatusUpdate)
}

// StatusUpdate is the payload pushed over the live tracking feed
type StatusUpdate struct {
	ULDID      int       `json:"uld_id"`
	ULDNumber  string    `json:"uld_number"`
	Status     int       `json:"status"`
	StatusName string    `json:"status_name"`
	Timestamp  time.Time `json:"timestamp"`
	ChangedBy  int       `json:"changed_by"`
	Backfilled bool      `json:"backfilled"`
}

type ULDService struct {
	Store       ULDStore
	Broadcaster StatusBroadcaster // optional
}

func NewULDService(store ULDStore, broadcaster StatusBroadcaster) *ULDService {
	return &ULDService{Store: store, Broadcaster: broadcaster}
}

// RecordStatus records a status for a ULD. In strict mode a transition
// with missing earlier stages is rejected and the validator result is
// returned alongside ErrTransitionRejected. In backfill mode entries
// for every missing stage are synthesized first, timestamped now and
// attributed to the acting user, then the target is recorded.
func (s *ULDService) RecordStatus(ctx context.Context, uldID, target, userID int, mode string) ([]*models.ULDStatusEvent, TransitionResult, error) {
	if mode == "" {
		mode = ModeStrict
	}
	if mode != ModeStrict && mode != ModeBackfill {
		return nil, TransitionResult{}, fmt.Errorf("unknown mode %q", mode)
	}

	uld, err := s.Store.Get(ctx, uldID)
	if err != nil {
		return nil, TransitionResult{}, fmt.Errorf("load uld %d: %w", uldID, err)
	}

	history, err := s.Store.History(ctx, uldID)
	if err != nil {
		return nil, TransitionResult{}, fmt.Errorf("load status history: %w", err)
	}

	result := ValidateTransition(history, target)
	if !result.IsValid && len(result.MissingStatuses) == 0 {
		// Invalid target value, not a missing-prerequisite case
		return nil, result, fmt.Errorf("%w: %s", ErrTransitionRejected, result.Message)
	}
	if !result.IsValid && mode == ModeStrict {
		return nil, result, ErrTransitionRejected
	}

	now := timeutil.Now()
	var events []*models.ULDStatusEvent
	for _, missing := range result.MissingStatuses {
		events = append(events, &models.ULDStatusEvent{
			Status:     missing,
			Timestamp:  now,
			ChangedBy:  userID,
			Backfilled: true,
		})
	}
	if !statusPresent(history, target) {
		events = append(events, &models.ULDStatusEvent{
			Status:    target,
			Timestamp: now,
			ChangedBy: userID,
		})
	}

	if len(events) == 0 {
		// Re-recording an already present status is a no-op
		return nil, result, nil
	}

	if err := s.Store.AppendStatusEvents(ctx, uldID, events); err != nil {
		return nil, result, err
	}

	metrics.ULDStatusUpdates.Inc()
	for _, e := range events {
		if e.Backfilled {
			metrics.ULDStatusBackfills.Inc()
		}
		if s.Broadcaster != nil {
			s.Broadcaster.BroadcastStatus(StatusUpdate{
				ULDID:      uldID,
				ULDNumber:  uld.ULDNumber,
				Status:     e.Status,
				StatusName: StatusName(e.Status),
				Timestamp:  e.Timestamp,
				ChangedBy:  e.ChangedBy,
				Backfilled: e.Backfilled,
			})
		}
	}

	return events, result, nil
}

// NextStatus reports the single allowed next stage for a ULD
func (s *ULDService) NextStatus(ctx context.Context, uldID int) ([]int, error) {
	history, err := s.Store.History(ctx, uldID)
	if err != nil {
		return nil, fmt.Errorf("load status history: %w", err)
	}
	return NextAllowedStatuses(history), nil
}

func statusPresent(history []*models.ULDStatusEvent, status int) bool {
	for _, e := range history {
		if e.Status == status {
			return true
		}
	}
	return false
}
