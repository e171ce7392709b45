package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cargo-backend/internal/models"
)

func history(statuses ...int) []*models.ULDStatusEvent {
	events := make([]*models.ULDStatusEvent, 0, len(statuses))
	for i, s := range statuses {
		events = append(events, &models.ULDStatusEvent{ID: i + 1, Status: s})
	}
	return events
}

func TestValidateTransition_FirstStageOnEmptyHistory(t *testing.T) {
	result := ValidateTransition(nil, StatusOnAircraft)
	assert.True(t, result.IsValid)
	assert.Empty(t, result.MissingStatuses)
}

func TestValidateTransition_SkippingStagesReportsEveryGap(t *testing.T) {
	result := ValidateTransition(nil, StatusTunnelInducted)
	assert.False(t, result.IsValid)
	assert.Equal(t, []int{StatusOnAircraft, StatusReceivedByHandler}, result.MissingStatuses)
	assert.NotEmpty(t, result.Message)
}

func TestValidateTransition_SequentialAdvanceIsValid(t *testing.T) {
	result := ValidateTransition(history(1, 2), StatusTunnelInducted)
	assert.True(t, result.IsValid)
	assert.Empty(t, result.MissingStatuses)
}

func TestValidateTransition_SinglePrerequisiteMissing(t *testing.T) {
	result := ValidateTransition(history(1, 3), StatusStored)
	assert.False(t, result.IsValid)
	assert.Equal(t, []int{StatusReceivedByHandler}, result.MissingStatuses)
}

func TestValidateTransition_RecordingOrderIsIrrelevant(t *testing.T) {
	// History rows appended out of chronological order still count
	result := ValidateTransition(history(3, 1, 2), StatusStored)
	assert.True(t, result.IsValid)
}

func TestValidateTransition_OutOfRangeTarget(t *testing.T) {
	for _, target := range []int{0, -1, 6, 99} {
		result := ValidateTransition(history(1, 2, 3, 4, 5), target)
		assert.False(t, result.IsValid, "target %d", target)
		assert.Empty(t, result.MissingStatuses, "target %d is invalid, not a gap", target)
	}
}

func TestNextAllowedStatuses(t *testing.T) {
	tests := []struct {
		name    string
		history []*models.ULDStatusEvent
		want    []int
	}{
		{"empty history starts at stage one", nil, []int{StatusOnAircraft}},
		{"single stage recorded", history(1), []int{StatusReceivedByHandler}},
		{"follows highest stage even with gaps", history(1, 3), []int{StatusStored}},
		{"full sequence", history(1, 2, 3, 4), []int{StatusBreakdownCompleted}},
		{"terminal stage has no successor", history(1, 2, 3, 4, 5), []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NextAllowedStatuses(tt.history))
		})
	}
}

func TestNextAllowedStatuses_IgnoresOutOfRangeEntries(t *testing.T) {
	// A corrupt row above the terminal stage must not push "next" past the lifecycle
	next := NextAllowedStatuses(history(1, 9))
	require.Equal(t, []int{StatusReceivedByHandler}, next)
}

func TestStatusName(t *testing.T) {
	assert.Equal(t, "On Aircraft", StatusName(StatusOnAircraft))
	assert.Equal(t, "Breakdown Completed", StatusName(StatusBreakdownCompleted))
	assert.Equal(t, "Unknown (7)", StatusName(7))
}
