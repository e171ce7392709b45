package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"cargo-backend/internal/models"
	"cargo-backend/internal/services"
)

func TestChangeReportFilenameUsesFlightNumber(t *testing.T) {
	data := &services.ChangeReportData{
		Plan:     &models.LoadPlan{FlightNumber: "CX880"},
		Revision: 3,
	}

	assert.Equal(t, "changes_CX880_rev3.csv", changeReportFilename(data, "csv"))
	assert.Equal(t, "changes_CX880_rev3.pdf", changeReportFilename(data, "pdf"))
}
