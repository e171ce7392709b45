package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"cargo-backend/internal/services"
	"cargo-backend/internal/storage"
	"cargo-backend/internal/timeutil"
)

type ReportHandler struct {
	Service  *services.ReportService
	Archiver *storage.Archiver // nil when archiving is not configured
}

func NewReportHandler(service *services.ReportService, archiver *storage.Archiver) *ReportHandler {
	return &ReportHandler{Service: service, Archiver: archiver}
}

// changeReportFilename builds the download name from the plan's flight number.
func changeReportFilename(data *services.ChangeReportData, ext string) string {
	return fmt.Sprintf("changes_%s_rev%d.%s", data.Plan.FlightNumber, data.Revision, ext)
}

// GetChangeReportCSV handles GET /api/reports/load-plans/{id}/revisions/{revision}/changes/csv
func (h *ReportHandler) GetChangeReportCSV(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := strconv.Atoi(vars["id"])
	if err != nil {
		http.Error(w, "Invalid load plan ID", http.StatusBadRequest)
		return
	}
	revision, err := strconv.Atoi(vars["revision"])
	if err != nil {
		http.Error(w, "Invalid revision", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 60*time.Second)
	defer cancel()

	data, err := h.Service.GetChangeReportData(ctx, id, revision)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to build report: %v", err), http.StatusInternalServerError)
		return
	}
	csvData := h.Service.GenerateChangeCSV(data)

	filename := changeReportFilename(data, "csv")
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", filename))
	w.Write(csvData)
}

// GetChangeReportPDF handles GET /api/reports/load-plans/{id}/revisions/{revision}/changes/pdf
func (h *ReportHandler) GetChangeReportPDF(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := strconv.Atoi(vars["id"])
	if err != nil {
		http.Error(w, "Invalid load plan ID", http.StatusBadRequest)
		return
	}
	revision, err := strconv.Atoi(vars["revision"])
	if err != nil {
		http.Error(w, "Invalid revision", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 60*time.Second)
	defer cancel()

	data, err := h.Service.GetChangeReportData(ctx, id, revision)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to build report: %v", err), http.StatusInternalServerError)
		return
	}
	pdfData, err := h.Service.GenerateChangePDF(data)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to generate PDF: %v", err), http.StatusInternalServerError)
		return
	}

	filename := changeReportFilename(data, "pdf")
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", filename))
	w.Write(pdfData)
}

// GetDailySummaryCSV handles GET /api/reports/daily-summary/csv?date=YYYY-MM-DD
func (h *ReportHandler) GetDailySummaryCSV(w http.ResponseWriter, r *http.Request) {
	date, ok := h.reportDate(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 60*time.Second)
	defer cancel()

	csvData, err := h.Service.GenerateDailySummaryCSV(ctx, date)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to generate CSV: %v", err), http.StatusInternalServerError)
		return
	}

	filename := fmt.Sprintf("daily_summary_%s.csv", date.Format(timeutil.DateLayout))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", filename))
	w.Write(csvData)
}

// GetDailySummaryPDF handles GET /api/reports/daily-summary/pdf?date=YYYY-MM-DD
func (h *ReportHandler) GetDailySummaryPDF(w http.ResponseWriter, r *http.Request) {
	date, ok := h.reportDate(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 60*time.Second)
	defer cancel()

	pdfData, err := h.Service.GenerateDailySummaryPDF(ctx, date)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to generate PDF: %v", err), http.StatusInternalServerError)
		return
	}

	filename := fmt.Sprintf("daily_summary_%s.pdf", date.Format(timeutil.DateLayout))
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", filename))
	w.Write(pdfData)
}

// GetBulkChangePDFZip handles GET /api/reports/changes/pdf?date=YYYY-MM-DD
// Returns a ZIP of one change-report PDF per flight with revisions that day.
func (h *ReportHandler) GetBulkChangePDFZip(w http.ResponseWriter, r *http.Request) {
	date, ok := h.reportDate(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 120*time.Second)
	defer cancel()

	// Generate all PDFs in parallel
	pdfs, err := h.Service.GenerateAllChangePDFs(ctx, date)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to generate PDFs: %v", err), http.StatusInternalServerError)
		return
	}
	if len(pdfs) == 0 {
		http.Error(w, "No revised load plans found for this date", http.StatusNotFound)
		return
	}

	zipData, err := h.Service.CreateBulkPDFZip(pdfs)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to create ZIP: %v", err), http.StatusInternalServerError)
		return
	}

	filename := fmt.Sprintf("change_reports_%s.zip", date.Format(timeutil.DateLayout))
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", filename))
	w.Write(zipData)
}

// ArchiveDailySummary handles POST /api/reports/daily-summary/archive?date=YYYY-MM-DD
// Generates the daily summary PDF and pushes it to the archive bucket.
func (h *ReportHandler) ArchiveDailySummary(w http.ResponseWriter, r *http.Request) {
	if h.Archiver == nil {
		http.Error(w, "Archiving is not configured", http.StatusServiceUnavailable)
		return
	}

	date, ok := h.reportDate(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 120*time.Second)
	defer cancel()

	pdfData, err := h.Service.GenerateDailySummaryPDF(ctx, date)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to generate PDF: %v", err), http.StatusInternalServerError)
		return
	}

	key := fmt.Sprintf("daily-summaries/%s.pdf", date.Format(timeutil.DateLayout))
	if err := h.Archiver.Upload(ctx, key, pdfData, "application/pdf"); err != nil {
		http.Error(w, fmt.Sprintf("Failed to archive report: %v", err), http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"archived": key})
}

func (h *ReportHandler) reportDate(w http.ResponseWriter, r *http.Request) (time.Time, bool) {
	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		return timeutil.StartOfDay(timeutil.Now()), true
	}
	date, err := timeutil.ParseDate(dateStr)
	if err != nil {
		http.Error(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
		return time.Time{}, false
	}
	return date, true
}
