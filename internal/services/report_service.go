package services

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"cargo-backend/internal/models"
	"cargo-backend/internal/repositories"
	"cargo-backend/internal/timeutil"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jung-kurt/gofpdf/v2"
)

// ChangeReportData holds everything for one revision-change report
type ChangeReportData struct {
	Plan     *models.LoadPlan
	Revision int
	Changes  []*models.LoadPlanChange
	Added    int
	Modified int
	Deleted  int
}

// DailySummaryData holds data for the daily station summary report
type DailySummaryData struct {
	Date         time.Time
	Flights      []*models.Flight
	TotalFlights int
	TotalWeight  float64
	TotalPieces  int
}

// ReportService handles report generation
type ReportService struct {
	DB         *pgxpool.Pool
	PlanRepo   *repositories.LoadPlanRepository
	ChangeRepo *repositories.LoadPlanChangeRepository
	FlightRepo *repositories.FlightRepository
}

func NewReportService(
	db *pgxpool.Pool,
	planRepo *repositories.LoadPlanRepository,
	changeRepo *repositories.LoadPlanChangeRepository,
	flightRepo *repositories.FlightRepository,
) *ReportService {
	return &ReportService{
		DB:         db,
		PlanRepo:   planRepo,
		ChangeRepo: changeRepo,
		FlightRepo: flightRepo,
	}
}

// GetChangeReportData fetches the persisted change list for a revision
func (s *ReportService) GetChangeReportData(ctx context.Context, loadPlanID, revision int) (*ChangeReportData, error) {
	plan, err := s.PlanRepo.Get(ctx, loadPlanID)
	if err != nil {
		return nil, fmt.Errorf("load plan not found: %w", err)
	}

	changes, err := s.ChangeRepo.ListByRevision(ctx, loadPlanID, revision)
	if err != nil {
		return nil, err
	}

	data := &ChangeReportData{Plan: plan, Revision: revision, Changes: changes}
	for _, c := range changes {
		switch c.ChangeType {
		case models.ChangeTypeAdded:
			data.Added++
		case models.ChangeTypeModified:
			data.Modified++
		case models.ChangeTypeDeleted:
			data.Deleted++
		}
	}
	return data, nil
}

// GenerateChangeCSV renders the change report as CSV
func (s *ReportService) GenerateChangeCSV(data *ChangeReportData) []byte {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	w.Write([]string{"Load Plan Change Report", data.Plan.FlightNumber, fmt.Sprintf("Revision %d", data.Revision)})
	w.Write([]string{"Generated", timeutil.Now().Format(timeutil.DateTimeLayout)})
	w.Write([]string{""})
	w.Write([]string{"Added", fmt.Sprintf("%d", data.Added)})
	w.Write([]string{"Modified", fmt.Sprintf("%d", data.Modified)})
	w.Write([]string{"Deleted", fmt.Sprintf("%d", data.Deleted)})
	w.Write([]string{""})

	w.Write([]string{"#", "Serial", "Change", "AWB", "Field", "Old", "New"})

	row := 1
	for _, c := range data.Changes {
		awb := snapshotAWB(c)

		if c.ChangeType != models.ChangeTypeModified {
			w.Write([]string{
				fmt.Sprintf("%d", row), c.SerialNumber, strings.ToUpper(c.ChangeType), awb, "", "", "",
			})
			row++
			continue
		}

		for _, field := range sortedFieldNames(c.FieldChanges) {
			delta := c.FieldChanges[field]
			w.Write([]string{
				fmt.Sprintf("%d", row), c.SerialNumber, "MODIFIED", awb,
				field, formatDeltaValue(delta.Old), formatDeltaValue(delta.New),
			})
			row++
		}
	}

	w.Flush()
	return buf.Bytes()
}

// GenerateChangePDF renders the change report as PDF
func (s *ReportService) GenerateChangePDF(data *ChangeReportData) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "") // Landscape for the delta columns
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	// Header
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(277, 10, "Load Plan Change Report", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(277, 8, fmt.Sprintf("Flight %s - Revision %d", data.Plan.FlightNumber, data.Revision), "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(277, 6, fmt.Sprintf("Generated: %s UTC", timeutil.Now().Format(timeutil.DisplayLayout)), "", 1, "C", false, 0, "")
	pdf.Ln(5)

	// Summary box
	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(277, 8, "Summary", "1", 1, "L", true, 0, "")
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(92, 8, fmt.Sprintf("Added: %d", data.Added), "1", 0, "C", false, 0, "")
	pdf.CellFormat(92, 8, fmt.Sprintf("Modified: %d", data.Modified), "1", 0, "C", false, 0, "")
	pdf.CellFormat(93, 8, fmt.Sprintf("Deleted: %d", data.Deleted), "1", 1, "C", false, 0, "")
	pdf.Ln(5)

	// Table header
	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(200, 200, 200)
	pdf.CellFormat(12, 7, "#", "1", 0, "C", true, 0, "")
	pdf.CellFormat(25, 7, "Serial", "1", 0, "C", true, 0, "")
	pdf.CellFormat(25, 7, "Change", "1", 0, "C", true, 0, "")
	pdf.CellFormat(40, 7, "AWB", "1", 0, "C", true, 0, "")
	pdf.CellFormat(45, 7, "Field", "1", 0, "C", true, 0, "")
	pdf.CellFormat(65, 7, "Old", "1", 0, "C", true, 0, "")
	pdf.CellFormat(65, 7, "New", "1", 1, "C", true, 0, "")

	pdf.SetFont("Arial", "", 9)
	row := 0
	writeRow := func(serial, change, awb, field, oldVal, newVal string) {
		if row%2 == 0 {
			pdf.SetFillColor(255, 255, 255)
		} else {
			pdf.SetFillColor(245, 245, 245)
		}
		row++
		pdf.CellFormat(12, 6, fmt.Sprintf("%d", row), "1", 0, "C", true, 0, "")
		pdf.CellFormat(25, 6, serial, "1", 0, "C", true, 0, "")
		pdf.CellFormat(25, 6, change, "1", 0, "C", true, 0, "")
		pdf.CellFormat(40, 6, truncate(awb, 18), "1", 0, "L", true, 0, "")
		pdf.CellFormat(45, 6, truncate(field, 22), "1", 0, "L", true, 0, "")
		pdf.CellFormat(65, 6, truncate(oldVal, 32), "1", 0, "L", true, 0, "")
		pdf.CellFormat(65, 6, truncate(newVal, 32), "1", 1, "L", true, 0, "")
	}

	for _, c := range data.Changes {
		awb := snapshotAWB(c)
		if c.ChangeType != models.ChangeTypeModified {
			writeRow(c.SerialNumber, strings.ToUpper(c.ChangeType), awb, "", "", "")
			continue
		}
		for _, field := range sortedFieldNames(c.FieldChanges) {
			delta := c.FieldChanges[field]
			writeRow(c.SerialNumber, "MODIFIED", awb, field, formatDeltaValue(delta.Old), formatDeltaValue(delta.New))
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GetDailySummaryData fetches flights and tonnage for one UTC date
func (s *ReportService) GetDailySummaryData(ctx context.Context, date time.Time) (*DailySummaryData, error) {
	day := timeutil.StartOfDay(date)
	flights, err := s.FlightRepo.ListByDate(ctx, day)
	if err != nil {
		return nil, err
	}

	data := &DailySummaryData{Date: day, Flights: flights, TotalFlights: len(flights)}

	err = s.DB.QueryRow(ctx,
		`SELECT COALESCE(SUM(i.weight), 0), COALESCE(SUM(i.pieces), 0)
		 FROM load_plan_items i
		 JOIN load_plans lp ON i.load_plan_id = lp.id AND i.revision = lp.latest_revision
		 JOIN flights f ON lp.flight_id = f.id
		 WHERE f.flight_date=$1`, day).Scan(&data.TotalWeight, &data.TotalPieces)
	if err != nil {
		return nil, fmt.Errorf("sum daily totals: %w", err)
	}

	return data, nil
}

// GenerateDailySummaryCSV generates the daily station summary as CSV
func (s *ReportService) GenerateDailySummaryCSV(ctx context.Context, date time.Time) ([]byte, error) {
	data, err := s.GetDailySummaryData(ctx, date)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	w.Write([]string{"Daily Station Summary", data.Date.Format(timeutil.DateLayout)})
	w.Write([]string{""})
	w.Write([]string{"Total Flights", fmt.Sprintf("%d", data.TotalFlights)})
	w.Write([]string{"Total Weight (kg)", fmt.Sprintf("%.1f", data.TotalWeight)})
	w.Write([]string{"Total Pieces", fmt.Sprintf("%d", data.TotalPieces)})
	w.Write([]string{""})

	w.Write([]string{"#", "Flight", "Origin", "Destination", "STD", "STA", "Aircraft", "Status"})
	for i, f := range data.Flights {
		w.Write([]string{
			fmt.Sprintf("%d", i+1),
			f.FlightNumber,
			f.Origin,
			f.Destination,
			formatTimePtr(f.ScheduledDep),
			formatTimePtr(f.ScheduledArr),
			f.AircraftType,
			strings.ToUpper(f.Status),
		})
	}

	w.Flush()
	return buf.Bytes(), nil
}

// GenerateDailySummaryPDF generates the daily station summary as PDF
func (s *ReportService) GenerateDailySummaryPDF(ctx context.Context, date time.Time) ([]byte, error) {
	data, err := s.GetDailySummaryData(ctx, date)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(190, 10, "Daily Station Summary", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, data.Date.Format("02-Jan-2006 (Monday)"), "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(190, 6, fmt.Sprintf("Generated: %s UTC", timeutil.Now().Format(timeutil.DisplayLayout)), "", 1, "C", false, 0, "")
	pdf.Ln(5)

	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, "Totals", "1", 1, "L", true, 0, "")
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(63, 8, fmt.Sprintf("Flights: %d", data.TotalFlights), "1", 0, "C", false, 0, "")
	pdf.CellFormat(63, 8, fmt.Sprintf("Weight: %.1f kg", data.TotalWeight), "1", 0, "C", false, 0, "")
	pdf.CellFormat(64, 8, fmt.Sprintf("Pieces: %d", data.TotalPieces), "1", 1, "C", false, 0, "")
	pdf.Ln(5)

	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(200, 200, 200)
	pdf.CellFormat(12, 7, "#", "1", 0, "C", true, 0, "")
	pdf.CellFormat(30, 7, "Flight", "1", 0, "C", true, 0, "")
	pdf.CellFormat(25, 7, "Origin", "1", 0, "C", true, 0, "")
	pdf.CellFormat(25, 7, "Dest", "1", 0, "C", true, 0, "")
	pdf.CellFormat(28, 7, "STD", "1", 0, "C", true, 0, "")
	pdf.CellFormat(28, 7, "STA", "1", 0, "C", true, 0, "")
	pdf.CellFormat(22, 7, "Type", "1", 0, "C", true, 0, "")
	pdf.CellFormat(20, 7, "Status", "1", 1, "C", true, 0, "")

	pdf.SetFont("Arial", "", 9)
	for i, f := range data.Flights {
		if i%2 == 0 {
			pdf.SetFillColor(255, 255, 255)
		} else {
			pdf.SetFillColor(245, 245, 245)
		}
		pdf.CellFormat(12, 6, fmt.Sprintf("%d", i+1), "1", 0, "C", true, 0, "")
		pdf.CellFormat(30, 6, f.FlightNumber, "1", 0, "C", true, 0, "")
		pdf.CellFormat(25, 6, f.Origin, "1", 0, "C", true, 0, "")
		pdf.CellFormat(25, 6, f.Destination, "1", 0, "C", true, 0, "")
		pdf.CellFormat(28, 6, formatTimePtr(f.ScheduledDep), "1", 0, "C", true, 0, "")
		pdf.CellFormat(28, 6, formatTimePtr(f.ScheduledArr), "1", 0, "C", true, 0, "")
		pdf.CellFormat(22, 6, f.AircraftType, "1", 0, "C", true, 0, "")
		pdf.CellFormat(20, 6, strings.ToUpper(f.Status), "1", 1, "C", true, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GenerateAllChangePDFs renders the latest-revision change report for
// every load plan on a date, in parallel.
func (s *ReportService) GenerateAllChangePDFs(ctx context.Context, date time.Time) (map[string][]byte, error) {
	day := timeutil.StartOfDay(date)
	flights, err := s.FlightRepo.ListByDate(ctx, day)
	if err != nil {
		return nil, err
	}

	type job struct {
		flight *models.Flight
	}
	type result struct {
		name string
		data []byte
		err  error
	}

	jobs := make(chan job, len(flights))
	results := make(chan result, len(flights))

	var wg sync.WaitGroup
	numWorkers := 4
	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				plan, err := s.PlanRepo.GetByFlight(ctx, j.flight.ID)
				if err != nil || plan.LatestRevision < 2 {
					continue // no plan, or nothing to compare yet
				}
				data, err := s.GetChangeReportData(ctx, plan.ID, plan.LatestRevision)
				if err != nil {
					results <- result{err: err}
					continue
				}
				pdfBytes, err := s.GenerateChangePDF(data)
				results <- result{
					name: fmt.Sprintf("%s_rev%d", j.flight.FlightNumber, plan.LatestRevision),
					data: pdfBytes,
					err:  err,
				}
			}
		}()
	}

	for _, f := range flights {
		jobs <- job{flight: f}
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	pdfs := make(map[string][]byte)
	for r := range results {
		if r.err == nil && r.name != "" {
			pdfs[r.name] = r.data
		}
	}
	return pdfs, nil
}

// CreateBulkPDFZip creates a ZIP file containing the given PDFs
func (s *ReportService) CreateBulkPDFZip(pdfs map[string][]byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	for filename, pdfData := range pdfs {
		fw, err := zw.Create(fmt.Sprintf("changes_%s.pdf", filename))
		if err != nil {
			continue
		}
		fw.Write(pdfData)
	}

	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func snapshotAWB(c *models.LoadPlanChange) string {
	if c.RevisedData != nil && c.RevisedData.AWBNumber != nil {
		return *c.RevisedData.AWBNumber
	}
	if c.OriginalData != nil && c.OriginalData.AWBNumber != nil {
		return *c.OriginalData.AWBNumber
	}
	return ""
}

func sortedFieldNames(deltas map[string]models.FieldDelta) []string {
	names := make([]string, 0, len(deltas))
	for name := range deltas {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func formatDeltaValue(v interface{}) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%v", v)
}

func formatTimePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return timeutil.ToUTC(*t).Format("15:04")
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
