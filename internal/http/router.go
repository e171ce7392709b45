package http

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"cargo-backend/internal/handlers"
	"cargo-backend/internal/middleware"
	"cargo-backend/internal/ws"
)

func NewRouter(
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	flightHandler *handlers.FlightHandler,
	loadPlanHandler *handlers.LoadPlanHandler,
	uldHandler *handlers.ULDHandler,
	rosterHandler *handlers.RosterHandler,
	reportHandler *handlers.ReportHandler,
	dashboardHandler *handlers.DashboardHandler,
	healthHandler *handlers.HealthHandler,
	hub *ws.Hub,
	authMiddleware *middleware.AuthMiddleware,
) *mux.Router {
	r := mux.NewRouter()

	// Public API routes - Authentication
	r.HandleFunc("/auth/signup", authHandler.Signup).Methods("POST")
	r.HandleFunc("/auth/login", authHandler.Login).Methods("POST")

	// Protected API routes - Users (admin only for mutation)
	usersAPI := r.PathPrefix("/api/users").Subrouter()
	usersAPI.Use(authMiddleware.Authenticate)
	usersAPI.HandleFunc("", userHandler.List).Methods("GET")
	usersAPI.HandleFunc("", authMiddleware.RequireRole("admin")(http.HandlerFunc(userHandler.Create)).ServeHTTP).Methods("POST")
	usersAPI.HandleFunc("/{id}", userHandler.Get).Methods("GET")
	usersAPI.HandleFunc("/{id}", authMiddleware.RequireRole("admin")(http.HandlerFunc(userHandler.Update)).ServeHTTP).Methods("PUT")
	usersAPI.HandleFunc("/{id}", authMiddleware.RequireRole("admin")(http.HandlerFunc(userHandler.Delete)).ServeHTTP).Methods("DELETE")
	usersAPI.HandleFunc("/{id}/toggle-active", authMiddleware.RequireRole("admin")(http.HandlerFunc(userHandler.SetActive)).ServeHTTP).Methods("PATCH")

	// Protected API routes - Flights
	flightsAPI := r.PathPrefix("/api/flights").Subrouter()
	flightsAPI.Use(authMiddleware.Authenticate)
	flightsAPI.HandleFunc("", flightHandler.List).Methods("GET")
	flightsAPI.HandleFunc("", authMiddleware.RequireRole("supervisor", "admin")(http.HandlerFunc(flightHandler.Create)).ServeHTTP).Methods("POST")
	flightsAPI.HandleFunc("/{id}", flightHandler.Get).Methods("GET")
	flightsAPI.HandleFunc("/{id}", authMiddleware.RequireRole("supervisor", "admin")(http.HandlerFunc(flightHandler.Update)).ServeHTTP).Methods("PUT")
	flightsAPI.HandleFunc("/{id}", authMiddleware.RequireRole("admin")(http.HandlerFunc(flightHandler.Delete)).ServeHTTP).Methods("DELETE")

	// Protected API routes - Load Plans (revisions, comparison, change log)
	plansAPI := r.PathPrefix("/api/load-plans").Subrouter()
	plansAPI.Use(authMiddleware.Authenticate)
	plansAPI.HandleFunc("", loadPlanHandler.List).Methods("GET")
	plansAPI.HandleFunc("", loadPlanHandler.Create).Methods("POST")
	plansAPI.HandleFunc("/{id}", loadPlanHandler.Get).Methods("GET")
	plansAPI.HandleFunc("/{id}/revisions", loadPlanHandler.IngestRevision).Methods("POST")
	plansAPI.HandleFunc("/{id}/revisions/{revision}/items", loadPlanHandler.ListItems).Methods("GET")
	plansAPI.HandleFunc("/{id}/compare", loadPlanHandler.Compare).Methods("POST")
	plansAPI.HandleFunc("/{id}/revisions/{revision}/changes", loadPlanHandler.ListChanges).Methods("GET")
	plansAPI.HandleFunc("/{id}/revisions/{revision}/changes/{serial}", loadPlanHandler.GetChange).Methods("GET")

	// Protected API routes - ULD tracking
	uldsAPI := r.PathPrefix("/api/ulds").Subrouter()
	uldsAPI.Use(authMiddleware.Authenticate)
	uldsAPI.HandleFunc("", uldHandler.List).Methods("GET")
	uldsAPI.HandleFunc("", uldHandler.Create).Methods("POST")
	uldsAPI.HandleFunc("/{id}", uldHandler.Get).Methods("GET")
	uldsAPI.HandleFunc("/{id}/history", uldHandler.History).Methods("GET")
	uldsAPI.HandleFunc("/{id}/status", uldHandler.UpdateStatus).Methods("POST")
	uldsAPI.HandleFunc("/{id}/next-status", uldHandler.NextStatus).Methods("GET")

	// Protected API routes - Staff roster (supervisors manage, all view)
	rosterAPI := r.PathPrefix("/api/roster").Subrouter()
	rosterAPI.Use(authMiddleware.Authenticate)
	rosterAPI.HandleFunc("", rosterHandler.List).Methods("GET")
	rosterAPI.HandleFunc("", authMiddleware.RequireRole("supervisor", "admin")(http.HandlerFunc(rosterHandler.Create)).ServeHTTP).Methods("POST")
	rosterAPI.HandleFunc("/{id}", authMiddleware.RequireRole("supervisor", "admin")(http.HandlerFunc(rosterHandler.Update)).ServeHTTP).Methods("PUT")
	rosterAPI.HandleFunc("/{id}", authMiddleware.RequireRole("supervisor", "admin")(http.HandlerFunc(rosterHandler.Delete)).ServeHTTP).Methods("DELETE")

	// Protected API routes - Reports
	reportsAPI := r.PathPrefix("/api/reports").Subrouter()
	reportsAPI.Use(authMiddleware.Authenticate)
	reportsAPI.HandleFunc("/load-plans/{id}/revisions/{revision}/changes/csv", reportHandler.GetChangeReportCSV).Methods("GET")
	reportsAPI.HandleFunc("/load-plans/{id}/revisions/{revision}/changes/pdf", reportHandler.GetChangeReportPDF).Methods("GET")
	reportsAPI.HandleFunc("/daily-summary/csv", reportHandler.GetDailySummaryCSV).Methods("GET")
	reportsAPI.HandleFunc("/daily-summary/pdf", reportHandler.GetDailySummaryPDF).Methods("GET")
	reportsAPI.HandleFunc("/daily-summary/archive", authMiddleware.RequireRole("supervisor", "admin")(http.HandlerFunc(reportHandler.ArchiveDailySummary)).ServeHTTP).Methods("POST")
	reportsAPI.HandleFunc("/changes/pdf", reportHandler.GetBulkChangePDFZip).Methods("GET")

	// Protected API routes - Dashboard
	dashboardAPI := r.PathPrefix("/api/dashboard").Subrouter()
	dashboardAPI.Use(authMiddleware.Authenticate)
	dashboardAPI.HandleFunc("/stats", dashboardHandler.GetStats).Methods("GET")
	dashboardAPI.HandleFunc("/system", dashboardHandler.GetSystemStats).Methods("GET")

	// WebSocket feed of live ULD status updates (token checked in-page by clients)
	r.HandleFunc("/ws/ulds", hub.ServeWS)

	// Health endpoint (no auth required - for probes)
	r.HandleFunc("/health", healthHandler.BasicHealth).Methods("GET")

	// Metrics endpoint (Prometheus format)
	r.Handle("/metrics", promhttp.Handler())

	return r
}
