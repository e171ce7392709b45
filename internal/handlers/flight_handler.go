package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"cargo-backend/internal/cache"
	"cargo-backend/internal/models"
	"cargo-backend/internal/repositories"
	"cargo-backend/internal/timeutil"
)

// flightBoardKey is the cache key for one day's flight board.
func flightBoardKey(date time.Time) string {
	return fmt.Sprintf(cache.FlightBoardKeyFmt, date.Format(timeutil.DateLayout))
}

type FlightHandler struct {
	FlightRepo *repositories.FlightRepository
}

func NewFlightHandler(flightRepo *repositories.FlightRepository) *FlightHandler {
	return &FlightHandler{FlightRepo: flightRepo}
}

func (h *FlightHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateFlightRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.FlightNumber == "" || req.FlightDate == "" {
		http.Error(w, "flight_number and flight_date are required", http.StatusBadRequest)
		return
	}

	flightDate, err := timeutil.ParseDate(req.FlightDate)
	if err != nil {
		http.Error(w, "flight_date must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	flight := &models.Flight{
		FlightNumber: req.FlightNumber,
		Origin:       req.Origin,
		Destination:  req.Destination,
		FlightDate:   flightDate,
		ScheduledDep: req.ScheduledDep,
		ScheduledArr: req.ScheduledArr,
		AircraftType: req.AircraftType,
		Status:       "scheduled",
	}
	if err := h.FlightRepo.Create(r.Context(), flight); err != nil {
		http.Error(w, "Failed to create flight: "+err.Error(), http.StatusInternalServerError)
		return
	}
	cache.Invalidate(r.Context(), flightBoardKey(flight.FlightDate))

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(flight)
}

// List returns all flights, or the flights for ?date=YYYY-MM-DD.
func (h *FlightHandler) List(w http.ResponseWriter, r *http.Request) {
	var (
		flights []*models.Flight
		err     error
	)
	if dateStr := r.URL.Query().Get("date"); dateStr != "" {
		date, perr := timeutil.ParseDate(dateStr)
		if perr != nil {
			http.Error(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		key := flightBoardKey(date)
		if cache.GetJSON(r.Context(), key, &flights) {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(flights)
			return
		}
		flights, err = h.FlightRepo.ListByDate(r.Context(), date)
		if err == nil {
			cache.SetJSON(r.Context(), key, flights, cache.FlightBoardTTL)
		}
	} else {
		flights, err = h.FlightRepo.List(r.Context())
	}
	if err != nil {
		http.Error(w, "Failed to fetch flights", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(flights)
}

func (h *FlightHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid flight ID", http.StatusBadRequest)
		return
	}

	flight, err := h.FlightRepo.Get(r.Context(), id)
	if err != nil {
		http.Error(w, "Flight not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(flight)
}

func (h *FlightHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid flight ID", http.StatusBadRequest)
		return
	}

	flight, err := h.FlightRepo.Get(r.Context(), id)
	if err != nil {
		http.Error(w, "Flight not found", http.StatusNotFound)
		return
	}

	prevDate := flight.FlightDate
	if err := json.NewDecoder(r.Body).Decode(flight); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	flight.ID = id

	if err := h.FlightRepo.Update(r.Context(), flight); err != nil {
		http.Error(w, "Failed to update flight", http.StatusInternalServerError)
		return
	}
	cache.Invalidate(r.Context(), flightBoardKey(prevDate), flightBoardKey(flight.FlightDate))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(flight)
}

func (h *FlightHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid flight ID", http.StatusBadRequest)
		return
	}

	flight, err := h.FlightRepo.Get(r.Context(), id)
	if err != nil {
		http.Error(w, "Flight not found", http.StatusNotFound)
		return
	}

	if err := h.FlightRepo.Delete(r.Context(), id); err != nil {
		http.Error(w, "Failed to delete flight", http.StatusInternalServerError)
		return
	}
	cache.Invalidate(r.Context(), flightBoardKey(flight.FlightDate))

	w.WriteHeader(http.StatusNoContent)
}
