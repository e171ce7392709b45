package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"cargo-backend/internal/middleware"
	"cargo-backend/internal/models"
	"cargo-backend/internal/repositories"
	"cargo-backend/internal/services"
)

type ULDHandler struct {
	ULDRepo    *repositories.ULDRepository
	ULDService *services.ULDService
}

func NewULDHandler(uldRepo *repositories.ULDRepository, uldService *services.ULDService) *ULDHandler {
	return &ULDHandler{ULDRepo: uldRepo, ULDService: uldService}
}

func (h *ULDHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateULDRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.ULDNumber == "" {
		http.Error(w, "uld_number is required", http.StatusBadRequest)
		return
	}

	uld := &models.ULD{
		ULDNumber: req.ULDNumber,
		ULDType:   req.ULDType,
		FlightID:  req.FlightID,
	}
	if err := h.ULDRepo.Create(r.Context(), uld); err != nil {
		http.Error(w, "Failed to register ULD: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(uld)
}

func (h *ULDHandler) List(w http.ResponseWriter, r *http.Request) {
	ulds, err := h.ULDRepo.List(r.Context())
	if err != nil {
		http.Error(w, "Failed to fetch ULDs", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ulds)
}

func (h *ULDHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid ULD ID", http.StatusBadRequest)
		return
	}

	uld, err := h.ULDRepo.Get(r.Context(), id)
	if err != nil {
		http.Error(w, "ULD not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(uld)
}

func (h *ULDHandler) History(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid ULD ID", http.StatusBadRequest)
		return
	}

	history, err := h.ULDRepo.History(r.Context(), id)
	if err != nil {
		http.Error(w, "Failed to fetch status history", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(history)
}

// UpdateStatus records a status for a ULD. Strict mode rejects out of
// order updates with 409 and the list of missing stages; backfill mode
// synthesizes the missing entries first.
func (h *ULDHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid ULD ID", http.StatusBadRequest)
		return
	}

	var req models.UpdateULDStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Mode == "" {
		req.Mode = services.ModeStrict
	}

	userID, _ := middleware.GetUserIDFromContext(r.Context())

	recorded, result, err := h.ULDService.RecordStatus(r.Context(), id, req.Status, userID, req.Mode)
	if err != nil {
		if errors.Is(err, services.ErrTransitionRejected) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusConflict)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"error":            result.Message,
				"missing_statuses": result.MissingStatuses,
			})
			return
		}
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"recorded": recorded,
		"message":  result.Message,
	})
}

// NextStatus reports which statuses may be recorded next in strict mode.
func (h *ULDHandler) NextStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid ULD ID", http.StatusBadRequest)
		return
	}

	next, err := h.ULDService.NextStatus(r.Context(), id)
	if err != nil {
		http.Error(w, "ULD not found", http.StatusNotFound)
		return
	}

	names := make([]string, 0, len(next))
	for _, s := range next {
		names = append(names, services.StatusName(s))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"next_statuses": next,
		"status_names":  names,
	})
}
