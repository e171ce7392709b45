package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"cargo-backend/internal/models"
	"cargo-backend/internal/repositories"
	"cargo-backend/internal/timeutil"
)

type RosterHandler struct {
	ShiftRepo *repositories.StaffShiftRepository
}

func NewRosterHandler(shiftRepo *repositories.StaffShiftRepository) *RosterHandler {
	return &RosterHandler{ShiftRepo: shiftRepo}
}

func (h *RosterHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateStaffShiftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.UserID == 0 || req.ShiftDate == "" || req.ShiftCode == "" {
		http.Error(w, "user_id, shift_date and shift_code are required", http.StatusBadRequest)
		return
	}

	shiftDate, err := timeutil.ParseDate(req.ShiftDate)
	if err != nil {
		http.Error(w, "shift_date must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	shift := &models.StaffShift{
		UserID:    req.UserID,
		ShiftDate: shiftDate,
		ShiftCode: req.ShiftCode,
		Area:      req.Area,
		Remark:    req.Remark,
	}
	if err := h.ShiftRepo.Create(r.Context(), shift); err != nil {
		http.Error(w, "Failed to create shift: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(shift)
}

// List returns shifts between ?from and ?to (both YYYY-MM-DD, defaulting
// to today when absent).
func (h *RosterHandler) List(w http.ResponseWriter, r *http.Request) {
	from := timeutil.StartOfDay(timeutil.Now())
	to := timeutil.EndOfDay(from)
	if s := r.URL.Query().Get("from"); s != "" {
		d, err := timeutil.ParseDate(s)
		if err != nil {
			http.Error(w, "from must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		from = d
		to = timeutil.EndOfDay(d)
	}
	if s := r.URL.Query().Get("to"); s != "" {
		d, err := timeutil.ParseDate(s)
		if err != nil {
			http.Error(w, "to must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		to = timeutil.EndOfDay(d)
	}

	shifts, err := h.ShiftRepo.ListByRange(r.Context(), from, to)
	if err != nil {
		http.Error(w, "Failed to fetch shifts", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(shifts)
}

func (h *RosterHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid shift ID", http.StatusBadRequest)
		return
	}

	var shift models.StaffShift
	if err := json.NewDecoder(r.Body).Decode(&shift); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	shift.ID = id

	if err := h.ShiftRepo.Update(r.Context(), &shift); err != nil {
		http.Error(w, "Failed to update shift", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(&shift)
}

func (h *RosterHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid shift ID", http.StatusBadRequest)
		return
	}

	if err := h.ShiftRepo.Delete(r.Context(), id); err != nil {
		http.Error(w, "Failed to delete shift", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
