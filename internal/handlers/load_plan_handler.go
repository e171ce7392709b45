package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"cargo-backend/internal/models"
	"cargo-backend/internal/repositories"
	"cargo-backend/internal/services"
)

type LoadPlanHandler struct {
	PlanRepo    *repositories.LoadPlanRepository
	ItemRepo    *repositories.LoadPlanItemRepository
	PlanService *services.LoadPlanService
	DiffService *services.DiffService
}

func NewLoadPlanHandler(
	planRepo *repositories.LoadPlanRepository,
	itemRepo *repositories.LoadPlanItemRepository,
	planService *services.LoadPlanService,
	diffService *services.DiffService,
) *LoadPlanHandler {
	return &LoadPlanHandler{
		PlanRepo:    planRepo,
		ItemRepo:    itemRepo,
		PlanService: planService,
		DiffService: diffService,
	}
}

func (h *LoadPlanHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateLoadPlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.FlightID == 0 {
		http.Error(w, "flight_id is required", http.StatusBadRequest)
		return
	}

	plan := &models.LoadPlan{FlightID: req.FlightID}
	if err := h.PlanRepo.Create(r.Context(), plan); err != nil {
		http.Error(w, "Failed to create load plan: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(plan)
}

func (h *LoadPlanHandler) List(w http.ResponseWriter, r *http.Request) {
	plans, err := h.PlanRepo.List(r.Context())
	if err != nil {
		http.Error(w, "Failed to fetch load plans", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(plans)
}

func (h *LoadPlanHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid load plan ID", http.StatusBadRequest)
		return
	}

	plan, err := h.PlanRepo.Get(r.Context(), id)
	if err != nil {
		http.Error(w, "Load plan not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(plan)
}

// IngestRevision accepts a parsed document's line items and stores them
// as the plan's next revision.
func (h *LoadPlanHandler) IngestRevision(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid load plan ID", http.StatusBadRequest)
		return
	}

	var req models.IngestRevisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	resp, err := h.PlanService.IngestRevision(r.Context(), id, req.Items)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(resp)
}

func (h *LoadPlanHandler) ListItems(w http.ResponseWriter, r *http.Request) {
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

	items, err := h.ItemRepo.ListByRevision(r.Context(), id, revision)
	if err != nil {
		http.Error(w, "Failed to fetch items", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(items)
}

// Compare diffs two stored revisions and persists the resulting change
// records. Defaults to comparing the two most recent revisions when the
// body omits them.
func (h *LoadPlanHandler) Compare(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid load plan ID", http.StatusBadRequest)
		return
	}

	var req models.CompareRequest
	if r.Body != nil {
		// Empty body is fine, we fall back to the latest pair.
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	if req.OriginalRevision == 0 || req.RevisedRevision == 0 {
		plan, err := h.PlanRepo.Get(r.Context(), id)
		if err != nil {
			http.Error(w, "Load plan not found", http.StatusNotFound)
			return
		}
		if plan.LatestRevision < 2 {
			http.Error(w, "Load plan has fewer than two revisions", http.StatusBadRequest)
			return
		}
		req.OriginalRevision = plan.LatestRevision - 1
		req.RevisedRevision = plan.LatestRevision
	}

	changes, err := h.DiffService.CompareAndPersist(r.Context(), id, req.OriginalRevision, req.RevisedRevision)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"original_revision": req.OriginalRevision,
		"revised_revision":  req.RevisedRevision,
		"change_count":      len(changes),
		"changes":           changes,
	})
}

func (h *LoadPlanHandler) ListChanges(w http.ResponseWriter, r *http.Request) {
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

	changes, err := h.DiffService.ChangesForRevision(r.Context(), id, revision)
	if err != nil {
		http.Error(w, "Failed to fetch changes", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(changes)
}

// GetChange looks up the change record for one serial number within a
// compared revision.
func (h *LoadPlanHandler) GetChange(w http.ResponseWriter, r *http.Request) {
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
	serial := vars["serial"]

	change, err := h.DiffService.ChangeForSerial(r.Context(), id, revision, serial)
	if err != nil {
		if errors.Is(err, repositories.ErrChangeNotFound) {
			http.Error(w, "No change recorded for this serial", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to fetch change", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(change)
}
