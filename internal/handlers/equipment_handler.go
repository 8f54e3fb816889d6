package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"workshop-backend/internal/cache"
	"workshop-backend/internal/middleware"
	"workshop-backend/internal/models"
	"workshop-backend/internal/repositories"
	"workshop-backend/internal/services"
	"workshop-backend/pkg/utils"

	"github.com/gorilla/mux"
)

type EquipmentHandler struct {
	Service     *services.EquipmentService
	HistoryRepo *repositories.StatusHistoryRepository
}

func NewEquipmentHandler(s *services.EquipmentService, historyRepo *repositories.StatusHistoryRepository) *EquipmentHandler {
	return &EquipmentHandler{Service: s, HistoryRepo: historyRepo}
}

// CreateEquipment registers equipment at intake. The tracking code is
// issued server-side.
func (h *EquipmentHandler) CreateEquipment(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req models.CreateEquipmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	eq, err := h.Service.CreateEquipment(r.Context(), &req, userID)
	if err != nil {
		utils.Error(w, err)
		return
	}

	cache.InvalidateEquipmentCaches(r.Context())
	utils.JSON(w, http.StatusCreated, eq)
}

func (h *EquipmentHandler) GetEquipment(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid equipment ID", http.StatusBadRequest)
		return
	}

	eq, err := h.Service.GetEquipment(r.Context(), id)
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, eq)
}

// GetByCode looks up equipment by its tracking code, for front-desk
// queries against the printed slip.
func (h *EquipmentHandler) GetByCode(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]

	eq, err := h.Service.GetEquipmentByCode(r.Context(), code)
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, eq)
}

func (h *EquipmentHandler) ListEquipment(w http.ResponseWriter, r *http.Request) {
	if list, ok := cache.GetEquipmentList(r.Context()); ok {
		utils.JSON(w, http.StatusOK, list)
		return
	}

	list, err := h.Service.ListEquipment(r.Context())
	if err != nil {
		utils.Error(w, err)
		return
	}

	cache.SetEquipmentList(r.Context(), list)
	utils.JSON(w, http.StatusOK, list)
}

func (h *EquipmentHandler) ListByCustomer(w http.ResponseWriter, r *http.Request) {
	customerID, err := strconv.Atoi(mux.Vars(r)["customer_id"])
	if err != nil {
		http.Error(w, "Invalid customer ID", http.StatusBadRequest)
		return
	}

	list, err := h.Service.ListEquipmentByCustomer(r.Context(), customerID)
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, list)
}

// ListAssigned returns the authenticated technician's workload.
func (h *EquipmentHandler) ListAssigned(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	list, err := h.Service.ListEquipmentByTechnician(r.Context(), userID)
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, list)
}

func (h *EquipmentHandler) AssignTechnician(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid equipment ID", http.StatusBadRequest)
		return
	}

	var req models.AssignTechnicianRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	eq, err := h.Service.AssignTechnician(r.Context(), id, req.TechnicianID)
	if err != nil {
		utils.Error(w, err)
		return
	}

	cache.InvalidateEquipmentCaches(r.Context())
	utils.JSON(w, http.StatusOK, eq)
}

// ChangeStatus moves equipment through the repair lifecycle. The acting
// user's role decides which transitions are allowed.
func (h *EquipmentHandler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid equipment ID", http.StatusBadRequest)
		return
	}

	actor, ok := middleware.GetActorFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req models.ChangeStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	eq, err := h.Service.ChangeStatus(r.Context(), id, &req, actor)
	if err != nil {
		utils.Error(w, err)
		return
	}

	cache.InvalidateEquipmentCaches(r.Context())
	utils.JSON(w, http.StatusOK, eq)
}

// GetHistory lists the equipment's status trail, oldest first.
func (h *EquipmentHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid equipment ID", http.StatusBadRequest)
		return
	}

	if _, err := h.Service.GetEquipment(r.Context(), id); err != nil {
		utils.Error(w, err)
		return
	}

	history, err := h.HistoryRepo.ListByEquipment(r.Context(), id)
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, history)
}
