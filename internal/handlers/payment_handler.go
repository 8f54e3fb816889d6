package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"workshop-backend/internal/cache"
	"workshop-backend/internal/middleware"
	"workshop-backend/internal/models"
	"workshop-backend/internal/receipts"
	"workshop-backend/internal/services"
	"workshop-backend/pkg/utils"

	"github.com/gorilla/mux"
)

type PaymentHandler struct {
	Service          *services.PaymentService
	EquipmentService *services.EquipmentService
	CustomerService  *services.CustomerService
	Archiver         *receipts.Archiver
}

func NewPaymentHandler(s *services.PaymentService, eqSvc *services.EquipmentService, custSvc *services.CustomerService, archiver *receipts.Archiver) *PaymentHandler {
	return &PaymentHandler{
		Service:          s,
		EquipmentService: eqSvc,
		CustomerService:  custSvc,
		Archiver:         archiver,
	}
}

func (h *PaymentHandler) CreatePayment(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req models.CreatePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	payment, err := h.Service.CreatePayment(r.Context(), &req, userID)
	if err != nil {
		utils.Error(w, err)
		return
	}

	cache.InvalidateEquipmentCaches(r.Context())
	utils.JSON(w, http.StatusCreated, payment)
}

func (h *PaymentHandler) GetPayment(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid payment ID", http.StatusBadRequest)
		return
	}

	payment, err := h.Service.GetPayment(r.Context(), id)
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, payment)
}

func (h *PaymentHandler) UpdatePayment(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid payment ID", http.StatusBadRequest)
		return
	}

	var req models.UpdatePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	payment, err := h.Service.UpdatePayment(r.Context(), id, &req)
	if err != nil {
		utils.Error(w, err)
		return
	}

	cache.InvalidateEquipmentCaches(r.Context())
	utils.JSON(w, http.StatusOK, payment)
}

func (h *PaymentHandler) DeletePayment(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid payment ID", http.StatusBadRequest)
		return
	}

	if err := h.Service.DeletePayment(r.Context(), id); err != nil {
		utils.Error(w, err)
		return
	}

	cache.InvalidateEquipmentCaches(r.Context())
	utils.JSON(w, http.StatusOK, map[string]string{"message": "Payment deleted"})
}

func (h *PaymentHandler) ListPayments(w http.ResponseWriter, r *http.Request) {
	payments, err := h.Service.ListPayments(r.Context())
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, payments)
}

func (h *PaymentHandler) ListByEquipment(w http.ResponseWriter, r *http.Request) {
	equipmentID, err := strconv.Atoi(mux.Vars(r)["equipment_id"])
	if err != nil {
		http.Error(w, "Invalid equipment ID", http.StatusBadRequest)
		return
	}

	payments, err := h.Service.GetPaymentsByEquipment(r.Context(), equipmentID)
	if err != nil {
		utils.Error(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, payments)
}

// DownloadReceipt renders the payment receipt as a PDF and, when the
// archive is configured, keeps a copy in the bucket.
func (h *PaymentHandler) DownloadReceipt(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid payment ID", http.StatusBadRequest)
		return
	}

	payment, err := h.Service.GetPayment(r.Context(), id)
	if err != nil {
		utils.Error(w, err)
		return
	}

	eq, err := h.EquipmentService.GetEquipment(r.Context(), payment.EquipmentID)
	if err != nil {
		utils.Error(w, err)
		return
	}

	customer, err := h.CustomerService.GetCustomer(r.Context(), eq.CustomerID)
	if err != nil {
		utils.Error(w, err)
		return
	}

	pdf, err := receipts.Render(&receipts.ReceiptData{
		Payment:   payment,
		Equipment: eq,
		Customer:  customer,
	})
	if err != nil {
		utils.Error(w, err)
		return
	}

	h.Archiver.Upload(r.Context(), receipts.ObjectKey(payment, eq.Code), pdf)

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=receipt_%s_%d.pdf", eq.Code, payment.ID))
	w.Write(pdf)
}
