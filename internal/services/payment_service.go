package services

import (
	"context"

	"workshop-backend/internal/metrics"
	"workshop-backend/internal/models"
	"workshop-backend/internal/workflow"
)

// PaymentStore is the persistence surface for payment records.
type PaymentStore interface {
	Create(ctx context.Context, payment *models.Payment) error
	Get(ctx context.Context, id int) (*models.Payment, error)
	GetByEquipmentID(ctx context.Context, equipmentID int) ([]*models.Payment, error)
	List(ctx context.Context) ([]*models.Payment, error)
	Update(ctx context.Context, payment *models.Payment) error
	Delete(ctx context.Context, id int) error
}

type EquipmentGetter interface {
	Get(ctx context.Context, id int) (*models.Equipment, error)
}

type PaymentService struct {
	Store         PaymentStore
	EquipmentRepo EquipmentGetter
}

func NewPaymentService(store PaymentStore, equipmentRepo EquipmentGetter) *PaymentService {
	return &PaymentService{
		Store:         store,
		EquipmentRepo: equipmentRepo,
	}
}

// CreatePayment records money collected against a piece of equipment. On
// creation the advance may not exceed the total; derived fields come from
// the ledger computation.
func (s *PaymentService) CreatePayment(ctx context.Context, req *models.CreatePaymentRequest, userID int) (*models.Payment, error) {
	if _, err := s.EquipmentRepo.Get(ctx, req.EquipmentID); err != nil {
		return nil, err
	}

	if err := workflow.ValidateNewPayment(req.TotalAmount, req.AdvanceAmount); err != nil {
		return nil, err
	}

	remaining, status, err := workflow.ComputeStatus(req.TotalAmount, req.AdvanceAmount)
	if err != nil {
		return nil, err
	}

	payment := &models.Payment{
		EquipmentID:     req.EquipmentID,
		TotalAmount:     req.TotalAmount,
		AdvanceAmount:   req.AdvanceAmount,
		RemainingAmount: remaining,
		PaymentStatus:   status,
		PaymentMethod:   req.PaymentMethod,
		VoucherType:     req.VoucherType,
		Observations:    req.Observations,
		CreatedByUserID: userID,
	}

	if err := s.Store.Create(ctx, payment); err != nil {
		return nil, err
	}

	metrics.PaymentsRecordedTotal.WithLabelValues(status).Inc()
	return payment, nil
}

// UpdatePayment applies the provided fields and recomputes the derived
// ones. Unlike creation, an update may push the advance past the total:
// that simply maps to COMPLETED. The payment date is refreshed so ordering
// follows the latest money event.
func (s *PaymentService) UpdatePayment(ctx context.Context, id int, req *models.UpdatePaymentRequest) (*models.Payment, error) {
	payment, err := s.Store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.TotalAmount != nil {
		payment.TotalAmount = *req.TotalAmount
	}
	if req.AdvanceAmount != nil {
		payment.AdvanceAmount = *req.AdvanceAmount
	}
	if req.PaymentMethod != nil {
		payment.PaymentMethod = *req.PaymentMethod
	}
	if req.VoucherType != nil {
		payment.VoucherType = *req.VoucherType
	}
	if req.Observations != nil {
		payment.Observations = *req.Observations
	}

	remaining, status, err := workflow.ComputeStatus(payment.TotalAmount, payment.AdvanceAmount)
	if err != nil {
		return nil, err
	}
	payment.RemainingAmount = remaining
	payment.PaymentStatus = status

	if err := s.Store.Update(ctx, payment); err != nil {
		return nil, err
	}

	return payment, nil
}

func (s *PaymentService) DeletePayment(ctx context.Context, id int) error {
	return s.Store.Delete(ctx, id)
}

func (s *PaymentService) GetPayment(ctx context.Context, id int) (*models.Payment, error) {
	return s.Store.Get(ctx, id)
}

func (s *PaymentService) GetPaymentsByEquipment(ctx context.Context, equipmentID int) ([]*models.Payment, error) {
	if _, err := s.EquipmentRepo.Get(ctx, equipmentID); err != nil {
		return nil, err
	}
	return s.Store.GetByEquipmentID(ctx, equipmentID)
}

func (s *PaymentService) ListPayments(ctx context.Context) ([]*models.Payment, error) {
	return s.Store.List(ctx)
}
