package services

import (
	"context"
	"strings"

	"workshop-backend/internal/apperrors"
	"workshop-backend/internal/metrics"
	"workshop-backend/internal/models"
	"workshop-backend/internal/repositories"
	"workshop-backend/internal/workflow"
)

// EquipmentStore is the persistence surface the lifecycle logic needs.
// *repositories.EquipmentRepository implements it; tests use in-memory fakes.
type EquipmentStore interface {
	Create(ctx context.Context, eq *models.Equipment) error
	Get(ctx context.Context, id int) (*models.Equipment, error)
	GetByCode(ctx context.Context, code string) (*models.Equipment, error)
	List(ctx context.Context) ([]*models.Equipment, error)
	ListByCustomer(ctx context.Context, customerID int) ([]*models.Equipment, error)
	ListByTechnician(ctx context.Context, technicianID int) ([]*models.Equipment, error)
	AssignTechnician(ctx context.Context, id int, technicianID *int) error
	ChangeStatus(ctx context.Context, p repositories.ChangeStatusParams) (*models.Equipment, error)
}

type CustomerGetter interface {
	Get(ctx context.Context, id int) (*models.Customer, error)
}

type UserGetter interface {
	Get(ctx context.Context, id int) (*models.User, error)
}

type EquipmentService struct {
	Store        EquipmentStore
	CustomerRepo CustomerGetter
	UserRepo     UserGetter
}

func NewEquipmentService(store EquipmentStore, customerRepo CustomerGetter, userRepo UserGetter) *EquipmentService {
	return &EquipmentService{
		Store:        store,
		CustomerRepo: customerRepo,
		UserRepo:     userRepo,
	}
}

// CreateEquipment registers a piece of equipment at intake. The store
// issues the day's next code and appends the initial RECEIVED history
// entry atomically.
func (s *EquipmentService) CreateEquipment(ctx context.Context, req *models.CreateEquipmentRequest, userID int) (*models.Equipment, error) {
	if strings.TrimSpace(req.EquipmentType) == "" {
		return nil, apperrors.E(apperrors.KindInvalidInput, "equipment type is required")
	}

	if _, err := s.CustomerRepo.Get(ctx, req.CustomerID); err != nil {
		return nil, err
	}

	eq := &models.Equipment{
		EquipmentType:      req.EquipmentType,
		Brand:              req.Brand,
		Model:              req.Model,
		SerialNumber:       req.SerialNumber,
		ProblemDescription: req.ProblemDescription,
		CustomerID:         req.CustomerID,
		CreatedByUserID:    userID,
	}

	if err := s.Store.Create(ctx, eq); err != nil {
		return nil, err
	}

	metrics.StatusTransitionsTotal.WithLabelValues(models.StatusReceived).Inc()
	return eq, nil
}

// ChangeStatus is the lifecycle operation: load, validate the transition
// for the actor, enforce the delivery precondition, then commit the status
// update together with its history entry.
func (s *EquipmentService) ChangeStatus(ctx context.Context, equipmentID int, req *models.ChangeStatusRequest, actor models.Actor) (*models.Equipment, error) {
	eq, err := s.Store.Get(ctx, equipmentID)
	if err != nil {
		return nil, err
	}

	isAssignee := eq.AssignedTechnicianID != nil && *eq.AssignedTechnicianID == actor.ID

	decision := workflow.CanTransition(actor.Role, isAssignee, eq.Status, req.Status)
	if !decision.Allowed {
		metrics.StatusTransitionsRejected.WithLabelValues(string(decision.Reason)).Inc()
		return nil, decision.Err()
	}

	delivering := req.Status == models.StatusDelivered

	updated, err := s.Store.ChangeStatus(ctx, repositories.ChangeStatusParams{
		EquipmentID:     equipmentID,
		NewStatus:       req.Status,
		Observations:    req.Observations,
		ChangedByUserID: actor.ID,
		ActorRole:       actor.Role,
		SetDeliveryDate: delivering,
		// The completed-payment check runs against a payment snapshot read
		// inside the same transaction, for every role.
		RequireCompletedPayment: delivering,
	})
	if err != nil {
		// The store can also deny: the payment precondition, or the in-tx
		// transition re-check losing a race.
		if kind := apperrors.KindOf(err); kind != "" && kind != apperrors.KindNotFound {
			metrics.StatusTransitionsRejected.WithLabelValues(string(kind)).Inc()
		}
		return nil, err
	}

	metrics.StatusTransitionsTotal.WithLabelValues(req.Status).Inc()
	return updated, nil
}

// AssignTechnician sets (or clears, with a nil id) the technician
// responsible for a repair. Only active technicians qualify.
func (s *EquipmentService) AssignTechnician(ctx context.Context, equipmentID int, technicianID *int) (*models.Equipment, error) {
	if _, err := s.Store.Get(ctx, equipmentID); err != nil {
		return nil, err
	}

	if technicianID != nil {
		tech, err := s.UserRepo.Get(ctx, *technicianID)
		if err != nil {
			return nil, err
		}
		if tech.Role != models.RoleTecnico {
			return nil, apperrors.E(apperrors.KindInvalidInput, "assigned user is not a technician")
		}
		if !tech.IsActive {
			return nil, apperrors.E(apperrors.KindInvalidInput, "assigned technician is suspended")
		}
	}

	if err := s.Store.AssignTechnician(ctx, equipmentID, technicianID); err != nil {
		return nil, err
	}
	return s.Store.Get(ctx, equipmentID)
}

func (s *EquipmentService) GetEquipment(ctx context.Context, id int) (*models.Equipment, error) {
	return s.Store.Get(ctx, id)
}

func (s *EquipmentService) GetEquipmentByCode(ctx context.Context, code string) (*models.Equipment, error) {
	return s.Store.GetByCode(ctx, code)
}

func (s *EquipmentService) ListEquipment(ctx context.Context) ([]*models.Equipment, error) {
	return s.Store.List(ctx)
}

func (s *EquipmentService) ListEquipmentByCustomer(ctx context.Context, customerID int) ([]*models.Equipment, error) {
	return s.Store.ListByCustomer(ctx, customerID)
}

func (s *EquipmentService) ListEquipmentByTechnician(ctx context.Context, technicianID int) ([]*models.Equipment, error) {
	return s.Store.ListByTechnician(ctx, technicianID)
}
