package services

import (
	"context"

	"workshop-backend/internal/apperrors"
	"workshop-backend/internal/models"
	"workshop-backend/internal/repositories"
	"workshop-backend/internal/timeutil"
	"workshop-backend/internal/workflow"
)

// fakeStore is an in-memory stand-in for the repositories, mirroring their
// transactional behavior: ChangeStatus checks the payment snapshot and
// appends history atomically, Create issues the day's next code.
type fakeStore struct {
	equipment map[int]*models.Equipment
	payments  map[int]*models.Payment
	history   map[int][]*models.StatusHistoryEntry
	customers map[int]*models.Customer
	users     map[int]*models.User

	nextEquipmentID int
	nextPaymentID   int
	daySeq          int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		equipment: make(map[int]*models.Equipment),
		payments:  make(map[int]*models.Payment),
		history:   make(map[int][]*models.StatusHistoryEntry),
		customers: make(map[int]*models.Customer),
		users:     make(map[int]*models.User),
	}
}

// EquipmentStore

func (f *fakeStore) Create(ctx context.Context, eq *models.Equipment) error {
	f.nextEquipmentID++
	f.daySeq++
	eq.ID = f.nextEquipmentID
	eq.Code = workflow.FormatCode(timeutil.Now(), f.daySeq)
	eq.Status = models.StatusReceived
	eq.EntryDate = timeutil.Now()
	f.equipment[eq.ID] = eq
	f.appendHistory(eq.ID, models.StatusReceived, "Equipment received at intake", eq.CreatedByUserID)
	return nil
}

func (f *fakeStore) Get(ctx context.Context, id int) (*models.Equipment, error) {
	eq, ok := f.equipment[id]
	if !ok {
		return nil, apperrors.E(apperrors.KindNotFound, "equipment not found")
	}
	return eq, nil
}

func (f *fakeStore) GetByCode(ctx context.Context, code string) (*models.Equipment, error) {
	for _, eq := range f.equipment {
		if eq.Code == code {
			return eq, nil
		}
	}
	return nil, apperrors.E(apperrors.KindNotFound, "equipment not found")
}

func (f *fakeStore) List(ctx context.Context) ([]*models.Equipment, error) {
	var list []*models.Equipment
	for _, eq := range f.equipment {
		list = append(list, eq)
	}
	return list, nil
}

func (f *fakeStore) ListByCustomer(ctx context.Context, customerID int) ([]*models.Equipment, error) {
	var list []*models.Equipment
	for _, eq := range f.equipment {
		if eq.CustomerID == customerID {
			list = append(list, eq)
		}
	}
	return list, nil
}

func (f *fakeStore) ListByTechnician(ctx context.Context, technicianID int) ([]*models.Equipment, error) {
	var list []*models.Equipment
	for _, eq := range f.equipment {
		if eq.AssignedTechnicianID != nil && *eq.AssignedTechnicianID == technicianID {
			list = append(list, eq)
		}
	}
	return list, nil
}

func (f *fakeStore) AssignTechnician(ctx context.Context, id int, technicianID *int) error {
	eq, ok := f.equipment[id]
	if !ok {
		return apperrors.E(apperrors.KindNotFound, "equipment not found")
	}
	eq.AssignedTechnicianID = technicianID
	return nil
}

func (f *fakeStore) ChangeStatus(ctx context.Context, p repositories.ChangeStatusParams) (*models.Equipment, error) {
	eq, ok := f.equipment[p.EquipmentID]
	if !ok {
		return nil, apperrors.E(apperrors.KindNotFound, "equipment not found")
	}

	// Mirrors the repository: the transition is re-validated against the
	// stored row at commit time, not just the caller's snapshot.
	isAssignee := eq.AssignedTechnicianID != nil && *eq.AssignedTechnicianID == p.ChangedByUserID
	if err := workflow.CanTransition(p.ActorRole, isAssignee, eq.Status, p.NewStatus).Err(); err != nil {
		return nil, err
	}

	if p.RequireCompletedPayment {
		var payments []*models.Payment
		for _, pay := range f.payments {
			if pay.EquipmentID == p.EquipmentID {
				payments = append(payments, pay)
			}
		}
		if !workflow.HasCompletedPayment(payments) {
			return nil, apperrors.E(apperrors.KindPaymentIncomplete,
				"cannot deliver without a completed payment")
		}
	}

	eq.Status = p.NewStatus
	if p.SetDeliveryDate {
		now := timeutil.Now()
		eq.DeliveryDate = &now
	}
	f.appendHistory(p.EquipmentID, p.NewStatus, p.Observations, p.ChangedByUserID)
	return eq, nil
}

func (f *fakeStore) appendHistory(equipmentID int, status, observations string, changedBy int) {
	f.history[equipmentID] = append(f.history[equipmentID], &models.StatusHistoryEntry{
		ID:              len(f.history[equipmentID]) + 1,
		EquipmentID:     equipmentID,
		Status:          status,
		Observations:    observations,
		ChangedByUserID: changedBy,
		CreatedAt:       timeutil.Now(),
	})
}

// PaymentStore

func (f *fakeStore) CreatePayment(ctx context.Context, payment *models.Payment) error {
	f.nextPaymentID++
	payment.ID = f.nextPaymentID
	payment.PaymentDate = timeutil.Now()
	f.payments[payment.ID] = payment
	return nil
}

func (f *fakeStore) GetPayment(ctx context.Context, id int) (*models.Payment, error) {
	p, ok := f.payments[id]
	if !ok {
		return nil, apperrors.E(apperrors.KindNotFound, "payment not found")
	}
	return p, nil
}

func (f *fakeStore) GetByEquipmentID(ctx context.Context, equipmentID int) ([]*models.Payment, error) {
	var list []*models.Payment
	for _, p := range f.payments {
		if p.EquipmentID == equipmentID {
			list = append(list, p)
		}
	}
	return list, nil
}

func (f *fakeStore) ListPayments(ctx context.Context) ([]*models.Payment, error) {
	var list []*models.Payment
	for _, p := range f.payments {
		list = append(list, p)
	}
	return list, nil
}

func (f *fakeStore) UpdatePayment(ctx context.Context, payment *models.Payment) error {
	if _, ok := f.payments[payment.ID]; !ok {
		return apperrors.E(apperrors.KindNotFound, "payment not found")
	}
	payment.PaymentDate = timeutil.Now()
	f.payments[payment.ID] = payment
	return nil
}

func (f *fakeStore) DeletePayment(ctx context.Context, id int) error {
	if _, ok := f.payments[id]; !ok {
		return apperrors.E(apperrors.KindNotFound, "payment not found")
	}
	delete(f.payments, id)
	return nil
}

// paymentStoreAdapter maps the PaymentStore interface onto fakeStore's
// payment methods (the equipment methods already collide on names).
type paymentStoreAdapter struct{ f *fakeStore }

func (a paymentStoreAdapter) Create(ctx context.Context, p *models.Payment) error {
	return a.f.CreatePayment(ctx, p)
}
func (a paymentStoreAdapter) Get(ctx context.Context, id int) (*models.Payment, error) {
	return a.f.GetPayment(ctx, id)
}
func (a paymentStoreAdapter) GetByEquipmentID(ctx context.Context, equipmentID int) ([]*models.Payment, error) {
	return a.f.GetByEquipmentID(ctx, equipmentID)
}
func (a paymentStoreAdapter) List(ctx context.Context) ([]*models.Payment, error) {
	return a.f.ListPayments(ctx)
}
func (a paymentStoreAdapter) Update(ctx context.Context, p *models.Payment) error {
	return a.f.UpdatePayment(ctx, p)
}
func (a paymentStoreAdapter) Delete(ctx context.Context, id int) error {
	return a.f.DeletePayment(ctx, id)
}

// CustomerGetter / UserGetter

type customerGetterAdapter struct{ f *fakeStore }

func (a customerGetterAdapter) Get(ctx context.Context, id int) (*models.Customer, error) {
	c, ok := a.f.customers[id]
	if !ok {
		return nil, apperrors.E(apperrors.KindNotFound, "customer not found")
	}
	return c, nil
}

type userGetterAdapter struct{ f *fakeStore }

func (a userGetterAdapter) Get(ctx context.Context, id int) (*models.User, error) {
	u, ok := a.f.users[id]
	if !ok {
		return nil, apperrors.E(apperrors.KindNotFound, "user not found")
	}
	return u, nil
}
