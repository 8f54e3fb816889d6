package services

import (
	"context"
	"testing"

	"workshop-backend/internal/apperrors"
	"workshop-backend/internal/models"
	"workshop-backend/internal/repositories"
)

func newTestEnv() (*fakeStore, *EquipmentService, *PaymentService) {
	f := newFakeStore()
	f.customers[1] = &models.Customer{ID: 1, Name: "Juan Perez"}
	f.users[10] = &models.User{ID: 10, Name: "Admin", Role: models.RoleAdministrador, IsActive: true}
	f.users[20] = &models.User{ID: 20, Name: "Tech One", Role: models.RoleTecnico, IsActive: true}
	f.users[21] = &models.User{ID: 21, Name: "Tech Two", Role: models.RoleTecnico, IsActive: true}

	eqSvc := NewEquipmentService(f, customerGetterAdapter{f}, userGetterAdapter{f})
	paySvc := NewPaymentService(paymentStoreAdapter{f}, f)
	return f, eqSvc, paySvc
}

func intake(t *testing.T, svc *EquipmentService) *models.Equipment {
	t.Helper()
	eq, err := svc.CreateEquipment(context.Background(), &models.CreateEquipmentRequest{
		CustomerID:         1,
		EquipmentType:      "Laptop",
		Brand:              "Lenovo",
		Model:              "T480",
		ProblemDescription: "No enciende",
	}, 10)
	if err != nil {
		t.Fatalf("intake failed: %v", err)
	}
	return eq
}

var admin = models.Actor{ID: 10, Role: models.RoleAdministrador}
var tech = models.Actor{ID: 20, Role: models.RoleTecnico}

func TestCreateEquipment(t *testing.T) {
	f, svc, _ := newTestEnv()

	eq := intake(t, svc)
	if eq.Status != models.StatusReceived {
		t.Errorf("new equipment status = %s, want RECEIVED", eq.Status)
	}
	if eq.Code == "" {
		t.Error("new equipment has no code")
	}
	if len(f.history[eq.ID]) != 1 || f.history[eq.ID][0].Status != models.StatusReceived {
		t.Errorf("intake must append one RECEIVED history entry, got %v", f.history[eq.ID])
	}

	t.Run("unknown customer", func(t *testing.T) {
		_, err := svc.CreateEquipment(context.Background(), &models.CreateEquipmentRequest{
			CustomerID:    99,
			EquipmentType: "Printer",
		}, 10)
		if !apperrors.IsKind(err, apperrors.KindNotFound) {
			t.Errorf("expected NotFound, got %v", err)
		}
	})

	t.Run("missing type", func(t *testing.T) {
		_, err := svc.CreateEquipment(context.Background(), &models.CreateEquipmentRequest{
			CustomerID: 1,
		}, 10)
		if !apperrors.IsKind(err, apperrors.KindInvalidInput) {
			t.Errorf("expected InvalidInput, got %v", err)
		}
	})
}

func TestChangeStatus_NotFound(t *testing.T) {
	_, svc, _ := newTestEnv()

	_, err := svc.ChangeStatus(context.Background(), 404,
		&models.ChangeStatusRequest{Status: models.StatusRepair}, admin)
	if !apperrors.IsKind(err, apperrors.KindNotFound) {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

func TestChangeStatus_SelfTransitionRejected(t *testing.T) {
	_, svc, _ := newTestEnv()
	eq := intake(t, svc)

	// First move applies, the identical second request is a rejection, not
	// a no-op success.
	if _, err := svc.ChangeStatus(context.Background(), eq.ID,
		&models.ChangeStatusRequest{Status: models.StatusRepair}, admin); err != nil {
		t.Fatalf("first transition failed: %v", err)
	}
	_, err := svc.ChangeStatus(context.Background(), eq.ID,
		&models.ChangeStatusRequest{Status: models.StatusRepair}, admin)
	if !apperrors.IsKind(err, apperrors.KindInvalidTransition) {
		t.Fatalf("expected InvalidTransition, got %v", err)
	}
}

func TestChangeStatus_TechnicianRules(t *testing.T) {
	_, svc, _ := newTestEnv()
	eq := intake(t, svc)

	if _, err := svc.ChangeStatus(context.Background(), eq.ID,
		&models.ChangeStatusRequest{Status: models.StatusRepair}, admin); err != nil {
		t.Fatalf("admin -> REPAIR failed: %v", err)
	}
	if _, err := svc.AssignTechnician(context.Background(), eq.ID, intPtr(20)); err != nil {
		t.Fatalf("assign failed: %v", err)
	}

	t.Run("non-assignee denied", func(t *testing.T) {
		other := models.Actor{ID: 21, Role: models.RoleTecnico}
		_, err := svc.ChangeStatus(context.Background(), eq.ID,
			&models.ChangeStatusRequest{Status: models.StatusRepaired}, other)
		if !apperrors.IsKind(err, apperrors.KindForbidden) {
			t.Fatalf("expected Forbidden, got %v", err)
		}
	})

	t.Run("technician cannot deliver", func(t *testing.T) {
		_, err := svc.ChangeStatus(context.Background(), eq.ID,
			&models.ChangeStatusRequest{Status: models.StatusDelivered}, tech)
		if !apperrors.IsKind(err, apperrors.KindForbidden) {
			t.Fatalf("expected Forbidden, got %v", err)
		}
	})

	t.Run("assignee marks repaired", func(t *testing.T) {
		updated, err := svc.ChangeStatus(context.Background(), eq.ID,
			&models.ChangeStatusRequest{Status: models.StatusRepaired, Observations: "Replaced PSU"}, tech)
		if err != nil {
			t.Fatalf("assignee REPAIR -> REPAIRED failed: %v", err)
		}
		if updated.Status != models.StatusRepaired {
			t.Errorf("status = %s, want REPAIRED", updated.Status)
		}
	})

	t.Run("repaired equipment cannot be re-marked", func(t *testing.T) {
		_, err := svc.ChangeStatus(context.Background(), eq.ID,
			&models.ChangeStatusRequest{Status: models.StatusRepaired}, tech)
		if !apperrors.IsKind(err, apperrors.KindInvalidState) {
			t.Fatalf("expected InvalidState, got %v", err)
		}
	})
}

// TestChangeStatus_RevalidatesAtCommit drives the store directly with
// transitions that were validated against a snapshot another writer has
// since outdated: the commit-time re-check against the stored row must
// reject them.
func TestChangeStatus_RevalidatesAtCommit(t *testing.T) {
	f, svc, _ := newTestEnv()
	eq := intake(t, svc)
	ctx := context.Background()

	t.Run("duplicate admin move rejected, not committed twice", func(t *testing.T) {
		// A concurrent admin already moved the row to RECEIVED's target;
		// the second request arrives carrying the now-current status.
		_, err := f.ChangeStatus(ctx, repositories.ChangeStatusParams{
			EquipmentID:     eq.ID,
			NewStatus:       models.StatusReceived,
			ChangedByUserID: 10,
			ActorRole:       models.RoleAdministrador,
		})
		if !apperrors.IsKind(err, apperrors.KindInvalidTransition) {
			t.Fatalf("expected InvalidTransition, got %v", err)
		}
		if got := len(f.history[eq.ID]); got != 1 {
			t.Fatalf("history has %d entries, want 1 (no entry for the rejected move)", got)
		}
	})

	t.Run("technician completion after concurrent delivery", func(t *testing.T) {
		if _, err := svc.ChangeStatus(ctx, eq.ID,
			&models.ChangeStatusRequest{Status: models.StatusRepair}, admin); err != nil {
			t.Fatalf("admin -> REPAIR: %v", err)
		}
		if _, err := svc.AssignTechnician(ctx, eq.ID, intPtr(20)); err != nil {
			t.Fatalf("assign: %v", err)
		}

		// The row moves on while the technician's request is in flight.
		f.equipment[eq.ID].Status = models.StatusDelivered

		_, err := f.ChangeStatus(ctx, repositories.ChangeStatusParams{
			EquipmentID:     eq.ID,
			NewStatus:       models.StatusRepaired,
			ChangedByUserID: 20,
			ActorRole:       models.RoleTecnico,
		})
		if !apperrors.IsKind(err, apperrors.KindInvalidState) {
			t.Fatalf("expected InvalidState, got %v", err)
		}
		if f.equipment[eq.ID].Status != models.StatusDelivered {
			t.Errorf("status = %s, want DELIVERED untouched", f.equipment[eq.ID].Status)
		}
	})
}

func TestChangeStatus_DeliveryRequiresCompletedPayment(t *testing.T) {
	_, svc, paySvc := newTestEnv()
	eq := intake(t, svc)

	_, err := svc.ChangeStatus(context.Background(), eq.ID,
		&models.ChangeStatusRequest{Status: models.StatusDelivered}, admin)
	if !apperrors.IsKind(err, apperrors.KindPaymentIncomplete) {
		t.Fatalf("expected PaymentIncomplete with no payments, got %v", err)
	}

	// A partial payment is not enough.
	if _, err := paySvc.CreatePayment(context.Background(), &models.CreatePaymentRequest{
		EquipmentID: eq.ID, TotalAmount: 100, AdvanceAmount: 50,
		PaymentMethod: models.MethodCash, VoucherType: models.VoucherBoleta,
	}, 10); err != nil {
		t.Fatalf("partial payment failed: %v", err)
	}
	_, err = svc.ChangeStatus(context.Background(), eq.ID,
		&models.ChangeStatusRequest{Status: models.StatusDelivered}, admin)
	if !apperrors.IsKind(err, apperrors.KindPaymentIncomplete) {
		t.Fatalf("expected PaymentIncomplete with partial payment, got %v", err)
	}

	// Completing the payment unlocks delivery and stamps the date.
	if _, err := paySvc.UpdatePayment(context.Background(), 1, &models.UpdatePaymentRequest{
		AdvanceAmount: float64Ptr(100),
	}); err != nil {
		t.Fatalf("payment update failed: %v", err)
	}
	updated, err := svc.ChangeStatus(context.Background(), eq.ID,
		&models.ChangeStatusRequest{Status: models.StatusDelivered}, admin)
	if err != nil {
		t.Fatalf("delivery with completed payment failed: %v", err)
	}
	if updated.Status != models.StatusDelivered {
		t.Errorf("status = %s, want DELIVERED", updated.Status)
	}
	if updated.DeliveryDate == nil {
		t.Error("delivery date not stamped")
	}
}

func TestAssignTechnician(t *testing.T) {
	_, svc, _ := newTestEnv()
	eq := intake(t, svc)

	t.Run("non-technician rejected", func(t *testing.T) {
		_, err := svc.AssignTechnician(context.Background(), eq.ID, intPtr(10))
		if !apperrors.IsKind(err, apperrors.KindInvalidInput) {
			t.Fatalf("expected InvalidInput, got %v", err)
		}
	})

	t.Run("assign and unassign", func(t *testing.T) {
		updated, err := svc.AssignTechnician(context.Background(), eq.ID, intPtr(20))
		if err != nil {
			t.Fatalf("assign failed: %v", err)
		}
		if updated.AssignedTechnicianID == nil || *updated.AssignedTechnicianID != 20 {
			t.Errorf("assigned technician = %v, want 20", updated.AssignedTechnicianID)
		}

		updated, err = svc.AssignTechnician(context.Background(), eq.ID, nil)
		if err != nil {
			t.Fatalf("unassign failed: %v", err)
		}
		if updated.AssignedTechnicianID != nil {
			t.Errorf("technician still assigned after unassign: %v", *updated.AssignedTechnicianID)
		}
	})
}

// TestRepairLifecycle walks the full workflow: intake, repair, technician
// completion, a delivery attempt blocked on money, payment, delivery.
func TestRepairLifecycle(t *testing.T) {
	f, svc, paySvc := newTestEnv()
	ctx := context.Background()

	eq := intake(t, svc)

	if _, err := svc.ChangeStatus(ctx, eq.ID,
		&models.ChangeStatusRequest{Status: models.StatusRepair}, admin); err != nil {
		t.Fatalf("admin -> REPAIR: %v", err)
	}

	if _, err := svc.AssignTechnician(ctx, eq.ID, intPtr(20)); err != nil {
		t.Fatalf("assign technician: %v", err)
	}

	if _, err := svc.ChangeStatus(ctx, eq.ID,
		&models.ChangeStatusRequest{Status: models.StatusRepaired, Observations: "Reflowed GPU"}, tech); err != nil {
		t.Fatalf("technician -> REPAIRED: %v", err)
	}

	_, err := svc.ChangeStatus(ctx, eq.ID,
		&models.ChangeStatusRequest{Status: models.StatusDelivered}, admin)
	if !apperrors.IsKind(err, apperrors.KindPaymentIncomplete) {
		t.Fatalf("delivery before payment: expected PaymentIncomplete, got %v", err)
	}

	payment, err := paySvc.CreatePayment(ctx, &models.CreatePaymentRequest{
		EquipmentID:   eq.ID,
		TotalAmount:   100,
		AdvanceAmount: 100,
		PaymentMethod: models.MethodCash,
		VoucherType:   models.VoucherBoleta,
	}, 10)
	if err != nil {
		t.Fatalf("create payment: %v", err)
	}
	if payment.PaymentStatus != models.PaymentCompleted {
		t.Fatalf("payment status = %s, want COMPLETED", payment.PaymentStatus)
	}

	updated, err := svc.ChangeStatus(ctx, eq.ID,
		&models.ChangeStatusRequest{Status: models.StatusDelivered}, admin)
	if err != nil {
		t.Fatalf("delivery after payment: %v", err)
	}
	if updated.DeliveryDate == nil {
		t.Error("delivery date not stamped")
	}

	history := f.history[eq.ID]
	if len(history) != 4 {
		t.Fatalf("history has %d entries, want 4 (intake + 3 transitions)", len(history))
	}
	wantStatuses := []string{
		models.StatusReceived, models.StatusRepair, models.StatusRepaired, models.StatusDelivered,
	}
	for i, want := range wantStatuses {
		if history[i].Status != want {
			t.Errorf("history[%d].Status = %s, want %s", i, history[i].Status, want)
		}
	}
}

func intPtr(v int) *int             { return &v }
func float64Ptr(v float64) *float64 { return &v }
