package workflow

import (
	"testing"

	"workshop-backend/internal/apperrors"
	"workshop-backend/internal/models"
)

var allStatuses = []string{
	models.StatusReceived,
	models.StatusRepair,
	models.StatusRepaired,
	models.StatusDelivered,
	models.StatusCancelled,
}

func TestCanTransition_Administrador(t *testing.T) {
	for _, from := range allStatuses {
		for _, to := range allStatuses {
			d := CanTransition(models.RoleAdministrador, false, from, to)
			if from == to {
				if d.Allowed {
					t.Errorf("%s -> %s: self-transition must be rejected", from, to)
				}
				if d.Reason != apperrors.KindInvalidTransition {
					t.Errorf("%s -> %s: reason = %s, want %s", from, to, d.Reason, apperrors.KindInvalidTransition)
				}
				continue
			}
			if !d.Allowed {
				t.Errorf("%s -> %s: admin move denied: %s", from, to, d.Message)
			}
		}
	}
}

func TestCanTransition_AdministradorBackwardAndCancel(t *testing.T) {
	// Backward moves and cancellation stay open to administrators, even out
	// of DELIVERED/CANCELLED.
	cases := []struct{ from, to string }{
		{models.StatusRepaired, models.StatusRepair},
		{models.StatusDelivered, models.StatusRepaired},
		{models.StatusCancelled, models.StatusReceived},
		{models.StatusReceived, models.StatusCancelled},
	}
	for _, c := range cases {
		if d := CanTransition(models.RoleAdministrador, false, c.from, c.to); !d.Allowed {
			t.Errorf("%s -> %s: denied: %s", c.from, c.to, d.Message)
		}
	}
}

func TestCanTransition_Tecnico(t *testing.T) {
	for _, from := range allStatuses {
		for _, to := range allStatuses {
			for _, assignee := range []bool{true, false} {
				d := CanTransition(models.RoleTecnico, assignee, from, to)

				wantAllowed := from == models.StatusRepair && to == models.StatusRepaired && assignee
				if d.Allowed != wantAllowed {
					t.Errorf("tecnico %s -> %s (assignee=%v): allowed = %v, want %v",
						from, to, assignee, d.Allowed, wantAllowed)
				}
				if wantAllowed {
					continue
				}

				var wantReason apperrors.Kind
				switch {
				case to != models.StatusRepaired:
					wantReason = apperrors.KindForbidden
				case from != models.StatusRepair:
					wantReason = apperrors.KindInvalidState
				default:
					wantReason = apperrors.KindForbidden // Not the assignee
				}
				if d.Reason != wantReason {
					t.Errorf("tecnico %s -> %s (assignee=%v): reason = %s, want %s",
						from, to, assignee, d.Reason, wantReason)
				}
			}
		}
	}
}

func TestCanTransition_UnknownInputs(t *testing.T) {
	t.Run("unknown target status", func(t *testing.T) {
		d := CanTransition(models.RoleAdministrador, false, models.StatusReceived, "EXPLODED")
		if d.Allowed || d.Reason != apperrors.KindInvalidInput {
			t.Fatalf("got %+v, want InvalidInput denial", d)
		}
	})

	t.Run("unknown role", func(t *testing.T) {
		d := CanTransition("CLIENTE", false, models.StatusReceived, models.StatusRepair)
		if d.Allowed || d.Reason != apperrors.KindForbidden {
			t.Fatalf("got %+v, want Forbidden denial", d)
		}
	})
}

func TestDecisionErr(t *testing.T) {
	if err := CanTransition(models.RoleAdministrador, false, models.StatusReceived, models.StatusRepair).Err(); err != nil {
		t.Fatalf("allowed decision produced error: %v", err)
	}

	err := CanTransition(models.RoleTecnico, true, models.StatusReceived, models.StatusDelivered).Err()
	if !apperrors.IsKind(err, apperrors.KindForbidden) {
		t.Fatalf("expected Forbidden error, got %v", err)
	}
}

func TestCanTransition_Pure(t *testing.T) {
	// Same inputs, same decision, every time.
	first := CanTransition(models.RoleTecnico, false, models.StatusRepair, models.StatusRepaired)
	for i := 0; i < 10; i++ {
		if got := CanTransition(models.RoleTecnico, false, models.StatusRepair, models.StatusRepaired); got != first {
			t.Fatalf("decision changed between calls: %+v vs %+v", first, got)
		}
	}
}
