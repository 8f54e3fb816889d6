package workflow

import (
	"testing"

	"workshop-backend/internal/apperrors"
	"workshop-backend/internal/models"
)

func TestComputeStatus(t *testing.T) {
	cases := []struct {
		name          string
		total         float64
		advance       float64
		wantRemaining float64
		wantStatus    string
	}{
		{"no advance", 100, 0, 100, models.PaymentPending},
		{"partial", 100, 40, 60, models.PaymentPartial},
		{"exact", 100, 100, 0, models.PaymentCompleted},
		{"over-coverage", 100, 150, 0, models.PaymentCompleted},
		{"zero total", 0, 0, 0, models.PaymentCompleted},
		{"small partial", 10.50, 0.50, 10, models.PaymentPartial},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			remaining, status, err := ComputeStatus(c.total, c.advance)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if remaining != c.wantRemaining {
				t.Errorf("remaining = %.2f, want %.2f", remaining, c.wantRemaining)
			}
			if status != c.wantStatus {
				t.Errorf("status = %s, want %s", status, c.wantStatus)
			}
		})
	}
}

func TestComputeStatus_RejectsNegative(t *testing.T) {
	for _, c := range []struct{ total, advance float64 }{
		{-1, 0},
		{100, -5},
		{-1, -1},
	} {
		_, _, err := ComputeStatus(c.total, c.advance)
		if !apperrors.IsKind(err, apperrors.KindInvalidAmount) {
			t.Errorf("ComputeStatus(%.2f, %.2f): expected InvalidAmount, got %v", c.total, c.advance, err)
		}
	}
}

func TestComputeStatus_Idempotent(t *testing.T) {
	r1, s1, err1 := ComputeStatus(250, 70)
	r2, s2, err2 := ComputeStatus(250, 70)
	if r1 != r2 || s1 != s2 || (err1 == nil) != (err2 == nil) {
		t.Fatalf("repeated calls disagree: (%v,%v,%v) vs (%v,%v,%v)", r1, s1, err1, r2, s2, err2)
	}
}

func TestComputeStatus_Invariant(t *testing.T) {
	// remaining = total - advance and the status partition, across the
	// whole 0 <= advance <= total grid.
	for total := 0.0; total <= 200; total += 25 {
		for advance := 0.0; advance <= total; advance += 25 {
			remaining, status, err := ComputeStatus(total, advance)
			if err != nil {
				t.Fatalf("ComputeStatus(%.0f, %.0f): %v", total, advance, err)
			}
			if remaining != total-advance {
				t.Errorf("ComputeStatus(%.0f, %.0f): remaining = %.0f, want %.0f",
					total, advance, remaining, total-advance)
			}
			var want string
			switch {
			case advance >= total:
				want = models.PaymentCompleted
			case advance == 0:
				want = models.PaymentPending
			default:
				want = models.PaymentPartial
			}
			if status != want {
				t.Errorf("ComputeStatus(%.0f, %.0f): status = %s, want %s", total, advance, status, want)
			}
		}
	}
}

func TestValidateNewPayment(t *testing.T) {
	if err := ValidateNewPayment(100, 100); err != nil {
		t.Errorf("full advance on creation should pass: %v", err)
	}
	if err := ValidateNewPayment(100, 0); err != nil {
		t.Errorf("zero advance on creation should pass: %v", err)
	}

	err := ValidateNewPayment(100, 101)
	if !apperrors.IsKind(err, apperrors.KindInvalidAmount) {
		t.Errorf("advance above total must be rejected on creation, got %v", err)
	}
	if err != nil && err.Error() != "advance exceeds total" {
		t.Errorf("message = %q, want %q", err.Error(), "advance exceeds total")
	}

	if err := ValidateNewPayment(-1, 0); !apperrors.IsKind(err, apperrors.KindInvalidAmount) {
		t.Errorf("negative total must be rejected, got %v", err)
	}
}

func TestHasCompletedPayment(t *testing.T) {
	t.Run("empty set", func(t *testing.T) {
		if HasCompletedPayment(nil) {
			t.Fatal("no payments must not satisfy the release precondition")
		}
	})

	t.Run("only partial", func(t *testing.T) {
		payments := []*models.Payment{
			{PaymentStatus: models.PaymentPending},
			{PaymentStatus: models.PaymentPartial},
		}
		if HasCompletedPayment(payments) {
			t.Fatal("partial payments must not satisfy the release precondition")
		}
	})

	t.Run("one completed among many", func(t *testing.T) {
		payments := []*models.Payment{
			{PaymentStatus: models.PaymentPartial},
			{PaymentStatus: models.PaymentCompleted},
			{PaymentStatus: models.PaymentPending},
		}
		if !HasCompletedPayment(payments) {
			t.Fatal("a completed payment must satisfy the release precondition")
		}
	})
}
