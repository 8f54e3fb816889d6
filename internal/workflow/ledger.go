package workflow

import (
	"fmt"

	"workshop-backend/internal/apperrors"
	"workshop-backend/internal/models"
)

// ComputeStatus derives (remainingAmount, paymentStatus) from the money
// collected against a total. Negative inputs are rejected. An advance that
// meets or exceeds the total maps to COMPLETED; the remaining amount never
// goes below zero.
//
// Pure and idempotent: no hidden state.
func ComputeStatus(totalAmount, advanceAmount float64) (float64, string, error) {
	if totalAmount < 0 {
		return 0, "", apperrors.E(apperrors.KindInvalidAmount,
			fmt.Sprintf("total amount cannot be negative: %.2f", totalAmount))
	}
	if advanceAmount < 0 {
		return 0, "", apperrors.E(apperrors.KindInvalidAmount,
			fmt.Sprintf("advance amount cannot be negative: %.2f", advanceAmount))
	}

	remaining := totalAmount - advanceAmount
	if remaining < 0 {
		remaining = 0
	}

	switch {
	case advanceAmount == 0 && totalAmount > 0:
		return remaining, models.PaymentPending, nil
	case advanceAmount >= totalAmount:
		return remaining, models.PaymentCompleted, nil
	default:
		return remaining, models.PaymentPartial, nil
	}
}

// ValidateNewPayment applies the creation-only rule: an advance above the
// total is rejected rather than clamped. Updates are exempt and simply map
// to COMPLETED via ComputeStatus.
func ValidateNewPayment(totalAmount, advanceAmount float64) error {
	if totalAmount < 0 || advanceAmount < 0 {
		return apperrors.E(apperrors.KindInvalidAmount, "amounts cannot be negative")
	}
	if advanceAmount > totalAmount {
		return apperrors.E(apperrors.KindInvalidAmount, "advance exceeds total")
	}
	return nil
}

// HasCompletedPayment reports whether any payment in the set is COMPLETED.
// This is the single release-precondition predicate consulted before
// allowing a DELIVERED transition.
func HasCompletedPayment(payments []*models.Payment) bool {
	for _, p := range payments {
		if p.PaymentStatus == models.PaymentCompleted {
			return true
		}
	}
	return false
}
