package workflow

import (
	"workshop-backend/internal/apperrors"
	"workshop-backend/internal/models"
)

// Decision is the outcome of a transition check. When Allowed is false,
// Reason carries the machine-distinguishable denial kind and Message the
// user-facing explanation.
type Decision struct {
	Allowed bool
	Reason  apperrors.Kind
	Message string
}

func allowed() Decision {
	return Decision{Allowed: true}
}

func denied(reason apperrors.Kind, message string) Decision {
	return Decision{Reason: reason, Message: message}
}

// Err converts a denial into a business error. Returns nil when allowed.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	return apperrors.E(d.Reason, d.Message)
}

// CanTransition decides whether the actor may move equipment from
// currentStatus to newStatus. isAssignee reports whether the actor is the
// equipment's assigned technician; it is only consulted for technicians.
//
// Administrators may move equipment to any status other than the current
// one, backward moves and CANCELLED included. The validator deliberately
// does not fence DELIVERED/CANCELLED off as terminal for administrators.
// Technicians get exactly one transition: REPAIR -> REPAIRED on their own
// assigned equipment.
//
// Pure: same inputs always yield the same decision.
func CanTransition(role string, isAssignee bool, currentStatus, newStatus string) Decision {
	if !models.ValidStatus(newStatus) {
		return denied(apperrors.KindInvalidInput, "unknown status: "+newStatus)
	}

	switch role {
	case models.RoleAdministrador:
		if newStatus == currentStatus {
			return denied(apperrors.KindInvalidTransition, "equipment already in this status")
		}
		return allowed()

	case models.RoleTecnico:
		if newStatus != models.StatusRepaired {
			return denied(apperrors.KindForbidden, "technicians may only mark equipment repaired")
		}
		if currentStatus != models.StatusRepair {
			return denied(apperrors.KindInvalidState, "only equipment under repair can be marked repaired")
		}
		if !isAssignee {
			return denied(apperrors.KindForbidden, "not your assigned equipment")
		}
		return allowed()
	}

	return denied(apperrors.KindForbidden, "role not permitted to change equipment status")
}
