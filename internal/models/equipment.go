package models

import "time"

// Equipment status constants
const (
	StatusReceived  = "RECEIVED"
	StatusRepair    = "REPAIR"
	StatusRepaired  = "REPAIRED"
	StatusDelivered = "DELIVERED"
	StatusCancelled = "CANCELLED"
)

// ValidStatus reports whether s is one of the known equipment statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusReceived, StatusRepair, StatusRepaired, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

type Equipment struct {
	ID                   int        `json:"id"`
	Code                 string     `json:"code"` // RJD-YYYYMMDD-NNNN, unique
	EquipmentType        string     `json:"equipment_type"`
	Brand                string     `json:"brand"`
	Model                string     `json:"model"`
	SerialNumber         string     `json:"serial_number"`
	ProblemDescription   string     `json:"problem_description"`
	Status               string     `json:"status"`
	CustomerID           int        `json:"customer_id"`
	CustomerName         string     `json:"customer_name,omitempty"` // Joined from customers table
	AssignedTechnicianID *int       `json:"assigned_technician_id"`
	TechnicianName       string     `json:"technician_name,omitempty"` // Joined from users table
	EntryDate            time.Time  `json:"entry_date"`
	DeliveryDate         *time.Time `json:"delivery_date"`
	CreatedByUserID      int        `json:"created_by_user_id"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

// CreateEquipmentRequest represents the request body for equipment intake
type CreateEquipmentRequest struct {
	CustomerID         int    `json:"customer_id"`
	EquipmentType      string `json:"equipment_type"`
	Brand              string `json:"brand"`
	Model              string `json:"model"`
	SerialNumber       string `json:"serial_number"`
	ProblemDescription string `json:"problem_description"`
}

// ChangeStatusRequest represents the request body for a status change
type ChangeStatusRequest struct {
	Status       string `json:"status"`
	Observations string `json:"observations"`
}

// AssignTechnicianRequest represents the request body for technician assignment.
// A null technician_id unassigns.
type AssignTechnicianRequest struct {
	TechnicianID *int `json:"technician_id"`
}
