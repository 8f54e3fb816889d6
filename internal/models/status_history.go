package models

import "time"

// StatusHistoryEntry is one immutable record of a committed status change.
// Entries are append-only: never updated or deleted.
type StatusHistoryEntry struct {
	ID              int       `json:"id"`
	EquipmentID     int       `json:"equipment_id"`
	Status          string    `json:"status"` // The status transitioned to
	Observations    string    `json:"observations"`
	ChangedByUserID int       `json:"changed_by_user_id"`
	ChangedByName   string    `json:"changed_by_name,omitempty"` // Joined from users table
	CreatedAt       time.Time `json:"created_at"`
}
