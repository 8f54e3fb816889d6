package repositories

import (
	"context"

	"workshop-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// StatusHistoryRepository reads the append-only audit trail. Appends happen
// inside the equipment repository's transactions so a history write can
// never be separated from the status change it records.
type StatusHistoryRepository struct {
	DB *pgxpool.Pool
}

func NewStatusHistoryRepository(db *pgxpool.Pool) *StatusHistoryRepository {
	return &StatusHistoryRepository{DB: db}
}

func (r *StatusHistoryRepository) ListByEquipment(ctx context.Context, equipmentID int) ([]*models.StatusHistoryEntry, error) {
	query := `
		SELECT h.id, h.equipment_id, h.status, COALESCE(h.observations, ''),
		       h.changed_by_user_id, COALESCE(u.name, 'Unknown'), h.created_at
		FROM status_history h
		LEFT JOIN users u ON h.changed_by_user_id = u.id
		WHERE h.equipment_id = $1
		ORDER BY h.created_at ASC, h.id ASC
	`

	rows, err := r.DB.Query(ctx, query, equipmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*models.StatusHistoryEntry
	for rows.Next() {
		entry := &models.StatusHistoryEntry{}
		err := rows.Scan(
			&entry.ID,
			&entry.EquipmentID,
			&entry.Status,
			&entry.Observations,
			&entry.ChangedByUserID,
			&entry.ChangedByName,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}
