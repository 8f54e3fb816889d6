package repositories

import (
	"context"
	"errors"
	"fmt"
	"log"

	"workshop-backend/internal/apperrors"
	"workshop-backend/internal/models"
	"workshop-backend/internal/timeutil"
	"workshop-backend/internal/workflow"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// codeIssueAttempts bounds the retry loop when two intakes race for the
// same daily sequence number and the UNIQUE constraint rejects the loser.
const codeIssueAttempts = 3

type EquipmentRepository struct {
	DB *pgxpool.Pool
}

func NewEquipmentRepository(db *pgxpool.Pool) *EquipmentRepository {
	return &EquipmentRepository{DB: db}
}

const equipmentColumns = `
	e.id, e.code, e.equipment_type, e.brand, e.model, e.serial_number,
	e.problem_description, e.status, e.customer_id, COALESCE(c.name, ''),
	e.assigned_technician_id, COALESCE(t.name, ''),
	e.entry_date, e.delivery_date, e.created_by_user_id, e.created_at, e.updated_at`

const equipmentJoins = `
	FROM equipment e
	LEFT JOIN customers c ON e.customer_id = c.id
	LEFT JOIN users t ON e.assigned_technician_id = t.id`

func scanEquipment(row pgx.Row) (*models.Equipment, error) {
	eq := &models.Equipment{}
	err := row.Scan(
		&eq.ID, &eq.Code, &eq.EquipmentType, &eq.Brand, &eq.Model, &eq.SerialNumber,
		&eq.ProblemDescription, &eq.Status, &eq.CustomerID, &eq.CustomerName,
		&eq.AssignedTechnicianID, &eq.TechnicianName,
		&eq.EntryDate, &eq.DeliveryDate, &eq.CreatedByUserID, &eq.CreatedAt, &eq.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return eq, nil
}

// Create issues the next code for today's calendar day and inserts the
// equipment row plus its initial RECEIVED history entry, all in one
// transaction. The UNIQUE constraint on equipment.code is the arbiter when
// two concurrent intakes read the same "last code of day"; the loser
// retries with a fresh read.
func (r *EquipmentRepository) Create(ctx context.Context, eq *models.Equipment) error {
	var lastErr error
	for attempt := 0; attempt < codeIssueAttempts; attempt++ {
		err := r.tryCreate(ctx, eq)
		if err == nil {
			return nil
		}

		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == "equipment_code_key" {
			lastErr = err
			continue
		}
		return err
	}

	return apperrors.Wrap(apperrors.KindDuplicate,
		"could not issue a unique equipment code, please retry", lastErr)
}

func (r *EquipmentRepository) tryCreate(ctx context.Context, eq *models.Equipment) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	today := timeutil.Now()

	// Zero-padded 4-digit sequences keep lexicographic order equal to
	// numeric order within a day.
	dayPrefix := workflow.FormatCode(today, 0)
	dayPrefix = dayPrefix[:len(dayPrefix)-4] // RJD-YYYYMMDD-

	var lastCode string
	err = tx.QueryRow(ctx,
		`SELECT code FROM equipment WHERE code LIKE $1 || '%' ORDER BY code DESC LIMIT 1`,
		dayPrefix,
	).Scan(&lastCode)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	code, codeErr := workflow.NextCode(today, lastCode)
	if codeErr != nil {
		// Degraded issuance: the stored last code did not parse. The UNIQUE
		// constraint below keeps the fallback from colliding.
		log.Printf("[Equipment] %v, falling back to %s", codeErr, code)
	}

	eq.Code = code
	eq.Status = models.StatusReceived

	err = tx.QueryRow(ctx, `
		INSERT INTO equipment (code, equipment_type, brand, model, serial_number,
			problem_description, status, customer_id, assigned_technician_id,
			entry_date, created_by_user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), $10)
		RETURNING id, entry_date, created_at, updated_at
	`,
		eq.Code, eq.EquipmentType, eq.Brand, eq.Model, eq.SerialNumber,
		eq.ProblemDescription, eq.Status, eq.CustomerID, eq.AssignedTechnicianID,
		eq.CreatedByUserID,
	).Scan(&eq.ID, &eq.EntryDate, &eq.CreatedAt, &eq.UpdatedAt)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO status_history (equipment_id, status, observations, changed_by_user_id)
		VALUES ($1, $2, $3, $4)
	`, eq.ID, models.StatusReceived, "Equipment received at intake", eq.CreatedByUserID)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *EquipmentRepository) Get(ctx context.Context, id int) (*models.Equipment, error) {
	query := `SELECT` + equipmentColumns + equipmentJoins + ` WHERE e.id = $1`

	eq, err := scanEquipment(r.DB.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.E(apperrors.KindNotFound, "equipment not found")
	}
	if err != nil {
		return nil, err
	}
	return eq, nil
}

func (r *EquipmentRepository) GetByCode(ctx context.Context, code string) (*models.Equipment, error) {
	query := `SELECT` + equipmentColumns + equipmentJoins + ` WHERE e.code = $1`

	eq, err := scanEquipment(r.DB.QueryRow(ctx, query, code))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.E(apperrors.KindNotFound, "equipment not found")
	}
	if err != nil {
		return nil, err
	}
	return eq, nil
}

func (r *EquipmentRepository) List(ctx context.Context) ([]*models.Equipment, error) {
	query := `SELECT` + equipmentColumns + equipmentJoins + ` ORDER BY e.entry_date DESC`
	return r.queryMany(ctx, query)
}

func (r *EquipmentRepository) ListByCustomer(ctx context.Context, customerID int) ([]*models.Equipment, error) {
	query := `SELECT` + equipmentColumns + equipmentJoins +
		` WHERE e.customer_id = $1 ORDER BY e.entry_date DESC`
	return r.queryMany(ctx, query, customerID)
}

func (r *EquipmentRepository) ListByTechnician(ctx context.Context, technicianID int) ([]*models.Equipment, error) {
	query := `SELECT` + equipmentColumns + equipmentJoins +
		` WHERE e.assigned_technician_id = $1 ORDER BY e.entry_date DESC`
	return r.queryMany(ctx, query, technicianID)
}

func (r *EquipmentRepository) queryMany(ctx context.Context, query string, args ...interface{}) ([]*models.Equipment, error) {
	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []*models.Equipment
	for rows.Next() {
		eq, err := scanEquipment(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, eq)
	}
	return list, rows.Err()
}

// AssignTechnician sets or clears the assigned technician.
func (r *EquipmentRepository) AssignTechnician(ctx context.Context, id int, technicianID *int) error {
	tag, err := r.DB.Exec(ctx,
		`UPDATE equipment SET assigned_technician_id = $1, updated_at = NOW() WHERE id = $2`,
		technicianID, id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.E(apperrors.KindNotFound, "equipment not found")
	}
	return nil
}

// ChangeStatusParams carries one committed status transition.
type ChangeStatusParams struct {
	EquipmentID     int
	NewStatus       string
	Observations    string
	ChangedByUserID int
	// ActorRole is re-checked against the locked row before committing, so
	// a transition validated against a stale snapshot cannot land.
	ActorRole string
	// SetDeliveryDate stamps delivery_date at commit time (DELIVERED only).
	SetDeliveryDate bool
	// RequireCompletedPayment re-checks the release precondition against a
	// payment snapshot read inside this transaction, so a racing payment
	// reversal cannot slip a delivery through.
	RequireCompletedPayment bool
}

// ChangeStatus persists the status update and appends the history entry in
// one transaction: a failed history append rolls back the status change.
func (r *EquipmentRepository) ChangeStatus(ctx context.Context, p ChangeStatusParams) (*models.Equipment, error) {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	// Lock the equipment row for the duration of the transition.
	var currentStatus string
	var assignedTechnicianID *int
	err = tx.QueryRow(ctx,
		`SELECT status, assigned_technician_id FROM equipment WHERE id = $1 FOR UPDATE`,
		p.EquipmentID,
	).Scan(&currentStatus, &assignedTechnicianID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.E(apperrors.KindNotFound, "equipment not found")
	}
	if err != nil {
		return nil, err
	}

	// Re-validate against the locked row. The caller checked the transition
	// against a snapshot; a concurrent transition may have moved the
	// equipment since, and the loser of the lock must not commit blindly.
	isAssignee := assignedTechnicianID != nil && *assignedTechnicianID == p.ChangedByUserID
	if err := workflow.CanTransition(p.ActorRole, isAssignee, currentStatus, p.NewStatus).Err(); err != nil {
		return nil, err
	}

	if p.RequireCompletedPayment {
		payments, err := paymentsForEquipment(ctx, tx, p.EquipmentID)
		if err != nil {
			return nil, err
		}
		if !workflow.HasCompletedPayment(payments) {
			return nil, apperrors.E(apperrors.KindPaymentIncomplete,
				"cannot deliver without a completed payment")
		}
	}

	deliveryExpr := "delivery_date"
	if p.SetDeliveryDate {
		deliveryExpr = "NOW()"
	}

	query := fmt.Sprintf(`
		UPDATE equipment
		SET status = $1, delivery_date = %s, updated_at = NOW()
		WHERE id = $2
	`, deliveryExpr)

	if _, err := tx.Exec(ctx, query, p.NewStatus, p.EquipmentID); err != nil {
		return nil, err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO status_history (equipment_id, status, observations, changed_by_user_id)
		VALUES ($1, $2, $3, $4)
	`, p.EquipmentID, p.NewStatus, p.Observations, p.ChangedByUserID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return r.Get(ctx, p.EquipmentID)
}

// paymentsForEquipment reads the payment snapshot inside the caller's
// transaction.
func paymentsForEquipment(ctx context.Context, tx pgx.Tx, equipmentID int) ([]*models.Payment, error) {
	rows, err := tx.Query(ctx,
		`SELECT id, payment_status FROM payments WHERE equipment_id = $1`, equipmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []*models.Payment
	for rows.Next() {
		p := &models.Payment{}
		if err := rows.Scan(&p.ID, &p.PaymentStatus); err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}
