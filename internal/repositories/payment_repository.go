package repositories

import (
	"context"
	"errors"

	"workshop-backend/internal/apperrors"
	"workshop-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PaymentRepository struct {
	DB *pgxpool.Pool
}

func NewPaymentRepository(db *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{DB: db}
}

func (r *PaymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	query := `
		INSERT INTO payments (equipment_id, total_amount, advance_amount, remaining_amount,
			payment_status, payment_method, voucher_type, observations, created_by_user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, payment_date, created_at
	`

	return r.DB.QueryRow(ctx, query,
		payment.EquipmentID,
		payment.TotalAmount,
		payment.AdvanceAmount,
		payment.RemainingAmount,
		payment.PaymentStatus,
		payment.PaymentMethod,
		payment.VoucherType,
		payment.Observations,
		payment.CreatedByUserID,
	).Scan(&payment.ID, &payment.PaymentDate, &payment.CreatedAt)
}

func (r *PaymentRepository) Get(ctx context.Context, id int) (*models.Payment, error) {
	query := `
		SELECT p.id, p.equipment_id, COALESCE(e.code, ''), p.total_amount, p.advance_amount,
		       p.remaining_amount, p.payment_status, p.payment_method, p.voucher_type,
		       COALESCE(p.observations, ''), p.payment_date, COALESCE(p.created_by_user_id, 0), p.created_at
		FROM payments p
		LEFT JOIN equipment e ON p.equipment_id = e.id
		WHERE p.id = $1
	`

	payment := &models.Payment{}
	err := r.DB.QueryRow(ctx, query, id).Scan(
		&payment.ID,
		&payment.EquipmentID,
		&payment.EquipmentCode,
		&payment.TotalAmount,
		&payment.AdvanceAmount,
		&payment.RemainingAmount,
		&payment.PaymentStatus,
		&payment.PaymentMethod,
		&payment.VoucherType,
		&payment.Observations,
		&payment.PaymentDate,
		&payment.CreatedByUserID,
		&payment.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.E(apperrors.KindNotFound, "payment not found")
	}
	if err != nil {
		return nil, err
	}
	return payment, nil
}

func (r *PaymentRepository) GetByEquipmentID(ctx context.Context, equipmentID int) ([]*models.Payment, error) {
	query := `
		SELECT id, equipment_id, total_amount, advance_amount, remaining_amount,
		       payment_status, payment_method, voucher_type, COALESCE(observations, ''),
		       payment_date, COALESCE(created_by_user_id, 0), created_at
		FROM payments
		WHERE equipment_id = $1
		ORDER BY payment_date DESC
	`

	rows, err := r.DB.Query(ctx, query, equipmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []*models.Payment
	for rows.Next() {
		payment := &models.Payment{}
		err := rows.Scan(
			&payment.ID,
			&payment.EquipmentID,
			&payment.TotalAmount,
			&payment.AdvanceAmount,
			&payment.RemainingAmount,
			&payment.PaymentStatus,
			&payment.PaymentMethod,
			&payment.VoucherType,
			&payment.Observations,
			&payment.PaymentDate,
			&payment.CreatedByUserID,
			&payment.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		payments = append(payments, payment)
	}

	return payments, rows.Err()
}

func (r *PaymentRepository) List(ctx context.Context) ([]*models.Payment, error) {
	// JOIN with equipment to carry the human code - avoids N+1 lookups
	query := `
		SELECT p.id, p.equipment_id, COALESCE(e.code, ''), p.total_amount, p.advance_amount,
		       p.remaining_amount, p.payment_status, p.payment_method, p.voucher_type,
		       COALESCE(p.observations, ''), p.payment_date, COALESCE(p.created_by_user_id, 0), p.created_at
		FROM payments p
		LEFT JOIN equipment e ON p.equipment_id = e.id
		ORDER BY p.payment_date DESC
	`

	rows, err := r.DB.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []*models.Payment
	for rows.Next() {
		payment := &models.Payment{}
		err := rows.Scan(
			&payment.ID,
			&payment.EquipmentID,
			&payment.EquipmentCode,
			&payment.TotalAmount,
			&payment.AdvanceAmount,
			&payment.RemainingAmount,
			&payment.PaymentStatus,
			&payment.PaymentMethod,
			&payment.VoucherType,
			&payment.Observations,
			&payment.PaymentDate,
			&payment.CreatedByUserID,
			&payment.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		payments = append(payments, payment)
	}

	return payments, rows.Err()
}

// Update rewrites the mutable fields and refreshes payment_date so the
// chronological ordering reflects the latest money event.
func (r *PaymentRepository) Update(ctx context.Context, payment *models.Payment) error {
	query := `
		UPDATE payments
		SET total_amount = $1, advance_amount = $2, remaining_amount = $3,
		    payment_status = $4, payment_method = $5, voucher_type = $6,
		    observations = $7, payment_date = NOW()
		WHERE id = $8
		RETURNING payment_date
	`

	err := r.DB.QueryRow(ctx, query,
		payment.TotalAmount,
		payment.AdvanceAmount,
		payment.RemainingAmount,
		payment.PaymentStatus,
		payment.PaymentMethod,
		payment.VoucherType,
		payment.Observations,
		payment.ID,
	).Scan(&payment.PaymentDate)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.E(apperrors.KindNotFound, "payment not found")
	}
	return err
}

func (r *PaymentRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.DB.Exec(ctx, `DELETE FROM payments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.E(apperrors.KindNotFound, "payment not found")
	}
	return nil
}
