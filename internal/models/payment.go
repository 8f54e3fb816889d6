package models

import "time"

// Payment status constants
const (
	PaymentPending   = "PENDING"
	PaymentPartial   = "PARTIAL"
	PaymentCompleted = "COMPLETED"
)

// Payment method constants
const (
	MethodCash     = "CASH"
	MethodCard     = "CARD"
	MethodTransfer = "TRANSFER"
	MethodYape     = "YAPE"
)

// Voucher type constants
const (
	VoucherTicket  = "TICKET"
	VoucherBoleta  = "BOLETA"
	VoucherFactura = "FACTURA"
)

type Payment struct {
	ID              int       `json:"id"`
	EquipmentID     int       `json:"equipment_id"`
	EquipmentCode   string    `json:"equipment_code,omitempty"` // Joined from equipment table
	TotalAmount     float64   `json:"total_amount"`
	AdvanceAmount   float64   `json:"advance_amount"`
	RemainingAmount float64   `json:"remaining_amount"` // Derived: max(0, total - advance)
	PaymentStatus   string    `json:"payment_status"`   // Derived from (advance, total)
	PaymentMethod   string    `json:"payment_method"`
	VoucherType     string    `json:"voucher_type"`
	Observations    string    `json:"observations"`
	PaymentDate     time.Time `json:"payment_date"`
	CreatedByUserID int       `json:"created_by_user_id"`
	CreatedAt       time.Time `json:"created_at"`
}

// CreatePaymentRequest represents the request body for creating a payment
type CreatePaymentRequest struct {
	EquipmentID   int     `json:"equipment_id"`
	TotalAmount   float64 `json:"total_amount"`
	AdvanceAmount float64 `json:"advance_amount"`
	PaymentMethod string  `json:"payment_method"`
	VoucherType   string  `json:"voucher_type"`
	Observations  string  `json:"observations"`
}

// UpdatePaymentRequest represents the request body for updating a payment.
// Nil fields are left unchanged; amounts are recomputed after applying.
type UpdatePaymentRequest struct {
	TotalAmount   *float64 `json:"total_amount"`
	AdvanceAmount *float64 `json:"advance_amount"`
	PaymentMethod *string  `json:"payment_method"`
	VoucherType   *string  `json:"voucher_type"`
	Observations  *string  `json:"observations"`
}
