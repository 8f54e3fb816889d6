package receipts

import (
	"bytes"
	"fmt"

	"workshop-backend/internal/models"
	"workshop-backend/internal/timeutil"

	"github.com/jung-kurt/gofpdf/v2"
)

// ReceiptData holds everything a payment receipt prints.
type ReceiptData struct {
	Payment   *models.Payment
	Equipment *models.Equipment
	Customer  *models.Customer
}

// Render produces the receipt PDF for a recorded payment.
func Render(data *ReceiptData) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	// Header
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(190, 10, "Taller de Reparaciones - Comprobante de Pago", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(190, 6, fmt.Sprintf("Generated: %s", timeutil.Now().Format("02-Jan-2006 03:04 PM")), "", 1, "C", false, 0, "")
	pdf.Ln(5)

	// Customer Info Box
	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, "Customer Information", "1", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(95, 7, fmt.Sprintf("Name: %s", data.Customer.Name), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Phone: %s", data.Customer.Phone), "RB", 1, "L", false, 0, "")
	pdf.Ln(5)

	// Equipment Info
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, "Equipment", "1", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(95, 7, fmt.Sprintf("Code: %s", data.Equipment.Code), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Status: %s", data.Equipment.Status), "RB", 1, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Type: %s", data.Equipment.EquipmentType), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Brand/Model: %s %s", data.Equipment.Brand, data.Equipment.Model), "RB", 1, "L", false, 0, "")
	pdf.Ln(5)

	// Payment table
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, "Payment Details", "1", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(200, 200, 200)
	pdf.CellFormat(38, 7, "Total", "1", 0, "C", true, 0, "")
	pdf.CellFormat(38, 7, "Advance", "1", 0, "C", true, 0, "")
	pdf.CellFormat(38, 7, "Remaining", "1", 0, "C", true, 0, "")
	pdf.CellFormat(38, 7, "Method", "1", 0, "C", true, 0, "")
	pdf.CellFormat(38, 7, "Status", "1", 1, "C", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	p := data.Payment
	pdf.CellFormat(38, 7, fmt.Sprintf("S/ %.2f", p.TotalAmount), "1", 0, "R", false, 0, "")
	pdf.CellFormat(38, 7, fmt.Sprintf("S/ %.2f", p.AdvanceAmount), "1", 0, "R", false, 0, "")
	pdf.CellFormat(38, 7, fmt.Sprintf("S/ %.2f", p.RemainingAmount), "1", 0, "R", false, 0, "")
	pdf.CellFormat(38, 7, p.PaymentMethod, "1", 0, "C", false, 0, "")
	pdf.CellFormat(38, 7, p.PaymentStatus, "1", 1, "C", false, 0, "")
	pdf.Ln(3)

	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(95, 6, fmt.Sprintf("Voucher: %s", p.VoucherType), "", 0, "L", false, 0, "")
	pdf.CellFormat(95, 6, fmt.Sprintf("Date: %s", timeutil.ToLocal(p.PaymentDate).Format("02-Jan-2006 03:04 PM")), "", 1, "R", false, 0, "")
	if p.Observations != "" {
		pdf.Ln(2)
		pdf.MultiCell(190, 6, fmt.Sprintf("Observations: %s", p.Observations), "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render receipt: %w", err)
	}
	return buf.Bytes(), nil
}

// ObjectKey is the archive path for a payment's receipt.
func ObjectKey(payment *models.Payment, equipmentCode string) string {
	return fmt.Sprintf("receipts/%s/payment_%d.pdf", equipmentCode, payment.ID)
}
