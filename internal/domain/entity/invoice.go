package entity

// InvoiceStatusGenerated estado de una factura con documento generado.
const InvoiceStatusGenerated = "generated"

// Invoice factura emitida para una orden. PDFPath es relativo al directorio de datos.
type Invoice struct {
	ID          string `json:"id"`
	OrderID     string `json:"order_id"`
	CreatedAt   string `json:"created_at"`
	Status      string `json:"status"`
	PDFPath     string `json:"pdf_path"`
	BillToEmail string `json:"bill_to_email"`
}
