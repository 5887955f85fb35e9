package entity

import "github.com/shopspring/decimal"

// Estados de Order.
const (
	OrderStatusDraft     = "draft"
	OrderStatusInvoiced  = "invoiced"
	OrderStatusPaid      = "paid"
	OrderStatusScheduled = "scheduled"
	OrderStatusDelivered = "delivered"
	OrderStatusArchived  = "archived"
)

// SKUs de las dos líneas fijas de toda orden.
const (
	SKUPeachBlack = "PEACH_BLACK"
	SKUCherryPink = "CHERRY_PINK"
)

// MinCasesPerFlavor mínimo de cajas por sabor en una orden.
const MinCasesPerFlavor = 25

// OrderItem línea de orden. Solo Cases es editable; el resto lo escribe el motor de precios.
type OrderItem struct {
	SKU          string          `json:"sku"`
	Cases        int             `json:"cases"`
	CansPerCase  int             `json:"cans_per_case"`
	PricePerCan  decimal.Decimal `json:"price_per_can"`
	PricePerCase decimal.Decimal `json:"price_per_case"`
	LineTotal    decimal.Decimal `json:"line_total"`
}

// Pricing snapshot de tarifas con que se recalculó la orden por última vez.
type Pricing struct {
	Currency     string          `json:"currency"`
	PricePerCase decimal.Decimal `json:"price_per_case"`
	PricePerCan  decimal.Decimal `json:"price_per_can"`
	CansPerCase  int             `json:"cans_per_case"`
	GSTRate      decimal.Decimal `json:"gst_rate"`
	QSTRate      decimal.Decimal `json:"qst_rate"`
}

// Totals totales de la orden, redondeados a 2 decimales.
type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	GST      decimal.Decimal `json:"gst"`
	QST      decimal.Decimal `json:"qst"`
	Total    decimal.Decimal `json:"total"`
}

// Order pedido de un Lead. Invariantes: cada ítem con Cases >= MinCasesPerFlavor y
// Totals consistentes con Items (se recalcula en cada comando que la modifica).
type Order struct {
	ID           string          `json:"id"`
	LeadID       string          `json:"lead_id"`
	ClientID     string          `json:"client_id"` // vacío hasta el primer pago o entrega
	CreatedAt    string          `json:"created_at"`
	Items        []OrderItem     `json:"items"`
	Pricing      Pricing         `json:"pricing"`
	Totals       Totals          `json:"totals"`
	Status       string          `json:"status"`
	DeliveryDate string          `json:"delivery_date"`
	DeliveryTime string          `json:"delivery_time"`
	CreatedBy    string          `json:"created_by"`
	Printed      bool            `json:"printed"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	Total        string          `json:"total"` // "3435.45 CAD"
	History      History         `json:"history,omitempty"`
}

// NewOrderItems construye las dos líneas fijas (durazno y cereza).
func NewOrderItems(peachCases, cherryCases int) []OrderItem {
	return []OrderItem{
		{SKU: SKUPeachBlack, Cases: peachCases, CansPerCase: 24},
		{SKU: SKUCherryPink, Cases: cherryCases, CansPerCase: 24},
	}
}

// ValidCases indica si ambas cantidades cumplen el mínimo por sabor.
func ValidCases(peachCases, cherryCases int) bool {
	return peachCases >= MinCasesPerFlavor && cherryCases >= MinCasesPerFlavor
}

// IsPrintable indica si se puede generar la hoja de preparación (pick list).
func (o *Order) IsPrintable() bool {
	return o.Status == OrderStatusScheduled || o.Status == OrderStatusDelivered
}
