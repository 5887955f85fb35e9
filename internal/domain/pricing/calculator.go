// Package pricing calcula líneas, subtotal e impuestos GST/QST de una orden a partir de
// la configuración vigente. Es una función pura: no lee ni escribe almacenamiento.
package pricing

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/AchrafRT/sales-crm/internal/domain/entity"
)

// CansPerCase latas por caja (fijo).
const CansPerCase = 24

var cansPerCase = decimal.NewFromInt(CansPerCase)

// Recalc devuelve una copia de la orden con snapshot de tarifas y totales recalculados.
// Redondeo a 2 decimales por línea y luego sobre el agregado de líneas ya redondeadas,
// de modo que recalcular varias veces no desplaza centavos.
//
//	line_total = round(price_per_case × cases, 2)
//	subtotal   = round(Σ line_total, 2)
//	gst, qst   = round(subtotal × rate, 2)
//	total      = round(subtotal + gst + qst, 2)
func Recalc(order entity.Order, s entity.Settings) entity.Order {
	currency := strings.TrimSpace(s.Currency)
	if currency == "" {
		currency = entity.DefaultCurrency
	}
	pricePerCase := s.PricePerCase
	if pricePerCase.IsZero() {
		pricePerCase = entity.DefaultPricePerCase
	}
	pricePerCan := pricePerCase.Div(cansPerCase).Round(4)
	gstRate := rateOr(s.GSTRate, entity.DefaultGSTRate)
	qstRate := rateOr(s.QSTRate, entity.DefaultQSTRate)

	items := make([]entity.OrderItem, len(order.Items))
	subtotal := decimal.Zero
	for i, it := range order.Items {
		it.CansPerCase = CansPerCase
		it.PricePerCan = pricePerCan
		it.PricePerCase = pricePerCase
		it.LineTotal = pricePerCase.Mul(decimal.NewFromInt(int64(it.Cases))).Round(2)
		subtotal = subtotal.Add(it.LineTotal)
		items[i] = it
	}
	subtotal = subtotal.Round(2)
	gst := subtotal.Mul(gstRate).Round(2)
	qst := subtotal.Mul(qstRate).Round(2)
	total := subtotal.Add(gst).Add(qst).Round(2)

	order.Items = items
	order.Pricing = entity.Pricing{
		Currency:     currency,
		PricePerCase: pricePerCase,
		PricePerCan:  pricePerCan,
		CansPerCase:  CansPerCase,
		GSTRate:      gstRate,
		QSTRate:      qstRate,
	}
	order.Totals = entity.Totals{Subtotal: subtotal, GST: gst, QST: qst, Total: total}
	order.TotalAmount = total
	order.Total = FormatMoney(total, currency)
	return order
}

// FormatMoney "1234.50 CAD".
func FormatMoney(amount decimal.Decimal, currency string) string {
	return amount.StringFixed(2) + " " + currency
}

func rateOr(rate decimal.NullDecimal, def decimal.Decimal) decimal.Decimal {
	if !rate.Valid {
		return def
	}
	return rate.Decimal
}
