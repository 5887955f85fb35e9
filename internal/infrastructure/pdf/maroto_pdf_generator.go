// Package pdf genera los documentos imprimibles del CRM (factura y hoja de preparación)
// con Maroto v2 y los escribe bajo el directorio de datos.
//
// Layout de la factura (A4):
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Empresa + email       │  INVOICE + ID + fecha       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  BILL TO: negocio / dirección / teléfono / representante     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: SKU | Cajas | Latas/caja | $/lata | $/caja | Total   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Subtotal / GST / QST / TOTAL                       │
//	│  FOOTER: forma de pago                                       │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	marotoentity "github.com/johnfercher/maroto/v2/pkg/core/entity"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/AchrafRT/sales-crm/internal/domain/entity"
	"github.com/AchrafRT/sales-crm/internal/domain/pricing"
)

// Subdirectorios relativos al directorio de datos.
const (
	InvoicesDir = "docs/invoices"
	OrdersDir   = "docs/orders"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 176, Green: 38, Blue: 84}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorHeader  = &props.Color{Red: 245, Green: 230, Blue: 236}
)

var hundred = decimal.NewFromInt(100)

// ── Renderer ──────────────────────────────────────────────────────────────────

// Renderer implementa repository.DocumentRenderer usando Maroto v2.
type Renderer struct {
	dataDir string
}

// New construye el renderer sobre el directorio de datos.
func New(dataDir string) *Renderer { return &Renderer{dataDir: dataDir} }

// RenderInvoice genera docs/invoices/<id>.pdf.
func (r *Renderer) RenderInvoice(
	_ context.Context,
	inv entity.Invoice,
	order entity.Order,
	lead entity.Lead,
	s entity.Settings,
) (string, error) {
	m := maroto.New(documentConfig("Invoice "+inv.ID, s.CompanyName))

	m.AddRows(invoiceHeaderRow(inv, s))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(billToRow(lead))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(invoiceTableHeaderRow())
	m.AddRows(invoiceItemRows(order)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(order))

	m.AddRows(line.NewRow(3))
	m.AddRows(row.New(8).Add(col.New(12).Add(
		text.New("Payment: e-transfer / card (record payment in CRM).", props.Text{
			Size: 8, Color: colorGray, Top: 2,
		}),
	)))

	doc, err := m.Generate()
	if err != nil {
		return "", fmt.Errorf("pdf: generar factura %s: %w", inv.ID, err)
	}
	return r.write(InvoicesDir, inv.ID, doc.GetBytes())
}

// RenderPickList genera docs/orders/<id>.pdf para preparar la entrega.
func (r *Renderer) RenderPickList(
	_ context.Context,
	order entity.Order,
	lead entity.Lead,
	s entity.Settings,
) (string, error) {
	m := maroto.New(documentConfig("Order "+order.ID, s.CompanyName))

	m.AddRows(row.New(18).Add(
		col.New(7).Add(
			text.New("ORDER / PICK LIST", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Order ID: "+order.ID, props.Text{Size: 9, Top: 9, Color: colorGray}),
		),
		col.New(5).Add(
			text.New("DELIVERY", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(nonEmpty(order.DeliveryDate, "-")+" "+order.DeliveryTime, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
		),
	))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(row.New(16).Add(col.New(12).Add(
		text.New("CLIENT", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
		text.New(nonEmpty(lead.BusinessName, "-"), props.Text{Style: fontstyle.Bold, Size: 10, Top: 6}),
		text.New(nonEmpty(lead.BusinessAddress, "-"), props.Text{Size: 8, Top: 12, Color: colorGray}),
	)))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(row.New(8).WithStyle(&props.Cell{BackgroundColor: colorHeader}).Add(
		headerCol("SKU", 8, align.Left),
		headerCol("Cases", 4, align.Right),
	))
	for _, it := range order.Items {
		m.AddRows(row.New(7).Add(
			col.New(8).Add(text.New(it.SKU, props.Text{Size: 9, Top: 1, Left: 1})),
			col.New(4).Add(text.New(fmt.Sprintf("%d", it.Cases), props.Text{
				Size: 9, Align: align.Right, Top: 1, Right: 1,
			})),
		))
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(row.New(8).Add(col.New(12).Add(
		text.New("Total: "+order.Total, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 1,
		}),
	)))

	doc, err := m.Generate()
	if err != nil {
		return "", fmt.Errorf("pdf: generar hoja de preparación %s: %w", order.ID, err)
	}
	return r.write(OrdersDir, order.ID, doc.GetBytes())
}

func (r *Renderer) write(dir, id string, data []byte) (string, error) {
	rel := filepath.Join(filepath.FromSlash(dir), id+".pdf")
	abs := filepath.Join(r.dataDir, rel)
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return "", fmt.Errorf("pdf: crear directorio: %w", err)
	}
	if err := os.WriteFile(abs, data, 0o644); err != nil {
		return "", fmt.Errorf("pdf: escribir %s: %w", rel, err)
	}
	return filepath.ToSlash(rel), nil
}

func documentConfig(title, author string) *marotoentity.Config {
	return config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(12).WithRightMargin(12).
		WithTopMargin(12).WithBottomMargin(12).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(title, true).
		WithAuthor(nonEmpty(author, "Sales CRM"), true).
		Build()
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// invoiceHeaderRow: empresa (izq) e ID de factura + fecha (der).
func invoiceHeaderRow(inv entity.Invoice, s entity.Settings) core.Row {
	return row.New(22).Add(
		col.New(7).Add(
			text.New(nonEmpty(s.CompanyName, "-"), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(s.CompanyEmail, props.Text{Size: 9, Top: 9, Color: colorGray}),
		),
		col.New(5).Add(
			text.New("INVOICE", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(inv.ID, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 6,
			}),
			text.New("Order ID: "+inv.OrderID, props.Text{
				Size: 8, Align: align.Right, Top: 13, Color: colorGray,
			}),
			text.New("Date: "+inv.CreatedAt, props.Text{
				Size: 8, Align: align.Right, Top: 17, Color: colorGray,
			}),
		),
	)
}

// billToRow: negocio y representante del lead.
func billToRow(lead entity.Lead) core.Row {
	return row.New(24).Add(col.New(12).Add(
		text.New("BILL TO", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
		text.New(nonEmpty(lead.BusinessName, "-"), props.Text{Style: fontstyle.Bold, Size: 10, Top: 6}),
		text.New(fmt.Sprintf("%s   |   Tel: %s",
			nonEmpty(lead.BusinessAddress, "-"),
			nonEmpty(lead.BusinessPhone, "-"),
		), props.Text{Size: 8, Top: 12, Color: colorGray}),
		text.New(fmt.Sprintf("Attn: %s   |   %s   |   %s",
			lead.RepName, lead.RepPhone, lead.RepEmail,
		), props.Text{Size: 8, Top: 17, Color: colorGray}),
	))
}

func headerCol(label string, size int, a align.Type) core.Col {
	return col.New(size).Add(text.New(label, props.Text{
		Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
	}))
}

func invoiceTableHeaderRow() core.Row {
	return row.New(8).WithStyle(&props.Cell{BackgroundColor: colorHeader}).Add(
		headerCol("SKU", 3, align.Left),
		headerCol("Cases", 2, align.Right),
		headerCol("Cans/case", 2, align.Right),
		headerCol("Price/can", 1, align.Right),
		headerCol("Price/case", 2, align.Right),
		headerCol("Line total", 2, align.Right),
	)
}

// invoiceItemRows: una fila por línea de la orden.
func invoiceItemRows(order entity.Order) []core.Row {
	cell := func(s string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(s, props.Text{Size: 8, Align: a, Top: 1, Left: 1, Right: 1}))
	}
	rows := make([]core.Row, 0, len(order.Items))
	for _, it := range order.Items {
		rows = append(rows, row.New(7).Add(
			cell(it.SKU, 3, align.Left),
			cell(fmt.Sprintf("%d", it.Cases), 2, align.Right),
			cell(fmt.Sprintf("%d", it.CansPerCase), 2, align.Right),
			cell(it.PricePerCan.StringFixed(2), 1, align.Right),
			cell(it.PricePerCase.StringFixed(2), 2, align.Right),
			cell(pricing.FormatMoney(it.LineTotal, order.Pricing.Currency), 2, align.Right),
		))
	}
	return rows
}

// totalsRow: bloque de totales alineado a la derecha con las tasas aplicadas.
func totalsRow(order entity.Order) core.Row {
	label := func(s string, top float64, grand bool) core.Component {
		p := props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: top}
		if grand {
			p.Size, p.Color = 10, colorPrimary
		}
		return text.New(s, p)
	}
	value := func(s string, top float64, grand bool) core.Component {
		p := props.Text{Size: 9, Align: align.Right, Right: 1, Top: top}
		if grand {
			p.Style, p.Size, p.Color = fontstyle.Bold, 10, colorPrimary
		}
		return text.New(s, p)
	}
	cur := order.Pricing.Currency
	t := order.Totals

	return row.New(26).Add(
		col.New(4),
		col.New(4).Add(
			label("Subtotal:", 1, false),
			label(fmt.Sprintf("GST (%s%%):", percent(order.Pricing.GSTRate)), 6, false),
			label(fmt.Sprintf("QST (%s%%):", percent(order.Pricing.QSTRate)), 11, false),
			label("TOTAL:", 17, true),
		),
		col.New(4).Add(
			value(pricing.FormatMoney(t.Subtotal, cur), 1, false),
			value(pricing.FormatMoney(t.GST, cur), 6, false),
			value(pricing.FormatMoney(t.QST, cur), 11, false),
			value(pricing.FormatMoney(t.Total, cur), 17, true),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// percent 0.09975 → "9.975".
func percent(rate decimal.Decimal) string {
	return rate.Mul(hundred).String()
}
