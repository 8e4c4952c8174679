// Package pdf implementa la representación gráfica descargable de una factura.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Organización  │  N° Factura + Tipo + Fechas        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  EMISOR: nombre / email / dirección                         │
//	│  RECEPTOR: nombre + contacto                                │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Cant | Descripción | P.Unit | Imp% | Subtotal       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Total / Pagado / SALDO PENDIENTE                  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: estado + referencia a factura acreditada           │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

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
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/tochman/visinv-api/internal/application/invoicing"
	"github.com/tochman/visinv-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorRed     = &props.Color{Red: 160, Green: 30, Blue: 30}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa invoicing.InvoicePDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// GenerateInvoicePDF genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateInvoicePDF(_ context.Context, doc *invoicing.InvoiceDocument) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(docTitle(doc.Invoice), true).
		WithAuthor(doc.Organization.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(doc))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(emisorRow(doc.Organization))
	m.AddRows(receptorRow(doc.Client))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, r := range tableItemRows(doc) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(doc))

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	for _, r := range footerRows(doc) {
		m.AddRows(r)
	}

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return out.GetBytes(), nil
}

func docTitle(inv *entity.Invoice) string {
	if inv.Type == entity.TypeCredit {
		return "Nota Crédito"
	}
	return "Factura"
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: organización (izq) y número + tipo + fechas (der).
func headerRow(doc *invoicing.InvoiceDocument) core.Row {
	inv := doc.Invoice
	kind := "FACTURA"
	kindColor := colorPrimary
	if inv.Type == entity.TypeCredit {
		kind = "NOTA CRÉDITO"
		kindColor = colorRed
	}
	fechas := "Emisión: " + inv.IssueDate.Format("02/01/2006")
	if !inv.DueDate.IsZero() {
		fechas += "   Vence: " + inv.DueDate.Format("02/01/2006")
	}

	return row.New(18).Add(
		col.New(7).Add(
			text.New(doc.Organization.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
		),
		col.New(5).Add(
			text.New(kind, props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: kindColor, Top: 1,
			}),
			text.New(inv.InvoiceNumber, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New(fechas, props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// emisorRow: datos del emisor (organización).
func emisorRow(org *entity.Organization) core.Row {
	return row.New(12).Add(
		col.New(12).Add(
			text.New("DATOS DEL EMISOR", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("Email: %s   |   Dirección: %s",
				nonEmpty(org.Email, "—"),
				nonEmpty(org.Address, "—"),
			), props.Text{Size: 8, Top: 7, Color: colorGray}),
		),
	)
}

// receptorRow: datos del cliente.
func receptorRow(client *entity.Client) core.Row {
	return row.New(14).Add(
		col.New(12).Add(
			text.New("RECEPTOR", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(client.Name, props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(fmt.Sprintf("Email: %s   |   Dirección: %s",
				nonEmpty(client.Email, "—"),
				nonEmpty(client.Address, "—"),
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de líneas.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Cant.", 1, align.Center),
		h("Descripción", 5, align.Left),
		h("Precio Unit.", 2, align.Right),
		h("Imp%", 1, align.Center),
		h("Subtotal", 3, align.Right),
	)
}

// tableItemRows: una fila por línea de la factura.
func tableItemRows(doc *invoicing.InvoiceDocument) []core.Row {
	cur := doc.Invoice.Currency
	result := make([]core.Row, 0, len(doc.Items))
	for _, it := range doc.Items {
		subtotal := it.Quantity.Mul(it.UnitPrice)
		rate := entity.NormalizeTaxRate(it.TaxRate)
		subtotal = subtotal.Add(subtotal.Mul(rate))
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(
				it.Quantity.String(),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(5).Add(text.New(
				it.Description,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				formatAmount(cur, it.UnitPrice),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(1).Add(text.New(
				rate.Mul(decimal.NewFromInt(100)).StringFixed(0)+"%",
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(3).Add(text.New(
				formatAmount(cur, subtotal),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

// totalsRow: total, pagado y saldo pendiente.
func totalsRow(doc *invoicing.InvoiceDocument) core.Row {
	cur := doc.Invoice.Currency
	balance := doc.Invoice.AbsTotal().Sub(doc.PaidAmount)
	if balance.LessThan(decimal.Zero) {
		balance = decimal.Zero
	}

	label := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2,
		})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1})
	}
	grandLabel := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 2,
		})
	}
	grandValue := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 1,
		})
	}

	return row.New(26).Add(
		col.New(3),
		col.New(4).Add(
			label("Total:"),
			label("Pagado:"),
			grandLabel("SALDO PENDIENTE:"),
		),
		col.New(5).Add(
			value(formatAmount(cur, doc.Invoice.TotalAmount)),
			value(formatAmount(cur, doc.PaidAmount)),
			grandValue(formatAmount(cur, balance)),
		),
	)
}

// footerRows: estado del documento y, en notas crédito, la factura acreditada.
func footerRows(doc *invoicing.InvoiceDocument) []core.Row {
	rows := []core.Row{
		row.New(6).Add(col.New(12).Add(
			text.New("Estado: "+statusLabel(doc.Status), props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
		)),
	}
	if doc.Invoice.CreditedInvoiceID != "" {
		rows = append(rows, row.New(5).Add(col.New(12).Add(
			text.New("Nota crédito sobre la factura "+doc.Invoice.CreditedInvoiceID, props.Text{
				Size: 7, Color: colorGray, Top: 1,
			}),
		)))
	}
	rows = append(rows, row.New(8).Add(col.New(12).Add(
		text.New(
			"Documento generado electrónicamente. Conserve este archivo como soporte.",
			props.Text{Size: 6.5, Color: colorGray, Top: 2},
		),
	)))
	return rows
}

func statusLabel(status string) string {
	switch status {
	case entity.StatusDraft:
		return "BORRADOR"
	case entity.StatusSent:
		return "ENVIADA"
	case entity.StatusPartiallyPaid:
		return "PAGO PARCIAL"
	case entity.StatusPaid:
		return "PAGADA"
	case entity.StatusOverdue:
		return "VENCIDA"
	case entity.StatusVoid:
		return "ANULADA"
	}
	return status
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

var amountPrinter = message.NewPrinter(language.EuropeanSpanish)

// formatAmount imprime el monto con separadores de miles y el código de
// moneda: "1.234,50 EUR".
func formatAmount(currency string, d decimal.Decimal) string {
	f, _ := d.Float64()
	return amountPrinter.Sprintf("%.2f %s", f, currency)
}
