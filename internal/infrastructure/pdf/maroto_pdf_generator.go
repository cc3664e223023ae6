// Package pdf genera la representación impresa de las facturas (facture) con Maroto v2.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Raison sociale + régimen │  N° facture + fechas    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  VENDEUR: RC / NIF / AI / NIS + contacto                     │
//	│  CLIENT: nombre + NIF/RC + dirección                         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Désignation | Qté | P.U. HT | Remise | TVA | Total   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: HT / Remise / TVA / Timbre / NET À PAYER TTC        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  PIE: QR de referencia + menciones legales                   │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
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

	appbilling "github.com/ugcompta/invoiceflow/internal/application/billing"
	"github.com/ugcompta/invoiceflow/internal/domain/entity"
	"github.com/ugcompta/invoiceflow/pkg/fiscal"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 98, Blue: 51}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorDraft   = &props.Color{Red: 200, Green: 40, Blue: 40}
)

const dateLayout = "02/01/2006"

var paymentLabels = map[string]string{
	fiscal.PaymentCash:     "Espèces",
	fiscal.PaymentCheque:   "Chèque",
	fiscal.PaymentTransfer: "Virement",
	fiscal.PaymentCard:     "Carte",
}

// ── Generator ─────────────────────────────────────────────────────────────────

var _ appbilling.InvoicePDFGenerator = (*MarotoPDFGenerator)(nil)

// MarotoPDFGenerator implementa billing.InvoicePDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// GenerateInvoicePDF genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateInvoicePDF(_ context.Context, data appbilling.InvoicePDFData) ([]byte, error) {
	if data.Invoice == nil || data.Business == nil || data.Customer == nil {
		return nil, fmt.Errorf("pdf: factura, negocio y cliente son obligatorios")
	}
	inv, biz := data.Invoice, data.Business

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Facture "+inv.Number, true).
		WithAuthor(biz.Name, true).
		Build()

	m := maroto.New(cfg)

	if inv.Status == entity.InvoiceStatusDraft {
		m.AddRows(draftRow())
	}
	m.AddRows(headerRow(inv, biz))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(sellerRow(biz))
	m.AddRows(customerRow(data.Customer))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(itemRows(data.Items)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRows(inv)...)

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRows(inv, biz, data.LegalMentions)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func draftRow() core.Row {
	return row.New(8).Add(col.New(12).Add(
		text.New("BROUILLON - document sans valeur fiscale", props.Text{
			Style: fontstyle.Bold, Size: 11, Align: align.Center, Color: colorDraft, Top: 1,
		}),
	))
}

// headerRow: raison sociale (izq) y número + fechas (der).
func headerRow(inv *entity.Invoice, biz *entity.Business) core.Row {
	return row.New(20).Add(
		col.New(7).Add(
			text.New(biz.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(nonEmpty(biz.Address, ""), props.Text{
				Size: 8, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("FACTURE", props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New("N° "+inv.Number, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 6,
			}),
			text.New("Date: "+inv.IssueDate.Format(dateLayout)+"   Échéance: "+inv.DueDate.Format(dateLayout), props.Text{
				Size: 8, Align: align.Right, Top: 13, Color: colorGray,
			}),
		),
	)
}

func sellerRow(biz *entity.Business) core.Row {
	return row.New(12).Add(
		col.New(12).Add(
			text.New("VENDEUR", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(joinNonEmpty("   |   ",
				labelled("RC", biz.RC),
				labelled("NIF", biz.NIF),
				labelled("AI", biz.AI),
				labelled("NIS", biz.NIS),
				labelled("Tél", biz.Phone),
				labelled("Email", biz.Email),
			), props.Text{Size: 8, Top: 7, Color: colorGray}),
		),
	)
}

func customerRow(c *entity.Customer) core.Row {
	return row.New(18).Add(
		col.New(12).Add(
			text.New("CLIENT", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(c.Name, props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(joinNonEmpty("   |   ",
				labelled("NIF", c.NIF),
				labelled("RC", c.RC),
				labelled("Tél", c.Phone),
				labelled("Email", c.Email),
			), props.Text{Size: 8, Top: 11, Color: colorGray}),
			text.New(c.Address, props.Text{Size: 8, Top: 15, Color: colorGray}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Désignation", 4, align.Left),
		h("Qté", 1, align.Center),
		h("P.U. HT", 2, align.Right),
		h("Remise", 1, align.Center),
		h("TVA", 1, align.Center),
		h("Total HT", 3, align.Right),
	)
}

// itemRows: una fila por línea de factura.
func itemRows(items []*entity.InvoiceItem) []core.Row {
	result := make([]core.Row, 0, len(items))
	for _, it := range items {
		result = append(result, row.New(7).Add(
			col.New(4).Add(text.New(it.Description,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1})),
			col.New(1).Add(text.New(it.Quantity.String(),
				props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(fiscal.FormatAmount(it.UnitPrice),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(1).Add(text.New(percent(it.DiscountRate.String()),
				props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(1).Add(text.New(percent(it.TVARate.String()),
				props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(3).Add(text.New(fiscal.FormatAmount(it.LineTotalHT),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return result
}

// totalsRows: una fila por total; remise y timbre solo si no son cero.
func totalsRows(inv *entity.Invoice) []core.Row {
	total := func(label, value string, grand bool) core.Row {
		p := props.Text{Size: 9, Align: align.Right, Right: 1, Top: 1}
		if grand {
			p.Style = fontstyle.Bold
			p.Size = 10
			p.Color = colorPrimary
		}
		lp := p
		lp.Style = fontstyle.Bold
		return row.New(6).Add(
			col.New(6),
			col.New(3).Add(text.New(label, lp)),
			col.New(3).Add(text.New(value, p)),
		)
	}

	rows := []core.Row{total("Total HT:", fiscal.FormatMoney(inv.SubtotalHT), false)}
	if !inv.DiscountTotal.IsZero() {
		rows = append(rows, total("Remise:", "-"+fiscal.FormatMoney(inv.DiscountTotal), false))
	}
	rows = append(rows, total("TVA:", fiscal.FormatMoney(inv.TotalTVA), false))
	if !inv.StampDutyAmount.IsZero() {
		rows = append(rows, total("Droit de timbre:", fiscal.FormatMoney(inv.StampDutyAmount), false))
	}
	rows = append(rows,
		total("NET À PAYER TTC:", fiscal.FormatMoney(inv.TotalTTC), true),
		row.New(5).Add(col.New(12).Add(text.New("Mode de paiement: "+nonEmpty(paymentLabels[inv.PaymentMethod], inv.PaymentMethod),
			props.Text{Size: 8, Align: align.Right, Color: colorGray, Right: 1, Top: 1}))),
	)
	return rows
}

// footerRows: QR con la referencia de la factura + menciones legales.
func footerRows(inv *entity.Invoice, biz *entity.Business, mentions []string) []core.Row {
	ref := qrReference(inv, biz)
	rows := []core.Row{
		row.New(30).Add(
			col.New(3).Add(code.NewQr(ref, props.Rect{Percent: 95, Center: true})),
			col.New(9).Add(
				text.New("Référence: "+inv.Number, props.Text{
					Style: fontstyle.Bold, Size: 8, Top: 4, Left: 3, Color: colorPrimary,
				}),
				text.New("Montant TTC: "+fiscal.FormatMoney(inv.TotalTTC), props.Text{
					Size: 8, Top: 10, Left: 3, Color: colorGray,
				}),
			),
		),
	}
	if len(mentions) == 0 && inv.Footer != "" {
		mentions = []string{inv.Footer}
	}
	for _, m := range mentions {
		rows = append(rows, row.New(4).Add(col.New(12).Add(
			text.New(m, props.Text{Size: 7, Align: align.Center, Color: colorGray, Top: 0.5}),
		)))
	}
	return rows
}

// ── helpers ───────────────────────────────────────────────────────────────────

// qrReference contenido del QR: NIF del vendeur, número, fecha y TTC.
func qrReference(inv *entity.Invoice, biz *entity.Business) string {
	return strings.Join([]string{
		"NIF=" + biz.NIF,
		"N=" + inv.Number,
		"D=" + inv.IssueDate.Format("2006-01-02"),
		"TTC=" + inv.TotalTTC.StringFixed(2),
	}, ";")
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

func labelled(label, value string) string {
	if strings.TrimSpace(value) == "" {
		return ""
	}
	return label + ": " + value
}

func joinNonEmpty(sep string, parts ...string) string {
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, sep)
}

func percent(s string) string {
	return s + "%"
}
