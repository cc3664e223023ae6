package declaration

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/xml"
	"fmt"
	"strconv"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"github.com/ucarion/c14n"

	"github.com/ugcompta/invoiceflow/internal/application/dto"
	"github.com/ugcompta/invoiceflow/internal/domain/entity"
	"github.com/ugcompta/invoiceflow/internal/domain/tax"
	"github.com/ugcompta/invoiceflow/pkg/fiscal"
)

// Export documento XML canónico de una declaración.
// Fingerprint es el SHA-256 en hexadecimal de XML: la misma declaración produce siempre la misma huella.
type Export struct {
	XML         []byte
	Fingerprint string
	Filename    string
}

// Exporter serializa declaraciones a XML.
type Exporter struct{}

// NewExporter crea el exportador.
func NewExporter() *Exporter {
	return &Exporter{}
}

// G50 exporta la declaración mensual.
func (e *Exporter) G50(b *entity.Business, regime tax.Regime, resp *dto.G50Response) (*Export, error) {
	doc, root := newDeclaration("G50", b, regime)
	root.CreateAttr("year", strconv.Itoa(resp.Year))
	root.CreateAttr("month", strconv.Itoa(resp.Month))

	g := resp.G50
	sales := root.CreateElement("Sales")
	for _, s := range g.Sales {
		line := sales.CreateElement("Line")
		line.CreateAttr("rate", s.Rate.String())
		amount(line, "BaseHT", s.BaseHT)
		amount(line, "TVA", s.TVA)
	}
	amount(root, "TurnoverHT", g.TurnoverHT)
	amount(root, "CollectedTVA", g.CollectedTVA)
	amount(root, "DeductibleTVA", g.DeductibleTVA)
	amount(root, "TVAPayable", g.TVAPayable)
	amount(root, "TVACredit", g.TVACredit)
	amount(root, "StampDuty", g.StampDuty)
	amount(root, "Withholdings", g.Withholdings)
	amount(root, "IBSInstallment", g.IBSInstallment)
	amount(root, "TotalPayable", g.TotalPayable)

	return finish(doc, fmt.Sprintf("G50_%d_%02d.xml", resp.Year, resp.Month))
}

// G12 exporta la declaración previsional.
func (e *Exporter) G12(b *entity.Business, regime tax.Regime, resp *dto.G12Response) (*Export, error) {
	doc, root := newDeclaration("G12", b, regime)
	root.CreateAttr("year", strconv.Itoa(resp.G12.Year))
	assessment(root, resp.G12.Assessment)
	return finish(doc, fmt.Sprintf("G12_%d.xml", resp.G12.Year))
}

// G12bis exporta la declaración definitiva.
func (e *Exporter) G12bis(b *entity.Business, regime tax.Regime, resp *dto.G12bisResponse) (*Export, error) {
	doc, root := newDeclaration("G12bis", b, regime)
	root.CreateAttr("year", strconv.Itoa(resp.G12bis.Year))
	assessment(root, resp.G12bis.Assessment)
	amount(root, "PaidWithG12", resp.G12bis.PaidWithG12)
	amount(root, "Balance", resp.G12bis.Balance)
	return finish(doc, fmt.Sprintf("G12bis_%d.xml", resp.G12bis.Year))
}

func newDeclaration(kind string, b *entity.Business, regime tax.Regime) (*etree.Document, *etree.Element) {
	doc := etree.NewDocument()
	root := doc.CreateElement("Declaration")
	root.CreateAttr("type", kind)
	root.CreateAttr("currency", fiscal.Currency)

	tp := root.CreateElement("Taxpayer")
	tp.CreateElement("Name").SetText(b.Name)
	tp.CreateElement("Regime").SetText(regime.String())
	for _, id := range []struct{ tag, value string }{
		{"NIF", b.NIF}, {"NIS", b.NIS}, {"RC", b.RC}, {"AI", b.AI},
	} {
		if id.value != "" {
			tp.CreateElement(id.tag).SetText(id.value)
		}
	}
	return doc, root
}

func assessment(root *etree.Element, a tax.FlatTaxAssessment) {
	amount(root, "GoodsTurnover", a.GoodsTurnover)
	amount(root, "ServicesTurnover", a.ServicesTurnover)
	amount(root, "ComputedTax", a.ComputedTax)
	amount(root, "MinimumTax", a.MinimumTax)
	due := amount(root, "TaxDue", a.TaxDue)
	if a.MinimumApplied {
		due.CreateAttr("minimum", "true")
	}
}

func amount(parent *etree.Element, tag string, v decimal.Decimal) *etree.Element {
	el := parent.CreateElement(tag)
	el.SetText(v.StringFixed(2))
	return el
}

func finish(doc *etree.Document, filename string) (*Export, error) {
	raw, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("declaración: serializar XML: %w", err)
	}
	canonical, err := canonicalizeXML(raw)
	if err != nil {
		return nil, fmt.Errorf("declaración: canonicalizar XML: %w", err)
	}
	sum := sha256.Sum256(canonical)
	return &Export{XML: canonical, Fingerprint: hex.EncodeToString(sum[:]), Filename: filename}, nil
}

func canonicalizeXML(data []byte) ([]byte, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Entity = map[string]string{}
	return c14n.Canonicalize(dec)
}
