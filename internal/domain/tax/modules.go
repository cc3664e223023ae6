package tax

import (
	"strings"

	"github.com/ugcompta/invoiceflow/internal/domain/entity"
	"github.com/ugcompta/invoiceflow/pkg/fiscal"
)

// Textos legales del pie de factura.
const (
	FooterAutoEntrepreneur = "VAT not applicable – IFU auto-entrepreneur flat-tax regime (0.5%)"
	FooterIFU              = "VAT not applicable – IFU flat-tax regime"
	LabelIndividual        = "Entreprise Individuelle"
	LabelCompany           = "Société"
	footerSeparator        = " - "
)

// Modules módulos fiscales activos para un negocio.
type Modules struct {
	G50          bool `json:"G50"`
	G12          bool `json:"G12"`
	G12bis       bool `json:"G12bis"`
	IBS          bool `json:"IBS"`
	VAT          bool `json:"VAT"`
	Withholdings bool `json:"WITHHOLDINGS"`
	Stamp        bool `json:"STAMP"`
}

// TaxConfiguration resultado de ConfigureTaxModules.
type TaxConfiguration struct {
	Regime        Regime   `json:"regime"`
	Modules       Modules  `json:"modules"`
	InvoiceFooter string   `json:"invoice_footer"`
	LegalMentions []string `json:"legal_mentions"`
}

// modulesFor tabla de módulos por régimen. El timbre aplica a todos los regímenes.
func modulesFor(r Regime) Modules {
	switch r {
	case RegimeCorporate, RegimeRealIndividual:
		return Modules{G50: true, IBS: true, VAT: true, Withholdings: true, Stamp: true}
	case RegimeAutoEntrepreneur, RegimeIFU:
		return Modules{G12: true, G12bis: true, Stamp: true}
	case RegimeUnsupported:
	}
	return Modules{Stamp: true}
}

// ConfigureTaxModules clasifica el negocio y construye su configuración fiscal
// (módulos, pie de factura y menciones legales). Es determinista: el mismo negocio
// produce siempre el mismo pie.
func ConfigureTaxModules(b *entity.Business) (TaxConfiguration, error) {
	regime, err := Classify(b.LegalType, b.FiscalRegime)
	if err != nil {
		return TaxConfiguration{Regime: RegimeUnsupported, Modules: modulesFor(RegimeUnsupported)}, err
	}
	mentions := legalMentions(regime, b)
	return TaxConfiguration{
		Regime:        regime,
		Modules:       modulesFor(regime),
		InvoiceFooter: strings.Join(mentions, footerSeparator),
		LegalMentions: mentions,
	}, nil
}

// legalMentions partes no vacías del pie en orden: texto del régimen, forma/capital
// o etiqueta del empresario, y los identificadores RC, NIF, AI, NIS presentes.
func legalMentions(r Regime, b *entity.Business) []string {
	var parts []string
	switch r {
	case RegimeCorporate:
		parts = append(parts, companyLabel(b))
	case RegimeAutoEntrepreneur:
		parts = append(parts, FooterAutoEntrepreneur)
		if card := strings.TrimSpace(b.AutoEntrepreneurCard); card != "" {
			parts = append(parts, "Carte auto-entrepreneur N° "+card)
		}
	case RegimeIFU:
		parts = append(parts, FooterIFU)
	case RegimeRealIndividual:
		parts = append(parts, LabelIndividual)
	case RegimeUnsupported:
	}
	parts = append(parts,
		labelled("RC", b.RC),
		labelled("NIF", b.NIF),
		labelled("AI", b.AI),
		labelled("NIS", b.NIS),
	)

	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func companyLabel(b *entity.Business) string {
	form := strings.TrimSpace(b.LegalForm)
	if form == "" {
		form = LabelCompany
	}
	if b.Capital.IsPositive() {
		return form + " au capital de " + fiscal.FormatInteger(b.Capital) + " " + fiscal.Currency
	}
	return form
}

func labelled(label, value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	return label + ": " + value
}
