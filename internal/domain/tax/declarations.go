package tax

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ugcompta/invoiceflow/internal/domain"
)

// IBSInstallmentMonths meses en que la G50 incluye un acompte provisionnel de IBS.
var IBSInstallmentMonths = []time.Month{time.March, time.June, time.November}

// DefaultIBSInstallmentRate porcentaje del IBS del ejercicio anterior que se adelanta en cada acompte.
var DefaultIBSInstallmentRate = decimal.NewFromInt(30)

// Period mes de una declaración G50.
type Period struct {
	Year  int
	Month time.Month
}

// Bounds devuelve [inicio, fin) del mes en UTC.
func (p Period) Bounds() (time.Time, time.Time) {
	from := time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(0, 1, 0)
}

// Validate rechaza meses fuera de rango y años absurdos.
func (p Period) Validate() error {
	if p.Month < time.January || p.Month > time.December {
		return fmt.Errorf("%w: mes %d fuera de rango", domain.ErrInvalidInput, p.Month)
	}
	return ValidateYear(p.Year)
}

// ValidateYear acepta ejercicios entre 2000 y 2100.
func ValidateYear(y int) error {
	if y < 2000 || y > 2100 {
		return fmt.Errorf("%w: ejercicio %d fuera de rango", domain.ErrInvalidInput, y)
	}
	return nil
}

// SalesByRate base HT y TVA facturada para una tasa.
type SalesByRate struct {
	Rate   decimal.Decimal `json:"rate"`
	BaseHT decimal.Decimal `json:"base_ht"`
	TVA    decimal.Decimal `json:"tva"`
}

// G50Input agregados del mes necesarios para liquidar la G50.
type G50Input struct {
	Period             Period
	Sales              []SalesByRate
	DeductibleTVA      decimal.Decimal
	StampDuty          decimal.Decimal
	Withholdings       decimal.Decimal
	PreviousYearIBS    decimal.Decimal
	IBSInstallmentRate decimal.Decimal
	Modules            Modules
}

// G50 declaración mensual de régimen real.
type G50 struct {
	Period         Period          `json:"-"`
	Sales          []SalesByRate   `json:"sales"`
	TurnoverHT     decimal.Decimal `json:"turnover_ht"`
	CollectedTVA   decimal.Decimal `json:"collected_tva"`
	DeductibleTVA  decimal.Decimal `json:"deductible_tva"`
	TVAPayable     decimal.Decimal `json:"tva_payable"`
	TVACredit      decimal.Decimal `json:"tva_credit"`
	StampDuty      decimal.Decimal `json:"stamp_duty"`
	Withholdings   decimal.Decimal `json:"withholdings"`
	IBSInstallment decimal.Decimal `json:"ibs_installment"`
	TotalPayable   decimal.Decimal `json:"total_payable"`
}

// IsIBSInstallmentMonth informa si el mes lleva acompte de IBS.
func IsIBSInstallmentMonth(m time.Month) bool {
	for _, im := range IBSInstallmentMonths {
		if im == m {
			return true
		}
	}
	return false
}

// ComputeG50 liquida la G50. La TVA deducible que excede a la colectada se arrastra
// como crédito y no reduce el resto de conceptos.
func ComputeG50(in G50Input) (G50, error) {
	if !in.Modules.G50 {
		return G50{}, fmt.Errorf("%w: la G50 no aplica a este régimen", domain.ErrNotApplicable)
	}
	if err := in.Period.Validate(); err != nil {
		return G50{}, err
	}
	out := G50{Period: in.Period, Sales: in.Sales, StampDuty: in.StampDuty.Round(2)}
	if out.Sales == nil {
		out.Sales = []SalesByRate{}
	}
	for _, s := range in.Sales {
		out.TurnoverHT = out.TurnoverHT.Add(s.BaseHT)
		out.CollectedTVA = out.CollectedTVA.Add(s.TVA)
	}
	if in.Modules.VAT {
		out.DeductibleTVA = in.DeductibleTVA.Round(2)
		diff := out.CollectedTVA.Sub(out.DeductibleTVA)
		if diff.IsPositive() {
			out.TVAPayable = diff
		} else {
			out.TVACredit = diff.Neg()
		}
	}
	if in.Modules.Withholdings {
		out.Withholdings = in.Withholdings.Round(2)
	}
	if in.Modules.IBS && IsIBSInstallmentMonth(in.Period.Month) && in.PreviousYearIBS.IsPositive() {
		rate := in.IBSInstallmentRate
		if rate.IsZero() {
			rate = DefaultIBSInstallmentRate
		}
		out.IBSInstallment = in.PreviousYearIBS.Mul(rate).Div(hundred).Round(2)
	}
	out.TotalPayable = out.TVAPayable.Add(out.StampDuty).Add(out.Withholdings).Add(out.IBSInstallment)
	return out, nil
}

// FlatTaxAssessment cálculo del impuesto forfaitario (IFU o auto-entrepreneur).
type FlatTaxAssessment struct {
	GoodsTurnover    decimal.Decimal `json:"goods_turnover"`
	ServicesTurnover decimal.Decimal `json:"services_turnover"`
	ComputedTax      decimal.Decimal `json:"computed_tax"`
	MinimumTax       decimal.Decimal `json:"minimum_tax"`
	TaxDue           decimal.Decimal `json:"tax_due"`
	MinimumApplied   bool            `json:"minimum_applied"`
}

// AssessFlatTax aplica las tasas forfaitarias al volumen de negocios con el mínimo de imposición.
func AssessFlatTax(rates ApplicableRates, goods, services decimal.Decimal) (FlatTaxAssessment, error) {
	a := FlatTaxAssessment{GoodsTurnover: goods.Round(2), ServicesTurnover: services.Round(2)}
	switch rates.Kind {
	case RateKindAutoEntrepreneur:
		r := rates.AutoEntrepreneur
		a.ComputedTax = goods.Add(services).Mul(r.FlatRate).Div(hundred).Round(2)
		a.MinimumTax = r.MinimumTax
	case RateKindIFU:
		r := rates.IFU
		a.ComputedTax = goods.Mul(r.GoodsRate).Add(services.Mul(r.ServicesRate)).Div(hundred).Round(2)
		a.MinimumTax = r.MinimumTax
	case RateKindReal:
		return FlatTaxAssessment{}, fmt.Errorf("%w: el régimen real no liquida impuesto forfaitario", domain.ErrNotApplicable)
	}
	a.TaxDue = a.ComputedTax
	if a.ComputedTax.LessThan(a.MinimumTax) {
		a.TaxDue = a.MinimumTax
		a.MinimumApplied = true
	}
	return a, nil
}

// G12 declaración previsional anual sobre el volumen de negocios estimado.
type G12 struct {
	Year       int               `json:"year"`
	Assessment FlatTaxAssessment `json:"assessment"`
}

// ComputeG12 liquida la G12 a partir del volumen previsto.
func ComputeG12(m Modules, rates ApplicableRates, year int, forecastGoods, forecastServices decimal.Decimal) (G12, error) {
	if !m.G12 {
		return G12{}, fmt.Errorf("%w: la G12 no aplica a este régimen", domain.ErrNotApplicable)
	}
	if err := ValidateYear(year); err != nil {
		return G12{}, err
	}
	if forecastGoods.IsNegative() || forecastServices.IsNegative() {
		return G12{}, fmt.Errorf("%w: el volumen previsto no puede ser negativo", domain.ErrInvalidInput)
	}
	a, err := AssessFlatTax(rates, forecastGoods, forecastServices)
	if err != nil {
		return G12{}, err
	}
	return G12{Year: year, Assessment: a}, nil
}

// G12bis declaración definitiva anual: regulariza lo pagado con la G12.
type G12bis struct {
	Year        int               `json:"year"`
	Assessment  FlatTaxAssessment `json:"assessment"`
	PaidWithG12 decimal.Decimal   `json:"paid_with_g12"`
	Balance     decimal.Decimal   `json:"balance"` // >0 complemento a pagar, <0 exceso pagado
}

// ComputeG12bis liquida la G12bis sobre el volumen real del ejercicio.
func ComputeG12bis(m Modules, rates ApplicableRates, year int, goods, services, paidWithG12 decimal.Decimal) (G12bis, error) {
	if !m.G12bis {
		return G12bis{}, fmt.Errorf("%w: la G12bis no aplica a este régimen", domain.ErrNotApplicable)
	}
	if err := ValidateYear(year); err != nil {
		return G12bis{}, err
	}
	if paidWithG12.IsNegative() {
		return G12bis{}, fmt.Errorf("%w: el importe pagado con la G12 no puede ser negativo", domain.ErrInvalidInput)
	}
	a, err := AssessFlatTax(rates, goods, services)
	if err != nil {
		return G12bis{}, err
	}
	return G12bis{
		Year:        year,
		Assessment:  a,
		PaidWithG12: paidWithG12.Round(2),
		Balance:     a.TaxDue.Sub(paidWithG12.Round(2)),
	}, nil
}

// IBSDue IBS del ejercicio sobre el beneficio imponible (0 si hay pérdida).
func IBSDue(rates ApplicableRates, taxableProfit decimal.Decimal) decimal.Decimal {
	if rates.Real == nil || !taxableProfit.IsPositive() {
		return decimal.Zero
	}
	return taxableProfit.Mul(rates.Real.IBSRate).Div(hundred).Round(2)
}
