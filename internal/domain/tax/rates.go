package tax

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ugcompta/invoiceflow/internal/domain/entity"
)

// RateKind discrimina la forma de la tabla de tasas aplicable.
type RateKind string

const (
	RateKindAutoEntrepreneur RateKind = "auto_entrepreneur"
	RateKindIFU              RateKind = "ifu"
	RateKindReal             RateKind = "real"
)

// TAPNote la TAP fue suprimida por la ley de finanzas 2024; se conserva la línea a 0%.
const TAPNote = "abrogated – LF 2024"

// AutoEntrepreneurRates impuesto único del auto-entrepreneur sobre el volumen de negocios.
type AutoEntrepreneurRates struct {
	FlatRate   decimal.Decimal `json:"flat_rate"`
	MinimumTax decimal.Decimal `json:"minimum_tax"`
}

// IFURates impuesto forfaitario único según naturaleza de la operación.
type IFURates struct {
	GoodsRate    decimal.Decimal `json:"goods_rate"`
	ServicesRate decimal.Decimal `json:"services_rate"`
	MinimumTax   decimal.Decimal `json:"minimum_tax"`
}

// RealRates régimen real: IBS, TAP y TVA.
type RealRates struct {
	IBSRate  decimal.Decimal   `json:"ibs_rate"`
	TAPRate  decimal.Decimal   `json:"tap_rate"`
	TAPNote  string            `json:"tap_note"`
	VATRates []decimal.Decimal `json:"vat_rates"`
}

// ApplicableRates tabla de tasas de un régimen. Solo el campo que corresponde a Kind está informado.
type ApplicableRates struct {
	Kind             RateKind               `json:"kind"`
	AutoEntrepreneur *AutoEntrepreneurRates `json:"auto_entrepreneur,omitempty"`
	IFU              *IFURates              `json:"ifu,omitempty"`
	Real             *RealRates             `json:"real,omitempty"`
}

// RateTable valores por defecto de todas las tasas, en porcentaje salvo MinimumTax (DA).
type RateTable struct {
	AEFlatRate      decimal.Decimal
	IFUGoodsRate    decimal.Decimal
	IFUServicesRate decimal.Decimal
	MinimumTax      decimal.Decimal
	IBSRate         decimal.Decimal
	TAPRate         decimal.Decimal
	VATReducedRate  decimal.Decimal
	VATStandardRate decimal.Decimal
}

// DefaultRateTable tasas vigentes cuando no hay parámetros fiscales en base de datos.
var DefaultRateTable = RateTable{
	AEFlatRate:      decimal.RequireFromString("0.5"),
	IFUGoodsRate:    decimal.NewFromInt(5),
	IFUServicesRate: decimal.NewFromInt(12),
	MinimumTax:      decimal.NewFromInt(10000),
	IBSRate:         decimal.NewFromInt(26),
	TAPRate:         decimal.Zero,
	VATReducedRate:  decimal.NewFromInt(9),
	VATStandardRate: decimal.NewFromInt(19),
}

// GetApplicableTaxRates tabla estática del régimen. Los regímenes no reconocidos caen en la tabla real.
func GetApplicableTaxRates(r Regime) ApplicableRates {
	return DefaultRateTable.For(r)
}

// For construye la tabla de tasas del régimen a partir de t.
func (t RateTable) For(r Regime) ApplicableRates {
	switch r {
	case RegimeAutoEntrepreneur:
		return ApplicableRates{
			Kind:             RateKindAutoEntrepreneur,
			AutoEntrepreneur: &AutoEntrepreneurRates{FlatRate: t.AEFlatRate, MinimumTax: t.MinimumTax},
		}
	case RegimeIFU:
		return ApplicableRates{
			Kind: RateKindIFU,
			IFU:  &IFURates{GoodsRate: t.IFUGoodsRate, ServicesRate: t.IFUServicesRate, MinimumTax: t.MinimumTax},
		}
	case RegimeCorporate, RegimeRealIndividual, RegimeUnsupported:
	}
	return ApplicableRates{
		Kind: RateKindReal,
		Real: &RealRates{
			IBSRate:  t.IBSRate,
			TAPRate:  t.TAPRate,
			TAPNote:  TAPNote,
			VATRates: []decimal.Decimal{t.VATReducedRate, t.VATStandardRate},
		},
	}
}

// AllowedVATRates tasas de TVA admitidas en una línea de factura (0 incluido para operaciones exentas).
func (t RateTable) AllowedVATRates() []decimal.Decimal {
	return []decimal.Decimal{decimal.Zero, t.VATReducedRate, t.VATStandardRate}
}

// SelectParameter elige el parámetro vigente para code en la fecha at.
// Un parámetro del negocio gana sobre uno global; entre candidatos del mismo alcance
// gana el de EffectiveFrom más reciente.
func SelectParameter(params []*entity.FiscalParameter, code, businessID string, at time.Time) (*entity.FiscalParameter, bool) {
	var scoped, global []*entity.FiscalParameter
	for _, p := range params {
		if p == nil || p.Code != code || !p.ActiveAt(at) {
			continue
		}
		switch {
		case p.BusinessID == nil:
			global = append(global, p)
		case *p.BusinessID == businessID:
			scoped = append(scoped, p)
		}
	}
	for _, set := range [][]*entity.FiscalParameter{scoped, global} {
		if len(set) == 0 {
			continue
		}
		sort.SliceStable(set, func(i, j int) bool { return set[i].EffectiveFrom.After(set[j].EffectiveFrom) })
		return set[0], true
	}
	return nil, false
}

// Overrides aplica los parámetros vigentes sobre una copia de la tabla.
func (t RateTable) Overrides(params []*entity.FiscalParameter, businessID string, at time.Time) RateTable {
	out := t
	apply := func(code string, dst *decimal.Decimal) {
		if p, ok := SelectParameter(params, code, businessID, at); ok {
			*dst = p.Value
		}
	}
	apply(entity.ParamAEFlatRate, &out.AEFlatRate)
	apply(entity.ParamIFUGoodsRate, &out.IFUGoodsRate)
	apply(entity.ParamIFUServicesRate, &out.IFUServicesRate)
	apply(entity.ParamMinimumTax, &out.MinimumTax)
	apply(entity.ParamIBSRate, &out.IBSRate)
	apply(entity.ParamTAPRate, &out.TAPRate)
	apply(entity.ParamVATReducedRate, &out.VATReducedRate)
	apply(entity.ParamVATStandardRate, &out.VATStandardRate)
	return out
}
