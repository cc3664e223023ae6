package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Códigos de parámetros fiscales que pueden sobrescribir la tabla estática de tasas.
const (
	ParamAEFlatRate        = "AE_FLAT_RATE"
	ParamIFUGoodsRate      = "IFU_GOODS_RATE"
	ParamIFUServicesRate   = "IFU_SERVICES_RATE"
	ParamMinimumTax        = "IFU_MINIMUM_TAX"
	ParamIBSRate           = "IBS_RATE"
	ParamTAPRate           = "TAP_RATE"
	ParamVATReducedRate    = "VAT_REDUCED_RATE"
	ParamVATStandardRate   = "VAT_STANDARD_RATE"
	ParamStampExemptUpTo   = "STAMP_EXEMPT_UP_TO"
	ParamStampTier1UpTo    = "STAMP_TIER1_UP_TO"
	ParamStampTier2UpTo    = "STAMP_TIER2_UP_TO"
	ParamStampTier1Rate    = "STAMP_TIER1_RATE"
	ParamStampTier2Rate    = "STAMP_TIER2_RATE"
	ParamStampTier3Rate    = "STAMP_TIER3_RATE"
	ParamStampMinimum      = "STAMP_MINIMUM"
	ParamIBSInstallmentPct = "IBS_INSTALLMENT_RATE"
)

// FiscalParameter valor con vigencia temporal. BusinessID nil = parámetro global.
type FiscalParameter struct {
	ID            string
	BusinessID    *string
	Code          string
	Value         decimal.Decimal
	EffectiveFrom time.Time
	EffectiveTo   *time.Time // nil = vigente sin fecha de fin
	Description   string
	CreatedAt     time.Time
}

// ActiveAt informa si el parámetro está vigente en la fecha indicada.
func (p *FiscalParameter) ActiveAt(at time.Time) bool {
	if at.Before(p.EffectiveFrom) {
		return false
	}
	return p.EffectiveTo == nil || at.Before(*p.EffectiveTo)
}
