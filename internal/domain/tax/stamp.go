package tax

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ugcompta/invoiceflow/internal/domain/entity"
	"github.com/ugcompta/invoiceflow/pkg/fiscal"
)

var hundred = decimal.NewFromInt(100)

// StampSchedule baremo del droit de timbre sobre pagos en efectivo.
// Los umbrales se expresan en DA TTC y las tasas en porcentaje.
type StampSchedule struct {
	ExemptUpTo decimal.Decimal
	Tier1UpTo  decimal.Decimal
	Tier2UpTo  decimal.Decimal
	Tier1Rate  decimal.Decimal
	Tier2Rate  decimal.Decimal
	Tier3Rate  decimal.Decimal
	Minimum    decimal.Decimal
}

// DefaultStampSchedule baremo del Code du timbre.
var DefaultStampSchedule = StampSchedule{
	ExemptUpTo: decimal.NewFromInt(300),
	Tier1UpTo:  decimal.NewFromInt(30000),
	Tier2UpTo:  decimal.NewFromInt(100000),
	Tier1Rate:  decimal.NewFromInt(1),
	Tier2Rate:  decimal.RequireFromString("1.5"),
	Tier3Rate:  decimal.NewFromInt(2),
	Minimum:    decimal.NewFromInt(5),
}

// RateFor tasa aplicable a la base; cero si la base está exenta.
func (s StampSchedule) RateFor(base decimal.Decimal) decimal.Decimal {
	switch {
	case base.LessThanOrEqual(s.ExemptUpTo):
		return decimal.Zero
	case base.LessThanOrEqual(s.Tier1UpTo):
		return s.Tier1Rate
	case base.LessThanOrEqual(s.Tier2UpTo):
		return s.Tier2Rate
	default:
		return s.Tier3Rate
	}
}

// Compute importe del timbre para una base TTC (antes de timbre), redondeado a 2 decimales.
func (s StampSchedule) Compute(base decimal.Decimal) decimal.Decimal {
	rate := s.RateFor(base)
	if rate.IsZero() {
		return decimal.Zero
	}
	amount := base.Mul(rate).Div(hundred).Round(2)
	if amount.LessThan(s.Minimum) {
		return s.Minimum
	}
	return amount
}

// Overrides aplica los parámetros STAMP_* vigentes.
func (s StampSchedule) Overrides(params []*entity.FiscalParameter, businessID string, at time.Time) StampSchedule {
	out := s
	apply := func(code string, dst *decimal.Decimal) {
		if p, ok := SelectParameter(params, code, businessID, at); ok {
			*dst = p.Value
		}
	}
	apply(entity.ParamStampExemptUpTo, &out.ExemptUpTo)
	apply(entity.ParamStampTier1UpTo, &out.Tier1UpTo)
	apply(entity.ParamStampTier2UpTo, &out.Tier2UpTo)
	apply(entity.ParamStampTier1Rate, &out.Tier1Rate)
	apply(entity.ParamStampTier2Rate, &out.Tier2Rate)
	apply(entity.ParamStampTier3Rate, &out.Tier3Rate)
	apply(entity.ParamStampMinimum, &out.Minimum)
	return out
}

// StampDutyApplies el timbre solo se cobra con el módulo STAMP activo, pago en efectivo
// y el timbre habilitado en la configuración del servicio.
func StampDutyApplies(m Modules, paymentMethod string, enabled bool) bool {
	return enabled && m.Stamp && paymentMethod == fiscal.PaymentCash
}
