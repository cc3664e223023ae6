package tax

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ugcompta/invoiceflow/internal/domain/entity"
)

// ParameterSource origen de parámetros fiscales candidatos (lo implementa el repositorio).
type ParameterSource interface {
	ListCandidates(ctx context.Context, businessID string, at time.Time) ([]*entity.FiscalParameter, error)
}

// Resolved tablas efectivas para un negocio en una fecha.
type Resolved struct {
	Rates              RateTable
	Stamp              StampSchedule
	IBSInstallmentRate decimal.Decimal
}

// RateResolver combina las tablas estáticas con los parámetros vigentes.
type RateResolver struct {
	src   ParameterSource
	rates RateTable
	stamp StampSchedule
}

// NewRateResolver construye el resolver. Con src nil devuelve siempre las tablas por defecto.
func NewRateResolver(src ParameterSource) *RateResolver {
	return &RateResolver{src: src, rates: DefaultRateTable, stamp: DefaultStampSchedule}
}

// Resolve devuelve las tablas aplicables al negocio en la fecha at.
func (r *RateResolver) Resolve(ctx context.Context, businessID string, at time.Time) (Resolved, error) {
	out := Resolved{Rates: r.rates, Stamp: r.stamp, IBSInstallmentRate: DefaultIBSInstallmentRate}
	if r.src == nil {
		return out, nil
	}
	params, err := r.src.ListCandidates(ctx, businessID, at)
	if err != nil {
		return Resolved{}, fmt.Errorf("parámetros fiscales: %w", err)
	}
	out.Rates = r.rates.Overrides(params, businessID, at)
	out.Stamp = r.stamp.Overrides(params, businessID, at)
	if p, ok := SelectParameter(params, entity.ParamIBSInstallmentPct, businessID, at); ok {
		out.IBSInstallmentRate = p.Value
	}
	return out, nil
}
