package dto

import (
	"github.com/shopspring/decimal"

	"github.com/ugcompta/invoiceflow/internal/domain/tax"
)

// G50Request parámetros de GET /api/declarations/g50.
type G50Request struct {
	Year            int             `query:"year" validate:"required,min=2000,max=2100"`
	Month           int             `query:"month" validate:"required,min=1,max=12"`
	PreviousYearIBS decimal.Decimal `query:"-"` // se lee aparte: previous_year_ibs
}

// G12Request parámetros de GET /api/declarations/g12.
// Sin volumen previsto se usa el real del ejercicio anterior.
type G12Request struct {
	Year             int              `query:"year" validate:"required,min=2000,max=2100"`
	ForecastGoods    *decimal.Decimal `query:"-"`
	ForecastServices *decimal.Decimal `query:"-"`
}

// G12bisRequest parámetros de GET /api/declarations/g12bis.
type G12bisRequest struct {
	Year        int             `query:"year" validate:"required,min=2000,max=2100"`
	PaidWithG12 decimal.Decimal `query:"-"`
}

// G50Response declaración mensual.
type G50Response struct {
	BusinessID string  `json:"business_id"`
	Year       int     `json:"year"`
	Month      int     `json:"month"`
	G50        tax.G50 `json:"g50"`
}

// G12Response declaración previsional.
type G12Response struct {
	BusinessID string  `json:"business_id"`
	Regime     string  `json:"regime"`
	Forecast   bool    `json:"forecast_from_request"`
	G12        tax.G12 `json:"g12"`
}

// G12bisResponse declaración definitiva.
type G12bisResponse struct {
	BusinessID string     `json:"business_id"`
	Regime     string     `json:"regime"`
	G12bis     tax.G12bis `json:"g12bis"`
}
