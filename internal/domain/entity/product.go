package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un artículo o servicio del catálogo del negocio.
type Product struct {
	ID         string
	BusinessID string
	SKU        string // código único por negocio
	Name       string
	Kind       string          // goods | services (tasa IFU distinta)
	UnitPrice  decimal.Decimal // precio HT por defecto
	TVARate    decimal.Decimal // porcentaje: 0, 9 o 19
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
