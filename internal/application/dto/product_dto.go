package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto o servicio del catálogo.
type CreateProductRequest struct {
	SKU       string          `json:"sku" validate:"required,min=1,max=100"`
	Name      string          `json:"name" validate:"required,min=1,max=200"`
	Kind      string          `json:"kind" validate:"required,oneof=goods services"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	TVARate   decimal.Decimal `json:"tva_rate"`
}

// UpdateProductRequest entrada para actualizar un producto (campos opcionales).
type UpdateProductRequest struct {
	Name      *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Kind      *string          `json:"kind" validate:"omitempty,oneof=goods services"`
	UnitPrice *decimal.Decimal `json:"unit_price"`
	TVARate   *decimal.Decimal `json:"tva_rate"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID         string          `json:"id"`
	BusinessID string          `json:"business_id"`
	SKU        string          `json:"sku"`
	Name       string          `json:"name"`
	Kind       string          `json:"kind"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	TVARate    decimal.Decimal `json:"tva_rate"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
