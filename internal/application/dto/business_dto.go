package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ugcompta/invoiceflow/internal/domain/tax"
)

// CreateBusinessRequest onboarding: crea el negocio y su usuario propietario (admin).
type CreateBusinessRequest struct {
	Name                 string          `json:"name" validate:"required,min=1,max=200"`
	LegalType            string          `json:"legal_type" validate:"required,oneof=societe personne_physique auto_entrepreneur"`
	FiscalRegime         string          `json:"fiscal_regime" validate:"omitempty,max=30"`
	LegalForm            string          `json:"legal_form" validate:"omitempty,max=20"`
	Capital              decimal.Decimal `json:"capital"`
	RC                   string          `json:"rc" validate:"omitempty,max=30"`
	NIF                  string          `json:"nif" validate:"omitempty,max=25"`
	AI                   string          `json:"ai" validate:"omitempty,max=20"`
	NIS                  string          `json:"nis" validate:"omitempty,max=20"`
	AutoEntrepreneurCard string          `json:"auto_entrepreneur_card" validate:"omitempty,max=40"`
	ActivityKind         string          `json:"activity_kind" validate:"omitempty,oneof=goods services mixed"`
	Address              string          `json:"address"`
	Phone                string          `json:"phone"`
	Email                string          `json:"email" validate:"omitempty,email"`

	OwnerName     string `json:"owner_name" validate:"omitempty,max=200"`
	OwnerEmail    string `json:"owner_email" validate:"required,email"`
	OwnerPassword string `json:"owner_password" validate:"required,min=8"`
}

// UpdateBusinessRequest ajustes del negocio (campos opcionales). Cambiar forma o régimen
// reclasifica el negocio y se rechaza si la combinación no está soportada.
type UpdateBusinessRequest struct {
	Name                 *string          `json:"name" validate:"omitempty,min=1,max=200"`
	LegalType            *string          `json:"legal_type" validate:"omitempty,oneof=societe personne_physique auto_entrepreneur"`
	FiscalRegime         *string          `json:"fiscal_regime" validate:"omitempty,max=30"`
	LegalForm            *string          `json:"legal_form" validate:"omitempty,max=20"`
	Capital              *decimal.Decimal `json:"capital"`
	RC                   *string          `json:"rc" validate:"omitempty,max=30"`
	NIF                  *string          `json:"nif" validate:"omitempty,max=25"`
	AI                   *string          `json:"ai" validate:"omitempty,max=20"`
	NIS                  *string          `json:"nis" validate:"omitempty,max=20"`
	AutoEntrepreneurCard *string          `json:"auto_entrepreneur_card" validate:"omitempty,max=40"`
	ActivityKind         *string          `json:"activity_kind" validate:"omitempty,oneof=goods services mixed"`
	Address              *string          `json:"address"`
	Phone                *string          `json:"phone"`
	Email                *string          `json:"email" validate:"omitempty,email"`
}

// BusinessResponse salida de un negocio.
type BusinessResponse struct {
	ID                   string          `json:"id"`
	OwnerUserID          string          `json:"owner_user_id"`
	Name                 string          `json:"name"`
	LegalType            string          `json:"legal_type"`
	FiscalRegime         string          `json:"fiscal_regime"`
	LegalForm            string          `json:"legal_form,omitempty"`
	Capital              decimal.Decimal `json:"capital"`
	RC                   string          `json:"rc,omitempty"`
	NIF                  string          `json:"nif,omitempty"`
	AI                   string          `json:"ai,omitempty"`
	NIS                  string          `json:"nis,omitempty"`
	AutoEntrepreneurCard string          `json:"auto_entrepreneur_card,omitempty"`
	ActivityKind         string          `json:"activity_kind"`
	Address              string          `json:"address,omitempty"`
	Phone                string          `json:"phone,omitempty"`
	Email                string          `json:"email,omitempty"`
	Status               string          `json:"status"`
	Regime               tax.Regime      `json:"regime"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
}

// OnboardingResponse negocio creado más el token del propietario.
type OnboardingResponse struct {
	Business BusinessResponse `json:"business"`
	Owner    UserResponse     `json:"owner"`
	Token    string           `json:"token"`
}

// TaxConfigResponse GET /api/business/tax-config.
type TaxConfigResponse struct {
	BusinessID    string               `json:"business_id"`
	Configuration tax.TaxConfiguration `json:"configuration"`
}

// TaxRatesResponse GET /api/business/tax-rates.
type TaxRatesResponse struct {
	BusinessID string              `json:"business_id"`
	At         string              `json:"at"` // fecha de vigencia usada (YYYY-MM-DD)
	Rates      tax.ApplicableRates `json:"rates"`
}

// ModuleResponse módulo SaaS del negocio.
type ModuleResponse struct {
	ModuleName string     `json:"module_name"`
	IsActive   bool       `json:"is_active"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
}
