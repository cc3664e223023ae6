package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Business representa un negocio/tenant del sistema (multi-tenant, enfoque Argelia).
// LegalType y FiscalRegime determinan los módulos fiscales aplicables (ver domain/tax).
type Business struct {
	ID                   string
	OwnerUserID          string // exactamente un usuario propietario
	Name                 string
	LegalType            string          // societe, personne_physique, auto_entrepreneur
	FiscalRegime         string          // reel/VAT, forfaitaire/IFU, auto_entrepreneur
	LegalForm            string          // SARL, EURL, SPA... (solo sociedades)
	Capital              decimal.Decimal // capital social en DA (solo sociedades)
	RC                   string          // Registre du Commerce
	NIF                  string          // Numéro d'Identification Fiscale
	AI                   string          // Article d'Imposition
	NIS                  string          // Numéro d'Identification Statistique
	AutoEntrepreneurCard string          // número de carte d'auto-entrepreneur (ANADE)
	ActivityKind         string          // goods, services o mixed; naturaleza por defecto de las líneas
	Address              string
	Phone                string
	Email                string
	Status               string // active, suspended, inactive
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// Naturaleza de la actividad del negocio.
const (
	ActivityGoods    = "goods"
	ActivityServices = "services"
	ActivityMixed    = "mixed"
)

// DefaultLineKind naturaleza asignada a una línea sin producto ni kind explícito.
func (b *Business) DefaultLineKind() string {
	if b.ActivityKind == ActivityServices {
		return ActivityServices
	}
	return ActivityGoods
}

// Módulos SaaS disponibles (deben coincidir con el CHECK de la tabla business_modules).
const (
	ModuleInvoicing    = "invoicing"
	ModuleDeclarations = "declarations"
	ModulePurchases    = "purchases"
	ModuleDashboard    = "dashboard"
)

// BusinessModule representa la activación de un módulo de la suscripción de un negocio.
type BusinessModule struct {
	ID          string
	BusinessID  string
	ModuleName  string // ver constantes Module*
	IsActive    bool
	ActivatedAt time.Time
	ExpiresAt   *time.Time // nil = sin vencimiento
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
