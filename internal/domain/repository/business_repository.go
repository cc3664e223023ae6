package repository

import (
	"context"

	"github.com/ugcompta/invoiceflow/internal/domain/entity"
)

// BusinessRepository define el puerto de persistencia para Business (DIP).
// La implementación vive en infrastructure.
type BusinessRepository interface {
	Create(ctx context.Context, business *entity.Business) error
	GetByID(ctx context.Context, id string) (*entity.Business, error)
	Update(ctx context.Context, business *entity.Business) error
	// SetOwner fija el único usuario propietario tras el onboarding.
	SetOwner(ctx context.Context, businessID, userID string) error
}

// ModuleRepository suscripción de módulos SaaS por negocio.
type ModuleRepository interface {
	// HasActiveModule informa si el negocio tiene el módulo activo y sin vencer.
	HasActiveModule(ctx context.Context, businessID, moduleName string) (bool, error)
	ListByBusiness(ctx context.Context, businessID string) ([]*entity.BusinessModule, error)
	// Activate crea o reactiva el módulo (upsert por business_id + module_name).
	Activate(ctx context.Context, module *entity.BusinessModule) error
}
