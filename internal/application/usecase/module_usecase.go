package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/ugcompta/invoiceflow/internal/application/dto"
	"github.com/ugcompta/invoiceflow/internal/domain/entity"
	"github.com/ugcompta/invoiceflow/internal/domain/repository"
)

// DefaultModules módulos que se activan con el onboarding.
var DefaultModules = []string{
	entity.ModuleInvoicing,
	entity.ModuleDeclarations,
	entity.ModulePurchases,
	entity.ModuleDashboard,
}

// ModuleService verifica qué módulos SaaS tiene activos un negocio.
// Es el único punto de la aplicación que conoce la lógica de activación de módulos.
type ModuleService struct {
	moduleRepo repository.ModuleRepository
}

// NewModuleService construye el servicio de módulos.
func NewModuleService(moduleRepo repository.ModuleRepository) *ModuleService {
	return &ModuleService{moduleRepo: moduleRepo}
}

// HasActiveModule informa si el negocio tiene el módulo activo y sin vencer.
// Devuelve false (sin error) si el negocio no tiene el módulo contratado.
// Devuelve error solo ante fallos de infraestructura (DB caída, timeout, etc.).
func (s *ModuleService) HasActiveModule(ctx context.Context, businessID, moduleName string) (bool, error) {
	if businessID == "" || moduleName == "" {
		return false, fmt.Errorf("module: businessID y moduleName son obligatorios")
	}
	return s.moduleRepo.HasActiveModule(ctx, businessID, moduleName)
}

// List módulos contratados por el negocio.
func (s *ModuleService) List(ctx context.Context, businessID string) ([]dto.ModuleResponse, error) {
	mods, err := s.moduleRepo.ListByBusiness(ctx, businessID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	out := make([]dto.ModuleResponse, 0, len(mods))
	for _, m := range mods {
		active := m.IsActive && (m.ExpiresAt == nil || m.ExpiresAt.After(now))
		out = append(out, dto.ModuleResponse{ModuleName: m.ModuleName, IsActive: active, ExpiresAt: m.ExpiresAt})
	}
	return out, nil
}

// activateDefaults activa los módulos por defecto sin vencimiento.
func activateDefaults(ctx context.Context, repo repository.ModuleRepository, businessID string, now time.Time) error {
	for _, name := range DefaultModules {
		m := &entity.BusinessModule{
			BusinessID:  businessID,
			ModuleName:  name,
			IsActive:    true,
			ActivatedAt: now,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := repo.Activate(ctx, m); err != nil {
			return fmt.Errorf("activar módulo %s: %w", name, err)
		}
	}
	return nil
}
