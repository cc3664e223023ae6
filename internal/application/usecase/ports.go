package usecase

import (
	"context"

	"github.com/ugcompta/invoiceflow/internal/domain/repository"
)

// OnboardingTxRunner ejecuta el alta de negocio, propietario y módulos en una sola transacción.
type OnboardingTxRunner interface {
	RunOnboarding(ctx context.Context, fn func(
		businessRepo repository.BusinessRepository,
		userRepo repository.UserRepository,
		moduleRepo repository.ModuleRepository,
	) error) error
}
