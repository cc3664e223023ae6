package usecase

import (
	"context"
	"fmt"

	"github.com/ugcompta/invoiceflow/internal/application/dto"
	"github.com/ugcompta/invoiceflow/internal/domain"
	"github.com/ugcompta/invoiceflow/internal/domain/repository"
)

// UserUseCase consultas de usuarios del negocio.
type UserUseCase struct {
	repo repository.UserRepository
}

// NewUserUseCase construye el caso de uso con el puerto de persistencia.
func NewUserUseCase(repo repository.UserRepository) *UserUseCase {
	return &UserUseCase{repo: repo}
}

// GetByID obtiene un usuario del negocio. Un usuario de otro negocio se trata como inexistente.
func (uc *UserUseCase) GetByID(ctx context.Context, businessID, id string) (*dto.UserResponse, error) {
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil || user.BusinessID != businessID {
		return nil, fmt.Errorf("%w: usuario %s", domain.ErrNotFound, id)
	}
	resp := ToUserResponse(user)
	return &resp, nil
}

// List usuarios del negocio con paginación.
func (uc *UserUseCase) List(ctx context.Context, businessID string, limit, offset int) ([]dto.UserResponse, error) {
	users, err := uc.repo.ListByBusiness(ctx, businessID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, ToUserResponse(u))
	}
	return out, nil
}
