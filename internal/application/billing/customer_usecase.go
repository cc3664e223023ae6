package billing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ugcompta/invoiceflow/internal/application/dto"
	"github.com/ugcompta/invoiceflow/internal/domain"
	"github.com/ugcompta/invoiceflow/internal/domain/entity"
	"github.com/ugcompta/invoiceflow/internal/domain/repository"
	"github.com/ugcompta/invoiceflow/pkg/fiscal"
)

// CustomerUseCase casos de uso para clientes (facturación).
type CustomerUseCase struct {
	repo repository.CustomerRepository
}

// NewCustomerUseCase construye el caso de uso.
func NewCustomerUseCase(repo repository.CustomerRepository) *CustomerUseCase {
	return &CustomerUseCase{repo: repo}
}

// Create crea un nuevo cliente. El NIF y el RC, si vienen, deben estar bien formados.
func (uc *CustomerUseCase) Create(ctx context.Context, businessID string, in dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, domain.ErrInvalidInput
	}
	ids := fiscal.Identifiers{NIF: in.NIF, RC: in.RC}
	if err := ids.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	now := time.Now()
	customer := &entity.Customer{
		ID:         uuid.New().String(),
		BusinessID: businessID,
		Name:       strings.TrimSpace(in.Name),
		NIF:        strings.TrimSpace(in.NIF),
		RC:         strings.TrimSpace(in.RC),
		Address:    in.Address,
		Email:      in.Email,
		Phone:      in.Phone,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := uc.repo.Create(ctx, customer); err != nil {
		return nil, err
	}
	resp := toCustomerResponse(customer)
	return &resp, nil
}

// Get devuelve un cliente del negocio.
func (uc *CustomerUseCase) Get(ctx context.Context, businessID, id string) (*dto.CustomerResponse, error) {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	if c.BusinessID != businessID {
		return nil, domain.ErrForbidden
	}
	resp := toCustomerResponse(c)
	return &resp, nil
}

// List lista clientes del negocio; search filtra por nombre o NIF.
func (uc *CustomerUseCase) List(ctx context.Context, businessID, search string, limit, offset int) ([]dto.CustomerResponse, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	list, err := uc.repo.ListByBusiness(ctx, businessID, strings.TrimSpace(search), limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CustomerResponse, 0, len(list))
	for _, c := range list {
		out = append(out, toCustomerResponse(c))
	}
	return out, nil
}

func toCustomerResponse(c *entity.Customer) dto.CustomerResponse {
	return dto.CustomerResponse{
		ID:         c.ID,
		BusinessID: c.BusinessID,
		Name:       c.Name,
		NIF:        c.NIF,
		RC:         c.RC,
		Address:    c.Address,
		Email:      c.Email,
		Phone:      c.Phone,
	}
}
