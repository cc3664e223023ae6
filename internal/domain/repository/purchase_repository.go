package repository

import (
	"context"
	"time"

	"github.com/ugcompta/invoiceflow/internal/domain/entity"
)

// PurchaseRepository facturas de proveedor del negocio.
type PurchaseRepository interface {
	Create(ctx context.Context, purchase *entity.Purchase) error
	GetByID(ctx context.Context, id string) (*entity.Purchase, error)
	ListByBusiness(ctx context.Context, businessID string, from, to time.Time, limit, offset int) ([]*entity.Purchase, error)
	Delete(ctx context.Context, id string) error
}
