package repository

import (
	"context"

	"github.com/ugcompta/invoiceflow/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetByBusinessAndSKU(ctx context.Context, businessID, sku string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	ListByBusiness(ctx context.Context, businessID string, limit, offset int) ([]*entity.Product, error)
	Delete(ctx context.Context, id string) error
}
