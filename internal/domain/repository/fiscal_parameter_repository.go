package repository

import (
	"context"
	"time"

	"github.com/ugcompta/invoiceflow/internal/domain/entity"
)

// FiscalParameterRepository parámetros fiscales con vigencia temporal.
type FiscalParameterRepository interface {
	// ListCandidates devuelve los parámetros globales y los del negocio vigentes en at.
	// La elección final (negocio sobre global, vigencia más reciente) la hace tax.SelectParameter.
	ListCandidates(ctx context.Context, businessID string, at time.Time) ([]*entity.FiscalParameter, error)
	Create(ctx context.Context, param *entity.FiscalParameter) error
}
