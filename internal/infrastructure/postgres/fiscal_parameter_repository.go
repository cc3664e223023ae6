package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/ugcompta/invoiceflow/internal/domain/entity"
	"github.com/ugcompta/invoiceflow/internal/domain/repository"
)

var _ repository.FiscalParameterRepository = (*FiscalParameterRepo)(nil)

// FiscalParameterRepo parámetros fiscales con vigencia.
type FiscalParameterRepo struct {
	q Querier
}

// NewFiscalParameterRepository construye el adaptador.
func NewFiscalParameterRepository(q Querier) *FiscalParameterRepo {
	return &FiscalParameterRepo{q: q}
}

// ListCandidates parámetros globales y del negocio vigentes en at.
func (r *FiscalParameterRepo) ListCandidates(ctx context.Context, businessID string, at time.Time) ([]*entity.FiscalParameter, error) {
	const query = `
		SELECT id, business_id, code, value, effective_from, effective_to, COALESCE(description, ''), created_at
		FROM fiscal_parameters
		WHERE (business_id IS NULL OR business_id = $1)
		  AND effective_from <= $2
		  AND (effective_to IS NULL OR effective_to > $2)
		ORDER BY code, effective_from DESC`
	rows, err := r.q.Query(ctx, query, businessID, at)
	if err != nil {
		return nil, fmt.Errorf("list fiscal parameters: %w", err)
	}
	defer rows.Close()

	var list []*entity.FiscalParameter
	for rows.Next() {
		var p entity.FiscalParameter
		if err := rows.Scan(&p.ID, &p.BusinessID, &p.Code, &p.Value, &p.EffectiveFrom, &p.EffectiveTo, &p.Description, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan fiscal parameter: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}

// Create inserta un parámetro. Si ID está vacío lo genera la base.
func (r *FiscalParameterRepo) Create(ctx context.Context, p *entity.FiscalParameter) error {
	const query = `
		INSERT INTO fiscal_parameters (id, business_id, code, value, effective_from, effective_to, description, created_at)
		VALUES (COALESCE($1::uuid, gen_random_uuid()), $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`
	var id *string
	if p.ID != "" {
		id = &p.ID
	}
	err := r.q.QueryRow(ctx, query,
		id, p.BusinessID, p.Code, p.Value, p.EffectiveFrom, p.EffectiveTo, nullIfEmpty(p.Description), p.CreatedAt,
	).Scan(&p.ID)
	if err != nil {
		return fmt.Errorf("insert fiscal parameter: %w", err)
	}
	return nil
}
