package postgres

import (
	"context"
	"fmt"

	"github.com/ugcompta/invoiceflow/internal/domain"
	"github.com/ugcompta/invoiceflow/internal/domain/entity"
	"github.com/ugcompta/invoiceflow/internal/domain/repository"
)

var (
	_ repository.BusinessRepository = (*BusinessRepo)(nil)
	_ repository.ModuleRepository   = (*ModuleRepo)(nil)
)

// BusinessRepo implementación del puerto BusinessRepository sobre PostgreSQL.
type BusinessRepo struct {
	q Querier
}

// NewBusinessRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBusinessRepository(q Querier) *BusinessRepo {
	return &BusinessRepo{q: q}
}

const businessColumns = `id, owner_user_id, name, legal_type, fiscal_regime, legal_form, capital,
	rc, nif, ai, nis, auto_entrepreneur_card, activity_kind, address, phone, email, status,
	created_at, updated_at`

// Create persiste un nuevo negocio. El propietario se fija después con SetOwner.
func (r *BusinessRepo) Create(ctx context.Context, b *entity.Business) error {
	query := `INSERT INTO businesses (` + businessColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`
	_, err := r.q.Exec(ctx, query,
		b.ID, nullIfEmpty(b.OwnerUserID), b.Name, b.LegalType, b.FiscalRegime, nullIfEmpty(b.LegalForm), b.Capital,
		nullIfEmpty(b.RC), nullIfEmpty(b.NIF), nullIfEmpty(b.AI), nullIfEmpty(b.NIS), nullIfEmpty(b.AutoEntrepreneurCard),
		b.ActivityKind, nullIfEmpty(b.Address), nullIfEmpty(b.Phone), nullIfEmpty(b.Email), b.Status,
		b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert business: %w", err)
	}
	return nil
}

// GetByID obtiene un negocio por ID.
func (r *BusinessRepo) GetByID(ctx context.Context, id string) (*entity.Business, error) {
	query := `SELECT ` + businessColumns + ` FROM businesses WHERE id = $1`
	b, err := scanBusiness(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get business: %w", err)
	}
	return b, nil
}

// Update actualiza los datos del negocio (no cambia el propietario).
func (r *BusinessRepo) Update(ctx context.Context, b *entity.Business) error {
	query := `
		UPDATE businesses SET name = $2, legal_type = $3, fiscal_regime = $4, legal_form = $5, capital = $6,
			rc = $7, nif = $8, ai = $9, nis = $10, auto_entrepreneur_card = $11, activity_kind = $12,
			address = $13, phone = $14, email = $15, status = $16, updated_at = $17
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		b.ID, b.Name, b.LegalType, b.FiscalRegime, nullIfEmpty(b.LegalForm), b.Capital,
		nullIfEmpty(b.RC), nullIfEmpty(b.NIF), nullIfEmpty(b.AI), nullIfEmpty(b.NIS), nullIfEmpty(b.AutoEntrepreneurCard),
		b.ActivityKind, nullIfEmpty(b.Address), nullIfEmpty(b.Phone), nullIfEmpty(b.Email), b.Status, b.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update business: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SetOwner fija el usuario propietario.
func (r *BusinessRepo) SetOwner(ctx context.Context, businessID, userID string) error {
	cmd, err := r.q.Exec(ctx, `UPDATE businesses SET owner_user_id = $2, updated_at = now() WHERE id = $1`, businessID, userID)
	if err != nil {
		return fmt.Errorf("set business owner: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanBusiness(row scanner) (*entity.Business, error) {
	var b entity.Business
	var owner, legalForm, rc, nif, ai, nis, card, address, phone, email *string
	err := row.Scan(
		&b.ID, &owner, &b.Name, &b.LegalType, &b.FiscalRegime, &legalForm, &b.Capital,
		&rc, &nif, &ai, &nis, &card, &b.ActivityKind, &address, &phone, &email, &b.Status,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	b.OwnerUserID = derefStr(owner)
	b.LegalForm = derefStr(legalForm)
	b.RC, b.NIF, b.AI, b.NIS = derefStr(rc), derefStr(nif), derefStr(ai), derefStr(nis)
	b.AutoEntrepreneurCard = derefStr(card)
	b.Address, b.Phone, b.Email = derefStr(address), derefStr(phone), derefStr(email)
	return &b, nil
}

// ModuleRepo suscripción de módulos SaaS (tabla business_modules).
type ModuleRepo struct {
	q Querier
}

// NewModuleRepository construye el adaptador.
func NewModuleRepository(q Querier) *ModuleRepo {
	return &ModuleRepo{q: q}
}

// HasActiveModule informa si el negocio tiene el módulo activo y sin vencer.
// Consulta directamente business_modules para una respuesta O(1) vía índice único.
func (r *ModuleRepo) HasActiveModule(ctx context.Context, businessID, moduleName string) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1 FROM business_modules
			 WHERE business_id = $1
			   AND module_name = $2
			   AND is_active   = true
			   AND (expires_at IS NULL OR expires_at > now())
		)`
	var active bool
	if err := r.q.QueryRow(ctx, query, businessID, moduleName).Scan(&active); err != nil {
		return false, fmt.Errorf("check module %s: %w", moduleName, err)
	}
	return active, nil
}

// ListByBusiness módulos contratados por el negocio.
func (r *ModuleRepo) ListByBusiness(ctx context.Context, businessID string) ([]*entity.BusinessModule, error) {
	const query = `
		SELECT id, business_id, module_name, is_active, activated_at, expires_at, created_at, updated_at
		FROM business_modules WHERE business_id = $1 ORDER BY module_name`
	rows, err := r.q.Query(ctx, query, businessID)
	if err != nil {
		return nil, fmt.Errorf("list modules: %w", err)
	}
	defer rows.Close()

	var list []*entity.BusinessModule
	for rows.Next() {
		var m entity.BusinessModule
		if err := rows.Scan(&m.ID, &m.BusinessID, &m.ModuleName, &m.IsActive, &m.ActivatedAt, &m.ExpiresAt, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan module: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}

// Activate crea o reactiva el módulo.
func (r *ModuleRepo) Activate(ctx context.Context, m *entity.BusinessModule) error {
	const query = `
		INSERT INTO business_modules (business_id, module_name, is_active, activated_at, expires_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (business_id, module_name)
		DO UPDATE SET is_active = EXCLUDED.is_active, activated_at = EXCLUDED.activated_at,
		              expires_at = EXCLUDED.expires_at, updated_at = EXCLUDED.updated_at
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		m.BusinessID, m.ModuleName, m.IsActive, m.ActivatedAt, m.ExpiresAt, m.CreatedAt, m.UpdatedAt,
	).Scan(&m.ID)
	if err != nil {
		return fmt.Errorf("activate module %s: %w", m.ModuleName, err)
	}
	return nil
}
