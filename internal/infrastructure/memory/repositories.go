package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/ugcompta/invoiceflow/internal/domain"
	"github.com/ugcompta/invoiceflow/internal/domain/entity"
	"github.com/ugcompta/invoiceflow/internal/domain/repository"
)

var (
	_ repository.BusinessRepository        = (*BusinessRepo)(nil)
	_ repository.ModuleRepository          = (*ModuleRepo)(nil)
	_ repository.UserRepository            = (*UserRepo)(nil)
	_ repository.CustomerRepository        = (*CustomerRepo)(nil)
	_ repository.ProductRepository         = (*ProductRepo)(nil)
	_ repository.InvoiceRepository         = (*InvoiceRepo)(nil)
	_ repository.PurchaseRepository        = (*PurchaseRepo)(nil)
	_ repository.FiscalParameterRepository = (*FiscalParameterRepo)(nil)
)

// BusinessRepo negocios en memoria.
type BusinessRepo struct{ s *Store }

func (r *BusinessRepo) Create(ctx context.Context, b *entity.Business) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.businesses[b.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.businesses[b.ID] = *b
	return nil
}

func (r *BusinessRepo) GetByID(ctx context.Context, id string) (*entity.Business, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	b, ok := r.s.businesses[id]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

func (r *BusinessRepo) Update(ctx context.Context, b *entity.Business) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.businesses[b.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.businesses[b.ID] = *b
	return nil
}

func (r *BusinessRepo) SetOwner(ctx context.Context, businessID, userID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.businesses[businessID]
	if !ok {
		return domain.ErrNotFound
	}
	b.OwnerUserID = userID
	r.s.businesses[businessID] = b
	return nil
}

// ModuleRepo módulos SaaS en memoria.
type ModuleRepo struct{ s *Store }

func moduleKey(businessID, name string) string { return businessID + "/" + name }

func (r *ModuleRepo) HasActiveModule(ctx context.Context, businessID, moduleName string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	m, ok := r.s.modules[moduleKey(businessID, moduleName)]
	if !ok || !m.IsActive {
		return false, nil
	}
	return m.ExpiresAt == nil || m.ExpiresAt.After(time.Now()), nil
}

func (r *ModuleRepo) ListByBusiness(ctx context.Context, businessID string) ([]*entity.BusinessModule, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*entity.BusinessModule
	for _, m := range r.s.modules {
		if m.BusinessID == businessID {
			out = append(out, &m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ModuleName < out[j].ModuleName })
	return out, nil
}

func (r *ModuleRepo) Activate(ctx context.Context, m *entity.BusinessModule) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := moduleKey(m.BusinessID, m.ModuleName)
	if prev, ok := r.s.modules[key]; ok {
		m.ID = prev.ID
		m.CreatedAt = prev.CreatedAt
	}
	if m.ID == "" {
		m.ID = key
	}
	r.s.modules[key] = *m
	return nil
}

// Deactivate desactiva un módulo (solo para tests de suscripción).
func (r *ModuleRepo) Deactivate(businessID, moduleName string) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := moduleKey(businessID, moduleName)
	if m, ok := r.s.modules[key]; ok {
		m.IsActive = false
		r.s.modules[key] = m
	}
}

// UserRepo usuarios en memoria. El email es único en todo el sistema.
type UserRepo struct{ s *Store }

func (r *UserRepo) Create(ctx context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return domain.ErrEmailAlreadyExists
		}
	}
	r.s.users[u.ID] = *u
	return nil
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, nil
}

func (r *UserRepo) ListByBusiness(ctx context.Context, businessID string, limit, offset int) ([]*entity.User, error) {
	r.s.mu.RLock()
	var all []*entity.User
	for _, u := range r.s.users {
		if u.BusinessID == businessID {
			all = append(all, &u)
		}
	}
	r.s.mu.RUnlock()
	sort.Slice(all, func(i, j int) bool { return all[i].Email < all[j].Email })
	return page(all, limit, offset), nil
}

// CustomerRepo clientes en memoria.
type CustomerRepo struct{ s *Store }

func (r *CustomerRepo) Create(ctx context.Context, c *entity.Customer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.customers[c.ID] = *c
	return nil
}

func (r *CustomerRepo) GetByID(ctx context.Context, id string) (*entity.Customer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.customers[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *CustomerRepo) ListByBusiness(ctx context.Context, businessID, search string, limit, offset int) ([]*entity.Customer, error) {
	search = strings.ToLower(search)
	r.s.mu.RLock()
	var all []*entity.Customer
	for _, c := range r.s.customers {
		if c.BusinessID != businessID {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(c.Name), search) && !strings.Contains(c.NIF, search) {
			continue
		}
		all = append(all, &c)
	}
	r.s.mu.RUnlock()
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return page(all, limit, offset), nil
}

func (r *CustomerRepo) Update(ctx context.Context, c *entity.Customer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.customers[c.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.customers[c.ID] = *c
	return nil
}

func (r *CustomerRepo) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.customers, id)
	return nil
}

// ProductRepo productos en memoria. El SKU es único por negocio.
type ProductRepo struct{ s *Store }

func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.products {
		if existing.BusinessID == p.BusinessID && existing.SKU == p.SKU {
			return domain.ErrDuplicate
		}
	}
	r.s.products[p.ID] = *p
	return nil
}

func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *ProductRepo) GetByBusinessAndSKU(ctx context.Context, businessID, sku string) (*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, p := range r.s.products {
		if p.BusinessID == businessID && p.SKU == sku {
			return &p, nil
		}
	}
	return nil, nil
}

func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.products[p.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.products[p.ID] = *p
	return nil
}

func (r *ProductRepo) ListByBusiness(ctx context.Context, businessID string, limit, offset int) ([]*entity.Product, error) {
	r.s.mu.RLock()
	var all []*entity.Product
	for _, p := range r.s.products {
		if p.BusinessID == businessID {
			all = append(all, &p)
		}
	}
	r.s.mu.RUnlock()
	sort.Slice(all, func(i, j int) bool { return all[i].SKU < all[j].SKU })
	return page(all, limit, offset), nil
}

func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.products, id)
	return nil
}

// InvoiceRepo facturas e ítems en memoria.
type InvoiceRepo struct{ s *Store }

func (r *InvoiceRepo) Create(ctx context.Context, inv *entity.Invoice) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.invoices {
		if existing.BusinessID == inv.BusinessID && existing.Number == inv.Number {
			return domain.ErrDuplicate
		}
	}
	r.s.invoices[inv.ID] = *inv
	return nil
}

func (r *InvoiceRepo) CreateItem(ctx context.Context, it *entity.InvoiceItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.invoices[it.InvoiceID]; !ok {
		return fmt.Errorf("%w: factura %s", domain.ErrNotFound, it.InvoiceID)
	}
	items := append([]entity.InvoiceItem(nil), r.s.items[it.InvoiceID]...)
	r.s.items[it.InvoiceID] = append(items, *it)
	return nil
}

func (r *InvoiceRepo) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	inv, ok := r.s.invoices[id]
	if !ok {
		return nil, nil
	}
	return &inv, nil
}

func (r *InvoiceRepo) GetItems(ctx context.Context, invoiceID string) ([]*entity.InvoiceItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	stored := r.s.items[invoiceID]
	out := make([]*entity.InvoiceItem, 0, len(stored))
	for i := range stored {
		it := stored[i]
		out = append(out, &it)
	}
	return out, nil
}

func (r *InvoiceRepo) List(ctx context.Context, f repository.InvoiceFilter) ([]*entity.Invoice, int, error) {
	r.s.mu.RLock()
	var all []*entity.Invoice
	for _, inv := range r.s.invoices {
		if inv.BusinessID != f.BusinessID {
			continue
		}
		if f.Status != "" && inv.Status != f.Status {
			continue
		}
		if f.CustomerID != "" && inv.CustomerID != f.CustomerID {
			continue
		}
		if f.From != nil && inv.IssueDate.Before(*f.From) {
			continue
		}
		if f.To != nil && !inv.IssueDate.Before(*f.To) {
			continue
		}
		all = append(all, &inv)
	}
	r.s.mu.RUnlock()
	sort.Slice(all, func(i, j int) bool {
		if !all[i].IssueDate.Equal(all[j].IssueDate) {
			return all[i].IssueDate.After(all[j].IssueDate)
		}
		return all[i].Number > all[j].Number
	})
	return page(all, f.Limit, f.Offset), len(all), nil
}

func (r *InvoiceRepo) UpdateStatus(ctx context.Context, inv *entity.Invoice) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.invoices[inv.ID]
	if !ok {
		return domain.ErrNotFound
	}
	stored.Status = inv.Status
	stored.PaidAt = inv.PaidAt
	stored.UpdatedAt = inv.UpdatedAt
	r.s.invoices[inv.ID] = stored
	return nil
}

func (r *InvoiceRepo) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.invoices, id)
	delete(r.s.items, id)
	return nil
}

func (r *InvoiceRepo) NextNumber(ctx context.Context, businessID string, year int) (string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := fmt.Sprintf("%s/%d", businessID, year)
	r.s.sequences[key]++
	return fmt.Sprintf("FA-%d-%05d", year, r.s.sequences[key]), nil
}

func (r *InvoiceRepo) MarkOverdue(ctx context.Context, asOf time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	cutoff := entity.StartOfDay(asOf)
	for id, inv := range r.s.invoices {
		if inv.Status == entity.InvoiceStatusIssued && inv.DueDate.Before(cutoff) {
			inv.Status = entity.InvoiceStatusOverdue
			inv.UpdatedAt = asOf
			r.s.invoices[id] = inv
			n++
		}
	}
	return n, nil
}

// PurchaseRepo compras en memoria.
type PurchaseRepo struct{ s *Store }

func (r *PurchaseRepo) Create(ctx context.Context, p *entity.Purchase) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.purchases[p.ID] = *p
	return nil
}

func (r *PurchaseRepo) GetByID(ctx context.Context, id string) (*entity.Purchase, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.purchases[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *PurchaseRepo) ListByBusiness(ctx context.Context, businessID string, from, to time.Time, limit, offset int) ([]*entity.Purchase, error) {
	r.s.mu.RLock()
	var all []*entity.Purchase
	for _, p := range r.s.purchases {
		if p.BusinessID == businessID && inRange(p.Date, from, to) {
			all = append(all, &p)
		}
	}
	r.s.mu.RUnlock()
	sort.Slice(all, func(i, j int) bool { return all[i].Date.After(all[j].Date) })
	return page(all, limit, offset), nil
}

func (r *PurchaseRepo) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.purchases, id)
	return nil
}

// FiscalParameterRepo parámetros fiscales en memoria.
type FiscalParameterRepo struct{ s *Store }

func (r *FiscalParameterRepo) ListCandidates(ctx context.Context, businessID string, at time.Time) ([]*entity.FiscalParameter, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*entity.FiscalParameter
	for _, p := range r.s.params {
		if p.BusinessID != nil && *p.BusinessID != businessID {
			continue
		}
		if !p.ActiveAt(at) {
			continue
		}
		out = append(out, &p)
	}
	return out, nil
}

func (r *FiscalParameterRepo) Create(ctx context.Context, p *entity.FiscalParameter) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.params = append(r.s.params, *p)
	return nil
}

// inRange [from, to); un extremo cero no limita.
func inRange(t, from, to time.Time) bool {
	if !from.IsZero() && t.Before(from) {
		return false
	}
	if !to.IsZero() && !t.Before(to) {
		return false
	}
	return true
}

func page[T any](all []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(all) {
		return []T{}
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all
}
