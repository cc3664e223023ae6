// Package memory implementa los puertos de persistencia sobre mapas en memoria.
// Lo usan los tests y la CLI cuando no hay base de datos configurada.
package memory

import (
	"context"
	"maps"
	"sync"

	"github.com/ugcompta/invoiceflow/internal/domain/entity"
	"github.com/ugcompta/invoiceflow/internal/domain/repository"
)

// Store estado compartido por todos los repositorios en memoria.
type Store struct {
	mu sync.RWMutex
	tx sync.Mutex

	businesses map[string]entity.Business
	modules    map[string]entity.BusinessModule // business_id/module_name
	users      map[string]entity.User
	customers  map[string]entity.Customer
	products   map[string]entity.Product
	invoices   map[string]entity.Invoice
	items      map[string][]entity.InvoiceItem // por invoice_id
	purchases  map[string]entity.Purchase
	params     []entity.FiscalParameter
	sequences  map[string]int // business_id/año
}

// New crea un store vacío.
func New() *Store {
	return &Store{
		businesses: map[string]entity.Business{},
		modules:    map[string]entity.BusinessModule{},
		users:      map[string]entity.User{},
		customers:  map[string]entity.Customer{},
		products:   map[string]entity.Product{},
		invoices:   map[string]entity.Invoice{},
		items:      map[string][]entity.InvoiceItem{},
		purchases:  map[string]entity.Purchase{},
		sequences:  map[string]int{},
	}
}

// Businesses repositorio de negocios.
func (s *Store) Businesses() *BusinessRepo { return &BusinessRepo{s: s} }

// Modules repositorio de módulos SaaS.
func (s *Store) Modules() *ModuleRepo { return &ModuleRepo{s: s} }

// Users repositorio de usuarios.
func (s *Store) Users() *UserRepo { return &UserRepo{s: s} }

// Customers repositorio de clientes.
func (s *Store) Customers() *CustomerRepo { return &CustomerRepo{s: s} }

// Products repositorio de productos.
func (s *Store) Products() *ProductRepo { return &ProductRepo{s: s} }

// Invoices repositorio de facturas.
func (s *Store) Invoices() *InvoiceRepo { return &InvoiceRepo{s: s} }

// Purchases repositorio de compras.
func (s *Store) Purchases() *PurchaseRepo { return &PurchaseRepo{s: s} }

// FiscalParameters repositorio de parámetros fiscales.
func (s *Store) FiscalParameters() *FiscalParameterRepo { return &FiscalParameterRepo{s: s} }

// Declarations agregados de declaraciones.
func (s *Store) Declarations() *DeclarationRepo { return &DeclarationRepo{s: s} }

// Analytics consultas del dashboard.
func (s *Store) Analytics() *AnalyticsRepo { return &AnalyticsRepo{s: s} }

type snapshot struct {
	businesses map[string]entity.Business
	modules    map[string]entity.BusinessModule
	users      map[string]entity.User
	invoices   map[string]entity.Invoice
	items      map[string][]entity.InvoiceItem
	sequences  map[string]int
}

func (s *Store) snapshot() snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return snapshot{
		businesses: maps.Clone(s.businesses),
		modules:    maps.Clone(s.modules),
		users:      maps.Clone(s.users),
		invoices:   maps.Clone(s.invoices),
		items:      maps.Clone(s.items),
		sequences:  maps.Clone(s.sequences),
	}
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.businesses = snap.businesses
	s.modules = snap.modules
	s.users = snap.users
	s.invoices = snap.invoices
	s.items = snap.items
	s.sequences = snap.sequences
}

// RunBilling ejecuta fn de forma serializada; si fn falla se descartan sus escrituras.
func (s *Store) RunBilling(ctx context.Context, fn func(invoiceRepo repository.InvoiceRepository) error) error {
	s.tx.Lock()
	defer s.tx.Unlock()
	snap := s.snapshot()
	if err := fn(s.Invoices()); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

// RunOnboarding igual que RunBilling para el alta de negocio, propietario y módulos.
func (s *Store) RunOnboarding(ctx context.Context, fn func(
	businessRepo repository.BusinessRepository,
	userRepo repository.UserRepository,
	moduleRepo repository.ModuleRepository,
) error) error {
	s.tx.Lock()
	defer s.tx.Unlock()
	snap := s.snapshot()
	if err := fn(s.Businesses(), s.Users(), s.Modules()); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}
