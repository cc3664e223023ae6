package repository

import (
	"context"
	"time"

	"github.com/ugcompta/invoiceflow/internal/domain/entity"
)

// InvoiceFilter criterios de listado de facturas.
type InvoiceFilter struct {
	BusinessID string
	Status     string // vacío = todos
	CustomerID string
	From, To   *time.Time // rango sobre issue_date, [From, To)
	Limit      int
	Offset     int
}

// InvoiceRepository define el puerto de persistencia para Invoice e ítems.
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *entity.Invoice) error
	CreateItem(ctx context.Context, item *entity.InvoiceItem) error
	GetByID(ctx context.Context, id string) (*entity.Invoice, error)
	GetItems(ctx context.Context, invoiceID string) ([]*entity.InvoiceItem, error)
	List(ctx context.Context, filter InvoiceFilter) ([]*entity.Invoice, int, error)
	// UpdateStatus persiste status, paid_at y updated_at.
	UpdateStatus(ctx context.Context, invoice *entity.Invoice) error
	// Delete borra la factura; los ítems caen por ON DELETE CASCADE.
	Delete(ctx context.Context, id string) error
	// NextNumber reserva el siguiente correlativo anual del negocio (ej. FA-2025-00042).
	NextNumber(ctx context.Context, businessID string, year int) (string, error)
	// MarkOverdue pasa a overdue las facturas emitidas con due_date anterior a asOf.
	MarkOverdue(ctx context.Context, asOf time.Time) (int64, error)
}
