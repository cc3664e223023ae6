package billing

import (
	"context"

	"github.com/ugcompta/invoiceflow/internal/domain/entity"
	"github.com/ugcompta/invoiceflow/internal/domain/repository"
)

// BillingTxRunner ejecuta una función dentro de una transacción con el repositorio de facturas.
// Numeración, cabecera e ítems se confirman juntos o no se confirman.
type BillingTxRunner interface {
	RunBilling(ctx context.Context, fn func(invoiceRepo repository.InvoiceRepository) error) error
}

// InvoicePDFData datos completos para la representación impresa de una factura.
type InvoicePDFData struct {
	Invoice       *entity.Invoice
	Business      *entity.Business
	Customer      *entity.Customer
	Items         []*entity.InvoiceItem
	LegalMentions []string
}

// InvoicePDFGenerator genera el PDF de una factura.
type InvoicePDFGenerator interface {
	GenerateInvoicePDF(ctx context.Context, data InvoicePDFData) ([]byte, error)
}
