package billing

import (
	"context"
	"fmt"

	"github.com/ugcompta/invoiceflow/internal/domain"
	"github.com/ugcompta/invoiceflow/internal/domain/entity"
	"github.com/ugcompta/invoiceflow/internal/domain/repository"
	"github.com/ugcompta/invoiceflow/internal/domain/tax"
)

// PDFUseCase genera la representación impresa de una factura con su pie legal.
// Los borradores también se pueden descargar (marcados como tales por el generador).
type PDFUseCase struct {
	invoiceRepo  repository.InvoiceRepository
	businessRepo repository.BusinessRepository
	customerRepo repository.CustomerRepository
	generator    InvoicePDFGenerator
}

// NewPDFUseCase construye el caso de uso inyectando todas sus dependencias.
func NewPDFUseCase(
	invoiceRepo repository.InvoiceRepository,
	businessRepo repository.BusinessRepository,
	customerRepo repository.CustomerRepository,
	generator InvoicePDFGenerator,
) *PDFUseCase {
	return &PDFUseCase{
		invoiceRepo:  invoiceRepo,
		businessRepo: businessRepo,
		customerRepo: customerRepo,
		generator:    generator,
	}
}

// DownloadInvoicePDF recupera la factura, el negocio, el cliente y las líneas y genera el PDF.
//
// Retorna:
//   - domain.ErrNotFound   si la factura no existe.
//   - domain.ErrForbidden  si la factura no pertenece al negocio del token.
//   - domain.ErrConflict   si la factura está anulada.
func (uc *PDFUseCase) DownloadInvoicePDF(ctx context.Context, businessID, invoiceID string) (pdfBytes []byte, filename string, err error) {
	inv, err := uc.invoiceRepo.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener factura: %w", err)
	}
	if inv == nil {
		return nil, "", domain.ErrNotFound
	}
	if inv.BusinessID != businessID {
		return nil, "", domain.ErrForbidden
	}
	if inv.Status == entity.InvoiceStatusCancelled {
		return nil, "", fmt.Errorf("%w: la factura está anulada", domain.ErrConflict)
	}

	business, err := uc.businessRepo.GetByID(ctx, businessID)
	if err != nil || business == nil {
		return nil, "", fmt.Errorf("pdf: obtener negocio: %w", orNotFound(err))
	}
	customer, err := uc.customerRepo.GetByID(ctx, inv.CustomerID)
	if err != nil || customer == nil {
		return nil, "", fmt.Errorf("pdf: obtener cliente: %w", orNotFound(err))
	}
	items, err := uc.invoiceRepo.GetItems(ctx, invoiceID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener líneas: %w", err)
	}

	taxCfg, err := tax.ConfigureTaxModules(business)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: configuración fiscal: %w", err)
	}
	pdfBytes, err = uc.generator.GenerateInvoicePDF(ctx, InvoicePDFData{
		Invoice:       inv,
		Business:      business,
		Customer:      customer,
		Items:         items,
		LegalMentions: taxCfg.LegalMentions,
	})
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}

	number := inv.Number
	if number == "" {
		number = inv.ID
	}
	return pdfBytes, fmt.Sprintf("facture_%s.pdf", number), nil
}

func orNotFound(err error) error {
	if err != nil {
		return err
	}
	return domain.ErrNotFound
}
