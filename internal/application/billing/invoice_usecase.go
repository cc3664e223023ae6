package billing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ugcompta/invoiceflow/internal/application/dto"
	"github.com/ugcompta/invoiceflow/internal/domain"
	"github.com/ugcompta/invoiceflow/internal/domain/entity"
	"github.com/ugcompta/invoiceflow/internal/domain/repository"
	"github.com/ugcompta/invoiceflow/internal/domain/tax"
)

const dateLayout = "2006-01-02"

// InvoiceConfig parámetros del servicio que afectan a la facturación.
type InvoiceConfig struct {
	StampDutyEnabled bool
	DefaultDueDays   int
}

// InvoiceUseCase ciclo de vida de la factura: borrador, emisión, cobro y anulación.
type InvoiceUseCase struct {
	txRunner     BillingTxRunner
	businessRepo repository.BusinessRepository
	customerRepo repository.CustomerRepository
	productRepo  repository.ProductRepository
	invoiceRepo  repository.InvoiceRepository
	resolver     *tax.RateResolver
	cfg          InvoiceConfig
	now          func() time.Time
}

// NewInvoiceUseCase construye el caso de uso.
func NewInvoiceUseCase(
	txRunner BillingTxRunner,
	businessRepo repository.BusinessRepository,
	customerRepo repository.CustomerRepository,
	productRepo repository.ProductRepository,
	invoiceRepo repository.InvoiceRepository,
	resolver *tax.RateResolver,
	cfg InvoiceConfig,
) *InvoiceUseCase {
	if cfg.DefaultDueDays <= 0 {
		cfg.DefaultDueDays = 30
	}
	return &InvoiceUseCase{
		txRunner:     txRunner,
		businessRepo: businessRepo,
		customerRepo: customerRepo,
		productRepo:  productRepo,
		invoiceRepo:  invoiceRepo,
		resolver:     resolver,
		cfg:          cfg,
		now:          time.Now,
	}
}

// SetClock sustituye el reloj (tests y reprocesos con fecha fija).
func (uc *InvoiceUseCase) SetClock(now func() time.Time) {
	uc.now = now
}

// CreateInvoice crea la factura en borrador: calcula totales, TVA y timbre, congela el pie
// legal del negocio y guarda cabecera e ítems en una sola transacción.
func (uc *InvoiceUseCase) CreateInvoice(ctx context.Context, businessID string, in dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	if len(in.Items) == 0 {
		return nil, fmt.Errorf("%w: la factura debe tener al menos una línea", domain.ErrInvalidInput)
	}
	business, err := uc.businessRepo.GetByID(ctx, businessID)
	if err != nil {
		return nil, err
	}
	if business == nil {
		return nil, domain.ErrNotFound
	}
	taxCfg, err := tax.ConfigureTaxModules(business)
	if err != nil {
		return nil, err
	}

	customer, err := uc.customerRepo.GetByID(ctx, in.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domain.ErrNotFound
	}
	if customer.BusinessID != businessID {
		return nil, domain.ErrForbidden
	}

	now := uc.now()
	issueDate := now
	if in.IssueDate != nil {
		issueDate = *in.IssueDate
	}
	dueDate := issueDate.AddDate(0, 0, uc.cfg.DefaultDueDays)
	if in.DueDate != nil {
		dueDate = *in.DueDate
	}
	if dueDate.Before(entity.StartOfDay(issueDate)) {
		return nil, fmt.Errorf("%w: due_date anterior a issue_date", domain.ErrInvalidInput)
	}

	resolved, err := uc.resolver.Resolve(ctx, businessID, issueDate)
	if err != nil {
		return nil, err
	}

	lines, items, err := uc.buildLines(ctx, business, taxCfg.Modules.VAT, resolved.Rates.AllowedVATRates(), in.Items)
	if err != nil {
		return nil, err
	}
	totals, err := tax.ComputeInvoice(lines, in.DiscountTotal, taxCfg.Modules.VAT)
	if err != nil {
		return nil, err
	}
	if tax.StampDutyApplies(taxCfg.Modules, in.PaymentMethod, uc.cfg.StampDutyEnabled) {
		totals = totals.WithStampDuty(resolved.Stamp.Compute(totals.BaseBeforeStamp()))
	}

	inv := &entity.Invoice{
		ID:              uuid.New().String(),
		BusinessID:      businessID,
		CustomerID:      customer.ID,
		IssueDate:       issueDate,
		DueDate:         dueDate,
		Status:          entity.InvoiceStatusDraft,
		PaymentMethod:   in.PaymentMethod,
		SubtotalHT:      totals.SubtotalHT,
		DiscountTotal:   totals.DiscountTotal,
		TotalTVA:        totals.TotalTVA,
		StampDutyAmount: totals.StampDuty,
		TotalTTC:        totals.TotalTTC,
		Footer:          taxCfg.InvoiceFooter,
		Notes:           in.Notes,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	for i, it := range items {
		it.ID = uuid.New().String()
		it.InvoiceID = inv.ID
		it.LineTotalHT = totals.Lines[i].LineTotalHT
		it.TVAAmount = totals.Lines[i].TVAAmount
		it.LineTotalTTC = totals.Lines[i].LineTotalTTC
	}

	err = uc.txRunner.RunBilling(ctx, func(invoiceRepo repository.InvoiceRepository) error {
		number, err := invoiceRepo.NextNumber(ctx, businessID, issueDate.Year())
		if err != nil {
			return err
		}
		inv.Number = number
		if err := invoiceRepo.Create(ctx, inv); err != nil {
			return err
		}
		for _, it := range items {
			if err := invoiceRepo.CreateItem(ctx, it); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	resp := toInvoiceResponse(inv, items)
	resp.CustomerName = customer.Name
	resp.LegalMentions = taxCfg.LegalMentions
	return &resp, nil
}

// buildLines completa cada línea con los datos del producto y la valida.
func (uc *InvoiceUseCase) buildLines(
	ctx context.Context,
	business *entity.Business,
	vatApplies bool,
	allowedVAT []decimal.Decimal,
	reqItems []dto.InvoiceItemRequest,
) ([]tax.LineInput, []*entity.InvoiceItem, error) {
	lines := make([]tax.LineInput, 0, len(reqItems))
	items := make([]*entity.InvoiceItem, 0, len(reqItems))
	for i, ri := range reqItems {
		item := &entity.InvoiceItem{
			ProductID:    ri.ProductID,
			Description:  strings.TrimSpace(ri.Description),
			Kind:         ri.Kind,
			Quantity:     ri.Quantity,
			DiscountRate: ri.DiscountRate,
		}
		if ri.ProductID != "" {
			product, err := uc.productRepo.GetByID(ctx, ri.ProductID)
			if err != nil {
				return nil, nil, err
			}
			if product == nil {
				return nil, nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, ri.ProductID)
			}
			if product.BusinessID != business.ID {
				return nil, nil, domain.ErrForbidden
			}
			if item.Description == "" {
				item.Description = product.Name
			}
			if item.Kind == "" {
				item.Kind = product.Kind
			}
			item.UnitPrice = product.UnitPrice
			item.TVARate = product.TVARate
		} else {
			if item.Description == "" || ri.UnitPrice == nil {
				return nil, nil, fmt.Errorf("%w: línea %d sin producto requiere descripción y precio", domain.ErrInvalidInput, i+1)
			}
			item.TVARate = decimal.Zero
		}
		if item.Kind == "" {
			item.Kind = business.DefaultLineKind()
		}
		if ri.UnitPrice != nil {
			item.UnitPrice = *ri.UnitPrice
		}
		if ri.TVARate != nil {
			item.TVARate = *ri.TVARate
		}
		if !vatApplies {
			item.TVARate = decimal.Zero
		}
		in := tax.LineInput{
			Quantity:     item.Quantity,
			UnitPrice:    item.UnitPrice,
			DiscountRate: item.DiscountRate,
			TVARate:      item.TVARate,
		}
		if err := tax.ValidateLine(in, allowedVAT, vatApplies); err != nil {
			return nil, nil, fmt.Errorf("línea %d: %w", i+1, err)
		}
		lines = append(lines, in)
		items = append(items, item)
	}
	return lines, items, nil
}

// GetInvoice devuelve la factura con sus líneas. Una factura de otro negocio es ErrForbidden.
func (uc *InvoiceUseCase) GetInvoice(ctx context.Context, businessID, invoiceID string) (*dto.InvoiceResponse, error) {
	inv, err := uc.load(ctx, businessID, invoiceID)
	if err != nil {
		return nil, err
	}
	items, err := uc.invoiceRepo.GetItems(ctx, inv.ID)
	if err != nil {
		return nil, err
	}
	mentions, err := uc.legalMentions(ctx, businessID)
	if err != nil {
		return nil, err
	}
	resp := toInvoiceResponse(inv, items)
	resp.LegalMentions = mentions
	if c, err := uc.customerRepo.GetByID(ctx, inv.CustomerID); err == nil && c != nil {
		resp.CustomerName = c.Name
	}
	return &resp, nil
}

// ListInvoices lista facturas del negocio con filtros.
func (uc *InvoiceUseCase) ListInvoices(ctx context.Context, businessID string, req dto.InvoiceListRequest) (*dto.InvoiceListResponse, error) {
	req.DefaultPage()
	filter := repository.InvoiceFilter{
		BusinessID: businessID,
		Status:     req.Status,
		CustomerID: req.CustomerID,
		Limit:      req.Limit,
		Offset:     req.Offset,
	}
	if req.From != "" {
		from, err := time.Parse(dateLayout, req.From)
		if err != nil {
			return nil, fmt.Errorf("%w: from", domain.ErrInvalidInput)
		}
		filter.From = &from
	}
	if req.To != "" {
		to, err := time.Parse(dateLayout, req.To)
		if err != nil {
			return nil, fmt.Errorf("%w: to", domain.ErrInvalidInput)
		}
		to = to.AddDate(0, 0, 1)
		filter.To = &to
	}
	list, total, err := uc.invoiceRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.InvoiceResponse, 0, len(list))
	for _, inv := range list {
		items = append(items, toInvoiceResponse(inv, nil))
	}
	return &dto.InvoiceListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: req.Limit, Offset: req.Offset, Total: total},
	}, nil
}

// Issue emite un borrador. Antes de emitir se comprueba la coherencia de los totales.
func (uc *InvoiceUseCase) Issue(ctx context.Context, businessID, invoiceID string) (*dto.InvoiceResponse, error) {
	inv, err := uc.load(ctx, businessID, invoiceID)
	if err != nil {
		return nil, err
	}
	items, err := uc.invoiceRepo.GetItems(ctx, inv.ID)
	if err != nil {
		return nil, err
	}
	if err := tax.VerifyTotals(inv, items); err != nil {
		return nil, err
	}
	if err := uc.transition(ctx, inv, entity.InvoiceStatusIssued); err != nil {
		return nil, err
	}
	resp := toInvoiceResponse(inv, items)
	return &resp, nil
}

// MarkPaid registra el cobro de una factura emitida o vencida.
func (uc *InvoiceUseCase) MarkPaid(ctx context.Context, businessID, invoiceID string, paidAt *time.Time) (*dto.InvoiceResponse, error) {
	inv, err := uc.load(ctx, businessID, invoiceID)
	if err != nil {
		return nil, err
	}
	at := uc.now()
	if paidAt != nil {
		at = *paidAt
	}
	if at.Before(entity.StartOfDay(inv.IssueDate)) {
		return nil, fmt.Errorf("%w: paid_at anterior a la fecha de emisión", domain.ErrInvalidInput)
	}
	inv.PaidAt = &at
	if err := uc.transition(ctx, inv, entity.InvoiceStatusPaid); err != nil {
		inv.PaidAt = nil
		return nil, err
	}
	resp := toInvoiceResponse(inv, nil)
	return &resp, nil
}

// Cancel anula la factura. Una factura pagada no se puede anular.
func (uc *InvoiceUseCase) Cancel(ctx context.Context, businessID, invoiceID string) (*dto.InvoiceResponse, error) {
	inv, err := uc.load(ctx, businessID, invoiceID)
	if err != nil {
		return nil, err
	}
	if err := uc.transition(ctx, inv, entity.InvoiceStatusCancelled); err != nil {
		return nil, err
	}
	resp := toInvoiceResponse(inv, nil)
	return &resp, nil
}

// DeleteDraft borra un borrador y sus líneas. Las facturas emitidas no se borran, se anulan.
func (uc *InvoiceUseCase) DeleteDraft(ctx context.Context, businessID, invoiceID string) error {
	inv, err := uc.load(ctx, businessID, invoiceID)
	if err != nil {
		return err
	}
	if inv.Status != entity.InvoiceStatusDraft {
		return fmt.Errorf("%w: solo se pueden borrar facturas en borrador", domain.ErrConflict)
	}
	return uc.invoiceRepo.Delete(ctx, inv.ID)
}

func (uc *InvoiceUseCase) transition(ctx context.Context, inv *entity.Invoice, to string) error {
	if !entity.CanTransition(inv.Status, to) {
		return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, inv.Status, to)
	}
	prev := inv.Status
	inv.Status = to
	inv.UpdatedAt = uc.now()
	if err := uc.invoiceRepo.UpdateStatus(ctx, inv); err != nil {
		inv.Status = prev
		return err
	}
	return nil
}

func (uc *InvoiceUseCase) load(ctx context.Context, businessID, invoiceID string) (*entity.Invoice, error) {
	inv, err := uc.invoiceRepo.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	if inv.BusinessID != businessID {
		return nil, domain.ErrForbidden
	}
	return inv, nil
}

// legalMentions menciones legales recalculadas con los datos actuales del negocio.
func (uc *InvoiceUseCase) legalMentions(ctx context.Context, businessID string) ([]string, error) {
	business, err := uc.businessRepo.GetByID(ctx, businessID)
	if err != nil {
		return nil, err
	}
	if business == nil {
		return nil, domain.ErrNotFound
	}
	cfg, err := tax.ConfigureTaxModules(business)
	if err != nil {
		return nil, err
	}
	return cfg.LegalMentions, nil
}

func toInvoiceResponse(inv *entity.Invoice, items []*entity.InvoiceItem) dto.InvoiceResponse {
	resp := dto.InvoiceResponse{
		ID:              inv.ID,
		BusinessID:      inv.BusinessID,
		CustomerID:      inv.CustomerID,
		Number:          inv.Number,
		IssueDate:       inv.IssueDate.Format(dateLayout),
		DueDate:         inv.DueDate.Format(dateLayout),
		Status:          inv.Status,
		PaymentMethod:   inv.PaymentMethod,
		SubtotalHT:      inv.SubtotalHT,
		DiscountTotal:   inv.DiscountTotal,
		TotalTVA:        inv.TotalTVA,
		StampDutyAmount: inv.StampDutyAmount,
		TotalTTC:        inv.TotalTTC,
		Footer:          inv.Footer,
		Notes:           inv.Notes,
		PaidAt:          inv.PaidAt,
	}
	for _, it := range items {
		resp.Items = append(resp.Items, dto.InvoiceItemResponse{
			ID:           it.ID,
			ProductID:    it.ProductID,
			Description:  it.Description,
			Kind:         it.Kind,
			Quantity:     it.Quantity,
			UnitPrice:    it.UnitPrice,
			DiscountRate: it.DiscountRate,
			TVARate:      it.TVARate,
			LineTotalHT:  it.LineTotalHT,
			TVAAmount:    it.TVAAmount,
			LineTotalTTC: it.LineTotalTTC,
		})
	}
	return resp
}
