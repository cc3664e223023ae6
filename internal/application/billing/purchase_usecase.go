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
	"github.com/ugcompta/invoiceflow/pkg/fiscal"
)

// PurchaseUseCase registro de facturas de proveedor (TVA deducible y retenciones de la G50).
type PurchaseUseCase struct {
	repo repository.PurchaseRepository
}

// NewPurchaseUseCase construye el caso de uso.
func NewPurchaseUseCase(repo repository.PurchaseRepository) *PurchaseUseCase {
	return &PurchaseUseCase{repo: repo}
}

// Create registra una compra. Los importes no pueden ser negativos y la TVA no puede superar el HT.
func (uc *PurchaseUseCase) Create(ctx context.Context, businessID string, in dto.CreatePurchaseRequest) (*dto.PurchaseResponse, error) {
	for _, v := range []decimal.Decimal{in.AmountHT, in.TVAAmount, in.WithholdingAmount} {
		if v.IsNegative() {
			return nil, fmt.Errorf("%w: importes negativos", domain.ErrInvalidInput)
		}
	}
	if in.TVAAmount.GreaterThan(in.AmountHT) {
		return nil, fmt.Errorf("%w: la TVA supera el importe HT", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(in.SupplierNIF) != "" {
		if err := fiscal.ValidateNIF(in.SupplierNIF); err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
		}
	}
	now := time.Now()
	p := &entity.Purchase{
		ID:                uuid.New().String(),
		BusinessID:        businessID,
		SupplierName:      strings.TrimSpace(in.SupplierName),
		SupplierNIF:       strings.TrimSpace(in.SupplierNIF),
		Reference:         in.Reference,
		Date:              in.Date,
		AmountHT:          in.AmountHT.Round(2),
		TVAAmount:         in.TVAAmount.Round(2),
		WithholdingAmount: in.WithholdingAmount.Round(2),
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	resp := toPurchaseResponse(p)
	return &resp, nil
}

// List compras del negocio en [from, to).
func (uc *PurchaseUseCase) List(ctx context.Context, businessID string, from, to time.Time, limit, offset int) ([]dto.PurchaseResponse, error) {
	if limit <= 0 {
		limit = 50
	}
	list, err := uc.repo.ListByBusiness(ctx, businessID, from, to, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PurchaseResponse, 0, len(list))
	for _, p := range list {
		out = append(out, toPurchaseResponse(p))
	}
	return out, nil
}

// Delete borra una compra del negocio.
func (uc *PurchaseUseCase) Delete(ctx context.Context, businessID, id string) error {
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if p == nil {
		return domain.ErrNotFound
	}
	if p.BusinessID != businessID {
		return domain.ErrForbidden
	}
	return uc.repo.Delete(ctx, id)
}

func toPurchaseResponse(p *entity.Purchase) dto.PurchaseResponse {
	return dto.PurchaseResponse{
		ID:                p.ID,
		SupplierName:      p.SupplierName,
		SupplierNIF:       p.SupplierNIF,
		Reference:         p.Reference,
		Date:              p.Date.Format(dateLayout),
		AmountHT:          p.AmountHT,
		TVAAmount:         p.TVAAmount,
		WithholdingAmount: p.WithholdingAmount,
	}
}
