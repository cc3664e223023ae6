package billing_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ugcompta/invoiceflow/internal/application/billing"
	"github.com/ugcompta/invoiceflow/internal/application/dto"
	"github.com/ugcompta/invoiceflow/internal/domain"
)

func TestCustomerUseCase(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	uc := billing.NewCustomerUseCase(e.store.Customers())

	created, err := uc.Create(ctx, bizCorp, dto.CreateCustomerRequest{Name: "  Cevital ", NIF: "000216001234567"})
	require.NoError(t, err)
	assert.Equal(t, "Cevital", created.Name)

	_, err = uc.Create(ctx, bizCorp, dto.CreateCustomerRequest{Name: "Mal NIF", NIF: "12AB"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	list, err := uc.List(ctx, bizCorp, "cev", 0, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, created.ID, list[0].ID)

	_, err = uc.Get(ctx, bizIFU, created.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestProductUseCase(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	uc := billing.NewProductUseCase(e.store.Products())

	_, err := uc.Create(ctx, bizCorp, dto.CreateProductRequest{SKU: "CAB-01", Name: "Doublon", Kind: "goods", UnitPrice: dec("1"), TVARate: dec("19")})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = uc.Create(ctx, bizCorp, dto.CreateProductRequest{SKU: "X-1", Name: "Tasa rara", Kind: "goods", UnitPrice: dec("1"), TVARate: dec("7")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	p, err := uc.Create(ctx, bizCorp, dto.CreateProductRequest{SKU: "SRV-1", Name: "Maintenance", Kind: "services", UnitPrice: dec("2500"), TVARate: dec("9")})
	require.NoError(t, err)

	price := dec("3000")
	updated, err := uc.Update(ctx, bizCorp, p.ID, dto.UpdateProductRequest{UnitPrice: &price})
	require.NoError(t, err)
	assertDec(t, "3000", updated.UnitPrice)

	negative := dec("-1")
	_, err = uc.Update(ctx, bizCorp, p.ID, dto.UpdateProductRequest{UnitPrice: &negative})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	list, err := uc.List(ctx, bizCorp, 10, 0)
	require.NoError(t, err)
	assert.Len(t, list.Items, 2)

	assert.ErrorIs(t, uc.Delete(ctx, bizIFU, p.ID), domain.ErrForbidden)
	require.NoError(t, uc.Delete(ctx, bizCorp, p.ID))
	_, err = uc.GetByID(ctx, bizCorp, p.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPurchaseUseCase(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	uc := billing.NewPurchaseUseCase(e.store.Purchases())
	march := time.Date(2025, time.March, 5, 0, 0, 0, 0, time.UTC)

	_, err := uc.Create(ctx, bizCorp, dto.CreatePurchaseRequest{SupplierName: "Fournisseur", Date: march, AmountHT: dec("100"), TVAAmount: dec("190")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create(ctx, bizCorp, dto.CreatePurchaseRequest{SupplierName: "Fournisseur", Date: march, AmountHT: dec("-5")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	p, err := uc.Create(ctx, bizCorp, dto.CreatePurchaseRequest{
		SupplierName: "Fournisseur", Date: march,
		AmountHT: dec("1000"), TVAAmount: dec("190"), WithholdingAmount: dec("50"),
	})
	require.NoError(t, err)
	assert.Equal(t, "2025-03-05", p.Date)

	from := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	list, err := uc.List(ctx, bizCorp, from, from.AddDate(0, 1, 0), 0, 0)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	assert.ErrorIs(t, uc.Delete(ctx, bizIFU, p.ID), domain.ErrForbidden)
	require.NoError(t, uc.Delete(ctx, bizCorp, p.ID))
}

type fakePDF struct {
	got billing.InvoicePDFData
}

func (f *fakePDF) GenerateInvoicePDF(ctx context.Context, data billing.InvoicePDFData) ([]byte, error) {
	f.got = data
	return []byte("%PDF-1.4"), nil
}

func TestPDFUseCase_DownloadInvoicePDF(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	inv, err := e.invoices.CreateInvoice(ctx, bizCorp, twoLineRequest("cash"))
	require.NoError(t, err)

	gen := &fakePDF{}
	uc := billing.NewPDFUseCase(e.store.Invoices(), e.store.Businesses(), e.store.Customers(), gen)

	pdf, name, err := uc.DownloadInvoicePDF(ctx, bizCorp, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, "facture_FA-2025-00001.pdf", name)
	assert.Equal(t, []byte("%PDF-1.4"), pdf)
	assert.Equal(t, "Sonatrach", gen.got.Customer.Name)
	assert.Len(t, gen.got.Items, 2)
	assert.Equal(t, inv.LegalMentions, gen.got.LegalMentions)

	_, _, err = uc.DownloadInvoicePDF(ctx, bizIFU, inv.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = e.invoices.Cancel(ctx, bizCorp, inv.ID)
	require.NoError(t, err)
	_, _, err = uc.DownloadInvoicePDF(ctx, bizCorp, inv.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)
}
