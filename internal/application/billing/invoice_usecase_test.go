package billing_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ugcompta/invoiceflow/internal/application/billing"
	"github.com/ugcompta/invoiceflow/internal/application/dto"
	"github.com/ugcompta/invoiceflow/internal/domain"
	"github.com/ugcompta/invoiceflow/internal/domain/entity"
	"github.com/ugcompta/invoiceflow/pkg/logger"
)

func ptrDec(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func twoLineRequest(method string) dto.CreateInvoiceRequest {
	return dto.CreateInvoiceRequest{
		CustomerID:    custA,
		PaymentMethod: method,
		Items: []dto.InvoiceItemRequest{
			{ProductID: prodA, Quantity: dec("2")},
			{Description: "Installation", Kind: "services", Quantity: dec("1"), UnitPrice: ptrDec("50"), DiscountRate: dec("10"), TVARate: ptrDec("9")},
		},
	}
}

func TestCreateInvoice_SociedadConTVA(t *testing.T) {
	e := newEnv(t)
	resp, err := e.invoices.CreateInvoice(context.Background(), bizCorp, twoLineRequest("transfer"))
	require.NoError(t, err)

	assert.Equal(t, "FA-2025-00001", resp.Number)
	assert.Equal(t, entity.InvoiceStatusDraft, resp.Status)
	assert.Equal(t, "2025-03-10", resp.IssueDate)
	assert.Equal(t, "2025-04-09", resp.DueDate)
	assert.Equal(t, "Sonatrach", resp.CustomerName)
	assertDec(t, "245", resp.SubtotalHT)
	assertDec(t, "42.05", resp.TotalTVA)
	assertDec(t, "0", resp.StampDutyAmount)
	assertDec(t, "287.05", resp.TotalTTC)

	require.Len(t, resp.Items, 2)
	assert.Equal(t, "Câble 2.5mm", resp.Items[0].Description)
	assert.Equal(t, "goods", resp.Items[0].Kind)
	assertDec(t, "38", resp.Items[0].TVAAmount)
	assertDec(t, "49.05", resp.Items[1].LineTotalTTC)

	assert.True(t, strings.HasPrefix(resp.Footer, "SARL au capital de"), resp.Footer)
	assert.Contains(t, resp.LegalMentions, "NIF: 000016001234567")
}

func TestCreateInvoice_TimbreEnEfectivo(t *testing.T) {
	e := newEnv(t)
	req := twoLineRequest("cash")
	req.Items[0].Quantity = dec("20")
	resp, err := e.invoices.CreateInvoice(context.Background(), bizCorp, req)
	require.NoError(t, err)
	// TTC antes de timbre 2429.05, primer tramo al 1%.
	assertDec(t, "2045", resp.SubtotalHT)
	assertDec(t, "384.05", resp.TotalTVA)
	assertDec(t, "24.29", resp.StampDutyAmount)
	assertDec(t, "2453.34", resp.TotalTTC)
}

func TestCreateInvoice_EfectivoExentoDeTimbre(t *testing.T) {
	e := newEnv(t)
	resp, err := e.invoices.CreateInvoice(context.Background(), bizCorp, twoLineRequest("cash"))
	require.NoError(t, err)
	assertDec(t, "0", resp.StampDutyAmount)
	assertDec(t, "287.05", resp.TotalTTC)
}

func TestCreateInvoice_IFUSinTVA(t *testing.T) {
	e := newEnv(t)
	resp, err := e.invoices.CreateInvoice(context.Background(), bizIFU, dto.CreateInvoiceRequest{
		CustomerID:    custIFU,
		PaymentMethod: "transfer",
		Items: []dto.InvoiceItemRequest{
			{Description: "Réparation", Quantity: dec("3"), UnitPrice: ptrDec("50"), TVARate: ptrDec("19")},
		},
	})
	require.NoError(t, err)
	assertDec(t, "150", resp.SubtotalHT)
	assertDec(t, "0", resp.TotalTVA)
	assertDec(t, "150", resp.TotalTTC)
	assert.Equal(t, "services", resp.Items[0].Kind)
	assertDec(t, "0", resp.Items[0].TVARate)
	assert.Contains(t, resp.Footer, "IFU")
}

func TestCreateInvoice_Errores(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	req := twoLineRequest("transfer")
	req.CustomerID = custIFU
	_, err := e.invoices.CreateInvoice(ctx, bizCorp, req)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	req = twoLineRequest("transfer")
	req.Items[1].TVARate = ptrDec("7")
	_, err = e.invoices.CreateInvoice(ctx, bizCorp, req)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	req = twoLineRequest("transfer")
	req.Items = append(req.Items, dto.InvoiceItemRequest{Quantity: dec("1")})
	_, err = e.invoices.CreateInvoice(ctx, bizCorp, req)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	req = twoLineRequest("transfer")
	req.DiscountTotal = dec("300")
	_, err = e.invoices.CreateInvoice(ctx, bizCorp, req)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = e.invoices.CreateInvoice(ctx, "99999999-9999-9999-9999-999999999999", twoLineRequest("transfer"))
	assert.ErrorIs(t, err, domain.ErrNotFound)

	list, err := e.invoices.ListInvoices(ctx, bizCorp, dto.InvoiceListRequest{})
	require.NoError(t, err)
	assert.Empty(t, list.Items, "ninguna factura fallida debe quedar guardada")
}

func TestCreateInvoice_NumeracionCorrelativa(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	first, err := e.invoices.CreateInvoice(ctx, bizCorp, twoLineRequest("transfer"))
	require.NoError(t, err)
	second, err := e.invoices.CreateInvoice(ctx, bizCorp, twoLineRequest("cheque"))
	require.NoError(t, err)
	other, err := e.invoices.CreateInvoice(ctx, bizIFU, dto.CreateInvoiceRequest{
		CustomerID:    custIFU,
		PaymentMethod: "cash",
		Items:         []dto.InvoiceItemRequest{{Description: "Conseil", Quantity: dec("1"), UnitPrice: ptrDec("1000")}},
	})
	require.NoError(t, err)

	assert.Equal(t, "FA-2025-00001", first.Number)
	assert.Equal(t, "FA-2025-00002", second.Number)
	assert.Equal(t, "FA-2025-00001", other.Number, "la numeración es por negocio")
}

func TestInvoiceLifecycle(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	inv, err := e.invoices.CreateInvoice(ctx, bizCorp, twoLineRequest("transfer"))
	require.NoError(t, err)

	_, err = e.invoices.MarkPaid(ctx, bizCorp, inv.ID, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition, "un borrador no se cobra")

	issued, err := e.invoices.Issue(ctx, bizCorp, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.InvoiceStatusIssued, issued.Status)

	assert.ErrorIs(t, e.invoices.DeleteDraft(ctx, bizCorp, inv.ID), domain.ErrConflict)

	early := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	_, err = e.invoices.MarkPaid(ctx, bizCorp, inv.ID, &early)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	paid, err := e.invoices.MarkPaid(ctx, bizCorp, inv.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, entity.InvoiceStatusPaid, paid.Status)
	require.NotNil(t, paid.PaidAt)
	assert.True(t, paid.PaidAt.Equal(fixedNow))

	_, err = e.invoices.Cancel(ctx, bizCorp, inv.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition, "una factura pagada no se anula")

	got, err := e.invoices.GetInvoice(ctx, bizCorp, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.InvoiceStatusPaid, got.Status)
	assert.Len(t, got.Items, 2)

	_, err = e.invoices.GetInvoice(ctx, bizIFU, inv.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestDeleteDraft(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	inv, err := e.invoices.CreateInvoice(ctx, bizCorp, twoLineRequest("transfer"))
	require.NoError(t, err)

	require.NoError(t, e.invoices.DeleteDraft(ctx, bizCorp, inv.ID))
	_, err = e.invoices.GetInvoice(ctx, bizCorp, inv.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	items, err := e.store.Invoices().GetItems(ctx, inv.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestIssue_TotalesIncoherentes(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	inv, err := e.invoices.CreateInvoice(ctx, bizCorp, twoLineRequest("transfer"))
	require.NoError(t, err)

	stored, err := e.store.Invoices().GetByID(ctx, inv.ID)
	require.NoError(t, err)
	items, err := e.store.Invoices().GetItems(ctx, inv.ID)
	require.NoError(t, err)
	stored.TotalTTC = dec("1")
	require.NoError(t, e.store.Invoices().Delete(ctx, inv.ID))
	require.NoError(t, e.store.Invoices().Create(ctx, stored))
	for _, it := range items {
		require.NoError(t, e.store.Invoices().CreateItem(ctx, it))
	}

	_, err = e.invoices.Issue(ctx, bizCorp, inv.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestListInvoices_Filtros(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	a, err := e.invoices.CreateInvoice(ctx, bizCorp, twoLineRequest("transfer"))
	require.NoError(t, err)
	_, err = e.invoices.CreateInvoice(ctx, bizCorp, twoLineRequest("transfer"))
	require.NoError(t, err)
	_, err = e.invoices.Issue(ctx, bizCorp, a.ID)
	require.NoError(t, err)

	all, err := e.invoices.ListInvoices(ctx, bizCorp, dto.InvoiceListRequest{})
	require.NoError(t, err)
	assert.Equal(t, 2, all.Page.Total)

	issued, err := e.invoices.ListInvoices(ctx, bizCorp, dto.InvoiceListRequest{Status: entity.InvoiceStatusIssued})
	require.NoError(t, err)
	require.Len(t, issued.Items, 1)
	assert.Equal(t, a.ID, issued.Items[0].ID)

	sameDay, err := e.invoices.ListInvoices(ctx, bizCorp, dto.InvoiceListRequest{From: "2025-03-10", To: "2025-03-10"})
	require.NoError(t, err)
	assert.Len(t, sameDay.Items, 2, "to es inclusivo")

	_, err = e.invoices.ListInvoices(ctx, bizCorp, dto.InvoiceListRequest{From: "10/03/2025"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestReminderSweeper_MarcaVencidas(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	inv, err := e.invoices.CreateInvoice(ctx, bizCorp, twoLineRequest("transfer"))
	require.NoError(t, err)
	_, err = e.invoices.Issue(ctx, bizCorp, inv.ID)
	require.NoError(t, err)

	sweeper := billing.NewReminderSweeper(e.store.Invoices(), time.Hour, logger.Nop())

	sweeper.SetClock(func() time.Time { return fixedNow.AddDate(0, 0, 10) })
	n, err := sweeper.SweepOnce(ctx)
	require.NoError(t, err)
	assert.Zero(t, n, "todavía no vence")

	sweeper.SetClock(func() time.Time { return fixedNow.AddDate(0, 0, 31) })
	n, err = sweeper.SweepOnce(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	got, err := e.invoices.GetInvoice(ctx, bizCorp, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.InvoiceStatusOverdue, got.Status)

	paid, err := e.invoices.MarkPaid(ctx, bizCorp, inv.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, entity.InvoiceStatusPaid, paid.Status)
}

func TestReminderSweeper_VenceAlTerminarElDia(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	due := time.Date(2025, time.April, 9, 0, 0, 0, 0, time.UTC)
	req := twoLineRequest("transfer")
	req.DueDate = &due
	inv, err := e.invoices.CreateInvoice(ctx, bizCorp, req)
	require.NoError(t, err)
	_, err = e.invoices.Issue(ctx, bizCorp, inv.ID)
	require.NoError(t, err)

	sweeper := billing.NewReminderSweeper(e.store.Invoices(), time.Hour, logger.Nop())

	sweeper.SetClock(func() time.Time { return due.Add(18 * time.Hour) })
	n, err := sweeper.SweepOnce(ctx)
	require.NoError(t, err)
	assert.Zero(t, n, "el día de vencimiento todavía no está vencida")

	sweeper.SetClock(func() time.Time { return due.Add(24*time.Hour + 30*time.Minute) })
	n, err = sweeper.SweepOnce(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestReminderSweeper_RunTerminaConContexto(t *testing.T) {
	e := newEnv(t)
	sweeper := billing.NewReminderSweeper(e.store.Invoices(), 10*time.Millisecond, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sweeper.Run(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run no terminó tras cancelar el contexto")
	}
}

func TestGetInvoice_MencionesLegalesDelNegocio(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	const bizEURL, custEURL = "33333333-3333-3333-3333-333333333333", "dddddddd-dddd-dddd-dddd-dddddddddddd"
	require.NoError(t, e.store.Businesses().Create(ctx, &entity.Business{
		ID: bizEURL, Name: "Numidia Conseil", LegalType: "societe", FiscalRegime: "reel",
		LegalForm: "EURL - unipersonnelle", NIF: "000016009876543", ActivityKind: entity.ActivityServices, Status: "active",
	}))
	require.NoError(t, e.store.Customers().Create(ctx, &entity.Customer{ID: custEURL, BusinessID: bizEURL, Name: "Cevital"}))

	created, err := e.invoices.CreateInvoice(ctx, bizEURL, dto.CreateInvoiceRequest{
		CustomerID:    custEURL,
		PaymentMethod: "transfer",
		Items: []dto.InvoiceItemRequest{
			{Description: "Audit", Kind: "services", Quantity: dec("1"), UnitPrice: ptrDec("1000"), TVARate: ptrDec("19")},
		},
	})
	require.NoError(t, err)

	got, err := e.invoices.GetInvoice(ctx, bizEURL, created.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"EURL - unipersonnelle", "NIF: 000016009876543"}, got.LegalMentions)
	assert.Equal(t, created.LegalMentions, got.LegalMentions)
	assert.Equal(t, "EURL - unipersonnelle - NIF: 000016009876543", got.Footer)
}
