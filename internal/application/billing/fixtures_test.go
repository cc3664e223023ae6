package billing_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ugcompta/invoiceflow/internal/application/billing"
	"github.com/ugcompta/invoiceflow/internal/domain/entity"
	"github.com/ugcompta/invoiceflow/internal/domain/tax"
	"github.com/ugcompta/invoiceflow/internal/infrastructure/memory"
)

const (
	bizCorp = "11111111-1111-1111-1111-111111111111"
	bizIFU  = "22222222-2222-2222-2222-222222222222"
	custA   = "aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa"
	custIFU = "bbbbbbbb-bbbb-bbbb-bbbb-bbbbbbbbbbbb"
	prodA   = "cccccccc-cccc-cccc-cccc-cccccccccccc"
)

var fixedNow = time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func assertDec(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), "esperado %s, obtenido %s", want, got.String())
}

type env struct {
	store    *memory.Store
	invoices *billing.InvoiceUseCase
}

// newEnv store con una SARL en régimen real, un negocio IFU y un cliente por negocio.
func newEnv(t *testing.T) *env {
	t.Helper()
	ctx := context.Background()
	st := memory.New()

	require.NoError(t, st.Businesses().Create(ctx, &entity.Business{
		ID:           bizCorp,
		Name:         "Atlas Distribution",
		LegalType:    "societe",
		FiscalRegime: "reel",
		LegalForm:    "SARL",
		Capital:      dec("1000000"),
		NIF:          "000016001234567",
		RC:           "16/00-1234567B18",
		ActivityKind: entity.ActivityMixed,
		Status:       "active",
	}))
	require.NoError(t, st.Businesses().Create(ctx, &entity.Business{
		ID:           bizIFU,
		Name:         "Atelier Benali",
		LegalType:    "personne_physique",
		FiscalRegime: "forfaitaire",
		ActivityKind: entity.ActivityServices,
		Status:       "active",
	}))
	require.NoError(t, st.Customers().Create(ctx, &entity.Customer{ID: custA, BusinessID: bizCorp, Name: "Sonatrach"}))
	require.NoError(t, st.Customers().Create(ctx, &entity.Customer{ID: custIFU, BusinessID: bizIFU, Name: "Client IFU"}))
	require.NoError(t, st.Products().Create(ctx, &entity.Product{
		ID: prodA, BusinessID: bizCorp, SKU: "CAB-01", Name: "Câble 2.5mm",
		Kind: entity.ActivityGoods, UnitPrice: dec("100"), TVARate: dec("19"),
	}))

	uc := billing.NewInvoiceUseCase(
		st,
		st.Businesses(),
		st.Customers(),
		st.Products(),
		st.Invoices(),
		tax.NewRateResolver(st.FiscalParameters()),
		billing.InvoiceConfig{StampDutyEnabled: true, DefaultDueDays: 30},
	)
	uc.SetClock(func() time.Time { return fixedNow })
	return &env{store: st, invoices: uc}
}
