package tax_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ugcompta/invoiceflow/internal/domain/entity"
	"github.com/ugcompta/invoiceflow/internal/domain/tax"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func assertDec(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	if len(msgAndArgs) == 0 {
		msgAndArgs = []interface{}{"esperado %s, obtenido %s", want, got.String()}
	}
	assert.True(t, dec(want).Equal(got), msgAndArgs...)
}

func TestGetApplicableTaxRates_AutoEntrepreneur(t *testing.T) {
	r := tax.GetApplicableTaxRates(tax.RegimeAutoEntrepreneur)
	require.Equal(t, tax.RateKindAutoEntrepreneur, r.Kind)
	require.NotNil(t, r.AutoEntrepreneur)
	assert.Nil(t, r.IFU)
	assert.Nil(t, r.Real)
	assertDec(t, "0.5", r.AutoEntrepreneur.FlatRate)
	assertDec(t, "10000", r.AutoEntrepreneur.MinimumTax)
}

func TestGetApplicableTaxRates_IFU(t *testing.T) {
	r := tax.GetApplicableTaxRates(tax.RegimeIFU)
	require.Equal(t, tax.RateKindIFU, r.Kind)
	assertDec(t, "5", r.IFU.GoodsRate)
	assertDec(t, "12", r.IFU.ServicesRate)
	assertDec(t, "10000", r.IFU.MinimumTax)
}

func TestGetApplicableTaxRates_RealPorDefecto(t *testing.T) {
	for _, reg := range []tax.Regime{tax.RegimeCorporate, tax.RegimeRealIndividual, tax.RegimeUnsupported} {
		r := tax.GetApplicableTaxRates(reg)
		require.Equal(t, tax.RateKindReal, r.Kind, reg.String())
		assertDec(t, "26", r.Real.IBSRate)
		assertDec(t, "0", r.Real.TAPRate)
		assert.Equal(t, tax.TAPNote, r.Real.TAPNote)
		require.Len(t, r.Real.VATRates, 2)
		assertDec(t, "9", r.Real.VATRates[0])
		assertDec(t, "19", r.Real.VATRates[1])
	}
}

func ptr[T any](v T) *T { return &v }

func TestSelectParameter(t *testing.T) {
	at := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	params := []*entity.FiscalParameter{
		{ID: "g-old", Code: entity.ParamIBSRate, Value: dec("25"), EffectiveFrom: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)},
		{ID: "g-new", Code: entity.ParamIBSRate, Value: dec("26"), EffectiveFrom: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{ID: "g-future", Code: entity.ParamIBSRate, Value: dec("27"), EffectiveFrom: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)},
		{ID: "b-expired", BusinessID: ptr("biz-1"), Code: entity.ParamIBSRate, Value: dec("19"),
			EffectiveFrom: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), EffectiveTo: ptr(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))},
		{ID: "other", BusinessID: ptr("biz-2"), Code: entity.ParamIBSRate, Value: dec("10"), EffectiveFrom: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)},
	}

	p, ok := tax.SelectParameter(params, entity.ParamIBSRate, "biz-1", at)
	require.True(t, ok)
	assert.Equal(t, "g-new", p.ID, "el parámetro propio vencido no aplica; gana el global más reciente")

	p, ok = tax.SelectParameter(params, entity.ParamIBSRate, "biz-2", at)
	require.True(t, ok)
	assert.Equal(t, "other", p.ID, "el parámetro del negocio gana sobre el global")

	_, ok = tax.SelectParameter(params, entity.ParamTAPRate, "biz-1", at)
	assert.False(t, ok)
}

func TestRateTable_Overrides(t *testing.T) {
	at := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	params := []*entity.FiscalParameter{
		{Code: entity.ParamMinimumTax, Value: dec("30000"), EffectiveFrom: at.AddDate(-1, 0, 0)},
		{Code: entity.ParamIFUServicesRate, Value: dec("10"), EffectiveFrom: at.AddDate(0, -1, 0)},
	}
	table := tax.DefaultRateTable.Overrides(params, "biz-1", at)

	r := table.For(tax.RegimeIFU)
	assertDec(t, "5", r.IFU.GoodsRate)
	assertDec(t, "10", r.IFU.ServicesRate)
	assertDec(t, "30000", r.IFU.MinimumTax)

	// La tabla por defecto no se modifica.
	assertDec(t, "12", tax.DefaultRateTable.IFUServicesRate)
}

func TestRateTable_AllowedVATRates(t *testing.T) {
	got := tax.DefaultRateTable.AllowedVATRates()
	require.Len(t, got, 3)
	assertDec(t, "0", got[0])
	assertDec(t, "9", got[1])
	assertDec(t, "19", got[2])
}

type fakeParams struct {
	params []*entity.FiscalParameter
	err    error
}

func (f fakeParams) ListCandidates(_ context.Context, _ string, _ time.Time) ([]*entity.FiscalParameter, error) {
	return f.params, f.err
}

func TestRateResolver_Resolve(t *testing.T) {
	at := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	src := fakeParams{params: []*entity.FiscalParameter{
		{Code: entity.ParamAEFlatRate, Value: dec("1"), EffectiveFrom: at.AddDate(0, -2, 0)},
		{Code: entity.ParamStampTier3Rate, Value: dec("2.5"), EffectiveFrom: at.AddDate(0, -2, 0)},
		{Code: entity.ParamIBSInstallmentPct, Value: dec("25"), EffectiveFrom: at.AddDate(0, -2, 0)},
	}}
	res, err := tax.NewRateResolver(src).Resolve(context.Background(), "biz-1", at)
	require.NoError(t, err)
	assertDec(t, "1", res.Rates.For(tax.RegimeAutoEntrepreneur).AutoEntrepreneur.FlatRate)
	assertDec(t, "5000", res.Stamp.Compute(dec("200000")))
	assertDec(t, "25", res.IBSInstallmentRate)
}

func TestRateResolver_SinFuente(t *testing.T) {
	res, err := tax.NewRateResolver(nil).Resolve(context.Background(), "biz-1", time.Now())
	require.NoError(t, err)
	assert.Equal(t, tax.DefaultRateTable, res.Rates)
	assertDec(t, "30", res.IBSInstallmentRate)
}

func TestRateResolver_ErrorDeFuente(t *testing.T) {
	_, err := tax.NewRateResolver(fakeParams{err: errors.New("db caída")}).Resolve(context.Background(), "biz-1", time.Now())
	assert.Error(t, err)
}
