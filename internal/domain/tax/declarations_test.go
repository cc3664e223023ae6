package tax_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ugcompta/invoiceflow/internal/domain"
	"github.com/ugcompta/invoiceflow/internal/domain/tax"
)

var realModules = tax.Modules{G50: true, IBS: true, VAT: true, Withholdings: true, Stamp: true}
var ifuModules = tax.Modules{G12: true, G12bis: true, Stamp: true}

func TestComputeG50_TVAAPagar(t *testing.T) {
	g, err := tax.ComputeG50(tax.G50Input{
		Period: tax.Period{Year: 2025, Month: time.April},
		Sales: []tax.SalesByRate{
			{Rate: dec("9"), BaseHT: dec("1000"), TVA: dec("90")},
			{Rate: dec("19"), BaseHT: dec("10000"), TVA: dec("1900")},
		},
		DeductibleTVA:   dec("500"),
		StampDuty:       dec("120"),
		Withholdings:    dec("300"),
		PreviousYearIBS: dec("100000"),
		Modules:         realModules,
	})
	require.NoError(t, err)

	assertDec(t, "11000", g.TurnoverHT)
	assertDec(t, "1990", g.CollectedTVA)
	assertDec(t, "1490", g.TVAPayable)
	assertDec(t, "0", g.TVACredit)
	assertDec(t, "0", g.IBSInstallment, "abril no lleva acompte")
	assertDec(t, "1910", g.TotalPayable)
}

func TestComputeG50_CreditoYAcompte(t *testing.T) {
	g, err := tax.ComputeG50(tax.G50Input{
		Period:          tax.Period{Year: 2025, Month: time.March},
		Sales:           []tax.SalesByRate{{Rate: dec("19"), BaseHT: dec("1000"), TVA: dec("190")}},
		DeductibleTVA:   dec("400"),
		PreviousYearIBS: dec("100000"),
		Modules:         realModules,
	})
	require.NoError(t, err)

	assertDec(t, "0", g.TVAPayable)
	assertDec(t, "210", g.TVACredit)
	assertDec(t, "30000", g.IBSInstallment)
	assertDec(t, "30000", g.TotalPayable)
}

func TestComputeG50_NoAplica(t *testing.T) {
	_, err := tax.ComputeG50(tax.G50Input{Period: tax.Period{Year: 2025, Month: time.May}, Modules: ifuModules})
	assert.ErrorIs(t, err, domain.ErrNotApplicable)
}

func TestComputeG50_PeriodoInvalido(t *testing.T) {
	_, err := tax.ComputeG50(tax.G50Input{Period: tax.Period{Year: 2025, Month: 13}, Modules: realModules})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = tax.ComputeG50(tax.G50Input{Period: tax.Period{Year: 1999, Month: 1}, Modules: realModules})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPeriod_Bounds(t *testing.T) {
	from, to := tax.Period{Year: 2024, Month: time.December}.Bounds()
	assert.Equal(t, time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), to)
}

func TestComputeG12_IFU(t *testing.T) {
	rates := tax.GetApplicableTaxRates(tax.RegimeIFU)
	g, err := tax.ComputeG12(ifuModules, rates, 2025, dec("1000000"), dec("500000"))
	require.NoError(t, err)
	assertDec(t, "110000", g.Assessment.ComputedTax)
	assertDec(t, "110000", g.Assessment.TaxDue)
	assert.False(t, g.Assessment.MinimumApplied)
}

func TestComputeG12_MinimoDeImposicion(t *testing.T) {
	rates := tax.GetApplicableTaxRates(tax.RegimeAutoEntrepreneur)
	g, err := tax.ComputeG12(ifuModules, rates, 2025, dec("600000"), decimal.Zero)
	require.NoError(t, err)
	assertDec(t, "3000", g.Assessment.ComputedTax)
	assertDec(t, "10000", g.Assessment.TaxDue)
	assert.True(t, g.Assessment.MinimumApplied)
}

func TestComputeG12_Errores(t *testing.T) {
	rates := tax.GetApplicableTaxRates(tax.RegimeIFU)
	_, err := tax.ComputeG12(realModules, rates, 2025, dec("1"), dec("1"))
	assert.ErrorIs(t, err, domain.ErrNotApplicable)

	_, err = tax.ComputeG12(ifuModules, rates, 2025, dec("-1"), dec("1"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = tax.ComputeG12(ifuModules, tax.GetApplicableTaxRates(tax.RegimeCorporate), 2025, dec("1"), dec("1"))
	assert.ErrorIs(t, err, domain.ErrNotApplicable)
}

func TestComputeG12bis_Saldo(t *testing.T) {
	rates := tax.GetApplicableTaxRates(tax.RegimeIFU)
	g, err := tax.ComputeG12bis(ifuModules, rates, 2025, dec("2000000"), dec("100000"), dec("90000"))
	require.NoError(t, err)
	assertDec(t, "112000", g.Assessment.TaxDue)
	assertDec(t, "22000", g.Balance)

	g, err = tax.ComputeG12bis(ifuModules, rates, 2025, dec("100000"), decimal.Zero, dec("15000"))
	require.NoError(t, err)
	assertDec(t, "10000", g.Assessment.TaxDue)
	assertDec(t, "-5000", g.Balance, "exceso pagado con la G12")
}

func TestIBSDue(t *testing.T) {
	rates := tax.GetApplicableTaxRates(tax.RegimeCorporate)
	assertDec(t, "26000", tax.IBSDue(rates, dec("100000")))
	assertDec(t, "0", tax.IBSDue(rates, dec("-5")))
	assertDec(t, "0", tax.IBSDue(tax.GetApplicableTaxRates(tax.RegimeIFU), dec("100000")))
}
