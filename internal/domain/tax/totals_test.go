package tax_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ugcompta/invoiceflow/internal/domain"
	"github.com/ugcompta/invoiceflow/internal/domain/entity"
	"github.com/ugcompta/invoiceflow/internal/domain/tax"
)

func line(q, p, disc, vat string) tax.LineInput {
	return tax.LineInput{Quantity: dec(q), UnitPrice: dec(p), DiscountRate: dec(disc), TVARate: dec(vat)}
}

func TestComputeInvoice_DosLineas(t *testing.T) {
	totals, err := tax.ComputeInvoice([]tax.LineInput{
		line("2", "100", "0", "19"),
		line("1", "50", "10", "9"),
	}, decimal.Zero, true)
	require.NoError(t, err)

	assertDec(t, "200", totals.Lines[0].LineTotalHT)
	assertDec(t, "38", totals.Lines[0].TVAAmount)
	assertDec(t, "45", totals.Lines[1].LineTotalHT)
	assertDec(t, "4.05", totals.Lines[1].TVAAmount)
	assertDec(t, "49.05", totals.Lines[1].LineTotalTTC)
	assertDec(t, "245", totals.SubtotalHT)
	assertDec(t, "42.05", totals.TotalTVA)
	assertDec(t, "287.05", totals.TotalTTC)
}

func TestComputeInvoice_DescuentoGlobalYTimbre(t *testing.T) {
	totals, err := tax.ComputeInvoice([]tax.LineInput{line("10", "1000", "0", "19")}, dec("500"), true)
	require.NoError(t, err)
	assertDec(t, "11400", totals.BaseBeforeStamp())

	stamp := tax.DefaultStampSchedule.Compute(totals.BaseBeforeStamp())
	totals = totals.WithStampDuty(stamp)
	assertDec(t, "114", totals.StampDuty)
	assertDec(t, "11514", totals.TotalTTC)
	assertDec(t, "11400", totals.BaseBeforeStamp(), "el timbre no entra en su propia base")
}

func TestComputeInvoice_SinTVA(t *testing.T) {
	totals, err := tax.ComputeInvoice([]tax.LineInput{line("3", "33.33", "0", "19")}, decimal.Zero, false)
	require.NoError(t, err)
	assertDec(t, "99.99", totals.SubtotalHT)
	assertDec(t, "0", totals.TotalTVA)
	assertDec(t, "99.99", totals.TotalTTC)
}

func TestComputeInvoice_Errores(t *testing.T) {
	_, err := tax.ComputeInvoice(nil, decimal.Zero, true)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = tax.ComputeInvoice([]tax.LineInput{line("1", "100", "0", "19")}, dec("100.01"), true)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = tax.ComputeInvoice([]tax.LineInput{line("1", "100", "0", "19")}, dec("-1"), true)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestComputeLine_RedondeoPorLinea(t *testing.T) {
	lt := tax.ComputeLine(line("3", "0.335", "0", "19"), true)
	assertDec(t, "1.01", lt.LineTotalHT)
	assertDec(t, "0.19", lt.TVAAmount)
	assertDec(t, "1.2", lt.LineTotalTTC)
}

func TestValidateLine(t *testing.T) {
	allowed := tax.DefaultRateTable.AllowedVATRates()
	cases := []struct {
		name    string
		in      tax.LineInput
		vat     bool
		wantErr bool
	}{
		{"válida", line("1", "10", "0", "19"), true, false},
		{"tasa reducida", line("1", "10", "5", "9"), true, false},
		{"exenta", line("1", "10", "0", "0"), true, false},
		{"cantidad cero", line("0", "10", "0", "19"), true, true},
		{"precio negativo", line("1", "-1", "0", "19"), true, true},
		{"descuento mayor a 100", line("1", "10", "101", "19"), true, true},
		{"descuento negativo", line("1", "10", "-1", "19"), true, true},
		{"tasa no admitida", line("1", "10", "0", "7"), true, true},
		{"tasa ignorada sin TVA", line("1", "10", "0", "7"), false, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tax.ValidateLine(tc.in, allowed, tc.vat)
			if tc.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidInput)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestVerifyTotals(t *testing.T) {
	items := []*entity.InvoiceItem{
		{LineTotalHT: dec("200"), TVAAmount: dec("38"), LineTotalTTC: dec("238")},
		{LineTotalHT: dec("45"), TVAAmount: dec("4.05"), LineTotalTTC: dec("49.05")},
	}
	inv := &entity.Invoice{
		SubtotalHT:      dec("245"),
		DiscountTotal:   dec("5"),
		TotalTVA:        dec("42.05"),
		StampDutyAmount: dec("5"),
		TotalTTC:        dec("287.05"),
	}
	require.NoError(t, tax.VerifyTotals(inv, items))

	inv.TotalTTC = dec("290")
	err := tax.VerifyTotals(inv, items)
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "TTC")

	items[0].LineTotalTTC = dec("239")
	err = tax.VerifyTotals(inv, items)
	assert.Contains(t, err.Error(), "línea 1")
}
