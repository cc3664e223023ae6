package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ugcompta/invoiceflow/internal/domain"
	"github.com/ugcompta/invoiceflow/internal/domain/entity"
	"github.com/ugcompta/invoiceflow/internal/infrastructure/memory"
)

func invoice(id, customer, status string, issue time.Time, ht, tva string) *entity.Invoice {
	h, v := decimal.RequireFromString(ht), decimal.RequireFromString(tva)
	return &entity.Invoice{
		ID: id, BusinessID: "b1", CustomerID: customer, Number: id, Status: status,
		IssueDate: issue, DueDate: issue.AddDate(0, 0, 30),
		SubtotalHT: h, TotalTVA: v, TotalTTC: h.Add(v),
	}
}

func TestGetSummary(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	require.NoError(t, st.Businesses().Create(ctx, &entity.Business{ID: "b1", LegalType: "societe", FiscalRegime: "reel"}))
	require.NoError(t, st.Customers().Create(ctx, &entity.Customer{ID: "c1", BusinessID: "b1", Name: "Cevital"}))
	require.NoError(t, st.Customers().Create(ctx, &entity.Customer{ID: "c2", BusinessID: "b1", Name: "Condor"}))

	now := time.Date(2026, time.March, 20, 12, 0, 0, 0, time.UTC)
	for _, inv := range []*entity.Invoice{
		invoice("i1", "c1", entity.InvoiceStatusIssued, now.AddDate(0, 0, -5), "1000", "190"),
		invoice("i2", "c2", entity.InvoiceStatusPaid, now.AddDate(0, 0, -2), "3000", "570"),
		invoice("i3", "c1", entity.InvoiceStatusDraft, now.AddDate(0, 0, -1), "9999", "0"),
		invoice("i4", "c2", entity.InvoiceStatusOverdue, time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC), "500", "95"),
	} {
		require.NoError(t, st.Invoices().Create(ctx, inv))
	}

	uc := NewDashboardUseCase(st.Analytics(), st.Businesses())
	uc.SetClock(func() time.Time { return now })

	got, err := uc.GetSummary(ctx, "b1")
	require.NoError(t, err)

	assert.True(t, decimal.NewFromInt(4000).Equal(got.MonthTurnoverHT), got.MonthTurnoverHT.String())
	assert.True(t, decimal.NewFromInt(760).Equal(got.MonthTVA))
	assert.Equal(t, 2, got.MonthInvoices)
	assert.Equal(t, 2, got.UnpaidCount)
	assert.True(t, decimal.NewFromInt(1785).Equal(got.UnpaidTotal), got.UnpaidTotal.String())
	assert.Equal(t, 1, got.OverdueCount)
	require.Len(t, got.TopCustomers, 2)
	assert.Equal(t, "Condor", got.TopCustomers[0].CustomerName)
	require.Len(t, got.Monthly, 12)
	assert.True(t, decimal.NewFromInt(500).Equal(got.Monthly[0].TurnoverHT))
	assert.Equal(t, "corporate", got.Regime)
	assert.Equal(t, "mars 2026", got.DateLabel)

	_, err = uc.GetSummary(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMonthLabel(t *testing.T) {
	assert.Equal(t, "août 2025", monthLabel(time.Date(2025, time.August, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "décembre 2024", monthLabel(time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC)))
}
