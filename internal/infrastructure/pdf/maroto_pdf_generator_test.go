package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appbilling "github.com/ugcompta/invoiceflow/internal/application/billing"
	"github.com/ugcompta/invoiceflow/internal/domain/entity"
)

func sampleData(status string) appbilling.InvoicePDFData {
	issued := time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)
	return appbilling.InvoicePDFData{
		Invoice: &entity.Invoice{
			Number:          "FA-2025-00001",
			IssueDate:       issued,
			DueDate:         issued.AddDate(0, 0, 30),
			Status:          status,
			PaymentMethod:   "cash",
			SubtotalHT:      decimal.NewFromInt(250),
			DiscountTotal:   decimal.NewFromInt(5),
			TotalTVA:        decimal.RequireFromString("42.05"),
			StampDutyAmount: decimal.NewFromInt(5),
			TotalTTC:        decimal.RequireFromString("292.05"),
			Footer:          "SARL au capital de 100 000 DA - NIF: 000016001234567",
		},
		Business: &entity.Business{Name: "Atlas Distribution", NIF: "000016001234567", RC: "16/00-1234567B18"},
		Customer: &entity.Customer{Name: "Condor", NIF: "000016009876543"},
		Items: []*entity.InvoiceItem{{
			Description: "Câble 2.5mm", Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(100),
			TVARate: decimal.NewFromInt(19), LineTotalHT: decimal.NewFromInt(200),
		}},
		LegalMentions: []string{"SARL au capital de 100 000 DA", "NIF: 000016001234567"},
	}
}

func TestGenerateInvoicePDF(t *testing.T) {
	g := NewMarotoPDFGenerator()
	for _, status := range []string{entity.InvoiceStatusDraft, entity.InvoiceStatusIssued} {
		t.Run(status, func(t *testing.T) {
			out, err := g.GenerateInvoicePDF(context.Background(), sampleData(status))
			require.NoError(t, err)
			assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
		})
	}
}

func TestGenerateInvoicePDF_DatosIncompletos(t *testing.T) {
	data := sampleData(entity.InvoiceStatusIssued)
	data.Customer = nil
	_, err := NewMarotoPDFGenerator().GenerateInvoicePDF(context.Background(), data)
	assert.Error(t, err)
}

func TestQRReference(t *testing.T) {
	data := sampleData(entity.InvoiceStatusIssued)
	assert.Equal(t, "NIF=000016001234567;N=FA-2025-00001;D=2025-03-10;TTC=292.05", qrReference(data.Invoice, data.Business))
}
