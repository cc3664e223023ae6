package tax

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ugcompta/invoiceflow/internal/domain"
	"github.com/ugcompta/invoiceflow/internal/domain/entity"
)

// LineInput datos de una línea antes del cálculo. DiscountRate y TVARate en porcentaje.
type LineInput struct {
	Quantity     decimal.Decimal
	UnitPrice    decimal.Decimal
	DiscountRate decimal.Decimal
	TVARate      decimal.Decimal
}

// LineTotals importes calculados de una línea.
type LineTotals struct {
	LineTotalHT  decimal.Decimal
	TVAAmount    decimal.Decimal
	LineTotalTTC decimal.Decimal
}

// InvoiceTotals totales de cabecera.
type InvoiceTotals struct {
	Lines         []LineTotals
	SubtotalHT    decimal.Decimal
	DiscountTotal decimal.Decimal
	TotalTVA      decimal.Decimal
	StampDuty     decimal.Decimal
	TotalTTC      decimal.Decimal
}

// ValidateLine comprueba cantidades, precio, descuento y tasa de TVA de una línea.
// Con vatApplies en false la tasa se ignora (se fuerza a 0 en ComputeLine).
func ValidateLine(in LineInput, allowedVAT []decimal.Decimal, vatApplies bool) error {
	if !in.Quantity.IsPositive() {
		return fmt.Errorf("%w: la cantidad debe ser mayor que 0", domain.ErrInvalidInput)
	}
	if in.UnitPrice.IsNegative() {
		return fmt.Errorf("%w: el precio unitario no puede ser negativo", domain.ErrInvalidInput)
	}
	if in.DiscountRate.IsNegative() || in.DiscountRate.GreaterThan(hundred) {
		return fmt.Errorf("%w: el descuento debe estar entre 0 y 100", domain.ErrInvalidInput)
	}
	if !vatApplies {
		return nil
	}
	for _, r := range allowedVAT {
		if in.TVARate.Equal(r) {
			return nil
		}
	}
	return fmt.Errorf("%w: tasa de TVA %s no admitida", domain.ErrInvalidInput, in.TVARate.String())
}

// ComputeLine calcula HT, TVA y TTC de una línea redondeando cada importe a 2 decimales.
func ComputeLine(in LineInput, vatApplies bool) LineTotals {
	gross := in.Quantity.Mul(in.UnitPrice)
	ht := gross.Mul(hundred.Sub(in.DiscountRate)).Div(hundred).Round(2)
	tva := decimal.Zero
	if vatApplies {
		tva = ht.Mul(in.TVARate).Div(hundred).Round(2)
	}
	return LineTotals{LineTotalHT: ht, TVAAmount: tva, LineTotalTTC: ht.Add(tva)}
}

// ComputeInvoice suma las líneas y aplica el descuento global. El timbre se añade aparte
// con WithStampDuty porque su base es el TTC sin timbre.
func ComputeInvoice(lines []LineInput, discountTotal decimal.Decimal, vatApplies bool) (InvoiceTotals, error) {
	if len(lines) == 0 {
		return InvoiceTotals{}, fmt.Errorf("%w: la factura debe tener al menos una línea", domain.ErrInvalidInput)
	}
	t := InvoiceTotals{Lines: make([]LineTotals, 0, len(lines)), DiscountTotal: discountTotal.Round(2)}
	for _, l := range lines {
		lt := ComputeLine(l, vatApplies)
		t.Lines = append(t.Lines, lt)
		t.SubtotalHT = t.SubtotalHT.Add(lt.LineTotalHT)
		t.TotalTVA = t.TotalTVA.Add(lt.TVAAmount)
	}
	if t.DiscountTotal.IsNegative() || t.DiscountTotal.GreaterThan(t.SubtotalHT) {
		return InvoiceTotals{}, fmt.Errorf("%w: el descuento global debe estar entre 0 y el subtotal HT", domain.ErrInvalidInput)
	}
	t.TotalTTC = t.BaseBeforeStamp()
	return t, nil
}

// BaseBeforeStamp TTC antes de timbre: subtotal - descuento + TVA.
func (t InvoiceTotals) BaseBeforeStamp() decimal.Decimal {
	return t.SubtotalHT.Sub(t.DiscountTotal).Add(t.TotalTVA)
}

// WithStampDuty devuelve los totales con el timbre incorporado al TTC.
func (t InvoiceTotals) WithStampDuty(stamp decimal.Decimal) InvoiceTotals {
	t.StampDuty = stamp
	t.TotalTTC = t.BaseBeforeStamp().Add(stamp)
	return t
}

// VerifyTotals comprueba que la cabecera persistida es coherente con sus ítems.
func VerifyTotals(inv *entity.Invoice, items []*entity.InvoiceItem) error {
	var errs []error
	subtotal, tva := decimal.Zero, decimal.Zero
	for i, it := range items {
		if !it.LineTotalTTC.Equal(it.LineTotalHT.Add(it.TVAAmount)) {
			errs = append(errs, fmt.Errorf("línea %d: TTC (%s) != HT (%s) + TVA (%s)",
				i+1, it.LineTotalTTC, it.LineTotalHT, it.TVAAmount))
		}
		subtotal = subtotal.Add(it.LineTotalHT)
		tva = tva.Add(it.TVAAmount)
	}
	if !inv.SubtotalHT.Equal(subtotal) {
		errs = append(errs, fmt.Errorf("subtotal HT (%s) != suma de líneas (%s)", inv.SubtotalHT, subtotal))
	}
	if !inv.TotalTVA.Equal(tva) {
		errs = append(errs, fmt.Errorf("TVA total (%s) != suma de líneas (%s)", inv.TotalTVA, tva))
	}
	want := inv.SubtotalHT.Sub(inv.DiscountTotal).Add(inv.TotalTVA).Add(inv.StampDutyAmount)
	if !inv.TotalTTC.Equal(want) {
		errs = append(errs, fmt.Errorf("TTC (%s) != subtotal - descuento + TVA + timbre (%s)", inv.TotalTTC, want))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", domain.ErrInvalidInput, errors.Join(errs...))
	}
	return nil
}
