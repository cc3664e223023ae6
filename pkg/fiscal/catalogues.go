// Package fiscal reúne catálogos, formatos y validaciones de identificadores
// de la administración fiscal argelina (DGI) usados al facturar.
package fiscal

import "github.com/shopspring/decimal"

// Formas de explotación (campo Business.LegalType).
const (
	LegalTypeCompany          = "societe"
	LegalTypeIndividual       = "personne_physique"
	LegalTypeAutoEntrepreneur = "auto_entrepreneur"
)

// Regímenes fiscales (campo Business.FiscalRegime). "VAT" e "IFU" son alias históricos.
const (
	RegimeReal             = "reel"
	RegimeRealAlias        = "VAT"
	RegimeForfait          = "forfaitaire"
	RegimeForfaitAlias     = "IFU"
	RegimeAutoEntrepreneur = "auto_entrepreneur"
)

// Formas jurídicas de sociedad más comunes (Code de commerce).
const (
	LegalFormSARL = "SARL"
	LegalFormEURL = "EURL"
	LegalFormSPA  = "SPA"
	LegalFormSNC  = "SNC"
	LegalFormSCS  = "SCS"
)

// Medios de pago. Solo el pago en efectivo genera droit de timbre.
const (
	PaymentCash     = "cash"
	PaymentCheque   = "cheque"
	PaymentTransfer = "transfer"
	PaymentCard     = "card"
)

// Naturaleza de la operación (bienes o servicios), determina la tasa IFU.
const (
	KindGoods    = "goods"
	KindServices = "services"
)

// Currency moneda de todas las facturas.
const Currency = "DA"

// Tasas de TVA vigentes (porcentaje).
var (
	VATRateReduced  = decimal.NewFromInt(9)
	VATRateStandard = decimal.NewFromInt(19)
)

// IsPaymentMethod informa si el código de pago es conocido.
func IsPaymentMethod(s string) bool {
	switch s {
	case PaymentCash, PaymentCheque, PaymentTransfer, PaymentCard:
		return true
	}
	return false
}

// IsKind informa si la naturaleza de la operación es conocida.
func IsKind(s string) bool {
	return s == KindGoods || s == KindServices
}
