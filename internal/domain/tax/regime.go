// Package tax contiene las reglas fiscales argelinas: clasificación del régimen de
// un negocio, tabla de tasas, cálculo de totales de factura, droit de timbre y
// liquidación de las declaraciones G50, G12 y G12bis.
//
// Todas las funciones son puras: no acceden a la base de datos ni al reloj.
package tax

import (
	"fmt"
	"strings"

	"github.com/ugcompta/invoiceflow/internal/domain"
	"github.com/ugcompta/invoiceflow/pkg/fiscal"
)

// ErrUnsupportedRegime combinación (forma de explotación, régimen) sin tratamiento fiscal definido.
var ErrUnsupportedRegime = fmt.Errorf("%w: combinación de forma de explotación y régimen fiscal no soportada", domain.ErrInvalidInput)

// LegalType forma de explotación normalizada.
type LegalType int

const (
	LegalTypeUnknown LegalType = iota
	LegalTypeCompany
	LegalTypeIndividual
	LegalTypeAutoEntrepreneur
)

// FiscalRegime régimen de imposición normalizado.
type FiscalRegime int

const (
	FiscalRegimeNone FiscalRegime = iota // sin declarar (admitido solo para sociedades)
	FiscalRegimeReal
	FiscalRegimeForfait
	FiscalRegimeAutoEntrepreneur
	FiscalRegimeUnknown
)

// Regime tratamiento fiscal resultante de la clasificación.
type Regime int

const (
	RegimeUnsupported Regime = iota
	RegimeCorporate
	RegimeAutoEntrepreneur
	RegimeIFU
	RegimeRealIndividual
)

func (r Regime) String() string {
	switch r {
	case RegimeCorporate:
		return "corporate"
	case RegimeAutoEntrepreneur:
		return "auto_entrepreneur"
	case RegimeIFU:
		return "ifu"
	case RegimeRealIndividual:
		return "real_individual"
	default:
		return "unsupported"
	}
}

// MarshalText permite serializar el régimen como texto en JSON.
func (r Regime) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText acepta los nombres producidos por String.
func (r *Regime) UnmarshalText(text []byte) error {
	for _, c := range []Regime{RegimeCorporate, RegimeAutoEntrepreneur, RegimeIFU, RegimeRealIndividual} {
		if c.String() == string(text) {
			*r = c
			return nil
		}
	}
	*r = RegimeUnsupported
	return nil
}

// ParseLegalType normaliza el campo Business.LegalType.
func ParseLegalType(s string) LegalType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case fiscal.LegalTypeCompany:
		return LegalTypeCompany
	case fiscal.LegalTypeIndividual:
		return LegalTypeIndividual
	case fiscal.LegalTypeAutoEntrepreneur:
		return LegalTypeAutoEntrepreneur
	default:
		return LegalTypeUnknown
	}
}

// ParseFiscalRegime normaliza el campo Business.FiscalRegime, aceptando los alias VAT e IFU.
func ParseFiscalRegime(s string) FiscalRegime {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return FiscalRegimeNone
	case fiscal.RegimeReal, strings.ToLower(fiscal.RegimeRealAlias):
		return FiscalRegimeReal
	case fiscal.RegimeForfait, strings.ToLower(fiscal.RegimeForfaitAlias):
		return FiscalRegimeForfait
	case fiscal.RegimeAutoEntrepreneur:
		return FiscalRegimeAutoEntrepreneur
	default:
		return FiscalRegimeUnknown
	}
}

// Classify resuelve el tratamiento fiscal para el par (forma de explotación, régimen).
// Las reglas se evalúan en orden y la primera que aplica gana:
//
//	societe                                   -> corporate (cualquier régimen)
//	auto_entrepreneur o personne_physique+AE  -> auto_entrepreneur
//	personne_physique + forfaitaire/IFU       -> ifu
//	personne_physique + reel/VAT              -> real_individual
//
// Cualquier otra combinación devuelve ErrUnsupportedRegime.
func Classify(legalType, fiscalRegime string) (Regime, error) {
	lt := ParseLegalType(legalType)
	fr := ParseFiscalRegime(fiscalRegime)

	switch lt {
	case LegalTypeCompany:
		return RegimeCorporate, nil
	case LegalTypeAutoEntrepreneur:
		return RegimeAutoEntrepreneur, nil
	case LegalTypeIndividual:
		switch fr {
		case FiscalRegimeAutoEntrepreneur:
			return RegimeAutoEntrepreneur, nil
		case FiscalRegimeForfait:
			return RegimeIFU, nil
		case FiscalRegimeReal:
			return RegimeRealIndividual, nil
		case FiscalRegimeNone, FiscalRegimeUnknown:
			return RegimeUnsupported, fmt.Errorf("%w (personne_physique, %q)", ErrUnsupportedRegime, fiscalRegime)
		}
	case LegalTypeUnknown:
	}
	return RegimeUnsupported, fmt.Errorf("%w (%q, %q)", ErrUnsupportedRegime, legalType, fiscalRegime)
}
