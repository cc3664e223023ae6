package fiscal

import (
	"fmt"
	"strings"
	"unicode"
)

// ValidateNIF valida el Numéro d'Identification Fiscale: 15 dígitos (formato clásico)
// o 20 dígitos (NIF biométrico). Se aceptan espacios como separadores.
func ValidateNIF(nif string) error {
	digits, ok := onlyDigits(nif)
	if !ok {
		return fmt.Errorf("fiscal: NIF solo admite dígitos")
	}
	if len(digits) != 15 && len(digits) != 20 {
		return fmt.Errorf("fiscal: NIF debe tener 15 o 20 dígitos, se encontraron %d", len(digits))
	}
	return nil
}

// ValidateNIS valida el Numéro d'Identification Statistique (ONS): 15 dígitos.
func ValidateNIS(nis string) error {
	digits, ok := onlyDigits(nis)
	if !ok {
		return fmt.Errorf("fiscal: NIS solo admite dígitos")
	}
	if len(digits) != 15 {
		return fmt.Errorf("fiscal: NIS debe tener 15 dígitos, se encontraron %d", len(digits))
	}
	return nil
}

// ValidateAI valida el Article d'Imposition: 11 dígitos.
func ValidateAI(ai string) error {
	digits, ok := onlyDigits(ai)
	if !ok {
		return fmt.Errorf("fiscal: AI solo admite dígitos")
	}
	if len(digits) != 11 {
		return fmt.Errorf("fiscal: AI debe tener 11 dígitos, se encontraron %d", len(digits))
	}
	return nil
}

// ValidateRC valida el número de Registre du Commerce (CNRC), ej. "16/00-1234567B19".
// El formato varía por wilaya; solo se exige un código de wilaya y caracteres alfanuméricos.
func ValidateRC(rc string) error {
	rc = strings.TrimSpace(rc)
	if len(rc) < 6 {
		return fmt.Errorf("fiscal: RC demasiado corto")
	}
	if !unicode.IsDigit(rune(rc[0])) || !unicode.IsDigit(rune(rc[1])) {
		return fmt.Errorf("fiscal: RC debe comenzar con el código de wilaya")
	}
	for _, r := range rc {
		if unicode.IsDigit(r) || unicode.IsLetter(r) || r == '/' || r == '-' || r == ' ' {
			continue
		}
		return fmt.Errorf("fiscal: RC contiene el carácter inválido %q", r)
	}
	return nil
}

// Identifiers agrupa los identificadores opcionales de un negocio.
type Identifiers struct {
	RC  string
	NIF string
	AI  string
	NIS string
}

// Validate valida solo los identificadores presentes; los vacíos se omiten.
func (ids Identifiers) Validate() error {
	checks := []struct {
		value string
		fn    func(string) error
	}{
		{ids.RC, ValidateRC},
		{ids.NIF, ValidateNIF},
		{ids.AI, ValidateAI},
		{ids.NIS, ValidateNIS},
	}
	for _, c := range checks {
		if strings.TrimSpace(c.value) == "" {
			continue
		}
		if err := c.fn(c.value); err != nil {
			return err
		}
	}
	return nil
}

func onlyDigits(s string) (string, bool) {
	var b strings.Builder
	for _, r := range s {
		switch {
		case unicode.IsDigit(r):
			b.WriteRune(r)
		case r == ' ':
		default:
			return "", false
		}
	}
	return b.String(), true
}
