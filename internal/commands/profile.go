package commands

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/ugcompta/invoiceflow/internal/domain/entity"
)

// BusinessProfile ficha de un negocio en YAML, la misma forma que el onboarding.
type BusinessProfile struct {
	Name                 string `yaml:"name"`
	LegalType            string `yaml:"legal_type"`
	FiscalRegime         string `yaml:"fiscal_regime"`
	LegalForm            string `yaml:"legal_form,omitempty"`
	Capital              string `yaml:"capital,omitempty"`
	RC                   string `yaml:"rc,omitempty"`
	NIF                  string `yaml:"nif,omitempty"`
	AI                   string `yaml:"ai,omitempty"`
	NIS                  string `yaml:"nis,omitempty"`
	AutoEntrepreneurCard string `yaml:"auto_entrepreneur_card,omitempty"`
	ActivityKind         string `yaml:"activity_kind,omitempty"`
}

// LoadProfile lee una ficha YAML desde disco.
func LoadProfile(path string) (*BusinessProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("leyendo ficha: %w", err)
	}
	return ParseProfile(data)
}

// ParseProfile decodifica una ficha YAML.
func ParseProfile(data []byte) (*BusinessProfile, error) {
	var p BusinessProfile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decodificando ficha: %w", err)
	}
	return &p, nil
}

// Business convierte la ficha en la entidad que consume el clasificador.
func (p *BusinessProfile) Business() (*entity.Business, error) {
	capital := decimal.Zero
	if p.Capital != "" {
		c, err := decimal.NewFromString(p.Capital)
		if err != nil {
			return nil, fmt.Errorf("capital %q: %w", p.Capital, err)
		}
		capital = c
	}
	kind := p.ActivityKind
	if kind == "" {
		kind = entity.ActivityMixed
	}
	return &entity.Business{
		Name:                 p.Name,
		LegalType:            p.LegalType,
		FiscalRegime:         p.FiscalRegime,
		LegalForm:            p.LegalForm,
		Capital:              capital,
		RC:                   p.RC,
		NIF:                  p.NIF,
		AI:                   p.AI,
		NIS:                  p.NIS,
		AutoEntrepreneurCard: p.AutoEntrepreneurCard,
		ActivityKind:         kind,
	}, nil
}
