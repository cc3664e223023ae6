package tax_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ugcompta/invoiceflow/internal/domain"
	"github.com/ugcompta/invoiceflow/internal/domain/entity"
	"github.com/ugcompta/invoiceflow/internal/domain/tax"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name      string
		legalType string
		regime    string
		want      tax.Regime
	}{
		{"sociedad sin régimen", "societe", "", tax.RegimeCorporate},
		{"sociedad con régimen forfait", "societe", "forfaitaire", tax.RegimeCorporate},
		{"sociedad con régimen desconocido", "societe", "xyz", tax.RegimeCorporate},
		{"auto-entrepreneur por forma", "auto_entrepreneur", "", tax.RegimeAutoEntrepreneur},
		{"auto-entrepreneur con régimen real", "auto_entrepreneur", "reel", tax.RegimeAutoEntrepreneur},
		{"persona física auto-entrepreneur", "personne_physique", "auto_entrepreneur", tax.RegimeAutoEntrepreneur},
		{"persona física forfait", "personne_physique", "forfaitaire", tax.RegimeIFU},
		{"persona física alias IFU", "personne_physique", "IFU", tax.RegimeIFU},
		{"persona física real", "personne_physique", "reel", tax.RegimeRealIndividual},
		{"persona física alias VAT en minúsculas", " Personne_Physique ", "vat", tax.RegimeRealIndividual},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tax.Classify(tc.legalType, tc.regime)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestClassify_CombinacionNoSoportada(t *testing.T) {
	cases := []struct{ legalType, regime string }{
		{"personne_physique", ""},
		{"personne_physique", "otro"},
		{"association", "reel"},
		{"", ""},
	}
	for _, tc := range cases {
		got, err := tax.Classify(tc.legalType, tc.regime)
		require.Error(t, err, "%q/%q", tc.legalType, tc.regime)
		assert.Equal(t, tax.RegimeUnsupported, got)
		assert.True(t, errors.Is(err, tax.ErrUnsupportedRegime))
		assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	}
}

func TestConfigureTaxModules_Sociedad(t *testing.T) {
	for _, regime := range []string{"", "reel", "forfaitaire", "auto_entrepreneur"} {
		cfg, err := tax.ConfigureTaxModules(&entity.Business{LegalType: "societe", FiscalRegime: regime})
		require.NoError(t, err)
		assert.Equal(t, tax.Modules{G50: true, IBS: true, VAT: true, Withholdings: true, Stamp: true}, cfg.Modules, regime)
		assert.False(t, cfg.Modules.G12)
		assert.False(t, cfg.Modules.G12bis)
	}
}

func TestConfigureTaxModules_PieSociedad(t *testing.T) {
	b := &entity.Business{
		LegalType: "societe",
		LegalForm: "SARL",
		Capital:   decimal.NewFromInt(1000000),
		RC:        "16/00-1234567B18",
		NIF:       "000016001234567",
		NIS:       "000116001234567",
	}
	cfg, err := tax.ConfigureTaxModules(b)
	require.NoError(t, err)

	require.Len(t, cfg.LegalMentions, 4)
	assert.Contains(t, cfg.LegalMentions[0], "SARL au capital de 1")
	assert.Contains(t, cfg.LegalMentions[0], "000 DA")
	assert.Equal(t, "RC: 16/00-1234567B18", cfg.LegalMentions[1])
	assert.Equal(t, "NIF: 000016001234567", cfg.LegalMentions[2])
	assert.Equal(t, "NIS: 000116001234567", cfg.LegalMentions[3])
	assert.NotContains(t, cfg.InvoiceFooter, "AI:")
	assert.Equal(t, cfg.LegalMentions[0]+" - RC: 16/00-1234567B18 - NIF: 000016001234567 - NIS: 000116001234567", cfg.InvoiceFooter)
}

func TestConfigureTaxModules_SociedadSinFormaNiCapital(t *testing.T) {
	cfg, err := tax.ConfigureTaxModules(&entity.Business{LegalType: "societe"})
	require.NoError(t, err)
	assert.Equal(t, tax.LabelCompany, cfg.InvoiceFooter)
}

func TestConfigureTaxModules_AutoEntrepreneur(t *testing.T) {
	b := &entity.Business{LegalType: "auto_entrepreneur", AutoEntrepreneurCard: "AE-2024-0001", NIF: "123456789012345"}
	cfg, err := tax.ConfigureTaxModules(b)
	require.NoError(t, err)

	assert.Equal(t, tax.RegimeAutoEntrepreneur, cfg.Regime)
	assert.False(t, cfg.Modules.VAT)
	assert.True(t, cfg.Modules.G12)
	assert.True(t, cfg.Modules.G12bis)
	assert.True(t, cfg.Modules.Stamp)
	assert.Contains(t, cfg.InvoiceFooter, "0.5%")
	assert.Equal(t, tax.FooterAutoEntrepreneur+" - Carte auto-entrepreneur N° AE-2024-0001 - NIF: 123456789012345", cfg.InvoiceFooter)
}

func TestConfigureTaxModules_IFU(t *testing.T) {
	cfg, err := tax.ConfigureTaxModules(&entity.Business{LegalType: "personne_physique", FiscalRegime: "forfaitaire", AI: "16012345678"})
	require.NoError(t, err)

	assert.Equal(t, tax.RegimeIFU, cfg.Regime)
	assert.Contains(t, cfg.InvoiceFooter, "IFU flat-tax regime")
	assert.NotContains(t, cfg.InvoiceFooter, "0.5%")
	assert.Equal(t, []string{tax.FooterIFU, "AI: 16012345678"}, cfg.LegalMentions)
}

func TestConfigureTaxModules_PersonaFisicaReal(t *testing.T) {
	cfg, err := tax.ConfigureTaxModules(&entity.Business{LegalType: "personne_physique", FiscalRegime: "reel"})
	require.NoError(t, err)

	assert.True(t, cfg.Modules.G50)
	assert.True(t, cfg.Modules.IBS)
	assert.True(t, cfg.Modules.VAT)
	assert.True(t, cfg.Modules.Withholdings)
	assert.Equal(t, tax.LabelIndividual, cfg.InvoiceFooter)
}

func TestConfigureTaxModules_NoSoportado(t *testing.T) {
	cfg, err := tax.ConfigureTaxModules(&entity.Business{LegalType: "personne_physique"})
	require.ErrorIs(t, err, tax.ErrUnsupportedRegime)
	assert.Empty(t, cfg.InvoiceFooter)
	assert.Equal(t, tax.Modules{Stamp: true}, cfg.Modules)
}

func TestConfigureTaxModules_Idempotente(t *testing.T) {
	b := &entity.Business{LegalType: "societe", LegalForm: "SPA", Capital: decimal.NewFromInt(5000000), RC: "16/00-999999B20"}
	first, err := tax.ConfigureTaxModules(b)
	require.NoError(t, err)
	second, err := tax.ConfigureTaxModules(b)
	require.NoError(t, err)
	assert.Equal(t, first.InvoiceFooter, second.InvoiceFooter)
	assert.Equal(t, first, second)
}

func TestRegime_MarshalText(t *testing.T) {
	b, err := tax.RegimeIFU.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "ifu", string(b))
	assert.Equal(t, "unsupported", tax.Regime(99).String())
}
