package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ugcompta/invoiceflow/internal/domain/tax"
)

type classifyView struct {
	Regime        string          `yaml:"regime"`
	Modules       map[string]bool `yaml:"modules"`
	InvoiceFooter string          `yaml:"invoice_footer"`
	LegalMentions []string        `yaml:"legal_mentions"`
}

type ratesView struct {
	Regime string            `yaml:"regime"`
	Kind   string            `yaml:"kind"`
	Rates  map[string]string `yaml:"rates"`
	Note   string            `yaml:"note,omitempty"`
}

func newClassifyCommand() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Clasifica una ficha de negocio y muestra módulos y pie de factura",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := LoadProfile(file)
			if err != nil {
				return err
			}
			return runClassify(cmd.OutOrStdout(), p)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "ficha YAML del negocio (requerido)")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func runClassify(w io.Writer, p *BusinessProfile) error {
	b, err := p.Business()
	if err != nil {
		return err
	}
	cfg, err := tax.ConfigureTaxModules(b)
	if err != nil {
		return err
	}
	m := cfg.Modules
	return writeYAML(w, classifyView{
		Regime: cfg.Regime.String(),
		Modules: map[string]bool{
			"G50": m.G50, "G12": m.G12, "G12bis": m.G12bis, "IBS": m.IBS,
			"VAT": m.VAT, "WITHHOLDINGS": m.Withholdings, "STAMP": m.Stamp,
		},
		InvoiceFooter: cfg.InvoiceFooter,
		LegalMentions: cfg.LegalMentions,
	})
}

func newRatesCommand() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "rates",
		Short: "Muestra las tasas por defecto aplicables a una ficha de negocio",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := LoadProfile(file)
			if err != nil {
				return err
			}
			return runRates(cmd.OutOrStdout(), p)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "ficha YAML del negocio (requerido)")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

// runRates usa la tabla estática: sin base de datos no hay overrides de fiscal_parameters.
func runRates(w io.Writer, p *BusinessProfile) error {
	regime, err := tax.Classify(p.LegalType, p.FiscalRegime)
	if err != nil {
		return err
	}
	rates := tax.GetApplicableTaxRates(regime)
	view := ratesView{Regime: regime.String(), Kind: string(rates.Kind), Rates: map[string]string{}}
	switch {
	case rates.AutoEntrepreneur != nil:
		view.Rates["flat_rate"] = rates.AutoEntrepreneur.FlatRate.String()
		view.Rates["minimum_tax"] = rates.AutoEntrepreneur.MinimumTax.String()
	case rates.IFU != nil:
		view.Rates["goods_rate"] = rates.IFU.GoodsRate.String()
		view.Rates["services_rate"] = rates.IFU.ServicesRate.String()
		view.Rates["minimum_tax"] = rates.IFU.MinimumTax.String()
	case rates.Real != nil:
		view.Rates["ibs_rate"] = rates.Real.IBSRate.String()
		view.Rates["tap_rate"] = rates.Real.TAPRate.String()
		for i, v := range rates.Real.VATRates {
			view.Rates[fmt.Sprintf("vat_rate_%d", i+1)] = v.String()
		}
		view.Note = rates.Real.TAPNote
	}
	return writeYAML(w, view)
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("codificando salida: %w", err)
	}
	return enc.Close()
}
