package commands

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/ugcompta/invoiceflow/internal/domain/entity"
	"github.com/ugcompta/invoiceflow/internal/domain/tax"
)

type seedParameter struct {
	code        string
	value       decimal.Decimal
	description string
}

// defaultParameters tasas y baremos por defecto expresados como filas de fiscal_parameters.
func defaultParameters() []seedParameter {
	r, s := tax.DefaultRateTable, tax.DefaultStampSchedule
	return []seedParameter{
		{entity.ParamAEFlatRate, r.AEFlatRate, "Impôt forfaitaire auto-entrepreneur (%)"},
		{entity.ParamIFUGoodsRate, r.IFUGoodsRate, "IFU production et vente de biens (%)"},
		{entity.ParamIFUServicesRate, r.IFUServicesRate, "IFU prestations de services (%)"},
		{entity.ParamMinimumTax, r.MinimumTax, "Minimum d'imposition (DA)"},
		{entity.ParamIBSRate, r.IBSRate, "IBS (%)"},
		{entity.ParamTAPRate, r.TAPRate, "TAP, " + tax.TAPNote},
		{entity.ParamVATReducedRate, r.VATReducedRate, "TVA taux réduit (%)"},
		{entity.ParamVATStandardRate, r.VATStandardRate, "TVA taux normal (%)"},
		{entity.ParamStampExemptUpTo, s.ExemptUpTo, "Timbre: exonéré jusqu'à (DA TTC)"},
		{entity.ParamStampTier1UpTo, s.Tier1UpTo, "Timbre: 1re tranche jusqu'à (DA TTC)"},
		{entity.ParamStampTier2UpTo, s.Tier2UpTo, "Timbre: 2e tranche jusqu'à (DA TTC)"},
		{entity.ParamStampTier1Rate, s.Tier1Rate, "Timbre: taux 1re tranche (%)"},
		{entity.ParamStampTier2Rate, s.Tier2Rate, "Timbre: taux 2e tranche (%)"},
		{entity.ParamStampTier3Rate, s.Tier3Rate, "Timbre: taux au-delà (%)"},
		{entity.ParamStampMinimum, s.Minimum, "Timbre: minimum de perception (DA)"},
		{entity.ParamIBSInstallmentPct, tax.DefaultIBSInstallmentRate, "Acompte provisionnel IBS (% de l'IBS N-1)"},
	}
}

func newSeedParametersCommand() *cobra.Command {
	var out, from string

	cmd := &cobra.Command{
		Use:   "seed-parameters",
		Short: "Genera el SQL que carga las tasas por defecto en fiscal_parameters",
		RunE: func(cmd *cobra.Command, args []string) error {
			effective, err := time.Parse(time.DateOnly, from)
			if err != nil {
				return fmt.Errorf("--from debe ser YYYY-MM-DD: %w", err)
			}
			if out == "" || out == "-" {
				return writeSeedSQL(cmd.OutOrStdout(), effective)
			}
			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("creando %s: %w", out, err)
			}
			defer f.Close()
			if err := writeSeedSQL(f, effective); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "escrito %s\n", out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "-", "archivo SQL de salida (- para stdout)")
	cmd.Flags().StringVar(&from, "from", "2024-01-01", "fecha de entrada en vigor YYYY-MM-DD")

	return cmd
}

// writeSeedSQL escribe un INSERT global (business_id NULL) por parámetro dentro de una transacción.
func writeSeedSQL(w io.Writer, effectiveFrom time.Time) error {
	if _, err := fmt.Fprintf(w, "-- Parámetros fiscales por defecto, vigentes desde %s\nBEGIN;\n",
		effectiveFrom.Format(time.DateOnly)); err != nil {
		return err
	}
	for _, p := range defaultParameters() {
		_, err := fmt.Fprintf(w,
			"INSERT INTO fiscal_parameters (business_id, code, value, effective_from, description) VALUES (NULL, %s, %s, %s, %s);\n",
			quote(p.code), p.value.String(), quote(effectiveFrom.Format(time.DateOnly)), quote(p.description))
		if err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "COMMIT;")
	return err
}

func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
