package commands

import (
	"github.com/spf13/cobra"
)

// NewRootCommand crea el comando raíz de taxctl con todos los subcomandos.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "taxctl",
		Short: "Herramientas fiscales de InvoiceFlow: régimen, tasas, timbre y esquema",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		newClassifyCommand(),
		newRatesCommand(),
		newStampCommand(),
		newSeedParametersCommand(),
		newMigrateCommand(),
	)

	return rootCmd
}
