package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ugcompta/invoiceflow/internal/infrastructure/postgres"
	"github.com/ugcompta/invoiceflow/pkg/config"
)

func newMigrateCommand() *cobra.Command {
	var databaseURL string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Aplica o revierte el esquema embebido",
	}
	cmd.PersistentFlags().StringVar(&databaseURL, "database-url", "", "URL de PostgreSQL (por defecto la de la configuración)")

	open := func() (*postgres.Migrator, error) {
		url := databaseURL
		if url == "" {
			cfg, err := config.Load()
			if err != nil {
				return nil, fmt.Errorf("cargar configuración: %w", err)
			}
			url = cfg.DB.ConnectionString()
		}
		return postgres.NewMigrator(url)
	}

	up := &cobra.Command{
		Use:   "up",
		Short: "Aplica las migraciones pendientes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := open()
			if err != nil {
				return err
			}
			defer m.Close()
			if err := m.Up(); err != nil {
				return err
			}
			return printVersion(cmd, m)
		},
	}

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Revierte migraciones (--steps 0 revierte todas)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := open()
			if err != nil {
				return err
			}
			defer m.Close()
			if err := m.Down(steps); err != nil {
				return err
			}
			return printVersion(cmd, m)
		},
	}
	down.Flags().IntVar(&steps, "steps", 1, "número de migraciones a revertir")

	cmd.AddCommand(up, down)
	return cmd
}

func printVersion(cmd *cobra.Command, m *postgres.Migrator) error {
	v, dirty, err := m.Version()
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "versión del esquema: %d (dirty=%t)\n", v, dirty)
	return nil
}
