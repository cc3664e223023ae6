package commands

import (
	"errors"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/ugcompta/invoiceflow/internal/domain/tax"
	"github.com/ugcompta/invoiceflow/pkg/fiscal"
)

func newStampCommand() *cobra.Command {
	var amount, payment string

	cmd := &cobra.Command{
		Use:   "stamp",
		Short: "Calcula el droit de timbre de un importe TTC",
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := decimal.NewFromString(amount)
			if err != nil {
				return fmt.Errorf("--amount %q: %w", amount, err)
			}
			if base.IsNegative() {
				return errors.New("--amount no puede ser negativo")
			}
			if !fiscal.IsPaymentMethod(payment) {
				return fmt.Errorf("--payment %q desconocido", payment)
			}
			return runStamp(cmd.OutOrStdout(), base, payment)
		},
	}

	cmd.Flags().StringVar(&amount, "amount", "", "importe TTC antes de timbre, en DA (requerido)")
	cmd.Flags().StringVar(&payment, "payment", fiscal.PaymentCash, "modo de pago: cash, cheque, transfer o card")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func runStamp(w io.Writer, base decimal.Decimal, payment string) error {
	schedule := tax.DefaultStampSchedule
	stamp := decimal.Zero
	rate := decimal.Zero
	if payment == fiscal.PaymentCash {
		rate = schedule.RateFor(base)
		stamp = schedule.Compute(base)
	}
	_, err := fmt.Fprintf(w, "base:  %s\ntasa:  %s%%\ntimbre: %s\ntotal: %s\n",
		fiscal.FormatMoney(base), rate.String(), fiscal.FormatMoney(stamp), fiscal.FormatMoney(base.Add(stamp)))
	return err
}
