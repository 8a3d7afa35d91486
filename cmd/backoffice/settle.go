package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/haulwise/backoffice/internal/core/domain"
	"github.com/haulwise/backoffice/pkg/format"
)

func newSettleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "settle <ledger.json>",
		Short: "Print the settlement totals of a ledger file (- reads stdin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var in io.Reader = cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}
			return settle(in, cmd.OutOrStdout())
		},
	}
}

// settle reads a FeeLedger as JSON and writes its totals.
func settle(r io.Reader, w io.Writer) error {
	var ledger domain.FeeLedger
	if err := json.NewDecoder(r).Decode(&ledger); err != nil {
		return fmt.Errorf("decode ledger: %w", err)
	}
	for i, f := range ledger.Fees {
		if !f.Type.IsKnown() {
			return fmt.Errorf("fee %d: %w %q", i, domain.ErrUnknownFeeType, f.Type)
		}
		if !f.Target.Any() {
			return fmt.Errorf("fee %d: %w", i, domain.ErrFeeWithoutTarget)
		}
	}

	t := ledger.ComputeTotals()
	_, err := fmt.Fprintf(w, "total charge:   %s\ntotal dispatch: %s\nprofit:         %s\nmargin rate:    %s%%\n",
		format.Amount(t.TotalCharge),
		format.Amount(t.TotalDispatch),
		format.Amount(t.Profit),
		t.MarginRate.StringFixed(2),
	)
	return err
}
