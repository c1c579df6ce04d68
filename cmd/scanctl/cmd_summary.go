package main

import (
	"fmt"

	"github.com/avvvet/cardscanner-services/internal/scansvc/pricing"
	"github.com/spf13/cobra"
)

var summaryCmd = &cobra.Command{
	Use:   "summary [inventory.csv]",
	Short: "Print the valuation totals of an inventory file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "inventory.csv"
		if len(args) == 1 {
			path = args[0]
		}

		s, err := openSession(cmd.Context(), path, false)
		if err != nil {
			return err
		}

		sum := s.inventory.Summary()
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "cards:    %d (%d valued, %d unvalued)\n", sum.Count, sum.Valued, sum.Unvalued)
		fmt.Fprintf(out, "total:    %s - %s (mid %s)\n", pricing.Money(sum.TotalLow), pricing.Money(sum.TotalHigh), pricing.Money(sum.TotalMid))
		fmt.Fprintf(out, "range:    %s - %s\n", pricing.Money(sum.MinLow), pricing.Money(sum.MaxHigh))
		fmt.Fprintf(out, "average:  %s\n", pricing.Money(sum.AverageMid))
		return nil
	},
}
