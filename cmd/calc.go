package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"gold-splitter/app"
	"gold-splitter/domain"
	"gold-splitter/shared"
)

func newDisperseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "disperse AMOUNT",
		Short: "Convert an amount into the fewest coins",
		Long: `Prints the total value of AMOUNT in every denomination and the same value
dispersed into as few coins as possible, e.g. "disperse 1234" gives
1 Platinum, 2 Gold, 3 Silver, 4 Copper.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := domain.ParseAmount(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			printTotals(out, "In Total", amount.Totals())
			fmt.Fprintf(out, "Dispersed: %s\n", amount.Disperse())
			return nil
		},
	}
}

func newSplitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "split AMOUNT PARTIES",
		Short: "Divide an amount evenly between parties",
		Long: `Divides AMOUNT between PARTIES and prints each party's share in the fewest
coins, plus whatever could not be split evenly.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := domain.ParseAmount(args[0])
			if err != nil {
				return err
			}
			parties, err := shared.ParseCount(args[1])
			if err != nil {
				return fmt.Errorf("invalid party count: %w", err)
			}
			split, err := app.BuildSplit(amount, parties)
			if err != nil {
				return fmt.Errorf("cannot split %s between %d parties: %w", amount, parties, err)
			}
			printSplit(cmd.OutOrStdout(), split)
			return nil
		},
	}
}

// newCombineCmd builds the add and subtract commands, which differ only in the operation.
func newCombineCmd(op string) *cobra.Command {
	combine := domain.Amount.Add
	short := "Add two amounts"
	if op == "subtract" {
		combine = domain.Amount.Subtract
		short = "Subtract the second amount from the first"
	}

	return &cobra.Command{
		Use:   op + " AMOUNT OTHER",
		Short: short,
		Long: short + `. Coins are combined per denomination first; the result is
also shown dispersed into the fewest coins.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := domain.ParseAmount(args[0])
			if err != nil {
				return err
			}
			b, err := domain.ParseAmount(args[1])
			if err != nil {
				return err
			}
			result := combine(a, b)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Result: %s\n", result)
			fmt.Fprintf(out, "Dispersed: %s\n", result.Disperse())
			return nil
		},
	}
}

func newTotalsCmd() *cobra.Command {
	var unit string

	totalsCmd := &cobra.Command{
		Use:   "totals AMOUNT",
		Short: "Show the total value of an amount",
		Long: `Shows the total value of AMOUNT in every denomination, or only in the one
named by --unit.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := domain.ParseAmount(args[0])
			if err != nil {
				return err
			}
			if unit == "" {
				printTotals(cmd.OutOrStdout(), "In Total", amount.Totals())
				return nil
			}
			d, err := shared.ParseDenomination(unit)
			if err != nil {
				return err
			}
			total, err := amount.TotalInExact(d)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", total.String(), d.Label())
			return nil
		},
	}
	totalsCmd.Flags().StringVarP(&unit, "unit", "u", "", "Only show the total in this denomination")
	return totalsCmd
}
