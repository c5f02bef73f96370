package cmd

import (
	"fmt"
	"io"

	"gold-splitter/app"
	"gold-splitter/domain"
	"gold-splitter/shared"
)

func printTotals(w io.Writer, heading string, totals domain.Totals) {
	fmt.Fprintf(w, "%s:\n", heading)
	fmt.Fprintf(w, "\t%s Platinum\n", totals.Platinum.String())
	fmt.Fprintf(w, "\t%s Gold\n", totals.Gold.String())
	fmt.Fprintf(w, "\t%s Silver\n", totals.Silver.String())
	fmt.Fprintf(w, "\t%s Copper\n", totals.Copper.String())
}

func printSplit(w io.Writer, split *app.SplitView) {
	fmt.Fprintf(w, "Each of %d parties gets: %s\n", split.Parties, split.Share)
	fmt.Fprintf(w, "Remainder: %s (%d copper)\n", split.Remainder, split.RemainderCopper)
}

func printView(w io.Writer, view *app.SessionView) {
	fmt.Fprintf(w, "Session %s (v%d, mode %s)\n", view.SessionID, view.Version, view.Mode)
	fmt.Fprintf(w, "Purse: %s\n", view.Purse)
	printTotals(w, "In Total", view.PurseTotals)
	fmt.Fprintf(w, "Dispersed: %s\n", view.Dispersed)

	switch view.Mode {
	case shared.ModeDivide:
		if view.Split == nil {
			fmt.Fprintln(w, "No split: set a nonzero party count")
			return
		}
		printSplit(w, view.Split)
	default:
		fmt.Fprintf(w, "Operand: %s\n", view.Operand)
		printTotals(w, "In Operand Total", view.OperandTotals)
		fmt.Fprintf(w, "Out: %s\n", view.Result)
	}
}
