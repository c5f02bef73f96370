package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"gold-splitter/app"
	"gold-splitter/domain"
	"gold-splitter/events"
)

func (c *cli) newHistoryCmd() *cobra.Command {
	var (
		skip  int
		limit int
	)

	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Show the events recorded for the active session",
		Long:  `Lists the events of the active session in order, with optional pagination.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := c.requireSession()
			if err != nil {
				return err
			}
			if skip < 0 {
				return fmt.Errorf("skip value cannot be negative")
			}
			if limit < 0 {
				return fmt.Errorf("limit value cannot be negative")
			}
			if !cmd.Flags().Changed("limit") {
				limit = c.cfg.HistoryLimit
			}

			history, err := c.service.GetHistory(app.GetHistoryQuery{SessionID: id, Skip: skip, Limit: limit})
			if err != nil {
				return fmt.Errorf("failed to get history: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(history) == 0 {
				fmt.Fprintf(out, "No events past %d for session '%s'.\n", skip, id)
				return nil
			}

			fmt.Fprintf(out, "History for Session '%s':\n", id)
			fmt.Fprintln(out, "--------------------------------------------------")
			for i, event := range history {
				fmt.Fprintf(out, "Event %d:\n", skip+i+1)
				printEventDetails(out, event)
				fmt.Fprintln(out, "--------------------------------------------------")
			}
			return nil
		},
	}

	historyCmd.Flags().IntVar(&skip, "skip", 0, "Number of events to skip")
	historyCmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of events to show (0 for no limit)")
	return historyCmd
}

// printEventDetails writes the common header of an event followed by the
// fields of its concrete type.
func printEventDetails(w io.Writer, event events.Event) {
	base := event.GetBase()
	fmt.Fprintf(w, "  Type:      %s\n", base.Type)
	fmt.Fprintf(w, "  EventID:   %s\n", base.EventID.String())
	fmt.Fprintf(w, "  Version:   %d\n", base.Version)
	fmt.Fprintf(w, "  Timestamp: %s\n", base.Timestamp.Format(time.RFC3339))

	switch e := event.(type) {
	case events.SessionStartedEvent:
		fmt.Fprintln(w, "  Details:")
		fmt.Fprintf(w, "    Mode:    %s\n", e.Mode)
		fmt.Fprintf(w, "    Parties: %d\n", e.Parties)
	case events.CoinsSetEvent:
		fmt.Fprintln(w, "  Details:")
		fmt.Fprintf(w, "    %s %s: %d\n", e.Target, e.Denomination.Label(), e.Count)
	case events.ModeSelectedEvent:
		fmt.Fprintln(w, "  Details:")
		fmt.Fprintf(w, "    Mode: %s\n", e.Mode)
	case events.PartiesSetEvent:
		fmt.Fprintln(w, "  Details:")
		fmt.Fprintf(w, "    Parties: %d\n", e.Parties)
	case events.OperandCommittedEvent:
		purse := domain.NewAmount(e.Platinum, e.Gold, e.Silver, e.Copper)
		fmt.Fprintln(w, "  Details:")
		fmt.Fprintf(w, "    Mode:  %s\n", e.Mode)
		fmt.Fprintf(w, "    Purse: %s\n", purse)
	default:
		fmt.Fprintln(w, "  Details (Raw JSON):")
		jsonData, err := json.MarshalIndent(event, "    ", "  ")
		if err != nil {
			fmt.Fprintf(w, "    Error marshalling event: %v\n", err)
		} else {
			fmt.Fprintf(w, "    %s\n", string(jsonData))
		}
	}
}
