package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"gold-splitter/app"
	"gold-splitter/shared"
)

// newSessionCmd groups the commands that drive a calculator session. Sessions
// live in memory, so they are meant to be used from the REPL.
func (c *cli) newSessionCmd() *cobra.Command {
	sessionCmd := &cobra.Command{
		Use:   "session",
		Short: "Work with a calculator session",
		Long: `A session keeps a purse, an operand to add or remove, the active mode and
a party count, like the panels of a calculator window. Sessions are held in
memory; use them from the REPL.`,
	}

	var parties string
	startCmd := &cobra.Command{
		Use:   "start [ID]",
		Short: "Start a new session and make it active",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n := c.cfg.DefaultParties
			input := app.StartSessionCommand{Parties: &n}
			if len(args) == 1 {
				input.SessionID = args[0]
			}
			if parties != "" {
				parsed, err := shared.ParseCount(parties)
				if err != nil {
					return fmt.Errorf("invalid party count: %w", err)
				}
				n = parsed
			}

			id, err := c.service.StartSession(input)
			if err != nil {
				return fmt.Errorf("failed to start session: %w", err)
			}
			c.activeSession = id
			fmt.Fprintf(cmd.OutOrStdout(), "Session '%s' started.\n", id)
			return nil
		},
	}
	startCmd.Flags().StringVarP(&parties, "parties", "p", "", "Initial party count; 0 starts without a split (defaults to the configured default)")

	setCmd := &cobra.Command{
		Use:   "set TARGET DENOMINATION COUNT",
		Short: "Set one coin count of the purse or the operand",
		Long: `Sets how many coins of DENOMINATION the purse or the operand holds, e.g.
"session set purse gold 12". COUNT may be empty ("") for zero; numbers
outside the 32-bit range are clamped.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := c.requireSession()
			if err != nil {
				return err
			}
			target, err := shared.ParseTarget(args[0])
			if err != nil {
				return err
			}
			denomination, err := shared.ParseDenomination(args[1])
			if err != nil {
				return err
			}
			count, err := shared.ParseCount(args[2])
			if err != nil {
				return err
			}

			err = c.service.SetCoins(app.SetCoinsCommand{SessionID: id, Target: target, Denomination: denomination, Count: count})
			if err != nil {
				return fmt.Errorf("failed to set coins: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Set %s %s to %d.\n", target, denomination.Label(), count)
			return nil
		},
	}

	modeCmd := &cobra.Command{
		Use:   "mode MODE",
		Short: "Switch between the divide, add and subtract panels",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := c.requireSession()
			if err != nil {
				return err
			}
			mode, err := shared.ParseMode(args[0])
			if err != nil {
				return err
			}
			if err := c.service.SelectMode(app.SelectModeCommand{SessionID: id, Mode: mode}); err != nil {
				return fmt.Errorf("failed to select mode: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Mode set to %s.\n", mode)
			return nil
		},
	}

	partiesCmd := &cobra.Command{
		Use:   "parties N",
		Short: "Set how many parties the purse is split between",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := c.requireSession()
			if err != nil {
				return err
			}
			n, err := shared.ParseCount(args[0])
			if err != nil {
				return fmt.Errorf("invalid party count: %w", err)
			}
			if err := c.service.SetParties(app.SetPartiesCommand{SessionID: id, Parties: n}); err != nil {
				return fmt.Errorf("failed to set parties: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Parties set to %d.\n", n)
			return nil
		},
	}

	commitCmd := &cobra.Command{
		Use:   "commit",
		Short: "Replace the purse with the add/subtract result and clear the operand",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := c.requireSession()
			if err != nil {
				return err
			}
			if err := c.service.Commit(app.CommitCommand{SessionID: id}); err != nil {
				return fmt.Errorf("failed to commit: %w", err)
			}
			view, err := c.service.GetView(app.GetViewQuery{SessionID: id})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Committed. Purse is now %s.\n", view.Purse)
			return nil
		},
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show the active session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := c.requireSession()
			if err != nil {
				return err
			}
			view, err := c.service.GetView(app.GetViewQuery{SessionID: id})
			if err != nil {
				return fmt.Errorf("failed to show session: %w", err)
			}
			printView(cmd.OutOrStdout(), view)
			return nil
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List the sessions in this process",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := c.service.ListSessions()
			out := cmd.OutOrStdout()
			if len(ids) == 0 {
				fmt.Fprintln(out, "No sessions.")
				return nil
			}
			for _, id := range ids {
				marker := " "
				if id == c.activeSession {
					marker = "*"
				}
				fmt.Fprintf(out, "%s %s\n", marker, id)
			}
			return nil
		},
	}

	useCmd := &cobra.Command{
		Use:   "use ID",
		Short: "Make an existing session active",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := c.service.GetView(app.GetViewQuery{SessionID: args[0]}); err != nil {
				return err
			}
			c.activeSession = args[0]
			fmt.Fprintf(cmd.OutOrStdout(), "Session '%s' is now active.\n", args[0])
			return nil
		},
	}

	sessionCmd.AddCommand(startCmd, setCmd, modeCmd, partiesCmd, commitCmd, showCmd, listCmd, useCmd)
	return sessionCmd
}
