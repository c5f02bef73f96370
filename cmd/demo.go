package cmd

import (
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/spf13/cobra"

	"gold-splitter/app"
	"gold-splitter/domain"
	"gold-splitter/shared"
)

func (c *cli) newDemoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Walk through a scripted session",
		Long: `Runs a short scripted session against the in-memory stores: fills a purse,
splits it, adds and removes coins, then prints the session and its history.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runDemo(cmd.OutOrStdout())
		},
	}
}

func (c *cli) runDemo(out io.Writer) error {
	log.Println("Starting demo session...")
	fmt.Fprintln(out, "--- Simulating a Session ---")

	fmt.Fprintln(out, "\n[Step 1] Starting a session...")
	parties := c.cfg.DefaultParties
	id, err := c.service.StartSession(app.StartSessionCommand{Parties: &parties})
	if err != nil {
		return fmt.Errorf("failed to start demo session: %w", err)
	}
	fmt.Fprintf(out, " -> Session ID: %s\n", id)

	fmt.Fprintln(out, "\n[Step 1b] Starting the same session again (should fail)...")
	_, err = c.service.StartSession(app.StartSessionCommand{SessionID: id})
	if !errors.Is(err, domain.ErrSessionExists) {
		return fmt.Errorf("expected ErrSessionExists, got %v", err)
	}
	fmt.Fprintf(out, " -> Failed as expected: %v\n", err)

	fmt.Fprintln(out, "\n[Step 2] Filling the purse with 1234 copper...")
	if err := demoStep(out, "Set purse copper", c.service.SetCoins(app.SetCoinsCommand{
		SessionID: id, Target: shared.TargetPurse, Denomination: shared.Copper, Count: 1234,
	})); err != nil {
		return err
	}
	if err := c.demoView(out, id); err != nil {
		return err
	}

	fmt.Fprintln(out, "\n[Step 3] Splitting between 3 parties...")
	if err := demoStep(out, "Set parties", c.service.SetParties(app.SetPartiesCommand{SessionID: id, Parties: 3})); err != nil {
		return err
	}
	if err := c.demoView(out, id); err != nil {
		return err
	}

	fmt.Fprintln(out, "\n[Step 3b] Committing in divide mode (should fail)...")
	err = c.service.Commit(app.CommitCommand{SessionID: id})
	if !errors.Is(err, domain.ErrNothingToCommit) {
		return fmt.Errorf("expected ErrNothingToCommit, got %v", err)
	}
	fmt.Fprintf(out, " -> Failed as expected: %v\n", err)

	fmt.Fprintln(out, "\n[Step 4] Adding 5 gold...")
	if err := demoStep(out, "Select add mode", c.service.SelectMode(app.SelectModeCommand{SessionID: id, Mode: shared.ModeAdd})); err != nil {
		return err
	}
	if err := demoStep(out, "Set operand gold", c.service.SetCoins(app.SetCoinsCommand{
		SessionID: id, Target: shared.TargetOperand, Denomination: shared.Gold, Count: 5,
	})); err != nil {
		return err
	}
	if err := c.demoView(out, id); err != nil {
		return err
	}
	if err := demoStep(out, "Commit", c.service.Commit(app.CommitCommand{SessionID: id})); err != nil {
		return err
	}

	fmt.Fprintln(out, "\n[Step 5] Removing 3 silver...")
	if err := demoStep(out, "Select subtract mode", c.service.SelectMode(app.SelectModeCommand{SessionID: id, Mode: shared.ModeSubtract})); err != nil {
		return err
	}
	if err := demoStep(out, "Set operand silver", c.service.SetCoins(app.SetCoinsCommand{
		SessionID: id, Target: shared.TargetOperand, Denomination: shared.Silver, Count: 3,
	})); err != nil {
		return err
	}
	if err := demoStep(out, "Commit", c.service.Commit(app.CommitCommand{SessionID: id})); err != nil {
		return err
	}

	fmt.Fprintln(out, "\n[Step 6] Splitting the new purse...")
	if err := demoStep(out, "Select divide mode", c.service.SelectMode(app.SelectModeCommand{SessionID: id, Mode: shared.ModeDivide})); err != nil {
		return err
	}
	if err := c.demoView(out, id); err != nil {
		return err
	}

	fmt.Fprintln(out, "\n[Step 7] Session history...")
	history, err := c.service.GetHistory(app.GetHistoryQuery{SessionID: id})
	if err != nil {
		return fmt.Errorf("failed to get demo history: %w", err)
	}
	for i, event := range history {
		fmt.Fprintf(out, "Event %d:\n", i+1)
		printEventDetails(out, event)
	}

	fmt.Fprintln(out, "\n--- Simulation Complete ---")
	c.activeSession = id
	return nil
}

func demoStep(out io.Writer, operationName string, err error) error {
	if err != nil {
		log.Printf(" -> ERROR during operation '%s': %v", operationName, err)
		return fmt.Errorf("%s: %w", operationName, err)
	}
	fmt.Fprintf(out, " -> Operation '%s' successful.\n", operationName)
	return nil
}

func (c *cli) demoView(out io.Writer, id string) error {
	view, err := c.service.GetView(app.GetViewQuery{SessionID: id})
	if err != nil {
		return fmt.Errorf("failed to get demo view: %w", err)
	}
	printView(out, view)
	return nil
}
