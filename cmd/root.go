package cmd

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"gold-splitter/app"
	"gold-splitter/config"
	"gold-splitter/store"
)

// cli holds what the commands share across one process, including every line
// typed into the REPL.
type cli struct {
	cfg           *config.Config
	service       *app.SessionService
	activeSession string
	inREPL        bool
}

// NewRootCmd builds the full command tree with fresh in-memory stores.
func NewRootCmd() *cobra.Command {
	c := &cli{}

	rootCmd := &cobra.Command{
		Use:   "gold-splitter",
		Short: "A calculator for platinum, gold, silver and copper coins",
		Long: `gold-splitter converts piles of coins into the fewest coins, splits them
between parties with the leftover tracked, and adds or removes amounts.

Amounts are written P:G:S:C (platinum:gold:silver:copper). Missing leading
parts count as zero, so "1234" is 1234 copper and "3:0" is 3 silver.
Negative numbers such as "split -100 3" are read as values, not flags; a
"--" before them does the same explicitly.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd.Root().PersistentFlags())
		},
	}

	rootCmd.PersistentFlags().Bool("verbose", false, "Write service logs to stderr")
	rootCmd.PersistentFlags().String("env-file", ".env", "Path to a .env file with GOLD_SPLITTER_* settings")
	rootCmd.PersistentFlags().Int("snapshot-frequency", app.DefaultSnapshotFrequency, "Snapshot a session every N events")
	rootCmd.PersistentFlags().Int64("default-parties", app.DefaultParties, "Party count for new sessions")

	rootCmd.AddCommand(
		newDisperseCmd(),
		newSplitCmd(),
		newCombineCmd("add"),
		newCombineCmd("subtract"),
		newTotalsCmd(),
		c.newSessionCmd(),
		c.newHistoryCmd(),
		c.newReplCmd(),
		c.newDemoCmd(),
	)
	return rootCmd
}

// Execute runs the command tree against os.Args. This is called by main.main().
func Execute() {
	rootCmd := NewRootCmd()
	rootCmd.SetArgs(protectNegativeArgs(rootCmd, os.Args[1:]))
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// setup loads configuration and wires the service once per process.
func (c *cli) setup(flags *pflag.FlagSet) error {
	if c.service != nil {
		return nil
	}

	cfg, err := config.Load(flags)
	if err != nil {
		return err
	}
	c.cfg = cfg

	if cfg.Verbose {
		log.SetOutput(os.Stderr)
		// Ldate | Ltime for date and time, Lshortfile for file:line
		log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	} else {
		log.SetOutput(io.Discard)
	}

	c.service = app.NewSessionService(store.NewInMemoryEventStore(), store.NewInMemorySnapshotStore(), cfg.SnapshotFrequency)
	return nil
}

func (c *cli) requireSession() (string, error) {
	if c.activeSession == "" {
		return "", fmt.Errorf("no active session: run 'session start' first")
	}
	return c.activeSession, nil
}
