package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const replPrompt = "gold> "

// newReplCmd reads commands line by line and runs each one through the same
// command tree, so sessions started in the REPL stay available until it exits.
func (c *cli) newReplCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Run commands interactively against in-memory sessions",
		Long: `Starts an interactive prompt. Every line is run as a gold-splitter command
(without the program name), e.g. "session start", "session set purse copper 100".
Words are split like a shell does, so "" passes an empty value.
Type "exit" or "quit" to leave.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.inREPL {
				return fmt.Errorf("already running the REPL")
			}
			c.inREPL = true
			defer func() { c.inREPL = false }()

			root := cmd.Root()
			out := cmd.OutOrStdout()
			errOut := cmd.ErrOrStderr()
			scanner := bufio.NewScanner(cmd.InOrStdin())

			fmt.Fprintln(out, "gold-splitter REPL. Type 'help' for commands, 'exit' to quit.")
			for {
				fmt.Fprint(out, replPrompt)
				if !scanner.Scan() {
					fmt.Fprintln(out)
					break
				}

				line := strings.TrimSpace(scanner.Text())
				if line == "" {
					continue
				}
				if line == "exit" || line == "quit" {
					break
				}

				words, err := splitLine(line)
				if err != nil {
					fmt.Fprintf(errOut, "Error: %v\n", err)
					continue
				}
				root.SetArgs(protectNegativeArgs(root, words))
				if err := root.Execute(); err != nil {
					fmt.Fprintf(errOut, "Error: %v\n", err)
				}
				resetFlags(root)
			}
			return scanner.Err()
		},
	}
}

// resetFlags puts every flag in the tree back to its default so one REPL line
// does not leak flag values into the next.
func resetFlags(cmd *cobra.Command) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if f.Changed {
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		}
	})
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}
