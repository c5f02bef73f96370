package cmd

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/mattn/go-shellwords"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// negativeNumber matches counts and amounts such as -5, -1:2 or -0:0:3.
var negativeNumber = regexp.MustCompile(`^-\d[\d:+-]*$`)

// splitLine turns one REPL line into arguments. Quotes work as in a shell, so
// "" is an empty argument.
func splitLine(line string) ([]string, error) {
	args, err := shellwords.Parse(line)
	if err != nil {
		return nil, fmt.Errorf("cannot parse %q: %w", line, err)
	}
	return args, nil
}

// protectNegativeArgs lets negative numbers through as positional arguments.
// When one is present and the line has no "--" yet, the words before it stay
// in front (they name the command), flags are kept before a "--", and the
// remaining positionals follow it.
func protectNegativeArgs(root *cobra.Command, args []string) []string {
	for _, a := range args {
		if a == "--" {
			return args
		}
	}

	var leading, flags, rest []string
	seenNegative := false
	for i := 0; i < len(args); i++ {
		a := args[i]
		switch {
		case negativeNumber.MatchString(a):
			seenNegative = true
			rest = append(rest, a)
		case strings.HasPrefix(a, "-") && a != "-":
			flags = append(flags, a)
			if !strings.Contains(a, "=") && flagTakesValue(root, a) && i+1 < len(args) {
				i++
				flags = append(flags, args[i])
			}
		case seenNegative:
			rest = append(rest, a)
		default:
			leading = append(leading, a)
		}
	}
	if !seenNegative {
		return args
	}

	out := make([]string, 0, len(args)+1)
	out = append(out, leading...)
	out = append(out, flags...)
	out = append(out, "--")
	return append(out, rest...)
}

// flagTakesValue reports whether token names a flag anywhere in the tree that
// reads the next argument as its value.
func flagTakesValue(root *cobra.Command, token string) bool {
	long := strings.HasPrefix(token, "--")
	name := strings.TrimLeft(token, "-")
	if !long && len(name) != 1 {
		return false
	}

	var found *pflag.Flag
	var walk func(cmd *cobra.Command)
	walk = func(cmd *cobra.Command) {
		for _, set := range []*pflag.FlagSet{cmd.Flags(), cmd.PersistentFlags()} {
			if found != nil {
				return
			}
			if long {
				found = set.Lookup(name)
			} else {
				found = set.ShorthandLookup(name)
			}
		}
		for _, sub := range cmd.Commands() {
			if found != nil {
				return
			}
			walk(sub)
		}
	}
	walk(root)
	return found != nil && found.NoOptDefVal == ""
}
