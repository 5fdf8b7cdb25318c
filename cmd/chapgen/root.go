package main

import (
	"encoding/json"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var noColor bool

	rootCmd := &cobra.Command{
		Use:           "chapgen",
		Short:         "Scripture and topic chapter generator",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored table output")

	colorFor := func(cmd *cobra.Command) bool {
		return !noColor && os.Getenv("NO_COLOR") == "" && isTerminal(cmd.OutOrStdout())
	}

	rootCmd.AddCommand(newGenerateCommand(colorFor))
	rootCmd.AddCommand(newBooksCommand(colorFor))
	rootCmd.AddCommand(newTopicsCommand(colorFor))

	return rootCmd
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
