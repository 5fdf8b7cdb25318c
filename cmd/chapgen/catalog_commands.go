package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Mastsam10/platform-sub000/internal/chapters"
)

func newBooksCommand(colorFor func(*cobra.Command) bool) *cobra.Command {
	var testament string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "books",
		Short: "List the books of the canon and their aliases",
		RunE: func(cmd *cobra.Command, args []string) error {
			books, err := filterBooks(testament)
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd, books)
			}

			rows := make([][]string, len(books))
			for i, b := range books {
				rows[i] = []string{
					strconv.Itoa(b.Order),
					b.Name,
					string(b.Testament),
					strconv.Itoa(b.Chapters),
					strings.Join(b.Aliases, ", "),
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"#", "Book", "Testament", "Chapters", "Aliases"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignLeft},
				colorFor(cmd),
			))
			return nil
		},
	}

	cmd.Flags().StringVar(&testament, "testament", "", "Only list OT or NT books")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print books as JSON")
	return cmd
}

func filterBooks(testament string) ([]chapters.Book, error) {
	all := chapters.Books()
	if testament == "" {
		return all, nil
	}

	want := chapters.Testament(strings.ToUpper(testament))
	if want != chapters.OldTestament && want != chapters.NewTestament {
		return nil, fmt.Errorf("invalid --testament %q (must be OT or NT)", testament)
	}
	out := make([]chapters.Book, 0, len(all))
	for _, b := range all {
		if b.Testament == want {
			out = append(out, b)
		}
	}
	return out, nil
}

func newTopicsCommand(colorFor func(*cobra.Command) bool) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "topics",
		Short: "List the topic vocabulary and its keywords",
		RunE: func(cmd *cobra.Command, args []string) error {
			topics := chapters.Topics()
			if jsonOutput {
				return writeJSON(cmd, topics)
			}

			rows := make([][]string, len(topics))
			for i, t := range topics {
				rows[i] = []string{t.Name, strings.Join(t.Keywords, ", ")}
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Topic", "Keywords"},
				rows,
				nil,
				colorFor(cmd),
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print topics as JSON")
	return cmd
}
