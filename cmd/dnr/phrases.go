package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/dgallion1/dnrewrite/internal/phrase"
	"github.com/spf13/cobra"
)

var phrasesCmd = &cobra.Command{
	Use:   "phrases",
	Short: "List the phrase table in match order",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		table, err := phrase.LoadFile(phraseFile)
		if err != nil {
			return fmt.Errorf("load phrases: %w", err)
		}
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "PHRASE\tREPLACEMENT")
		for _, e := range table.Entries() {
			fmt.Fprintf(tw, "%s\t%s\n", e.Phrase, e.Replacement)
		}
		return tw.Flush()
	},
}
