package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/aretw0/jot/pkg/search"
)

var (
	listJSON  bool
	listMatch string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all notes in the vault",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		nb := openNotebook(cmd)
		defer nb.Close(context.Background())

		var results []search.Result
		if listMatch != "" {
			matched, err := search.MatchTitle(listMatch, nb.Notes())
			if err != nil {
				fatal("Invalid --match pattern", err)
			}
			results = matched
		} else {
			for i, n := range nb.Notes() {
				results = append(results, search.Result{Index: i, Note: n})
			}
		}

		if listJSON {
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(results); err != nil {
				fatal("Error encoding JSON", err)
			}
			return
		}

		current := nb.CurrentIndex()
		table := uitable.New()
		table.MaxColWidth = 60
		table.AddRow("", "#", "TITLE", "SUBJECT", "DATE")
		for _, r := range results {
			marker := ""
			if r.Index == current {
				marker = color.GreenString("*")
			}
			table.AddRow(marker, r.Index, color.CyanString(r.Note.Title), r.Note.Subject, r.Note.Date)
		}
		fmt.Println(table)
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	listCmd.Flags().StringVar(&listMatch, "match", "", "Only list notes whose title matches a glob")
}
