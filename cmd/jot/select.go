package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/jot"
)

var selectCmd = &cobra.Command{
	Use:   "select [index|id]",
	Short: "Make a note the current one",
	Long:  `Select loads a note into the editing buffer. The selection is kept in the session draft.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		nb := openNotebook(cmd)
		i, err := resolve(nb, args[0])
		if err != nil {
			fatal("Note not found", err)
		}
		if err := nb.Select(i); err != nil {
			fatal("Failed to select note", err)
		}
		commit(nb, jot.CommitTypeChore, "select "+nb.Current().Title)

		fmt.Printf("Selected %d: %s\n", i, nb.Current().Title)
	},
}

func init() {
	rootCmd.AddCommand(selectCmd)
}
