package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/jot"
)

var deleteCmd = &cobra.Command{
	Use:   "delete [index|id]",
	Short: "Delete a note",
	Long:  `Delete permanently removes a note. With versioning enabled the removal is committed.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		nb := openNotebook(cmd)
		i, err := resolve(nb, args[0])
		if err != nil {
			fatal("Note not found", err)
		}
		n, _ := nb.Get(i)
		if err := nb.Delete(i); err != nil {
			fatal("Failed to delete note", err)
		}
		commit(nb, jot.CommitTypeChore, "delete "+n.Title)

		fmt.Printf("Note deleted: %s\n", n.ID)
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
