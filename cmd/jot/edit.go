package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/jot"
)

var (
	editTitle   string
	editContent string
)

var editCmd = &cobra.Command{
	Use:   "edit [index|id]",
	Short: "Replace a note's title or content",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		nb := openNotebook(cmd)
		i, err := resolve(nb, args[0])
		if err != nil {
			fatal("Note not found", err)
		}

		n, _ := nb.Get(i)
		if cmd.Flags().Changed("title") {
			n.Title = editTitle
		}
		if cmd.Flags().Changed("content") {
			n.Content = editContent
		}
		updated, err := nb.Update(i, n)
		if err != nil {
			fatal("Failed to update note", err)
		}
		commit(nb, jot.CommitTypeFix, "edit "+updated.Title)

		fmt.Printf("Note updated: %s\n", updated.ID)
	},
}

func init() {
	rootCmd.AddCommand(editCmd)
	editCmd.Flags().StringVar(&editTitle, "title", "", "New title")
	editCmd.Flags().StringVar(&editContent, "content", "", "New content")
}
