package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/jot"
	"github.com/aretw0/jot/pkg/render"
)

var (
	addTitle   string
	addContent string
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a note",
	Long: `Add appends a new note. Content is read from stdin when --content is "-".
Without --title the first Markdown heading of the content is used.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		content := addContent
		if content == "-" {
			b, err := io.ReadAll(os.Stdin)
			if err != nil {
				fatal("Failed to read stdin", err)
			}
			content = string(b)
		}

		title := addTitle
		if title == "" {
			title = render.Heading(content)
		}

		nb := openNotebook(cmd)
		nb.AddNote()
		if err := nb.EditCurrent(title, content); err != nil {
			fatal("Failed to edit note", err)
		}
		// With auto-create the edit above already appended the note.
		n := nb.Current()
		if nb.CurrentIndex() < 0 {
			submitted, err := nb.Submit()
			if err != nil {
				fatal("Failed to add note", err)
			}
			n = submitted
		}
		commit(nb, jot.CommitTypeFeat, "add "+n.Title)

		fmt.Printf("Note added: %s (%d)\n", n.ID, nb.CurrentIndex())
	},
}

func init() {
	rootCmd.AddCommand(addCmd)
	addCmd.Flags().StringVar(&addTitle, "title", "", "Note title")
	addCmd.Flags().StringVar(&addContent, "content", "", `Note content ("-" reads stdin)`)
}
