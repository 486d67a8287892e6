package main

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/aretw0/jot/pkg/render"
)

var showHTML bool

var showCmd = &cobra.Command{
	Use:   "show [index|id]",
	Short: "Print a note",
	Long:  `Show prints a note. Without an argument the current buffer is printed.`,
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		nb := openNotebook(cmd)
		defer nb.Close(context.Background())

		n := nb.Current()
		if len(args) == 1 {
			i, err := resolve(nb, args[0])
			if err != nil {
				fatal("Note not found", err)
			}
			n, _ = nb.Get(i)
		}

		if showHTML {
			out, err := render.HTML(n.Content)
			if err != nil {
				fatal("Failed to render note", err)
			}
			fmt.Print(out)
			return
		}

		color.New(color.Bold).Println(n.Title)
		if n.Date != "" {
			color.New(color.Faint).Println(n.Date)
		}
		fmt.Println()
		fmt.Println(n.Content)
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().BoolVar(&showHTML, "html", false, "Render the content as HTML")
}
