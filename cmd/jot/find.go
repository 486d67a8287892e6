package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/aretw0/jot/pkg/search"
)

var findLimit int

var findCmd = &cobra.Command{
	Use:   "find [query...]",
	Short: "Fuzzy search notes by title and subject",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		nb := openNotebook(cmd)
		defer nb.Close(context.Background())

		results := search.Find(strings.Join(args, " "), nb.Notes())
		if findLimit > 0 && len(results) > findLimit {
			results = results[:findLimit]
		}
		for _, r := range results {
			fmt.Printf("%3d  %s\n", r.Index, highlight(search.Haystack(r.Note), r.Matched))
		}
	},
}

// highlight colors the runes of s starting at the matched byte offsets.
func highlight(s string, matched []int) string {
	hit := make(map[int]bool, len(matched))
	for _, i := range matched {
		hit[i] = true
	}
	bold := color.New(color.FgYellow, color.Bold).SprintFunc()
	var sb strings.Builder
	for i, r := range s {
		if hit[i] {
			sb.WriteString(bold(string(r)))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

func init() {
	rootCmd.AddCommand(findCmd)
	findCmd.Flags().IntVarP(&findLimit, "limit", "n", 10, "Maximum number of results (0 for all)")
}
