package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/aretw0/jot"
	jotlifecycle "github.com/aretw0/jot/pkg/adapters/lifecycle"
)

var watchPattern string

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow external changes to the notes file",
	Long: `Watch reloads the notebook whenever the notes file changes on disk and prints
the resulting store events. Writes made by jot itself are ignored. Stop with Ctrl+C.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		nb := openNotebook(cmd, jot.WithWatcherErrorHandler(func(err error) {
			slog.Error("watcher error", "error", err)
		}))
		defer nb.Close(context.Background())

		source := jotlifecycle.NewSource(nb, 0)
		if err := source.Start(ctx); err != nil {
			fatal("Failed to start event source", err)
		}

		changes, err := nb.Watch(ctx, watchPattern)
		if err != nil {
			fatal("Failed to watch vault", err)
		}
		fmt.Printf("Watching %d notes. Press Ctrl+C to stop.\n", nb.Len())

		events := source.Events()
		for changes != nil || events != nil {
			select {
			case c, ok := <-changes:
				if !ok {
					changes = nil
					continue
				}
				fmt.Printf("%s %s %s\n", color.YellowString(string(c.Type)), c.Path, time.Unix(c.Timestamp, 0).Format("15:04:05"))
			case e, ok := <-events:
				if !ok {
					events = nil
					continue
				}
				fmt.Printf("  %s\n", color.CyanString(e.String()))
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().StringVar(&watchPattern, "pattern", "", "Glob of files to watch (defaults to the notes file)")
}
