package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/aretw0/jot"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a jot vault",
	Long: `Initialize a new vault at the configured path. For the fs adapter this creates
the system directory and, with --versioning, runs 'git init'. For sqlite it creates the schema.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		path, opts := settings(cmd)
		p, err := jot.Init(path, append(opts, jot.WithAutoInit(true))...)
		if err != nil {
			fatal("Failed to initialize vault", err)
		}
		if c, ok := p.(io.Closer); ok {
			c.Close()
		}
		fmt.Println("Initialized empty jot vault in", path)
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
