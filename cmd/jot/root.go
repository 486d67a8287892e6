package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/aretw0/jot"
	"github.com/aretw0/jot/pkg/config"
)

var (
	verbose    bool
	vaultPath  string
	adapter    string
	format     string
	versioning bool
	cfg        *config.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "jot",
	Short: "A small note store with debounced persistence",
	Long: `Jot keeps an ordered collection of titled notes and an editing buffer.
Changes are written in the background once edits go quiet, to a JSON/YAML file,
a key-value directory or a SQLite database.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
		slog.SetDefault(logger)

		loaded, err := config.Load()
		if err != nil {
			return err
		}
		cfg = loaded
		if cfg.Source != "" {
			slog.Debug("config loaded", "file", cfg.Source)
		}
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&vaultPath, "path", "p", "", "Vault path (defaults to config, then the nearest vault root)")
	rootCmd.PersistentFlags().StringVarP(&adapter, "adapter", "a", "", "Storage adapter: fs, kv, sqlite or memory")
	rootCmd.PersistentFlags().StringVar(&format, "format", "", "Notes file format for the fs adapter: json or yaml")
	rootCmd.PersistentFlags().BoolVar(&versioning, "versioning", false, "Commit every save to git (fs adapter)")
}

// settings merges flags over the loaded config.
func settings(cmd *cobra.Command) (path string, opts []jot.Option) {
	c := *cfg
	if vaultPath != "" {
		c.Path = vaultPath
	}
	if adapter != "" {
		c.Adapter = adapter
	}
	if format != "" {
		c.Format = format
	}
	if cmd.Flags().Changed("versioning") {
		c.Versioning = versioning
	}

	path = c.Path
	if vaultPath == "" && c.Adapter == "fs" {
		if root, err := jot.FindVaultRoot(path, c.SystemDir); err == nil {
			path = root
		}
	}

	opts = []jot.Option{
		jot.WithAdapter(c.Adapter),
		jot.WithFormat(c.Format),
		jot.WithDebounce(c.Debounce),
		jot.WithVersioning(c.Versioning),
		jot.WithSystemDir(c.SystemDir),
		jot.WithValidation(c.Validate),
		jot.WithAutoCreate(c.AutoCreate),
		jot.WithLogger(slog.Default()),
	}
	return path, opts
}

// openNotebook opens the configured vault. Commands that mutate pass a change reason to Close.
func openNotebook(cmd *cobra.Command, extra ...jot.Option) *jot.Notebook {
	path, opts := settings(cmd)
	nb, err := jot.New(path, append(opts, extra...)...)
	if err != nil {
		fatal("Failed to open notebook", err)
	}
	return nb
}

// resolve accepts a position or a note ID and returns the note's index.
func resolve(nb *jot.Notebook, ref string) (int, error) {
	if i, err := strconv.Atoi(ref); err == nil {
		if _, err := nb.Get(i); err != nil {
			return -1, err
		}
		return i, nil
	}
	_, i, err := nb.Find(ref)
	return i, err
}

// commit closes the notebook, flushing pending changes under a semantic commit message.
func commit(nb *jot.Notebook, ctype, subject string) {
	reason := jot.FormatChangeReason(ctype, "notes", subject, "")
	if err := nb.Close(jot.WithChangeReason(context.Background(), reason)); err != nil {
		fatal("Failed to save notes", err)
	}
}
