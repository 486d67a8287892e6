package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aretw0/jot"
)

func main() {
	count := flag.Int("count", 1000, "Number of notes to add in one burst")
	adapters := flag.String("adapters", "fs,kv,sqlite", "Comma separated adapters to bench")
	debounce := flag.Duration("debounce", 200*time.Millisecond, "Quiet interval before a write")
	keep := flag.Bool("keep", false, "Keep the benchmark vaults after running")
	flag.Parse()

	benchDir, err := os.MkdirTemp("", "jot_bench_")
	if err != nil {
		panic(err)
	}
	defer func() {
		if !*keep {
			os.RemoveAll(benchDir)
		} else {
			fmt.Printf("Keeping bench dir: %s\n", benchDir)
		}
	}()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn}))

	for _, name := range strings.Split(*adapters, ",") {
		name = strings.TrimSpace(name)
		uri := filepath.Join(benchDir, name)
		if name == "sqlite" {
			uri = filepath.Join(uri, "notes.db")
		}
		if err := run(name, uri, *count, *debounce, logger); err != nil {
			fmt.Printf("[%s] failed: %v\n", name, err)
		}
	}
}

func run(adapter, uri string, count int, debounce time.Duration, logger *slog.Logger) error {
	opts := []jot.Option{
		jot.WithAdapter(adapter),
		jot.WithLogger(logger),
		jot.WithDebounce(debounce),
		jot.WithVersioning(false), // measure storage, not git
		jot.WithDevSafety(false),
	}

	nb, err := jot.New(uri, append(opts, jot.WithAutoInit(true))...)
	if err != nil {
		return err
	}

	// Burst: every mutation lands inside one quiet interval.
	start := time.Now()
	for i := 0; i < count; i++ {
		nb.AddNote()
		if err := nb.EditCurrent(fmt.Sprintf("Note %d", i), fmt.Sprintf("# Note %d\nbenchmark body", i)); err != nil {
			return err
		}
		if _, err := nb.Submit(); err != nil {
			return err
		}
	}
	burst := time.Since(start)

	startFlush := time.Now()
	if err := nb.Close(context.Background()); err != nil {
		return err
	}
	flush := time.Since(startFlush)
	fmt.Printf("[%s] burst of %d: %v, flush: %v, writes: %d\n", adapter, count, burst, flush, nb.Writer().Writes())

	startLoad := time.Now()
	again, err := jot.New(uri, opts...)
	if err != nil {
		return err
	}
	defer again.Close(context.Background())
	fmt.Printf("[%s] reload: %v (items: %d)\n", adapter, time.Since(startLoad), again.Len())
	return nil
}
