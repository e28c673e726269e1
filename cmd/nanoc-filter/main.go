// Copyright 2026 The Nanoc Authors
// SPDX-License-Identifier: Apache-2.0

// nanoc-filter runs a single named filter over a file or stdin. It is
// a debugging utility for filter authors: no site discovery, no
// compilation rules, no dependency tracking — just one filter applied
// the way the compiler would apply it, with the result on stdout or in
// a file.
//
// Filter arguments are read from a JSONC file (JSON extended with
// comments and trailing commas):
//
//	nanoc-filter --filter markdown page.md
//	nanoc-filter --filter highlight --args highlight.jsonc main.go
//	nanoc-filter --filter gzip --output page.html.gz page.html
//	nanoc-filter --list
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"
	"github.com/tidwall/jsonc"

	"github.com/dv/nanoc/lib/config"
	"github.com/dv/nanoc/lib/content"
	"github.com/dv/nanoc/lib/filter"
	"github.com/dv/nanoc/lib/filters"
	"github.com/dv/nanoc/lib/item"
	"github.com/dv/nanoc/lib/rep"
	"github.com/dv/nanoc/lib/store"
	"github.com/dv/nanoc/lib/version"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var filterName string
	var argsPath string
	var outputPath string
	var configPath string
	var list bool
	var verbose bool

	flagSet := pflag.NewFlagSet("nanoc-filter", pflag.ContinueOnError)
	flagSet.StringVar(&filterName, "filter", "", "name of the filter to run")
	flagSet.StringVar(&argsPath, "args", "", "JSONC file with filter arguments")
	flagSet.StringVar(&outputPath, "output", "", "write the result to this file instead of stdout")
	flagSet.StringVar(&configPath, "config", "", "nanoc.yaml config file (default: NANOC_CONFIG)")
	flagSet.BoolVar(&list, "list", false, "list available filters and exit")
	flagSet.BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	flagSet.BoolP("help", "h", false, "show help")

	if len(os.Args) > 1 && os.Args[1] == "--version" {
		fmt.Printf("nanoc-filter %s\n", version.Info())
		return nil
	}

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			flagSet.PrintDefaults()
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help {
		flagSet.PrintDefaults()
		return nil
	}

	registry := filter.NewRegistry()
	filters.RegisterBuiltins(registry)

	if list {
		for _, name := range registry.Names() {
			fmt.Println(name)
		}
		return nil
	}

	if filterName == "" {
		return fmt.Errorf("--filter is required (try --list)")
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	args, err := loadArgs(argsPath)
	if err != nil {
		return err
	}
	applyFilterDefaults(filterName, args, cfg)

	f, ok := registry.Resolve(filterName)
	if !ok {
		return fmt.Errorf("unknown filter %q (try --list)", filterName)
	}

	inputPath := ""
	if rest := flagSet.Args(); len(rest) == 1 {
		inputPath = rest[0]
	} else if len(rest) > 1 {
		return fmt.Errorf("at most one input file, got %d", len(rest))
	}

	source, identifier, err := readInput(f, inputPath)
	if err != nil {
		return err
	}

	pool, err := store.NewPool(filepath.Join(cfg.Paths.Temp, "nanoc-filter"))
	if err != nil {
		return fmt.Errorf("creating temp pool: %w", err)
	}
	defer pool.Cleanup()

	it := item.New(identifier, source, nil)
	r := rep.New(it, "default", rep.Options{
		Filters: registry,
		Tmp:     pool,
		Logger:  logger,
	})

	if err := r.Filter(filterName, args); err != nil {
		return err
	}
	r.MarkCompiled()

	return writeResult(r, outputPath)
}

// loadConfig loads the explicit --config file, falls back to
// NANOC_CONFIG, and to built-in defaults when neither is set. A filter
// run should work in a bare checkout with no config at all.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	if os.Getenv("NANOC_CONFIG") != "" {
		return config.Load()
	}
	return config.Default(), nil
}

// loadArgs parses a JSONC filter-arguments file. A missing --args flag
// yields an empty (non-nil) argument map so defaults can be applied.
func loadArgs(path string) (filter.Args, error) {
	args := filter.Args{}
	if path == "" {
		return args, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if err := json.Unmarshal(jsonc.ToJSON(data), &args); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return args, nil
}

// applyFilterDefaults fills in configured defaults the user did not
// set explicitly.
func applyFilterDefaults(name string, args filter.Args, cfg *config.Config) {
	if name == "highlight" {
		if _, ok := args["style"]; !ok && cfg.Filters.HighlightStyle != "" {
			args["style"] = cfg.Filters.HighlightStyle
		}
	}
}

// readInput builds the source content for the filter. Textual filters
// read the file (or stdin when no path is given); binary filters
// reference the file in place and refuse stdin.
func readInput(f filter.Filter, path string) (content.Content, item.Identifier, error) {
	if f.InputKind() == content.Binary {
		if path == "" {
			return nil, "", fmt.Errorf("filter %q takes binary input; a file argument is required", f.Name())
		}
		if _, err := os.Stat(path); err != nil {
			return nil, "", fmt.Errorf("input file: %w", err)
		}
		return content.NewBinary(path), item.Identifier("/" + filepath.Base(path)), nil
	}

	if path == "" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, "", fmt.Errorf("reading stdin: %w", err)
		}
		return content.NewTextual(string(data)), "/stdin", nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("input file: %w", err)
	}
	return content.NewTextual(string(data)), item.Identifier("/" + filepath.Base(path)), nil
}

// writeResult emits the filtered content: textual results go to stdout
// unless --output is set, binary results require --output (the bytes
// live in a temp file that is cleaned up on exit).
func writeResult(r *rep.Rep, outputPath string) error {
	if r.Kind() == content.Binary {
		if outputPath == "" {
			return fmt.Errorf("filter produced binary output; --output is required")
		}
		c, err := r.OutputContent(rep.SnapshotLast)
		if err != nil {
			return err
		}
		bin := c.(content.BinaryContent)
		source, err := os.Open(bin.Filename())
		if err != nil {
			return fmt.Errorf("opening filter output: %w", err)
		}
		defer source.Close()

		destination, err := os.Create(outputPath)
		if err != nil {
			return fmt.Errorf("creating %s: %w", outputPath, err)
		}
		if _, err := io.Copy(destination, source); err != nil {
			destination.Close()
			return fmt.Errorf("writing %s: %w", outputPath, err)
		}
		return destination.Close()
	}

	text, err := r.CompiledContent(rep.SnapshotLast)
	if err != nil {
		return err
	}
	if outputPath == "" {
		_, err := os.Stdout.WriteString(text)
		return err
	}
	return os.WriteFile(outputPath, []byte(text), 0o644)
}
