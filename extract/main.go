package main

// sdkcheck-extract walks a root of per-service SDK source trees and writes
// one required-property CSV per service. Extraction is best-effort: a
// service that cannot be parsed is logged and skipped, and the run still
// succeeds. Only a malformed input root or an unwritable output directory
// fails the run.

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"sdkcheck/internal/progress"
	"sdkcheck/kb"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	out := flag.String("out", "kb-csv", "Output directory for per-service CSV files")
	workers := flag.Int("workers", runtime.NumCPU(), "Number of services extracted in parallel")
	verbose := flag.Bool("verbose", false, "Print detailed progress")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: sdkcheck-extract [flags] <sdk-root>\n\n")
		fmt.Fprintf(os.Stderr, "Extracts required-property records from fluent SDK sources. Each\n")
		fmt.Fprintf(os.Stderr, "subdirectory of <sdk-root> is treated as one service package and\n")
		fmt.Fprintf(os.Stderr, "produces <out>/<service>.csv.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		return fmt.Errorf("expected exactly one SDK root directory")
	}
	root := flag.Arg(0)
	entries, err := os.ReadDir(root)
	if err != nil {
		return fmt.Errorf("read SDK root: %w", err)
	}
	if err := os.MkdirAll(*out, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	prog := progress.New(*verbose)
	var written, skipped, records atomic.Int64

	var g errgroup.Group
	g.SetLimit(max(*workers, 1))
	for _, entry := range entries {
		name := entry.Name()
		if !entry.IsDir() || strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") {
			continue
		}
		service := kb.NormalizeName(name)
		dir := filepath.Join(root, name)
		g.Go(func() error {
			recs, err := extractService(service, dir, prog)
			if err != nil {
				prog.Log("%s: skipped: %v", service, err)
				skipped.Add(1)
				return nil
			}
			if len(recs) == 0 {
				prog.Verbose("%s: no builders found", service)
				skipped.Add(1)
				return nil
			}
			if err := writeServiceCSV(filepath.Join(*out, service+".csv"), recs); err != nil {
				return err
			}
			prog.Verbose("%s: %d properties", service, len(recs))
			written.Add(1)
			records.Add(int64(len(recs)))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	prog.Log("Extracted %d records from %d services (%d skipped)",
		records.Load(), written.Load(), skipped.Load())
	return nil
}

func writeServiceCSV(path string, records []kb.PropertyRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := kb.WriteRecords(f, records); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
