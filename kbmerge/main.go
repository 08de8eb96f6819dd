package main

// sdkcheck-kbmerge concatenates the per-service CSV files produced by
// sdkcheck-extract into the single combined knowledge-base artifact, after
// validating consistency. Conflicting duplicates are fatal here: shipping a
// knowledge base that disagrees with itself would make the checker's
// verdicts depend on row order. Optionally the merged base is also
// compiled into a SQLite mirror for the inspection server.

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

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
	out := flag.String("out", "kb.csv", "Path of the combined CSV artifact")
	dbPath := flag.String("db", "", "Also write a SQLite mirror to this path")
	verbose := flag.Bool("verbose", false, "Print detailed progress")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: sdkcheck-kbmerge [flags] <csv-dir>\n\n")
		fmt.Fprintf(os.Stderr, "Merges per-service knowledge-base CSVs into one combined artifact,\n")
		fmt.Fprintf(os.Stderr, "rejecting the merge if any (service, operation, property) row appears\n")
		fmt.Fprintf(os.Stderr, "with conflicting required flags.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		return fmt.Errorf("expected exactly one input directory")
	}

	prog := progress.New(*verbose)
	records, base, err := mergeDir(flag.Arg(0), prog)
	if err != nil {
		return err
	}

	f, err := os.Create(*out)
	if err != nil {
		return err
	}
	if err := kb.WriteRecords(f, records); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", *out, err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	prog.Log("Wrote %s: %d records, %d operations, %d services",
		*out, len(records), base.Len(), len(base.Services()))

	if *dbPath != "" {
		if err := WriteDB(*dbPath, records, base, prog); err != nil {
			return err
		}
	}
	return nil
}

// mergeDir reads every CSV directly under dir and validates the combined
// record set. The returned base is the same one the checker would build,
// so a merge that succeeds here cannot fail at load time.
func mergeDir(dir string, prog *progress.Progress) ([]kb.PropertyRecord, *kb.Base, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("read input dir: %w", err)
	}

	var records []kb.PropertyRecord
	var files int
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".csv") {
			continue
		}
		path := filepath.Join(dir, name)
		recs, err := kb.ReadRecordsFile(path)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", path, err)
		}
		prog.Verbose("%s: %d records", name, len(recs))
		records = append(records, recs...)
		files++
	}
	if files == 0 {
		return nil, nil, fmt.Errorf("no CSV files in %s", dir)
	}

	base, err := kb.Build(records)
	if err != nil {
		return nil, nil, fmt.Errorf("merge validation: %w", err)
	}
	kb.SortRecords(records)
	return dedup(records), base, nil
}

// dedup drops exact duplicate rows from a sorted record slice. Conflicting
// duplicates were already rejected by the base build.
func dedup(records []kb.PropertyRecord) []kb.PropertyRecord {
	out := records[:0]
	for i, r := range records {
		if i == 0 || r != records[i-1] {
			out = append(out, r)
		}
	}
	return out
}
