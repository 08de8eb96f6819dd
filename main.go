package main

import (
	"flag"
	"fmt"
	"go/ast"
	"os"
	"path/filepath"

	"sdkcheck/internal/progress"
	"sdkcheck/kb"
)

func main() {
	findings, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}
	if findings > 0 {
		os.Exit(1)
	}
}

// run is the real entry point. Using a separate function keeps deferred
// cleanup working on error paths, unlike os.Exit which skips defers.
// Returns the number of findings; a non-nil error means the run itself
// failed, not that the analyzed code did.
func run() (int, error) {
	kbPath := flag.String("kb", "", "Path to a combined knowledge-base artifact (default: embedded snapshot)")
	configPath := flag.String("config", "", "Path to a YAML matcher grammar file (default: built-in grammar)")
	skipTests := flag.Bool("skip-tests", true, "Skip _test.go files")
	verbose := flag.Bool("verbose", false, "Print detailed progress")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: sdkcheck [flags] <dir> [patterns...]\n\n")
		fmt.Fprintf(os.Stderr, "Verifies annotated builder-chain call sites against the required-property\n")
		fmt.Fprintf(os.Stderr, "knowledge base. Annotate a function or type with %s.\n\n", directiveName)
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		return 0, fmt.Errorf("expected a directory argument")
	}
	dir, err := filepath.Abs(flag.Arg(0))
	if err != nil {
		return 0, fmt.Errorf("invalid dir: %w", err)
	}
	patterns := flag.Args()[1:]

	grammar := DefaultGrammar()
	if *configPath != "" {
		if grammar, err = LoadGrammar(*configPath); err != nil {
			return 0, err
		}
	}

	var base *kb.Base
	if *kbPath != "" {
		base, err = kb.LoadBase(*kbPath)
	} else {
		base, err = kb.DefaultBase()
	}
	if err != nil {
		return 0, fmt.Errorf("load knowledge base: %w", err)
	}

	prog := progress.New(*verbose)
	prog.Verbose("Knowledge base: %d operations across %d services", base.Len(), len(base.Services()))

	load, err := loadPackages(dir, patterns, prog)
	if err != nil {
		return 0, err
	}

	// Each annotated region is analyzed independently against the shared,
	// immutable knowledge base; a failure in one never hides another.
	// Files are grouped per package so type-level directives cover methods
	// declared in sibling files.
	var findings []Finding
	for _, pkg := range load.Packages {
		var files []*ast.File
		for i, file := range pkg.Syntax {
			if i < len(pkg.CompiledGoFiles) && shouldSkipFile(pkg.CompiledGoFiles[i], *skipTests) {
				continue
			}
			files = append(files, file)
		}
		findings = append(findings, analyzeFiles(files, pkg.TypesInfo, base, grammar)...)
	}

	sortFindings(findings)
	printFindings(load.Fset, findings, grammar)
	prog.Verbose("Done: %d findings in %d packages", len(findings), len(load.Packages))
	return len(findings), nil
}
