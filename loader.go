package main

import (
	"fmt"
	"go/token"
	"path/filepath"
	"strings"

	"golang.org/x/tools/go/packages"

	"sdkcheck/internal/progress"
)

// LoadResult holds the loaded caller packages.
type LoadResult struct {
	Packages []*packages.Package
	Fset     *token.FileSet
}

// loadPackages loads the caller code under analysis. Type information is
// requested but packages with type errors are kept: classification then
// degrades to syntax-only evidence, which is still useful and matches the
// best-effort stance of the whole pass.
func loadPackages(dir string, patterns []string, prog *progress.Progress) (*LoadResult, error) {
	if len(patterns) == 0 {
		patterns = []string{"./..."}
	}
	prog.Verbose("Loading %v in %s", patterns, dir)

	fset := token.NewFileSet()
	cfg := &packages.Config{
		Mode: packages.NeedName |
			packages.NeedFiles |
			packages.NeedCompiledGoFiles |
			packages.NeedImports |
			packages.NeedDeps |
			packages.NeedTypes |
			packages.NeedSyntax |
			packages.NeedTypesInfo,
		Dir:   dir,
		Fset:  fset,
		Tests: false,
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("packages.Load: %w", err)
	}
	if len(pkgs) == 0 {
		return nil, fmt.Errorf("no packages matched %v", patterns)
	}

	var errCount int
	for _, pkg := range pkgs {
		if len(pkg.Errors) > 0 {
			errCount++
			prog.Verbose("  warning: %s has %d errors: %v", pkg.PkgPath, len(pkg.Errors), pkg.Errors[0])
		}
	}
	prog.Verbose("Loaded %d packages", len(pkgs))
	if errCount > 0 {
		prog.Log("%d packages had load errors, continuing with syntax-only evidence for them", errCount)
	}
	return &LoadResult{Packages: pkgs, Fset: fset}, nil
}

// shouldSkipFile excludes generated and, optionally, test files.
func shouldSkipFile(path string, skipTests bool) bool {
	base := filepath.Base(path)
	if skipTests && strings.HasSuffix(base, "_test.go") {
		return true
	}
	return strings.HasSuffix(base, ".pb.go")
}
