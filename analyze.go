package main

// analyze.go — per-region orchestration: collect chains, classify each,
// verify the resolved ones. Regions share only the immutable knowledge
// base, so they are independent and one region's findings never suppress
// another's.

import (
	"go/ast"
	"go/types"

	"sdkcheck/kb"
)

// analyzeRegion verifies one annotated function body and returns its
// findings. info may be nil; the analysis then runs on syntax alone.
func analyzeRegion(region Region, info *types.Info, base *kb.Base, g *Grammar) []Finding {
	var findings []Finding

	hints := region.Directive.SDKs
	if len(hints) > 0 {
		var unknown []string
		for _, sdk := range hints {
			if !base.HasService(sdk) {
				unknown = append(unknown, sdk)
			}
		}
		if len(unknown) > 0 {
			findings = append(findings, Finding{
				Kind:       UnknownHintService,
				Pos:        region.Directive.Pos,
				Candidates: unknown,
			})
			hints = intersect(hints, base.Services())
		}
	}

	clients := collectClients(region.Fn, g)
	for _, chain := range collectChains(region.Fn.Body, g) {
		c := classify(chain, hints, clients, info, base, g)
		switch c.Kind {
		case NotAnSdkCall:
			// Silent skip: misclassifying non-SDK code as broken would be
			// the worse failure.
		case AmbiguousService:
			findings = append(findings, Finding{
				Kind:       ServiceAmbiguous,
				Pos:        c.Call.Pos,
				Operation:  c.Operation,
				Candidates: c.Candidates,
			})
		case ResolvedOperation:
			if f := verify(c, base); f != nil {
				findings = append(findings, *f)
			}
		}
	}
	return findings
}

// analyzeFiles scans one package's files for annotated regions and
// analyzes each. Type-level directives are collected across the whole
// package first: a method routinely lives in a different file than its
// annotated receiver type.
func analyzeFiles(files []*ast.File, info *types.Info, base *kb.Base, g *Grammar) []Finding {
	typeDirectives := make(map[string]*Directive)
	var findings []Finding
	for _, file := range files {
		directives, fs := collectTypeDirectives(file)
		findings = append(findings, fs...)
		for name, d := range directives {
			typeDirectives[name] = d
		}
	}

	for _, file := range files {
		regions, fs := findRegions(file, typeDirectives)
		findings = append(findings, fs...)
		for _, region := range regions {
			findings = append(findings, analyzeRegion(region, info, base, g)...)
		}
	}
	return findings
}

// analyzeFile is the single-file form of analyzeFiles.
func analyzeFile(file *ast.File, info *types.Info, base *kb.Base, g *Grammar) []Finding {
	return analyzeFiles([]*ast.File{file}, info, base, g)
}
