package main

// findings.go — the diagnostic surface. Every finding carries the exact
// source position of the offending chain or directive and renders as a
// compiler-style "file:line:col: message" line.

import (
	"fmt"
	"go/token"
	"sort"
	"strings"
)

// FindingKind discriminates diagnostics.
type FindingKind int

const (
	// MissingProperties: a resolved chain omits required properties.
	MissingProperties FindingKind = iota
	// ServiceAmbiguous: several services define the operation and the
	// caller must disambiguate with a directive hint.
	ServiceAmbiguous
	// UnknownHintService: the directive names services the knowledge
	// base does not track.
	UnknownHintService
	// BadDirective: the directive itself could not be parsed.
	BadDirective
)

// Finding is one diagnostic, created and discarded within a single run.
type Finding struct {
	Kind       FindingKind
	Pos        token.Pos
	Operation  string
	Service    string
	Missing    []string
	Candidates []string
	Detail     string
}

// Message renders the human-readable diagnostic text.
func (f *Finding) Message(g *Grammar) string {
	switch f.Kind {
	case MissingProperties:
		return fmt.Sprintf("call to `%s` (service `%s`) is missing required properties: %s",
			f.Operation, f.Service, backtickList(f.Missing))
	case ServiceAmbiguous:
		listed := f.Candidates
		suffix := ""
		if len(listed) > g.MaxListedServices {
			listed = listed[:g.MaxListedServices]
			suffix = ", ... (list abbreviated)"
		}
		example := "sqs"
		if len(f.Candidates) > 0 {
			example = f.Candidates[0]
		}
		return fmt.Sprintf("`%s` is defined by multiple services: %s%s. Add a hint to the directive, e.g. %s sdk=%s",
			f.Operation, strings.Join(listed, ", "), suffix, directiveName, example)
	case UnknownHintService:
		return fmt.Sprintf("directive names services the knowledge base does not track: %s", strings.Join(f.Candidates, ", "))
	case BadDirective:
		return f.Detail
	}
	return f.Detail
}

func backtickList(items []string) string {
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = "`" + s + "`"
	}
	return strings.Join(quoted, ", ")
}

// sortFindings orders findings by source position so output is stable
// regardless of analysis order.
func sortFindings(findings []Finding) {
	sort.SliceStable(findings, func(i, j int) bool {
		return findings[i].Pos < findings[j].Pos
	})
}

// printFindings renders all findings against fset, one line each.
func printFindings(fset *token.FileSet, findings []Finding, g *Grammar) {
	for i := range findings {
		f := &findings[i]
		fmt.Printf("%s: %s\n", fset.Position(f.Pos), f.Message(g))
	}
}
