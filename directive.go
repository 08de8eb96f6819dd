package main

// directive.go — the annotation surface. A function (or a type, covering
// every method with that receiver) opts into verification with:
//
//	//sdkcheck:required
//	//sdkcheck:required sdk=sqs,s3
//
// The optional sdk= parameter is the classifier's explicit hint. A
// method-level directive takes precedence over its receiver type's.

import (
	"fmt"
	"go/ast"
	"go/token"
	"strings"
)

const directiveName = "//sdkcheck:required"

// Directive is one parsed annotation.
type Directive struct {
	SDKs []string // explicit service hints, normalized; empty means infer
	Pos  token.Pos
}

// Region is one annotated function body, the unit of analysis. Regions
// are independent: no state crosses from one region to the next.
type Region struct {
	Fn        *ast.FuncDecl
	Directive *Directive
}

// parseDirective scans a comment group for the sdkcheck directive.
// Returns (nil, nil) when the group carries none.
func parseDirective(doc *ast.CommentGroup) (*Directive, error) {
	if doc == nil {
		return nil, nil
	}
	for _, c := range doc.List {
		if c.Text != directiveName && !strings.HasPrefix(c.Text, directiveName+" ") {
			continue
		}
		rest := strings.TrimSpace(strings.TrimPrefix(c.Text, directiveName))
		d := &Directive{Pos: c.Pos()}
		if rest == "" {
			return d, nil
		}
		val, ok := strings.CutPrefix(rest, "sdk=")
		if !ok {
			return nil, fmt.Errorf("malformed directive %q: the only supported parameter is sdk=, e.g. %s sdk=sqs", c.Text, directiveName)
		}
		for _, sdk := range strings.Split(val, ",") {
			sdk = strings.TrimSpace(sdk)
			if sdk == "" {
				return nil, fmt.Errorf("malformed directive %q: expected one or more services after sdk=, e.g. sdk=sqs,s3", c.Text)
			}
			d.SDKs = append(d.SDKs, normalizeName(sdk))
		}
		return d, nil
	}
	return nil, nil
}

// collectTypeDirectives gathers type-level directives by type name. The
// caller merges the maps of every file in a package before scanning
// functions: a method may live in a different file than its annotated
// receiver type.
func collectTypeDirectives(file *ast.File) (map[string]*Directive, []Finding) {
	var findings []Finding

	typeDirectives := make(map[string]*Directive)
	for _, decl := range file.Decls {
		gd, ok := decl.(*ast.GenDecl)
		if !ok || gd.Tok != token.TYPE {
			continue
		}
		for _, spec := range gd.Specs {
			ts, ok := spec.(*ast.TypeSpec)
			if !ok {
				continue
			}
			doc := ts.Doc
			if doc == nil && len(gd.Specs) == 1 {
				doc = gd.Doc
			}
			d, err := parseDirective(doc)
			if err != nil {
				findings = append(findings, Finding{Kind: BadDirective, Pos: doc.Pos(), Detail: err.Error()})
				continue
			}
			if d != nil {
				typeDirectives[ts.Name.Name] = d
			}
		}
	}
	return typeDirectives, findings
}

// findRegions collects every annotated function in a file, with method
// fallback to the receiver type's directive. Malformed directives become
// findings at the directive's location; they never abort scanning of the
// rest of the file.
func findRegions(file *ast.File, typeDirectives map[string]*Directive) ([]Region, []Finding) {
	var findings []Finding
	var regions []Region
	for _, decl := range file.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok {
			continue
		}
		d, err := parseDirective(fn.Doc)
		if err != nil {
			findings = append(findings, Finding{Kind: BadDirective, Pos: fn.Doc.Pos(), Detail: err.Error()})
			continue
		}
		if d == nil {
			if name := receiverTypeName(fn); name != "" {
				d = typeDirectives[name]
			}
		}
		if d == nil || fn.Body == nil {
			continue
		}
		regions = append(regions, Region{Fn: fn, Directive: d})
	}
	return regions, findings
}

// receiverTypeName returns the bare receiver type name of a method, or "".
func receiverTypeName(fn *ast.FuncDecl) string {
	if fn.Recv == nil || len(fn.Recv.List) == 0 {
		return ""
	}
	t := fn.Recv.List[0].Type
	if star, ok := t.(*ast.StarExpr); ok {
		t = star.X
	}
	// Generic receivers appear as IndexExpr/IndexListExpr around the name.
	switch e := t.(type) {
	case *ast.Ident:
		return e.Name
	case *ast.IndexExpr:
		if id, ok := e.X.(*ast.Ident); ok {
			return id.Name
		}
	case *ast.IndexListExpr:
		if id, ok := e.X.(*ast.Ident); ok {
			return id.Name
		}
	}
	return ""
}
