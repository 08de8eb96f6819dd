package main

// builders.go — syntax-only discovery of fluent builders in one service
// package. An operation is a method on the service's Client type returning
// a pointer to a builder; a setter is a single-parameter method on that
// builder returning the builder itself. A property is required when its
// backing struct field has no pointer wrapper, or when the setter's doc
// carries the generated required marker. No type checking is involved, so
// a service that fails to compile can still be extracted.

import (
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"

	"sdkcheck/internal/progress"
	"sdkcheck/kb"
)

const (
	clientTypeName    = "Client"
	requiredDocMarker = "This property is required."
)

type setter struct {
	name     string
	required bool
}

// servicePackage is the accumulated shape of one service's source tree.
type servicePackage struct {
	// setters by builder type name
	setters map[string][]setter
	// non-pointer struct fields by type name, keyed by canonical id
	plainFields map[string]map[string]bool
	// operation method name → builder type name
	operations map[string]string
}

// extractService parses every Go file directly under dir and derives the
// service's property records. Files that fail to parse are logged and
// skipped; only an unreadable directory is an error.
func extractService(service, dir string, prog *progress.Progress) ([]kb.PropertyRecord, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	sp := &servicePackage{
		setters:     make(map[string][]setter),
		plainFields: make(map[string]map[string]bool),
		operations:  make(map[string]string),
	}
	fset := token.NewFileSet()
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") {
			continue
		}
		path := filepath.Join(dir, name)
		file, err := parser.ParseFile(fset, path, nil, parser.ParseComments)
		if err != nil {
			prog.Log("%s: skipping unparseable file: %v", service, err)
			continue
		}
		sp.addFile(file)
	}

	var records []kb.PropertyRecord
	for op, builder := range sp.operations {
		fields := sp.plainFields[builder]
		for _, s := range sp.setters[builder] {
			prop := kb.NormalizeName(s.name)
			records = append(records, kb.PropertyRecord{
				Service:   service,
				Operation: op,
				Property:  prop,
				Required:  s.required || fields[prop],
			})
		}
	}
	kb.SortRecords(records)
	return records, nil
}

func (sp *servicePackage) addFile(file *ast.File) {
	for _, decl := range file.Decls {
		switch d := decl.(type) {
		case *ast.GenDecl:
			if d.Tok == token.TYPE {
				sp.addTypes(d)
			}
		case *ast.FuncDecl:
			sp.addMethod(d)
		}
	}
}

func (sp *servicePackage) addTypes(gd *ast.GenDecl) {
	for _, spec := range gd.Specs {
		ts, ok := spec.(*ast.TypeSpec)
		if !ok {
			continue
		}
		st, ok := ts.Type.(*ast.StructType)
		if !ok {
			continue
		}
		plain := make(map[string]bool)
		for _, field := range st.Fields.List {
			if _, isPtr := field.Type.(*ast.StarExpr); isPtr {
				continue
			}
			for _, name := range field.Names {
				plain[kb.NormalizeName(name.Name)] = true
			}
		}
		sp.plainFields[ts.Name.Name] = plain
	}
}

func (sp *servicePackage) addMethod(fn *ast.FuncDecl) {
	recv, ok := methodReceiverType(fn)
	if !ok {
		return
	}
	if recv == clientTypeName {
		if builder, ok := singlePointerResult(fn); ok && builder != clientTypeName {
			sp.operations[kb.NormalizeName(fn.Name.Name)] = builder
		}
		return
	}
	// Setter shape: one parameter, returns its own builder.
	if fn.Type.Params == nil || len(fn.Type.Params.List) != 1 || len(fn.Type.Params.List[0].Names) > 1 {
		return
	}
	if result, ok := singlePointerResult(fn); !ok || result != recv {
		return
	}
	sp.setters[recv] = append(sp.setters[recv], setter{
		name:     fn.Name.Name,
		required: hasRequiredMarker(fn.Doc),
	})
}

// methodReceiverType returns the named receiver type of a method,
// dereferencing a pointer receiver.
func methodReceiverType(fn *ast.FuncDecl) (string, bool) {
	if fn.Recv == nil || len(fn.Recv.List) != 1 {
		return "", false
	}
	t := fn.Recv.List[0].Type
	if star, ok := t.(*ast.StarExpr); ok {
		t = star.X
	}
	id, ok := t.(*ast.Ident)
	if !ok {
		return "", false
	}
	return id.Name, true
}

// singlePointerResult returns the named type T when the function's result
// list is exactly (*T).
func singlePointerResult(fn *ast.FuncDecl) (string, bool) {
	results := fn.Type.Results
	if results == nil || len(results.List) != 1 {
		return "", false
	}
	star, ok := results.List[0].Type.(*ast.StarExpr)
	if !ok {
		return "", false
	}
	id, ok := star.X.(*ast.Ident)
	if !ok {
		return "", false
	}
	return id.Name, true
}

func hasRequiredMarker(doc *ast.CommentGroup) bool {
	return doc != nil && strings.Contains(doc.Text(), requiredDocMarker)
}
