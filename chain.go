package main

// chain.go — the chain collector. It assembles linear builder chains
// (receiver expression, then a run of method calls) purely syntactically;
// deciding which service and operation a chain targets is the classifier's
// job. Chains split across intermediate variables, or setters called under
// control flow, are deliberately not assembled: the matcher is best-effort
// and prefers silence over guessing.

import (
	"go/ast"
	"go/token"
)

// MethodCall is one segment of a chain: a method name with its call site.
type MethodCall struct {
	Name string
	Args int
	Pos  token.Pos
}

// CallChain is one linear chain, discarded after its region is verified.
type CallChain struct {
	Base  ast.Expr     // the receiver expression at the head of the chain
	Calls []MethodCall // every segment, in source order
	Pos   token.Pos
	End   token.Pos
}

// collectChains finds every linear method chain under root. Only the
// outermost call of a chain starts one; calls on the receiver spine are
// folded into it, while calls inside argument lists are visited normally
// and may start chains of their own.
func collectChains(root ast.Node, g *Grammar) []CallChain {
	var chains []CallChain
	spine := make(map[*ast.CallExpr]bool)

	ast.Inspect(root, func(n ast.Node) bool {
		call, ok := n.(*ast.CallExpr)
		if !ok || spine[call] {
			return true
		}
		chain, members := unwindChain(call, g)
		for _, m := range members {
			spine[m] = true
		}
		if chain != nil {
			chains = append(chains, *chain)
		}
		return true
	})
	return chains
}

// unwindChain walks from the outermost call of a chain down to its base
// receiver expression, returning the assembled chain (nil if call is a
// plain function call) and the spine calls consumed along the way.
func unwindChain(outer *ast.CallExpr, g *Grammar) (*CallChain, []*ast.CallExpr) {
	var segments []MethodCall
	var members []*ast.CallExpr
	var base ast.Expr

	cur := outer
	for {
		members = append(members, cur)
		// A recognized constructor heads the chain: pkg.NewClient(cfg) in
		// sqs.NewClient(cfg).SendMessage()… is the base expression, not a
		// segment, even though its Fun is a package-qualified selector.
		if len(segments) > 0 {
			if _, ok := constructorService(cur, g); ok {
				base = cur
				break
			}
		}
		sel, ok := cur.Fun.(*ast.SelectorExpr)
		if !ok {
			if len(segments) == 0 {
				return nil, members // free function call, not a chain
			}
			// The head is itself a call, e.g. newClient().Op()… — keep it
			// as the base expression for type evidence.
			base = cur
			break
		}
		segments = append(segments, MethodCall{
			Name: sel.Sel.Name,
			Args: len(cur.Args),
			Pos:  sel.Sel.Pos(),
		})
		if inner, ok := sel.X.(*ast.CallExpr); ok {
			cur = inner
			continue
		}
		base = sel.X
		break
	}

	// Unwinding visits outermost-first; source order is the reverse.
	for i, j := 0, len(segments)-1; i < j; i, j = i+1, j-1 {
		segments[i], segments[j] = segments[j], segments[i]
	}
	return &CallChain{
		Base:  base,
		Calls: segments,
		Pos:   outer.Pos(),
		End:   outer.End(),
	}, members
}

// clientBinding associates a binding name in the region with the service
// whose client it holds. Service may be empty when only the name is known.
type clientBinding struct {
	Name    string
	Service string
}

// collectClients gathers client evidence from a region: parameters whose
// type is a service package's client type, and locals assigned from a
// recognized client constructor. Mirrors the receiver heuristics the
// classifier tie-breaks with.
func collectClients(fn *ast.FuncDecl, g *Grammar) []clientBinding {
	var clients []clientBinding

	if fn.Type.Params != nil {
		for _, field := range fn.Type.Params.List {
			service, ok := clientTypeService(field.Type, g)
			if !ok {
				continue
			}
			if len(field.Names) == 0 {
				clients = append(clients, clientBinding{Service: service})
				continue
			}
			for _, name := range field.Names {
				clients = append(clients, clientBinding{Name: name.Name, Service: service})
			}
		}
	}

	if fn.Body != nil {
		ast.Inspect(fn.Body, func(n ast.Node) bool {
			switch stmt := n.(type) {
			case *ast.AssignStmt:
				for i, rhs := range stmt.Rhs {
					service, ok := constructorService(rhs, g)
					if !ok || i >= len(stmt.Lhs) {
						continue
					}
					if id, ok := stmt.Lhs[i].(*ast.Ident); ok {
						clients = append(clients, clientBinding{Name: id.Name, Service: service})
					}
				}
			case *ast.ValueSpec:
				for i, rhs := range stmt.Values {
					service, ok := constructorService(rhs, g)
					if !ok || i >= len(stmt.Names) {
						continue
					}
					clients = append(clients, clientBinding{Name: stmt.Names[i].Name, Service: service})
				}
			}
			return true
		})
	}
	return clients
}

// clientTypeService matches a parameter type of the form pkg.Client or
// *pkg.Client, returning the normalized package name as the service, or a
// bare Client type with no service evidence.
func clientTypeService(t ast.Expr, g *Grammar) (service string, ok bool) {
	if star, isStar := t.(*ast.StarExpr); isStar {
		t = star.X
	}
	switch e := t.(type) {
	case *ast.SelectorExpr:
		pkg, isIdent := e.X.(*ast.Ident)
		if isIdent && e.Sel.Name == g.ClientType {
			return normalizeName(pkg.Name), true
		}
	case *ast.Ident:
		if e.Name == g.ClientType {
			return "", true
		}
	}
	return "", false
}

// constructorService matches a client constructor call of the form
// pkg.NewClient(…), returning the normalized package name.
func constructorService(rhs ast.Expr, g *Grammar) (service string, ok bool) {
	call, isCall := rhs.(*ast.CallExpr)
	if !isCall {
		return "", false
	}
	sel, isSel := call.Fun.(*ast.SelectorExpr)
	if !isSel || !g.IsConstructor(normalizeName(sel.Sel.Name)) {
		return "", false
	}
	pkg, isIdent := sel.X.(*ast.Ident)
	if !isIdent {
		return "", false
	}
	return normalizeName(pkg.Name), true
}

// receiverName extracts the binding name a chain is rooted at: the
// identifier itself, the field name of a selector (h.sqsClient → sqsClient),
// or "" when the base is an expression with no usable name.
func receiverName(base ast.Expr) string {
	switch e := base.(type) {
	case *ast.Ident:
		return e.Name
	case *ast.SelectorExpr:
		return e.Sel.Name
	}
	return ""
}
