package main

// classify.go — maps a collected chain to a (service, operation) identity.
// The heuristics run in a fixed order and the first decisive signal wins:
// explicit directive hint, then type evidence from the receiver, then
// naming evidence, then global uniqueness of the operation name. The
// classifier is a pure function of its inputs and never guesses: two or
// more surviving candidates is Ambiguous, zero matches is NotAnSdkCall.

import (
	"go/ast"
	"go/types"

	"sdkcheck/kb"
)

// ClassificationKind discriminates the classifier outcome.
type ClassificationKind int

const (
	// NotAnSdkCall means no operation in the knowledge base matches any
	// segment of the chain. Silently skipped: flagging ordinary code as
	// broken is the worse failure mode.
	NotAnSdkCall ClassificationKind = iota
	// AmbiguousService means several services define the operation and
	// no evidence singles one out.
	AmbiguousService
	// ResolvedOperation means the chain maps to exactly one
	// (service, operation) pair.
	ResolvedOperation
)

// Classification is the classifier result for one chain.
type Classification struct {
	Kind       ClassificationKind
	Key        kb.OperationKey // valid when Kind == ResolvedOperation
	Operation  string          // normalized operation id
	Candidates []string        // surviving services when ambiguous
	Setters    []string        // normalized setter names observed in the chain
	Call       MethodCall      // the operation call segment
}

// classify determines the target of one chain. info may be nil when type
// information is unavailable; type evidence is then skipped and the
// remaining heuristics still apply.
func classify(chain CallChain, hints []string, clients []clientBinding, info *types.Info, base *kb.Base, g *Grammar) Classification {
	opIdx := -1
	var op string
	for i, call := range chain.Calls {
		norm := normalizeName(call.Name)
		if g.IsTerminator(norm) {
			continue
		}
		if base.ServicesDefining(norm) != nil {
			opIdx, op = i, norm
			break
		}
	}
	if opIdx < 0 {
		return Classification{Kind: NotAnSdkCall}
	}

	// When the region binds named clients and this chain hangs off some
	// other name, it is probably not an SDK call at all.
	recvName := receiverName(chain.Base)
	if recvName != "" && anyNamed(clients) && lookupBinding(clients, recvName) == nil {
		if _, isConstructor := constructorService(chain.Base, g); !isConstructor {
			return Classification{Kind: NotAnSdkCall}
		}
	}

	result := Classification{
		Operation: op,
		Setters:   chainSetters(chain.Calls, opIdx, base, g),
		Call:      chain.Calls[opIdx],
	}

	candidates := base.ServicesDefining(op)

	// 1. Explicit hint: restrict to the directive's services. A hint that
	// does not cover this operation is ignored rather than trusted.
	if len(hints) > 0 {
		if restricted := intersect(candidates, hints); len(restricted) > 0 {
			candidates = restricted
		}
	}
	if len(candidates) == 1 {
		return resolved(result, candidates[0], op)
	}

	// 2. Type evidence: the receiver's client type names its service package.
	if svc := serviceFromType(chain.Base, info, g); svc != "" && contains(candidates, svc) {
		return resolved(result, svc, op)
	}

	// 3. Naming evidence, strongest first: a binding for the receiver
	// name, a constructor at the head of the chain, the receiver name's
	// own service fragment, then any client binding in the region.
	if b := lookupBinding(clients, recvName); b != nil && contains(candidates, b.Service) {
		return resolved(result, b.Service, op)
	}
	if svc, ok := constructorService(chain.Base, g); ok && contains(candidates, svc) {
		return resolved(result, svc, op)
	}
	if svc := uniqueFragmentMatch(recvName, candidates); svc != "" {
		return resolved(result, svc, op)
	}
	if svc := uniqueClientService(clients, candidates); svc != "" {
		return resolved(result, svc, op)
	}

	// 4. Global uniqueness handled above (len==1); what remains is ambiguous.
	result.Kind = AmbiguousService
	result.Candidates = candidates
	return result
}

func resolved(c Classification, service, op string) Classification {
	c.Kind = ResolvedOperation
	c.Key = kb.OperationKey{Service: service, Operation: op}
	return c
}

// chainSetters returns the normalized names following the operation call,
// up to a terminator or the start of another recognized operation.
func chainSetters(calls []MethodCall, opIdx int, base *kb.Base, g *Grammar) []string {
	var setters []string
	for _, call := range calls[opIdx+1:] {
		norm := normalizeName(call.Name)
		if g.IsTerminator(norm) || base.ServicesDefining(norm) != nil {
			break
		}
		setters = append(setters, norm)
	}
	return setters
}

// serviceFromType resolves the receiver expression's static type to a
// service id: a named client type declared in a service package.
func serviceFromType(base ast.Expr, info *types.Info, g *Grammar) string {
	if info == nil {
		return ""
	}
	typ := info.TypeOf(base)
	if typ == nil {
		return ""
	}
	if ptr, ok := typ.(*types.Pointer); ok {
		typ = ptr.Elem()
	}
	named, ok := types.Unalias(typ).(*types.Named)
	if !ok {
		return ""
	}
	obj := named.Obj()
	if obj == nil || obj.Pkg() == nil || obj.Name() != g.ClientType {
		return ""
	}
	return normalizeName(obj.Pkg().Name())
}

func anyNamed(clients []clientBinding) bool {
	for _, c := range clients {
		if c.Name != "" {
			return true
		}
	}
	return false
}

func lookupBinding(clients []clientBinding, name string) *clientBinding {
	if name == "" {
		return nil
	}
	for i, c := range clients {
		if c.Name == name && c.Service != "" {
			return &clients[i]
		}
	}
	return nil
}

// uniqueFragmentMatch returns the single candidate the receiver name's
// fragment identifies, or "" when none or several match.
func uniqueFragmentMatch(recvName string, candidates []string) string {
	frag := clientFragment(recvName)
	var match string
	for _, svc := range candidates {
		if fragmentMatches(frag, svc) {
			if match != "" {
				return ""
			}
			match = svc
		}
	}
	return match
}

// uniqueClientService returns the single candidate service any client in
// the region is bound to, or "" when none or several candidates qualify.
func uniqueClientService(clients []clientBinding, candidates []string) string {
	var match string
	for _, c := range clients {
		if c.Service == "" || !contains(candidates, c.Service) {
			continue
		}
		if match != "" && match != c.Service {
			return ""
		}
		match = c.Service
	}
	return match
}

func intersect(a, b []string) []string {
	var out []string
	for _, x := range a {
		if contains(b, x) {
			out = append(out, x)
		}
	}
	return out
}

func contains(list []string, s string) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}
