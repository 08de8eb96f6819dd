// Package kb holds the knowledge base of required builder properties:
// the flat record stream produced by the extractor and the compiled,
// immutable form queried by the call-site checker.
package kb

import "fmt"

// PropertyRecord is one row of the exported knowledge base: whether a
// single property of a single (service, operation) pair is required.
type PropertyRecord struct {
	Service   string
	Operation string
	Property  string
	Required  bool
}

// OperationKey identifies one remote operation's required-property contract.
type OperationKey struct {
	Service   string
	Operation string
}

func (k OperationKey) String() string {
	return fmt.Sprintf("%s/%s", k.Service, k.Operation)
}
