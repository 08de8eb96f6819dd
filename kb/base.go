package kb

import (
	"fmt"
	"sort"
)

// Base is the compiled knowledge base: required-property sets keyed by
// (service, operation), plus an index from operation name to the services
// defining it. A Base is immutable after Build and safe for concurrent
// readers without locking.
type Base struct {
	required map[OperationKey][]string   // canonical (sorted) required set
	optional map[OperationKey]map[string]bool
	index    map[string][]string // operation → sorted services
	services map[string]bool
}

// Build compiles a record stream into a Base. Duplicate
// (service, operation, property) rows with conflicting required flags are
// rejected: the artifact is built once per release, and an inconsistency
// there must fail the knowledge-base build, never a consumer.
func Build(records []PropertyRecord) (*Base, error) {
	flags := make(map[OperationKey]map[string]bool)
	for _, rec := range records {
		key := OperationKey{Service: rec.Service, Operation: rec.Operation}
		props := flags[key]
		if props == nil {
			props = make(map[string]bool)
			flags[key] = props
		}
		if prev, seen := props[rec.Property]; seen && prev != rec.Required {
			return nil, fmt.Errorf("conflicting records for %s: property %q is both required and optional", key, rec.Property)
		}
		props[rec.Property] = rec.Required
	}

	b := &Base{
		required: make(map[OperationKey][]string, len(flags)),
		optional: make(map[OperationKey]map[string]bool, len(flags)),
		index:    make(map[string][]string),
		services: make(map[string]bool),
	}
	for key, props := range flags {
		var req []string
		opt := make(map[string]bool)
		for prop, required := range props {
			if required {
				req = append(req, prop)
			} else {
				opt[prop] = true
			}
		}
		sort.Strings(req)
		b.required[key] = req
		b.optional[key] = opt
		b.index[key.Operation] = append(b.index[key.Operation], key.Service)
		b.services[key.Service] = true
	}
	for op := range b.index {
		sort.Strings(b.index[op])
	}
	return b, nil
}

// RequiredProperties returns the canonical (sorted) required-property set
// for an operation, and whether the operation is known at all. An empty
// set with ok=true means the operation is tracked and requires nothing.
func (b *Base) RequiredProperties(service, operation string) (props []string, ok bool) {
	props, ok = b.required[OperationKey{Service: service, Operation: operation}]
	return props, ok
}

// ServicesDefining returns the sorted set of services that define the
// given operation name, or nil if none do.
func (b *Base) ServicesDefining(operation string) []string {
	return b.index[operation]
}

// HasService reports whether any operation of the named service is tracked.
func (b *Base) HasService(service string) bool {
	return b.services[service]
}

// Services returns all tracked service ids, sorted.
func (b *Base) Services() []string {
	out := make([]string, 0, len(b.services))
	for s := range b.services {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of tracked (service, operation) pairs.
func (b *Base) Len() int {
	return len(b.required)
}
