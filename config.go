package main

// config.go — the matcher grammar. Which method names end a builder chain,
// which constructors produce a client, and how diagnostics are capped are
// data, not code: new SDK conventions should never require a new code path.

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Grammar configures the syntactic matcher.
type Grammar struct {
	// Terminators are normalized names of the generic submit call that
	// ends a builder chain.
	Terminators []string `yaml:"terminators"`
	// Constructors are normalized names of client-producing functions,
	// e.g. sqs.NewClient(cfg).
	Constructors []string `yaml:"constructors"`
	// ClientType is the conventional client type name within each
	// service package.
	ClientType string `yaml:"client_type"`
	// MaxListedServices caps how many candidates an ambiguity diagnostic
	// enumerates before abbreviating.
	MaxListedServices int `yaml:"max_listed_services"`
}

// DefaultGrammar returns the built-in matcher grammar.
func DefaultGrammar() *Grammar {
	return &Grammar{
		Terminators:       []string{"send"},
		Constructors:      []string{"new", "new_client", "new_from_config"},
		ClientType:        "Client",
		MaxListedServices: 5,
	}
}

// LoadGrammar reads a YAML grammar file. Fields left unset fall back to
// the defaults, so a file may override a single knob.
func LoadGrammar(path string) (*Grammar, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read grammar: %w", err)
	}
	g := &Grammar{}
	if err := yaml.Unmarshal(data, g); err != nil {
		return nil, fmt.Errorf("unmarshal %s: %w", path, err)
	}
	def := DefaultGrammar()
	if len(g.Terminators) == 0 {
		g.Terminators = def.Terminators
	}
	if len(g.Constructors) == 0 {
		g.Constructors = def.Constructors
	}
	if g.ClientType == "" {
		g.ClientType = def.ClientType
	}
	if g.MaxListedServices <= 0 {
		g.MaxListedServices = def.MaxListedServices
	}
	return g, nil
}

// IsTerminator reports whether a normalized method name is a submit call.
func (g *Grammar) IsTerminator(normalized string) bool {
	for _, t := range g.Terminators {
		if normalized == t {
			return true
		}
	}
	return false
}

// IsConstructor reports whether a normalized function name produces a client.
func (g *Grammar) IsConstructor(normalized string) bool {
	for _, c := range g.Constructors {
		if normalized == c {
			return true
		}
	}
	return false
}
