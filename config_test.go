package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultGrammar(t *testing.T) {
	g := DefaultGrammar()
	if !g.IsTerminator("send") {
		t.Error("send should terminate a chain by default")
	}
	if g.IsTerminator("send_message") {
		t.Error("send_message is an operation, not a terminator")
	}
	if !g.IsConstructor("new_from_config") || !g.IsConstructor("new") {
		t.Error("default constructors should include new and new_from_config")
	}
	if g.ClientType != "Client" || g.MaxListedServices != 5 {
		t.Errorf("unexpected defaults: %+v", g)
	}
}

func TestLoadGrammar_PartialOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "grammar.yaml")
	content := "terminators: [send, execute]\nmax_listed_services: 3\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	g, err := LoadGrammar(path)
	if err != nil {
		t.Fatalf("LoadGrammar: %v", err)
	}
	if !g.IsTerminator("execute") || !g.IsTerminator("send") {
		t.Errorf("terminators not overridden: %+v", g.Terminators)
	}
	if g.MaxListedServices != 3 {
		t.Errorf("max_listed_services = %d, want 3", g.MaxListedServices)
	}
	// Unset fields keep defaults.
	if g.ClientType != "Client" || !g.IsConstructor("new_client") {
		t.Errorf("defaults not preserved: %+v", g)
	}
}

func TestLoadGrammar_Missing(t *testing.T) {
	if _, err := LoadGrammar(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("explicitly configured grammar file must exist")
	}
}
