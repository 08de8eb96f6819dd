package main

import (
	"go/ast"
	"go/parser"
	"go/token"
	"testing"
)

// parseFunc parses src as a file and returns the first function declaration.
func parseFunc(t *testing.T, src string) (*token.FileSet, *ast.File, *ast.FuncDecl) {
	t.Helper()
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "test.go", src, parser.ParseComments)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	for _, decl := range file.Decls {
		if fn, ok := decl.(*ast.FuncDecl); ok {
			return fset, file, fn
		}
	}
	t.Fatal("no function in source")
	return nil, nil, nil
}

func chainNames(c CallChain) []string {
	names := make([]string, len(c.Calls))
	for i, call := range c.Calls {
		names[i] = call.Name
	}
	return names
}

func TestCollectChains_FluentChain(t *testing.T) {
	_, _, fn := parseFunc(t, `package p
func f(client *sqs.Client) {
	client.SendMessage().QueueUrl(u).MessageBody(b).Send(ctx)
}`)

	chains := collectChains(fn.Body, DefaultGrammar())
	if len(chains) != 1 {
		t.Fatalf("got %d chains, want 1", len(chains))
	}
	want := []string{"SendMessage", "QueueUrl", "MessageBody", "Send"}
	got := chainNames(chains[0])
	if len(got) != len(want) {
		t.Fatalf("segments = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("segment %d = %q, want %q", i, got[i], want[i])
		}
	}
	if id, ok := chains[0].Base.(*ast.Ident); !ok || id.Name != "client" {
		t.Errorf("base = %v, want ident client", chains[0].Base)
	}
}

func TestCollectChains_SelectorReceiver(t *testing.T) {
	_, _, fn := parseFunc(t, `package p
func (h *handler) f() {
	h.sqsClient.SendMessage().QueueUrl(u).Send(ctx)
}`)

	chains := collectChains(fn.Body, DefaultGrammar())
	if len(chains) != 1 {
		t.Fatalf("got %d chains, want 1", len(chains))
	}
	if name := receiverName(chains[0].Base); name != "sqsClient" {
		t.Errorf("receiver name = %q, want sqsClient", name)
	}
}

func TestCollectChains_ConstructorHead(t *testing.T) {
	_, _, fn := parseFunc(t, `package p
func f() {
	sqs.NewClient(cfg).SendMessage().QueueUrl(u).Send(ctx)
}`)

	chains := collectChains(fn.Body, DefaultGrammar())
	if len(chains) != 1 {
		t.Fatalf("got %d chains, want 1", len(chains))
	}
	c := chains[0]
	if _, ok := c.Base.(*ast.CallExpr); !ok {
		t.Fatalf("base should be the constructor call, got %T", c.Base)
	}
	if svc, ok := constructorService(c.Base, DefaultGrammar()); !ok || svc != "sqs" {
		t.Errorf("constructorService = %q/%v, want sqs/true", svc, ok)
	}
}

// Calls inside argument lists are chains of their own, not spine segments.
func TestCollectChains_ArgumentsNotFolded(t *testing.T) {
	_, _, fn := parseFunc(t, `package p
func f(client *sqs.Client) {
	client.SendMessage().QueueUrl(makeURL(region)).Send(ctx)
}`)

	chains := collectChains(fn.Body, DefaultGrammar())
	// makeURL(region) is a free function call and assembles no chain.
	if len(chains) != 1 {
		t.Fatalf("got %d chains, want 1", len(chains))
	}
	got := chainNames(chains[0])
	if len(got) != 3 || got[1] != "QueueUrl" {
		t.Errorf("segments = %v", got)
	}
}

func TestCollectChains_MultipleStatements(t *testing.T) {
	_, _, fn := parseFunc(t, `package p
func f(client *sqs.Client) {
	client.SendMessage().QueueUrl(u).Send(ctx)
	client.ReceiveMessage().QueueUrl(u).Send(ctx)
	log.Printf("done")
}`)

	chains := collectChains(fn.Body, DefaultGrammar())
	if len(chains) != 3 {
		t.Fatalf("got %d chains, want 3 (two builders plus log.Printf)", len(chains))
	}
	if chains[0].Calls[0].Name != "SendMessage" || chains[1].Calls[0].Name != "ReceiveMessage" {
		t.Errorf("chains out of order: %v / %v", chainNames(chains[0]), chainNames(chains[1]))
	}
}

func TestCollectClients_Params(t *testing.T) {
	_, _, fn := parseFunc(t, `package p
func f(ctx context.Context, queueClient *sqs.Client, bucket string, s3c s3.Client) {
}`)

	clients := collectClients(fn, DefaultGrammar())
	if len(clients) != 2 {
		t.Fatalf("got %d clients, want 2: %+v", len(clients), clients)
	}
	if clients[0].Name != "queueClient" || clients[0].Service != "sqs" {
		t.Errorf("first binding = %+v", clients[0])
	}
	if clients[1].Name != "s3c" || clients[1].Service != "s3" {
		t.Errorf("second binding = %+v", clients[1])
	}
}

func TestCollectClients_ConstructorLocals(t *testing.T) {
	_, _, fn := parseFunc(t, `package p
func f(cfg Config) {
	queues := sqs.NewFromConfig(cfg)
	var buckets = s3.NewClient(cfg)
	notAClient := strings.ToUpper("x")
	_ = queues
	_ = buckets
	_ = notAClient
}`)

	clients := collectClients(fn, DefaultGrammar())
	if len(clients) != 2 {
		t.Fatalf("got %d clients, want 2: %+v", len(clients), clients)
	}
	if clients[0].Name != "queues" || clients[0].Service != "sqs" {
		t.Errorf("binding = %+v", clients[0])
	}
	if clients[1].Name != "buckets" || clients[1].Service != "s3" {
		t.Errorf("binding = %+v", clients[1])
	}
}
