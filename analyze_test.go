package main

import (
	"go/ast"
	"testing"
)

// End-to-end over parsed source: regions, chains, classification and
// verification together, with no type information.

func TestAnalyzeFile_MissingProperty(t *testing.T) {
	fset, file, _ := parseFunc(t, `package p

//sdkcheck:required
func publish(client *sqs.Client, body string) {
	client.SendMessage().MessageBody(body).Send(ctx)
}`)

	findings := analyzeFile(file, nil, testBase(t), DefaultGrammar())
	if len(findings) != 1 {
		t.Fatalf("got %d findings, want 1: %+v", len(findings), findings)
	}
	f := findings[0]
	if f.Kind != MissingProperties || f.Service != "sqs" || f.Operation != "send_message" {
		t.Fatalf("finding = %+v", f)
	}
	if len(f.Missing) != 1 || f.Missing[0] != "queue_url" {
		t.Errorf("missing = %v, want [queue_url]", f.Missing)
	}
	if pos := fset.Position(f.Pos); pos.Line != 5 {
		t.Errorf("finding at line %d, want 5", pos.Line)
	}
}

func TestAnalyzeFile_CompleteChainClean(t *testing.T) {
	_, file, _ := parseFunc(t, `package p

//sdkcheck:required
func publish(client *sqs.Client, u, body string) {
	client.SendMessage().QueueUrl(u).MessageBody(body).Send(ctx)
}`)

	if findings := analyzeFile(file, nil, testBase(t), DefaultGrammar()); len(findings) != 0 {
		t.Errorf("unexpected findings: %+v", findings)
	}
}

func TestAnalyzeFile_UnannotatedFunctionIgnored(t *testing.T) {
	_, file, _ := parseFunc(t, `package p

func publish(client *sqs.Client, body string) {
	client.SendMessage().MessageBody(body).Send(ctx)
}`)

	if findings := analyzeFile(file, nil, testBase(t), DefaultGrammar()); len(findings) != 0 {
		t.Errorf("unannotated function must not be analyzed: %+v", findings)
	}
}

func TestAnalyzeFile_AmbiguityThenHintResolves(t *testing.T) {
	base := testBase(t)

	_, ambiguous, _ := parseFunc(t, `package p

//sdkcheck:required
func f(c Messenger) {
	c.SendMessage().MessageBody(b).Send(ctx)
}`)
	findings := analyzeFile(ambiguous, nil, base, DefaultGrammar())
	if len(findings) != 1 || findings[0].Kind != ServiceAmbiguous {
		t.Fatalf("findings = %+v, want one ServiceAmbiguous", findings)
	}
	if got := findings[0].Candidates; len(got) != 2 || got[0] != "mq" || got[1] != "sqs" {
		t.Errorf("candidates = %v, want [mq sqs]", got)
	}

	_, hinted, _ := parseFunc(t, `package p

//sdkcheck:required sdk=sqs
func f(c Messenger) {
	c.SendMessage().QueueUrl(u).MessageBody(b).Send(ctx)
}`)
	if findings := analyzeFile(hinted, nil, base, DefaultGrammar()); len(findings) != 0 {
		t.Errorf("hinted complete chain should be clean: %+v", findings)
	}
}

func TestAnalyzeFile_UnknownHintService(t *testing.T) {
	_, file, _ := parseFunc(t, `package p

//sdkcheck:required sdk=sqs,nosuch
func f(c Messenger) {
	c.SendMessage().QueueUrl(u).MessageBody(b).Send(ctx)
}`)

	findings := analyzeFile(file, nil, testBase(t), DefaultGrammar())
	if len(findings) != 1 {
		t.Fatalf("got %d findings, want 1: %+v", len(findings), findings)
	}
	f := findings[0]
	if f.Kind != UnknownHintService || len(f.Candidates) != 1 || f.Candidates[0] != "nosuch" {
		t.Errorf("finding = %+v", f)
	}
}

// A region with several chains reports every broken one.
func TestAnalyzeFile_MultipleChains(t *testing.T) {
	_, file, _ := parseFunc(t, `package p

//sdkcheck:required
func f(queues *sqs.Client, store *s3.Client) {
	queues.SendMessage().QueueUrl(u).MessageBody(b).Send(ctx)
	store.PutObject().Bucket(bkt).Send(ctx)
	log.Printf("done")
}`)

	findings := analyzeFile(file, nil, testBase(t), DefaultGrammar())
	if len(findings) != 1 {
		t.Fatalf("got %d findings, want 1: %+v", len(findings), findings)
	}
	if f := findings[0]; f.Operation != "put_object" || len(f.Missing) != 1 || f.Missing[0] != "key" {
		t.Errorf("finding = %+v", f)
	}
}

// Type-level directives cover methods, matching the per-method behavior.
func TestAnalyzeFile_TypeDirectiveCoversMethods(t *testing.T) {
	_, file, _ := parseFunc(t, `package p

//sdkcheck:required sdk=sqs
type worker struct {
	client *sqs.Client
}

func (w *worker) publish(body string) {
	w.client.SendMessage().MessageBody(body).Send(ctx)
}`)

	findings := analyzeFile(file, nil, testBase(t), DefaultGrammar())
	if len(findings) != 1 || findings[0].Kind != MissingProperties {
		t.Fatalf("findings = %+v, want one MissingProperties", findings)
	}
	if f := findings[0]; f.Service != "sqs" || f.Missing[0] != "queue_url" {
		t.Errorf("finding = %+v", f)
	}
}

// A type-level directive covers methods declared in sibling files of the
// same package.
func TestAnalyzeFiles_TypeDirectiveInSiblingFile(t *testing.T) {
	_, typesFile, _ := parseFunc(t, `package p

//sdkcheck:required sdk=sqs
type worker struct {
	client *sqs.Client
}

func newWorker() *worker { return &worker{} }`)
	_, methodsFile, _ := parseFunc(t, `package p

func (w *worker) publish(body string) {
	w.client.SendMessage().MessageBody(body).Send(ctx)
}`)

	findings := analyzeFiles([]*ast.File{typesFile, methodsFile}, nil, testBase(t), DefaultGrammar())
	if len(findings) != 1 || findings[0].Kind != MissingProperties {
		t.Fatalf("findings = %+v, want one MissingProperties", findings)
	}
	if f := findings[0]; f.Service != "sqs" || len(f.Missing) != 1 || f.Missing[0] != "queue_url" {
		t.Errorf("finding = %+v", f)
	}

	// Order of the files must not matter.
	reversed := analyzeFiles([]*ast.File{methodsFile, typesFile}, nil, testBase(t), DefaultGrammar())
	if len(reversed) != 1 {
		t.Errorf("reversed file order: findings = %+v", reversed)
	}
}

func TestSortFindings(t *testing.T) {
	findings := []Finding{
		{Kind: MissingProperties, Pos: 30, Operation: "b"},
		{Kind: ServiceAmbiguous, Pos: 10, Operation: "a"},
		{Kind: MissingProperties, Pos: 20, Operation: "c"},
	}
	sortFindings(findings)
	if findings[0].Operation != "a" || findings[1].Operation != "c" || findings[2].Operation != "b" {
		t.Errorf("order = %s %s %s", findings[0].Operation, findings[1].Operation, findings[2].Operation)
	}
}
