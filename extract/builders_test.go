package main

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"sdkcheck/internal/progress"
	"sdkcheck/kb"
)

func writeFixture(t *testing.T, dir, name, src string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
}

const sqsFixture = `package sqs

import "context"

type Client struct{}

func NewFromConfig(cfg Config) *Client { return &Client{} }

func (c *Client) SendMessage() *SendMessageBuilder { return &SendMessageBuilder{} }

type SendMessageBuilder struct {
	queueUrl     string
	messageBody  string
	delaySeconds *int32
}

func (b *SendMessageBuilder) QueueUrl(v string) *SendMessageBuilder { return b }

func (b *SendMessageBuilder) MessageBody(v string) *SendMessageBuilder { return b }

func (b *SendMessageBuilder) DelaySeconds(v int32) *SendMessageBuilder { return b }

func (b *SendMessageBuilder) Send(ctx context.Context) (*SendMessageOutput, error) {
	return nil, nil
}

type SendMessageOutput struct{}
`

func TestExtractService_BuilderShapes(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "api.go", sqsFixture)

	records, err := extractService("sqs", dir, progress.New(false))
	if err != nil {
		t.Fatal(err)
	}
	want := []kb.PropertyRecord{
		{Service: "sqs", Operation: "send_message", Property: "delay_seconds", Required: false},
		{Service: "sqs", Operation: "send_message", Property: "message_body", Required: true},
		{Service: "sqs", Operation: "send_message", Property: "queue_url", Required: true},
	}
	if !reflect.DeepEqual(records, want) {
		t.Errorf("records = %+v, want %+v", records, want)
	}
}

// A setter whose backing field is a pointer is still required when its doc
// carries the generated marker.
func TestExtractService_RequiredDocMarker(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "api.go", `package repl

type Client struct{}

func (c *Client) Replicate() *ReplicateBuilder { return nil }

type ReplicateBuilder struct {
	target *string
	region *string
}

// Target names the destination store.
//
// This property is required.
func (b *ReplicateBuilder) Target(v string) *ReplicateBuilder { return b }

// Region selects a placement, defaulting to the client's.
func (b *ReplicateBuilder) Region(v string) *ReplicateBuilder { return b }
`)

	records, err := extractService("repl", dir, progress.New(false))
	if err != nil {
		t.Fatal(err)
	}
	want := []kb.PropertyRecord{
		{Service: "repl", Operation: "replicate", Property: "region", Required: false},
		{Service: "repl", Operation: "replicate", Property: "target", Required: true},
	}
	if !reflect.DeepEqual(records, want) {
		t.Errorf("records = %+v, want %+v", records, want)
	}
}

// A builder with no operation method on Client contributes nothing, and
// builders can span files.
func TestExtractService_MultipleFiles(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "client.go", `package s3

type Client struct{}

func (c *Client) PutObject() *PutObjectBuilder { return nil }
`)
	writeFixture(t, dir, "put_object.go", `package s3

type PutObjectBuilder struct {
	bucket string
	key    string
}

func (b *PutObjectBuilder) Bucket(v string) *PutObjectBuilder { return b }

func (b *PutObjectBuilder) Key(v string) *PutObjectBuilder { return b }
`)
	writeFixture(t, dir, "orphan.go", `package s3

type OrphanBuilder struct{ id string }

func (b *OrphanBuilder) Id(v string) *OrphanBuilder { return b }
`)

	records, err := extractService("s3", dir, progress.New(false))
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Fatalf("records = %+v, want the two put_object properties", records)
	}
	for _, r := range records {
		if r.Operation != "put_object" || !r.Required {
			t.Errorf("unexpected record %+v", r)
		}
	}
}

// One unparseable file does not fail the service.
func TestExtractService_UnparseableFileSkipped(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "api.go", sqsFixture)
	writeFixture(t, dir, "broken.go", "package sqs\n\nfunc (")

	records, err := extractService("sqs", dir, progress.New(false))
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 3 {
		t.Errorf("got %d records, want 3 despite broken file", len(records))
	}
}

func TestExtractService_Deterministic(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "api.go", sqsFixture)

	first, err := extractService("sqs", dir, progress.New(false))
	if err != nil {
		t.Fatal(err)
	}
	second, err := extractService("sqs", dir, progress.New(false))
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("extraction not deterministic:\n%+v\n%+v", first, second)
	}
}
