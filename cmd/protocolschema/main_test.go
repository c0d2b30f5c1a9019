package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestBuildSchemaCoversEveryMessage(t *testing.T) {
	schema, err := buildSchema()
	if err != nil {
		t.Fatalf("buildSchema: %v", err)
	}
	for _, name := range []string{"init", "state", "move", "shoot"} {
		if _, ok := schema.Definitions[name]; !ok {
			t.Errorf("missing definition %q", name)
		}
	}
	if len(schema.OneOf) != len(payloads) {
		t.Fatalf("envelopes = %d, want %d", len(schema.OneOf), len(payloads))
	}

	b, err := json.Marshal(schema)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for _, field := range []string{`"sessionId"`, `"bullets"`, `"keys"`, `"angle"`, `"owner"`} {
		if !strings.Contains(string(b), field) {
			t.Errorf("schema missing field %s", field)
		}
	}
}

func TestRunWritesFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	out := filepath.Join(dir, "protocol.schema.json")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(out, []byte("stale"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := run([]string{"-out", out}, &bytes.Buffer{}); err != nil {
		t.Fatalf("run: %v", err)
	}
	b, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !json.Valid(b) {
		t.Fatal("output is not valid JSON")
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Fatalf("dir has %d entries, want only the schema", len(entries))
	}
}

func TestRunToStdout(t *testing.T) {
	var buf bytes.Buffer
	if err := run([]string{"-out", "-"}, &buf); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !json.Valid(buf.Bytes()) || !strings.Contains(buf.String(), "Stickman Arena Wire Protocol") {
		t.Fatalf("stdout = %q", buf.String())
	}
}

func TestRunRequiresOut(t *testing.T) {
	if err := run(nil, &bytes.Buffer{}); err == nil {
		t.Fatal("expected an error without -out")
	}
}
