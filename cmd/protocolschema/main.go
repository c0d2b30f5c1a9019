package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"

	"github.com/iancoleman/orderedmap"
	"github.com/invopop/jsonschema"

	"github.com/solanharrison/stickman-fps-server/internal/net/protocol"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// run parses args and emits the schema. "-out -" writes to stdout.
func run(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("protocolschema", flag.ContinueOnError)
	out := fs.String("out", "", `schema file to write, or "-" for stdout`)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *out == "" {
		return errors.New("-out is required")
	}

	schema, err := buildSchema()
	if err != nil {
		return fmt.Errorf("build schema: %w", err)
	}
	doc, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	doc = append(doc, '\n')

	if *out == "-" {
		_, err = stdout.Write(doc)
		return err
	}
	return replaceFile(*out, doc)
}

// shoot carries no fields; clients may send {} or omit the payload.
type shoot struct{}

// payloads maps every event name to the payload type carried in "p".
var payloads = []struct {
	name string
	typ  reflect.Type
	desc string
}{
	{protocol.MsgInit, reflect.TypeOf(protocol.Init{}), "server -> client, once after connect"},
	{protocol.MsgState, reflect.TypeOf(protocol.State{}), "server -> client, every tick"},
	{protocol.MsgMove, reflect.TypeOf(protocol.Move{}), "client -> server movement intent"},
	{protocol.MsgShoot, reflect.TypeOf(shoot{}), "client -> server fire intent"},
}

func buildSchema() (*jsonschema.Schema, error) {
	reflector := jsonschema.Reflector{
		DoNotReference: true,
	}

	root := &jsonschema.Schema{
		Version:     jsonschema.Version,
		Title:       "Stickman Arena Wire Protocol",
		Description: `Every frame is an envelope {"t": event, "p": payload}.`,
		Definitions: jsonschema.Definitions{},
	}
	for _, p := range payloads {
		s := reflector.ReflectFromType(p.typ)
		if s == nil {
			return nil, fmt.Errorf("reflect %s payload", p.name)
		}
		s.Version = ""
		s.Title = p.name
		s.Description = p.desc
		root.Definitions[p.name] = s

		root.OneOf = append(root.OneOf, envelopeSchema(p.name))
	}
	return root, nil
}

func envelopeSchema(name string) *jsonschema.Schema {
	props := orderedmap.New()
	props.Set("t", &jsonschema.Schema{Type: "string", Enum: []interface{}{name}})
	props.Set("p", &jsonschema.Schema{Ref: "#/$defs/" + name})
	return &jsonschema.Schema{
		Type:       "object",
		Title:      name + " envelope",
		Properties: props,
		Required:   []string{"t"},
	}
}

// replaceFile writes doc next to path and renames it into place, so readers
// never see a half-written schema.
func replaceFile(path string, doc []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	defer os.Remove(tmp.Name()) // no-op after a successful rename

	if _, err := tmp.Write(doc); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp.Name(), err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename to %s: %w", path, err)
	}
	return nil
}
