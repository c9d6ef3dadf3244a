package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/invopop/jsonschema"

	"github.com/RomanSolomatin/2d-platformer-pathfinding/internal/mapfile"
	"github.com/RomanSolomatin/2d-platformer-pathfinding/internal/net/proto"
)

func main() {
	var outPath, target string
	flag.StringVar(&outPath, "out", "", "path to write the JSON schema")
	flag.StringVar(&target, "target", "client", "schema to generate: client or map")
	flag.Parse()

	if outPath == "" {
		fmt.Fprintln(os.Stderr, "--out is required")
		os.Exit(1)
	}

	schema, err := buildSchema(target)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := writeSchema(outPath, schema); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write schema: %v\n", err)
		os.Exit(1)
	}
}

func buildSchema(target string) (*jsonschema.Schema, error) {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: true,
	}
	switch target {
	case "client":
		schema := reflector.Reflect(new(proto.ClientMessage))
		schema.Title = "Navigation client message"
		schema.Description = fmt.Sprintf("Inbound websocket frame, protocol version %d", proto.Version)
		return schema, nil
	case "map":
		schema := reflector.Reflect(new(mapfile.Document))
		schema.Title = "Navigation map file"
		schema.Description = "Collision rows listed top row first; '#' is solid and '.' is open"
		return schema, nil
	default:
		return nil, fmt.Errorf("unknown schema target %q", target)
	}
}

func writeSchema(outPath string, schema *jsonschema.Schema) error {
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("create schema directory: %w", err)
	}

	tmpPath := outPath + ".tmp"
	if err := os.WriteFile(tmpPath, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write temp schema: %w", err)
	}

	if err := os.Rename(tmpPath, outPath); err != nil {
		return fmt.Errorf("replace schema: %w", err)
	}

	return nil
}
