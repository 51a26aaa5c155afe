// Package render encodes outlines for files, terminals and browsers.
package render

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/Bhavya1904/Adobe-Hackathon/internal/doctree"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed outline.schema.json
var outlineSchemaJSON []byte

var outlineSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("outline.schema.json", bytes.NewReader(outlineSchemaJSON)); err != nil {
		return nil, fmt.Errorf("load outline schema: %w", err)
	}
	schema, err := compiler.Compile("outline.schema.json")
	if err != nil {
		return nil, fmt.Errorf("compile outline schema: %w", err)
	}
	return schema, nil
})

// Validate checks an encoded outline against the output schema.
func Validate(data []byte) error {
	schema, err := outlineSchema()
	if err != nil {
		return err
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("decode outline for validation: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("outline does not match schema: %w", err)
	}
	return nil
}

// EncodeJSON returns the outline as indented JSON. Non-ASCII text is written
// as is. The result is validated against the output schema.
func EncodeJSON(o doctree.Outline) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(o); err != nil {
		return nil, fmt.Errorf("encode outline: %w", err)
	}
	if err := Validate(buf.Bytes()); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// JSON writes the outline to w.
func JSON(w io.Writer, o doctree.Outline) error {
	data, err := EncodeJSON(o)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// WriteFile writes the outline to dir/name and returns the final path. The
// file is written to a temporary name first and renamed into place, so an
// existing output is never left half written.
func WriteFile(dir, name string, o doctree.Outline) (string, error) {
	data, err := EncodeJSON(o)
	if err != nil {
		return "", err
	}

	tmp, err := os.CreateTemp(dir, ".outline-*.tmp")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return "", fmt.Errorf("chmod temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return "", fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("close temp file: %w", err)
	}

	path := filepath.Join(dir, name)
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("rename output: %w", err)
	}
	return path, nil
}
