package tree

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// Decode parses a JSON tree document.
func Decode(data []byte) (*Node, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("empty tree document")
	}

	var root Node
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("parsing tree JSON: %w", err)
	}
	return &root, nil
}

// ReadFile reads and parses the JSON tree document at path.
func ReadFile(path string) (*Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading tree %s: %w", path, err)
	}
	return Decode(data)
}

// Load reads the tree document at path, checking it against the tree schema
// first when validate is set.
func Load(path string, validate bool) (*Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading tree %s: %w", path, err)
	}
	if validate {
		if err := Validate(data); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}
	return Decode(data)
}

// Encode serializes root as UTF-8 JSON. HTML and non-ASCII characters are
// written as-is. An empty indent produces compact output.
func Encode(root *Node, indent string) ([]byte, error) {
	return marshal(root, indent)
}

// WriteFile writes root to path as JSON.
func WriteFile(path string, root *Node, indent string) error {
	data, err := Encode(root, indent)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing tree %s: %w", path, err)
	}
	return nil
}

// MarshalRaw serializes any value the same way Encode does.
func MarshalRaw(v any, indent string) ([]byte, error) {
	return marshal(v, indent)
}

func marshal(v any, indent string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if indent != "" {
		enc.SetIndent("", indent)
	}
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("encoding JSON: %w", err)
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
