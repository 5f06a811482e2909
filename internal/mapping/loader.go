package mapping

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// LoadFile loads and parses a JSON mapping file from the given path.
// The returned error wraps fs.ErrNotExist when the file is absent.
func LoadFile(path string) (*Mapping, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read mapping file %s: %w", path, err)
	}

	return Parse(data)
}

// Parse parses JSON data into a Mapping.
func Parse(data []byte) (*Mapping, error) {
	var m Mapping

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("failed to parse mapping JSON: %w", err)
	}

	return &m, nil
}

// Marshal serializes a Mapping to pretty-printed JSON.
func Marshal(m *Mapping) ([]byte, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, err
	}

	return append(data, '\n'), nil
}

// WriteFile writes a Mapping to the given path, creating parent directories.
// The file is replaced atomically so readers never observe a partial write.
func WriteFile(m *Mapping, path string) error {
	data, err := Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to marshal mapping: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create mapping directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to write mapping file %s: %w", path, err)
	}

	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)

		return fmt.Errorf("failed to write mapping file %s: %w", path, err)
	}

	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write mapping file %s: %w", path, err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write mapping file %s: %w", path, err)
	}

	return nil
}
