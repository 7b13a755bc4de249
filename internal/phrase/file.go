package phrase

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type fileFormat struct {
	Phrases []Entry `yaml:"phrases"`
}

// LoadFile reads a YAML phrase table. An empty path returns the built-in table.
func LoadFile(path string) (*Table, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read phrase file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML phrase table.
func Parse(data []byte) (*Table, error) {
	var f fileFormat
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse phrase file: %w", err)
	}
	return New(f.Phrases)
}
