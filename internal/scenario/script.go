package scenario

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Script is a bare list of steps applied to an existing project.
// Expectations on its steps are ignored.
type Script struct {
	Steps []Step `yaml:"steps"`
}

// ParseScript decodes an edit script from YAML.
func ParseScript(data []byte) (*Script, error) {
	var s Script
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	for i, step := range s.Steps {
		if step.Kind == "" {
			return nil, fmt.Errorf("invalid script: steps[%d]: kind is required", i)
		}
		if err := validateStep(step); err != nil {
			return nil, fmt.Errorf("invalid script: steps[%d]: %w", i, err)
		}
	}
	return &s, nil
}

// LoadScript reads and parses an edit script file.
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read script file: %w", err)
	}
	return ParseScript(data)
}
