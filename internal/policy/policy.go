package policy

import (
	"errors"
	"fmt"
	"os"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// Policy describes which fields get masked and how messages are tokenized.
// Policies are plain values; nothing in the pipeline mutates them.
type Policy struct {
	Fields    []string `yaml:"fields"`
	Mask      string   `yaml:"mask"`
	Separator string   `yaml:"separator"`
}

// Default returns the canonical PII policy.
func Default() Policy {
	return Policy{
		Fields:    []string{"email", "password", "ssn", "phone_number", "address"},
		Mask:      "***",
		Separator: ";",
	}
}

// Load reads a policy from a YAML file. A missing file is an error, not a
// silent fallback to defaults.
func Load(path string) (Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Policy{}, fmt.Errorf("policy: read %s: %w", path, err)
	}

	var p Policy
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Policy{}, fmt.Errorf("policy: parse %s: %w", path, err)
	}
	if p.Mask == "" {
		p.Mask = "***"
	}
	if p.Separator == "" {
		p.Separator = ";"
	}
	return p, nil
}

// Validate reports whether the policy can drive a formatter. Duplicate field
// names are allowed; the engine deduplicates them.
func (p Policy) Validate() error {
	if len(p.Fields) == 0 {
		return errors.New("policy: field list is empty")
	}
	if p.Mask == "" {
		return errors.New("policy: mask is empty")
	}
	if utf8.RuneCountInString(p.Separator) != 1 {
		return fmt.Errorf("policy: separator %q must be exactly one character", p.Separator)
	}
	return nil
}

// Sep returns the separator as a rune. Call Validate first.
func (p Policy) Sep() rune {
	r, _ := utf8.DecodeRuneInString(p.Separator)
	return r
}
