package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/LegacyCodeHQ/modguard/suppression"
	"gopkg.in/yaml.v3"
)

// ErrInvalidBaseline indicates a baseline file that cannot be decoded.
var ErrInvalidBaseline = errors.New("invalid baseline")

// BaselineDocument is the YAML form of a suppression baseline.
type BaselineDocument struct {
	Suppressions []suppression.Entry `yaml:"suppressions"`
}

// ParseBaseline decodes baseline entries in file order.
func ParseBaseline(data []byte) ([]suppression.Entry, error) {
	var doc BaselineDocument
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBaseline, err)
	}
	for i, e := range doc.Suppressions {
		if e.Module == "" || e.Dependency == "" {
			return nil, fmt.Errorf("%w: suppressions[%d] needs module and dependency", ErrInvalidBaseline, i)
		}
	}
	return doc.Suppressions, nil
}

// LoadBaseline decodes a baseline into a suppression map. Duplicate
// (module, dependency) pairs are rejected.
func LoadBaseline(data []byte) (*suppression.Map, error) {
	entries, err := ParseBaseline(data)
	if err != nil {
		return nil, err
	}
	return suppression.New(entries)
}

// MarshalBaseline encodes entries as a baseline document, sorted by module and dependency.
func MarshalBaseline(entries []suppression.Entry) ([]byte, error) {
	sorted := append([]suppression.Entry{}, entries...)
	suppression.SortEntries(sorted)

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(BaselineDocument{Suppressions: sorted}); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
