package codec

import (
	"errors"
	"fmt"
	"io"

	"registrar/internal/domain"

	"gopkg.in/yaml.v3"
)

// YAMLCodec handles YAML documents
type YAMLCodec struct{}

// NewYAMLCodec creates a new YAML codec
func NewYAMLCodec() *YAMLCodec {
	return &YAMLCodec{}
}

// Format returns the codec format identifier
func (c *YAMLCodec) Format() string {
	return "yaml"
}

// Decode reads a dataset from YAML. An empty document is an empty dataset.
func (c *YAMLCodec) Decode(r io.Reader) (*domain.Dataset, error) {
	data := domain.NewDataset()
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(data); err != nil {
		if errors.Is(err, io.EOF) {
			return domain.NewDataset(), nil
		}
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	data.Normalize()
	return data, nil
}

// Encode writes a dataset as YAML with two-space indentation
func (c *YAMLCodec) Encode(w io.Writer, data *domain.Dataset) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)

	if err := encoder.Encode(normalized(data)); err != nil {
		encoder.Close()
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return fmt.Errorf("failed to flush YAML: %w", err)
	}

	return nil
}
