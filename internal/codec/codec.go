package codec

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"registrar/internal/domain"
)

// Codec encodes and decodes a complete dataset in one document format
type Codec interface {
	Encode(w io.Writer, data *domain.Dataset) error
	Decode(r io.Reader) (*domain.Dataset, error)
	Format() string
}

// ForFormat returns the codec registered under a format name
func ForFormat(format string) (Codec, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		return NewJSONCodec(), nil
	case "yaml", "yml":
		return NewYAMLCodec(), nil
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
}

// ForPath picks a codec from the file extension
func ForPath(path string) (Codec, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return nil, fmt.Errorf("cannot infer format of %q: no file extension", path)
	}
	return ForFormat(ext)
}
