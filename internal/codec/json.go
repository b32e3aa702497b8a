package codec

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"registrar/internal/domain"
)

// JSONCodec handles JSON documents
type JSONCodec struct{}

// NewJSONCodec creates a new JSON codec
func NewJSONCodec() *JSONCodec {
	return &JSONCodec{}
}

// Format returns the codec format identifier
func (c *JSONCodec) Format() string {
	return "json"
}

// Decode reads a dataset from JSON. An empty document is an empty dataset.
func (c *JSONCodec) Decode(r io.Reader) (*domain.Dataset, error) {
	data := domain.NewDataset()
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(data); err != nil {
		if errors.Is(err, io.EOF) {
			return domain.NewDataset(), nil
		}
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}

	data.Normalize()
	return data, nil
}

// Encode writes a dataset as indented JSON.
// JSON strings must be valid UTF-8, so a record holding other bytes is an
// error rather than being written with replacement characters.
func (c *JSONCodec) Encode(w io.Writer, data *domain.Dataset) error {
	if err := checkUTF8(data); err != nil {
		return err
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(normalized(data)); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	return nil
}

// normalized returns a dataset safe to encode, never mutating the input
func normalized(data *domain.Dataset) *domain.Dataset {
	if data == nil {
		return domain.NewDataset()
	}
	cp := *data
	cp.Normalize()
	return &cp
}

func checkUTF8(data *domain.Dataset) error {
	if data == nil {
		return nil
	}
	for _, v := range data.Students {
		if err := validStrings(domain.KindStudent, v.ID, append([]string{v.ID, v.Name, v.Major}, v.CourseIDs...)...); err != nil {
			return err
		}
	}
	for _, v := range data.Courses {
		if err := validStrings(domain.KindCourse, v.ID, v.ID, v.Title, v.TeacherID); err != nil {
			return err
		}
	}
	for _, v := range data.Teachers {
		if err := validStrings(domain.KindTeacher, v.ID, v.ID, v.Name, v.Department); err != nil {
			return err
		}
	}
	for _, v := range data.Secretaries {
		if err := validStrings(domain.KindSecretary, v.ID, v.ID, v.Name, v.Office); err != nil {
			return err
		}
	}
	return nil
}

func validStrings(kind domain.Kind, id string, values ...string) error {
	for _, v := range values {
		if !utf8.ValidString(v) {
			return fmt.Errorf("failed to encode JSON: %s %q holds invalid UTF-8", kind, id)
		}
	}
	return nil
}
