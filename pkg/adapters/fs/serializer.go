package fs

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/jot/pkg/core"
)

// Serializer defines how the note collection is read from and written to a file.
type Serializer interface {
	// Parse reads a note collection from r. Empty input is an empty collection.
	Parse(r io.Reader) ([]core.Note, error)
	// Serialize converts the collection to bytes.
	Serialize(notes []core.Note) ([]byte, error)
	// Ext is the file extension, including the dot.
	Ext() string
}

// DefaultSerializers returns the standard set of serializers keyed by format name.
func DefaultSerializers(strict bool) map[string]Serializer {
	return map[string]Serializer{
		"json": NewJSONSerializer(strict),
		"yaml": NewYAMLSerializer(strict),
	}
}

// --- JSON Serializer ---

// JSONSerializer handles reading and writing JSON arrays of notes.
type JSONSerializer struct {
	// Strict rejects unknown fields instead of dropping them.
	Strict bool
}

// NewJSONSerializer creates a new JSON serializer.
func NewJSONSerializer(strict bool) *JSONSerializer {
	return &JSONSerializer{Strict: strict}
}

func (s *JSONSerializer) Parse(r io.Reader) ([]core.Note, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return []core.Note{}, nil
	}

	var notes []core.Note
	decoder := json.NewDecoder(bytes.NewReader(data))
	if s.Strict {
		decoder.DisallowUnknownFields()
	}
	if err := decoder.Decode(&notes); err != nil {
		return nil, fmt.Errorf("invalid json: %w", err)
	}
	if notes == nil {
		notes = []core.Note{}
	}
	return notes, nil
}

func (s *JSONSerializer) Serialize(notes []core.Note) ([]byte, error) {
	if notes == nil {
		notes = []core.Note{}
	}
	data, err := json.MarshalIndent(notes, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

func (s *JSONSerializer) Ext() string { return ".json" }

// --- YAML Serializer ---

// YAMLSerializer handles reading and writing YAML lists of notes.
type YAMLSerializer struct {
	// Strict rejects unknown fields instead of dropping them.
	Strict bool
}

// NewYAMLSerializer creates a new YAML serializer.
func NewYAMLSerializer(strict bool) *YAMLSerializer {
	return &YAMLSerializer{Strict: strict}
}

func (s *YAMLSerializer) Parse(r io.Reader) ([]core.Note, error) {
	var notes []core.Note
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(s.Strict)
	if err := decoder.Decode(&notes); err != nil {
		if errors.Is(err, io.EOF) {
			return []core.Note{}, nil
		}
		return nil, fmt.Errorf("invalid yaml: %w", err)
	}
	if notes == nil {
		notes = []core.Note{}
	}
	return notes, nil
}

func (s *YAMLSerializer) Serialize(notes []core.Note) ([]byte, error) {
	if notes == nil {
		notes = []core.Note{}
	}
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(notes); err != nil {
		return nil, err
	}
	if err := encoder.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *YAMLSerializer) Ext() string { return ".yaml" }
