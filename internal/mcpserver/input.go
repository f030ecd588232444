package mcpserver

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v4"

	"github.com/maptools/maptools/loader"
	"github.com/maptools/maptools/mapper"
)

// documentInput represents the two ways a document can be provided to a tool.
// Exactly one of File or Content must be set.
type documentInput struct {
	File    string `json:"file,omitempty"    jsonschema:"Path to a document on disk"`
	Content string `json:"content,omitempty" jsonschema:"Inline document content (JSON or YAML)"`
}

func (d documentInput) validate() error {
	if (d.File == "") == (d.Content == "") {
		return fmt.Errorf("exactly one of file or content must be provided")
	}
	if len(d.Content) > cfg.MaxInputBytes {
		return fmt.Errorf("inline content exceeds %d bytes", cfg.MaxInputBytes)
	}
	return nil
}

// resolveMapping loads the input as an ordered mapping document.
func (d documentInput) resolveMapping() (*mapper.Object, error) {
	if err := d.validate(); err != nil {
		return nil, err
	}
	if d.File != "" {
		doc, err := loader.LoadFile(d.File)
		if err != nil {
			return nil, err
		}
		return doc.Mapping, nil
	}
	doc, err := loader.Load([]byte(d.Content), loader.SourceFormatUnknown)
	if err != nil {
		return nil, err
	}
	return doc.Mapping, nil
}

// resolveData loads the input as a plain data document. Key order does not
// matter for data, so it decodes into ordinary maps and slices.
func (d documentInput) resolveData() (any, error) {
	if err := d.validate(); err != nil {
		return nil, err
	}
	data := []byte(d.Content)
	if d.File != "" {
		raw, err := readDataFile(d.File)
		if err != nil {
			return nil, err
		}
		data = raw
	}
	var value any
	if err := yaml.Unmarshal(data, &value); err != nil {
		return nil, fmt.Errorf("invalid input document: %w", err)
	}
	return value, nil
}

// readDataFile reads a data document, applying the loader's file size cap.
func readDataFile(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read input document: %w", err)
	}
	if info.Size() > loader.MaxFileSize {
		return nil, fmt.Errorf("input document exceeds %d bytes", int64(loader.MaxFileSize))
	}
	return os.ReadFile(path)
}
