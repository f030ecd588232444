// Package loader reads mapping documents from files or byte slices.
//
// Mapping documents are written in YAML or JSON. JSON is a subset of YAML, so
// both formats flow through one decoder; the detected format is reported on
// the returned Document for callers that care about provenance. Descriptor key
// order is preserved, which the mapper relies on for pairing and plugin
// dispatch order.
package loader

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/maptools/maptools/maperrors"
	"github.com/maptools/maptools/mapper"
)

// MaxFileSize is the maximum size (in bytes) allowed for mapping document
// files. Mapping documents are hand-written configuration; anything larger is
// almost certainly a mistake.
const MaxFileSize = 10 * 1024 * 1024 // 10MB

// SourceFormat represents the format of a mapping document source.
type SourceFormat string

const (
	// SourceFormatYAML indicates the source was in YAML format
	SourceFormatYAML SourceFormat = "yaml"
	// SourceFormatJSON indicates the source was in JSON format
	SourceFormatJSON SourceFormat = "json"
	// SourceFormatUnknown indicates the source format could not be determined
	SourceFormatUnknown SourceFormat = "unknown"
)

// Document is a loaded mapping document together with its provenance.
type Document struct {
	// SourcePath is the path the document was read from, empty for byte input.
	SourcePath string
	// SourceFormat is the detected source format.
	SourceFormat SourceFormat
	// Mapping is the parsed descriptor with key order intact.
	Mapping *mapper.Object
}

// LoadFile reads and parses a mapping document from disk.
func LoadFile(path string) (*Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, &maperrors.ParseError{Path: path, Message: "cannot read mapping document", Cause: err}
	}
	if info.Size() > MaxFileSize {
		return nil, &maperrors.ParseError{
			Path:    path,
			Message: fmt.Sprintf("mapping document exceeds %d bytes", int64(MaxFileSize)),
		}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &maperrors.ParseError{Path: path, Message: "cannot read mapping document", Cause: err}
	}
	doc, err := Load(data, DetectFormat(path, data))
	if err != nil {
		var parseErr *maperrors.ParseError
		if errors.As(err, &parseErr) && parseErr.Path == "" {
			parseErr.Path = path
		}
		return nil, err
	}
	doc.SourcePath = path
	return doc, nil
}

// Load parses a mapping document from a byte slice. format may be
// SourceFormatUnknown; it only annotates the returned Document.
func Load(data []byte, format SourceFormat) (*Document, error) {
	if format == "" || format == SourceFormatUnknown {
		format = DetectFormat("", data)
	}
	obj, err := mapper.ParseObject(data)
	if err != nil {
		return nil, err
	}
	return &Document{SourceFormat: format, Mapping: obj}, nil
}

// DetectFormat determines a document's format from its file extension, falling
// back to content sniffing: a document whose first non-space character opens a
// JSON object or array is JSON, any other non-space first character means YAML
// (the content is not parsed here), and an empty or all-space document is
// SourceFormatUnknown.
func DetectFormat(path string, data []byte) SourceFormat {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return SourceFormatJSON
	case ".yaml", ".yml":
		return SourceFormatYAML
	}
	for _, r := range string(data) {
		if unicode.IsSpace(r) {
			continue
		}
		if r == '{' || r == '[' {
			return SourceFormatJSON
		}
		return SourceFormatYAML
	}
	return SourceFormatUnknown
}
