package loader

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/PaesslerAG/jsonpath"
)

// JSONSource reads candidates from a JSON document on disk.
type JSONSource struct {
	Path string
	// RecordsPath is a JSONPath expression selecting the record array, "$" for a bare array.
	RecordsPath string
}

// NewJSONSource creates a JSONSource. An empty recordsPath selects the document root.
func NewJSONSource(path, recordsPath string) *JSONSource {
	if recordsPath == "" {
		recordsPath = "$"
	}
	return &JSONSource{Path: path, RecordsPath: recordsPath}
}

func (s *JSONSource) Name() string { return "json:" + s.Path }

func (s *JSONSource) Load() (*RecordSet, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("open candidates: %w", err)
	}
	defer f.Close()
	return DecodeJSON(f, s.RecordsPath)
}

// DecodeJSON reads the whole document from r and extracts the record array at recordsPath.
func DecodeJSON(r io.Reader, recordsPath string) (*RecordSet, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read candidates: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return newRecordSet(nil), nil
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode candidates: %w", err)
	}

	if recordsPath == "" {
		recordsPath = "$"
	}
	selected, err := jsonpath.Get(recordsPath, doc)
	if err != nil {
		return nil, fmt.Errorf("select records %q: %w", recordsPath, err)
	}

	list, ok := selected.([]any)
	if !ok {
		return nil, fmt.Errorf("select records %q: expected an array, got %T", recordsPath, selected)
	}
	// a wildcard path yields a list holding the array itself
	if len(list) == 1 {
		if inner, ok := list[0].([]any); ok {
			list = inner
		}
	}

	rows := make([]Record, 0, len(list))
	for i, item := range list {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("record %d: expected an object, got %T", i, item)
		}
		rows = append(rows, Record(obj))
	}
	return newRecordSet(rows), nil
}
