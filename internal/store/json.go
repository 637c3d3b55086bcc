// Package store persists and reloads the pipeline's JSON and XLSX
// artifacts. The JSON shape {"<document_type>": [page, ...]} is a
// re-ingestion contract and must stay bit-compatible: UTF-8, 2-space
// indentation, no HTML escaping of non-ASCII content.
package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/precisiondoc/precisiondoc/internal/model"
)

// DocumentResults pairs a document type with its ordered page results
type DocumentResults struct {
	Type  string
	Pages []model.PageResult
}

// WriteResults writes one or more documents' page results as a single JSON
// object, preserving document order.
func WriteResults(path string, docs []DocumentResults) error {
	if path == "" {
		return fmt.Errorf("no output path for JSON results")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	data, err := encodeResults(docs)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write JSON results: %w", err)
	}
	return nil
}

// encodeResults builds the ordered top-level object by hand; a map would
// scramble document order.
func encodeResults(docs []DocumentResults) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("{\n")
	for i, doc := range docs {
		key, err := encodeNoEscape(doc.Type, "")
		if err != nil {
			return nil, fmt.Errorf("encode document type %q: %w", doc.Type, err)
		}
		pages, err := encodeNoEscape(doc.Pages, "  ")
		if err != nil {
			return nil, fmt.Errorf("encode pages for %q: %w", doc.Type, err)
		}
		buf.WriteString("  ")
		buf.Write(key)
		buf.WriteString(": ")
		buf.Write(pages)
		if i < len(docs)-1 {
			buf.WriteByte(',')
		}
		buf.WriteByte('\n')
	}
	buf.WriteString("}")
	return buf.Bytes(), nil
}

// encodeNoEscape marshals v with 2-space indentation at the given prefix
// depth and without HTML escaping.
func encodeNoEscape(v any, prefix string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent(prefix, "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// LoadResults reads a results JSON file back, preserving document order
func LoadResults(path string) ([]DocumentResults, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open results file: %w", err)
	}
	defer func() { _ = f.Close() }()

	dec := json.NewDecoder(f)
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("read results file: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("results file is not a JSON object")
	}

	var docs []DocumentResults
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("read document type: %w", err)
		}
		docType, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("document type is not a string: %v", keyTok)
		}
		var pages []model.PageResult
		if err := dec.Decode(&pages); err != nil {
			return nil, fmt.Errorf("decode pages for %q: %w", docType, err)
		}
		docs = append(docs, DocumentResults{Type: docType, Pages: pages})
	}
	return docs, nil
}
