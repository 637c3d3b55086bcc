package extract

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/precisiondoc/precisiondoc/internal/model"
)

const jsonFence = "```json"

var logger = log.New(os.Stderr, "[extract] ", log.LstdFlags)

// Normalize parses a page's raw AI content into a flat field mapping.
//
// Fenced ```json blocks are parsed independently and merged in encounter
// order with last-writer-wins semantics; a block that fails to parse is
// skipped with a warning. The text outside the JSON blocks is partitioned
// into Markdown level-3 heading sections, which are appended after the
// JSON-derived keys. A heading that collides with a JSON-derived key
// overwrites it; downstream report formatting depends on this precedence.
//
// Malformed input degrades to omitted fields, never to an error.
func Normalize(raw string) *model.Record {
	rec := model.NewRecord()
	mergeJSONBlocks(raw, rec)
	mergeHeadingSections(raw, rec)
	return rec
}

// mergeJSONBlocks extracts and merges every fenced JSON block in raw
func mergeJSONBlocks(raw string, rec *model.Record) {
	if !strings.Contains(raw, jsonFence) {
		return
	}
	parts := strings.Split(raw, jsonFence)
	for i, part := range parts {
		if i == 0 {
			continue // Text before the first fence
		}
		body, _, _ := strings.Cut(part, "```")
		block, err := decodeOrderedObject(strings.TrimSpace(body))
		if err != nil {
			logger.Printf("warning: skipping unparseable JSON block %d: %v", i, err)
			continue
		}
		rec.Merge(block)
	}
}

// mergeHeadingSections partitions the non-JSON remainder of raw by ###
// headings and adds one field per non-empty section.
func mergeHeadingSections(raw string, rec *model.Record) {
	content := stripJSONBlocks(raw)

	var heading string
	var body []string
	flush := func() {
		if heading == "" {
			return
		}
		text := strings.TrimSpace(strings.Join(body, "\n"))
		if text != "" {
			rec.Set(heading, text)
		}
	}

	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "###") {
			flush()
			heading = strings.TrimSpace(strings.ReplaceAll(trimmed, "###", ""))
			body = body[:0]
			continue
		}
		if heading != "" {
			body = append(body, line)
		}
	}
	flush()
}

// stripJSONBlocks removes fenced JSON blocks, keeping surrounding text
func stripJSONBlocks(raw string) string {
	if !strings.Contains(raw, jsonFence) {
		return raw
	}
	parts := strings.Split(raw, jsonFence)
	var sb strings.Builder
	sb.WriteString(parts[0])
	for _, part := range parts[1:] {
		if _, rest, ok := strings.Cut(part, "```"); ok {
			sb.WriteString(rest)
		}
	}
	return sb.String()
}

// decodeOrderedObject parses a JSON object preserving its key order.
// A plain map would scramble the order and with it the spreadsheet
// column layout.
func decodeOrderedObject(s string) (*model.Record, error) {
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("not a JSON object")
	}
	rec, err := decodeObjectFields(dec)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func decodeObjectFields(dec *json.Decoder) (*model.Record, error) {
	rec := model.NewRecord()
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("object key is not a string: %v", keyTok)
		}
		val, err := decodeValue(dec)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", key, err)
		}
		rec.Set(key, val)
	}
	// Consume the closing brace
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return rec, nil
}

func decodeValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch d := tok.(type) {
	case json.Delim:
		switch d {
		case '{':
			return decodeObjectFields(dec)
		case '[':
			var arr []any
			for dec.More() {
				v, err := decodeValue(dec)
				if err != nil {
					return nil, err
				}
				arr = append(arr, v)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return arr, nil
		default:
			return nil, fmt.Errorf("unexpected delimiter %v", d)
		}
	default:
		// string, json.Number, bool or nil
		return tok, nil
	}
}
