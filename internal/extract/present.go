package extract

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/precisiondoc/precisiondoc/internal/model"
)

// Placeholder rendered for empty or missing values
const Placeholder = "N/A"

// fieldRenames maps raw extraction field names to their display names.
// Renaming happens before exclusion, so exclusion lists use final names.
var fieldRenames = map[string]string{
	"text":       "resource_sentence",
	"image_path": "resource_url",
}

// canonicalOrder is the fixed display sequence for recognized fields.
// Unrecognized fields follow in their original order. This ordering is part
// of the report's visual contract; change it only deliberately.
var canonicalOrder = []string{
	"resource_sentence",
	"symbol",
	"alteration",
	"disease_name_cn",
	"disease_name_en",
	"drug_name_cn",
	"drug_name_en",
	"drug_combination",
	"response_type",
	"evidence_level",
	"evidence_type",
	"resource_url",
}

// DefaultExcludeKeys returns the fields hidden from the rendered report:
// pipeline bookkeeping, the evidence flag itself, and the Chinese analysis
// scaffolding headings the models emit around the structured payload.
func DefaultExcludeKeys() map[string]bool {
	return map[string]bool{
		"page_type":      true,
		EvidenceFlagKey:  true,
		"page_number":    true,
		"success":        true,
		"document_type":  true,
		"解析":             true,
		"分析":             true,
		"结论":             true,
		"文字提取":           true,
		"evidence_level": true,
		"evidence_type":  true,
		"evidence_list":  true,
	}
}

// Present projects a flat record into its display form: rename, then
// exclude, then order. The three stages are separate pure passes and
// their precedence is part of the contract.
// A nil exclude set selects DefaultExcludeKeys. The input record is never
// mutated.
func Present(rec *model.Record, exclude map[string]bool) *model.Record {
	if exclude == nil {
		exclude = DefaultExcludeKeys()
	}

	renamed := renameFields(rec)
	filtered := excludeFields(renamed, exclude)
	return orderFields(filtered)
}

func renameFields(rec *model.Record) *model.Record {
	out := model.NewRecord()
	for _, k := range rec.Keys() {
		v, _ := rec.Get(k)
		if display, ok := fieldRenames[k]; ok {
			k = display
		}
		out.Set(k, v)
	}
	return out
}

func excludeFields(rec *model.Record, exclude map[string]bool) *model.Record {
	out := model.NewRecord()
	for _, k := range rec.Keys() {
		if exclude[k] {
			continue
		}
		v, _ := rec.Get(k)
		out.Set(k, Stringify(v))
	}
	return out
}

func orderFields(rec *model.Record) *model.Record {
	out := model.NewRecord()
	for _, k := range canonicalOrder {
		if v, ok := rec.Get(k); ok {
			out.Set(k, v)
		}
	}
	for _, k := range rec.Keys() {
		if !out.Has(k) {
			v, _ := rec.Get(k)
			out.Set(k, v)
		}
	}
	return out
}

// Stringify renders a field value for display. Empty and nil values become
// the N/A placeholder.
func Stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return Placeholder
	case string:
		if strings.TrimSpace(t) == "" {
			return Placeholder
		}
		return t
	case bool:
		return strconv.FormatBool(t)
	case json.Number:
		return t.String()
	case int:
		return strconv.Itoa(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		// Nested structures (lists, objects) render as compact JSON
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		s := string(b)
		if s == "null" || s == "[]" || s == "{}" {
			return Placeholder
		}
		return s
	}
}
