package store

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/precisiondoc/precisiondoc/internal/extract"
	"github.com/precisiondoc/precisiondoc/internal/model"
)

func TestWriteTable_ReadTable_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "table.xlsx")

	pages := []model.PageResult{
		{
			Success:  true,
			PageType: model.PageTypeContent,
			Content:  "```json\n{\"is_precision_evidence\": true, \"symbol\": \"EGFR\", \"evidence_level\": \"A1\"}\n```",
		},
		{Success: false, PageType: model.PageTypeContent, Error: "timeout"},
	}
	rs := extract.Flatten("测试指南", pages)

	if err := WriteTable(rs, path); err != nil {
		t.Fatalf("WriteTable failed: %v", err)
	}

	loaded, err := ReadTable(path)
	if err != nil {
		t.Fatalf("ReadTable failed: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(loaded))
	}

	// Formatting-only deltas on reload, enumerated:
	//   bool true      -> "TRUE"
	//   number 1       -> "1"
	//   absent/empty   -> key absent
	first := loaded[0]
	if v, _ := first.Get("document_type"); v != "测试指南" {
		t.Errorf("Unexpected document_type: %v", v)
	}
	if v, _ := first.Get("page_number"); v != "1" {
		t.Errorf("Expected page_number as string \"1\", got %v", v)
	}
	if v, _ := first.Get("success"); v != "TRUE" {
		t.Errorf("Expected success as \"TRUE\", got %v", v)
	}
	if v, _ := first.Get("symbol"); v != "EGFR" {
		t.Errorf("Unexpected symbol: %v", v)
	}
	if first.Has("error") {
		t.Error("Expected no error key on first row")
	}

	second := loaded[1]
	if v, _ := second.Get("error"); v != "timeout" {
		t.Errorf("Unexpected error: %v", v)
	}
	if second.Has("symbol") {
		t.Error("Expected empty cell to come back as absent key")
	}
}

func TestWriteTable_ColumnOrderIsFirstSeen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cols.xlsx")

	a := model.NewRecord()
	a.Set("document_type", "d")
	a.Set("page_number", 1)
	a.Set("zeta", "z")

	b := model.NewRecord()
	b.Set("document_type", "d")
	b.Set("page_number", 2)
	b.Set("alpha", "a")

	if err := WriteTable(model.RecordSet{a, b}, path); err != nil {
		t.Fatalf("WriteTable failed: %v", err)
	}

	loaded, err := ReadTable(path)
	if err != nil {
		t.Fatalf("ReadTable failed: %v", err)
	}

	keys := loaded[0].Keys()
	if keys[0] != "document_type" || keys[1] != "page_number" || keys[2] != "zeta" {
		t.Errorf("Unexpected column order: %v", keys)
	}
}

func TestWriteTable_NestedValuesAsJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested.xlsx")

	rec := model.NewRecord()
	rec.Set("document_type", "d")
	rec.Set("page_number", json.Number("1"))
	rec.Set("evidence_list", []any{"EGFR", "ALK"})

	if err := WriteTable(model.RecordSet{rec}, path); err != nil {
		t.Fatalf("WriteTable failed: %v", err)
	}

	loaded, err := ReadTable(path)
	if err != nil {
		t.Fatalf("ReadTable failed: %v", err)
	}
	if v, _ := loaded[0].Get("evidence_list"); v != `["EGFR","ALK"]` {
		t.Errorf("Expected compact JSON, got %v", v)
	}
}

func TestWriteTable_EmptySetIsWarning(t *testing.T) {
	dir := t.TempDir()
	if err := WriteTable(nil, filepath.Join(dir, "empty.xlsx")); err != nil {
		t.Errorf("Expected empty set to be a no-op, got %v", err)
	}
}
