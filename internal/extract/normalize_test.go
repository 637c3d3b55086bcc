package extract

import (
	"encoding/json"
	"testing"
)

func TestNormalize_SingleJSONBlock(t *testing.T) {
	raw := "Some preamble.\n```json\n{\"a\": 1, \"b\": 2}\n```\nTrailing text."

	rec := Normalize(raw)

	if rec.Len() != 2 {
		t.Fatalf("Expected 2 fields, got %d (%v)", rec.Len(), rec.Keys())
	}
	a, _ := rec.Get("a")
	if a.(json.Number).String() != "1" {
		t.Errorf("Expected a=1, got %v", a)
	}
	b, _ := rec.Get("b")
	if b.(json.Number).String() != "2" {
		t.Errorf("Expected b=2, got %v", b)
	}
}

func TestNormalize_LaterBlockWins(t *testing.T) {
	raw := "```json\n{\"symbol\": \"EGFR\", \"evidence_level\": \"A\"}\n```\n" +
		"middle text\n" +
		"```json\n{\"symbol\": \"KRAS\"}\n```"

	rec := Normalize(raw)

	v, ok := rec.Get("symbol")
	if !ok {
		t.Fatal("Expected symbol key")
	}
	if v != "KRAS" {
		t.Errorf("Expected later block to win, got %v", v)
	}
	if _, ok := rec.Get("evidence_level"); !ok {
		t.Error("Expected evidence_level from first block to survive")
	}
	// Overwrite must not change key position
	keys := rec.Keys()
	if keys[0] != "symbol" || keys[1] != "evidence_level" {
		t.Errorf("Unexpected key order: %v", keys)
	}
}

func TestNormalize_MalformedBlockSkipped(t *testing.T) {
	raw := "```json\n{not valid json\n```\n```json\n{\"ok\": true}\n```"

	rec := Normalize(raw)

	if rec.Len() != 1 {
		t.Fatalf("Expected only the valid block, got %v", rec.Keys())
	}
	if v, _ := rec.Get("ok"); v != true {
		t.Errorf("Expected ok=true, got %v", v)
	}
}

func TestNormalize_HeadingSections(t *testing.T) {
	raw := "### Summary\nline one\nline two\n### Details\n\ncontent here\n"

	rec := Normalize(raw)

	v, ok := rec.Get("Summary")
	if !ok {
		t.Fatal("Expected Summary key")
	}
	if v != "line one\nline two" {
		t.Errorf("Expected joined trimmed body, got %q", v)
	}
	if d, _ := rec.Get("Details"); d != "content here" {
		t.Errorf("Expected trimmed Details body, got %q", d)
	}
}

func TestNormalize_EmptyHeadingSectionOmitted(t *testing.T) {
	raw := "### Empty\n\n\n### Filled\ntext"

	rec := Normalize(raw)

	if rec.Has("Empty") {
		t.Error("Expected empty section to be omitted")
	}
	if !rec.Has("Filled") {
		t.Error("Expected non-empty section to be present")
	}
}

func TestNormalize_HeadingOverwritesJSONKey(t *testing.T) {
	// Historical precedence: a heading that collides with a JSON-derived
	// key overwrites it. The report format depends on this.
	raw := "```json\n{\"结论\": \"from json\"}\n```\n### 结论\nfrom heading"

	rec := Normalize(raw)

	if v, _ := rec.Get("结论"); v != "from heading" {
		t.Errorf("Expected heading value to win, got %v", v)
	}
}

func TestNormalize_InertInputYieldsEmptyMapping(t *testing.T) {
	rec := Normalize("plain prose without any structure")

	if rec.Len() != 0 {
		t.Errorf("Expected empty mapping, got %v", rec.Keys())
	}
}

func TestNormalize_TextOutsideBlocksIgnoredWithoutHeading(t *testing.T) {
	raw := "leading prose\n```json\n{\"a\": \"x\"}\n```\ntrailing prose"

	rec := Normalize(raw)

	if rec.Len() != 1 {
		t.Errorf("Expected only JSON field, got %v", rec.Keys())
	}
}

func TestNormalize_NestedValuesPreserved(t *testing.T) {
	raw := "```json\n{\"evidence_list\": [{\"symbol\": \"ALK\"}], \"is_precision_evidence\": true}\n```"

	rec := Normalize(raw)

	if v, ok := rec.Get("is_precision_evidence"); !ok || v != true {
		t.Errorf("Expected boolean true flag, got %v", v)
	}
	if _, ok := rec.Get("evidence_list"); !ok {
		t.Error("Expected nested list to be kept")
	}
}
