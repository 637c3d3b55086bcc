package extract

import (
	"encoding/json"
	"testing"

	"github.com/precisiondoc/precisiondoc/internal/model"
)

func recordWithFlag(v any) *model.Record {
	rec := model.NewRecord()
	rec.Set(EvidenceFlagKey, v)
	return rec
}

func TestFilterEvidence_NoFlagPassesThrough(t *testing.T) {
	rs := model.RecordSet{model.NewRecord(), model.NewRecord(), model.NewRecord()}

	out := FilterEvidence(rs)

	if len(out) != 3 {
		t.Fatalf("Expected unchanged set, got %d records", len(out))
	}
	for i := range rs {
		if out[i] != rs[i] {
			t.Errorf("Record %d changed identity", i)
		}
	}
}

func TestFilterEvidence_TruthyEncodings(t *testing.T) {
	rs := model.RecordSet{
		recordWithFlag(true),
		recordWithFlag("false"),
		recordWithFlag("yes"),
		recordWithFlag(0),
		recordWithFlag("1"),
	}

	out := FilterEvidence(rs)

	if len(out) != 3 {
		t.Fatalf("Expected 3 records, got %d", len(out))
	}
	if out[0] != rs[0] || out[1] != rs[2] || out[2] != rs[4] {
		t.Error("Expected records at positions 0, 2, 4 in order")
	}
}

func TestFilterEvidence_MixedFlaggedAndUnflagged(t *testing.T) {
	// Once any record defines the flag, records without it are excluded
	rs := model.RecordSet{
		model.NewRecord(),
		recordWithFlag(true),
	}

	out := FilterEvidence(rs)

	if len(out) != 1 || out[0] != rs[1] {
		t.Fatalf("Expected only the flagged record, got %d", len(out))
	}
}

func TestFilterEvidence_EmptyResultIsValid(t *testing.T) {
	rs := model.RecordSet{recordWithFlag(false), recordWithFlag("no")}

	out := FilterEvidence(rs)

	if len(out) != 0 {
		t.Fatalf("Expected empty result, got %d records", len(out))
	}
}

func TestIsTruthy(t *testing.T) {
	tests := []struct {
		value any
		want  bool
	}{
		{true, true},
		{false, false},
		{"true", true},
		{"True", true},
		{"YES", true},
		{"y", true},
		{"1", true},
		{" 1 ", true},
		{"no", false},
		{"0", false},
		{"", false},
		{1, true},
		{0, false},
		{json.Number("1"), true},
		{json.Number("0"), false},
		{nil, false},
		{[]any{"true"}, false},
	}

	for _, tt := range tests {
		if got := IsTruthy(tt.value); got != tt.want {
			t.Errorf("IsTruthy(%#v) = %v, want %v", tt.value, got, tt.want)
		}
	}
}
