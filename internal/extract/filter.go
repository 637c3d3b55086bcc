package extract

import (
	"encoding/json"
	"strings"

	"github.com/precisiondoc/precisiondoc/internal/model"
)

// EvidenceFlagKey marks a record as true precision-oncology evidence
const EvidenceFlagKey = "is_precision_evidence"

// FilterEvidence selects the records flagged as precision evidence,
// preserving order.
//
// When no record in the set defines the flag at all, the full set is
// returned unchanged; absence of the field is not "false". Otherwise only
// records with a truthy flag value survive; an empty result is valid and
// means "nothing to render".
func FilterEvidence(rs model.RecordSet) model.RecordSet {
	flagged := false
	for _, rec := range rs {
		if rec.Has(EvidenceFlagKey) {
			flagged = true
			break
		}
	}
	if !flagged {
		return rs
	}

	out := make(model.RecordSet, 0, len(rs))
	for _, rec := range rs {
		if v, ok := rec.Get(EvidenceFlagKey); ok && IsTruthy(v) {
			out = append(out, rec)
		}
	}
	return out
}

// IsTruthy reports whether v is an accepted truthy encoding of the evidence
// flag: boolean true, or a string/number case-insensitively matching one of
// "true", "1", "yes", "y". Everything else, including absence, false,
// "no", 0 and empty, is falsy.
func IsTruthy(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		return truthyString(t)
	case json.Number:
		return truthyString(t.String())
	case int:
		return t == 1
	case int64:
		return t == 1
	case float64:
		return t == 1
	default:
		return false
	}
}

func truthyString(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes", "y":
		return true
	}
	return false
}
