// Package match maps detected fields to profile keys through a four-layer
// cascade: platform autofill hints, semantic type, name/label patterns,
// and fuzzy similarity as a last resort.
package match

import (
	"github.com/lance13c/formpilot/internal/detect"
)

// Method records which layer produced a candidate.
type Method string

const (
	MethodAutocomplete Method = "autocomplete"
	MethodType         Method = "type"
	MethodName         Method = "name"
	MethodFuzzy        Method = "fuzzy"
)

// Layer confidences. Fuzzy is scaled by similarity so it always ranks
// below the deterministic layers.
const (
	confAutocomplete = 0.95
	confType         = 0.85
	confName         = 0.80
	fuzzyScale       = 0.64
	fuzzyThreshold   = 0.6
)

// FieldMatch is one candidate pairing of a profile key and value for a
// field.
type FieldMatch struct {
	ProfileField string  `json:"profileField"`
	Value        string  `json:"value"`
	Confidence   float64 `json:"confidence"`
	Method       Method  `json:"matchMethod"`
}

// MatchedField pairs a detected field with its ordered, non-empty match
// list. Within one MatchedField no two matches share a profile key, and
// the list is sorted by confidence descending.
type MatchedField struct {
	Field   detect.Field `json:"field"`
	Matches []FieldMatch `json:"matches"`
}
