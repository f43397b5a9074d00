package match

import (
	"sort"

	"github.com/lance13c/formpilot/internal/detect"
	"github.com/lance13c/formpilot/internal/profile"
)

// layerFunc is a pure matching layer.
type layerFunc func(detect.Field, map[string]string) []FieldMatch

// deterministicLayers run in fixed order; the fuzzy layer is consulted
// separately, only when these produce nothing for a field.
var deterministicLayers = []layerFunc{
	autocompleteLayer,
	typeLayer,
	nameLayer,
}

// MatchFields maps every detected field to profile candidates. Fields with
// no candidates are dropped. Within one result, the first layer to claim a
// profile key wins and the match list is sorted by confidence descending
// (ties keep insertion order).
func MatchFields(fields []detect.Field, profileFields []profile.Field) []MatchedField {
	idx := profile.Index(profileFields)
	if len(idx) == 0 {
		return nil
	}

	var out []MatchedField
	for _, field := range fields {
		matches := matchField(field, idx)
		if len(matches) == 0 {
			continue
		}
		out = append(out, MatchedField{Field: field, Matches: matches})
	}
	return out
}

// InferUnmatched runs the fuzzy layer alone over fields, for the
// "infer unmatched fields" action. Callers pass fields that produced no
// deterministic or fuzzy candidates on the regular pass; a lowered bar is
// not applied, so this only finds candidates for profile keys added since.
func InferUnmatched(fields []detect.Field, profileFields []profile.Field) []MatchedField {
	idx := profile.Index(profileFields)
	if len(idx) == 0 {
		return nil
	}

	var out []MatchedField
	for _, field := range fields {
		matches := dedupeAndSort(fuzzyLayer(field, idx))
		if len(matches) == 0 {
			continue
		}
		out = append(out, MatchedField{Field: field, Matches: matches})
	}
	return out
}

func matchField(field detect.Field, idx map[string]string) []FieldMatch {
	var matches []FieldMatch
	claimed := make(map[string]bool)

	for _, layer := range deterministicLayers {
		for _, m := range layer(field, idx) {
			if claimed[m.ProfileField] {
				continue
			}
			claimed[m.ProfileField] = true
			matches = append(matches, m)
		}
	}

	// Fuzzy is a last resort: it runs only when every deterministic layer
	// came up empty for this field.
	if len(matches) == 0 {
		matches = fuzzyLayer(field, idx)
	}

	sortByConfidence(matches)
	return matches
}

func dedupeAndSort(matches []FieldMatch) []FieldMatch {
	claimed := make(map[string]bool)
	out := matches[:0]
	for _, m := range matches {
		if claimed[m.ProfileField] {
			continue
		}
		claimed[m.ProfileField] = true
		out = append(out, m)
	}
	sortByConfidence(out)
	return out
}

func sortByConfidence(matches []FieldMatch) {
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Confidence > matches[j].Confidence
	})
}
