package match

import (
	"github.com/lance13c/formpilot/internal/detect"
)

// Each layer is a pure function from (field, profile index) to candidate
// matches. The pipeline in matcher.go applies them in fixed order with
// first-writer-wins semantics per profile key.

// autocompleteLayer resolves the platform autofill hint through the hint
// table.
func autocompleteLayer(field detect.Field, idx map[string]string) []FieldMatch {
	if field.AutocompleteHint == "" {
		return nil
	}
	token := stripQualifier(field.AutocompleteHint)
	key, ok := autocompleteKeys[token]
	if !ok {
		return nil
	}
	value, ok := idx[key]
	if !ok {
		return nil
	}
	return []FieldMatch{{
		ProfileField: key,
		Value:        value,
		Confidence:   confAutocomplete,
		Method:       MethodAutocomplete,
	}}
}

// typeLayer emits one candidate per profile key the field's semantic type
// maps to.
func typeLayer(field detect.Field, idx map[string]string) []FieldMatch {
	keys, ok := typeKeys[field.Type]
	if !ok {
		return nil
	}
	var out []FieldMatch
	for _, key := range keys {
		value, ok := idx[key]
		if !ok {
			continue
		}
		out = append(out, FieldMatch{
			ProfileField: key,
			Value:        value,
			Confidence:   confType,
			Method:       MethodType,
		})
	}
	return out
}

// nameLayer tests each profile key's pattern against the field's
// identifier, label, element id, and placeholder, in that order; the first
// text that hits claims the key.
func nameLayer(field detect.Field, idx map[string]string) []FieldMatch {
	candidates := []string{field.Name, field.Label, field.ElemID, field.Placeholder}
	var out []FieldMatch
	for _, kp := range namePatterns {
		value, ok := idx[kp.key]
		if !ok {
			continue
		}
		for _, text := range candidates {
			if text == "" {
				continue
			}
			if kp.pattern.MatchString(text) {
				out = append(out, FieldMatch{
					ProfileField: kp.key,
					Value:        value,
					Confidence:   confName,
					Method:       MethodName,
				})
				break
			}
		}
	}
	return out
}

// fuzzyLayer compares the field's texts against every profile key by
// normalized similarity, over the same candidate set the name layer
// reads. Only consulted when the deterministic layers all came up empty;
// matches below the similarity threshold are discarded.
func fuzzyLayer(field detect.Field, idx map[string]string) []FieldMatch {
	candidates := []string{field.Name, field.Label, field.ElemID, field.Placeholder}
	best := make(map[string]float64)
	for key := range idx {
		for _, text := range candidates {
			if text == "" {
				continue
			}
			sim := Similarity(text, key)
			if sim < fuzzyThreshold {
				continue
			}
			if sim > best[key] {
				best[key] = sim
			}
		}
	}

	var out []FieldMatch
	// Iterate patterns-first for a deterministic order, then the rest.
	emitted := make(map[string]bool)
	emit := func(key string) {
		sim, ok := best[key]
		if !ok || emitted[key] {
			return
		}
		emitted[key] = true
		out = append(out, FieldMatch{
			ProfileField: key,
			Value:        idx[key],
			Confidence:   sim * fuzzyScale,
			Method:       MethodFuzzy,
		})
	}
	for _, kp := range namePatterns {
		emit(kp.key)
	}
	for key := range best {
		emit(key)
	}
	return out
}
