package fill

import "strings"

// Option is one entry of a choice-list element.
type Option struct {
	Value string `json:"value"`
	Text  string `json:"text"`
}

// ChooseOption picks the option a target value should select. Strategies
// in order: exact match on raw option value, exact match on display text,
// then bidirectional substring containment between display text and the
// target. All comparisons are case-insensitive. The containment fallback
// is deliberately bidirectional, which can pick surprising options for
// very short targets; that behavior is inherited and kept.
func ChooseOption(options []Option, target string) (Option, bool) {
	want := strings.ToLower(strings.TrimSpace(target))
	if want == "" {
		return Option{}, false
	}

	for _, opt := range options {
		if strings.ToLower(opt.Value) == want {
			return opt, true
		}
	}
	for _, opt := range options {
		if strings.ToLower(strings.TrimSpace(opt.Text)) == want {
			return opt, true
		}
	}
	for _, opt := range options {
		text := strings.ToLower(strings.TrimSpace(opt.Text))
		if text == "" {
			continue
		}
		if strings.Contains(text, want) || strings.Contains(want, text) {
			return opt, true
		}
	}
	return Option{}, false
}
