package overlay

import "encoding/json"

// eventBinding is the single page-to-Go channel for overlay interactions.
const eventBinding = "__formpilotOverlay"

// pageEvent is the payload every page-side listener emits over the
// binding. Kind discriminates; unused fields are zero.
type pageEvent struct {
	Kind    string `json:"kind"`
	FieldID string `json:"fieldId"`
	Index   int    `json:"index"`
	Key     string `json:"key"`
}

func decodeEvent(payload string) (pageEvent, bool) {
	var ev pageEvent
	if err := json.Unmarshal([]byte(payload), &ev); err != nil {
		return pageEvent{}, false
	}
	return ev, ev.Kind != ""
}

// dropdownItem is the row model passed to the page when a dropdown
// opens. Tier buckets confidence for display: high at or above 0.8,
// medium at or above 0.6, low below.
type dropdownItem struct {
	Value string `json:"value"`
	Tier  string `json:"tier"`
	Pct   int    `json:"pct"`
}

func confidenceTier(confidence float64) string {
	switch {
	case confidence >= 0.8:
		return "high"
	case confidence >= 0.6:
		return "medium"
	default:
		return "low"
	}
}
