package fill

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChooseOption(t *testing.T) {
	countries := []Option{
		{Value: "", Text: "Select a country"},
		{Value: "US", Text: "United States"},
		{Value: "GB", Text: "United Kingdom"},
		{Value: "DE", Text: "Germany"},
	}

	tests := []struct {
		name      string
		options   []Option
		target    string
		wantValue string
		wantOK    bool
	}{
		{"exact value", countries, "US", "US", true},
		{"exact value case-insensitive", countries, "us", "US", true},
		{"exact text", countries, "United States", "US", true},
		{"exact text trimmed", countries, "  Germany  ", "DE", true},
		{"target contains text", countries, "United States of America", "US", true},
		{"text contains target", countries, "Kingdom", "GB", true},
		{"no match", countries, "France", "", false},
		{"empty target", countries, "", "", false},
		{"blank target", countries, "   ", "", false},
		{"no options", nil, "US", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ChooseOption(tt.options, tt.target)
			assert.Equal(t, tt.wantOK, ok)
			if ok {
				assert.Equal(t, tt.wantValue, got.Value)
			}
		})
	}
}

func TestChooseOptionValueBeatsText(t *testing.T) {
	// "DE" appears as another option's text, but a raw value match is
	// always preferred.
	options := []Option{
		{Value: "X1", Text: "DE"},
		{Value: "DE", Text: "Germany"},
	}
	got, ok := ChooseOption(options, "DE")
	assert.True(t, ok)
	assert.Equal(t, "DE", got.Value)
}

func TestChooseOptionSkipsBlankTextInContainment(t *testing.T) {
	// The placeholder option has empty text; containment must not match it.
	options := []Option{
		{Value: "", Text: ""},
		{Value: "GB", Text: "United Kingdom"},
	}
	got, ok := ChooseOption(options, "Kingdom")
	assert.True(t, ok)
	assert.Equal(t, "GB", got.Value)
}
