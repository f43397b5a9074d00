package match

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lance13c/formpilot/internal/detect"
)

func TestValidateValue(t *testing.T) {
	tests := []struct {
		name      string
		fieldType detect.FieldType
		value     string
		want      bool
	}{
		{"valid email", detect.TypeEmail, "ada@example.com", true},
		{"email missing tld", detect.TypeEmail, "ada@example", false},
		{"email missing at", detect.TypeEmail, "ada.example.com", false},

		{"phone with separators", detect.TypePhone, "(555) 010-2030", true},
		{"phone eleven digits", detect.TypePhone, "+1 555 010 2030", true},
		{"phone too short", detect.TypePhone, "555-0102", false},
		{"phone too long", detect.TypePhone, "1234567890123", false},

		{"iso date", detect.TypeDate, "1990-12-25", true},
		{"slash date", detect.TypeDate, "12/25/1990", true},
		{"dotted date", detect.TypeDate, "25.12.1990", true},
		{"month name date", detect.TypeDate, "25 December 1990", true},
		{"not a date", detect.TypeDate, "next tuesday", false},

		{"integer", detect.TypeNumber, "42", true},
		{"decimal with thousands", detect.TypeNumber, "1,234.5", true},
		{"not a number", detect.TypeNumber, "forty-two", false},

		{"text always passes", detect.TypeText, "anything at all", true},
		{"address always passes", detect.TypeAddress, "12 Analytical Way", true},
		{"ssn not checked", detect.TypeSSN, "whatever", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateValue(tt.fieldType, tt.value))
		})
	}
}
