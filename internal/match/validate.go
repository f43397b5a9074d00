package match

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/lance13c/formpilot/internal/detect"
)

var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	datePatterns = []*regexp.Regexp{
		regexp.MustCompile(`^\d{4}[/\-.]\d{1,2}[/\-.]\d{1,2}$`),
		regexp.MustCompile(`^\d{1,2}[/\-.]\d{1,2}[/\-.]\d{2,4}$`),
		regexp.MustCompile(`(?i)^\d{1,2}\s+(Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\s+\d{4}$`),
	}
	nonDigit = regexp.MustCompile(`\D`)
)

// ValidateValue reports whether a candidate value is plausible for a
// field's semantic type. Advisory only: validation never changes match
// results or fill counts, it just lets callers flag suspect profile data.
func ValidateValue(fieldType detect.FieldType, value string) bool {
	switch fieldType {
	case detect.TypeEmail:
		return emailPattern.MatchString(value)
	case detect.TypePhone:
		digits := nonDigit.ReplaceAllString(value, "")
		return len(digits) >= 10 && len(digits) <= 12
	case detect.TypeDate:
		for _, p := range datePatterns {
			if p.MatchString(value) {
				return true
			}
		}
		return false
	case detect.TypeNumber:
		_, err := strconv.ParseFloat(strings.ReplaceAll(value, ",", ""), 64)
		return err == nil
	default:
		return true
	}
}
