package match

import (
	"regexp"
	"strings"

	"github.com/lance13c/formpilot/internal/detect"
)

// autocompleteKeys maps platform autofill hint tokens to profile keys.
// Shipping/billing qualifiers are stripped before lookup.
var autocompleteKeys = map[string]string{
	"name":               "fullName",
	"given-name":         "firstName",
	"additional-name":    "middleName",
	"family-name":        "lastName",
	"email":              "email",
	"tel":                "phone",
	"tel-national":       "phone",
	"street-address":     "streetAddress",
	"address-line1":      "streetAddress",
	"address-line2":      "addressLine2",
	"address-level2":     "city",
	"address-level1":     "state",
	"postal-code":        "zipCode",
	"country":            "country",
	"country-name":       "country",
	"bday":               "birthDate",
	"bday-day":           "birthDay",
	"bday-month":         "birthMonth",
	"bday-year":          "birthYear",
	"organization":       "organization",
	"organization-title": "jobTitle",
	"url":                "website",
	"cc-name":            "cardholderName",
	"cc-number":          "cardNumber",
	"cc-exp":             "cardExpiry",
	"cc-csc":             "cardCvc",
}

// stripQualifier removes a leading shipping/billing section qualifier from
// an autofill hint ("billing postal-code" -> "postal-code").
func stripQualifier(hint string) string {
	hint = strings.TrimSpace(strings.ToLower(hint))
	for _, q := range []string{"shipping ", "billing "} {
		if strings.HasPrefix(hint, q) {
			return strings.TrimSpace(strings.TrimPrefix(hint, q))
		}
	}
	return hint
}

// typeKeys maps semantic field types to profile keys. Only types whose
// mapping is unambiguous are listed; phone, date, and ssn fields resolve
// through the name/label layer instead.
var typeKeys = map[detect.FieldType][]string{
	detect.TypeEmail:   {"email"},
	detect.TypeAddress: {"streetAddress", "city", "state", "zipCode", "country"},
}

// keyPattern pairs a profile key with the identifier regex that claims it.
type keyPattern struct {
	key     string
	pattern *regexp.Regexp
}

// namePatterns are tested in fixed order against a field's identifier,
// label, element id, and placeholder.
var namePatterns = []keyPattern{
	{"firstName", regexp.MustCompile(`(?i)first.?name|fname|given.?name`)},
	{"middleName", regexp.MustCompile(`(?i)middle.?name|mname`)},
	{"lastName", regexp.MustCompile(`(?i)last.?name|lname|surname|family.?name`)},
	{"fullName", regexp.MustCompile(`(?i)full.?name|^name$|your.?name`)},
	{"email", regexp.MustCompile(`(?i)e.?mail`)},
	{"phone", regexp.MustCompile(`(?i)phone|mobile|telephone|\btel\b|cell`)},
	{"streetAddress", regexp.MustCompile(`(?i)street|address.?line.?1|^address$|^addr`)},
	{"addressLine2", regexp.MustCompile(`(?i)address.?line.?2|apt|suite|unit`)},
	{"city", regexp.MustCompile(`(?i)city|town|locality`)},
	{"state", regexp.MustCompile(`(?i)\bstate\b|province|region`)},
	{"zipCode", regexp.MustCompile(`(?i)zip|postal`)},
	{"country", regexp.MustCompile(`(?i)country|nation`)},
	{"birthDate", regexp.MustCompile(`(?i)birth|\bdob\b|date.?of.?birth`)},
	{"ssn", regexp.MustCompile(`(?i)ssn|social.?security|tax.?id|itin`)},
	{"organization", regexp.MustCompile(`(?i)company|organi[sz]ation|employer`)},
	{"jobTitle", regexp.MustCompile(`(?i)job.?title|position|occupation`)},
	{"website", regexp.MustCompile(`(?i)website|web.?site|homepage|\burl\b`)},
}
