package detect

import "strings"

// subtypeHints maps input subtypes that carry their own semantics.
var subtypeHints = map[string]FieldType{
	"email":  TypeEmail,
	"tel":    TypePhone,
	"date":   TypeDate,
	"number": TypeNumber,
}

// keywordFamily is one ordered family of identifier keywords. The first
// family with any matching keyword decides the type.
type keywordFamily struct {
	fieldType FieldType
	keywords  []string
}

// keywordFamilies are checked in fixed priority order.
var keywordFamilies = []keywordFamily{
	{TypeEmail, []string{"email", "e-mail", "e_mail"}},
	{TypePhone, []string{"phone", "mobile", "tel", "cell", "fax"}},
	{TypeDate, []string{"date", "dob", "birth", "expiry", "expiration"}},
	{TypeAddress, []string{"address", "street", "city", "state", "province", "zip", "postal", "country"}},
	{TypeSSN, []string{"ssn", "social_security", "social-security", "socialsecurity", "tax_id", "tax-id", "taxid", "itin", "ein"}},
	{TypeNumber, []string{"number", "amount", "quantity", "qty", "count", "age"}},
}

// ClassifyType derives the semantic type of a field. Input-subtype hints
// take priority; otherwise the identifier is matched case-insensitively
// against the keyword families. No match means plain text.
func ClassifyType(inputSubtype, identifier string) FieldType {
	if t, ok := subtypeHints[inputSubtype]; ok {
		return t
	}

	ident := strings.ToLower(identifier)
	if ident == "" {
		return TypeText
	}
	for _, family := range keywordFamilies {
		for _, kw := range family.keywords {
			if strings.Contains(ident, kw) {
				return family.fieldType
			}
		}
	}
	return TypeText
}
