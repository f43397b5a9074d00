package detect

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// resolveLabel picks caption text for a field: an externally associated
// label (by id reference), an ancestor label with its nested controls
// stripped out, the aria-label attribute, then the placeholder. First
// non-empty wins.
func resolveLabel(r rawField) string {
	if text := labelText(r.LabelForHTML); text != "" {
		return text
	}
	if text := labelText(r.AncestorLabelHTML); text != "" {
		return text
	}
	if r.AriaLabel != "" {
		return r.AriaLabel
	}
	return r.Placeholder
}

// labelText extracts the caption text from a label HTML fragment, removing
// any nested input/select/textarea so their values don't pollute the
// caption.
func labelText(fragment string) string {
	if fragment == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return ""
	}
	sel := doc.Find("label").First()
	if sel.Length() == 0 {
		return ""
	}
	sel.Find("input, select, textarea").Remove()
	return strings.Join(strings.Fields(sel.Text()), " ")
}
