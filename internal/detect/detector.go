package detect

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/lance13c/formpilot/internal/browser"
	"github.com/lance13c/formpilot/internal/logging"
)

// Detector finds and classifies fillable fields on the page a runner is
// bound to.
type Detector struct {
	runner browser.ScriptRunner
}

// New creates a Detector over the given script runner.
func New(runner browser.ScriptRunner) *Detector {
	return &Detector{runner: runner}
}

// DetectFields returns the fields currently visible and eligible on the
// page. Re-running it is idempotent and, beyond tagging elements with the
// generated id attribute, side-effect-free.
func (d *Detector) DetectFields(ctx context.Context) ([]Field, error) {
	var raw []rawField
	if err := d.runner.Eval(ctx, scanScript, &raw); err != nil {
		return nil, fmt.Errorf("field scan failed: %w", err)
	}

	fields := make([]Field, 0, len(raw))
	for _, r := range raw {
		f := Field{
			ID:               r.ID,
			Name:             resolveName(r),
			Label:            resolveLabel(r),
			TagKind:          TagKind(r.Tag),
			InputSubtype:     r.Type,
			Value:            r.Value,
			IsRequired:       r.Required,
			AutocompleteHint: r.Autocomplete,
			ElemID:           r.ElemID,
			Placeholder:      r.Placeholder,
		}
		f.Type = ClassifyType(f.InputSubtype, f.Name)
		fields = append(fields, f)
	}

	logging.Debug("detect: %d eligible fields", len(fields))
	return fields, nil
}

// MarkProcessed flags a field as handled; the scan's exclusion filter skips
// flagged elements, preventing reprocessing loops. Idempotent.
func (d *Detector) MarkProcessed(ctx context.Context, fieldID string) error {
	quoted, err := json.Marshal(fieldID)
	if err != nil {
		return err
	}
	var found bool
	if err := d.runner.Eval(ctx, fmt.Sprintf(markProcessedScript, quoted), &found); err != nil {
		return fmt.Errorf("mark processed failed: %w", err)
	}
	if !found {
		logging.Debug("detect: field %s no longer on page", fieldID)
	}
	return nil
}

// resolveName picks the best identifying string for a field:
// name attribute, element id, placeholder, aria-label, then the platform
// autofill hint. First non-empty wins.
func resolveName(r rawField) string {
	for _, candidate := range []string{r.Name, r.ElemID, r.Placeholder, r.AriaLabel, r.Autocomplete} {
		if candidate != "" {
			return candidate
		}
	}
	return ""
}
