// Package fill writes candidate values into page fields in a way both
// native and reactive-framework bound inputs observe.
package fill

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/lance13c/formpilot/internal/browser"
	"github.com/lance13c/formpilot/internal/detect"
	"github.com/lance13c/formpilot/internal/logging"
	"github.com/lance13c/formpilot/internal/match"
)

// Summary reports the outcome of a bulk fill.
type Summary struct {
	Filled  int `json:"filled"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

// Filler injects values into page fields.
type Filler struct {
	runner browser.ScriptRunner
}

// New creates a Filler over the given script runner.
func New(runner browser.ScriptRunner) *Filler {
	return &Filler{runner: runner}
}

// Fill writes value into the field. Returns true on success; every failure
// mode (vanished element, unmatched option, script error) is caught,
// logged, and reported as false rather than propagated.
func (f *Filler) Fill(ctx context.Context, field detect.Field, value string) bool {
	var ok bool
	var err error
	if field.TagKind == detect.KindSelect {
		ok, err = f.fillSelect(ctx, field, value)
	} else {
		ok, err = f.fillText(ctx, field, value)
	}
	if err != nil {
		logging.Warn("fill: field %s (%s): %v", field.ID, field.Name, err)
		return false
	}
	if !ok {
		logging.Debug("fill: field %s (%s): no write performed", field.ID, field.Name)
	}
	return ok
}

func (f *Filler) fillText(ctx context.Context, field detect.Field, value string) (bool, error) {
	if field.InputSubtype == "date" {
		value = NormalizeDate(value)
	}

	idArg, err := json.Marshal(field.ID)
	if err != nil {
		return false, err
	}
	valArg, err := json.Marshal(value)
	if err != nil {
		return false, err
	}

	var wrote bool
	script := fmt.Sprintf(setValueScript, idArg, valArg)
	if err := f.runner.Eval(ctx, script, &wrote); err != nil {
		return false, fmt.Errorf("value write failed: %w", err)
	}
	return wrote, nil
}

func (f *Filler) fillSelect(ctx context.Context, field detect.Field, value string) (bool, error) {
	idArg, err := json.Marshal(field.ID)
	if err != nil {
		return false, err
	}

	var options []Option
	if err := f.runner.Eval(ctx, fmt.Sprintf(readOptionsScript, idArg), &options); err != nil {
		return false, fmt.Errorf("option read failed: %w", err)
	}

	chosen, ok := ChooseOption(options, value)
	if !ok {
		return false, nil
	}

	valArg, err := json.Marshal(chosen.Value)
	if err != nil {
		return false, err
	}
	var wrote bool
	script := fmt.Sprintf(setSelectScript, idArg, valArg)
	if err := f.runner.Eval(ctx, script, &wrote); err != nil {
		return false, fmt.Errorf("option write failed: %w", err)
	}
	return wrote, nil
}

// Guarded write outcomes, as reported by the page.
const (
	outcomeFilled   = "filled"
	outcomeOccupied = "occupied"
	outcomeMissing  = "missing"
)

// fillIfEmpty writes value only when the element's live content is blank.
// The check runs in the same page evaluation as the write, so content the
// user typed after detection is seen and preserved.
func (f *Filler) fillIfEmpty(ctx context.Context, field detect.Field, value string) (string, error) {
	idArg, err := json.Marshal(field.ID)
	if err != nil {
		return "", err
	}

	var script string
	if field.TagKind == detect.KindSelect {
		var options []Option
		if err := f.runner.Eval(ctx, fmt.Sprintf(readOptionsScript, idArg), &options); err != nil {
			return "", fmt.Errorf("option read failed: %w", err)
		}
		chosen, ok := ChooseOption(options, value)
		if !ok {
			return "", nil
		}
		valArg, err := json.Marshal(chosen.Value)
		if err != nil {
			return "", err
		}
		script = fmt.Sprintf(setSelectGuardedScript, idArg, valArg)
	} else {
		if field.InputSubtype == "date" {
			value = NormalizeDate(value)
		}
		valArg, err := json.Marshal(value)
		if err != nil {
			return "", err
		}
		script = fmt.Sprintf(setValueGuardedScript, idArg, valArg)
	}

	var outcome string
	if err := f.runner.Eval(ctx, script, &outcome); err != nil {
		return "", fmt.Errorf("guarded write failed: %w", err)
	}
	return outcome, nil
}

// FillAll fills every unambiguous, currently-empty matched field. A field
// with more than one candidate is skipped and left for manual choice; a
// field holding non-blank content is skipped so user-entered data is never
// overwritten. The emptiness check is taken against the live element, not
// the detection snapshot: a value typed between detection and the bulk
// fill also counts as occupied. One field's failure never blocks the rest.
func (f *Filler) FillAll(ctx context.Context, matched []match.MatchedField) Summary {
	var sum Summary
	for _, mf := range matched {
		if len(mf.Matches) != 1 || strings.TrimSpace(mf.Field.Value) != "" {
			sum.Skipped++
			continue
		}
		if !match.ValidateValue(mf.Field.Type, mf.Matches[0].Value) {
			// Advisory only; the write still proceeds.
			logging.Warn("fill: value for %s (%s) fails %s validation", mf.Field.ID, mf.Field.Name, mf.Field.Type)
		}
		outcome, err := f.fillIfEmpty(ctx, mf.Field, mf.Matches[0].Value)
		switch {
		case err != nil:
			logging.Warn("fill: field %s (%s): %v", mf.Field.ID, mf.Field.Name, err)
			sum.Failed++
		case outcome == outcomeFilled:
			sum.Filled++
		case outcome == outcomeOccupied:
			logging.Debug("fill: field %s already has content, skipping", mf.Field.ID)
			sum.Skipped++
		default:
			// Vanished element or no matching option.
			sum.Failed++
		}
	}
	logging.Info("fill: bulk result filled=%d skipped=%d failed=%d", sum.Filled, sum.Skipped, sum.Failed)
	return sum
}
