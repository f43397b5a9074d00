package overlay

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lance13c/formpilot/internal/detect"
	"github.com/lance13c/formpilot/internal/fill"
	"github.com/lance13c/formpilot/internal/match"
)

// Script markers unique to one snippet each, so counting evaluations of a
// given kind is unambiguous (CSS class names also appear in the surface
// stylesheet and would overcount).
const (
	markBadgeAdd     = "fp.badges.set("
	markDropdownOpen = "fp.openField = id"
	markDropdownGone = "fp.dropdown.remove()"
	markValueWrite   = "desc.set.call"
	markToast        = "data-fp-toast"
	markSurfaceGone  = "delete window.__fp;"
)

type fakeRunner struct {
	mu      sync.Mutex
	scripts []string
}

func (f *fakeRunner) Eval(_ context.Context, script string, out interface{}) error {
	f.mu.Lock()
	f.scripts = append(f.scripts, script)
	f.mu.Unlock()
	if b, ok := out.(*bool); ok {
		*b = true
	}
	return nil
}

// count returns how many evaluated scripts contain every given substring.
func (f *fakeRunner) count(substrs ...string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, s := range f.scripts {
		all := true
		for _, sub := range substrs {
			if !strings.Contains(s, sub) {
				all = false
				break
			}
		}
		if all {
			n++
		}
	}
	return n
}

type fakeBinder struct {
	mu       sync.Mutex
	handlers map[string]func(string)
}

func newFakeBinder() *fakeBinder {
	return &fakeBinder{handlers: make(map[string]func(string))}
}

func (f *fakeBinder) Bind(name string, handler func(string)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers[name] = handler
	return nil
}

func (f *fakeBinder) Unbind(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.handlers, name)
	return nil
}

func (f *fakeBinder) bound(name string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.handlers[name]
	return ok
}

func (f *fakeBinder) emit(t *testing.T, ev pageEvent) {
	t.Helper()
	f.mu.Lock()
	h := f.handlers[eventBinding]
	f.mu.Unlock()
	require.NotNil(t, h, "overlay binding not installed")
	payload, err := json.Marshal(ev)
	require.NoError(t, err)
	h(string(payload))
}

func matchedField(id string, matches ...match.FieldMatch) match.MatchedField {
	return match.MatchedField{
		Field:   detect.Field{ID: id, Name: id, TagKind: detect.KindInput},
		Matches: matches,
	}
}

func newTestManager(t *testing.T) (*Manager, *fakeRunner, *fakeBinder) {
	t.Helper()
	runner := &fakeRunner{}
	binder := newFakeBinder()
	m := New(runner, binder, fill.New(runner), Options{
		ToastDuration:      20 * time.Millisecond,
		RepositionDebounce: 10 * time.Millisecond,
	})
	require.NoError(t, m.Start(context.Background()))
	t.Cleanup(m.Destroy)
	return m, runner, binder
}

// sync round-trips the event loop so everything posted before it has run.
func (m *Manager) sync() {
	m.GetMatchedFields()
}

func TestAttachToFields(t *testing.T) {
	m, runner, _ := newTestManager(t)

	m.AttachToFields([]match.MatchedField{
		matchedField("fp-1", match.FieldMatch{ProfileField: "email", Value: "a@b.c", Confidence: 0.95}),
		matchedField("fp-2"), // no candidates: no badge
	})

	got := m.GetMatchedFields()
	require.Len(t, got, 1)
	assert.Equal(t, "fp-1", got[0].Field.ID)
	assert.Equal(t, 1, runner.count(markBadgeAdd))
}

func TestAttachToFieldsIdempotent(t *testing.T) {
	m, runner, _ := newTestManager(t)
	mf := matchedField("fp-1", match.FieldMatch{ProfileField: "email", Value: "a@b.c", Confidence: 0.95})

	m.AttachToFields([]match.MatchedField{mf})
	m.AttachToFields([]match.MatchedField{mf})

	assert.Len(t, m.GetMatchedFields(), 1)
	assert.Equal(t, 1, runner.count(markBadgeAdd))
}

func TestFocusOpensDropdownAndSecondFieldSwitches(t *testing.T) {
	m, runner, binder := newTestManager(t)
	m.AttachToFields([]match.MatchedField{
		matchedField("fp-1", match.FieldMatch{ProfileField: "email", Value: "a@b.c", Confidence: 0.95}),
		matchedField("fp-2", match.FieldMatch{ProfileField: "phone", Value: "555", Confidence: 0.8}),
	})

	binder.emit(t, pageEvent{Kind: "focus", FieldID: "fp-1"})
	m.sync()
	assert.Equal(t, 1, runner.count(markDropdownOpen))

	// Focusing another field closes the first dropdown before opening the
	// second: never two open at once.
	binder.emit(t, pageEvent{Kind: "focus", FieldID: "fp-2"})
	m.sync()
	assert.Equal(t, 2, runner.count(markDropdownOpen))
	assert.Equal(t, 1, runner.count(markDropdownGone))
}

func TestFocusSameFieldDoesNotReopen(t *testing.T) {
	m, runner, binder := newTestManager(t)
	m.AttachToFields([]match.MatchedField{
		matchedField("fp-1", match.FieldMatch{ProfileField: "email", Value: "a@b.c", Confidence: 0.95}),
	})

	binder.emit(t, pageEvent{Kind: "focus", FieldID: "fp-1"})
	binder.emit(t, pageEvent{Kind: "focus", FieldID: "fp-1"})
	m.sync()
	assert.Equal(t, 1, runner.count(markDropdownOpen))
}

func TestBadgeTogglesDropdown(t *testing.T) {
	m, runner, binder := newTestManager(t)
	m.AttachToFields([]match.MatchedField{
		matchedField("fp-1", match.FieldMatch{ProfileField: "email", Value: "a@b.c", Confidence: 0.95}),
	})

	binder.emit(t, pageEvent{Kind: "badge", FieldID: "fp-1"})
	m.sync()
	assert.Equal(t, 1, runner.count(markDropdownOpen))

	binder.emit(t, pageEvent{Kind: "badge", FieldID: "fp-1"})
	m.sync()
	assert.Equal(t, 1, runner.count(markDropdownOpen), "second click must close, not reopen")
	assert.Equal(t, 1, runner.count(markDropdownGone))
}

func TestKeyboardNavigationWrapsAndFills(t *testing.T) {
	m, runner, binder := newTestManager(t)
	m.AttachToFields([]match.MatchedField{
		matchedField("fp-1",
			match.FieldMatch{ProfileField: "email", Value: "first@x.y", Confidence: 0.95},
			match.FieldMatch{ProfileField: "fullName", Value: "Second", Confidence: 0.8},
		),
	})

	binder.emit(t, pageEvent{Kind: "focus", FieldID: "fp-1"})
	// Highlight starts at 0. Three downs over two rows wrap to 1, 0, 1.
	binder.emit(t, pageEvent{Kind: "key", FieldID: "fp-1", Key: "ArrowDown"})
	binder.emit(t, pageEvent{Kind: "key", FieldID: "fp-1", Key: "ArrowDown"})
	binder.emit(t, pageEvent{Kind: "key", FieldID: "fp-1", Key: "ArrowDown"})
	binder.emit(t, pageEvent{Kind: "key", FieldID: "fp-1", Key: "Enter"})
	m.sync()

	assert.Equal(t, 1, runner.count(markValueWrite, `"Second"`))
	assert.Equal(t, 0, runner.count(markValueWrite, `"first@x.y"`))
}

func TestArrowUpWrapsBackward(t *testing.T) {
	m, runner, binder := newTestManager(t)
	m.AttachToFields([]match.MatchedField{
		matchedField("fp-1",
			match.FieldMatch{ProfileField: "email", Value: "first@x.y", Confidence: 0.95},
			match.FieldMatch{ProfileField: "fullName", Value: "Second", Confidence: 0.8},
		),
	})

	binder.emit(t, pageEvent{Kind: "focus", FieldID: "fp-1"})
	binder.emit(t, pageEvent{Kind: "key", FieldID: "fp-1", Key: "ArrowUp"}) // 0 -> 1
	binder.emit(t, pageEvent{Kind: "key", FieldID: "fp-1", Key: "Enter"})
	m.sync()

	assert.Equal(t, 1, runner.count(markValueWrite, `"Second"`))
}

func TestEscapeClosesWithoutFilling(t *testing.T) {
	m, runner, binder := newTestManager(t)
	m.AttachToFields([]match.MatchedField{
		matchedField("fp-1", match.FieldMatch{ProfileField: "email", Value: "a@b.c", Confidence: 0.95}),
	})

	binder.emit(t, pageEvent{Kind: "focus", FieldID: "fp-1"})
	binder.emit(t, pageEvent{Kind: "key", FieldID: "fp-1", Key: "Escape"})
	m.sync()

	assert.Equal(t, 0, runner.count(markValueWrite))
	assert.Equal(t, 1, runner.count(markDropdownGone))
}

func TestSelectFillsChosenCandidate(t *testing.T) {
	m, runner, binder := newTestManager(t)
	m.AttachToFields([]match.MatchedField{
		matchedField("fp-1",
			match.FieldMatch{ProfileField: "email", Value: "first@x.y", Confidence: 0.95},
			match.FieldMatch{ProfileField: "fullName", Value: "Second", Confidence: 0.8},
		),
	})

	binder.emit(t, pageEvent{Kind: "focus", FieldID: "fp-1"})
	binder.emit(t, pageEvent{Kind: "select", FieldID: "fp-1", Index: 1})
	m.sync()

	assert.Equal(t, 1, runner.count(markValueWrite, `"Second"`))
	// A fill result toast follows.
	assert.GreaterOrEqual(t, runner.count(markToast), 1)
}

func TestOutsideClickCloses(t *testing.T) {
	m, runner, binder := newTestManager(t)
	m.AttachToFields([]match.MatchedField{
		matchedField("fp-1", match.FieldMatch{ProfileField: "email", Value: "a@b.c", Confidence: 0.95}),
	})

	binder.emit(t, pageEvent{Kind: "focus", FieldID: "fp-1"})
	binder.emit(t, pageEvent{Kind: "outside", FieldID: "fp-1"})
	m.sync()
	assert.Equal(t, 1, runner.count(markDropdownGone))

	// Focus re-opens: the field went back to badge-shown, not dead.
	binder.emit(t, pageEvent{Kind: "focus", FieldID: "fp-1"})
	m.sync()
	assert.Equal(t, 2, runner.count(markDropdownOpen))
}

func TestRemovedFieldPurged(t *testing.T) {
	m, _, binder := newTestManager(t)
	m.AttachToFields([]match.MatchedField{
		matchedField("fp-1", match.FieldMatch{ProfileField: "email", Value: "a@b.c", Confidence: 0.95}),
	})

	binder.emit(t, pageEvent{Kind: "removed", FieldID: "fp-1"})
	assert.Empty(t, m.GetMatchedFields())

	// Stale events for the purged field are ignored.
	binder.emit(t, pageEvent{Kind: "focus", FieldID: "fp-1"})
	m.sync()
}

func TestMaxSuggestionsCapsDropdown(t *testing.T) {
	runner := &fakeRunner{}
	binder := newFakeBinder()
	m := New(runner, binder, fill.New(runner), Options{MaxSuggestions: 2})
	require.NoError(t, m.Start(context.Background()))
	defer m.Destroy()

	m.AttachToFields([]match.MatchedField{
		matchedField("fp-1",
			match.FieldMatch{ProfileField: "a", Value: "v1", Confidence: 0.9},
			match.FieldMatch{ProfileField: "b", Value: "v2", Confidence: 0.8},
			match.FieldMatch{ProfileField: "c", Value: "v3", Confidence: 0.7},
		),
	})
	binder.emit(t, pageEvent{Kind: "focus", FieldID: "fp-1"})
	m.sync()

	assert.Equal(t, 1, runner.count(markDropdownOpen, `"v2"`))
	assert.Equal(t, 0, runner.count(`"v3"`))
}

func TestMalformedEventIgnored(t *testing.T) {
	m, runner, binder := newTestManager(t)

	binder.mu.Lock()
	h := binder.handlers[eventBinding]
	binder.mu.Unlock()
	h("{not json")
	h("{}")
	m.sync()
	assert.Equal(t, 0, runner.count(markDropdownOpen))
}

func TestToastLifecycle(t *testing.T) {
	m, runner, _ := newTestManager(t)

	m.ShowToast("hello")
	m.sync()
	assert.Equal(t, 1, runner.count(markToast))

	// The Go-owned timer removes it after the hold.
	assert.Eventually(t, func() bool {
		return runner.count(markToast) >= 2 // show + remove
	}, time.Second, 5*time.Millisecond)
}

func TestShowFillResult(t *testing.T) {
	m, runner, _ := newTestManager(t)
	m.ShowFillResult(fill.Summary{Filled: 3, Skipped: 1, Failed: 0})
	m.sync()
	assert.Equal(t, 1, runner.count("Filled 3, skipped 1, failed 0"))
}

func TestViewportEventsDebounceIntoOneReposition(t *testing.T) {
	m, runner, binder := newTestManager(t)

	for i := 0; i < 5; i++ {
		binder.emit(t, pageEvent{Kind: "viewport"})
	}
	assert.Eventually(t, func() bool {
		return runner.count("positionBadge(id, badge)") >= 1
	}, time.Second, 5*time.Millisecond)
	m.sync()
	assert.Equal(t, 1, runner.count("fp.dropdown && fp.openField"))
}

func TestDestroyTearsDownAndIgnoresLateCalls(t *testing.T) {
	runner := &fakeRunner{}
	binder := newFakeBinder()
	m := New(runner, binder, fill.New(runner), Options{})
	require.NoError(t, m.Start(context.Background()))

	m.AttachToFields([]match.MatchedField{
		matchedField("fp-1", match.FieldMatch{ProfileField: "email", Value: "a@b.c", Confidence: 0.95}),
	})
	m.sync()

	m.Destroy()
	assert.Equal(t, 1, runner.count(markSurfaceGone))
	assert.False(t, binder.bound(eventBinding))

	// Post-destroy calls are no-ops, including a second Destroy.
	m.ShowToast("late")
	m.AttachToFields(nil)
	assert.Nil(t, m.GetMatchedFields())
	m.Destroy()
}

func TestOutsideGuardTreatsSurfaceClicksAsInside(t *testing.T) {
	// The surface's shadow root is closed: a document-level listener sees
	// clicks on suggestion rows retargeted to the host element, never the
	// dropdown node. The outside guard must therefore test the host, or
	// every row click would close the dropdown before its select event
	// lands.
	assert.Contains(t, openDropdownScript, "path.includes(fp.host)")
	assert.NotContains(t, openDropdownScript, "path.includes(dd)")

	m, runner, binder := newTestManager(t)
	m.AttachToFields([]match.MatchedField{
		matchedField("fp-1", match.FieldMatch{ProfileField: "email", Value: "a@b.c", Confidence: 0.95}),
	})
	binder.emit(t, pageEvent{Kind: "focus", FieldID: "fp-1"})
	// A select arriving with no stray outside event in front of it fills.
	binder.emit(t, pageEvent{Kind: "select", FieldID: "fp-1", Index: 0})
	m.sync()
	assert.Equal(t, 1, runner.count(markValueWrite, `"a@b.c"`))
}

func TestConfidenceTier(t *testing.T) {
	assert.Equal(t, "high", confidenceTier(0.95))
	assert.Equal(t, "high", confidenceTier(0.8))
	assert.Equal(t, "medium", confidenceTier(0.79))
	assert.Equal(t, "medium", confidenceTier(0.6))
	assert.Equal(t, "low", confidenceTier(0.59))
}
