// Package overlay renders in-page assistance: match badges next to
// detected fields, a suggestion dropdown, and transient toasts. All DOM
// work happens in page scripts; all state and decisions live in Go, on
// a single event-loop goroutine so no interaction ever races another.
package overlay

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/lance13c/formpilot/internal/browser"
	"github.com/lance13c/formpilot/internal/fill"
	"github.com/lance13c/formpilot/internal/logging"
	"github.com/lance13c/formpilot/internal/match"
)

// Options tunes overlay behavior. Zero values are replaced with the
// defaults used by the assist command.
type Options struct {
	MaxSuggestions     int
	ToastDuration      time.Duration
	RepositionDebounce time.Duration
}

func (o Options) withDefaults() Options {
	if o.MaxSuggestions <= 0 {
		o.MaxSuggestions = 5
	}
	if o.ToastDuration <= 0 {
		o.ToastDuration = 2500 * time.Millisecond
	}
	if o.RepositionDebounce <= 0 {
		o.RepositionDebounce = 50 * time.Millisecond
	}
	return o
}

// dropdownState tracks the one dropdown that may be open at a time.
type dropdownState struct {
	fieldID   string
	highlight int
	count     int
}

// Manager owns the overlay lifecycle for one page. Every mutation of
// its state runs on the internal loop goroutine; public methods post
// work to that loop and, where a result is needed, wait for a reply.
type Manager struct {
	runner browser.ScriptRunner
	binder browser.Binder
	filler *fill.Filler
	opts   Options

	cmds     chan func()
	done     chan struct{}
	stopOnce sync.Once

	// Loop-owned state. Never touched outside the run loop.
	ctx         context.Context
	attached    map[string]match.MatchedField
	order       []string
	open        *dropdownState
	repoTimer   *time.Timer
	toastSeq    int
	toastTimers map[int]*time.Timer
	destroyed   bool
}

// New creates a Manager. Call Start before any other method.
func New(runner browser.ScriptRunner, binder browser.Binder, filler *fill.Filler, opts Options) *Manager {
	return &Manager{
		runner:      runner,
		binder:      binder,
		filler:      filler,
		opts:        opts.withDefaults(),
		cmds:        make(chan func(), 16),
		done:        make(chan struct{}),
		attached:    make(map[string]match.MatchedField),
		toastTimers: make(map[int]*time.Timer),
	}
}

// Start installs the rendering surface and the interaction binding, then
// launches the event loop. The context must outlive the manager; it is
// used for every page evaluation triggered by user interaction.
func (m *Manager) Start(ctx context.Context) error {
	m.ctx = ctx
	if err := m.binder.Bind(eventBinding, m.onPageEvent); err != nil {
		return fmt.Errorf("overlay binding: %w", err)
	}

	nameArg, _ := json.Marshal(eventBinding)
	var ok bool
	if err := m.runner.Eval(ctx, fmt.Sprintf(surfaceScript, nameArg), &ok); err != nil {
		return fmt.Errorf("overlay surface: %w", err)
	}
	if err := m.runner.Eval(ctx, badgeHelperScript, &ok); err != nil {
		return fmt.Errorf("overlay surface: %w", err)
	}

	go m.run()
	return nil
}

func (m *Manager) run() {
	for {
		select {
		case fn := <-m.cmds:
			fn()
		case <-m.done:
			return
		}
	}
}

// post schedules fn on the loop. After Destroy it drops the work instead
// of blocking the caller.
func (m *Manager) post(fn func()) {
	select {
	case m.cmds <- fn:
	case <-m.done:
	}
}

func (m *Manager) onPageEvent(payload string) {
	ev, ok := decodeEvent(payload)
	if !ok {
		logging.Debug("overlay: dropping malformed event payload %q", payload)
		return
	}
	m.post(func() { m.handleEvent(ev) })
}

func (m *Manager) handleEvent(ev pageEvent) {
	if m.destroyed {
		return
	}
	switch ev.Kind {
	case "focus":
		if _, tracked := m.attached[ev.FieldID]; tracked {
			m.openDropdown(ev.FieldID)
		}
	case "badge":
		if m.open != nil && m.open.fieldID == ev.FieldID {
			m.closeDropdown()
		} else if _, tracked := m.attached[ev.FieldID]; tracked {
			m.openDropdown(ev.FieldID)
		}
	case "select":
		if m.open != nil && m.open.fieldID == ev.FieldID {
			m.selectSuggestion(ev.Index)
		}
	case "key":
		m.handleKey(ev.Key)
	case "outside":
		if m.open != nil && m.open.fieldID == ev.FieldID {
			m.closeDropdown()
		}
	case "removed":
		m.fieldRemoved(ev.FieldID)
	case "viewport":
		m.scheduleReposition()
	default:
		logging.Debug("overlay: unknown event kind %q", ev.Kind)
	}
}

// AttachToFields shows a badge for every matched field that has at
// least one candidate. Calling it again with already-attached fields is
// a no-op for those fields, so rescans after page mutations are safe.
func (m *Manager) AttachToFields(matched []match.MatchedField) {
	m.post(func() {
		if m.destroyed {
			return
		}
		for _, mf := range matched {
			if len(mf.Matches) == 0 {
				continue
			}
			if _, exists := m.attached[mf.Field.ID]; exists {
				m.attached[mf.Field.ID] = mf
				continue
			}
			idArg, _ := json.Marshal(mf.Field.ID)
			nameArg, _ := json.Marshal(eventBinding)
			var ok bool
			if err := m.runner.Eval(m.ctx, fmt.Sprintf(addBadgeScript, idArg, nameArg), &ok); err != nil {
				logging.Warn("overlay: badge for %s: %v", mf.Field.ID, err)
				continue
			}
			m.attached[mf.Field.ID] = mf
			m.order = append(m.order, mf.Field.ID)
		}
	})
}

// GetMatchedFields returns the fields currently carrying a badge, in
// attachment order.
func (m *Manager) GetMatchedFields() []match.MatchedField {
	reply := make(chan []match.MatchedField, 1)
	m.post(func() {
		out := make([]match.MatchedField, 0, len(m.order))
		for _, id := range m.order {
			if mf, ok := m.attached[id]; ok {
				out = append(out, mf)
			}
		}
		reply <- out
	})
	select {
	case fields := <-reply:
		return fields
	case <-m.done:
		return nil
	}
}

func (m *Manager) openDropdown(fieldID string) {
	if m.open != nil {
		if m.open.fieldID == fieldID {
			return
		}
		m.closeDropdown()
	}

	mf, ok := m.attached[fieldID]
	if !ok || len(mf.Matches) == 0 {
		return
	}
	limit := len(mf.Matches)
	if limit > m.opts.MaxSuggestions {
		limit = m.opts.MaxSuggestions
	}
	items := make([]dropdownItem, 0, limit)
	for _, fm := range mf.Matches[:limit] {
		items = append(items, dropdownItem{
			Value: fm.Value,
			Tier:  confidenceTier(fm.Confidence),
			Pct:   int(fm.Confidence * 100),
		})
	}

	nameArg, _ := json.Marshal(eventBinding)
	idArg, _ := json.Marshal(fieldID)
	itemsArg, _ := json.Marshal(items)
	var wrote bool
	script := fmt.Sprintf(openDropdownScript, nameArg, idArg, itemsArg, 0)
	if err := m.runner.Eval(m.ctx, script, &wrote); err != nil {
		logging.Warn("overlay: dropdown for %s: %v", fieldID, err)
		return
	}
	if !wrote {
		// Element vanished between detection and open.
		m.fieldRemoved(fieldID)
		return
	}
	m.open = &dropdownState{fieldID: fieldID, highlight: 0, count: len(items)}
}

func (m *Manager) closeDropdown() {
	if m.open == nil {
		return
	}
	var ok bool
	if err := m.runner.Eval(m.ctx, closeDropdownScript, &ok); err != nil {
		logging.Warn("overlay: dropdown close: %v", err)
	}
	m.open = nil
}

func (m *Manager) handleKey(key string) {
	if m.open == nil {
		return
	}
	switch key {
	case "ArrowDown":
		m.moveHighlight(1)
	case "ArrowUp":
		m.moveHighlight(-1)
	case "Enter":
		m.selectSuggestion(m.open.highlight)
	case "Escape":
		m.closeDropdown()
	}
}

func (m *Manager) moveHighlight(delta int) {
	if m.open.count == 0 {
		return
	}
	m.open.highlight = (m.open.highlight + delta + m.open.count) % m.open.count
	var ok bool
	if err := m.runner.Eval(m.ctx, fmt.Sprintf(highlightScript, m.open.highlight), &ok); err != nil {
		logging.Warn("overlay: highlight: %v", err)
	}
}

func (m *Manager) selectSuggestion(index int) {
	fieldID := m.open.fieldID
	mf, ok := m.attached[fieldID]
	if !ok || index < 0 || index >= len(mf.Matches) {
		m.closeDropdown()
		return
	}
	m.closeDropdown()

	chosen := mf.Matches[index]
	if m.filler.Fill(m.ctx, mf.Field, chosen.Value) {
		m.showToast(fmt.Sprintf("Filled %s", displayName(mf)))
	} else {
		m.showToast(fmt.Sprintf("Could not fill %s", displayName(mf)))
	}
}

func displayName(mf match.MatchedField) string {
	if mf.Field.Label != "" {
		return mf.Field.Label
	}
	if mf.Field.Name != "" {
		return mf.Field.Name
	}
	return "field"
}

// fieldRemoved purges all state for a field that left the DOM.
func (m *Manager) fieldRemoved(fieldID string) {
	if _, ok := m.attached[fieldID]; !ok {
		return
	}
	delete(m.attached, fieldID)
	for i, id := range m.order {
		if id == fieldID {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}

	idArg, _ := json.Marshal(fieldID)
	var ok bool
	if err := m.runner.Eval(m.ctx, fmt.Sprintf(removeBadgeScript, idArg), &ok); err != nil {
		logging.Debug("overlay: badge removal for %s: %v", fieldID, err)
	}
	if m.open != nil && m.open.fieldID == fieldID {
		m.closeDropdown()
	}
}

// scheduleReposition coalesces bursts of scroll and resize events into a
// single layout pass. A pending timer is replaced, not stacked.
func (m *Manager) scheduleReposition() {
	if m.repoTimer != nil {
		m.repoTimer.Stop()
	}
	m.repoTimer = time.AfterFunc(m.opts.RepositionDebounce, func() {
		m.post(func() {
			if m.destroyed {
				return
			}
			var ok bool
			if err := m.runner.Eval(m.ctx, repositionScript, &ok); err != nil {
				logging.Debug("overlay: reposition: %v", err)
			}
		})
	})
}

// ShowToast displays a transient message that dismisses itself after the
// configured duration. The dismissal timer lives in Go so teardown can
// cancel it.
func (m *Manager) ShowToast(message string) {
	m.post(func() {
		if m.destroyed {
			return
		}
		m.showToast(message)
	})
}

func (m *Manager) showToast(message string) {
	m.toastSeq++
	id := m.toastSeq
	msgArg, _ := json.Marshal(message)
	var ok bool
	if err := m.runner.Eval(m.ctx, fmt.Sprintf(showToastScript, id, msgArg), &ok); err != nil {
		logging.Warn("overlay: toast: %v", err)
		return
	}
	m.toastTimers[id] = time.AfterFunc(m.opts.ToastDuration, func() {
		m.post(func() {
			delete(m.toastTimers, id)
			if m.destroyed {
				return
			}
			var ok bool
			if err := m.runner.Eval(m.ctx, fmt.Sprintf(removeToastScript, id), &ok); err != nil {
				logging.Debug("overlay: toast removal: %v", err)
			}
		})
	})
}

// ShowFillResult reports a bulk fill outcome as a toast.
func (m *Manager) ShowFillResult(sum fill.Summary) {
	m.ShowToast(fmt.Sprintf("Filled %d, skipped %d, failed %d", sum.Filled, sum.Skipped, sum.Failed))
}

// Destroy removes every badge, dropdown, and toast, tears down the page
// surface and listeners, and stops the event loop. Subsequent calls are
// no-ops; the manager is unusable afterwards.
func (m *Manager) Destroy() {
	finished := make(chan struct{})
	m.post(func() {
		defer close(finished)
		if m.destroyed {
			return
		}
		m.destroyed = true

		if m.repoTimer != nil {
			m.repoTimer.Stop()
			m.repoTimer = nil
		}
		for id, t := range m.toastTimers {
			t.Stop()
			delete(m.toastTimers, id)
		}
		m.open = nil
		m.attached = make(map[string]match.MatchedField)
		m.order = nil

		var ok bool
		if err := m.runner.Eval(m.ctx, destroyScript, &ok); err != nil {
			logging.Warn("overlay: surface teardown: %v", err)
		}
		if err := m.binder.Unbind(eventBinding); err != nil {
			logging.Debug("overlay: unbind: %v", err)
		}
	})
	select {
	case <-finished:
	case <-m.done:
	}
	m.stopOnce.Do(func() { close(m.done) })
}
