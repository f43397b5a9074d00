// Package shortcuts wires page-level keyboard chords to assistant
// actions. The page listener only reports chord names; what each chord
// does is decided by the Go handlers passed at bind time, so two
// instances never share state.
package shortcuts

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/lance13c/formpilot/internal/browser"
	"github.com/lance13c/formpilot/internal/logging"
)

const shortcutBinding = "__formpilotShortcut"

// Chord names emitted by the page listener.
const (
	ActionFillAll        = "fill-all"
	ActionRefreshProfile = "refresh-profile"
	ActionInfer          = "infer"
)

// listenerScript installs one capturing keydown listener that maps
// Alt+Shift chords to action names. Arguments: binding name (JSON
// string).
const listenerScript = `
	(() => {
		if (window.__fpShortcuts) return true;
		const handler = e => {
			if (!e.altKey || !e.shiftKey || e.ctrlKey || e.metaKey) return;
			const actions = { KeyF: 'fill-all', KeyP: 'refresh-profile', KeyI: 'infer' };
			const action = actions[e.code];
			if (!action) return;
			e.preventDefault();
			e.stopPropagation();
			const fn = window[%s];
			if (fn) fn(JSON.stringify({ action: action }));
		};
		document.addEventListener('keydown', handler, true);
		window.__fpShortcuts = handler;
		return true;
	})()
`

const removeListenerScript = `
	(() => {
		if (!window.__fpShortcuts) return true;
		document.removeEventListener('keydown', window.__fpShortcuts, true);
		delete window.__fpShortcuts;
		return true;
	})()
`

// Handlers maps each chord to its action. Nil entries are ignored.
type Handlers struct {
	FillAll        func() // Alt+Shift+F
	RefreshProfile func() // Alt+Shift+P
	Infer          func() // Alt+Shift+I
}

// Shortcuts owns one installed listener and its binding.
type Shortcuts struct {
	runner   browser.ScriptRunner
	binder   browser.Binder
	handlers Handlers
}

// Bind installs the page listener and routes its chords to the given
// handlers. Call Close to remove both.
func Bind(ctx context.Context, runner browser.ScriptRunner, binder browser.Binder, handlers Handlers) (*Shortcuts, error) {
	s := &Shortcuts{runner: runner, binder: binder, handlers: handlers}
	if err := binder.Bind(shortcutBinding, s.dispatch); err != nil {
		return nil, fmt.Errorf("shortcut binding: %w", err)
	}

	nameArg, _ := json.Marshal(shortcutBinding)
	var ok bool
	if err := runner.Eval(ctx, fmt.Sprintf(listenerScript, nameArg), &ok); err != nil {
		_ = binder.Unbind(shortcutBinding)
		return nil, fmt.Errorf("shortcut listener: %w", err)
	}
	return s, nil
}

func (s *Shortcuts) dispatch(payload string) {
	var msg struct {
		Action string `json:"action"`
	}
	if err := json.Unmarshal([]byte(payload), &msg); err != nil {
		logging.Debug("shortcuts: malformed payload %q", payload)
		return
	}

	var fn func()
	switch msg.Action {
	case ActionFillAll:
		fn = s.handlers.FillAll
	case ActionRefreshProfile:
		fn = s.handlers.RefreshProfile
	case ActionInfer:
		fn = s.handlers.Infer
	default:
		logging.Debug("shortcuts: unknown action %q", msg.Action)
		return
	}
	if fn != nil {
		logging.Debug("shortcuts: %s", msg.Action)
		fn()
	}
}

// Close removes the page listener and the binding.
func (s *Shortcuts) Close(ctx context.Context) error {
	var ok bool
	if err := s.runner.Eval(ctx, removeListenerScript, &ok); err != nil {
		logging.Warn("shortcuts: listener removal: %v", err)
	}
	return s.binder.Unbind(shortcutBinding)
}
