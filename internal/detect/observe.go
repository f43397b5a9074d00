package detect

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/lance13c/formpilot/internal/browser"
	"github.com/lance13c/formpilot/internal/logging"
)

const mutationBinding = "__formpilotMutation"

// Watcher observes the page subtree for added candidate fields and invokes
// a callback after a quiet period, batching rapid bursts of DOM churn. It
// owns at most one live timer: a new burst replaces the pending timer
// rather than stacking another.
type Watcher struct {
	runner   browser.ScriptRunner
	binder   browser.Binder
	debounce time.Duration

	mu     sync.Mutex
	timer  *time.Timer
	closed bool
}

// Watch installs the in-page mutation observer and starts debouncing its
// reports into onChange. The callback runs off the CDP event goroutine.
func Watch(ctx context.Context, runner browser.ScriptRunner, binder browser.Binder, debounce time.Duration, onChange func()) (*Watcher, error) {
	if debounce <= 0 {
		debounce = 200 * time.Millisecond
	}
	w := &Watcher{runner: runner, binder: binder, debounce: debounce}

	err := binder.Bind(mutationBinding, func(string) {
		w.bump(onChange)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to bind mutation events: %w", err)
	}

	script := fmt.Sprintf(observeScript, mutationBinding, mutationBinding)
	if err := runner.Eval(ctx, script, nil); err != nil {
		binder.Unbind(mutationBinding)
		return nil, fmt.Errorf("failed to install mutation observer: %w", err)
	}

	logging.Debug("detect: mutation watcher armed (debounce %s)", debounce)
	return w, nil
}

// bump restarts the quiet-period timer.
func (w *Watcher) bump(onChange func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		fire := !w.closed
		w.mu.Unlock()
		if fire {
			onChange()
		}
	})
}

// Close cancels any pending timer and tears down the page-side observer.
func (w *Watcher) Close(ctx context.Context) {
	w.mu.Lock()
	w.closed = true
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	w.mu.Unlock()

	if err := w.runner.Eval(ctx, stopObserveScript, nil); err != nil {
		logging.Debug("detect: observer teardown: %v", err)
	}
	w.binder.Unbind(mutationBinding)
}
