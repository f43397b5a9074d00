package browser

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"

	"github.com/lance13c/formpilot/internal/logging"
)

// ScriptRunner evaluates JavaScript in the live page. Components depend on
// this interface rather than on chromedp so tests can substitute a fake.
type ScriptRunner interface {
	// Eval runs script in the page. When out is non-nil the expression
	// result is unmarshalled into it.
	Eval(ctx context.Context, script string, out interface{}) error
}

// Binder exposes named bindings that page JavaScript can invoke to deliver
// events back into Go.
type Binder interface {
	// Bind registers handler under name; page code calls
	// window[name](payload) with a string payload.
	Bind(name string, handler func(payload string)) error
	// Unbind removes a previously registered binding.
	Unbind(name string) error
}

// Page wraps a chromedp target with script evaluation and event bindings.
type Page struct {
	ctx   context.Context
	queue chan bindingEvent

	mu        sync.RWMutex
	bindings  map[string]func(string)
	listening bool
}

// bindingEvent is one page-to-Go payload awaiting delivery.
type bindingEvent struct {
	name    string
	payload string
}

func newPage(ctx context.Context) *Page {
	p := &Page{
		ctx:      ctx,
		queue:    make(chan bindingEvent, 256),
		bindings: make(map[string]func(string)),
	}
	go p.dispatch()
	return p
}

// dispatch drains the event queue on a single goroutine, so payloads are
// delivered to handlers in the exact order the page emitted them.
// Dependent event pairs (a keypress then the selection it triggers) rely
// on that ordering.
func (p *Page) dispatch() {
	for {
		select {
		case ev := <-p.queue:
			p.mu.RLock()
			h := p.bindings[ev.name]
			p.mu.RUnlock()
			if h != nil {
				h(ev.payload)
			}
		case <-p.ctx.Done():
			return
		}
	}
}

// enqueue hands an event to the dispatcher without blocking the CDP
// connection; if the queue is saturated the event is dropped and logged.
func (p *Page) enqueue(name, payload string) {
	select {
	case p.queue <- bindingEvent{name: name, payload: payload}:
	default:
		logging.Warn("page: binding event queue full, dropping %s", name)
	}
}

// Eval implements ScriptRunner.
func (p *Page) Eval(ctx context.Context, script string, out interface{}) error {
	runCtx, cancel := context.WithTimeout(p.ctx, 10*time.Second)
	defer cancel()
	if ctx != nil {
		// Honor caller cancellation alongside the page lifetime.
		go func() {
			select {
			case <-ctx.Done():
				cancel()
			case <-runCtx.Done():
			}
		}()
	}

	if out == nil {
		return chromedp.Run(runCtx, chromedp.Evaluate(script, nil))
	}
	return chromedp.Run(runCtx, chromedp.Evaluate(script, out))
}

// Bind implements Binder. Payloads are queued off the CDP event stream and
// delivered serially by the dispatch goroutine: ordering is preserved and a
// slow handler cannot stall the browser connection, only the queue.
func (p *Page) Bind(name string, handler func(payload string)) error {
	p.mu.Lock()
	if !p.listening {
		chromedp.ListenTarget(p.ctx, func(ev interface{}) {
			if bc, ok := ev.(*runtime.EventBindingCalled); ok {
				p.enqueue(bc.Name, bc.Payload)
			}
		})
		p.listening = true
	}
	p.bindings[name] = handler
	p.mu.Unlock()

	if err := chromedp.Run(p.ctx, runtime.AddBinding(name)); err != nil {
		p.mu.Lock()
		delete(p.bindings, name)
		p.mu.Unlock()
		return fmt.Errorf("failed to add binding %s: %w", name, err)
	}
	logging.Debug("page: bound %s", name)
	return nil
}

// Unbind implements Binder.
func (p *Page) Unbind(name string) error {
	p.mu.Lock()
	delete(p.bindings, name)
	p.mu.Unlock()
	return chromedp.Run(p.ctx, runtime.RemoveBinding(name))
}
