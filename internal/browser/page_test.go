package browser

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func registerHandler(p *Page, name string, h func(string)) {
	p.mu.Lock()
	p.bindings[name] = h
	p.mu.Unlock()
}

func TestBindingEventsDeliveredInOrder(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	p := newPage(ctx)

	var mu sync.Mutex
	var got []string
	record := func(prefix string) func(string) {
		return func(payload string) {
			mu.Lock()
			got = append(got, prefix+payload)
			mu.Unlock()
		}
	}
	registerHandler(p, "keys", record("k"))
	registerHandler(p, "clicks", record("c"))

	// Interleave two bindings the way a keypress/selection pair arrives.
	var want []string
	for i := 0; i < 50; i++ {
		p.enqueue("keys", fmt.Sprintf("%d", i))
		p.enqueue("clicks", fmt.Sprintf("%d", i))
		want = append(want, fmt.Sprintf("k%d", i), fmt.Sprintf("c%d", i))
	}

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) == len(want)
	}, time.Second, time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, want, got)
}

func TestBindingEventsForUnknownNameDropped(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	p := newPage(ctx)

	var mu sync.Mutex
	var got []string
	registerHandler(p, "known", func(payload string) {
		mu.Lock()
		got = append(got, payload)
		mu.Unlock()
	})

	p.enqueue("unknown", "x")
	p.enqueue("known", "y")

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) == 1
	}, time.Second, time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"y"}, got)
}
