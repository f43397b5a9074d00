package browser

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/lance13c/formpilot/internal/config"
	"github.com/lance13c/formpilot/internal/logging"
)

// Manager owns a Chrome instance and its root chromedp contexts.
type Manager struct {
	allocCtx    context.Context
	allocCancel context.CancelFunc
	ctx         context.Context
	cancel      context.CancelFunc
	page        *Page
}

// findChrome attempts to find a Chrome executable.
func findChrome() (string, error) {
	var paths []string

	switch runtime.GOOS {
	case "darwin":
		paths = []string{
			"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
			"/Applications/Chromium.app/Contents/MacOS/Chromium",
			"/Applications/Brave Browser.app/Contents/MacOS/Brave Browser",
		}
	case "linux":
		paths = []string{
			"google-chrome",
			"google-chrome-stable",
			"chromium",
			"chromium-browser",
		}
	case "windows":
		paths = []string{
			`C:\Program Files\Google\Chrome\Application\chrome.exe`,
			`C:\Program Files (x86)\Google\Chrome\Application\chrome.exe`,
		}
	}

	for _, path := range paths {
		if runtime.GOOS == "darwin" {
			if _, err := os.Stat(path); err == nil {
				return path, nil
			}
		} else {
			if _, err := exec.LookPath(path); err == nil {
				return path, nil
			}
		}
	}

	if path, err := exec.LookPath("chrome"); err == nil {
		return path, nil
	}

	return "", fmt.Errorf("Chrome browser not found. Please install Chrome, Chromium, or Brave")
}

// NewManager launches Chrome according to the browser configuration.
func NewManager(cfg config.BrowserConfig) (*Manager, error) {
	chromePath := cfg.ChromePath
	if chromePath == "" {
		var err error
		chromePath, err = findChrome()
		if err != nil {
			return nil, err
		}
	}
	logging.Info("Using Chrome from: %s", chromePath)

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.ExecPath(chromePath),
		chromedp.WindowSize(cfg.WindowW, cfg.WindowH),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
	)
	if !cfg.Headless {
		opts = append(opts, chromedp.Flag("headless", false))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)

	ctx, cancel := chromedp.NewContext(
		allocCtx,
		chromedp.WithLogf(func(format string, v ...interface{}) {
			logging.Debug("[Chrome] "+format, v...)
		}),
	)

	// Start Chrome. Use the context directly, not a timeout context: a
	// timeout would cancel the entire Chrome instance.
	if err := chromedp.Run(ctx); err != nil {
		allocCancel()
		cancel()
		return nil, fmt.Errorf("failed to start Chrome: %w", err)
	}

	m := &Manager{
		allocCtx:    allocCtx,
		allocCancel: allocCancel,
		ctx:         ctx,
		cancel:      cancel,
	}
	m.page = newPage(ctx)
	return m, nil
}

// Page returns the single page this manager drives.
func (m *Manager) Page() *Page {
	return m.page
}

// Navigate navigates the page to a URL and waits for the body.
func (m *Manager) Navigate(url string) error {
	err := chromedp.Run(m.ctx,
		chromedp.Navigate(url),
		chromedp.WaitVisible("body", chromedp.ByQuery),
	)
	if err != nil {
		if m.ctx.Err() != nil {
			return fmt.Errorf("Chrome context was cancelled")
		}
		return fmt.Errorf("failed to navigate to %s: %w", url, err)
	}
	// Give late scripts a moment to settle before the first scan.
	time.Sleep(500 * time.Millisecond)
	return nil
}

// PageInfo gets the current page URL and title.
func (m *Manager) PageInfo() (url string, title string, err error) {
	ctx, cancel := context.WithTimeout(m.ctx, 5*time.Second)
	defer cancel()

	err = chromedp.Run(ctx,
		chromedp.Location(&url),
		chromedp.Title(&title),
	)
	return url, title, err
}

// Close shuts down Chrome and releases the contexts.
func (m *Manager) Close() {
	if m.cancel != nil {
		m.cancel()
	}
	if m.allocCancel != nil {
		m.allocCancel()
	}
}
