package rod

import (
	"sync"
	"sync/atomic"

	"github.com/fwojciec/docvault"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
)

// DefaultRecycleAfter is the default number of pages rendered before the
// browser is restarted.
const DefaultRecycleAfter = 75

// BrowserManager owns a headless Chrome process and restarts it after a
// fixed number of rendered pages. Chrome's resident memory grows under
// sustained load and does not shrink when pages close.
//
// BrowserManager is safe for concurrent use.
type BrowserManager struct {
	mu           sync.Mutex
	browser      *rod.Browser
	launcher     *launcher.Launcher
	pages        atomic.Int64
	recycleAfter int64
	closed       atomic.Bool
}

// ManagerOption configures a BrowserManager.
type ManagerOption func(*BrowserManager)

// WithRecycleAfter sets how many pages are rendered before the browser
// is restarted.
func WithRecycleAfter(n int64) ManagerOption {
	return func(bm *BrowserManager) {
		bm.recycleAfter = n
	}
}

// NewBrowserManager launches a headless browser.
// Close must be called when the BrowserManager is no longer needed.
func NewBrowserManager(opts ...ManagerOption) (*BrowserManager, error) {
	bm := &BrowserManager{recycleAfter: DefaultRecycleAfter}
	for _, opt := range opts {
		opt(bm)
	}

	browser, l, err := launch()
	if err != nil {
		return nil, err
	}
	bm.browser, bm.launcher = browser, l
	return bm, nil
}

// Browser returns the current browser, restarting it first when the page
// budget is spent. Callers report each rendered page with PageDone.
func (bm *BrowserManager) Browser() (*rod.Browser, error) {
	if bm.closed.Load() {
		return nil, docvault.Errorf(docvault.EINVALID, "browser manager is closed")
	}

	bm.mu.Lock()
	defer bm.mu.Unlock()

	if bm.pages.Load() >= bm.recycleAfter {
		bm.recycle()
	}
	return bm.browser, nil
}

// PageDone records one rendered page toward the recycle threshold.
func (bm *BrowserManager) PageDone() {
	bm.pages.Add(1)
}

// Close shuts the browser down. Close is safe to call multiple times.
func (bm *BrowserManager) Close() error {
	if !bm.closed.CompareAndSwap(false, true) {
		return nil
	}

	bm.mu.Lock()
	defer bm.mu.Unlock()

	err := shutdown(bm.browser, bm.launcher)
	bm.browser, bm.launcher = nil, nil
	return err
}

// LauncherPID returns the process ID of the browser launcher, or 0 once
// the manager is closed.
func (bm *BrowserManager) LauncherPID() int {
	bm.mu.Lock()
	defer bm.mu.Unlock()
	if bm.launcher == nil {
		return 0
	}
	return bm.launcher.PID()
}

// recycle swaps in a fresh browser. The old one is kept when the new
// launch fails. Must be called with mu held.
func (bm *BrowserManager) recycle() {
	browser, l, err := launch()
	if err != nil {
		return
	}
	_ = shutdown(bm.browser, bm.launcher)
	bm.browser, bm.launcher = browser, l
	bm.pages.Store(0)
}

func launch() (*rod.Browser, *launcher.Launcher, error) {
	l := launcher.New().
		Set("disable-background-timer-throttling").
		Set("disable-backgrounding-occluded-windows").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Leakless(true).
		Headless(true)

	u, err := l.Launch()
	if err != nil {
		return nil, nil, docvault.Errorf(docvault.ETRANSPORT, "launching browser: %v", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, nil, docvault.Errorf(docvault.ETRANSPORT, "connecting to browser: %v", err)
	}
	return browser, l, nil
}

func shutdown(browser *rod.Browser, l *launcher.Launcher) error {
	var err error
	if browser != nil {
		err = browser.Close()
	}
	if l != nil {
		l.Kill()
	}
	return err
}
