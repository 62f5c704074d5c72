package browser

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/playwright-community/playwright-go"
)

var ErrSessionClosed = errors.New("browser session already closed")

type Options struct {
	Headless       bool
	Timeout        time.Duration
	UserAgent      string
	ViewportWidth  int
	ViewportHeight int
	Locale         string
	ProxyServer    string
	ExtraHeaders   map[string]string
}

func DefaultOptions() *Options {
	return &Options{
		Headless:       true,
		Timeout:        30 * time.Second,
		UserAgent:      "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		ViewportWidth:  1920,
		ViewportHeight: 1080,
		Locale:         "en-US",
		ExtraHeaders: map[string]string{
			"Accept": "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8",
			"DNT":    "1",
		},
	}
}

// Session is one browser process with exactly one page.
type Session interface {
	Page() Page
	Close() error
}

// Launcher starts a fresh, isolated browser for every session.
type Launcher interface {
	Launch(ctx context.Context) (Session, error)
}

// WithSession launches a browser, hands its page to fn and tears the browser
// down on every exit path, panics included.
func WithSession[T any](ctx context.Context, l Launcher, fn func(Page) (T, error)) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}

	s, err := l.Launch(ctx)
	if err != nil {
		return zero, fmt.Errorf("failed to launch browser: %w", err)
	}
	defer func() {
		if err := s.Close(); err != nil {
			slog.Default().Warn("failed to close browser session", "component", "browser", "error", err)
		}
	}()

	return fn(s.Page())
}

// PlaywrightLauncher keeps one playwright driver for the process lifetime,
// started on first use, and launches a new Chromium per session.
type PlaywrightLauncher struct {
	mu     sync.Mutex
	pw     *playwright.Playwright
	opts   *Options
	logger *slog.Logger
}

func NewLauncher(opts *Options, logger *slog.Logger) *PlaywrightLauncher {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &PlaywrightLauncher{
		opts:   opts,
		logger: logger.With("component", "browser"),
	}
}

func (l *PlaywrightLauncher) driver() (*playwright.Playwright, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.pw != nil {
		return l.pw, nil
	}
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}
	l.pw = pw
	return pw, nil
}

func (l *PlaywrightLauncher) Launch(ctx context.Context) (Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	pw, err := l.driver()
	if err != nil {
		return nil, err
	}

	launchOpts := playwright.BrowserTypeLaunchOptions{
		Headless: &l.opts.Headless,
		Args: []string{
			"--disable-blink-features=AutomationControlled",
			"--disable-dev-shm-usage",
			"--no-sandbox",
			"--disable-setuid-sandbox",
		},
	}
	if l.opts.ProxyServer != "" {
		launchOpts.Proxy = &playwright.Proxy{Server: l.opts.ProxyServer}
	}

	b, err := pw.Chromium.Launch(launchOpts)
	if err != nil {
		return nil, err
	}

	bctx, err := b.NewContext(playwright.BrowserNewContextOptions{
		UserAgent:         &l.opts.UserAgent,
		AcceptDownloads:   playwright.Bool(false),
		JavaScriptEnabled: playwright.Bool(true),
		IgnoreHttpsErrors: playwright.Bool(true),
		Locale:            &l.opts.Locale,
		Viewport: &playwright.Size{
			Width:  l.opts.ViewportWidth,
			Height: l.opts.ViewportHeight,
		},
		ExtraHttpHeaders: l.opts.ExtraHeaders,
	})
	if err != nil {
		l.closeBrowser(b)
		return nil, fmt.Errorf("failed to create browser context: %w", err)
	}

	page, err := bctx.NewPage()
	if err != nil {
		l.closeBrowser(b)
		return nil, fmt.Errorf("failed to create new page: %w", err)
	}
	page.SetDefaultTimeout(float64(l.opts.Timeout.Milliseconds()))

	l.logger.Debug("browser launched", "headless", l.opts.Headless)

	return &playwrightSession{browser: b, page: &playwrightPage{page: page}}, nil
}

// closeBrowser tears down a half-built session; the setup error takes precedence.
func (l *PlaywrightLauncher) closeBrowser(b playwright.Browser) {
	if err := b.Close(); err != nil {
		l.logger.Warn("failed to close browser after setup error", "error", err)
	}
}

// Stop shuts the playwright driver down if it was started.
func (l *PlaywrightLauncher) Stop() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.pw == nil {
		return nil
	}
	defer func() { l.pw = nil }()
	if err := l.pw.Stop(); err != nil {
		return fmt.Errorf("failed to stop playwright: %w", err)
	}
	return nil
}

type playwrightSession struct {
	browser playwright.Browser
	page    Page
	once    sync.Once
}

func (s *playwrightSession) Page() Page {
	return s.page
}

// Close terminates the browser process; contexts and pages go with it.
func (s *playwrightSession) Close() error {
	err := ErrSessionClosed
	s.once.Do(func() {
		err = nil
		if cerr := s.browser.Close(); cerr != nil {
			err = fmt.Errorf("failed to close browser: %w", cerr)
		}
	})
	return err
}
