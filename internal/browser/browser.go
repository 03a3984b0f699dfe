// Package browser manages the shared headless Chrome instance and opens
// document pages on it.
package browser

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// Sentinel errors for browser operations.
var (
	ErrConnect    = errors.New("failed to connect to browser")
	ErrPageCreate = errors.New("failed to create browser page")
	ErrPageLoad   = errors.New("failed to load page")
)

// Session owns one browser instance. The browser is launched lazily on the
// first page open and reused until Close. A Session renders documents one at
// a time; use separate sessions for parallelism.
type Session struct {
	browser *rod.Browser
	timeout time.Duration
}

// NewSession creates a Session with the given page-load timeout.
func NewSession(timeout time.Duration) *Session {
	return &Session{timeout: timeout}
}

// ensureBrowser lazily launches and connects to the browser.
// Rod downloads a managed Chromium on first run if none is found.
func (s *Session) ensureBrowser() error {
	if s.browser != nil {
		return nil
	}

	l := launcher.New()

	// Use a pre-installed browser if specified (Docker/containerized environments).
	if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
		l = l.Bin(bin)
	}

	// NoSandbox required for CI and containerized environments.
	if os.Getenv("CI") == "true" || os.Getenv("ROD_BROWSER_BIN") != "" {
		l = l.NoSandbox(true)
	}

	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConnect, err)
	}

	b := rod.New().ControlURL(u)
	if err := b.Connect(); err != nil {
		return fmt.Errorf("%w: %v", ErrConnect, err)
	}
	s.browser = b
	return nil
}

// OpenPage opens url in a new tab and waits for it to load. The caller owns
// the returned page and must close it.
func (s *Session) OpenPage(ctx context.Context, url string) (*rod.Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.ensureBrowser(); err != nil {
		return nil, err
	}

	page, err := s.browser.Page(proto.TargetCreateTarget{URL: url})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}

	timeout := s.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			page.Close()
			return nil, context.DeadlineExceeded
		}
	}

	if err := page.Timeout(timeout).WaitLoad(); err != nil {
		page.Close()
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}
	return page, nil
}

// Close releases browser resources.
func (s *Session) Close() error {
	if s.browser != nil {
		err := s.browser.Close()
		s.browser = nil
		return err
	}
	return nil
}
