package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
)

// NewPage creates a new tab on the managed browser, optionally navigates
// it to startURL, and applies resource blocking and stealth per the
// manager's configuration. startURL may be empty for a blank tab.
func NewPage(ctx context.Context, mgr *Manager, startURL string) (*rod.Page, error) {
	b := mgr.Browser()
	if b == nil {
		return nil, fmt.Errorf("browser: no active browser")
	}
	return NewPageOn(ctx, b, mgr.cfg, startURL)
}

// NewPageOn creates a tab directly on an already-resolved browser handle.
// Unlike NewPage, it never calls back into a Manager's locking methods, so
// it's safe to call from inside a RecycleCallback.AfterRecycle hook, which
// runs while Manager.Recycle still holds its lock and already has the new
// *rod.Browser in hand.
func NewPageOn(ctx context.Context, b *rod.Browser, cfg Config, startURL string) (*rod.Page, error) {
	var page *rod.Page
	var err error

	if cfg.Mode == ModeHeadful {
		page, err = b.Page(proto.TargetCreateTarget{URL: ""})
	} else {
		page, err = stealth.Page(b)
	}
	if err != nil {
		return nil, fmt.Errorf("browser: create tab: %w", err)
	}

	if len(cfg.ResourceBlocking) > 0 {
		if err := applyResourceBlocking(page, cfg); err != nil {
			cfg.Logger.Warn("browser: resource blocking failed", "error", err)
		}
	}

	if startURL == "" {
		return page, nil
	}

	navCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := page.Context(navCtx).Navigate(startURL); err != nil {
		page.Close()
		return nil, fmt.Errorf("browser: navigate %s: %w", startURL, err)
	}

	if err := page.Context(navCtx).WaitLoad(); err != nil {
		cfg.Logger.Warn("browser: wait load timeout", "url", startURL, "error", err)
	}

	return page, nil
}

// GetFullDOM serialises the complete DOM as outer HTML.
func GetFullDOM(ctx context.Context, page *rod.Page) (string, error) {
	res, err := page.Context(ctx).Eval(`() => document.documentElement.outerHTML`)
	if err != nil {
		return "", fmt.Errorf("browser: get DOM: %w", err)
	}
	return res.Value.Str(), nil
}

// WaitNetworkIdleBestEffort waits briefly for network idle, ignoring a
// timeout — callers use this as a soft settle signal, never a hard gate.
func WaitNetworkIdleBestEffort(ctx context.Context, page *rod.Page, timeout time.Duration) {
	idleCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	_ = page.Context(idleCtx).WaitIdle(timeout)
}
