// Package pagectx is the Context Manager (spec §4.4): it tracks every open
// tab, auto-focuses new ones (minus obvious ad popups), maintains a LIFO
// return stack so closing a tab restores the one that opened it, and owns
// the single-slot pending-dialog mailbox. Only this package ever mutates
// the active page or the return stack; every other component treats both
// as read-only.
//
// Event plumbing is grounded on the teacher's CDP listener
// (domwatch/internal/observer/cdpdom.go), which subscribes with
// EachEvent and calls raw proto methods directly (proto.DOMEnable{}.Call).
package pagectx

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// popupDenylist holds URL substrings auto-closed rather than focused,
// per spec §4.4.
var popupDenylist = []string{"googleads", "doubleclick", "facebook.com/tr"}

// Manager tracks pages, the return stack and the pending dialog for one
// browser context.
type Manager struct {
	mu sync.Mutex

	ctx    context.Context
	cancel context.CancelFunc
	logger *slog.Logger

	browser *rod.Browser
	pages   []*rod.Page
	stack   []*rod.Page // LIFO, most-recently-focused at the end
	active  *rod.Page

	dialog *pendingDialog

	safetyNet time.Duration
}

// New builds a Manager over browser's current pages, marking the first
// one active, and starts listening for new pages and dialogs.
func New(ctx context.Context, browser *rod.Browser, logger *slog.Logger) (*Manager, error) {
	if logger == nil {
		logger = slog.Default()
	}

	cctx, cancel := context.WithCancel(ctx)
	m := &Manager{
		ctx:       cctx,
		cancel:    cancel,
		logger:    logger,
		browser:   browser,
		safetyNet: safetyNetDefault,
	}

	existing, err := browser.Pages()
	if err != nil {
		cancel()
		return nil, fmt.Errorf("pagectx: list initial pages: %w", err)
	}
	for _, p := range existing {
		m.trackLocked(p)
	}
	if len(m.pages) > 0 {
		m.active = m.pages[0]
		m.stack = append(m.stack, m.active)
	}

	go m.listenForNewPages()

	return m, nil
}

// trackLocked registers p and attaches its dialog listener. Caller must
// hold m.mu, or call before any other goroutine can observe m.
func (m *Manager) trackLocked(p *rod.Page) {
	m.pages = append(m.pages, p)
	go m.listenForDialogs(p)
}

// listenForNewPages watches the browser for newly created targets of
// type "page" and routes them through onNewPage.
func (m *Manager) listenForNewPages() {
	wait := m.browser.Context(m.ctx).EachEvent(
		func(e *proto.TargetTargetCreated) {
			if e.TargetInfo.Type != proto.TargetTargetInfoTypePage {
				return
			}
			page, err := m.browser.PageFromTarget(e.TargetInfo.TargetID)
			if err != nil {
				m.logger.Warn("pagectx: attach to new target failed", "error", err)
				return
			}
			m.onNewPage(page)
		},
		func(e *proto.TargetTargetDestroyed) {
			m.onPageClosed(e.TargetID)
		},
	)
	wait()
}

// onNewPage applies the popup denylist, otherwise focuses and tracks the
// page.
func (m *Manager) onNewPage(page *rod.Page) {
	waitCtx, cancel := context.WithTimeout(m.ctx, 2*time.Second)
	defer cancel()
	_ = page.Context(waitCtx).WaitLoad()

	info, err := page.Info()
	url := ""
	if err == nil && info != nil {
		url = info.URL
	}

	if url != "" && url != "about:blank" && isDenylisted(url) {
		m.logger.Info("pagectx: closing denylisted popup", "url", url)
		_ = page.Close()
		return
	}

	m.mu.Lock()
	m.trackLocked(page)
	m.pushAndActivateLocked(page)
	m.mu.Unlock()

	_ = page.Activate()
}

func isDenylisted(url string) bool {
	for _, s := range popupDenylist {
		if strings.Contains(url, s) {
			return true
		}
	}
	return false
}

// onPageClosed removes the page whose target just closed, restoring the
// previous stack entry as active if it was the active page.
func (m *Manager) onPageClosed(targetID proto.TargetID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var closed *rod.Page
	for _, p := range m.pages {
		if p.TargetID == targetID {
			closed = p
			break
		}
	}
	if closed == nil {
		return
	}

	m.pages = removePage(m.pages, closed)
	m.stack = removePage(m.stack, closed)

	if m.active == closed {
		if n := len(m.stack); n > 0 {
			m.active = m.stack[n-1]
		} else if len(m.pages) > 0 {
			m.active = m.pages[len(m.pages)-1]
		} else {
			m.active = nil
		}
	}
}

func removePage(list []*rod.Page, target *rod.Page) []*rod.Page {
	out := list[:0]
	for _, p := range list {
		if p.TargetID != target.TargetID {
			out = append(out, p)
		}
	}
	return out
}

// pushAndActivateLocked marks page active and moves it to the top of the
// return stack. Caller must hold m.mu.
func (m *Manager) pushAndActivateLocked(page *rod.Page) {
	m.stack = removePage(m.stack, page)
	m.stack = append(m.stack, page)
	m.active = page
}

// ActivePage returns the currently focused page, or nil if every page has
// closed.
func (m *Manager) ActivePage() *rod.Page {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active
}

// Pages returns a snapshot of tracked pages in discovery order.
func (m *Manager) Pages() []*rod.Page {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*rod.Page, len(m.pages))
	copy(out, m.pages)
	return out
}

// SwitchTabByIndex activates the zero-based i-th tracked page.
func (m *Manager) SwitchTabByIndex(i int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if i < 0 || i >= len(m.pages) {
		return fmt.Errorf("pagectx: tab index %d out of range (have %d tabs)", i, len(m.pages))
	}
	page := m.pages[i]
	m.pushAndActivateLocked(page)
	_ = page.Activate()
	return nil
}

// SwitchTabByString activates the first tracked page whose title or URL
// contains substr. First match in tracked (discovery) order wins — an
// intentional, documented choice, not an omission.
func (m *Manager) SwitchTabByString(substr string) error {
	m.mu.Lock()
	pages := make([]*rod.Page, len(m.pages))
	copy(pages, m.pages)
	m.mu.Unlock()

	for _, page := range pages {
		info, err := page.Info()
		if err != nil {
			continue
		}
		if strings.Contains(info.Title, substr) || strings.Contains(info.URL, substr) {
			m.mu.Lock()
			m.pushAndActivateLocked(page)
			m.mu.Unlock()
			_ = page.Activate()
			return nil
		}
	}
	return fmt.Errorf("pagectx: no tab matching %q", substr)
}

// CloseActive closes the currently active page. The "close" CDP event
// drives the actual bookkeeping via onPageClosed.
func (m *Manager) CloseActive() error {
	active := m.ActivePage()
	if active == nil {
		return fmt.Errorf("pagectx: no active page to close")
	}
	if err := active.Close(); err != nil {
		return fmt.Errorf("pagectx: close tab: %w", err)
	}
	return nil
}

// PendingDialogBanner returns the current pending dialog's banner text,
// or "" if none is pending.
func (m *Manager) PendingDialogBanner() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dialog.Banner()
}

// HandleDialog resolves the pending dialog, accepting or dismissing it,
// and clears the mailbox. Returns an error if no dialog is pending.
func (m *Manager) HandleDialog(accept bool) error {
	m.mu.Lock()
	d := m.dialog
	m.dialog = nil
	m.mu.Unlock()

	if d == nil {
		return fmt.Errorf("pagectx: no pending dialog")
	}
	d.stopTimer()
	return d.resolve(accept)
}

// listenForDialogs subscribes to JS dialog events on page and stores them
// in the mailbox, arming the safety-net timer.
func (m *Manager) listenForDialogs(page *rod.Page) {
	_ = proto.PageEnable{}.Call(page)

	wait := page.Context(m.ctx).EachEvent(func(e *proto.PageJavascriptDialogOpening) {
		m.onDialog(page, e)
	})
	wait()
}

func (m *Manager) onDialog(page *rod.Page, e *proto.PageJavascriptDialogOpening) {
	m.mu.Lock()
	if m.dialog != nil {
		m.dialog.stopTimer()
	}

	d := &pendingDialog{
		Type:    string(e.Type),
		Message: e.Message,
		page:    page,
	}
	m.dialog = d
	m.mu.Unlock()

	d.timer = time.AfterFunc(m.safetyNet, func() {
		m.resolveSafetyNet(d)
	})
}

// resolveSafetyNet fires when the planner never called HandleDialog in
// time: accept beforeunload prompts (so navigation proceeds), dismiss
// everything else.
func (m *Manager) resolveSafetyNet(d *pendingDialog) {
	m.mu.Lock()
	if m.dialog != d {
		m.mu.Unlock()
		return
	}
	m.dialog = nil
	m.mu.Unlock()

	accept := d.Type == "beforeunload"
	if err := d.resolve(accept); err != nil {
		m.logger.Warn("pagectx: safety-net dialog resolution failed", "error", err)
	}
}

// Close stops all listeners owned by this manager.
func (m *Manager) Close() {
	m.cancel()
}
