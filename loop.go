package flashloop

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/go-rod/rod"

	"github.com/hazyhaar/flashloop/internal/browser"
	"github.com/hazyhaar/flashloop/internal/emitter"
	"github.com/hazyhaar/flashloop/internal/executor"
	"github.com/hazyhaar/flashloop/internal/history"
	"github.com/hazyhaar/flashloop/internal/observer"
	"github.com/hazyhaar/flashloop/internal/pagectx"
	"github.com/hazyhaar/flashloop/internal/planner"
	"github.com/hazyhaar/flashloop/internal/stability"
)

// keepaliveInterval is how often Loop pings the page during an
// interactive prompt so the browser session does not time out while
// waiting on a human (spec §4.10 step 6).
const keepaliveInterval = 60 * time.Second

// Loop orchestrates the Observe-Plan-Execute cycle (spec §4.10).
type Loop struct {
	cfg LoopConfig

	browserMgr *browser.Manager // nil in hosted mode

	// stateMu guards ctxMgr and exec, which Manager's recycle callback
	// rebuilds from its own background monitorLoop goroutine (owned mode
	// only) while Run's main loop reads them concurrently.
	stateMu sync.RWMutex
	ctxMgr  *pagectx.Manager
	exec    *executor.Executor

	obs  *observer.Observer
	plan *planner.Planner
	emit emitter.Emitter
	hist *history.Log

	logger *slog.Logger
	in     *bufio.Reader
}

// state returns the current Context Manager and Executor. Thread-safe.
func (l *Loop) state() (*pagectx.Manager, *executor.Executor) {
	l.stateMu.RLock()
	defer l.stateMu.RUnlock()
	return l.ctxMgr, l.exec
}

func (l *Loop) setState(ctxMgr *pagectx.Manager, exec *executor.Executor) {
	l.stateMu.Lock()
	l.ctxMgr = ctxMgr
	l.exec = exec
	l.stateMu.Unlock()
}

// NewOwned builds a Loop that launches and owns its own browser.
func NewOwned(ctx context.Context, cfg LoopConfig, llmClient *planner.Client) (*Loop, error) {
	cfg.defaults()

	mgr := browser.NewManager(BrowserConfigFromLoop(cfg))
	b, err := mgr.Start(ctx)
	if err != nil {
		return nil, fmt.Errorf("loop: start owned browser: %w", err)
	}

	ctxMgr, err := pagectx.New(ctx, b, cfg.Logger)
	if err != nil {
		mgr.Close()
		return nil, fmt.Errorf("loop: init context manager: %w", err)
	}

	if _, err := browser.NewPage(ctx, mgr, cfg.StartURL); err != nil {
		mgr.Close()
		return nil, fmt.Errorf("loop: open initial page: %w", err)
	}

	l := newLoop(cfg, mgr, ctxMgr, llmClient, emitter.NewFile(cfg.OutDir))

	mgr.SetRecycleCallback(&browser.RecycleCallback{
		BeforeRecycle: func() {
			l.logger.Warn("loop: browser recycling, context manager will be rebuilt")
		},
		AfterRecycle: func(b *rod.Browser) {
			l.onRecycled(ctx, mgr, b)
		},
	})

	return l, nil
}

// onRecycled rebuilds the Context Manager and Executor against the
// browser handle Manager.Recycle hands back: recycling kills every open
// tab, so the previous Context Manager's tracked pages and CDP listeners
// are all stale. This runs synchronously from inside AfterRecycle, which
// Manager.Recycle calls while still holding its own lock, so it must
// reach the new browser only through b and mgr.Config() and never call
// back into one of Manager's locking methods (Browser, Recycle, Close).
func (l *Loop) onRecycled(ctx context.Context, mgr *browser.Manager, b *rod.Browser) {
	newCtxMgr, err := pagectx.New(ctx, b, l.logger)
	if err != nil {
		l.logger.Error("loop: rebuild context manager after recycle failed", "error", err)
		return
	}
	if _, err := browser.NewPageOn(ctx, b, mgr.Config(), l.cfg.StartURL); err != nil {
		l.logger.Error("loop: reopen page after recycle failed", "error", err)
	}
	newExec := executor.New(newCtxMgr, stability.Config{Logger: l.logger})
	l.setState(newCtxMgr, newExec)
	l.logger.Info("loop: context manager and executor rebuilt after recycle")
}

// NewHosted builds a Loop that drives a page the caller already owns.
// The browser is never closed by Loop.Run in this mode, and output
// accumulates in memory rather than to a file (spec §4.10: "hosted...
// reuses its context, memory emitter").
func NewHosted(ctx context.Context, cfg LoopConfig, page *rod.Page, llmClient *planner.Client) (*Loop, error) {
	cfg.defaults()

	ctxMgr, err := pagectx.New(ctx, page.Browser(), cfg.Logger)
	if err != nil {
		return nil, fmt.Errorf("loop: init context manager: %w", err)
	}

	return newLoop(cfg, nil, ctxMgr, llmClient, emitter.NewMemory()), nil
}

func newLoop(cfg LoopConfig, mgr *browser.Manager, ctxMgr *pagectx.Manager, llmClient *planner.Client, emit emitter.Emitter) *Loop {
	l := &Loop{
		cfg:        cfg,
		browserMgr: mgr,
		obs:        observer.New(cfg.Logger),
		plan:       planner.New(llmClient, cfg.Goal),
		emit:       emit,
		hist:       history.New(history.DefaultCapacity),
		logger:     cfg.Logger,
		in:         bufio.NewReader(os.Stdin),
	}
	l.setState(ctxMgr, executor.New(ctxMgr, stability.Config{Logger: cfg.Logger}))
	return l
}

// decision is what an interactive override prompt resolved to.
type decision int

const (
	decisionExecute decision = iota
	decisionSkip
	decisionQuit
)

// Run drives the main loop to completion (goal reached, step cap hit, a
// fatal non-retryable error, or an interactive quit) and returns the
// Script Emitter's output.
func (l *Loop) Run(ctx context.Context) (string, error) {
	if InCI() {
		l.logger.Warn("loop: running under CI without ALLOW_AI_IN_CI, skipping")
		if l.browserMgr != nil {
			if err := l.browserMgr.Close(); err != nil {
				l.logger.Warn("loop: close owned browser failed", "error", err)
			}
		}
		return "// flashloop: skipped in CI (set ALLOW_AI_IN_CI to run)\n", nil
	}

	if err := l.emit.Init(l.cfg.Goal); err != nil {
		return "", fmt.Errorf("loop: init emitter: %w", err)
	}

	var lastError string
	var runErr error

	for step := 1; step <= l.cfg.MaxSteps; step++ {
		l.logger.Info("loop: step", "step", step, "of", l.cfg.MaxSteps)

		ctxMgr, exec := l.state()

		page := ctxMgr.ActivePage()
		if page == nil {
			runErr = fmt.Errorf("loop: no active page")
			break
		}

		obsResult, err := l.obs.Observe(ctx, page)
		if err != nil {
			runErr = fmt.Errorf("loop: observe: %w", err)
			break
		}

		dialogBanner := ctxMgr.PendingDialogBanner()
		tabTitles := l.openTabTitles()

		actionPlan, err := l.plan.Plan(ctx, obsResult.StateText, dialogBanner, l.hist, lastError, tabTitles, step)
		if err != nil {
			runErr = fmt.Errorf("loop: plan: %w", err)
			break
		}

		if actionPlan.IsFinished && !l.cfg.Interactive {
			break
		}

		d := decisionExecute
		if l.cfg.Interactive {
			d = l.promptOverride(ctx, page, actionPlan)
			if d == decisionQuit {
				break
			}
			if d == decisionSkip {
				continue
			}
		}

		res := exec.Execute(ctx, page, obsResult.Catalog, actionPlan)
		if res.Success {
			l.hist.Add(history.Success(describeAction(actionPlan)))
			if res.CodeFragment != "" {
				if err := l.emit.AppendCode(res.CodeFragment, actionPlan.Thought); err != nil {
					l.logger.Warn("loop: append code failed", "error", err)
				}
			}
			lastError = ""
		} else {
			l.hist.Add(history.Failure(describeAction(actionPlan), res.UserGuidance))
			lastError = res.Error
			if !res.Retryable && !l.cfg.Interactive {
				l.dumpDOMOnFatal(ctx, page, res.Error)
				runErr = fmt.Errorf("loop: fatal action error: %s", res.Error)
				break
			}
		}

		if actionPlan.IsFinished {
			break
		}
	}

	if err := l.emit.Finish(); err != nil {
		l.logger.Warn("loop: finish emitter failed", "error", err)
	}
	if l.browserMgr != nil {
		if err := l.browserMgr.Close(); err != nil {
			l.logger.Warn("loop: close owned browser failed", "error", err)
		}
	}

	return l.emit.GetOutput(), runErr
}

// dumpDOMOnFatal logs the full DOM at debug level when a step fails with a
// non-retryable error, giving a post-mortem look at the page state the
// planner and executor were actually working against.
func (l *Loop) dumpDOMOnFatal(ctx context.Context, page *rod.Page, actionErr string) {
	dom, err := browser.GetFullDOM(ctx, page)
	if err != nil {
		l.logger.Debug("loop: dump DOM on fatal error failed", "error", err)
		return
	}
	l.logger.Debug("loop: DOM at fatal error", "action_error", actionErr, "dom", dom)
}

func (l *Loop) openTabTitles() []string {
	ctxMgr, _ := l.state()
	pages := ctxMgr.Pages()
	titles := make([]string, 0, len(pages))
	for _, p := range pages {
		info, err := p.Info()
		if err != nil {
			continue
		}
		titles = append(titles, info.Title)
	}
	return titles
}

func describeAction(p *ActionPlan) string {
	if p.TargetID2 != "" {
		return fmt.Sprintf("%s %s -> %s", p.ActionType, p.TargetID, p.TargetID2)
	}
	if p.TargetID != "" {
		return fmt.Sprintf("%s %s", p.ActionType, p.TargetID)
	}
	if p.Value != "" {
		return fmt.Sprintf("%s %s", p.ActionType, p.Value)
	}
	return string(p.ActionType)
}

// promptOverride presents the plan and reads execute|override|skip|quit,
// running a keepalive ping against page so its CDP session does not idle
// out while waiting on the human (spec §4.10 step 6). There is no separate
// channel here to feed a replacement action in, so "override" (like any
// answer other than skip or quit) executes the planner's proposed action
// as-is.
func (l *Loop) promptOverride(ctx context.Context, page *rod.Page, p *ActionPlan) decision {
	done := make(chan struct{})
	defer close(done)
	go l.keepalive(page, done)

	fmt.Printf("\nThought: %s\nAction: %s %s %s\n[execute|skip|quit] > ", p.Thought, p.ActionType, p.TargetID, p.Value)
	line, _ := l.in.ReadString('\n')
	switch strings.TrimSpace(strings.ToLower(line)) {
	case "skip":
		return decisionSkip
	case "quit":
		return decisionQuit
	default:
		return decisionExecute
	}
}

func (l *Loop) keepalive(page *rod.Page, done <-chan struct{}) {
	ticker := time.NewTicker(keepaliveInterval)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			_, _ = page.Eval("document.title")
		}
	}
}
