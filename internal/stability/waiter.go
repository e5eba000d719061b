// Package stability implements the Stability Waiter (spec §4.1): it
// installs a MutationObserver in the page, then blocks until the DOM has
// been quiet for stabilityDuration or maxTimeout elapses, whichever comes
// first. Noisy batches (spinners, progress bars, media tags) never reset
// the idle timer, so a page that never truly settles beneath a loading
// spinner still resolves once the non-noisy DOM itself stops changing.
//
// The binding plumbing (RuntimeAddBinding + EachEvent on
// RuntimeBindingCalled) and the embedded-JS injection are grounded on the
// teacher's observer (domwatch/internal/observer/observer.go); the
// reset-on-activity/resolve-on-timer state machine mirrors its SPA
// settle-wait (domwatch/internal/observer/spa.go: handleNavigate).
package stability

import (
	"context"
	_ "embed"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

//go:embed waiter.js
var waiterJS []byte

const bindingName = "__flashloopStabilityBindingCall"

// DefaultStabilityDuration is the minimum idle window required to declare
// the DOM stable.
const DefaultStabilityDuration = 300 * time.Millisecond

// DefaultMaxTimeout is the soft cap on total wait time.
const DefaultMaxTimeout = 2000 * time.Millisecond

// Result is the outcome of a single Wait call.
type Result struct {
	Achieved bool
	Duration time.Duration
}

// Config controls Wait's timing. Zero values fall back to the package
// defaults.
type Config struct {
	StabilityDuration time.Duration
	MaxTimeout        time.Duration
	Logger            *slog.Logger
}

func (c *Config) defaults() {
	if c.StabilityDuration <= 0 {
		c.StabilityDuration = DefaultStabilityDuration
	}
	if c.MaxTimeout <= 0 {
		c.MaxTimeout = DefaultMaxTimeout
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

type batchMsg struct {
	Noisy  bool `json:"noisy"`
	Count  int  `json:"count"`
	NoBody bool `json:"noBody"`
}

// Wait blocks until page's DOM has been quiet for cfg.StabilityDuration or
// cfg.MaxTimeout elapses.
func Wait(ctx context.Context, page *rod.Page, cfg Config) Result {
	cfg.defaults()
	start := time.Now()

	hasBody, err := page.Eval(`() => !!document.body`)
	if err != nil {
		if isTerminalErr(err) {
			return Result{Achieved: false, Duration: 0}
		}
		return Result{Achieved: false, Duration: time.Since(start)}
	}
	if !hasBody.Value.Bool() {
		return Result{Achieved: false, Duration: 0}
	}

	waitCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	msgCh := make(chan batchMsg, 64)

	if err := proto.RuntimeAddBinding{Name: bindingName}.Call(page); err != nil {
		cfg.Logger.Debug("stability: add binding (may already exist)", "error", err)
	}

	go func() {
		page.Context(waitCtx).EachEvent(func(e *proto.RuntimeBindingCalled) {
			if e.Name != bindingName {
				return
			}
			var m batchMsg
			if err := json.Unmarshal([]byte(e.Payload), &m); err != nil {
				return
			}
			select {
			case msgCh <- m:
			default:
			}
		})()
	}()

	if _, err := page.Eval(string(waiterJS)); err != nil {
		if isTerminalErr(err) {
			return Result{Achieved: false, Duration: 0}
		}
		return Result{Achieved: false, Duration: time.Since(start)}
	}

	timer := time.NewTimer(cfg.StabilityDuration)
	defer timer.Stop()

	maxTimer := time.NewTimer(cfg.MaxTimeout)
	defer maxTimer.Stop()

	for {
		select {
		case <-ctx.Done():
			return Result{Achieved: false, Duration: time.Since(start)}

		case m := <-msgCh:
			if m.NoBody {
				return Result{Achieved: false, Duration: 0}
			}
			if !m.Noisy {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(cfg.StabilityDuration)
			}

		case <-timer.C:
			return Result{Achieved: true, Duration: time.Since(start)}

		case <-maxTimer.C:
			return Result{Achieved: false, Duration: time.Since(start)}
		}
	}
}

// isTerminalErr reports whether err indicates the page/context is gone,
// in which case Wait must resolve immediately rather than propagate.
func isTerminalErr(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "context canceled") ||
		strings.Contains(msg, "target closed") ||
		strings.Contains(msg, "destroyed") ||
		strings.Contains(msg, "navigat")
}
