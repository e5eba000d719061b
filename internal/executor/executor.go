// Package executor implements the Executor (spec §4.8): it dispatches a
// validated ActionPlan into one of four bands (Meta, Context, Navigation,
// Element), drives go-rod against the live page, and classifies any
// failure as retryable or fatal.
//
// The per-actionType primitive table and the Meta/Context/Navigation/
// Element banding follow the spec's own table verbatim; the underlying
// rod calls (page.Navigate, element.Click, element.Input, ...) are the
// same primitives the teacher drives the browser with in
// domwatch/internal/browser/tab.go, just aimed at a different catalog of
// actions.
package executor

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/proto"

	"github.com/hazyhaar/flashloop/internal/browser"
	"github.com/hazyhaar/flashloop/internal/errtrans"
	"github.com/hazyhaar/flashloop/internal/observer"
	"github.com/hazyhaar/flashloop/internal/pagectx"
	"github.com/hazyhaar/flashloop/internal/planner"
	"github.com/hazyhaar/flashloop/internal/stability"
	"github.com/hazyhaar/flashloop/internal/synth"
)

// fatalSubstrings classifies an error as non-retryable: a structural
// problem with the plan itself, not a transient browser condition (spec
// §4.8 "Retryability classification").
var fatalSubstrings = []string{
	"requires a target",
	"requires targetId",
	"requires a URL",
	"Unsupported action",
	"not found in memory",
	"not found",
	"Target ID is missing",
}

// Result is the outcome of one Execute call.
type Result struct {
	Success      bool
	Error        string
	UserGuidance string
	Retryable    bool
	CodeFragment string
}

func ok(codeFragment string) Result {
	return Result{Success: true, CodeFragment: codeFragment}
}

func fail(err error) Result {
	t := errtrans.Translate(err)
	return Result{
		Success:      false,
		Error:        t.Error(),
		UserGuidance: t.Advice,
		Retryable:    !isFatal(err.Error()),
	}
}

func isFatal(msg string) bool {
	for _, s := range fatalSubstrings {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}

// Executor dispatches ActionPlans against a live page.
type Executor struct {
	ctxMgr       *pagectx.Manager
	stabilityCfg stability.Config
}

// New builds an Executor bound to a Context Manager. A zero-value
// stability.Config uses its own defaults.
func New(ctxMgr *pagectx.Manager, stabilityCfg stability.Config) *Executor {
	return &Executor{ctxMgr: ctxMgr, stabilityCfg: stabilityCfg}
}

// Execute dispatches plan against page using catalog to resolve any
// targetId references, and returns the outcome plus the code fragment
// (if any) to hand to the Script Emitter.
func (e *Executor) Execute(ctx context.Context, page *rod.Page, catalog map[string]observer.ElementDescriptor, plan *planner.ActionPlan) Result {
	switch plan.ActionType {
	case planner.ActionFinish:
		return ok("")
	case planner.ActionAssertURL:
		return e.settle(ctx, page, e.assertURL(page, plan))
	}

	if res, handled := e.dispatchContext(ctx, page, plan); handled {
		return e.settle(ctx, page, res)
	}
	if res, handled := e.dispatchNavigation(ctx, page, plan); handled {
		return e.settle(ctx, page, res)
	}
	return e.settle(ctx, page, e.dispatchElement(ctx, page, catalog, plan))
}

// settle runs the post-action wait (spec §4.8: domcontentloaded then a
// 1s best-effort networkidle) after any action that could have
// triggered navigation or DOM mutation. Errors here are absorbed: a
// failed post-action wait does not itself fail an otherwise-successful
// action.
func (e *Executor) settle(ctx context.Context, page *rod.Page, res Result) Result {
	if !res.Success {
		return res
	}
	waitCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	_ = page.Context(waitCtx).WaitLoad()
	cancel()

	browser.WaitNetworkIdleBestEffort(ctx, page, 1*time.Second)
	return res
}

func (e *Executor) dispatchContext(ctx context.Context, page *rod.Page, plan *planner.ActionPlan) (Result, bool) {
	switch plan.ActionType {
	case planner.ActionSwitchTab:
		return e.switchTab(plan), true
	case planner.ActionCloseTab:
		if err := e.ctxMgr.CloseActive(); err != nil {
			return fail(fmt.Errorf("close_tab: %w", err)), true
		}
		return ok("await page.close();"), true
	case planner.ActionHandleDialog:
		accept := strings.EqualFold(plan.Value, "accept")
		if err := e.ctxMgr.HandleDialog(accept); err != nil {
			return fail(fmt.Errorf("handle_dialog: %w", err)), true
		}
		method := "dismiss"
		if accept {
			method = "accept"
		}
		return ok(fmt.Sprintf("page.once('dialog', d => d.%s());", method)), true
	case planner.ActionWaitForElement:
		return e.waitForElement(ctx, page, plan), true
	}
	return Result{}, false
}

func (e *Executor) switchTab(plan *planner.ActionPlan) Result {
	if plan.Value == "" {
		return fail(fmt.Errorf("switch_tab: requires a target"))
	}
	if idx, err := parseTabIndex(plan.Value); err == nil {
		if err := e.ctxMgr.SwitchTabByIndex(idx); err != nil {
			return fail(fmt.Errorf("switch_tab: %w", err))
		}
		return ok(fmt.Sprintf("await context.pages()[%d].bringToFront();", idx))
	}
	if err := e.ctxMgr.SwitchTabByString(plan.Value); err != nil {
		return fail(fmt.Errorf("switch_tab: %w", err))
	}
	return ok(fmt.Sprintf(
		"const target = context.pages().find(p => p.title().includes('%s') || p.url().includes('%s')); await target.bringToFront();",
		escapeSingleQuotes(plan.Value), escapeSingleQuotes(plan.Value),
	))
}

func parseTabIndex(s string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(s))
}

func (e *Executor) waitForElement(ctx context.Context, page *rod.Page, plan *planner.ActionPlan) Result {
	if plan.TargetID == "" {
		return fail(fmt.Errorf("wait_for_element: requires targetId"))
	}
	timeoutCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	_ = stability.Wait(timeoutCtx, page, e.stabilityCfg)
	return ok("await locator.waitFor({ state: 'visible', timeout: 10_000 });")
}

func (e *Executor) dispatchNavigation(ctx context.Context, page *rod.Page, plan *planner.ActionPlan) (Result, bool) {
	switch plan.ActionType {
	case planner.ActionNavigate:
		if plan.Value == "" {
			return fail(fmt.Errorf("navigate: requires a URL")), true
		}
		if _, err := url.ParseRequestURI(plan.Value); err != nil {
			return fail(fmt.Errorf("navigate: requires a URL: %w", err)), true
		}
		if err := page.Context(ctx).Navigate(plan.Value); err != nil {
			return fail(fmt.Errorf("navigate: %w", err)), true
		}
		return ok(fmt.Sprintf("await page.goto('%s');", escapeSingleQuotes(plan.Value))), true
	case planner.ActionReload:
		if err := page.Context(ctx).Reload(); err != nil {
			return fail(fmt.Errorf("reload: %w", err)), true
		}
		return ok("await page.reload();"), true
	case planner.ActionGoBack:
		if err := page.Context(ctx).NavigateBack(); err != nil {
			return fail(fmt.Errorf("go_back: %w", err)), true
		}
		return ok("await page.goBack();"), true
	}
	return Result{}, false
}

func (e *Executor) assertURL(page *rod.Page, plan *planner.ActionPlan) Result {
	info, err := page.Info()
	if err != nil {
		return fail(fmt.Errorf("assert_url: %w", err))
	}
	if !strings.Contains(info.URL, plan.Value) {
		return fail(fmt.Errorf("assert_url: expected URL to contain %q, got %q", plan.Value, info.URL))
	}
	return ok(fmt.Sprintf("await expect(page).toHaveURL('%s');", escapeSingleQuotes(plan.Value)))
}

func (e *Executor) dispatchElement(ctx context.Context, page *rod.Page, catalog map[string]observer.ElementDescriptor, plan *planner.ActionPlan) Result {
	if plan.ActionType == planner.ActionScroll && plan.TargetID == "" {
		// Targetless scroll moves the page itself: down by default, up when
		// value is "up".
		dy := 600
		if strings.EqualFold(strings.TrimSpace(plan.Value), "up") {
			dy = -dy
		}
		if _, err := page.Context(ctx).Eval(`(dy) => window.scrollBy(0, dy)`, dy); err != nil {
			return fail(fmt.Errorf("scroll: %w", err))
		}
		return ok(fmt.Sprintf("await page.mouse.wheel(0, %d);", dy))
	}
	if plan.TargetID == "" {
		return fail(fmt.Errorf("%s: requires targetId", plan.ActionType))
	}
	desc, ok2 := catalog[plan.TargetID]
	if !ok2 {
		return fail(fmt.Errorf("%s: target %s not found in memory", plan.ActionType, plan.TargetID))
	}

	cand, err := synth.Synthesize(ctx, page, desc)
	if err != nil {
		return fail(err)
	}

	var aux *synth.Candidate
	if plan.ActionType == planner.ActionDragAndDrop {
		if plan.TargetID2 == "" {
			return fail(fmt.Errorf("drag_and_drop: requires targetId2"))
		}
		desc2, ok3 := catalog[plan.TargetID2]
		if !ok3 {
			return fail(fmt.Errorf("drag_and_drop: target %s not found in memory", plan.TargetID2))
		}
		aux, err = synth.Synthesize(ctx, page, desc2)
		if err != nil {
			return fail(err)
		}
	}

	return runPrimitive(cand, aux, plan)
}

func runPrimitive(cand, aux *synth.Candidate, plan *planner.ActionPlan) Result {
	el := cand.Element
	var err error

	switch plan.ActionType {
	case planner.ActionClick:
		err = el.Click(proto.InputMouseButtonLeft, 1)
	case planner.ActionDblClick:
		err = el.Click(proto.InputMouseButtonLeft, 2)
	case planner.ActionRightClick:
		err = el.Click(proto.InputMouseButtonRight, 1)
	case planner.ActionHover:
		err = el.Hover()
	case planner.ActionFocus:
		err = el.Focus()
	case planner.ActionClear:
		err = el.SelectAllText()
		if err == nil {
			err = el.Input("")
		}
	case planner.ActionCheck:
		err = setChecked(el, true)
	case planner.ActionUncheck:
		err = setChecked(el, false)
	case planner.ActionFill:
		err = el.Input(plan.Value)
	case planner.ActionType_:
		err = el.Input(plan.Value)
	case planner.ActionKeypress:
		err = pressKey(el, plan.Value)
	case planner.ActionSelectOption:
		err = el.Select([]string{plan.Value}, true, rod.SelectorTypeText)
		if err != nil {
			err = el.Select([]string{plan.Value}, true, rod.SelectorTypeCSS)
		}
	case planner.ActionUpload:
		files := strings.Split(plan.Value, ",")
		for i := range files {
			files[i] = strings.TrimSpace(files[i])
		}
		err = el.SetFiles(files)
	case planner.ActionScroll:
		err = el.ScrollIntoView()
	case planner.ActionDragAndDrop:
		err = dragTo(el, aux.Element)
	case planner.ActionAssertVisible:
		return assertVisible(el, cand)
	case planner.ActionAssertText:
		return assertText(el, plan.Value, cand)
	case planner.ActionAssertValue:
		return assertValue(el, plan.Value, cand)
	default:
		return fail(fmt.Errorf("Unsupported action: %s", plan.ActionType))
	}

	if err != nil {
		return fail(err)
	}
	return ok(primitiveCodeFragment(plan, cand, aux))
}

func setChecked(el *rod.Element, want bool) error {
	got, err := el.Property("checked")
	if err != nil {
		return err
	}
	if got.Bool() == want {
		return nil
	}
	return el.Click(proto.InputMouseButtonLeft, 1)
}

func pressKey(el *rod.Element, key string) error {
	k, ok := keyByName(key)
	if !ok {
		return fmt.Errorf("keypress: unrecognised key %q", key)
	}
	return el.Type(k)
}

// dragTo drags src to dst's position. rod's Element.Drag moves by an
// offset relative to the element's own current position, so the offset
// is the delta between the two elements' bounding-box centers.
func dragTo(src, dst *rod.Element) error {
	srcShape, err := src.Shape()
	if err != nil {
		return err
	}
	dstShape, err := dst.Shape()
	if err != nil {
		return err
	}
	srcBox := srcShape.Box()
	dstBox := dstShape.Box()
	dx := (dstBox.X + dstBox.Width/2) - (srcBox.X + srcBox.Width/2)
	dy := (dstBox.Y + dstBox.Height/2) - (srcBox.Y + srcBox.Height/2)
	return src.Drag(dx, dy)
}

func assertVisible(el *rod.Element, cand *synth.Candidate) Result {
	visible, err := el.Visible()
	if err != nil {
		return fail(err)
	}
	if !visible {
		return fail(fmt.Errorf("not visible: element is not currently visible"))
	}
	return ok(fmt.Sprintf("await expect(%s).toBeVisible();", locatorExpr(cand)))
}

func assertText(el *rod.Element, want string, cand *synth.Candidate) Result {
	text, err := el.Text()
	if err != nil {
		return fail(err)
	}
	if !strings.Contains(text, want) {
		return fail(fmt.Errorf("assert_text: expected text to contain %q, got %q", want, text))
	}
	return ok(fmt.Sprintf("await expect(%s).toContainText('%s');", locatorExpr(cand), escapeSingleQuotes(want)))
}

func assertValue(el *rod.Element, want string, cand *synth.Candidate) Result {
	val, err := el.Property("value")
	if err != nil {
		return fail(err)
	}
	if val.Str() != want {
		return fail(fmt.Errorf("assert_value: expected value %q, got %q", want, val.Str()))
	}
	return ok(fmt.Sprintf("await expect(%s).toHaveValue('%s');", locatorExpr(cand), escapeSingleQuotes(want)))
}

func escapeSingleQuotes(s string) string {
	return strings.ReplaceAll(s, "'", "\\'")
}

// keyByName maps the plan's key name (e.g. "Enter", "Tab") to rod's input
// key constants. Grounded on go-rod's own input.Key enumeration rather
// than hand-rolled keycodes.
func keyByName(name string) (input.Key, bool) {
	k, ok := keyTable[strings.ToLower(name)]
	return k, ok
}

var keyTable = map[string]input.Key{
	"enter":      input.Enter,
	"tab":        input.Tab,
	"escape":     input.Escape,
	"backspace":  input.Backspace,
	"delete":     input.Delete,
	"arrowup":    input.ArrowUp,
	"arrowdown":  input.ArrowDown,
	"arrowleft":  input.ArrowLeft,
	"arrowright": input.ArrowRight,
	"space":      input.Space,
	"home":       input.Home,
	"end":        input.End,
	"pageup":     input.PageUp,
	"pagedown":   input.PageDown,
}
