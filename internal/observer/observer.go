// Package observer implements the Observer (spec §4.5): it walks every
// frame and shadow tree of the active page, extracts interactable
// elements, assigns stable semantic IDs, and renders a symbolic state
// description for the Planner.
//
// The walk itself runs once per frame as a single page.Eval of walk.js,
// grounded on the teacher's JS-eval-and-unmarshal idiom
// (domwatch/internal/profiler/landmarks.go); per-frame JS context access
// follows the same Eval/Context pattern as domwatch/internal/browser/tab.go.
// Unlike the teacher's Observer, which streams continuous CDP mutation
// events into long-lived element handles, this Observer is a one-shot,
// stateless walk: every element is re-resolved through the Selector
// Synthesizer (internal/synth) at the moment it's acted on, so there is
// no live CDP remote object to leak between steps — "releasing handles"
// from spec §4.5 step 10 is satisfied by simply not retaining the
// previous catalog past the next Observe call.
package observer

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/go-rod/rod"
)

//go:embed walk.js
var walkJS string

// ElementDescriptor is the Observer's unit of output (spec §3), minus a
// live handle field: selectors and the frame chain are everything the
// Synthesizer needs to re-resolve this element at execution time.
type ElementDescriptor struct {
	SemanticID         string
	Tag                string
	InputType          string
	Role               string
	TestID             string
	AriaLabel          string
	Placeholder        string
	Title              string
	Alt                string
	Text               string
	Sensitive          bool
	IsScrollable       bool
	IsInViewport       bool
	XPath              string
	FrameSelectorChain []string
	TestIDUnique       bool
	PlaceholderUnique  bool
	Landmark           string
}

// Description renders the compact, human/LLM-legible label used in the
// symbolic state text.
func (d ElementDescriptor) Description() string {
	for _, s := range []string{d.TestID, d.AriaLabel, d.Placeholder, d.Text, d.Title, d.Alt} {
		if s != "" {
			return truncate(s, 60)
		}
	}
	return d.Tag
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

// Result is the Observer's output: the symbolic state text fed to the
// Planner and the semantic-ID → descriptor catalog fed to the Executor.
type Result struct {
	StateText string
	Catalog   map[string]ElementDescriptor
}

// Observer walks a page's frames and shadow trees and produces a Result.
type Observer struct {
	logger *slog.Logger
}

// New builds an Observer. A nil logger falls back to slog.Default().
func New(logger *slog.Logger) *Observer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Observer{logger: logger}
}

type jsFrame struct {
	Accessible bool          `json:"accessible"`
	Chain      []jsFrameAttr `json:"chain"`
}

type jsFrameAttr struct {
	Name    string `json:"name"`
	ID      string `json:"id"`
	Src     string `json:"src"`
	Ordinal int    `json:"ordinal"`
}

type jsSegment struct {
	Tag   string `json:"tag"`
	Index int    `json:"index"`
}

type jsElement struct {
	Tag               string      `json:"tag"`
	ID                string      `json:"id"`
	Segments          []jsSegment `json:"segments"`
	TestID            string      `json:"testId"`
	AriaLabel         string      `json:"ariaLabel"`
	Placeholder       string      `json:"placeholder"`
	Title             string      `json:"title"`
	Alt               string      `json:"alt"`
	Name              string      `json:"name"`
	Text              string      `json:"text"`
	InputType         string      `json:"inputType"`
	Role              string      `json:"role"`
	Sensitive         bool        `json:"sensitive"`
	IsScrollable      bool        `json:"isScrollable"`
	IsInViewport      bool        `json:"isInViewport"`
	TestIDUnique      bool        `json:"testIdUnique"`
	PlaceholderUnique bool        `json:"placeholderUnique"`
	Landmark          string      `json:"landmark"`
}

type jsWalkResult struct {
	URL      string      `json:"url"`
	Title    string      `json:"title"`
	Frame    jsFrame     `json:"frame"`
	Elements []jsElement `json:"elements"`
}

// Observe walks page (and every reachable same-origin frame within it)
// and returns the symbolic state plus the element catalog.
func (o *Observer) Observe(ctx context.Context, page *rod.Page) (*Result, error) {
	waitCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	_ = page.Context(waitCtx).WaitLoad()
	cancel()

	idleCtx, idleCancel := context.WithTimeout(ctx, 500*time.Millisecond)
	_ = page.Context(idleCtx).WaitIdle(500 * time.Millisecond)
	idleCancel()

	frames := []*rod.Page{page}
	if children, err := page.Frames(); err == nil {
		frames = append(frames, children...)
	} else {
		o.logger.Debug("observer: enumerate frames failed", "error", err)
	}

	catalog := make(map[string]ElementDescriptor)
	occurrences := make(map[string]int)

	var topURL, topTitle string
	var visible []ElementDescriptor
	var offscreenCount int

	for _, frame := range frames {
		raw, err := frame.Context(ctx).Eval(walkJS)
		if err != nil {
			o.logger.Debug("observer: frame inaccessible, skipping", "error", err)
			continue
		}

		var parsed jsWalkResult
		if err := json.Unmarshal([]byte(raw.Value.Str()), &parsed); err != nil {
			o.logger.Warn("observer: parse walk result failed", "error", err)
			continue
		}

		if frame == page {
			topURL, topTitle = parsed.URL, parsed.Title
		}
		if !parsed.Frame.Accessible {
			continue
		}

		chainAttrs := make([]frameAttrs, len(parsed.Frame.Chain))
		for i, c := range parsed.Frame.Chain {
			chainAttrs[i] = frameAttrs{Name: c.Name, ID: c.ID, Src: c.Src, Ordinal: c.Ordinal}
		}
		chain := buildFrameSelectorChain(chainAttrs)

		for _, el := range parsed.Elements {
			segs := make([]pathSegment, len(el.Segments))
			for i, s := range el.Segments {
				segs[i] = pathSegment{Tag: s.Tag, Index: s.Index}
			}
			xpath := buildXPath(el.ID, segs)

			text20 := firstNonDigitRunes(el.Text, 20)
			hash8 := semanticHash(el.Tag, el.TestID, el.Role, el.InputType, el.Placeholder, el.Name, text20)

			occ := occurrences[el.Tag+hash8]
			occurrences[el.Tag+hash8] = occ + 1
			id := semanticID(el.Tag, hash8, occ)

			desc := ElementDescriptor{
				SemanticID:         id,
				Tag:                el.Tag,
				InputType:          el.InputType,
				Role:               el.Role,
				TestID:             el.TestID,
				AriaLabel:          el.AriaLabel,
				Placeholder:        el.Placeholder,
				Title:              el.Title,
				Alt:                el.Alt,
				Text:               el.Text,
				Sensitive:          el.Sensitive,
				IsScrollable:       el.IsScrollable,
				IsInViewport:       el.IsInViewport,
				XPath:              xpath,
				FrameSelectorChain: chain,
				TestIDUnique:       el.TestIDUnique,
				PlaceholderUnique:  el.PlaceholderUnique,
				Landmark:           el.Landmark,
			}
			catalog[id] = desc

			if el.IsInViewport {
				visible = append(visible, desc)
			} else {
				offscreenCount++
			}
		}
	}

	stateText := renderStateText(topURL, topTitle, visible, offscreenCount)

	return &Result{StateText: stateText, Catalog: catalog}, nil
}

// renderStateText produces the URL/title header and per-visible-element
// lines described in spec §4.5 step 9, extended with landmark-aware
// "(in nav)"/"(in main)" grouping (SPEC_FULL.md supplemented feature #4,
// grounded on profiler/landmarks.go's HTML5-landmark detection) whenever
// the visible set spans more than one landmark.
func renderStateText(url, title string, visible []ElementDescriptor, offscreenCount int) string {
	sort.SliceStable(visible, func(i, j int) bool { return visible[i].SemanticID < visible[j].SemanticID })

	distinctLandmarks := make(map[string]bool)
	for _, d := range visible {
		if d.Landmark != "" {
			distinctLandmarks[d.Landmark] = true
		}
	}
	showLandmarks := len(distinctLandmarks) > 1

	var b strings.Builder
	fmt.Fprintf(&b, "URL: %s\nTitle: %s\n", url, title)

	for _, d := range visible {
		typeAttr := ""
		if d.InputType != "" {
			typeAttr = fmt.Sprintf("[type=%s]", d.InputType)
		}
		var flags []string
		if d.IsScrollable {
			flags = append(flags, "Scrollable")
		}
		if len(d.FrameSelectorChain) > 0 {
			flags = append(flags, "in Iframe")
		}
		if showLandmarks && d.Landmark != "" {
			flags = append(flags, fmt.Sprintf("in %s", d.Landmark))
		}
		flagStr := ""
		if len(flags) > 0 {
			flagStr = " (" + strings.Join(flags, ", ") + ")"
		}
		fmt.Fprintf(&b, "- %s%s %q [ID: %s]%s\n", d.Tag, typeAttr, d.Description(), d.SemanticID, flagStr)
	}

	if offscreenCount > 0 {
		fmt.Fprintf(&b, "... (%d more items are not visible. Use 'scroll' to explore.)\n", offscreenCount)
	}

	return b.String()
}
