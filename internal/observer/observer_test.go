package observer

import (
	"strings"
	"testing"
)

func TestElementDescriptorDescriptionPrecedence(t *testing.T) {
	d := ElementDescriptor{Tag: "button", TestID: "", AriaLabel: "Close dialog", Text: "X"}
	if got := d.Description(); got != "Close dialog" {
		t.Errorf("got %q, want %q", got, "Close dialog")
	}

	d2 := ElementDescriptor{Tag: "div"}
	if got := d2.Description(); got != "div" {
		t.Errorf("fallback: got %q, want tag name", got)
	}
}

func TestElementDescriptorDescriptionTruncates(t *testing.T) {
	d := ElementDescriptor{Tag: "button", Text: strings.Repeat("x", 100)}
	got := d.Description()
	if len(got) != 60 {
		t.Errorf("expected truncation to 60 chars, got %d", len(got))
	}
}

func TestRenderStateTextIncludesOffscreenSummary(t *testing.T) {
	visible := []ElementDescriptor{
		{SemanticID: "button-aaaaaaaa-0", Tag: "button", Text: "Submit", IsInViewport: true},
	}
	got := renderStateText("https://example.com", "Example", visible, 3)

	if !strings.Contains(got, "URL: https://example.com") {
		t.Errorf("missing URL header: %q", got)
	}
	if !strings.Contains(got, "ID: button-aaaaaaaa-0") {
		t.Errorf("missing element ID line: %q", got)
	}
	if !strings.Contains(got, "3 more items are not visible") {
		t.Errorf("missing offscreen summary: %q", got)
	}
}

func TestRenderStateTextNoOffscreenSummaryWhenZero(t *testing.T) {
	got := renderStateText("https://example.com", "Example", nil, 0)
	if strings.Contains(got, "not visible") {
		t.Errorf("unexpected offscreen summary with zero count: %q", got)
	}
}

func TestRenderStateTextMarksScrollableAndIframe(t *testing.T) {
	visible := []ElementDescriptor{
		{SemanticID: "div-11111111-0", Tag: "div", IsScrollable: true, IsInViewport: true},
		{SemanticID: "button-22222222-0", Tag: "button", FrameSelectorChain: []string{`iframe[name="x"]`}, IsInViewport: true},
	}
	got := renderStateText("https://example.com", "Example", visible, 0)

	if !strings.Contains(got, "(Scrollable)") {
		t.Errorf("missing Scrollable flag: %q", got)
	}
	if !strings.Contains(got, "(in Iframe)") {
		t.Errorf("missing in Iframe flag: %q", got)
	}
}

func TestRenderStateTextGroupsByLandmarkWhenMultiplePresent(t *testing.T) {
	visible := []ElementDescriptor{
		{SemanticID: "a-11111111-0", Tag: "a", Text: "Home", Landmark: "nav", IsInViewport: true},
		{SemanticID: "button-22222222-0", Tag: "button", Text: "Submit", Landmark: "main", IsInViewport: true},
	}
	got := renderStateText("https://example.com", "Example", visible, 0)

	if !strings.Contains(got, "(in nav)") {
		t.Errorf("missing landmark grouping for nav: %q", got)
	}
	if !strings.Contains(got, "(in main)") {
		t.Errorf("missing landmark grouping for main: %q", got)
	}
}

func TestRenderStateTextOmitsLandmarkWhenOnlyOnePresent(t *testing.T) {
	visible := []ElementDescriptor{
		{SemanticID: "a-11111111-0", Tag: "a", Text: "Home", Landmark: "nav", IsInViewport: true},
		{SemanticID: "button-22222222-0", Tag: "button", Text: "Submit", Landmark: "nav", IsInViewport: true},
	}
	got := renderStateText("https://example.com", "Example", visible, 0)

	if strings.Contains(got, "(in nav)") {
		t.Errorf("unexpected landmark grouping with a single landmark: %q", got)
	}
}
