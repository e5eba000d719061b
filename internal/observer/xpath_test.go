package observer

import "testing"

func TestBuildXPathPrefersID(t *testing.T) {
	got := buildXPath("login-btn", []pathSegment{{Tag: "div"}, {Tag: "button"}})
	want := `//*[@id="login-btn"]`
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestBuildXPathWithIndices(t *testing.T) {
	segments := []pathSegment{
		{Tag: "html"},
		{Tag: "body"},
		{Tag: "div", Index: 2},
		{Tag: "button"},
	}
	got := buildXPath("", segments)
	want := "/html/body/div[2]/button"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestBuildXPathDeterministic(t *testing.T) {
	segments := []pathSegment{{Tag: "div", Index: 3}, {Tag: "span"}}
	a := buildXPath("", segments)
	b := buildXPath("", segments)
	if a != b {
		t.Errorf("non-deterministic xpath build: %q vs %q", a, b)
	}
}
