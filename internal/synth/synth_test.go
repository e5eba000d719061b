package synth

import (
	"strings"
	"testing"
)

func TestEscapeSingleQuotes(t *testing.T) {
	got := escapeSingleQuotes(`Don't click`)
	want := `Don\'t click`
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestEscapeSingleQuotesNoop(t *testing.T) {
	got := escapeSingleQuotes("Submit")
	if got != "Submit" {
		t.Errorf("got %q, want unchanged", got)
	}
}

func TestCSSEscape(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{`say "hi"`, `say \"hi\"`},
		{`back\slash`, `back\\slash`},
		{"plain", "plain"},
	}
	for _, c := range cases {
		if got := cssEscape(c.in); got != c.want {
			t.Errorf("cssEscape(%q): got %q, want %q", c.in, got, c.want)
		}
	}
}

func TestFirstNonEmpty(t *testing.T) {
	if got := firstNonEmpty("", "", "third"); got != "third" {
		t.Errorf("got %q, want %q", got, "third")
	}
	if got := firstNonEmpty("", ""); got != "" {
		t.Errorf("got %q, want empty", got)
	}
}

func TestErrFailedRobustSelectorMessage(t *testing.T) {
	err := ErrFailedRobustSelector{SemanticID: "button-deadbeef-0"}
	if got := err.Error(); got == "" {
		t.Error("expected non-empty error message")
	}
}

func TestFrameLocatorBaseNoFrames(t *testing.T) {
	if got := frameLocatorBase(nil); got != "page" {
		t.Errorf("got %q, want %q", got, "page")
	}
}

func TestRoleSelectorCoversImplicitNativeElements(t *testing.T) {
	got := roleSelector("textbox")
	if !containsAll(got, `input[type="email"]`, `[role="textbox"]`) {
		t.Errorf("roleSelector(textbox) = %q, missing implicit or explicit match", got)
	}
	got = roleSelector("button")
	if !containsAll(got, "button", `[role="button"]`) {
		t.Errorf("roleSelector(button) = %q, missing implicit or explicit match", got)
	}
}

func TestRoleSelectorFallsBackToExplicitOnly(t *testing.T) {
	got := roleSelector("heading")
	if got != `[role="heading"]` {
		t.Errorf("roleSelector(heading) = %q, want explicit-only selector", got)
	}
}

func containsAll(s string, subs ...string) bool {
	for _, sub := range subs {
		if !strings.Contains(s, sub) {
			return false
		}
	}
	return true
}

func TestFrameLocatorBaseNestsChain(t *testing.T) {
	got := frameLocatorBase([]string{`iframe[name="a"]`, `iframe[name="b"]`})
	want := `page.frameLocator('iframe[name="a"]').frameLocator('iframe[name="b"]')`
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
