package executor

import "testing"

func TestIsFatalMatchesClassifiedMessages(t *testing.T) {
	cases := []struct {
		msg  string
		want bool
	}{
		{"click: requires a target", true},
		{"navigate: requires a URL", true},
		{"click: target button-x not found in memory", true},
		{"Unsupported action: teleport", true},
		{"element detached from DOM", false},
		{"timeout waiting for selector", false},
	}
	for _, c := range cases {
		if got := isFatal(c.msg); got != c.want {
			t.Errorf("isFatal(%q): got %v, want %v", c.msg, got, c.want)
		}
	}
}

func TestParseTabIndexAcceptsPlainInteger(t *testing.T) {
	idx, err := parseTabIndex(" 2 ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if idx != 2 {
		t.Errorf("got %d, want 2", idx)
	}
}

func TestParseTabIndexRejectsNonInteger(t *testing.T) {
	if _, err := parseTabIndex("Checkout"); err == nil {
		t.Error("expected error for non-integer tab reference")
	}
}

func TestFailClassifiesRetryable(t *testing.T) {
	res := fail(errFor("timeout waiting for element"))
	if res.Success {
		t.Error("expected Success=false")
	}
	if !res.Retryable {
		t.Error("expected timeout to be retryable")
	}
}

func TestFailClassifiesFatal(t *testing.T) {
	res := fail(errFor("click: requires a target"))
	if res.Retryable {
		t.Error("expected missing-target error to be fatal (non-retryable)")
	}
}

type simpleErr string

func (e simpleErr) Error() string { return string(e) }

func errFor(msg string) error { return simpleErr(msg) }
