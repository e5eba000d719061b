package errtrans

import (
	"errors"
	"strings"
	"testing"
)

func TestTranslateCategories(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want Category
	}{
		{"timeout", errors.New("context deadline exceeded"), CategoryTimeout},
		{"explicit timeout word", errors.New("waiting for selector failed: timeout 30000ms exceeded"), CategoryTimeout},
		{"intercepted", errors.New("element click intercepted: another element would receive the click"), CategoryClickIntercepted},
		{"detached", errors.New("node is detached from document"), CategoryDetached},
		{"stale", errors.New("stale element reference"), CategoryDetached},
		{"not visible", errors.New("element is not visible"), CategoryNotVisible},
		{"navigation", errors.New("navigation failed: net::ERR_NAME_NOT_RESOLVED"), CategoryNavigationFailed},
		{"selector synth", errors.New("FailedRobustSelector: no unique selector"), CategorySelectorSynthFailed},
		{"unknown", errors.New("something completely unexpected happened"), CategoryUnknown},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := Translate(c.err)
			if got.Category != c.want {
				t.Errorf("Category: got %q, want %q", got.Category, c.want)
			}
			if got.Advice == "" {
				t.Errorf("Advice is empty for %q", c.name)
			}
		})
	}
}

func TestTranslateNilError(t *testing.T) {
	got := Translate(nil)
	if got.Category != CategoryUnknown {
		t.Errorf("nil error: got category %q", got.Category)
	}
}

func TestTranslateTruncatesUnknownMessage(t *testing.T) {
	long := strings.Repeat("x", 500)
	got := Translate(errors.New(long))
	if len(got.Advice) > maxUnknownMessageLen+100 {
		t.Errorf("advice not truncated: len=%d", len(got.Advice))
	}
}

func TestTranslatedImplementsError(t *testing.T) {
	var err error = Translate(errors.New("timeout"))
	if !strings.Contains(err.Error(), "Timeout") {
		t.Errorf("Error(): got %q", err.Error())
	}
}
