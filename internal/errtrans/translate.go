// Package errtrans maps raw browser-driver errors into a category label
// plus actionable advice the planner can act on. The classification is a
// pure, substring-matching function — first match wins — in the same
// style as the teacher's IsSufficient/textMarkupRatio heuristics
// (domwatch/internal/fetcher/detect.go): no driver-specific types cross
// the boundary, just an error's message.
package errtrans

import (
	"fmt"
	"strings"
)

// Category labels a translated error.
type Category string

const (
	CategoryTimeout             Category = "Timeout"
	CategoryClickIntercepted    Category = "Click-intercepted"
	CategoryDetached            Category = "Detached/Stale"
	CategoryNotVisible          Category = "Not-visible"
	CategoryNavigationFailed    Category = "Navigation-failed"
	CategorySelectorSynthFailed Category = "Selector-synthesis-failed"
	CategoryUnknown             Category = "Unknown"
)

const maxUnknownMessageLen = 200

// Translated is a category label plus advice suitable as planner input.
type Translated struct {
	Category Category
	Advice   string
}

// Error implements error so a Translated can be returned/wrapped directly.
func (t Translated) Error() string {
	return fmt.Sprintf("%s: %s", t.Category, t.Advice)
}

// Translate classifies err by message substring and returns advice. The
// first matching category wins; nil input classifies as Unknown with the
// advice "no error" rather than panicking, since callers sometimes translate
// defensively before checking for nil.
func Translate(err error) Translated {
	if err == nil {
		return Translated{Category: CategoryUnknown, Advice: "no error"}
	}

	msg := err.Error()
	lower := strings.ToLower(msg)

	switch {
	case strings.Contains(lower, "timeout") || strings.Contains(lower, "timed out") ||
		strings.Contains(lower, "deadline exceeded"):
		return Translated{
			Category: CategoryTimeout,
			Advice:   "The action timed out. The element may not exist, may be slow to appear, or the page may still be loading. Consider waiting, scrolling, or re-observing the page before retrying.",
		}

	case strings.Contains(lower, "intercept") || strings.Contains(lower, "click") && strings.Contains(lower, "overlay") ||
		strings.Contains(lower, "element click intercepted") || strings.Contains(lower, "other element would receive"):
		return Translated{
			Category: CategoryClickIntercepted,
			Advice:   "Another element (likely an overlay, modal, or cookie banner) is blocking this click. Dismiss the blocking element first, or choose a different target.",
		}

	case strings.Contains(lower, "detached") || strings.Contains(lower, "stale") ||
		strings.Contains(lower, "node is either not visible or not an html element") ||
		strings.Contains(lower, "context destroyed"):
		return Translated{
			Category: CategoryDetached,
			Advice:   "The target element is no longer attached to the page (it was removed or the page navigated). Re-observe the page and pick a fresh target ID.",
		}

	case strings.Contains(lower, "not visible") || strings.Contains(lower, "hidden") ||
		strings.Contains(lower, "not in viewport"):
		return Translated{
			Category: CategoryNotVisible,
			Advice:   "The target element exists but is not visible. Scroll it into view or reveal whatever is hiding it before interacting.",
		}

	case strings.Contains(lower, "navigat") || strings.Contains(lower, "err_name_not_resolved") ||
		strings.Contains(lower, "net::"):
		return Translated{
			Category: CategoryNavigationFailed,
			Advice:   "Navigation failed. Check the URL is correct and reachable, then retry or try an alternate route.",
		}

	case strings.Contains(lower, "failedrobustselector") || strings.Contains(lower, "no unique selector"):
		return Translated{
			Category: CategorySelectorSynthFailed,
			Advice:   "No selector could be found that uniquely and visibly matches this element right now. Re-observe the page; the element may have changed since it was catalogued.",
		}

	default:
		truncated := msg
		if len(truncated) > maxUnknownMessageLen {
			truncated = truncated[:maxUnknownMessageLen]
		}
		return Translated{
			Category: CategoryUnknown,
			Advice:   fmt.Sprintf("Unrecognised error: %s. Consider re-observing the page and trying a different approach.", truncated),
		}
	}
}
