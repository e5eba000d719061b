package observer

import (
	"strconv"
	"strings"
)

// frameAttrs carries the raw attributes of an iframe element, gathered
// from inside the owning (parent) frame's JS context.
type frameAttrs struct {
	Name      string
	ID        string
	Src       string
	Ordinal   int // 1-based position among all iframes in the parent, for nth-of-type
}

// frameSelector picks one candidate per spec §4.5 step 2: name, then id,
// then a src substring with the query string stripped, then a positional
// nth-of-type fallback.
func frameSelector(a frameAttrs) string {
	if a.Name != "" {
		return `iframe[name="` + a.Name + `"]`
	}
	if a.ID != "" {
		return `iframe[id="` + a.ID + `"]`
	}
	if path := srcWithoutQuery(a.Src); path != "" {
		return `iframe[src*="` + path + `"]`
	}
	return "iframe:nth-of-type(" + strconv.Itoa(a.Ordinal) + ")"
}

func srcWithoutQuery(src string) string {
	if src == "" {
		return ""
	}
	if i := strings.IndexByte(src, '?'); i >= 0 {
		src = src[:i]
	}
	return src
}

// buildFrameSelectorChain joins per-frame selectors from root to host
// frame, in walk order (root first).
func buildFrameSelectorChain(chain []frameAttrs) []string {
	out := make([]string, len(chain))
	for i, a := range chain {
		out[i] = frameSelector(a)
	}
	return out
}
