package observer

import (
	"strconv"
	"strings"
)

// pathSegment is one step of an element's ancestor chain: its tag name and
// its 1-based index among same-tag siblings (0 means "only one of this
// tag here", matching the teacher's computeXPath convention of omitting
// the [n] suffix in that case).
type pathSegment struct {
	Tag   string
	Index int
}

// buildXPath assembles a deterministic, index-based XPath from root to
// element. If id is non-empty, the //*[@id="..."] shortcut is preferred,
// mirroring the teacher's nodeMap.computeXPath special case for elements
// with a stable id attribute.
func buildXPath(id string, segments []pathSegment) string {
	if id != "" {
		return `//*[@id="` + id + `"]`
	}

	var b strings.Builder
	for _, seg := range segments {
		b.WriteByte('/')
		b.WriteString(seg.Tag)
		if seg.Index > 0 {
			b.WriteByte('[')
			b.WriteString(strconv.Itoa(seg.Index))
			b.WriteByte(']')
		}
	}
	if b.Len() == 0 {
		return "/"
	}
	return b.String()
}
