// Package synth is the Selector Synthesizer, the "double-check" of spec
// §4.6: given an Element Descriptor, it re-resolves a locator on the live
// page and accepts it only if it matches exactly one currently-visible
// node. Candidate order: test-id, role+name, placeholder, exact text,
// xpath (last resort).
//
// Live resolution uses go-rod's Elements/ElementsX (CSS/XPath, each
// returning every match so uniqueness is checkable) the same way the
// teacher queries the DOM from Go (domwatch/internal/profiler/landmarks.go
// uses page.Eval + querySelectorAll; here the match-and-count step itself
// runs through rod rather than a raw Eval, since rod already exposes it).
// The emitted CodeFragment uses the Playwright-style locator vocabulary
// named directly in the spec (getByTestId/getByRole/...), independent of
// the rod-based engine actually driving the live session.
package synth

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-rod/rod"

	"github.com/hazyhaar/flashloop/internal/observer"
)

// Candidate is a verified, currently-unique, currently-visible locator.
type Candidate struct {
	Kind         string
	Element      *rod.Element
	CodeFragment string
}

// ErrFailedRobustSelector is returned when every candidate fails.
type ErrFailedRobustSelector struct {
	SemanticID string
}

func (e ErrFailedRobustSelector) Error() string {
	return fmt.Sprintf("FailedRobustSelector: no unique, visible selector found for %s", e.SemanticID)
}

// Synthesize resolves desc against the live page, descending through its
// FrameSelectorChain first, and returns the first candidate that matches
// exactly one visible node.
func Synthesize(ctx context.Context, page *rod.Page, desc observer.ElementDescriptor) (*Candidate, error) {
	target := page
	for _, sel := range desc.FrameSelectorChain {
		iframeEl, err := target.Context(ctx).Element(sel)
		if err != nil {
			return nil, ErrFailedRobustSelector{SemanticID: desc.SemanticID}
		}
		frame, err := iframeEl.Frame()
		if err != nil {
			return nil, ErrFailedRobustSelector{SemanticID: desc.SemanticID}
		}
		target = frame
	}

	base := frameLocatorBase(desc.FrameSelectorChain)

	type attempt struct {
		kind string
		try  func() (*rod.Element, string)
	}

	attempts := []attempt{
		{"testId", func() (*rod.Element, string) {
			if desc.TestID == "" {
				return nil, ""
			}
			css := fmt.Sprintf(`[data-testid="%s"],[data-test-id="%s"]`, cssEscape(desc.TestID), cssEscape(desc.TestID))
			el := uniqueVisible(ctx, target, css)
			if el == nil {
				return nil, ""
			}
			return el, fmt.Sprintf("%s.getByTestId('%s')", base, escapeSingleQuotes(desc.TestID))
		}},
		{"role", func() (*rod.Element, string) {
			if desc.Role == "" {
				return nil, ""
			}
			name := firstNonEmpty(desc.AriaLabel, desc.Text)
			css := roleSelector(desc.Role)
			el := uniqueVisibleMatchingText(ctx, target, css, name)
			if el == nil {
				return nil, ""
			}
			return el, fmt.Sprintf("%s.getByRole('%s', { name: '%s', exact: true })", base, escapeSingleQuotes(desc.Role), escapeSingleQuotes(name))
		}},
		{"placeholder", func() (*rod.Element, string) {
			if desc.Placeholder == "" {
				return nil, ""
			}
			css := fmt.Sprintf(`[placeholder="%s"]`, cssEscape(desc.Placeholder))
			el := uniqueVisible(ctx, target, css)
			if el == nil {
				return nil, ""
			}
			return el, fmt.Sprintf("%s.getByPlaceholder('%s')", base, escapeSingleQuotes(desc.Placeholder))
		}},
		{"text", func() (*rod.Element, string) {
			if desc.Text == "" || desc.Sensitive {
				return nil, ""
			}
			xpath := fmt.Sprintf(`//*[normalize-space(string(.))="%s"]`, desc.Text)
			el := uniqueVisibleXPath(ctx, target, xpath)
			if el == nil {
				return nil, ""
			}
			return el, fmt.Sprintf("%s.getByText('%s', { exact: true })", base, escapeSingleQuotes(desc.Text))
		}},
		{"xpath", func() (*rod.Element, string) {
			if desc.XPath == "" {
				return nil, ""
			}
			el := uniqueVisibleXPath(ctx, target, desc.XPath)
			if el == nil {
				return nil, ""
			}
			return el, fmt.Sprintf("/* warning: xpath fallback, fragile across DOM changes */ %s.locator('%s')", base, escapeSingleQuotes(desc.XPath))
		}},
	}

	for _, a := range attempts {
		el, frag := a.try()
		if el != nil {
			return &Candidate{Kind: a.kind, Element: el, CodeFragment: frag}, nil
		}
	}

	return nil, ErrFailedRobustSelector{SemanticID: desc.SemanticID}
}

// frameLocatorBase renders the emitted-script base expression a locator
// chains off of: "page" with no frames, or nested frameLocator() calls
// for each hop in chain (spec §4.6: "chained after the frameSelectorChain
// as nested frame-locators").
func frameLocatorBase(chain []string) string {
	base := "page"
	for _, sel := range chain {
		base = fmt.Sprintf("%s.frameLocator('%s')", base, escapeSingleQuotes(sel))
	}
	return base
}

// implicitRoleSelectors maps an ARIA role to the native HTML elements that
// carry it implicitly (no "role" attribute needed), mirroring walk.js's own
// implicitRole() table. Without this, native controls never match the
// role-based candidate: a plain <button> or <input type="email"> has no
// "role" attribute at all, so matching only `[role="..."]` would always
// fall through to a weaker candidate for exactly the most common elements.
var implicitRoleSelectors = map[string]string{
	"link":     `a[href]`,
	"button":   `button, input[type="button"], input[type="submit"], input[type="reset"]`,
	"textbox":  `textarea, input:not([type]), input[type="text"], input[type="email"], input[type="tel"], input[type="search"], input[type="url"], input[type="password"]`,
	"checkbox": `input[type="checkbox"]`,
	"radio":    `input[type="radio"]`,
	"combobox": `select`,
}

// roleSelector builds the CSS selector a role candidate resolves against:
// the explicit [role=...] attribute plus whatever native elements carry
// that role implicitly.
func roleSelector(role string) string {
	css := fmt.Sprintf(`[role="%s"]`, cssEscape(role))
	if implicit, ok := implicitRoleSelectors[role]; ok {
		return implicit + `, ` + css
	}
	return css
}

func uniqueVisible(ctx context.Context, page *rod.Page, css string) *rod.Element {
	els, err := page.Context(ctx).Elements(css)
	if err != nil || len(els) != 1 {
		return nil
	}
	visible, err := els[0].Visible()
	if err != nil || !visible {
		return nil
	}
	return els[0]
}

func uniqueVisibleXPath(ctx context.Context, page *rod.Page, xpath string) *rod.Element {
	els, err := page.Context(ctx).ElementsX(xpath)
	if err != nil || len(els) != 1 {
		return nil
	}
	visible, err := els[0].Visible()
	if err != nil || !visible {
		return nil
	}
	return els[0]
}

func uniqueVisibleMatchingText(ctx context.Context, page *rod.Page, css, name string) *rod.Element {
	els, err := page.Context(ctx).Elements(css)
	if err != nil {
		return nil
	}
	var matches []*rod.Element
	for _, el := range els {
		if name == "" {
			matches = append(matches, el)
			continue
		}
		text, err := el.Text()
		if err != nil {
			continue
		}
		if strings.TrimSpace(text) == name {
			matches = append(matches, el)
		}
	}
	if len(matches) != 1 {
		return nil
	}
	visible, err := matches[0].Visible()
	if err != nil || !visible {
		return nil
	}
	return matches[0]
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// escapeSingleQuotes escapes every single quote in s so it can sit inside
// a single-quoted JS string literal in the emitted code fragment.
func escapeSingleQuotes(s string) string {
	return strings.ReplaceAll(s, "'", "\\'")
}

// cssEscape escapes characters that would break a double-quoted CSS
// attribute-selector value.
func cssEscape(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}
